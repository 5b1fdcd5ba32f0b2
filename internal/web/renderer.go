package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/2beens/weeklyblog/pkg"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutTemplate = "templates/layout.html"

var pages = []string{
	"home",
	"post",
	"admin_login",
	"admin_posts",
	"admin_new_post",
}

// Page is the data passed to every template.
type Page struct {
	Title   string
	Flashes []Flash
	IsAdmin bool
	Body    any
}

type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"date": func(t time.Time) string {
			return t.UTC().Format("2006-01-02")
		},
		"datetime": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04 UTC")
		},
		"uploadURL": func(relPath string) string {
			return "/uploads/" + strings.TrimPrefix(path.Clean("/"+relPath), "/")
		},
	}

	r := &Renderer{
		pages: make(map[string]*template.Template, len(pages)),
	}
	for _, page := range pages {
		t, err := template.New(path.Base(layoutTemplate)).
			Funcs(funcs).
			ParseFS(templatesFS, layoutTemplate, "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.pages[page] = t
	}

	return r, nil
}

// Render executes the page template into a buffer first, so a failing template
// never produces a half written response.
func (r *Renderer) Render(w http.ResponseWriter, statusCode int, page string, data Page) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page: %s", page)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute template %s: %w", page, err)
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.HTML, buf.Bytes(), statusCode)
	return nil
}

// StaticHandler serves the embedded static assets under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// static is embedded at compile time
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
