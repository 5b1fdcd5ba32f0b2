package blog

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/weeklyblog/internal/web"
)

// in memory part of the multipart form; larger files spill to temp files
const multipartMemoryLimit = 32 << 20

type AdminHandler struct {
	repo      pageRepo
	publisher *Publisher
	renderer  *web.Renderer
	sessions  *web.Sessions
}

func NewAdminHandler(
	repo pageRepo,
	publisher *Publisher,
	renderer *web.Renderer,
	sessions *web.Sessions,
) *AdminHandler {
	return &AdminHandler{
		repo:      repo,
		publisher: publisher,
		renderer:  renderer,
		sessions:  sessions,
	}
}

// SetupRoutes registers the admin pages, each wrapped with adminOnly.
func (handler *AdminHandler) SetupRoutes(router *mux.Router, adminOnly func(http.Handler) http.Handler) {
	router.Handle("/admin", adminOnly(http.HandlerFunc(handler.handlePosts))).Methods("GET").Name("admin-posts")
	router.Handle("/admin/new", adminOnly(http.HandlerFunc(handler.handleNewPostForm))).Methods("GET").Name("admin-new-post-form")
	router.Handle("/admin/new", adminOnly(http.HandlerFunc(handler.handleNewPost))).Methods("POST").Name("admin-new-post")
}

func (handler *AdminHandler) handlePosts(w http.ResponseWriter, r *http.Request) {
	posts, err := handler.repo.AllPosts(r.Context())
	if err != nil {
		log.Errorf("admin, get all posts: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.render(w, r, "admin_posts", "Posts", struct{ Posts []*Post }{Posts: posts})
}

func (handler *AdminHandler) handleNewPostForm(w http.ResponseWriter, r *http.Request) {
	handler.render(w, r, "admin_new_post", "New post", nil)
}

func (handler *AdminHandler) handleNewPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			log.Warnf("admin new post, body over %d bytes", maxBytesErr.Limit)
			handler.flashAndRedirect(w, r, "Upload too large.", "/admin/new")
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			log.Errorf("admin new post, parse form: %s", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if err := r.ParseForm(); err != nil {
			log.Errorf("admin new post, parse form: %s", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
	}
	if r.MultipartForm != nil {
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				log.Warnf("admin new post, remove multipart temp files: %s", err)
			}
		}()
	}

	req := NewPostRequest{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
	}

	image, closeImage, err := formUpload(r, "image")
	if err != nil {
		log.Errorf("admin new post, read image: %s", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	defer closeImage()
	req.Image = image

	video, closeVideo, err := formUpload(r, "video")
	if err != nil {
		log.Errorf("admin new post, read video: %s", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	defer closeVideo()
	req.Video = video

	post, err := handler.publisher.Publish(r.Context(), req)
	if err != nil {
		if msg, ok := FlashMessage(err); ok {
			handler.flashAndRedirect(w, r, msg, "/admin/new")
			return
		}
		log.Errorf("admin new post, publish: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Tracef("admin new post %d published with slug [%s]", post.ID, post.Slug)
	handler.sessions.AddFlash(w, r, web.FlashSuccess, "Post published!")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (handler *AdminHandler) flashAndRedirect(w http.ResponseWriter, r *http.Request, msg, to string) {
	handler.sessions.AddFlash(w, r, web.FlashError, msg)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (handler *AdminHandler) render(w http.ResponseWriter, r *http.Request, page, title string, body any) {
	if err := handler.renderer.Render(w, http.StatusOK, page, web.Page{
		Title:   title,
		Flashes: handler.sessions.Flashes(w, r),
		IsAdmin: true,
		Body:    body,
	}); err != nil {
		log.Errorf("render %s: %s", page, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// formUpload returns the uploaded file of the field, or nil when none was sent.
func formUpload(r *http.Request, field string) (*Upload, func(), error) {
	noop := func() {}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, fmt.Errorf("form file %s: %w", field, err)
	}
	if header.Filename == "" {
		closeFile(file, field)
		return nil, noop, nil
	}

	return &Upload{
		Filename: header.Filename,
		File:     file,
	}, func() { closeFile(file, field) }, nil
}

func closeFile(file multipart.File, field string) {
	if err := file.Close(); err != nil {
		log.Warnf("close uploaded %s: %s", field, err)
	}
}
