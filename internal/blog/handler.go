package blog

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/weeklyblog/internal/web"
	"github.com/2beens/weeklyblog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=blog_test

type pageRepo interface {
	PostBySlug(ctx context.Context, slug string) (*Post, error)
	TodaysPost(ctx context.Context, today time.Time) (*Post, error)
	RecentPosts(ctx context.Context, today time.Time, days int) ([]*Post, error)
	AllPosts(ctx context.Context) ([]*Post, error)
}

type commentResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

type commentsPageResponse struct {
	Comments   []commentResponse `json:"comments"`
	NextOffset int               `json:"next_offset"`
	HasMore    bool              `json:"has_more"`
	Total      int               `json:"total"`
}

type commentsSection struct {
	Post     *Post
	Comments CommentsPage
}

type homeBody struct {
	TodaysPost     *Post
	TodaysComments commentsSection
	RecentPosts    []*Post
}

type postBody struct {
	Post     *Post
	IsToday  bool
	Comments commentsSection
}

type Handler struct {
	repo     pageRepo
	comments *CommentsService
	renderer *web.Renderer
	sessions *web.Sessions
	now      func() time.Time
}

func NewHandler(
	repo pageRepo,
	comments *CommentsService,
	renderer *web.Renderer,
	sessions *web.Sessions,
) *Handler {
	return &Handler{
		repo:     repo,
		comments: comments,
		renderer: renderer,
		sessions: sessions,
		now:      time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/", handler.handleHome).Methods("GET").Name("home")
	router.HandleFunc("/post/{slug}", handler.handlePost).Methods("GET").Name("post")
	router.HandleFunc("/post/{slug}/comment", handler.handleAddComment).Methods("POST").Name("add-comment")
	router.HandleFunc("/post/{slug}/comments", handler.handleComments).Methods("GET").Name("comments-page")
}

func (handler *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := handler.now().UTC()

	body := homeBody{}
	todaysPost, err := handler.repo.TodaysPost(ctx, now)
	switch {
	case err == nil:
		page, err := handler.comments.List(ctx, todaysPost.ID, 0)
		if err != nil {
			log.Errorf("home, list comments of post %d: %s", todaysPost.ID, err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		body.TodaysPost = todaysPost
		body.TodaysComments = commentsSection{Post: todaysPost, Comments: page}
	case errors.Is(err, ErrPostNotFound):
		// nothing published today
	default:
		log.Errorf("home, get todays post: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	body.RecentPosts, err = handler.repo.RecentPosts(ctx, now, PublishIntervalDays)
	if err != nil {
		log.Errorf("home, get recent posts: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.render(w, r, http.StatusOK, "home", "", body)
}

func (handler *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	post, ok := handler.postFromPath(w, r)
	if !ok {
		return
	}

	page, err := handler.comments.List(r.Context(), post.ID, 0)
	if err != nil {
		log.Errorf("post page, list comments of post %d: %s", post.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.render(w, r, http.StatusOK, "post", post.Title, postBody{
		Post:     post,
		IsToday:  post.IsToday(handler.now()),
		Comments: commentsSection{Post: post, Comments: page},
	})
}

func (handler *Handler) handleAddComment(w http.ResponseWriter, r *http.Request) {
	post, ok := handler.postFromPath(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Errorf("add comment, parse form: %s", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	redirectTo := RedirectTarget(r, "/post/"+post.Slug)

	_, err := handler.comments.Add(r.Context(), post.ID, NewCommentRequest{
		Name: r.Form.Get("name"),
		Text: r.Form.Get("text"),
	})
	if err != nil {
		if msg, ok := FlashMessage(err); ok {
			handler.sessions.AddFlash(w, r, web.FlashError, msg)
			http.Redirect(w, r, redirectTo, http.StatusSeeOther)
			return
		}
		log.Errorf("add comment to post %d: %s", post.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.sessions.AddFlash(w, r, web.FlashSuccess, "Comment posted!")
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}

func (handler *Handler) handleComments(w http.ResponseWriter, r *http.Request) {
	post, ok := handler.postFromPath(w, r)
	if !ok {
		return
	}

	offset := ParseOffset(r.URL.Query().Get("offset"))
	page, err := handler.comments.List(r.Context(), post.ID, offset)
	if err != nil {
		log.Errorf("comments page, post %d offset %d: %s", post.ID, offset, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := commentsPageResponse{
		Comments:   make([]commentResponse, 0, len(page.Comments)),
		NextOffset: page.NextOffset,
		HasMore:    page.HasMore,
		Total:      page.Total,
	}
	for _, c := range page.Comments {
		resp.Comments = append(resp.Comments, commentResponse{
			ID:        c.ID,
			Name:      c.Name,
			Text:      c.Text,
			CreatedAt: c.CreatedAtDisplay(),
		})
	}

	if err := pkg.WriteJSON(w, resp, http.StatusOK); err != nil {
		log.Errorf("comments page, marshal response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// postFromPath loads the post named by the slug path var, and writes
// the error response itself when that fails.
func (handler *Handler) postFromPath(w http.ResponseWriter, r *http.Request) (*Post, bool) {
	slug := mux.Vars(r)["slug"]
	post, err := handler.repo.PostBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.NotFound(w, r)
			return nil, false
		}
		log.Errorf("get post by slug [%s]: %s", slug, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return post, true
}

func (handler *Handler) render(w http.ResponseWriter, r *http.Request, status int, page, title string, body any) {
	if err := handler.renderer.Render(w, status, page, web.Page{
		Title:   title,
		Flashes: handler.sessions.Flashes(w, r),
		IsAdmin: handler.sessions.AdminToken(r) != "",
		Body:    body,
	}); err != nil {
		log.Errorf("render %s: %s", page, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// RedirectTarget returns the path of the referer when it points to this host,
// and fallback otherwise.
func RedirectTarget(r *http.Request, fallback string) string {
	referer := r.Referer()
	if referer == "" {
		return fallback
	}
	refURL, err := url.Parse(referer)
	if err != nil {
		return fallback
	}
	if refURL.Host != "" && refURL.Host != r.Host {
		return fallback
	}
	if refURL.Path == "" || refURL.Path[0] != '/' {
		return fallback
	}
	return refURL.RequestURI()
}
