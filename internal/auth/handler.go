package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/weeklyblog/internal/web"
	"github.com/2beens/weeklyblog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

const invalidCredentialsMsg = "Invalid credentials."

type usersFinder interface {
	UserByUsername(ctx context.Context, username string) (*User, error)
}

type sessionsService interface {
	Login(ctx context.Context, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
}

type LoginRequest struct {
	Username string `validate:"required,max=80"`
	Password string `validate:"required"`
}

type Handler struct {
	users    usersFinder
	service  sessionsService
	checker  Checker
	renderer *web.Renderer
	sessions *web.Sessions
	validate *validator.Validate
	now      func() time.Time
}

func NewHandler(
	users usersFinder,
	service sessionsService,
	checker Checker,
	renderer *web.Renderer,
	sessions *web.Sessions,
) *Handler {
	return &Handler{
		users:    users,
		service:  service,
		checker:  checker,
		renderer: renderer,
		sessions: sessions,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

// SetupRoutes registers the login and logout routes. loginLimiter wraps the login
// form submission, adminOnly wraps logout.
func (handler *Handler) SetupRoutes(
	router *mux.Router,
	loginLimiter func(http.Handler) http.Handler,
	adminOnly func(http.Handler) http.Handler,
) {
	router.HandleFunc("/admin/login", handler.handleLoginForm).Methods("GET").Name("login-form")
	router.Handle("/admin/login", loginLimiter(http.HandlerFunc(handler.handleLogin))).Methods("POST").Name("login")
	router.Handle("/admin/logout", adminOnly(http.HandlerFunc(handler.handleLogout))).Methods("GET").Name("logout")
}

func (handler *Handler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if token := handler.sessions.AdminToken(r); token != "" {
		isLogged, err := handler.checker.IsLogged(r.Context(), token)
		if err != nil {
			log.Errorf("login form, check session: %s", err)
		}
		if isLogged {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
	}

	if err := handler.renderer.Render(w, http.StatusOK, "admin_login", web.Page{
		Title:   "Admin login",
		Flashes: handler.sessions.Flashes(w, r),
	}); err != nil {
		log.Errorf("render admin_login: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Errorf("login, parse form: %s", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	req := LoginRequest{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Password: r.PostForm.Get("password"),
	}
	if err := handler.validate.Struct(req); err != nil {
		handler.invalidCredentials(w, r)
		return
	}

	user, err := handler.users.UserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Warnf("login, unknown user [%s] from %s", req.Username, pkg.ReadUserIP(r))
			handler.invalidCredentials(w, r)
			return
		}
		log.Errorf("login, get user [%s]: %s", req.Username, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !user.IsAdmin || !pkg.CheckPasswordHash(req.Password, user.PasswordHash) {
		log.Warnf("login, wrong credentials for [%s] from %s", req.Username, pkg.ReadUserIP(r))
		handler.invalidCredentials(w, r)
		return
	}

	token, err := handler.service.Login(r.Context(), handler.now())
	if err != nil {
		log.Errorf("login, create session: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := handler.sessions.SetAdminToken(w, r, token); err != nil {
		log.Errorf("login, save session cookie: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Infof("login, admin [%s] logged in", user.Username)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := handler.sessions.AdminToken(r); token != "" {
		if _, err := handler.service.Logout(r.Context(), token); err != nil {
			log.Errorf("logout, remove session: %s", err)
		}
	}

	if err := handler.sessions.ClearAdminToken(w, r); err != nil {
		log.Errorf("logout, clear session cookie: %s", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (handler *Handler) invalidCredentials(w http.ResponseWriter, r *http.Request) {
	handler.sessions.AddFlash(w, r, web.FlashError, invalidCredentialsMsg)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}
