package web

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	log "github.com/sirupsen/logrus"
)

const (
	sessionName   = "weeklyblog_session"
	adminTokenKey = "admin_token"

	FlashError   = "error"
	FlashSuccess = "success"
)

type Flash struct {
	Category string
	Message  string
}

// Sessions keeps the admin session token and one-shot flash messages
// in a signed cookie.
type Sessions struct {
	store sessions.Store
}

func NewSessions(secretKey []byte, secure bool, maxAge time.Duration) *Sessions {
	store := sessions.NewCookieStore(secretKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{
		store: store,
	}
}

func (s *Sessions) session(r *http.Request) *sessions.Session {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		// invalid or tampered cookie, a fresh session is returned anyway
		log.Debugf("sessions, decode cookie: %s", err)
	}
	return session
}

func (s *Sessions) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) {
	session := s.session(r)
	session.AddFlash(message, category)
	if err := session.Save(r, w); err != nil {
		log.Errorf("sessions, save flash: %s", err)
	}
}

// Flashes pops all pending flash messages, errors first.
func (s *Sessions) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	session := s.session(r)

	var flashes []Flash
	for _, category := range []string{FlashError, FlashSuccess} {
		for _, f := range session.Flashes(category) {
			if msg, ok := f.(string); ok {
				flashes = append(flashes, Flash{Category: category, Message: msg})
			}
		}
	}

	if len(flashes) > 0 {
		if err := session.Save(r, w); err != nil {
			log.Errorf("sessions, save after flashes pop: %s", err)
		}
	}

	return flashes
}

func (s *Sessions) AdminToken(r *http.Request) string {
	token, _ := s.session(r).Values[adminTokenKey].(string)
	return token
}

func (s *Sessions) SetAdminToken(w http.ResponseWriter, r *http.Request, token string) error {
	session := s.session(r)
	session.Values[adminTokenKey] = token
	return session.Save(r, w)
}

func (s *Sessions) ClearAdminToken(w http.ResponseWriter, r *http.Request) error {
	session := s.session(r)
	delete(session.Values, adminTokenKey)
	return session.Save(r, w)
}
