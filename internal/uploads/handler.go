package uploads

import (
	"errors"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{
		store: store,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.Handle(
		"/uploads/{filepath:.+}",
		otelhttp.NewHandler(http.HandlerFunc(h.HandleServe), "uploads.serve"),
	).Methods("GET", "HEAD").Name("serve-upload")
}

func (h *Handler) HandleServe(w http.ResponseWriter, r *http.Request) {
	relPath := mux.Vars(r)["filepath"]
	if relPath == "" {
		http.NotFound(w, r)
		return
	}

	absPath, err := h.store.Resolve(relPath)
	if err != nil {
		log.Warnf("upload serve, rejected path [%s]: %s", relPath, err)
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	f, err := os.Open(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		log.Errorf("upload serve, open %s: %s", absPath, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Errorf("upload serve, close %s: %s", absPath, err)
		}
	}()

	stat, err := f.Stat()
	if err != nil {
		log.Errorf("upload serve, stat %s: %s", absPath, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if stat.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeContent(w, r, stat.Name(), stat.ModTime(), f)
}
