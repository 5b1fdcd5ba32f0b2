package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/weeklyblog/internal/telemetry/metrics"
	"github.com/2beens/weeklyblog/internal/telemetry/tracing"
	"github.com/2beens/weeklyblog/pkg"
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

func (k Kind) Subdir() string {
	switch k {
	case KindImage:
		return "images"
	case KindVideo:
		return "videos"
	default:
		return ""
	}
}

var (
	ErrInvalidFilename = errors.New("invalid filename")
	ErrUnknownKind     = errors.New("unknown upload kind")
	ErrPathEscapesRoot = errors.New("path escapes upload root")
)

// FileTypeError is returned for files whose extension is not allowed for the upload kind.
type FileTypeError struct {
	Kind     Kind
	Filename string
}

func (e *FileTypeError) Error() string {
	return fmt.Sprintf("file type not allowed for %s: %s", e.Kind, e.Filename)
}

type Store struct {
	root           string
	allowedExt     map[Kind]map[string]bool
	metricsManager *metrics.Manager
	// injectable for tests
	now func() time.Time
}

func NewStore(
	root string,
	imageExt, videoExt []string,
	metricsManager *metrics.Manager,
) (*Store, error) {
	if root == "" {
		return nil, errors.New("upload root empty")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("upload root abs path: %w", err)
	}

	return &Store{
		root: absRoot,
		allowedExt: map[Kind]map[string]bool{
			KindImage: extSet(imageExt),
			KindVideo: extSet(videoExt),
		},
		metricsManager: metricsManager,
		now:            time.Now,
	}, nil
}

func extSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			set[ext] = true
		}
	}
	return set
}

func (s *Store) Root() string {
	return s.root
}

// EnsureDirs creates the upload root together with the per kind subdirectories.
func (s *Store) EnsureDirs() error {
	if _, err := pkg.PathExists(s.root, true); err != nil {
		return fmt.Errorf("check upload root: %w", err)
	}
	for _, kind := range []Kind{KindImage, KindVideo} {
		dir := filepath.Join(s.root, kind.Subdir())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create upload dir %s: %w", dir, err)
		}
	}
	return nil
}

// Validate checks the filename against the allowed extensions of the kind,
// and returns its sanitized form. It has no side effects.
func (s *Store) Validate(filename string, kind Kind) (string, error) {
	allowed, ok := s.allowedExt[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	sanitized := SanitizeFilename(filename)
	if sanitized == "" {
		return "", ErrInvalidFilename
	}

	if !allowed[Extension(sanitized)] {
		return "", &FileTypeError{Kind: kind, Filename: sanitized}
	}

	return sanitized, nil
}

// Save validates the filename and writes r under the kind subdirectory.
// It returns the path relative to the upload root, e.g. images/20240101_120000_000000_photo.png.
func (s *Store) Save(ctx context.Context, r io.Reader, filename string, kind Kind) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "uploads.Save")
	span.SetAttributes(attribute.String("kind", string(kind)))
	defer tracing.EndSpanWithErrCheck(span, &err)

	sanitized, err := s.Validate(filename, kind)
	if err != nil {
		return "", err
	}

	finalName := timestampPrefix(s.now()) + "_" + sanitized
	dir := filepath.Join(s.root, kind.Subdir())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	absPath := filepath.Join(dir, finalName)
	f, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	written, copyErr := io.Copy(f, &ctxReader{ctx: ctx, r: r})
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		if rmErr := os.Remove(absPath); rmErr != nil {
			log.Errorf("remove partial upload %s: %s", absPath, rmErr)
		}
		if copyErr != nil {
			return "", fmt.Errorf("write upload: %w", copyErr)
		}
		return "", fmt.Errorf("close upload: %w", closeErr)
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterUploadsSaved.WithLabelValues(string(kind)).Inc()
	}

	relPath := path.Join(kind.Subdir(), finalName)
	log.Debugf("upload saved: %s (%d bytes)", relPath, written)

	return relPath, nil
}

// Remove deletes a previously saved upload, given its path relative to the root.
func (s *Store) Remove(relPath string) error {
	absPath, err := s.Resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(absPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// Resolve maps a slash separated path relative to the root to an absolute path,
// making sure it stays inside the upload root.
func (s *Store) Resolve(relPath string) (string, error) {
	absPath := filepath.Join(s.root, filepath.FromSlash(relPath))
	rel, err := filepath.Rel(s.root, absPath)
	if err != nil {
		return "", ErrPathEscapesRoot
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrPathEscapesRoot
	}
	return absPath, nil
}

// Extension returns the lower cased text after the last dot, empty if there is none.
func Extension(filename string) string {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

func timestampPrefix(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s_%06d", t.Format("20060102_150405"), t.Nanosecond()/1000)
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
