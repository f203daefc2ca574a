package fileserver

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/stauffenbits/casg/internal/domain"
)

type Handler struct {
	fs       hidingFS
	files    http.Handler
	hidePath []string
	fallback string
}

type Option func(*Handler)

// WithFallback serves name (relative to the root) for GET/HEAD requests that would 404.
func WithFallback(name string) Option {
	return func(h *Handler) { h.fallback = name }
}

// WithHidden answers 404 for the given files, whatever URL or symlink reaches them,
// and drops them from directory listings. Paths that do not exist are ignored.
func WithHidden(paths ...string) Option {
	return func(h *Handler) { h.hidePath = append(h.hidePath, paths...) }
}

// New returns a handler serving the directory tree under root.
func New(root string, opts ...Option) (*Handler, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &domain.OpError{Op: "fileserver.new", Kind: domain.KindInvalidConfig, Path: root, Err: err}
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, &domain.OpError{Op: "fileserver.new", Kind: domain.KindNotFound, Path: abs, Err: fmt.Errorf("%w: %w", domain.ErrNotFound, err)}
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, &domain.OpError{Op: "fileserver.new", Kind: domain.KindNotFound, Path: abs, Err: fmt.Errorf("%w: %w", domain.ErrNotFound, err)}
	}
	if !info.IsDir() {
		return nil, &domain.OpError{
			Op:   "fileserver.new",
			Kind: domain.KindInvalidConfig,
			Path: abs,
			Err:  errors.New("document root is not a directory"),
		}
	}

	h := &Handler{}
	for _, opt := range opts {
		opt(h)
	}

	h.fs = hidingFS{dir: http.Dir(resolved)}
	for _, p := range h.hidePath {
		if fi, err := os.Stat(p); err == nil {
			h.fs.hidden = append(h.fs.hidden, fi)
		}
	}
	h.files = http.FileServer(h.fs)

	if h.fallback != "" {
		if err := h.checkFallback(); err != nil {
			return nil, &domain.OpError{Op: "fileserver.fallback", Kind: domain.KindInvalidConfig, Path: h.fallback, Err: err}
		}
	}

	return h, nil
}

func (h *Handler) checkFallback() error {
	f, err := h.fs.Open("/" + h.fallback)
	if err != nil {
		if errors.Is(err, errHidden) {
			return errors.New("fallback must not be a hidden file")
		}
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("%s is a directory", h.fallback)
	}
	return nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.fallback != "" && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		upath := r.URL.Path
		if !strings.HasPrefix(upath, "/") {
			upath = "/" + upath
		}
		if !h.exists(path.Clean(upath)) {
			h.serveFallback(w, r)
			return
		}
	}

	h.files.ServeHTTP(w, r)
}

// exists treats hidden files as existing so they get the file server's 404, not the fallback.
func (h *Handler) exists(name string) bool {
	f, err := h.fs.Open(name)
	if err != nil {
		return errors.Is(err, errHidden) || !errors.Is(err, fs.ErrNotExist)
	}
	_ = f.Close()
	return true
}

func (h *Handler) serveFallback(w http.ResponseWriter, r *http.Request) {
	f, err := h.fs.Open("/" + h.fallback)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
}

// Build assembles the document-root handler for cfg, wrapped with access logging.
func Build(cfg domain.Config, log *slog.Logger) (http.Handler, error) {
	var opts []Option
	if cfg.Root.Fallback != "" {
		opts = append(opts, WithFallback(cfg.Root.Fallback))
	}
	if cfg.Root.HideKey {
		opts = append(opts, WithHidden(cfg.TLS.KeyFile))
	}

	h, err := New(cfg.Root.Dir, opts...)
	if err != nil {
		return nil, err
	}

	if !cfg.Log.Access || log == nil {
		return h, nil
	}
	return AccessLog(log, h), nil
}
