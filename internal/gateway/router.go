package gateway

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	MaxBodyBytes int64
	// StaticDir, when set, is served at / for GET requests.
	StaticDir string
	// RateLimit guards POST /bfhl when non-nil.
	RateLimit func(http.Handler) http.Handler
	// TrustForwardedHeaders rewrites RemoteAddr from X-Forwarded-For and
	// X-Real-IP. Without it the socket peer is the client address.
	TrustForwardedHeaders bool
}

// NewRouter builds the HTTP routes: POST /bfhl, GET /health, optional static
// files, and a 404 envelope for everything else.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	if opts.TrustForwardedHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestID)
	r.Use(AccessLog)
	r.Use(Recoverer(h.Email))
	r.Use(SecurityHeaders)
	r.Use(middleware.GetHead)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.NotFound)

	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		if opts.RateLimit != nil {
			r.Use(opts.RateLimit)
		}
		if opts.MaxBodyBytes > 0 {
			r.Use(middleware.RequestSize(opts.MaxBodyBytes))
		}
		r.Post("/bfhl", h.Compute)
	})

	if opts.StaticDir != "" {
		r.Get("/*", staticFiles(opts.StaticDir, h.NotFound))
	}
	return r
}

// staticFiles serves existing files under dir and falls through to notFound
// for anything else.
func staticFiles(dir string, notFound http.HandlerFunc) http.HandlerFunc {
	fs := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		info, err := os.Stat(name)
		if err != nil {
			notFound(w, r)
			return
		}
		if info.IsDir() {
			if _, err := os.Stat(filepath.Join(name, "index.html")); err != nil {
				notFound(w, r)
				return
			}
		}
		fs.ServeHTTP(w, r)
	}
}
