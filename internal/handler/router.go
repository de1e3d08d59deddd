package handler

import (
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/joestump/prompt-generator/internal/api"
	"github.com/joestump/prompt-generator/internal/generator"
	"github.com/joestump/prompt-generator/internal/logging"
	"github.com/joestump/prompt-generator/web"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	SessionManager *scs.SessionManager
	Generator      *generator.Service
	Logger         *zap.Logger
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(deps.Logger))
	r.Use(middleware.Recoverer)

	// Static assets (embedded). Use fs.Sub so the file server sees
	// css/app.css and js/app.js directly, not static/css/... paths.
	staticSub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("failed to sub static FS: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServer(http.FS(staticSub))))

	r.Get("/healthz", Health(deps.Generator))
	r.Handle("/metrics", promhttp.Handler())

	// JSON API is stateless; it never touches the session slot.
	r.Mount("/api/v1", api.NewAPIRouter(api.Deps{Generator: deps.Generator}))

	// Session-backed page routes.
	gen := NewGeneratorHandler(deps.Generator, deps.SessionManager, deps.Logger)
	themeHandler := NewThemeHandler()
	r.Group(func(r chi.Router) {
		r.Use(deps.SessionManager.LoadAndSave)
		r.Get("/", gen.Index)
		r.Post("/generate", gen.Generate)
		r.Post("/theme", themeHandler.Toggle)
	})

	return r
}
