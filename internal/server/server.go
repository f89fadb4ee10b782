package server

import (
	"log/slog"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/meltforce/caltracker/internal/action"
	"github.com/meltforce/caltracker/internal/app"
	"github.com/meltforce/caltracker/internal/metrics"
	"github.com/meltforce/caltracker/internal/views"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures the optional parts of a Server.
type Options struct {
	// Prefix is the deployment path prefix; it must match the app's.
	Prefix string
	// APIKey protects /api/v1 when non-empty.
	APIKey  string
	Metrics *metrics.Manager
	// Gatherer, when set, is served at /metrics.
	Gatherer prometheus.Gatherer
	// MCP, when set, is mounted at /mcp.
	MCP http.Handler
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	app     *app.App
	log     *slog.Logger
	prefix  string
	apiKey  string
	metrics *metrics.Manager
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(a *app.App, log *slog.Logger, opts Options) *Server {
	s := &Server{
		app:     a,
		log:     log,
		prefix:  opts.Prefix,
		apiKey:  opts.APIKey,
		metrics: opts.Metrics,
		router:  chi.NewRouter(),
	}
	s.routes(opts)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(opts Options) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestLogging(s.log, s.metrics))
	s.router.Use(CORS)

	r := s.router
	if s.prefix != "" {
		r = chi.NewRouter()
		s.router.Mount(s.prefix, r)
		s.router.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, s.prefix+"/", http.StatusFound)
		})
	}

	// Views. Unknown GET navigations fall through to the app router, which shows
	// "/". File-like paths (favicon.ico, robots.txt) are plain 404s and leave the
	// current view alone.
	for _, view := range []string{"/", "/workout", "/builder", "/history", "/progress", "/settings", "/onboarding"} {
		r.Get(view, s.handleView)
	}
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet || path.Ext(req.URL.Path) != "" {
			http.NotFound(w, req)
			return
		}
		s.handleView(w, req)
	})
	r.Handle("/static/*", http.StripPrefix(s.prefix+"/static/", http.FileServerFS(views.Static())))

	// UI actions
	r.Post("/action/"+action.ExportData, s.handleExportDownload)
	r.Post("/action/"+action.ImportData, s.handleImportUpload)
	r.Post("/action/{name}", s.handleAction)

	// JSON API (API key required when configured)
	r.Route("/api/v1", func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(APIKeyAuth(s.apiKey))
		}
		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
		r.Get("/stats", s.handleStats)
		r.Get("/today", s.handleToday)
		r.Get("/history", s.handleHistory)
	})

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
	}
}
