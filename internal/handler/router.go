package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zhouzirui/z-mood/backend/internal/handler/analyze"
	"github.com/zhouzirui/z-mood/backend/internal/handler/history"
	"github.com/zhouzirui/z-mood/backend/internal/handler/stats"
	"github.com/zhouzirui/z-mood/backend/internal/handler/stream"
	"github.com/zhouzirui/z-mood/backend/internal/metrics"
	middlewarePkg "github.com/zhouzirui/z-mood/backend/internal/middleware"
	analyzeService "github.com/zhouzirui/z-mood/backend/internal/service/analyze"
	"github.com/zhouzirui/z-mood/backend/pkg/utils"
)

// Deps are the services the HTTP layer is built on.
type Deps struct {
	Analyze     *analyzeService.Service
	Feed        stream.Subscriber
	CORSOrigins []string
	// Registry enables /metrics and HTTP instrumentation when non-nil.
	Registry *prometheus.Registry
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.CORSOrigins))
	if deps.Registry != nil {
		r.Use(metrics.NewHTTP(deps.Registry).Middleware)
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Registry))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		analyze.New(deps.Analyze).RegisterRoutes(api)
		history.New(deps.Analyze).RegisterRoutes(api)
		stats.New(deps.Analyze).RegisterRoutes(api)

		if deps.Feed != nil {
			stream.New(deps.Feed, deps.CORSOrigins).RegisterRoutes(api)
		}
	})

	return r
}
