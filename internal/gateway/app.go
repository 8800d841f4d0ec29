package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Skyshop/internal/basket"
	"Skyshop/internal/catalog"
	"Skyshop/internal/session"
	"Skyshop/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	// TrustProxy rewrites RemoteAddr from X-Forwarded-For / X-Real-IP.
	// Enable only when every request passes through a trusted proxy.
	TrustProxy bool
}

type Deps struct {
	Catalog  *catalog.Server
	Basket   *basket.Server
	Sessions *session.Manager

	// ReadyChecks are probed by /readyz, keyed by dependency name.
	ReadyChecks map[string]func(context.Context) error
}

const readyTimeout = 2 * time.Second

var errMissingDeps = errors.New("gateway: catalog, basket and sessions are required")

func NewHandler(deps Deps, httpDeps HTTPDeps) (http.Handler, error) {
	if deps.Catalog == nil || deps.Basket == nil || deps.Sessions == nil {
		return nil, errMissingDeps
	}

	r := chi.NewRouter()
	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps.ReadyChecks, httpDeps.Log))

	r.Route("/api", func(api chi.Router) {
		deps.Catalog.RegisterRoutes(api)

		api.Group(func(sr chi.Router) {
			sr.Use(deps.Sessions.Middleware)
			deps.Basket.RegisterRoutes(sr)
		})
	})

	return r, nil
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	if deps.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePattern))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(checks map[string]func(context.Context) error, log *zap.Logger) http.HandlerFunc {
	log = kit.OrNop(log)
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		for name, check := range checks {
			if err := check(ctx); err != nil {
				log.Warn("readyz failed", zap.String("dependency", name), zap.Error(err))
				kit.WriteError(w, r, http.StatusServiceUnavailable, kit.CodeNotReady, name+" not ready", nil)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}
