// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cyberops/isora/internal/assessment"
	"github.com/cyberops/isora/internal/compliance"
	"github.com/cyberops/isora/internal/config"
	"github.com/cyberops/isora/internal/enrich"
	"github.com/cyberops/isora/internal/framework"
	"github.com/cyberops/isora/internal/integrations"
	"github.com/cyberops/isora/internal/metrics"
	"github.com/cyberops/isora/internal/nis2"
	"github.com/cyberops/isora/internal/ratelimit"
	"github.com/cyberops/isora/internal/repository"
	"github.com/cyberops/isora/internal/tenant"
)

// Version is stamped at build time
var Version = "dev"

// Deps carries everything the HTTP surface serves
type Deps struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	Limiter      *ratelimit.Limiter
	Assessments  *assessment.Service
	Catalog      *framework.Catalog
	Evaluator    *compliance.Evaluator
	NIS2         *nis2.Engine
	IOCs         repository.IOCRepository
	Feeds        repository.FeedRepository
	Enricher     *enrich.Aggregator
	Integrations integrations.Store
}

// Server is the HTTP front of the platform
type Server struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
	limiter *ratelimit.Limiter

	jwtSecret        string
	corsOrigins      []string
	rateLimitEnabled bool

	assessments  *assessment.Service
	catalog      *framework.Catalog
	evaluator    *compliance.Evaluator
	nis2         *nis2.Engine
	iocs         repository.IOCRepository
	feeds        repository.FeedRepository
	enricher     *enrich.Aggregator
	integrations integrations.Store

	validate   *validator.Validate
	router     chi.Router
	httpServer *http.Server
}

// NewServer wires the router and middleware chain
func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		logger:           logger,
		metrics:          deps.Metrics,
		limiter:          deps.Limiter,
		jwtSecret:        deps.Config.JWT.Secret,
		corsOrigins:      deps.Config.CORS.Origins,
		rateLimitEnabled: deps.Config.RateLimit.Enabled && deps.Limiter != nil,
		assessments:      deps.Assessments,
		catalog:          deps.Catalog,
		evaluator:        deps.Evaluator,
		nis2:             deps.NIS2,
		iocs:             deps.IOCs,
		feeds:            deps.Feeds,
		enricher:         deps.Enricher,
		integrations:     deps.Integrations,
		validate:         validator.New(),
	}
	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", deps.Config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until the listener fails or Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("http server starting", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	origins := s.corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Tenant-ID", "X-Webhook-Signature"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
	}))
	r.Use(s.observeMiddleware)
	if s.rateLimitEnabled {
		r.Use(s.rateLimitMiddleware)
	}
	r.Use(s.tenantMiddleware)

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	// Webhook sink: authenticated by the URL token, not a bearer token.
	r.Post("/api/v1/integrations/webhook/{token}", s.handleWebhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/iso27001", func(r chi.Router) {
			r.Get("/controls", s.handleListControls)
			r.Post("/assessments", s.handleCreateAssessment)
			r.Get("/assessments/{id}", s.handleGetAssessment)
			r.Put("/assessments/{id}/soa/{control_code}", s.handleUpdateSoAEntry)
			r.Put("/assessments/{id}/soa", s.handleBulkUpdateSoA)
			r.Get("/assessments/{id}/overview", s.handleAssessmentOverview)
			r.Get("/assessments/{id}/report", s.handleAssessmentReport)
		})

		r.Route("/compliance", func(r chi.Router) {
			r.Post("/evaluate", s.handleEvaluate)
			r.Post("/coverage", s.handleCoverage)

			r.Route("/nis2", func(r chi.Router) {
				r.Post("/notifications", s.handleCreateNotification)
				r.Get("/notifications/{incident_id}", s.handleGetNotification)
				r.Get("/notifications/{incident_id}/deadlines", s.handleGetDeadlines)
				r.Post("/notifications/{incident_id}/early-warning", s.handleEarlyWarning)
				r.Post("/notifications/{incident_id}/notification", s.handleIncidentNotification)
				r.Post("/notifications/{incident_id}/final-report", s.handleFinalReport)
			})
		})

		r.Route("/threat-intel", func(r chi.Router) {
			r.Get("/iocs", s.handleListIOCs)
			r.Post("/iocs", s.handleCreateIOC)
			r.Post("/iocs/bulk", s.handleBulkCreateIOCs)
			r.Post("/enrich", s.handleEnrich)

			r.With(s.requireRole(tenant.RoleAdmin)).Get("/feeds", s.handleListFeeds)
			r.With(s.requireRole(tenant.RoleAdmin)).Post("/feeds", s.handleCreateFeed)
		})
	})

	return r
}

// handleHealth bypasses auth and rate limiting
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": Version,
	})
}
