package http

import (
	"net/http"

	"github.com/mauv0809/tga-scoring-audit/internal/audit"
	"github.com/mauv0809/tga-scoring-audit/internal/config"
	"github.com/mauv0809/tga-scoring-audit/internal/golfgenius"
	"github.com/mauv0809/tga-scoring-audit/internal/metrics"
	"github.com/mauv0809/tga-scoring-audit/internal/pubsub"
	"github.com/mauv0809/tga-scoring-audit/internal/scoring"
	"github.com/mauv0809/tga-scoring-audit/internal/store"
)

func NewServer(store store.AuditStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, provider golfgenius.Provider, analyzer *scoring.Analyzer, auditor *audit.Auditor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Provider:       provider,
		Analyzer:       analyzer,
		Auditor:        auditor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /seasons", Chain(s.ListSeasonsHandler(), paramsMiddleware))
	s.Router.Handle("/audit", Chain(s.AuditHandler(), paramsMiddleware))
	s.Router.Handle("GET /runs", Chain(s.ListRunsHandler(), paramsMiddleware))
	s.Router.Handle("GET /runs/{id}/flagged", Chain(s.FlaggedRoundsHandler(), paramsMiddleware))
	s.Router.Handle("POST /analyze", Chain(s.AnalyzeHandler(), paramsMiddleware))
	s.Router.Handle("GET /inspect", Chain(s.InspectHandler(), paramsMiddleware))
	s.Router.Handle("POST /pubsub/round-flagged", Chain(s.RoundFlaggedHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
