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

type Server struct {
	Store          store.AuditStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Provider       golfgenius.Provider
	Analyzer       *scoring.Analyzer
	Auditor        *audit.Auditor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}

// pushEnvelope is the body of a Pub/Sub push delivery.
type pushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data      string `json:"data"`
		MessageID string `json:"messageId"`
	} `json:"message"`
}
