package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName     string
	Port       string
	OutputDir  string
	GolfGenius GolfGeniusConfig
	Audit      AuditConfig
	Slack      SlackConfig
	Turso      TursoConfig
	ProjectID  string
}

type GolfGeniusConfig struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	RateLimitDelay time.Duration
}

type AuditConfig struct {
	Workers  int
	Polarity string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
