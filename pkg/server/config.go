package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-go/recipes/pkg/session"
	"go.opentelemetry.io/otel/trace"
)

// Config configures a Server.
type Config struct {
	// Addr is the TCP address to listen on. Default: ":8080".
	Addr string

	// ShutdownTimeout bounds graceful shutdown. Default: 10s.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout bounds reading request headers. Default: 5s.
	ReadHeaderTimeout time.Duration

	// Session configures the session manager.
	Session session.ManagerConfig

	// MaxResources bounds each session's stream resources.
	MaxResources int

	// Metrics enables the HTTP metrics middleware and /metrics.
	Metrics bool

	// Registry receives the HTTP metrics and backs /metrics.
	// Default: prometheus.DefaultRegisterer and DefaultGatherer.
	Registry *prometheus.Registry

	// TracerProvider enables per-request spans when set.
	TracerProvider trace.TracerProvider

	// Title heads the recipe index page.
	Title string
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Addr:              ":8080",
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		Session:           session.DefaultManagerConfig(),
		MaxResources:      64,
		Metrics:           true,
		Title:             "Recipes",
	}
}

func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.Addr == "" {
		out.Addr = d.Addr
	}
	if out.ShutdownTimeout <= 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.ReadHeaderTimeout <= 0 {
		out.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if out.MaxResources <= 0 {
		out.MaxResources = d.MaxResources
	}
	if out.Title == "" {
		out.Title = d.Title
	}
	return &out
}
