package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vango-go/recipes/internal/config"
	"github.com/vango-go/recipes/pkg/server"
	"github.com/vango-go/recipes/pkg/session"
	"github.com/vango-go/recipes/pkg/upload"
	"github.com/vango-go/recipes/recipes/camera"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the recipe server",
		Long: `Start the HTTP server with every recipe mounted.

Configuration is read from --config, or recipes.yaml in the working
directory when present. RECIPES_* environment variables override file
values, and --addr overrides server.addr.`,
		Example: `  recipes serve
  recipes serve --addr :9000
  RECIPES_LOG_FORMAT=json recipes serve --config /etc/recipes.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./recipes.yaml if present)")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address, overrides server.addr")

	return cmd
}

func runServer(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if cfg.File() != "" {
		logger.Info("config loaded", "file", cfg.File())
	}

	srvConfig := &server.Config{
		Addr:              cfg.Server.Addr,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		Session: session.ManagerConfig{
			IdleTimeout:     cfg.Session.IdleTimeout,
			MaxSessions:     cfg.Session.MaxSessions,
			CleanupInterval: session.DefaultManagerConfig().CleanupInterval,
		},
		MaxResources: cfg.Resource.MaxPerSession,
		Metrics:      cfg.Metrics.Enabled,
	}

	if cfg.Tracing.Enabled {
		tp, err := newTracerProvider(cfg.Tracing, cmd)
		if err != nil {
			return err
		}
		defer func() {
			// The serve context is already done here.
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Warn("tracer shutdown", "error", err)
			}
		}()
		otel.SetTracerProvider(tp)
		srvConfig.TracerProvider = tp
	}

	srv := server.New(srvConfig, logger)
	err = srv.Mount(camera.New(camera.Config{
		Sessions: srv.Sessions(),
		Hub:      srv.Hub(),
		Renderer: srv.Renderer(),
		Upload: upload.Config{
			MaxFileSize:  cfg.Upload.MaxFileSize,
			AllowedTypes: cfg.Upload.AllowedTypes,
		},
		MaxResources: cfg.Resource.MaxPerSession,
		Logger:       logger,
	}))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	success(out, "Serving %d recipe(s) on %s", len(srv.Recipes().All()), cfg.Server.Addr)
	for _, rec := range srv.Recipes().All() {
		info(out, "%-10s %s", rec.Route(), rec.Metadata().HowDoI)
	}

	return srv.Run(ctx)
}

func newTracerProvider(cfg config.TracingConfig, cmd *cobra.Command) (*sdktrace.TracerProvider, error) {
	opts := []sdktrace.TracerProviderOption{}
	if cfg.Stdout {
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(cmd.ErrOrStderr()),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}
	return sdktrace.NewTracerProvider(opts...), nil
}
