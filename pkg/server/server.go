package server

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-go/recipes/internal/errors"
	"github.com/vango-go/recipes/pkg/live"
	"github.com/vango-go/recipes/pkg/middleware"
	"github.com/vango-go/recipes/pkg/recipe"
	"github.com/vango-go/recipes/pkg/render"
	"github.com/vango-go/recipes/pkg/resource"
	"github.com/vango-go/recipes/pkg/session"
)

// ClientScriptPath serves the thin client.
const ClientScriptPath = "/_recipes/client.js"

const indexStyle = `body{font-family:system-ui,sans-serif;margin:2rem;max-width:48rem}
.recipes{list-style:none;padding:0}
.recipes>li{margin-bottom:1.5rem}
.tags{display:flex;gap:.5rem;list-style:none;padding:0;font-size:.8rem;color:#666}`

// Server routes requests to mounted recipes.
type Server struct {
	config   *Config
	logger   *slog.Logger
	router   chi.Router
	sessions *session.Manager
	hub      *live.Hub
	renderer *render.Renderer
	recipes  *recipe.Registry

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
}

// New creates a Server. Sessions expire and live connections are accepted
// from the moment it returns.
func New(config *Config, logger *slog.Logger) *Server {
	config = config.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:   config,
		logger:   logger.With("component", "server"),
		sessions: session.NewManager(config.Session, logger),
		hub:      live.NewHub(live.HubOptions{Logger: logger}),
		renderer: render.NewRenderer(render.RendererConfig{}),
		recipes:  recipe.NewRegistry(),
	}
	s.sessions.OnDestroy(func(sess *session.Session) {
		s.hub.CloseSession(sess.ID)
	})
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if s.config.Metrics {
		opts := []middleware.MetricsOption{}
		if s.config.Registry != nil {
			opts = append(opts, middleware.WithRegistry(s.config.Registry))
		}
		r.Use(middleware.Metrics(opts...))
	}
	if s.config.TracerProvider != nil {
		r.Use(middleware.Tracing(
			middleware.WithTracerProvider(s.config.TracerProvider),
			middleware.WithRequestFilter(traced),
		))
	}
	r.Use(middleware.Logger(s.logger))

	r.Get("/", s.serveIndex)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, ClientScriptPath, http.HandlerFunc(s.serveThinClient))
	r.Method(http.MethodHead, ClientScriptPath, http.HandlerFunc(s.serveThinClient))
	r.Method(http.MethodGet, resource.PathPrefix+"/{id}/{name}", resource.Handler(resource.SessionLookup(s.sessions)))

	if s.config.Metrics {
		if s.config.Registry != nil {
			r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{}))
		} else {
			r.Method(http.MethodGet, "/metrics", promhttp.Handler())
		}
	}
	return r
}

// traced skips health-check and scrape endpoints.
func traced(r *http.Request) bool {
	return r.URL.Path != "/metrics" && r.URL.Path != "/healthz"
}

// Mount registers rec under its route. Call it before Run.
func (s *Server) Mount(rec recipe.Recipe) error {
	route := rec.Route()
	if route == "" || route == "/" || !strings.HasPrefix(route, "/") {
		return errors.New("E304").WithField(route)
	}
	if !s.recipes.Add(rec) {
		return errors.New("E301").
			WithField(route).
			WithSuggestion("Give each recipe a unique Route()")
	}
	s.router.Route(route, rec.Routes)
	s.logger.Debug("recipe mounted", "route", route, "how_do_i", rec.Metadata().HowDoI)
	return nil
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := s.renderer.RenderPage(&buf, render.PageData{
		Title:  s.config.Title,
		Body:   recipe.Index(s.recipes.All()),
		Styles: []string{indexStyle},
	})
	if err != nil {
		s.logger.Error("render index", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions returns the session manager.
func (s *Server) Sessions() *session.Manager { return s.sessions }

// Hub returns the live push hub.
func (s *Server) Hub() *live.Hub { return s.hub }

// Renderer returns the shared HTML renderer.
func (s *Server) Renderer() *render.Renderer { return s.renderer }

// Recipes returns the mounted recipes.
func (s *Server) Recipes() *recipe.Registry { return s.recipes }

// Config returns the effective configuration.
func (s *Server) Config() *Config { return s.config }

// Addr returns the bound address once Run is listening, else the
// configured address.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Addr
}

// Run listens on Addr and serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return errors.New("E302").WithField(s.config.Addr).Wrap(err)
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.mu.Lock()
	s.httpServer = srv
	s.listener = ln
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String(), "recipes", len(s.recipes.All()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.FromError(err, "E302")
	case <-ctx.Done():
		s.logger.Info("shutting down")
		return s.Shutdown(context.Background())
	}
}

// Shutdown stops accepting requests, waits up to ShutdownTimeout for
// in-flight ones, then closes live connections and sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by http.Server.
	s.hub.Close()

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	var shutdownErr error
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			shutdownErr = errors.New("E303").Wrap(err)
		}
	}
	if err := s.sessions.Shutdown(ctx); err != nil && shutdownErr == nil {
		shutdownErr = errors.New("E303").Wrap(err)
	}

	if shutdownErr == nil {
		s.logger.Info("server shutdown complete")
	}
	return shutdownErr
}
