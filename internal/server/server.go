package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sozercan/taskpad/internal/assistant"
	"github.com/sozercan/taskpad/internal/config"
	"github.com/sozercan/taskpad/internal/metrics"
	"github.com/sozercan/taskpad/internal/session"
)

const (
	sessionCookie = "taskpad_session"
	shutdownGrace = 30 * time.Second
)

type Server struct {
	cfg       config.ServerConfig
	llmCfg    config.LLMConfig
	router    *chi.Mux
	server    *http.Server
	assistant *assistant.Assistant
	sessions  *session.Store
	metrics   *metrics.Metrics
}

func New(cfg config.Config, a *assistant.Assistant, sessions *session.Store, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:       cfg.Server,
		llmCfg:    cfg.LLM,
		router:    chi.NewRouter(),
		assistant: a,
		sessions:  sessions,
		metrics:   m,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(loggingMiddleware)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleIndex)
	s.router.Post("/", s.handleSubmit)
	s.router.Post("/clear", s.handleClear)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/complete", s.handleComplete)
		r.Get("/history", s.handleHistory)
		r.Delete("/history", s.handleClearHistory)
		r.Get("/tasks", s.handleTasks)
		r.Get("/health", s.handleHealth)
	})

	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
}

// ServeHTTP lets tests drive the router without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		slog.Info("HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"remote_addr", r.RemoteAddr,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// statusRecorder remembers the status written by the handler. Handlers that
// never call WriteHeader answer 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if s.cfg.SessionIdleTimeout > 0 {
		go s.sweepSessions(ctx, s.cfg.SessionIdleTimeout/2)
	}

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("Listening", "address", s.server.Addr)
		listenErr <- s.server.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "grace", shutdownGrace)
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := s.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

func (s *Server) sweepSessions(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.EvictIdle(); n > 0 {
				slog.Info("Evicted idle sessions", "count", n, "remaining", s.sessions.Len())
			}
		}
	}
}

func sessionID(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// lookupSession returns the caller's history, or nil when the request carries
// no live session. It never creates one.
func (s *Server) lookupSession(r *http.Request) *session.History {
	id := sessionID(r)
	if id == "" {
		return nil
	}
	hist, ok := s.sessions.Lookup(id)
	if !ok {
		return nil
	}
	return hist
}

// openSession resolves the caller's history, starting a new session and
// setting the cookie when needed. Only routes that record history call it.
func (s *Server) openSession(w http.ResponseWriter, r *http.Request) *session.History {
	id := sessionID(r)
	newID, hist := s.sessions.Open(id)
	if newID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return hist
}
