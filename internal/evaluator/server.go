// Package evaluator implements the local mock evaluation server.
//
// The server mimics the faculty side of the submission flow: it accepts
// deployment notifications, records canned evaluation results, and can
// verify signed request envelopes on behalf of the issuer.
package evaluator

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/satchel-dev/satchel/internal/clock"
	"github.com/satchel-dev/satchel/internal/config"
	"github.com/satchel-dev/satchel/internal/sre"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Server is the local evaluation HTTP server.
type Server struct {
	cfg      config.ServerConfig
	store    *ResultStore
	verifier *sre.Verifier
	metrics  *Metrics
	logger   zerolog.Logger

	server *http.Server
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithVerifier enables the /verify endpoint using the given verifier.
func WithVerifier(v *sre.Verifier) ServerOption {
	return func(s *Server) {
		s.verifier = v
	}
}

// WithClock overrides the clock used for result stamps.
func WithClock(clk clock.Clock) ServerOption {
	return func(s *Server) {
		s.store = NewResultStore(s.store.Dir(), clk)
	}
}

// NewServer creates an evaluation server persisting results under
// cfg.ResultsDir.
func NewServer(cfg config.ServerConfig, logger zerolog.Logger, opts ...ServerOption) *Server {
	s := &Server{
		cfg:     cfg,
		store:   NewResultStore(cfg.ResultsDir, nil),
		metrics: NewMetrics(),
		logger:  logger.With().Str("component", "evaluator").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the chi router with all routes wired.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}).ServeHTTP)
	r.Get("/results", s.handleListResults)

	r.Route("/evaluate", func(r chi.Router) {
		r.Post("/static", s.handleEvaluate(KindStatic))
		r.Post("/dynamic", s.handleEvaluate(KindDynamic))
		r.Post("/llm", s.handleEvaluate(KindLLM))
	})

	if s.verifier != nil {
		r.Post("/verify", s.handleVerify)
	}

	return r
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

// ListenAndServe starts the server and blocks until ctx is canceled or
// the listener fails. Shutdown is graceful with a bounded timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.cfg.Bind,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Bind)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Bind).Str("results_dir", s.store.Dir()).Msg("evaluation server listening")
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info().Msg("evaluation server shutting down")
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}
