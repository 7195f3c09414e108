package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/goliatone/go-formintake/pkg/forms"
	"github.com/goliatone/go-formintake/pkg/intake"
)

// MaxBodyBytes caps submission and validation request bodies.
const MaxBodyBytes = 1 << 20

type Server struct {
	Router   *chi.Mux
	Addr     string
	logger   *slog.Logger
	registry *forms.Registry
	pipeline *intake.Pipeline
}

// New wires the form intake routes onto a chi router.
func New(addr string, logger *slog.Logger, registry *forms.Registry, pipeline *intake.Pipeline) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		Router:   chi.NewRouter(),
		Addr:     addr,
		logger:   logger,
		registry: registry,
		pipeline: pipeline,
	}

	r := s.Router
	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "form-intake")
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/forms", func(r chi.Router) {
		r.Get("/", s.handleListForms)
		r.Route("/{formID}", func(r chi.Router) {
			r.Get("/", s.handleGetForm)
			r.Get("/openapi.json", s.handleOpenAPI)
			r.Post("/validate", s.handleValidate)
			r.Post("/submissions", s.handleSubmit)
		})
	})
	return s
}

// ServeHTTP lets the server be mounted or tested directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", slog.String("addr", s.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}
