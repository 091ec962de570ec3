package compat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"order-compat/internal/compat/handlers"
	"order-compat/internal/compat/metrics"
	"order-compat/internal/compat/middleware"
	"order-compat/pkg/logging"
)

type Config struct {
	ServerAddress   string
	UpstreamPath    string
	ShutdownTimeout time.Duration
}

type Server struct {
	logger     *logging.ZapLogger
	httpServer *http.Server
	cfg        Config
}

func NewServer(
	cfg Config,
	source handlers.PayloadSource,
	transformer handlers.LegacyTransformer,
	registry *metrics.Registry,
	logger *logging.ZapLogger,
) *Server {
	srv := &http.Server{
		Addr: cfg.ServerAddress,
		Handler: createMux(
			cfg,
			source,
			transformer,
			registry,
			logger,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: srv,
	}
}

func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server ListenAndServe failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func createMux(
	cfg Config,
	source handlers.PayloadSource,
	transformer handlers.LegacyTransformer,
	registry *metrics.Registry,
	logger *logging.ZapLogger,
) *chi.Mux {
	legacyOrdersHandler := handlers.NewLegacyOrdersHandler(source, transformer, registry, cfg.UpstreamPath, logger)
	transformHandler := handlers.NewTransformHandler(transformer, registry, logger)
	detectHandler := handlers.NewDetectHandler(logger)
	classifyHandler := handlers.NewClassifyHandler(registry, logger)

	router := chi.NewRouter()
	router.Use(
		chimiddleware.RequestID,
		middleware.NewLoggerContext().CreateHandler,
		middleware.NewPanicRecover(logger).CreateHandler,
	)

	router.Get("/api/v1/orders", legacyOrdersHandler.ServeHTTP)
	router.Route("/api/compat", func(router chi.Router) {
		router.Post("/transform", transformHandler.ServeHTTP)
		router.Post("/detect", detectHandler.ServeHTTP)
		router.Post("/classify", classifyHandler.ServeHTTP)
	})
	router.Handle("/metrics", registry.Handler())

	return router
}
