package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"order-compat/cmd/compat/config"
	"order-compat/internal/compat"
	"order-compat/internal/compat/currency"
	"order-compat/internal/compat/metrics"
	"order-compat/internal/compat/pricing"
	"order-compat/internal/compat/source"
	"order-compat/internal/compat/transform"
	"order-compat/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewZapLoggerWithOptions(cfg.LogLevel, cfg.LogOptions)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	transformer := transform.New(
		currency.NewConverter(cfg.Rates),
		pricing.NewValidator(cfg.Tolerance),
	)
	upstream := source.NewHTTPSource(cfg.Upstream, logger)
	registry := metrics.NewRegistry()

	server := compat.NewServer(cfg.Server, upstream, transformer, registry, logger)

	rootCtx, cancelCtx := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGABRT,
	)
	defer cancelCtx()

	logger.InfoCtx(rootCtx, "Starting server",
		zap.String("address", cfg.Server.ServerAddress),
		zap.String("upstream", cfg.Upstream.BaseURL+cfg.Server.UpstreamPath),
	)

	if err := run(rootCtx, cfg, server, logger); err != nil {
		logger.ErrorCtx(rootCtx, "Server shutdown with error", zap.Error(err))
	} else {
		logger.InfoCtx(rootCtx, "Server shutdown gracefully")
	}
}

func run(rootCtx context.Context, cfg *config.Config, server *compat.Server, logger *logging.ZapLogger) error {
	g, ctx := errgroup.WithContext(rootCtx)

	context.AfterFunc(ctx, func() {
		ctx, cancelCtx := context.WithTimeout(context.Background(), 2*cfg.ShutdownTimeout)
		defer cancelCtx()

		<-ctx.Done()
		log.Fatal("failed to gracefully shutdown the server")
	})

	g.Go(func() error {
		if err := server.Run(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		defer logger.InfoCtx(ctx, "Shutting down server")
		<-ctx.Done()
		if err := server.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("goroutine error occured: %w", err)
	}

	return nil
}
