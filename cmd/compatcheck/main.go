package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"order-compat/internal/compat/regression"
	"order-compat/internal/compat/source"
	"order-compat/internal/compat/transform"
	"order-compat/pkg/logging"
	"order-compat/pkg/timeutils"
)

const (
	upstreamURLEnv = "UPSTREAM_BASE_URL"
)

func main() {
	suiteFile := flag.String("f", "", "JSON suite file (defaults to the built-in suite)")
	upstreamURL := flag.String("u", "", "Upstream base URL; cases are answered from their fixtures when empty")
	logLevel := flag.String("l", "warn", "Log level")
	flag.Parse()

	if valStr, ok := os.LookupEnv(upstreamURLEnv); ok && *upstreamURL == "" {
		*upstreamURL = valStr
	}

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	logOptions := logging.DefaultOptions()
	logOptions.Encoding = logging.EncodingConsole
	logOptions.Sampling = false
	logger, err := logging.NewZapLoggerWithOptions(level, logOptions)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	suite, err := loadSuite(*suiteFile)
	if err != nil {
		log.Fatal(err)
	}

	var src source.Source = source.NewFixtureSource(suite.Fixtures()...)
	if *upstreamURL != "" {
		src = source.NewHTTPSource(source.Config{
			BaseURL:     *upstreamURL,
			Timeout:     5 * time.Second,
			RetryDelays: timeutils.ExponentialDelays(100*time.Millisecond, 3),
		}, logger)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report := regression.NewRunner(src, transform.NewDefault(), logger).Run(ctx, suite)
	if err := report.Write(os.Stdout); err != nil {
		logger.ErrorCtx(ctx, "failed to write report", zap.Error(err))
	}
	if report.Failed() {
		_ = logger.Sync()
		cancel()
		os.Exit(1)
	}
}

func loadSuite(path string) (regression.Suite, error) {
	if path == "" {
		return regression.DefaultSuite()
	}
	f, err := os.Open(path)
	if err != nil {
		return regression.Suite{}, fmt.Errorf("failed to open suite: %w", err)
	}
	defer f.Close()
	return regression.LoadSuite(f)
}
