package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"order-compat/internal/compat"
	"order-compat/internal/compat/currency"
	"order-compat/internal/compat/pricing"
	"order-compat/internal/compat/source"
	"order-compat/pkg/logging"
	"order-compat/pkg/timeutils"
)

const (
	serverAddressFlag     = "a"
	serverAddressEnv      = "RUN_ADDRESS"
	serverAddressDefault  = "localhost:8080"
	upstreamURLFlag       = "u"
	upstreamURLEnv        = "UPSTREAM_BASE_URL"
	upstreamURLDefault    = "http://localhost:8081"
	upstreamPathFlag      = "p"
	upstreamPathEnv       = "UPSTREAM_ORDERS_PATH"
	upstreamPathDefault   = "/api/v2/orders"
	logLevelFlag          = "l"
	logLevelEnv           = "LOG_LEVEL"
	logLevelDefault       = "info"
	compatConfigFlag      = "c"
	compatConfigEnv       = "COMPAT_CONFIG"
	compatConfigDefault   = ""
	dotEnvFile            = ".env"
	defaultShutdownPeriod = 5 * time.Second
)

type Config struct {
	Server          compat.Config
	Upstream        source.Config
	LogLevel        zapcore.Level
	LogOptions      logging.Options
	Rates           map[string]decimal.Decimal
	Tolerance       decimal.Decimal
	ShutdownTimeout time.Duration
}

func Load() (*Config, error) {
	return load(flag.CommandLine, os.Args[1:])
}

func load(flags *flag.FlagSet, args []string) (*Config, error) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", dotEnvFile, err)
	}

	serverAddress := flags.String(
		serverAddressFlag,
		serverAddressDefault,
		"Server address host:port",
	)

	upstreamURL := flags.String(
		upstreamURLFlag,
		upstreamURLDefault,
		"Upstream orders API base URL",
	)

	upstreamPath := flags.String(
		upstreamPathFlag,
		upstreamPathDefault,
		"Upstream orders path",
	)

	logLevel := flags.String(
		logLevelFlag,
		logLevelDefault,
		"Log level",
	)

	compatConfig := flags.String(
		compatConfigFlag,
		compatConfigDefault,
		"Path to a YAML file with rates, tolerance, upstream retry and log settings",
	)

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if valStr, ok := os.LookupEnv(serverAddressEnv); ok {
		*serverAddress = valStr
	}

	if valStr, ok := os.LookupEnv(upstreamURLEnv); ok {
		*upstreamURL = valStr
	}

	if valStr, ok := os.LookupEnv(upstreamPathEnv); ok {
		*upstreamPath = valStr
	}

	if valStr, ok := os.LookupEnv(logLevelEnv); ok {
		*logLevel = valStr
	}

	if valStr, ok := os.LookupEnv(compatConfigEnv); ok {
		*compatConfig = valStr
	}

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		return nil, err
	}

	settings, err := readSettings(*compatConfig)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: compat.Config{
			ServerAddress:   *serverAddress,
			UpstreamPath:    *upstreamPath,
			ShutdownTimeout: defaultShutdownPeriod,
		},
		Upstream: source.Config{
			BaseURL:     *upstreamURL,
			Timeout:     settings.timeout,
			RetryDelays: settings.retryDelays,
		},
		LogLevel:        level,
		LogOptions:      settings.logOptions,
		Rates:           settings.rates,
		Tolerance:       settings.tolerance,
		ShutdownTimeout: defaultShutdownPeriod,
	}, nil
}

type fileSettings struct {
	rates       map[string]decimal.Decimal
	tolerance   decimal.Decimal
	timeout     time.Duration
	retryDelays []time.Duration
	logOptions  logging.Options
}

// readSettings reads the optional YAML file. Rates listed there are merged
// over the built-in table. Without a file the defaults apply.
func readSettings(path string) (fileSettings, error) {
	v := viper.New()
	v.SetDefault("tolerance", pricing.DefaultTolerance.String())
	v.SetDefault("upstream.timeout", "5s")
	v.SetDefault("upstream.attempts", 3)
	v.SetDefault("upstream.retry_base", "100ms")
	logDefaults := logging.DefaultOptions()
	v.SetDefault("log.encoding", logDefaults.Encoding)
	v.SetDefault("log.sampling", logDefaults.Sampling)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fileSettings{}, fmt.Errorf("error while reading config file: %w", err)
		}
	}

	rates := currency.DefaultRates()
	for code, text := range v.GetStringMapString("rates") {
		rate, err := decimal.NewFromString(text)
		if err != nil {
			return fileSettings{}, fmt.Errorf("invalid rate for %s: %w", code, err)
		}
		if rate.IsNegative() {
			return fileSettings{}, fmt.Errorf("invalid rate for %s: negative", code)
		}
		rates[strings.ToUpper(code)] = rate
	}

	tolerance, err := decimal.NewFromString(v.GetString("tolerance"))
	if err != nil {
		return fileSettings{}, fmt.Errorf("invalid tolerance: %w", err)
	}

	retryDelays := timeutils.ExponentialDelays(v.GetDuration("upstream.retry_base"), v.GetInt("upstream.attempts"))
	if v.IsSet("upstream.retry_delays") {
		retryDelays = retryDelays[:0]
		for _, text := range v.GetStringSlice("upstream.retry_delays") {
			delay, err := time.ParseDuration(text)
			if err != nil {
				return fileSettings{}, fmt.Errorf("invalid retry delay %q: %w", text, err)
			}
			retryDelays = append(retryDelays, delay)
		}
	}

	logOptions := logging.DefaultOptions()
	logOptions.Encoding = v.GetString("log.encoding")
	logOptions.Sampling = v.GetBool("log.sampling")
	if logOptions.Encoding != logging.EncodingJSON && logOptions.Encoding != logging.EncodingConsole {
		return fileSettings{}, fmt.Errorf("invalid log encoding %q", logOptions.Encoding)
	}

	return fileSettings{
		rates:       rates,
		tolerance:   tolerance,
		timeout:     v.GetDuration("upstream.timeout"),
		retryDelays: retryDelays,
		logOptions:  logOptions,
	}, nil
}
