package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	serviceName = "order-compat"

	EncodingJSON    = "json"
	EncodingConsole = "console"
)

// Options tune the logger per binary. The zero value is not usable; start
// from DefaultOptions.
type Options struct {
	Encoding   string
	Sampling   bool
	Initial    int
	Thereafter int
	Output     []string
}

// DefaultOptions suit the long-running service: sampled JSON on stderr.
func DefaultOptions() Options {
	return Options{
		Encoding:   EncodingJSON,
		Sampling:   true,
		Initial:    100,
		Thereafter: 100,
		Output:     []string{"stderr"},
	}
}

type settings struct {
	config *zap.Config
	opts   []zap.Option
}

func newSettings(level zap.AtomicLevel, options Options) *settings {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.MessageKey = "message"
	encoderConfig.TimeKey = "@timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.SecondsDurationEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if options.Encoding == EncodingConsole {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config := &zap.Config{
		Level:            level,
		Encoding:         options.Encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      options.Output,
		ErrorOutputPaths: []string{"stderr"},
		InitialFields: map[string]interface{}{
			"service": serviceName,
		},
	}
	if options.Sampling {
		config.Sampling = &zap.SamplingConfig{
			Initial:    options.Initial,
			Thereafter: options.Thereafter,
		}
	}

	return &settings{
		config: config,
		opts: []zap.Option{
			zap.AddCallerSkip(1),
		},
	}
}
