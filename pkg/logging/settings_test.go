package logging

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewSettings_Sampling(t *testing.T) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	sampled := newSettings(level, DefaultOptions())
	require.NotNil(t, sampled.config.Sampling)
	assert.Equal(t, 100, sampled.config.Sampling.Initial)

	options := DefaultOptions()
	options.Sampling = false
	assert.Nil(t, newSettings(level, options).config.Sampling)
}

func TestNewZapLoggerWithOptions_WritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compat.log")
	options := DefaultOptions()
	options.Output = []string{path}

	logger, err := NewZapLoggerWithOptions(zapcore.DebugLevel, options)
	require.NoError(t, err)

	ctx := WithContextFields(context.Background(), zap.String("case", "v2_fulfilled_state"))
	logger.WarnCtx(ctx, "transformation warning", zap.String("warning", "price mismatch"))
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(raw))), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "transformation warning", entry["message"])
	assert.Equal(t, "order-compat", entry["service"])
	assert.Equal(t, "v2_fulfilled_state", entry["case"])
	assert.Equal(t, "price mismatch", entry["warning"])
	assert.Contains(t, entry, "@timestamp")
}

func TestNewZapLoggerWithOptions_UnknownEncoding(t *testing.T) {
	options := DefaultOptions()
	options.Encoding = "xml"

	_, err := NewZapLoggerWithOptions(zapcore.InfoLevel, options)
	assert.Error(t, err)
}
