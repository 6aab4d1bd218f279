package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDebugEnabled(t *testing.T) {
	t.Setenv(DebugEnvVar, "")
	assert.False(t, DebugEnabled())

	t.Setenv(DebugEnvVar, "1")
	assert.True(t, DebugEnabled())
}

func TestNewWithWriter_JSONEncoding(t *testing.T) {
	t.Setenv(DebugEnvVar, "")
	var buf bytes.Buffer

	logger, err := NewWithWriter(Config{Level: "info", Encoding: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("task inserted", zap.Int64("id", 7))
	logger.Debug("hidden at info level")
	require.NoError(t, logger.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "task inserted", entry["msg"])
	assert.Equal(t, float64(7), entry["id"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewWithWriter_DebugOverride(t *testing.T) {
	t.Setenv(DebugEnvVar, "true")
	var buf bytes.Buffer

	logger, err := NewWithWriter(Config{Level: "warn", Encoding: "console"}, &buf)
	require.NoError(t, err)

	logger.Debug("reload finished")
	require.NoError(t, logger.Sync())
	assert.Contains(t, buf.String(), "reload finished")
}

func TestNewWithWriter_InvalidLevelFallsBackToInfo(t *testing.T) {
	t.Setenv(DebugEnvVar, "")
	var buf bytes.Buffer

	logger, err := NewWithWriter(Config{Level: "loud"}, &buf)
	require.NoError(t, err)

	logger.Debug("not shown")
	logger.Info("shown")
	require.NoError(t, logger.Sync())
	assert.NotContains(t, buf.String(), "not shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	base := zap.NewExample()
	assert.Same(t, base, OrNop(base))
}
