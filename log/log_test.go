package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewPlugin_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(NewPlugin(zapcore.AddSync(&buf), zapcore.InfoLevel))

	logger.Debug("hidden")
	logger.Info("table created", zap.String("table", "employees"))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "table created", entry["msg"])
	assert.Equal(t, "employees", entry["table"])
	assert.Contains(t, entry, "timestamp")
	assert.Contains(t, entry, "caller")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "easysql.log")
	logger, closer, err := New("debug", path)
	require.NoError(t, err)

	logger.Debug("select", zap.String("sql", "SELECT * FROM t"))
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sql":"SELECT * FROM t"`)
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New("loud", "")
	assert.Error(t, err)
}

func TestNew_DefaultLevel(t *testing.T) {
	logger, closer, err := New("", "")
	require.NoError(t, err)
	defer closer.Close()
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
