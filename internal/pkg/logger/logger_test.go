package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, "shiftpay", "v1.0.0", "test")

	log.Debug("hidden")
	log.Info("shift created", "worker_id", "worker-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shiftpay", entry["app"])
	assert.Equal(t, "test", entry["env"])
	assert.Equal(t, "worker-1", entry["worker_id"])
}
