package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "debug", Format: "json", Output: &buf})

	Info("cart refreshed", map[string]interface{}{"item_count": 3})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "cart refreshed", entry["message"])
	assert.EqualValues(t, 3, entry["item_count"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestLogger_ErrorAndContext(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "debug", Format: "json", Output: &buf})

	WithContext(map[string]interface{}{"request_id": "abc"}).Error("update failed", errors.New("boom"), nil)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "abc", entry["request_id"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "warn", Format: "json", Output: &buf})

	Info("hidden", nil)
	assert.Zero(t, buf.Len())

	Warn("shown", nil)
	assert.NotZero(t, buf.Len())

	Initialize(Config{Level: "debug", Format: "json", Output: &bytes.Buffer{}})
}
