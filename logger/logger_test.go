package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestNewWithOutputEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("debug", &buf)

	log.Info().Str("conn_id", "abc123").Int("port", 3306).Msg("connected")

	record := decodeRecord(t, &buf)
	assert.Equal(t, "info", record["level"])
	assert.Equal(t, "connected", record["message"])
	assert.Equal(t, "abc123", record["conn_id"])
	assert.Equal(t, float64(3306), record["port"])
	assert.Contains(t, record, "time")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("warn", &buf)

	log.Debug().Msg("hidden")
	log.Info().Msg("hidden too")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("visible")
	assert.NotZero(t, buf.Len())
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("nonsense", &buf)

	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Info().Msg("visible")
	assert.NotZero(t, buf.Len())
}

func TestWithFieldsAttachesToEveryRecord(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("info", &buf).WithFields(map[string]any{"conn_id": "xyz"})

	log.Info().Msg("first")
	log.Error().Msg("second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		assert.Equal(t, "xyz", record["conn_id"])
	}
}

func TestEventFieldTypes(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("debug", &buf)

	log.Debug().
		Err(errors.New("boom")).
		Int64("rows", 42).
		Uint64("affected", 7).
		Dur("elapsed", 1500*time.Millisecond).
		Msgf("done in %s", "test")

	record := decodeRecord(t, &buf)
	assert.Equal(t, "boom", record["error"])
	assert.Equal(t, float64(42), record["rows"])
	assert.Equal(t, float64(7), record["affected"])
	assert.Equal(t, "done in test", record["message"])
}
