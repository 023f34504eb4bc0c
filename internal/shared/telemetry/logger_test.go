package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	Info("analysis.completed", map[string]any{"score": 72, "request_id": "r-1"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "analysis.completed", entry["msg"])
	assert.Equal(t, "r-1", entry["request_id"])
	assert.EqualValues(t, 72, entry["score"])
	assert.NotEmpty(t, entry["ts"])
}

func TestSetLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		SetLevel("info")
	})

	SetLevel("warn")
	Info("hidden", nil)
	Debug("hidden", nil)
	assert.Empty(t, buf.String())

	Warn("shown", nil)
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	SetLevel("not-a-level")
	buf.Reset()
	Info("back", nil)
	assert.Contains(t, buf.String(), `"msg":"back"`)
}
