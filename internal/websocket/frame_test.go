package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"welldata/pkg/contracts/events"
)

func TestNewFrame(t *testing.T) {
	saved := events.Saved("/tmp/out.xlsx")
	saved.JobID, saved.Seq = "j2", 7

	f := NewFrame(saved)
	assert.Equal(t, "saved", f.Type)
	assert.Equal(t, "/tmp/out.xlsx", f.Path)
	assert.Equal(t, 1.0, f.Global)
	assert.Equal(t, 1.0, f.Local)
	assert.Zero(t, f.Records)

	failed := NewFrame(events.Error("sheet 2021: empty sheet"))
	assert.Equal(t, "error", failed.Type)
	assert.Equal(t, "sheet 2021: empty sheet", failed.Text)
	assert.Zero(t, failed.Global)
}

func TestFrameJSON(t *testing.T) {
	data, err := json.Marshal(NewFrame(events.Progress(0.5, 0, "writing well A7")))
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "progress", raw["type"])
	assert.Equal(t, 0.5, raw["global"])
	assert.Equal(t, 0.0, raw["local"])
	assert.NotContains(t, raw, "path")
	assert.NotContains(t, raw, "wells")
}
