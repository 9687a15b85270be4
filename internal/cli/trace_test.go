package cli

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceText(t *testing.T) {
	out, err := execute(t, "trace", "testdata/note.yaml",
		"--set", "title=world",
		"--set", "views=3",
		"--set", "title=",
	)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "trace_text", []byte(out))
}

func TestTraceJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "trace", "testdata/note.yaml", "--set", "title=world")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Steps, 1)

	events := resp.Data.Steps[0].Events
	require.Len(t, events, 4)
	assert.Equal(t, TraceEvent{Source: "proxy", Event: "change:title", Subject: "proxy", Value: "world"}, events[1])
	assert.Equal(t, TraceEvent{Source: "proxy", Event: "change", Subject: "proxy"}, events[3])
	assert.Equal(t, "world", resp.Data.Attributes["title"])
}

func TestTraceInvalidAssignment(t *testing.T) {
	_, err := execute(t, "trace", "testdata/note.yaml", "--set", "nope")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
