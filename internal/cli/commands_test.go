package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sqliteArgs points a command at a fresh SQLite database under /notes.
func sqliteArgs(t *testing.T) []string {
	t.Helper()
	return []string{"--store", "sqlite", "--db", filepath.Join(t.TempDir(), "records.db"), "--url-root", "/notes"}
}

func TestSaveFetchListDestroy(t *testing.T) {
	base := sqliteArgs(t)
	run := func(args ...string) string {
		t.Helper()
		out, err := execute(t, append(append([]string{}, base...), args...)...)
		require.NoError(t, err)
		return out
	}

	saved := run("--format", "json", "save", "testdata/note.yaml")
	var resp struct {
		Status string     `json:"status"`
		Data   SaveResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(saved), &resp))
	assert.Equal(t, "ok", resp.Status)
	id, ok := resp.Data.ID.(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	assert.Equal(t, "/notes/"+id, resp.Data.URL)

	assert.Equal(t, "id="+id+" status=draft title=hello\n", run("fetch", id))

	listed := run("list")
	assert.True(t, strings.HasPrefix(listed, "/notes/"+id+"\trev 1\t"), listed)

	assert.Equal(t, "destroyed /notes/"+id+"\n", run("destroy", id))
	assert.Equal(t, "No records under /notes/\n", run("list"))
}

func TestSaveText(t *testing.T) {
	out, err := execute(t, append(sqliteArgs(t), "save", "testdata/note.yaml")...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "saved /notes/"), out)
}

func TestSaveRejectsMissingRequired(t *testing.T) {
	_, err := execute(t, append(sqliteArgs(t), "save", "testdata/untitled.yaml")...)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "missing required attributes: title")
}

func TestSaveMissingFixture(t *testing.T) {
	_, err := execute(t, append(sqliteArgs(t), "save", "testdata/nope.yaml")...)

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFetchUnknownID(t *testing.T) {
	_, err := execute(t, append(sqliteArgs(t), "fetch", "missing")...)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "not found")
}

func TestUnknownStore(t *testing.T) {
	_, err := execute(t, "--store", "etcd", "list")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "unknown store kind")
}

func TestListMemoryStore(t *testing.T) {
	out, err := execute(t, "--store", "memory", "--db", "", "--format", "json", "list")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":[]}`, out)
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		in    string
		key   string
		value any
	}{
		{"title=world", "title", "world"},
		{"views=3", "views", 3},
		{"done=true", "done", true},
		{"title=", "title", nil},
		{"expr=a=b", "expr", "a=b"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			key, value, err := parseAssignment(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.value, value)
		})
	}

	for _, bad := range []string{"title", "=x"} {
		_, _, err := parseAssignment(bad)
		assert.Error(t, err, bad)
	}
}
