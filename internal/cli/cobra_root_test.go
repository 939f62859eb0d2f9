package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"singletask/internal/domain"
	apperrors "singletask/internal/errors"
)

type rootHarness struct {
	dir       string
	clipboard *fakeClipboard
	clock     *fakeClock
}

func newRootHarness(t *testing.T) *rootHarness {
	t.Helper()
	return &rootHarness{
		dir:       t.TempDir(),
		clipboard: &fakeClipboard{},
		clock:     &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
}

// run executes one command line against the harness's data directory
func (h *rootHarness) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	root := NewRootCommand(RootOptions{
		In:        strings.NewReader(stdin),
		Out:       out,
		ErrOut:    errOut,
		Clipboard: h.clipboard.WriteAll,
		Clock:     h.clock.Now,
	})
	root.SetArgs(append([]string{"--data-dir", h.dir}, args...))

	err := root.Execute(context.Background())
	return out.String(), errOut.String(), err
}

func TestRootCommand_CaptureLifecycle(t *testing.T) {
	h := newRootHarness(t)

	out, _, err := h.run(t, "", "capture", "buy", "milk")
	require.NoError(t, err)
	assert.Equal(t, "Captured 1: buy milk\n", out)

	_, _, err = h.run(t, "", "capture", "call mom")
	require.NoError(t, err)

	out, _, err = h.run(t, "", "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted capture 1\n", out)

	out, _, err = h.run(t, "", "list")
	require.NoError(t, err)
	assert.Equal(t, "2: call mom\n", out)

	out, _, err = h.run(t, "", "copy", "2")
	require.NoError(t, err)
	assert.Equal(t, "Copied capture 2\n", out)
	assert.Equal(t, "call mom", h.clipboard.text)

	for _, name := range []string{"tasks.db", "app_state.json"} {
		_, err := os.Stat(filepath.Join(h.dir, name))
		assert.NoError(t, err, name)
	}
}

func TestRootCommand_StatePersistsAcrossRuns(t *testing.T) {
	h := newRootHarness(t)

	_, _, err := h.run(t, "write report\nreview PR\n", "tasks", "-")
	require.NoError(t, err)

	out, _, err := h.run(t, "", "select")
	require.NoError(t, err)
	assert.Equal(t, "Current task: write report\nHours spent: 0.00\n", out)

	out, _, err = h.run(t, "", "tasks")
	require.NoError(t, err)
	assert.Equal(t, "write report\nreview PR\n", out)

	data, err := os.ReadFile(filepath.Join(h.dir, "app_state.json"))
	require.NoError(t, err)
	var saved domain.State
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, domain.State{Title: "write report", TasksText: "write report\nreview PR"}, saved)
}

func TestRootCommand_ShellTimer(t *testing.T) {
	h := newRootHarness(t)

	_, _, err := h.run(t, "", "task", "write report")
	require.NoError(t, err)

	// each clock read lands 30 minutes after the previous one
	root := NewRootCommand(RootOptions{
		In:     strings.NewReader("start\nstop\nquit\n"),
		Out:    &bytes.Buffer{},
		ErrOut: &bytes.Buffer{},
		Clock: func() func() time.Time {
			calls := 0
			return func() time.Time {
				calls++
				return h.clock.t.Add(time.Duration(calls-1) * 30 * time.Minute)
			}
		}(),
	})
	root.SetArgs([]string{"--data-dir", h.dir, "shell"})
	require.NoError(t, root.Execute(context.Background()))

	out, _, err := h.run(t, "", "--format", "csv", "history")
	require.NoError(t, err)
	assert.Equal(t, "id,task,hours\n1,write report,0.50\n", out)

	out, _, err = h.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Hours spent: 0.50")
}

func TestRootCommand_FormatFromEnvironment(t *testing.T) {
	h := newRootHarness(t)
	t.Setenv("SINGLETASK_COMMANDS_LIST_FORMAT", "json")

	_, _, err := h.run(t, "", "capture", "buy milk")
	require.NoError(t, err)

	out, _, err := h.run(t, "", "list")
	require.NoError(t, err)
	var got []domain.Capture
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []domain.Capture{{ID: 1, Content: "buy milk"}}, got)
}

func TestRootCommand_ConfigFile(t *testing.T) {
	h := newRootHarness(t)
	dataDir := filepath.Join(h.dir, "data")
	configPath := filepath.Join(h.dir, "singletask.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("storage:\n  dir: "+dataDir+"\n  database_file: inbox.db\n"), 0644))

	root := NewRootCommand(RootOptions{Out: &bytes.Buffer{}, ErrOut: &bytes.Buffer{}})
	root.SetArgs([]string{"--config", configPath, "capture", "configured"})
	require.NoError(t, root.Execute(context.Background()))

	assert.Equal(t, filepath.Join(dataDir, "inbox.db"), root.Config().GetDatabasePath())
	_, err := os.Stat(filepath.Join(dataDir, "inbox.db"))
	assert.NoError(t, err)
}

func TestRootCommand_CorruptSnapshotRecovers(t *testing.T) {
	h := newRootHarness(t)
	statePath := filepath.Join(h.dir, "app_state.json")
	require.NoError(t, os.WriteFile(statePath, []byte("not json"), 0644))

	out, errOut, err := h.run(t, "", "task")
	require.NoError(t, err)
	assert.Equal(t, "Current task: No task selected\nHours spent: 0.00\n", out)
	assert.Contains(t, errOut, "snapshot unreadable")

	_, err = os.Stat(statePath + ".corrupt")
	assert.NoError(t, err)
}

func TestRootCommand_Errors(t *testing.T) {
	h := newRootHarness(t)

	t.Run("invalid id", func(t *testing.T) {
		_, _, err := h.run(t, "", "delete", "first")
		require.Error(t, err)
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
	})

	t.Run("invalid format", func(t *testing.T) {
		_, _, err := h.run(t, "", "--format", "xml", "list")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list_format")
	})

	t.Run("capture needs text", func(t *testing.T) {
		_, _, err := h.run(t, "", "capture")
		assert.Error(t, err)
	})

	t.Run("unknown command", func(t *testing.T) {
		_, _, err := h.run(t, "", "resume")
		assert.Error(t, err)
	})
}
