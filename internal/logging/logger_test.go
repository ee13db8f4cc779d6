package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONLUnderStateDir(t *testing.T) {
	stateDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateDir)

	runtime, err := New(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = runtime.Close() })

	runtime.Logger.Info("session complete", "transcript_length", 12)
	require.NoError(t, runtime.Close())

	content, err := os.ReadFile(runtime.Path)
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(content, &record))
	require.Equal(t, "session complete", record["msg"])
	require.EqualValues(t, 12, record["transcript_length"])
}

func TestNewDebugMirrorsIntoTail(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	runtime, err := New(true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = runtime.Close() })

	runtime.Logger.Debug("capture chunk", "bytes", 640)

	lines := runtime.Tail.Lines()
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "capture chunk")
	require.Contains(t, lines[0], "bytes=640")
}

func TestNewInfoLevelSkipsDebug(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	runtime, err := New(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = runtime.Close() })

	runtime.Logger.Debug("should be dropped")
	require.NoError(t, runtime.Close())

	content, err := os.ReadFile(runtime.Path)
	require.NoError(t, err)
	require.Empty(t, content)
}

func TestSetDebugTogglesLevelAtRuntime(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	runtime, err := New(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = runtime.Close() })

	runtime.Logger.Debug("before toggle")
	require.Empty(t, runtime.Tail.Lines())

	runtime.SetDebug(true)
	runtime.Logger.Debug("after toggle", "bytes", 640)
	lines := runtime.Tail.Lines()
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "after toggle")

	runtime.SetDebug(false)
	runtime.Logger.Debug("after disable")
	require.Len(t, runtime.Tail.Lines(), 1)
}

func TestTailEvictsOldestWhenFull(t *testing.T) {
	tail := NewTail(3)
	for _, line := range []string{"a", "b", "c", "d"} {
		tail.Append(line)
	}
	require.Equal(t, []string{"b", "c", "d"}, tail.Lines())

	tail.Reset()
	require.Empty(t, tail.Lines())
}

func TestPruneOldLogsRemovesOnlyStaleSiblings(t *testing.T) {
	dir := t.TempDir()
	active := filepath.Join(dir, "log.jsonl")
	stale := filepath.Join(dir, "log-20260101.jsonl")
	fresh := filepath.Join(dir, "log-20260826.jsonl")

	for _, path := range []string{active, stale, fresh} {
		require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))
	}
	old := time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	require.NoError(t, PruneOldLogs(active, 7*24*time.Hour))

	_, err := os.Stat(stale)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(active)
	require.NoError(t, err)
	_, err = os.Stat(fresh)
	require.NoError(t, err)
}
