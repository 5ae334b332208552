package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fleetlot/internal/journal"
)

// seedJournal writes one run whose entries carry the given outputs.
func seedJournal(t *testing.T, runID string, entries []journal.Entry) string {
	t.Helper()

	db := filepath.Join(t.TempDir(), "fleetlot.db")
	j, err := journal.Open(db)
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	session, err := j.BeginRun(ctx, journal.NewFixedGenerator(runID), "lf")
	require.NoError(t, err)
	for _, e := range entries {
		require.NoError(t, session.Append(ctx, e))
	}
	return db
}

func TestReplayCommand_RequiresDB(t *testing.T) {
	_, _, err := execute(t, "replay")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "db" not set`)
}

func TestReplayCommand_MissingDB(t *testing.T) {
	_, _, err := execute(t, "replay", "--db", filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReplayCommand_EmptyJournal(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")
	j, err := journal.Open(db)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	out, _, err := execute(t, "replay", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs found")
}

func TestReplayCommand_DetectsTamperedOutput(t *testing.T) {
	db := seedJournal(t, "run-tampered", []journal.Entry{
		{Seq: 1, Line: "create_parking_lot 4 1", Command: "create_parking_lot"},
		{Seq: 2, Line: "add_truck 1 4", Command: "add_truck", Output: "4", HasOutput: true},
		{Seq: 3, Line: "count 0", Command: "count", Output: "7", HasOutput: true},
	})

	out, _, err := execute(t, "replay", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Run: run-tampered")
	assert.Contains(t, out, `Mismatch at seq 3 (count 0): journaled "7", replayed "1"`)
}

func TestReplayCommand_JSON(t *testing.T) {
	db := seedJournal(t, "run-ok", []journal.Entry{
		{Seq: 1, Line: "create_parking_lot 4 1", Command: "create_parking_lot"},
		{Seq: 2, Line: "add_truck 1 4", Command: "add_truck", Output: "4", HasOutput: true},
		{Seq: 3, Line: "ready 4", Command: "ready", Output: "1 4", HasOutput: true},
	})

	out, _, err := execute(t, "replay", "--db", db, "--run", "run-ok", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.AllDeterministic)
	require.Len(t, resp.Data.Runs, 1)
	assert.Equal(t, "run-ok", resp.Data.Runs[0].RunID)
	assert.Equal(t, 3, resp.Data.Runs[0].Entries)
	assert.Equal(t, 2, resp.Data.Runs[0].Outputs)
}

func TestReplayCommand_UnknownRun(t *testing.T) {
	db := seedJournal(t, "run-a", nil)

	_, _, err := execute(t, "replay", "--db", db, "--run", "run-b")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
