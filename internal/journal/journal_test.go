package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file should exist")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	for i := 0; i < 3; i++ {
		j, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		require.NoError(t, j.Close())
	}

	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	for _, table := range []string{"runs", "entries"} {
		var name string
		err := j.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		assert.NoError(t, err, "table %q missing", table)
	}
}

func TestOpen_Pragmas(t *testing.T) {
	j := setupTestJournal(t)

	assert.NoError(t, j.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, j.verifyPragma("synchronous", "1"))
	assert.NoError(t, j.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, j.verifyPragma("user_version", "1"))
}

func TestClose_NilDB(t *testing.T) {
	j := &Journal{}
	assert.NoError(t, j.Close())
}

func TestBeginRun_UUIDv7ByDefault(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	s, err := j.BeginRun(ctx, nil, "lf")
	require.NoError(t, err)

	parsed, err := uuid.Parse(s.RunID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestBeginRun_DuplicateIDFails(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()
	gen := NewFixedGenerator("run-1", "run-1")

	_, err := j.BeginRun(ctx, gen, "lf")
	require.NoError(t, err)
	_, err = j.BeginRun(ctx, gen, "lf")
	assert.Error(t, err)
}

func TestAppendAndReadEntries(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	s, err := j.BeginRun(ctx, NewFixedGenerator("run-a"), "legacy")
	require.NoError(t, err)

	// Append out of order; reads come back by seq.
	require.NoError(t, s.Append(ctx, Entry{Seq: 2, Line: "add_truck 1 10", Command: "add_truck", Output: "10", HasOutput: true}))
	require.NoError(t, s.Append(ctx, Entry{Seq: 1, Line: "create_parking_lot 10 2", Command: "create_parking_lot"}))

	entries, err := j.ReadEntries(ctx, "run-a")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, int64(1), entries[0].Seq)
	assert.Equal(t, "create_parking_lot 10 2", entries[0].Line)
	assert.False(t, entries[0].HasOutput)

	assert.Equal(t, int64(2), entries[1].Seq)
	assert.Equal(t, "10", entries[1].Output)
	assert.True(t, entries[1].HasOutput)
	assert.Equal(t, "run-a", entries[1].RunID)
	assert.Equal(t, EntryID("run-a", 2, "add_truck 1 10"), entries[1].ID)
}

func TestAppend_IdempotentOnSeq(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	s, err := j.BeginRun(ctx, NewFixedGenerator("run-a"), "lf")
	require.NoError(t, err)

	require.NoError(t, s.Append(ctx, Entry{Seq: 1, Line: "count 0", Command: "count", Output: "0", HasOutput: true}))
	require.NoError(t, s.Append(ctx, Entry{Seq: 1, Line: "count 5", Command: "count", Output: "9", HasOutput: true}))

	entries, err := j.ReadEntries(ctx, "run-a")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "count 0", entries[0].Line, "first write wins")
}

func TestReadEntries_UnknownRun(t *testing.T) {
	j := setupTestJournal(t)

	entries, err := j.ReadEntries(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestListRuns(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()
	gen := NewFixedGenerator("run-b", "run-a")

	sb, err := j.BeginRun(ctx, gen, "lf")
	require.NoError(t, err)
	_, err = j.BeginRun(ctx, gen, "crlf")
	require.NoError(t, err)

	require.NoError(t, sb.Append(ctx, Entry{Seq: 1, Line: "count 0", Command: "count", Output: "0", HasOutput: true}))

	runs, err := j.ListRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Run{
		{ID: "run-b", LineEnding: "lf", Entries: 1},
		{ID: "run-a", LineEnding: "crlf", Entries: 0},
	}, runs, "runs come back in creation order")

	r, err := j.GetRun(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, "crlf", r.LineEnding)

	_, err = j.GetRun(ctx, "missing")
	assert.Error(t, err)
}

func TestInMemoryJournal(t *testing.T) {
	j, err := Open(":memory:")
	require.NoError(t, err)
	defer j.Close()

	s, err := j.BeginRun(context.Background(), NewFixedGenerator("mem"), "lf")
	require.NoError(t, err)
	require.NoError(t, s.Append(context.Background(), Entry{Seq: 1, Line: "ready 1", Command: "ready", Output: "-1", HasOutput: true}))

	entries, err := j.ReadEntries(context.Background(), "mem")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
