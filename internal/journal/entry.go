package journal

import (
	"context"
	"fmt"
)

// Entry is one processed input line.
type Entry struct {
	ID        string `json:"id"`
	RunID     string `json:"run_id"`
	Seq       int64  `json:"seq"`
	Line      string `json:"line"`
	Command   string `json:"command"`
	Output    string `json:"output"`
	HasOutput bool   `json:"has_output"`
}

// Session appends entries to a single run.
type Session struct {
	journal *Journal
	runID   string
}

// RunID returns the ID of the run this session writes to.
func (s *Session) RunID() string {
	return s.runID
}

// Append writes e to the session's run. RunID and ID are filled in.
// Uses ON CONFLICT(run_id, seq) DO NOTHING - re-appending a seq is a no-op.
func (s *Session) Append(ctx context.Context, e Entry) error {
	e.RunID = s.runID
	e.ID = EntryID(s.runID, e.Seq, e.Line)
	return s.journal.writeEntry(ctx, e)
}

func (j *Journal) writeEntry(ctx context.Context, e Entry) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO entries (run_id, seq, id, line, command, output, has_output)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`,
		e.RunID,
		e.Seq,
		e.ID,
		e.Line,
		e.Command,
		e.Output,
		e.HasOutput,
	)
	if err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}

// ReadEntries returns every entry of a run ordered by seq.
// Returns an empty slice (not nil) for an unknown or empty run.
func (j *Journal) ReadEntries(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, run_id, seq, line, command, output, has_output
		FROM entries
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.RunID, &e.Seq, &e.Line, &e.Command, &e.Output, &e.HasOutput); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}
