package journal

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// RunIDGenerator generates unique run identifiers.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined run IDs for testing.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined ID.
// Panics if all IDs have been consumed.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// Run describes one journaled input stream.
type Run struct {
	ID         string `json:"id"`
	LineEnding string `json:"line_ending"`
	Entries    int    `json:"entries"`
}

// BeginRun registers a new run and returns a Session that appends to it.
func (j *Journal) BeginRun(ctx context.Context, gen RunIDGenerator, lineEnding string) (*Session, error) {
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	id := gen.Generate()

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs (id, line_ending) VALUES (?, ?)
	`, id, lineEnding)
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}

	return &Session{journal: j, runID: id}, nil
}

// ListRuns returns every run in creation order.
func (j *Journal) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT r.id, r.line_ending, COUNT(e.seq)
		FROM runs r
		LEFT JOIN entries e ON e.run_id = r.id
		GROUP BY r.ord, r.id, r.line_ending
		ORDER BY r.ord ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.LineEnding, &r.Entries); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// GetRun returns a single run by ID.
func (j *Journal) GetRun(ctx context.Context, id string) (Run, error) {
	runs, err := j.ListRuns(ctx)
	if err != nil {
		return Run{}, err
	}
	for _, r := range runs {
		if r.ID == id {
			return r, nil
		}
	}
	return Run{}, fmt.Errorf("run %q not found", id)
}
