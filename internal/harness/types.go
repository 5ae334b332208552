package harness

import "github.com/roach88/fleetlot/internal/engine"

// TranscriptLine is one executed step as recorded in the journal.
type TranscriptLine struct {
	Seq       int64  `json:"seq"`
	Line      string `json:"line"`
	Output    string `json:"output,omitempty"`
	HasOutput bool   `json:"has_output"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation and assertion held.
	Pass bool `json:"pass"`

	// RunID is the journal run the transcript was read from.
	RunID string `json:"run_id"`

	// Transcript holds every executed line in order.
	Transcript []TranscriptLine `json:"transcript"`

	// Lots is the engine state after the last step.
	Lots []engine.LotSnapshot `json:"lots"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Transcript: []TranscriptLine{},
		Errors:     []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
