package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/fleetlot/internal/command"
	"github.com/roach88/fleetlot/internal/engine"
	"github.com/roach88/fleetlot/internal/journal"
	"github.com/roach88/fleetlot/internal/runner"
)

// RunIDPrefix prefixes the deterministic journal run ID of a scenario.
const RunIDPrefix = "scenario/"

// Harness executes one scenario.
type Harness struct {
	engine  *engine.Engine
	journal *journal.Journal
	session *journal.Session
	runner  *runner.Runner
}

// Run executes a scenario on a fresh engine and returns the result.
//
// Each scenario runs against its own in-memory journal. The returned
// error is reserved for infrastructure failures; unmet expectations,
// failed assertions and malformed lines are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	h, err := newHarness(ctx, scenario.Name)
	if err != nil {
		return nil, err
	}
	defer h.journal.Close()

	result := NewResult()
	result.RunID = h.session.RunID()

	for _, lot := range scenario.Lots {
		if !h.engine.CreateLot(lot.Capacity, lot.Limit) {
			result.AddError(fmt.Sprintf("seed lot %d: duplicate capacity", lot.Capacity))
		}
	}

	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, err
	}

	transcript, err := h.transcript(ctx)
	if err != nil {
		return nil, err
	}
	result.Transcript = transcript
	result.Lots = h.engine.Lots()

	for _, msg := range EvaluateAssertions(h.engine, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func newHarness(ctx context.Context, name string) (*Harness, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	j, err := journal.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}

	session, err := j.BeginRun(ctx, journal.NewFixedGenerator(RunIDPrefix+name), string(runner.LineEndingLF))
	if err != nil {
		j.Close()
		return nil, fmt.Errorf("failed to begin run: %w", err)
	}

	eng := engine.New(engine.WithLogger(logger))
	r := runner.New(eng, io.Discard,
		runner.WithRecorder(session),
		runner.WithLogger(logger),
	)

	return &Harness{
		engine:  eng,
		journal: j,
		session: session,
		runner:  r,
	}, nil
}

// executeSteps runs every step, stopping at the first malformed line.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		res, _, err := h.runner.Process(ctx, step.Cmd)
		switch {
		case command.IsUnknown(err), errors.Is(err, command.ErrBlankLine):
			if step.Expect != nil {
				result.AddError(fmt.Sprintf("step %d (%s): expected %q, got no output: %v",
					i+1, step.Cmd, *step.Expect, err))
			}
			continue
		case command.IsMalformed(err):
			result.AddError(fmt.Sprintf("step %d (%s): %v", i+1, step.Cmd, err))
			return nil
		case err != nil:
			return fmt.Errorf("step %d: %w", i+1, err)
		}

		if step.Expect == nil {
			continue
		}
		if !res.HasOutput {
			result.AddError(fmt.Sprintf("step %d (%s): expected %q, command writes no output",
				i+1, step.Cmd, *step.Expect))
			continue
		}
		if res.Output != *step.Expect {
			result.AddError(fmt.Sprintf("step %d (%s): expected %q, got %q",
				i+1, step.Cmd, *step.Expect, res.Output))
		}
	}
	return nil
}

// transcript reads the executed lines back from the journal.
func (h *Harness) transcript(ctx context.Context) ([]TranscriptLine, error) {
	entries, err := h.journal.ReadEntries(ctx, h.session.RunID())
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	lines := make([]TranscriptLine, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, TranscriptLine{
			Seq:       e.Seq,
			Line:      e.Line,
			Output:    e.Output,
			HasOutput: e.HasOutput,
		})
	}
	return lines, nil
}
