package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/fleetlot/internal/engine"
	"github.com/roach88/fleetlot/internal/journal"
	"github.com/roach88/fleetlot/internal/runner"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
}

// Mismatch is the first line whose replayed output differs.
type Mismatch struct {
	Seq       int64  `json:"seq"`
	Line      string `json:"line"`
	Journaled string `json:"journaled"`
	Replayed  string `json:"replayed"`
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID         string    `json:"run_id"`
	LineEnding    string    `json:"line_ending"`
	Entries       int       `json:"entries"`
	Outputs       int       `json:"outputs"`
	Deterministic bool      `json:"deterministic"`
	Mismatch      *Mismatch `json:"mismatch,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a journal and verify determinism",
		Long: `Replay journaled runs and verify that they are deterministic.

Each run's lines are fed twice into a fresh engine. Both replays must
reproduce the journaled output of every line exactly.

Exit codes:
  0 - All runs are deterministic
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, etc.)

Examples:
  fleetlot replay --db ./fleetlot.db
  fleetlot replay --db ./fleetlot.db --run 0190c7a2-...
  fleetlot replay --db ./fleetlot.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay specific run only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "database not found", err)
	}

	j, err := journal.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer j.Close()

	var runs []journal.Run
	if opts.RunID != "" {
		run, err := j.GetRun(ctx, opts.RunID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to find run", err)
		}
		runs = []journal.Run{run}
	} else {
		runs, err = j.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
	}

	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(runs)),
		TotalRuns:        len(runs),
		AllDeterministic: true,
	}

	if len(runs) == 0 {
		if opts.Format == "json" {
			return outputReplayJSON(cmd, result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No runs found in journal.")
		return nil
	}

	for _, run := range runs {
		runResult, err := replayAndVerifyRun(ctx, j, run)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", run.ID), err)
		}

		result.Runs = append(result.Runs, runResult)
		if !runResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// replayAndVerifyRun replays a single run twice and compares both passes
// with the journaled outputs.
func replayAndVerifyRun(ctx context.Context, j *journal.Journal, run journal.Run) (ReplayRunResult, error) {
	entries, err := j.ReadEntries(ctx, run.ID)
	if err != nil {
		return ReplayRunResult{}, err
	}

	first, err := replayEntries(ctx, entries)
	if err != nil {
		return ReplayRunResult{}, fmt.Errorf("first replay failed: %w", err)
	}
	second, err := replayEntries(ctx, entries)
	if err != nil {
		return ReplayRunResult{}, fmt.Errorf("second replay failed: %w", err)
	}

	result := ReplayRunResult{
		RunID:         run.ID,
		LineEnding:    run.LineEnding,
		Entries:       len(entries),
		Deterministic: true,
	}

	for i, e := range entries {
		if e.HasOutput {
			result.Outputs++
		}
		if result.Mismatch != nil {
			continue
		}
		if first[i] != e.Output || second[i] != e.Output {
			replayed := first[i]
			if replayed == e.Output {
				replayed = second[i]
			}
			result.Deterministic = false
			result.Mismatch = &Mismatch{
				Seq:       e.Seq,
				Line:      e.Line,
				Journaled: e.Output,
				Replayed:  replayed,
			}
		}
	}

	return result, nil
}

// replayEntries feeds every journaled line into a fresh engine and returns
// the output of each line.
func replayEntries(ctx context.Context, entries []journal.Entry) ([]string, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(engine.WithLogger(logger))
	r := runner.New(eng, io.Discard, runner.WithLogger(logger))

	outputs := make([]string, len(entries))
	for i, e := range entries {
		res, _, err := r.Process(ctx, e.Line)
		if err != nil {
			return nil, fmt.Errorf("seq %d: %w", e.Seq, err)
		}
		outputs[i] = res.Output
	}
	return outputs, nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeDeterminism,
			Message: "determinism verification failed",
		}
	}

	formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
	if err := formatter.Response(response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d run(s)\n", result.TotalRuns)
	fmt.Fprintln(w)

	for _, run := range result.Runs {
		status := "✓"
		if !run.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Run: %s\n", status, run.RunID)
		fmt.Fprintf(w, "  Lines: %d, outputs: %d\n", run.Entries, run.Outputs)
		if verbose {
			fmt.Fprintf(w, "  Line ending: %s\n", run.LineEnding)
		}

		if m := run.Mismatch; m != nil {
			fmt.Fprintf(w, "  Mismatch at seq %d (%s): journaled %q, replayed %q\n",
				m.Seq, m.Line, m.Journaled, m.Replayed)
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All runs verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}
