package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/fleetlot/internal/command"
	"github.com/roach88/fleetlot/internal/config"
	"github.com/roach88/fleetlot/internal/engine"
	"github.com/roach88/fleetlot/internal/journal"
	"github.com/roach88/fleetlot/internal/runner"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Journal string

	// RunIDs allows overriding the journal run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs journal.RunIDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <input> [output]",
		Short: "Process a command file",
		Long: `Process a file of commands, one per line, against a fresh engine.

Results are written to the output file, or to stdout if none is given.
Use "-" as the input to read from stdin. Blank lines are skipped and
unknown commands are logged and ignored. A malformed line stops the run
with exit code 1; output for earlier lines is kept.

With --journal every processed line is appended to a SQLite journal
that can later be checked with "fleetlot replay".

Examples:
  fleetlot run commands.txt
  fleetlot run commands.txt results.txt --line-ending legacy
  fleetlot run commands.txt --journal ./fleetlot.db --config fleetlot.cue`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := ""
			if len(args) == 2 {
				output = args[1]
			}
			return runCommands(opts, args[0], output, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite journal (optional)")

	return cmd
}

func runCommands(opts *RunOptions, input, output string, cmd *cobra.Command) error {
	cfg, err := loadSettings(opts.RootOptions, config.Overrides{Journal: opts.Journal})
	if err != nil {
		return err
	}
	logger, err := setupLogging(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	in, closeIn, err := openInput(input, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open input", err)
	}
	defer closeIn()

	out, closeOut, err := openOutput(output, cmd.OutOrStdout())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open output", err)
	}
	defer closeOut()

	lineEnding := runner.LineEnding(cfg.LineEnding)
	eng := engine.New(engine.WithLogger(logger))
	runnerOpts := []runner.Option{
		runner.WithLineEnding(lineEnding),
		runner.WithLogger(logger),
	}

	if cfg.Journal != "" {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := j.Close(); closeErr != nil {
				logger.Error("error closing journal", "error", closeErr)
			}
		}()

		session, err := j.BeginRun(ctx, opts.RunIDs, string(lineEnding))
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to begin journal run", err)
		}
		logger.Info("journaling run", "path", cfg.Journal, "run", session.RunID())
		runnerOpts = append(runnerOpts, runner.WithRecorder(session))
	}

	r := runner.New(eng, out, runnerOpts...)
	if err := seedLots(ctx, r, cfg.Lots); err != nil {
		return WrapExitError(ExitCommandError, "failed to seed lots", err)
	}

	stats, err := r.Run(ctx, in)
	logger.Debug("run finished",
		"lines", stats.Lines,
		"outputs", stats.Outputs,
		"unknown", stats.Unknown,
		"skipped", stats.Skipped,
	)
	if err != nil {
		if command.IsMalformed(err) {
			return WrapExitError(ExitFailure, "malformed input", err)
		}
		if errors.Is(err, context.Canceled) {
			return WrapExitError(ExitFailure, "run cancelled", err)
		}
		return WrapExitError(ExitCommandError, "run failed", err)
	}

	return nil
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() {
		if err := f.Close(); err != nil {
			slog.Error("error closing output", "path", path, "error", err)
		}
	}, nil
}
