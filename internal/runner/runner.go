package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/fleetlot/internal/command"
	"github.com/roach88/fleetlot/internal/engine"
	"github.com/roach88/fleetlot/internal/journal"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// Recorder receives every processed line. *journal.Session implements it.
type Recorder interface {
	Append(ctx context.Context, e journal.Entry) error
}

// LineError attaches the 1-based input line number to a fatal error.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Stats summarises a run.
type Stats struct {
	Lines   int `json:"lines"`
	Outputs int `json:"outputs"`
	Unknown int `json:"unknown"`
	Skipped int `json:"skipped"`
}

// Runner feeds input lines to an engine one at a time and writes results.
//
// Runner is single-threaded: each line is parsed, executed and written
// before the next is read.
type Runner struct {
	engine     *engine.Engine
	out        io.Writer
	lineEnding LineEnding
	recorder   Recorder
	clock      *Clock
	logger     *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLineEnding sets the output terminator policy. Default: LineEndingLF.
func WithLineEnding(le LineEnding) Option {
	return func(r *Runner) {
		r.lineEnding = le
	}
}

// WithRecorder journals every processed line.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithClock sets the clock used to stamp lines. Default: NewClock().
func WithClock(c *Clock) Option {
	return func(r *Runner) {
		r.clock = c
	}
}

// WithLogger sets the diagnostic logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// New creates a Runner that drives e and writes results to out.
func New(e *engine.Engine, out io.Writer, opts ...Option) *Runner {
	r := &Runner{
		engine:     e,
		out:        out,
		lineEnding: LineEndingLF,
		clock:      NewClock(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes every line of in.
//
// Blank lines are skipped. Unknown commands are logged and produce no
// output. A malformed line stops the run and returns a *LineError wrapping
// the *command.ParseError; output written for earlier lines is kept.
func (r *Runner) Run(ctx context.Context, in io.Reader) (Stats, error) {
	var stats Stats
	w := bufio.NewWriter(r.out)

	err := r.run(ctx, in, w, &stats)
	if flushErr := w.Flush(); flushErr != nil && err == nil {
		err = fmt.Errorf("flush output: %w", flushErr)
	}
	return stats, err
}

func (r *Runner) run(ctx context.Context, in io.Reader, w *bufio.Writer, stats *Stats) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	lineNo := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		lineNo++
		stats.Lines++
		line := sc.Text()

		res, kind, err := r.Process(ctx, line)
		switch {
		case errors.Is(err, command.ErrBlankLine):
			stats.Skipped++
			r.logger.Debug("blank line skipped", "line", lineNo)
			continue
		case command.IsUnknown(err):
			stats.Unknown++
			r.logger.Warn("unknown command", "line", lineNo, "error", err)
			continue
		case err != nil:
			return &LineError{Line: lineNo, Err: err}
		}

		if !res.HasOutput {
			continue
		}
		if _, err := w.WriteString(res.Output + r.lineEnding.Terminator(kind)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		stats.Outputs++
	}

	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// Process parses and executes a single line, journaling it when a
// recorder is configured. Blank and unknown lines are returned as errors
// and are not journaled.
func (r *Runner) Process(ctx context.Context, line string) (command.Result, command.Kind, error) {
	c, err := command.Parse(line)
	if err != nil {
		return command.Result{}, 0, err
	}

	res := command.Execute(r.engine, c)
	seq := r.clock.Next()

	r.logger.Debug("command processed",
		"seq", seq,
		"command", c.Name(),
		"output", res.Output,
	)

	if r.recorder != nil {
		entry := journal.Entry{
			Seq:       seq,
			Line:      line,
			Command:   c.Name(),
			Output:    res.Output,
			HasOutput: res.HasOutput,
		}
		if err := r.recorder.Append(ctx, entry); err != nil {
			return res, c.Kind, fmt.Errorf("journal line: %w", err)
		}
	}

	return res, c.Kind, nil
}
