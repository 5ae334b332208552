package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/fleetlot/internal/command"
	"github.com/roach88/fleetlot/internal/config"
	"github.com/roach88/fleetlot/internal/runner"
)

// loadSettings resolves the effective config: defaults, then the config
// file, then explicit flags.
func loadSettings(opts *RootOptions, o config.Overrides) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}

	if o.LineEnding == "" {
		o.LineEnding = opts.LineEnding
	}
	if opts.Verbose {
		o.LogLevel = "debug"
	}
	cfg = cfg.Merge(o)

	if _, err := runner.ParseLineEnding(cfg.LineEnding); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid settings", err)
	}
	return cfg, nil
}

// setupLogging installs a text handler on w at the configured level and
// makes it the default logger.
func setupLogging(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid settings", err)
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

// seedLots creates the configured lots by feeding create_parking_lot lines
// through r, so they are journaled like any other input.
func seedLots(ctx context.Context, r *runner.Runner, lots []config.LotConfig) error {
	for _, lot := range lots {
		line := fmt.Sprintf("%s %d %d", command.NameCreateLot, lot.Capacity, lot.Limit)
		if _, _, err := r.Process(ctx, line); err != nil {
			return fmt.Errorf("seed lot %d: %w", lot.Capacity, err)
		}
	}
	return nil
}
