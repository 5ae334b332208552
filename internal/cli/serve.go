package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/fleetlot/internal/config"
	"github.com/roach88/fleetlot/internal/engine"
	"github.com/roach88/fleetlot/internal/httpapi"
	"github.com/roach88/fleetlot/internal/journal"
	"github.com/roach88/fleetlot/internal/runner"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr    string
	Journal string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve one engine over HTTP",
		Long: `Serve a single engine over HTTP until interrupted.

Routes:
  GET  /health
  POST /api/commands      {"lines": ["add_truck 1 10", ...]}
  GET  /api/lots
  GET  /api/lots/{capacity}
  GET  /api/count?threshold=N

Requests are applied one at a time. With --journal every line posted
to /api/commands is journaled as one run.

Examples:
  fleetlot serve --addr :8080
  fleetlot serve --config fleetlot.cue --journal ./fleetlot.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite journal (optional)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := loadSettings(opts.RootOptions, config.Overrides{
		Journal:  opts.Journal,
		HTTPAddr: opts.Addr,
	})
	if err != nil {
		return err
	}
	logger, err := setupLogging(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	eng := engine.New(engine.WithLogger(logger))
	runnerOpts := []runner.Option{runner.WithLogger(logger)}

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

		session, err := j.BeginRun(ctx, nil, cfg.LineEnding)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to begin journal run", err)
		}
		logger.Info("journaling requests", "path", cfg.Journal, "run", session.RunID())
		runnerOpts = append(runnerOpts, runner.WithRecorder(session))
	}

	r := runner.New(eng, io.Discard, runnerOpts...)
	if err := seedLots(ctx, r, cfg.Lots); err != nil {
		return WrapExitError(ExitCommandError, "failed to seed lots", err)
	}

	srv := httpapi.NewServer(eng, r, cfg.HTTP.Addr, logger)
	if err := srv.ListenAndServe(ctx); err != nil {
		return WrapExitError(ExitCommandError, "server error", err)
	}
	return nil
}
