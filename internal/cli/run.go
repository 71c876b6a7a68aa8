package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/runloop/internal/config"
	"github.com/roach88/runloop/internal/ir"
	"github.com/roach88/runloop/internal/policy"
	"github.com/roach88/runloop/internal/runloop"
	"github.com/roach88/runloop/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// IDGenerator allows overriding the run ID generator (for testing).
	// If nil, the store's UUIDv7Generator is used.
	IDGenerator store.IDGenerator
}

// RunResult is the JSON payload of a successful run.
type RunResult struct {
	GesturePerformer string   `json:"gesture_performer"`
	ConfigHash       string   `json:"config_hash"`
	Options          []string `json:"options"`
	EngineVersion    string   `json:"engine_version"`
	RunID            string   `json:"run_id,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <config-file>",
		Short: "Forward a launch configuration and plan the session",
		Long: `Load a launch configuration and forward it, unchanged, to the planner,
which selects the gesture performer for the configured xcode and device.

With --db every run, including refused ones, is appended to a SQLite
run history.

Example:
  runloop run ./session.yaml
  runloop run --db ./runloop.db ./session.toml --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run history (optional)")

	return cmd
}

// configureLogging installs a text slog handler on w, at debug level when
// verbose is set.
func configureLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

func runSession(opts *RunOptions, path string, cmd *cobra.Command) error {
	configureLogging(cmd.ErrOrStderr(), opts.Verbose)
	formatter := opts.formatter(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("loading configuration", "path", path)
	cfg, err := config.Load(path)
	if err != nil {
		return reportLoadError(formatter, err)
	}
	slog.Debug("configuration loaded", "options", strings.Join(cfg.Keys(), ","))

	planner := runloop.NewPlanner(policy.New(opts.probe()))
	result, runErr := runloop.Run(ctx, planner, cfg)

	var recorded store.Run
	if opts.Database != "" {
		recorded, err = recordRun(ctx, opts, path, cfg, result, runErr)
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, "failed to record run", err.Error())
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		slog.Info("run recorded", "id", recorded.ID, "seq", recorded.Seq)
	}

	if runErr != nil {
		slog.Warn("run refused", "error", runErr)
		return reportDecisionError(formatter, runErr)
	}

	out := RunResult{RunID: recorded.ID}
	out.GesturePerformer, _ = result[runloop.ResultGesturePerformer].(string)
	out.ConfigHash, _ = result[runloop.ResultConfigHash].(string)
	out.Options, _ = result[runloop.ResultOptions].([]string)
	out.EngineVersion, _ = result[runloop.ResultEngineVersion].(string)
	slog.Info("gesture performer selected", "performer", out.GesturePerformer, "config_hash", out.ConfigHash)

	return formatter.Emit(out, func(w io.Writer) error {
		fmt.Fprintf(w, "gesture_performer: %s\n", out.GesturePerformer)
		fmt.Fprintf(w, "config_hash:       %s\n", out.ConfigHash)
		fmt.Fprintf(w, "options:           %s\n", strings.Join(out.Options, ", "))
		if out.RunID != "" {
			fmt.Fprintf(w, "run_id:            %s\n", out.RunID)
		}
		return nil
	})
}

// recordRun appends the outcome of one run to the history database.
func recordRun(ctx context.Context, opts *RunOptions, path string, cfg ir.Configuration, result runloop.Result, runErr error) (store.Run, error) {
	hash, err := ir.ConfigurationHash(cfg)
	if err != nil {
		return store.Run{}, err
	}

	run := store.Run{ConfigFile: path, ConfigHash: hash}
	if runErr != nil {
		run.ErrorCode = decisionErrorCode(runErr)
		run.Message = runErr.Error()
	} else {
		run.Performer, _ = result[runloop.ResultGesturePerformer].(string)
	}

	var storeOpts []store.Option
	if opts.IDGenerator != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDGenerator))
	}

	slog.Debug("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database, storeOpts...)
	if err != nil {
		return store.Run{}, err
	}
	defer st.Close()

	return st.WriteRun(ctx, run)
}
