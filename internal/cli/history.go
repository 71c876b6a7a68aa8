package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/runloop/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded by "runloop run --db", oldest first.

Example:
  runloop history --db ./runloop.db
  runloop history --db ./runloop.db --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run history (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "number of most recent runs to show (0 for all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if _, err := os.Stat(opts.Database); errors.Is(err, os.ErrNotExist) {
		_ = formatter.Error(ErrCodeDatabase, "database not found", opts.Database)
		return WrapExitError(ExitCommandError, "database not found", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, "failed to open database", err.Error())
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, "failed to list runs", err.Error())
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	return formatter.Emit(runs, func(w io.Writer) error {
		return writeHistory(w, runs)
	})
}

func writeHistory(w io.Writer, runs []store.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded")
		return err
	}

	const row = "%-4s  %-36s  %-32s  %-12s  %s\n"
	if _, err := fmt.Fprintf(w, row, "SEQ", "ID", "OUTCOME", "CONFIG", "FILE"); err != nil {
		return err
	}
	for _, r := range runs {
		outcome := r.Performer
		if r.ErrorCode != "" {
			outcome = "error: " + r.ErrorCode
		}
		hash := r.ConfigHash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		if _, err := fmt.Fprintf(w, row, fmt.Sprint(r.Seq), r.ID, outcome, hash, r.ConfigFile); err != nil {
			return err
		}
	}
	return nil
}
