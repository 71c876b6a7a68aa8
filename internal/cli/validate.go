package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/runloop/internal/config"
)

// ValidationResult is the JSON payload of a successful validation.
type ValidationResult struct {
	Valid   bool     `json:"valid"`
	Path    string   `json:"path"`
	Options []string `json:"options"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a launch configuration file",
		Long: `Validate a YAML or TOML launch configuration against the configuration
schema without selecting a performer.

Example:
  runloop validate ./session.yaml
  runloop validate ./session.toml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	formatter.VerboseLog("Validating %s", path)

	cfg, err := config.Load(path)
	if err != nil {
		return reportLoadError(formatter, err)
	}

	result := ValidationResult{Valid: true, Path: path, Options: cfg.Keys()}
	return formatter.Emit(result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "✓ %s valid (%d options: %s)\n", path, len(result.Options), strings.Join(result.Options, ", "))
		return err
	})
}
