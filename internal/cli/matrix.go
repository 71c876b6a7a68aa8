package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/runloop/internal/policy"
)

// NewMatrixCommand creates the matrix command.
func NewMatrixCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "matrix",
		Short: "Print the gesture performer compatibility matrix",
		Long: `Print the outcome of every combination of cloud mode, toolchain tier,
device OS tier and requested backend.

Rows marked (unverified) are accepted only because no rule refuses them.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cells := policy.Matrix()
			return rootOpts.formatter(cmd).Emit(cells, func(w io.Writer) error {
				return writeMatrix(w, cells)
			})
		},
	}
}

func writeMatrix(w io.Writer, cells []policy.Cell) error {
	const row = "%-5s  %-5s  %-6s  %-12s  %s\n"

	if _, err := fmt.Fprintf(w, row, "CLOUD", "XCODE", "IOS", "REQUEST", "OUTCOME"); err != nil {
		return err
	}
	for _, c := range cells {
		cloud := "no"
		if c.CloudMode {
			cloud = "yes"
		}
		outcome := c.Performer
		if c.Error != "" {
			outcome = "error: " + c.Error
		}
		if c.Unverified {
			outcome += " (unverified)"
		}
		if _, err := fmt.Fprintf(w, row, cloud, c.Toolchain, c.DeviceOS, c.Requested, outcome); err != nil {
			return err
		}
	}
	return nil
}
