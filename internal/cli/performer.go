package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/runloop/internal/device"
	"github.com/roach88/runloop/internal/environment"
	"github.com/roach88/runloop/internal/ir"
	"github.com/roach88/runloop/internal/policy"
	"github.com/roach88/runloop/internal/toolchain"
)

// PerformerOptions holds flags for the performer command.
type PerformerOptions struct {
	*RootOptions
	Xcode            string
	IOS              string
	GesturePerformer string
	Cloud            bool
}

// PerformerResult is the JSON payload of a successful decision.
type PerformerResult struct {
	GesturePerformer string `json:"gesture_performer"`
	CloudMode        bool   `json:"cloud_mode"`
}

// NewPerformerCommand creates the performer command.
func NewPerformerCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PerformerOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "performer",
		Short: "Select the gesture performer for a toolchain and device",
		Long: `Select the gesture performer for a toolchain and device.

Without --gesture-performer the default for the environment is reported.
With it, the requested backend is checked against the toolchain and device.
Cloud mode always selects instruments.

Example:
  runloop performer --xcode 8.3 --ios 10.3
  runloop performer --xcode 7.3 --ios 9.3 --gesture-performer device_agent
  runloop performer --cloud --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPerformer(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Xcode, "xcode", "", "active Xcode version (e.g. 8.3)")
	cmd.Flags().StringVar(&opts.IOS, "ios", "", "target device iOS version (e.g. 10.3)")
	cmd.Flags().StringVar(&opts.GesturePerformer, "gesture-performer", "", "requested backend (instruments|device_agent)")
	cmd.Flags().BoolVar(&opts.Cloud, "cloud", false, "force cloud mode on or off instead of reading "+environment.EnvCloud)

	return cmd
}

func runPerformer(opts *PerformerOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	var cloud bool
	if cmd.Flags().Changed("cloud") {
		cloud = opts.Cloud
	} else {
		cloud = opts.probe().CloudMode()
	}
	formatter.VerboseLog("cloud mode: %t", cloud)

	var tc policy.Toolchain
	if opts.Xcode != "" {
		xcode, err := toolchain.Parse(opts.Xcode)
		if err != nil {
			_ = formatter.Error(ErrCodeBadFlag, fmt.Sprintf("invalid --xcode value %q", opts.Xcode), err.Error())
			return WrapExitError(ExitCommandError, "invalid --xcode", err)
		}
		formatter.VerboseLog("toolchain: %s", xcode)
		tc = xcode
	}

	var dev policy.Device
	if opts.IOS != "" {
		v, err := ir.ParseVersion(opts.IOS)
		if err != nil {
			_ = formatter.Error(ErrCodeBadFlag, fmt.Sprintf("invalid --ios value %q", opts.IOS), err.Error())
			return WrapExitError(ExitCommandError, "invalid --ios", err)
		}
		formatter.VerboseLog("device iOS: %s", v)
		dev = device.New("", "", v)
	}

	cfg := ir.NewConfiguration()
	if cmd.Flags().Changed("gesture-performer") {
		cfg = cfg.With(ir.KeyGesturePerformer, opts.GesturePerformer)
	}

	kind, err := policy.New(environment.Static(cloud)).SelectPerformer(cfg, tc, dev)
	if err != nil {
		return reportDecisionError(formatter, err)
	}

	return formatter.Emit(PerformerResult{GesturePerformer: kind.String(), CloudMode: cloud}, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, kind)
		return err
	})
}
