package policy

import (
	"github.com/roach88/runloop/internal/environment"
	"github.com/roach88/runloop/internal/ir"
)

// Cell is one row of the compatibility matrix.
type Cell struct {
	CloudMode bool   `json:"cloud_mode"`
	Toolchain string `json:"toolchain"`
	DeviceOS  string `json:"device_os"`
	Requested string `json:"requested"`
	Performer string `json:"performer,omitempty"`
	Error     string `json:"error,omitempty"`

	// Unverified marks combinations accepted only because no rule refuses
	// them (explicit device_agent on Xcode < 8).
	Unverified bool `json:"unverified,omitempty"`
}

// RequestDefault labels cells where no gesture_performer was given.
const RequestDefault = "default"

type matrixToolchain bool

func (m matrixToolchain) VersionAtLeast8() bool { return bool(m) }

type matrixDevice struct{ v ir.Version }

func (m matrixDevice) Version() ir.Version { return m.v }

// Matrix evaluates every (cloud mode, toolchain tier, device tier, request)
// combination through SelectPerformer and reports the outcome. Rows are in a
// fixed order so the output is stable.
func Matrix() []Cell {
	toolchains := []struct {
		label    string
		atLeast8 bool
	}{
		{"<8", false},
		{">=8", true},
	}
	devices := []struct {
		label string
		v     ir.Version
	}{
		{"<9.0", ir.MustParseVersion("8.0")},
		{">=9.0", minDeviceAgentOS},
	}
	requests := []string{RequestDefault}
	for _, k := range ir.PerformerKinds() {
		requests = append(requests, k.String())
	}

	var cells []Cell
	for _, cloud := range []bool{false, true} {
		p := New(environment.Static(cloud))
		for _, tc := range toolchains {
			for _, dev := range devices {
				for _, req := range requests {
					cfg := ir.NewConfiguration()
					if req != RequestDefault {
						cfg = cfg.With(ir.KeyGesturePerformer, req)
					}

					cell := Cell{
						CloudMode: cloud,
						Toolchain: tc.label,
						DeviceOS:  dev.label,
						Requested: req,
					}
					kind, err := p.SelectPerformer(cfg, matrixToolchain(tc.atLeast8), matrixDevice{dev.v})
					if err != nil {
						cell.Error = string(CodeOf(err))
					} else {
						cell.Performer = kind.String()
						cell.Unverified = !cloud && !tc.atLeast8 && req == ir.PerformerDeviceAgent.String()
					}
					cells = append(cells, cell)
				}
			}
		}
	}
	return cells
}
