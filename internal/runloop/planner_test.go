package runloop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/runloop/internal/config"
	"github.com/roach88/runloop/internal/device"
	"github.com/roach88/runloop/internal/environment"
	"github.com/roach88/runloop/internal/ir"
	"github.com/roach88/runloop/internal/policy"
	"github.com/roach88/runloop/internal/toolchain"
)

func planConfig(xcode, ios string, extra ...ir.Option) ir.Configuration {
	opts := []ir.Option{
		ir.Opt(ir.KeyXcode, toolchain.New(ir.MustParseVersion(xcode))),
		ir.Opt(ir.KeyDevice, device.New("iPhone", "UDID-1", ir.MustParseVersion(ios))),
	}
	return ir.NewConfiguration(append(opts, extra...)...)
}

func TestPlanner_DefaultPerformer(t *testing.T) {
	pl := NewPlanner(policy.New(environment.Static(false)))
	cfg := planConfig("8.3", "10.3", ir.Opt(ir.KeyBundleID, "com.example.app"))

	res, err := Run(context.Background(), pl, cfg)
	require.NoError(t, err)
	assert.Equal(t, "device_agent", res[ResultGesturePerformer])
	assert.Equal(t, []string{"xcode", "device", "bundle_id"}, res[ResultOptions])
	assert.Equal(t, ir.MustConfigurationHash(cfg), res[ResultConfigHash])
	assert.Equal(t, ir.EngineVersion, res[ResultEngineVersion])
}

func TestPlanner_ExplicitPerformer(t *testing.T) {
	pl := NewPlanner(policy.New(environment.Static(false)))

	res, err := pl.ExecuteWithConfiguration(context.Background(),
		planConfig("7.3", "9.3", ir.Opt(ir.KeyGesturePerformer, "instruments")))
	require.NoError(t, err)
	assert.Equal(t, "instruments", res[ResultGesturePerformer])
}

func TestPlanner_PolicyFailurePropagates(t *testing.T) {
	pl := NewPlanner(policy.New(environment.Static(false)))

	_, err := pl.ExecuteWithConfiguration(context.Background(), planConfig("8.0", "8.4"))
	require.Error(t, err)
	assert.True(t, policy.IsIncompatibleEnvironment(err))

	_, err = pl.ExecuteWithConfiguration(context.Background(),
		planConfig("8.0", "10.0", ir.Opt(ir.KeyGesturePerformer, "instruments")))
	assert.True(t, policy.IsIncompatibleOption(err))
}

func TestPlanner_CloudModeNeedsNoHandles(t *testing.T) {
	pl := NewPlanner(policy.New(environment.Static(true)))

	res, err := pl.ExecuteWithConfiguration(context.Background(), ir.NewConfiguration())
	require.NoError(t, err)
	assert.Equal(t, "instruments", res[ResultGesturePerformer])
}

func TestPlanner_MissingHandle(t *testing.T) {
	pl := NewPlanner(policy.New(environment.Static(false)))

	_, err := pl.ExecuteWithConfiguration(context.Background(), ir.NewConfiguration())
	assert.ErrorIs(t, err, policy.ErrMissingFacts)
}

func TestPlanner_InvalidHandle(t *testing.T) {
	pl := NewPlanner(policy.New(environment.Static(false)))
	cfg := ir.NewConfiguration(ir.Opt(ir.KeyXcode, "8.3"))

	_, err := pl.ExecuteWithConfiguration(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrInvalidHandle)
	assert.Contains(t, err.Error(), `"xcode" holds string`)
}

func TestPlanner_FloatPassthrough(t *testing.T) {
	pl := NewPlanner(policy.New(environment.Static(true)))
	cfg := ir.NewConfiguration(ir.Opt("retry_delay", 30.5))

	res, err := pl.ExecuteWithConfiguration(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "device_agent", res[ResultGesturePerformer])
	assert.Equal(t, ir.MustConfigurationHash(cfg), res[ResultConfigHash])
}

func TestPlanner_ParsedPassthroughPayloads(t *testing.T) {
	tests := []struct {
		name   string
		format config.Format
		data   string
	}{
		{"yaml float", config.FormatYAML,
			"xcode: \"8.3\"\ndevice: {name: iPhone, version: \"10.3\"}\nretry_delay: 1.5\n"},
		{"yaml nested nulls", config.FormatYAML,
			"xcode: \"8.3\"\ndevice: {name: iPhone, version: \"10.3\"}\nenv: {DEBUG: null, ratio: 0.75}\nargs: [1, 2.25, null]\n"},
		{"toml float and table array", config.FormatTOML,
			"xcode = \"8.3\"\nretry_delay = 1.5\n[device]\nname = \"iPhone\"\nversion = \"10.3\"\n[[hooks]]\nname = \"pre\"\nweight = 0.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tt.data), tt.format)
			require.NoError(t, err)

			res, err := Run(context.Background(), NewPlanner(policy.New(environment.Static(false))), cfg)
			require.NoError(t, err)
			assert.Equal(t, "device_agent", res[ResultGesturePerformer])
			assert.Len(t, res[ResultConfigHash], 64)
		})
	}
}

func TestPlanner_TypedNilHandleIsMissing(t *testing.T) {
	pl := NewPlanner(policy.New(environment.Static(false)))

	cfg := ir.NewConfiguration(
		ir.Opt(ir.KeyXcode, (*toolchain.Xcode)(nil)),
		ir.Opt(ir.KeyDevice, device.New("iPhone", "UDID-1", ir.MustParseVersion("10.3"))),
	)
	_, err := pl.ExecuteWithConfiguration(context.Background(), cfg)
	assert.ErrorIs(t, err, policy.ErrMissingFacts)

	cfg = planConfig("8.3", "10.3").With(ir.KeyDevice, (*device.Device)(nil))
	_, err = pl.ExecuteWithConfiguration(context.Background(), cfg)
	assert.ErrorIs(t, err, policy.ErrMissingFacts)
}

func TestPlanner_TypedNilHandleInCloudMode(t *testing.T) {
	pl := NewPlanner(policy.New(environment.Static(true)))
	cfg := ir.NewConfiguration(ir.Opt(ir.KeyXcode, (*toolchain.Xcode)(nil)))

	res, err := pl.ExecuteWithConfiguration(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "device_agent", res[ResultGesturePerformer])
	assert.Equal(t, ir.MustConfigurationHash(ir.NewConfiguration()), res[ResultConfigHash])
}

func TestPlanner_CancelledContext(t *testing.T) {
	pl := NewPlanner(policy.New(environment.Static(true)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pl.ExecuteWithConfiguration(ctx, ir.NewConfiguration())
	assert.ErrorIs(t, err, context.Canceled)
}
