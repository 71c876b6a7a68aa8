package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "modern_toolchain.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "modern_toolchain", s.Name)
	assert.False(t, s.Cloud)
	assert.Equal(t, "8.3", s.Xcode)
	require.NotNil(t, s.Device)
	assert.Equal(t, "10.3", s.Device.Version)
	require.Len(t, s.Flow, 4)
	assert.Empty(t, s.Flow[0].Options)
	assert.NotNil(t, s.Flow[0].Options)
	assert.Equal(t, "INCOMPATIBLE_OPTION", s.Flow[2].Expect.Error)
	assert.Equal(t, 30, s.Flow[3].Options["launch_timeout"])
	require.Len(t, s.Assertions, 4)
	assert.Equal(t, AssertForwardedUnchanged, s.Assertions[2].Type)
}

func TestLoadScenario_NotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseScenario_NullOptionKept(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: n
description: d
flow:
  - options: { gesture_performer: null }
`))
	require.NoError(t, err)
	v, ok := s.Flow[0].Options["gesture_performer"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    "name: n\ndescription: d\nflows: []\n",
			wantErr: "field flows not found",
		},
		{
			name:    "missing name",
			yaml:    "description: d\nflow: [{options: {}}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nflow: [{options: {}}]\n",
			wantErr: "description is required",
		},
		{
			name:    "empty flow",
			yaml:    "name: n\ndescription: d\n",
			wantErr: "flow list is required",
		},
		{
			name:    "missing options",
			yaml:    "name: n\ndescription: d\nflow: [{expect: {performer: instruments}}]\n",
			wantErr: "flow[0]: options is required",
		},
		{
			name:    "bad xcode",
			yaml:    "name: n\ndescription: d\nxcode: eight\nflow: [{options: {}}]\n",
			wantErr: "xcode:",
		},
		{
			name:    "device without version",
			yaml:    "name: n\ndescription: d\ndevice: {name: x}\nflow: [{options: {}}]\n",
			wantErr: "device:",
		},
		{
			name:    "xcode option in step",
			yaml:    "name: n\ndescription: d\nflow: [{options: {xcode: \"8.0\"}}]\n",
			wantErr: `option "xcode" is set from the scenario`,
		},
		{
			name:    "empty expect",
			yaml:    "name: n\ndescription: d\nflow: [{options: {}, expect: {}}]\n",
			wantErr: "performer or error is required",
		},
		{
			name:    "both outcomes",
			yaml:    "name: n\ndescription: d\nflow: [{options: {}, expect: {performer: instruments, error: INVALID_OPTION}}]\n",
			wantErr: "mutually exclusive",
		},
		{
			name:    "unknown performer",
			yaml:    "name: n\ndescription: d\nflow: [{options: {}, expect: {performer: uia}}]\n",
			wantErr: `unknown performer "uia"`,
		},
		{
			name:    "unknown error code",
			yaml:    "name: n\ndescription: d\nflow: [{options: {}, expect: {error: BOOM}}]\n",
			wantErr: `unknown error code "BOOM"`,
		},
		{
			name:    "unknown assertion",
			yaml:    "name: n\ndescription: d\nflow: [{options: {}}]\nassertions: [{type: final_state}]\n",
			wantErr: `unknown assertion type "final_state"`,
		},
		{
			name:    "assertion without type",
			yaml:    "name: n\ndescription: d\nflow: [{options: {}}]\nassertions: [{count: 1}]\n",
			wantErr: "assertions[0]: type is required",
		},
		{
			name:    "negative count",
			yaml:    "name: n\ndescription: d\nflow: [{options: {}}]\nassertions: [{type: history_count, count: -1}]\n",
			wantErr: "count must be non-negative",
		},
		{
			name:    "performer_count without performer",
			yaml:    "name: n\ndescription: d\nflow: [{options: {}}]\nassertions: [{type: performer_count, count: 1}]\n",
			wantErr: "valid performer is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
