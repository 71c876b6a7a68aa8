package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePerformerKind(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  PerformerKind
		ok    bool
	}{
		{"instruments string", "instruments", PerformerInstruments, true},
		{"device_agent string", "device_agent", PerformerDeviceAgent, true},
		{"symbol style", ":device_agent", PerformerDeviceAgent, true},
		{"typed member", PerformerInstruments, PerformerInstruments, true},
		{"unknown name", "unknown_performer", PerformerUnset, false},
		{"wrong case", "Instruments", PerformerUnset, false},
		{"typed unset", PerformerUnset, PerformerUnset, false},
		{"out of range", PerformerKind(42), PerformerKind(42), false},
		{"integer", 1, PerformerUnset, false},
		{"nil", nil, PerformerUnset, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePerformerKind(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPerformerKind_ClosedSet(t *testing.T) {
	kinds := PerformerKinds()
	require.Len(t, kinds, 2)
	for _, k := range kinds {
		assert.True(t, k.Valid())
	}
	assert.False(t, PerformerUnset.Valid())
	assert.Equal(t, "unset", PerformerUnset.String())
	assert.Equal(t, "PerformerKind(7)", PerformerKind(7).String())
}

func TestPerformerKind_Text(t *testing.T) {
	text, err := PerformerDeviceAgent.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "device_agent", string(text))

	_, err = PerformerUnset.MarshalText()
	assert.Error(t, err)

	var k PerformerKind
	require.NoError(t, k.UnmarshalText([]byte("instruments")))
	assert.Equal(t, PerformerInstruments, k)
	assert.Error(t, k.UnmarshalText([]byte("xcuitest")))
}
