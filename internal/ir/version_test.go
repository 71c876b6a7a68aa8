package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion_Lenient(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		major    uint64
		minor    uint64
	}{
		{"9", "9.0", 9, 0},
		{"9.0", "9.0", 9, 0},
		{"10.3.1", "10.3.1", 10, 3},
		{" 8.0 ", "8.0", 8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseVersion(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v.String())
			assert.Equal(t, tt.major, v.Major())
			assert.Equal(t, tt.minor, v.Minor())
		})
	}
}

func TestParseVersion_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "nine", "9.x.y.z"} {
		_, err := ParseVersion(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestVersion_Ordering(t *testing.T) {
	ios8 := MustParseVersion("8.0")
	ios9 := MustParseVersion("9.0")
	ios93 := MustParseVersion("9.3")

	assert.True(t, ios9.GTE(ios9))
	assert.True(t, ios93.GTE(ios9))
	assert.False(t, ios8.GTE(ios9))
	assert.True(t, ios8.LT(ios9))
	assert.False(t, ios9.LT(ios9))
	assert.True(t, MustParseVersion("9").Equal(ios9))
	assert.Equal(t, -1, ios8.Compare(ios93))
	assert.Equal(t, 1, ios93.Compare(ios8))
}

func TestVersion_ZeroValue(t *testing.T) {
	var zero Version
	assert.True(t, zero.IsZero())
	assert.Equal(t, "", zero.String())
	assert.True(t, zero.LT(MustParseVersion("0.1")))
	assert.Equal(t, 0, zero.Compare(Version{}))
}

func TestVersion_TextRoundTrip(t *testing.T) {
	var v Version
	require.NoError(t, v.UnmarshalText([]byte("10.3")))
	text, err := v.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "10.3", string(text))

	assert.Error(t, v.UnmarshalText([]byte("bogus")))
}

func TestMustParseVersion_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParseVersion("not-a-version") })
}
