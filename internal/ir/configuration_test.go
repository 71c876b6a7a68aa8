package ir

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handle struct{ name string }

func TestConfiguration_PreservesOrderAndIdentity(t *testing.T) {
	xcode := &handle{"xcode"}
	device := &handle{"device"}

	c := NewConfiguration(
		Opt(KeyXcode, xcode),
		Opt(KeyUIAStrategy, "preferences"),
		Opt(KeyDevice, device),
	)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"xcode", "uia_strategy", "device"}, c.Keys())

	got, ok := c.Get(KeyDevice)
	require.True(t, ok)
	assert.Same(t, device, got)
	assert.False(t, c.Has(KeyGesturePerformer))
}

func TestConfiguration_RepeatedKeyKeepsPosition(t *testing.T) {
	c := NewConfiguration(Opt("a", 1), Opt("b", 2), Opt("a", 3))
	assert.Equal(t, []string{"a", "b"}, c.Keys())
	v, _ := c.Get("a")
	assert.Equal(t, 3, v)
}

func TestConfiguration_WithDoesNotMutateReceiver(t *testing.T) {
	base := NewConfiguration(Opt("a", 1), Opt("b", 2))

	added := base.With(KeyGesturePerformer, "device_agent")
	replaced := base.With("a", 10)

	assert.Equal(t, []string{"a", "b"}, base.Keys())
	v, _ := base.Get("a")
	assert.Equal(t, 1, v)

	assert.Equal(t, []string{"a", "b", "gesture_performer"}, added.Keys())
	assert.Equal(t, []string{"a", "b"}, replaced.Keys())
	v, _ = replaced.Get("a")
	assert.Equal(t, 10, v)
}

func TestConfiguration_ZeroValue(t *testing.T) {
	var c Configuration
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Keys())
	_, ok := c.Get("anything")
	assert.False(t, ok)

	c2 := c.With("k", "v")
	assert.Equal(t, 1, c2.Len())
	assert.Equal(t, 0, c.Len())
}

func TestConfiguration_OptionsIsACopy(t *testing.T) {
	c := NewConfiguration(Opt("a", 1))
	opts := c.Options()
	opts[0].Value = 99
	v, _ := c.Get("a")
	assert.Equal(t, 1, v)
}

func TestConfiguration_Equal(t *testing.T) {
	h := &handle{"device"}
	list := []any{"a"}
	m := map[string]any{"k": "v"}

	a := NewConfiguration(Opt("device", h), Opt("list", list), Opt("map", m), Opt("n", 1))
	b := NewConfiguration(Opt("device", h), Opt("list", list), Opt("map", m), Opt("n", 1))
	assert.True(t, a.Equal(b))

	// Same contents, different identity
	other := NewConfiguration(Opt("device", &handle{"device"}), Opt("list", list), Opt("map", m), Opt("n", 1))
	assert.False(t, a.Equal(other))

	// Same keys, different order
	reordered := NewConfiguration(Opt("list", list), Opt("device", h), Opt("map", m), Opt("n", 1))
	assert.False(t, a.Equal(reordered))

	// Different dynamic type
	typed := NewConfiguration(Opt("device", h), Opt("list", list), Opt("map", m), Opt("n", int64(1)))
	assert.False(t, a.Equal(typed))
}

func TestSameValue(t *testing.T) {
	assert.True(t, SameValue(nil, nil))
	assert.False(t, SameValue(nil, 1))
	assert.True(t, SameValue("x", "x"))
	assert.True(t, SameValue(PerformerDeviceAgent, PerformerDeviceAgent))

	s := []any{1, 2}
	assert.True(t, SameValue(s, s))
	assert.False(t, SameValue(s, s[:1]))
	assert.False(t, SameValue(s, []any{1, 2}))
}

func TestIsNil(t *testing.T) {
	var nilMap map[string]any
	var nilHandle *stringerHandle
	var nilStringer fmt.Stringer = nilHandle

	assert.True(t, IsNil(nil))
	assert.True(t, IsNil(nilHandle))
	assert.True(t, IsNil(nilStringer))
	assert.True(t, IsNil(nilMap))
	assert.False(t, IsNil(0))
	assert.False(t, IsNil(""))
	assert.False(t, IsNil(&stringerHandle{}))
}
