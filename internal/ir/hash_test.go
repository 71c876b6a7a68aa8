package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationHash_Stable(t *testing.T) {
	a := NewConfiguration(Opt(KeyUIAStrategy, "preferences"), Opt(KeyGesturePerformer, "device_agent"))
	b := NewConfiguration(Opt(KeyGesturePerformer, "device_agent"), Opt(KeyUIAStrategy, "preferences"))

	ha, err := ConfigurationHash(a)
	require.NoError(t, err)
	assert.Len(t, ha, 64)
	assert.Equal(t, ha, MustConfigurationHash(b))
}

func TestConfigurationHash_ValueSensitive(t *testing.T) {
	a := NewConfiguration(Opt(KeyGesturePerformer, "device_agent"))
	b := NewConfiguration(Opt(KeyGesturePerformer, "instruments"))
	assert.NotEqual(t, MustConfigurationHash(a), MustConfigurationHash(b))
}

func TestConfigurationHash_DomainSeparated(t *testing.T) {
	c := NewConfiguration()
	canonical, err := MarshalCanonical(c)
	require.NoError(t, err)
	assert.NotEqual(t, hashWithDomain("other/v1", canonical), MustConfigurationHash(c))
}

func TestConfigurationHash_Float(t *testing.T) {
	h, err := ConfigurationHash(NewConfiguration(Opt(KeyLaunchTimeout, 12.5)))
	require.NoError(t, err)
	assert.Equal(t, h, MustConfigurationHash(NewConfiguration(Opt(KeyLaunchTimeout, 12.5))))
	assert.NotEqual(t, h, MustConfigurationHash(NewConfiguration(Opt(KeyLaunchTimeout, 12.25))))
	assert.NotEqual(t, h, MustConfigurationHash(NewConfiguration(Opt(KeyLaunchTimeout, "12.5"))))
}

func TestConfigurationHash_NilOptionIsAbsent(t *testing.T) {
	withNil := NewConfiguration(Opt(KeyUIAStrategy, "host"), Opt(KeyGesturePerformer, nil))
	without := NewConfiguration(Opt(KeyUIAStrategy, "host"))

	h, err := ConfigurationHash(withNil)
	require.NoError(t, err)
	assert.Equal(t, MustConfigurationHash(without), h)
}

func TestConfigurationHash_TypedNilOptionIsAbsent(t *testing.T) {
	withNil := NewConfiguration(Opt(KeyUIAStrategy, "host"), Opt(KeyXcode, (*stringerHandle)(nil)))
	without := NewConfiguration(Opt(KeyUIAStrategy, "host"))

	h, err := ConfigurationHash(withNil)
	require.NoError(t, err)
	assert.Equal(t, MustConfigurationHash(without), h)
}
