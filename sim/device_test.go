package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevice_PowerOn(t *testing.T) {
	d := NewDevice(0x68)
	assert.Equal(t, byte(0x40), d.Register(regPwrMgmt1))
	assert.Equal(t, byte(0x68), d.Register(regWhoAmI))
}

func TestDevice_AutoIncrement(t *testing.T) {
	ctx := context.Background()
	d := NewDevice(0x68)
	require.NoError(t, d.WriteToAddr(ctx, 0x68, []byte{0x19, 0x07, 0x03}))
	assert.Equal(t, byte(0x07), d.Register(0x19))
	assert.Equal(t, byte(0x03), d.Register(0x1A))

	d.SetGyroscope(1, -1, 0x1234)
	buf := make([]byte, 6)
	require.NoError(t, d.ReadFromMem(ctx, 0x68, regGyroOut, buf))
	assert.Equal(t, []byte{0x00, 0x01, 0xFF, 0xFF, 0x12, 0x34}, buf)

	// pointer based read continues where the last access ended
	require.NoError(t, d.WriteToAddr(ctx, 0x68, []byte{regGyroOut + 4}))
	buf = make([]byte, 2)
	require.NoError(t, d.ReadFromAddr(ctx, 0x68, buf))
	assert.Equal(t, []byte{0x12, 0x34}, buf)
}

func TestDevice_WhoAmIReadOnly(t *testing.T) {
	d := NewDevice(0x68)
	require.NoError(t, d.WriteToAddr(context.Background(), 0x68, []byte{regWhoAmI, 0x00}))
	assert.Equal(t, byte(0x68), d.Register(regWhoAmI))
}

func TestDevice_WrongAddress(t *testing.T) {
	d := NewDevice(0x68)
	err := d.ReadFromMem(context.Background(), 0x69, regWhoAmI, make([]byte, 1))
	assert.Error(t, err)
}

func TestDevice_Sessions(t *testing.T) {
	ctx := context.Background()
	d := NewDevice(0x68)
	require.NoError(t, d.Acquire(ctx))
	assert.True(t, d.Open())
	require.NoError(t, d.Release(ctx))
	assert.False(t, d.Open())
	starts, stops := d.Sessions()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, stops)
}
