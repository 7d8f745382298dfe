package i2c

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/mklimuk/imu/mpu6050"
)

func TestGenericBus_Driver(t *testing.T) {
	playback := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			// wake up
			{Addr: 0x68, W: []byte{0x6B}, R: []byte{0x40}},
			{Addr: 0x68, W: []byte{0x6B, 0x00}},
			// clock source gyro Y
			{Addr: 0x68, W: []byte{0x6B}, R: []byte{0x00}},
			{Addr: 0x68, W: []byte{0x6B, 0x02}},
			// ±250°/s
			{Addr: 0x68, W: []byte{0x1B}, R: []byte{0x18}},
			{Addr: 0x68, W: []byte{0x1B, 0x00}},
			// ±2g
			{Addr: 0x68, W: []byte{0x1C}, R: []byte{0x00}},
			{Addr: 0x68, W: []byte{0x1C, 0x00}},
			// temperature
			{Addr: 0x68, W: []byte{0x41}, R: []byte{0xFE, 0xAC}},
		},
	}
	bus := &GenericBus{bus: playback}
	ctx := context.Background()
	sensor, err := mpu6050.New(ctx, bus)
	require.NoError(t, err)
	raw, err := sensor.ReadTemperatureRaw(ctx)
	require.NoError(t, err)
	assert.Equal(t, int16(-340), raw)
	assert.NoError(t, bus.Close())
}

func TestGenericBus_Error(t *testing.T) {
	playback := &i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: 0x68, W: []byte{0x75}, R: []byte{0x68}}},
		DontPanic: true,
	}
	bus := &GenericBus{bus: playback}
	err := bus.WriteToAddr(context.Background(), 0x69, []byte{0x6B, 0x00})
	assert.Error(t, err)
}
