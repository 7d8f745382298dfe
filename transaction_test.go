package imu_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/imu"
	"github.com/mklimuk/imu/codec"
	"github.com/mklimuk/imu/sim"
)

var errNACK = errors.New("nack")

// pointerBus only supports plain reads and writes, like a bare I2C adapter.
type pointerBus struct {
	regs   map[byte]byte
	ptr    byte
	frames [][]byte
	events []string
}

func (b *pointerBus) Acquire(ctx context.Context) error {
	b.events = append(b.events, "start")
	return nil
}

func (b *pointerBus) Release(ctx context.Context) error {
	b.events = append(b.events, "stop")
	return nil
}

func (b *pointerBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.events = append(b.events, "write")
	b.frames = append(b.frames, buffer)
	b.ptr = buffer[0]
	return nil
}

func (b *pointerBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.events = append(b.events, "read")
	for i := range buffer {
		buffer[i] = b.regs[b.ptr]
		b.ptr++
	}
	return nil
}

func TestDo_StartStop(t *testing.T) {
	ctx := context.Background()
	dev := sim.NewDevice(0x68)
	err := imu.Do(ctx, dev, 0x68, func(tx *imu.Transaction) error {
		assert.True(t, dev.Open())
		_, err := tx.ReadUint8(ctx, 0x75)
		return err
	})
	require.NoError(t, err)
	assert.False(t, dev.Open())
	starts, stops := dev.Sessions()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, stops)
}

func TestDo_StopOnFailure(t *testing.T) {
	ctx := context.Background()
	dev := sim.NewDevice(0x68)
	dev.FailFunc = func(op sim.Op, register byte) error {
		if op == sim.OpRead {
			return errNACK
		}
		return nil
	}
	err := imu.Do(ctx, dev, 0x68, func(tx *imu.Transaction) error {
		_, err := tx.ReadInt16(ctx, 0x41)
		return err
	})
	assert.ErrorIs(t, err, errNACK)
	assert.False(t, dev.Open())
	_, stops := dev.Sessions()
	assert.Equal(t, 1, stops)
}

func TestDo_StopOnPanic(t *testing.T) {
	dev := sim.NewDevice(0x68)
	assert.Panics(t, func() {
		_ = imu.Do(context.Background(), dev, 0x68, func(tx *imu.Transaction) error {
			panic("boom")
		})
	})
	assert.False(t, dev.Open())
}

func TestDo_StopErrorCombined(t *testing.T) {
	stopErr := errors.New("stop failed")
	dev := sim.NewDevice(0x68)
	dev.FailFunc = func(op sim.Op, register byte) error {
		switch op {
		case sim.OpRelease:
			return stopErr
		case sim.OpWrite:
			return errNACK
		}
		return nil
	}
	err := imu.Do(context.Background(), dev, 0x68, func(tx *imu.Transaction) error {
		return tx.Write(context.Background(), 0x6B, 0x00)
	})
	assert.ErrorIs(t, err, errNACK)
	assert.ErrorIs(t, err, stopErr)
}

func TestDo_StartFailure(t *testing.T) {
	dev := sim.NewDevice(0x68)
	dev.FailFunc = func(op sim.Op, register byte) error {
		if op == sim.OpAcquire {
			return errNACK
		}
		return nil
	}
	called := false
	err := imu.Do(context.Background(), dev, 0x68, func(tx *imu.Transaction) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, errNACK)
	assert.False(t, called)
}

func TestTransaction_WritePayload(t *testing.T) {
	ctx := context.Background()
	dev := sim.NewDevice(0x68)
	err := imu.Do(ctx, dev, 0x68, func(tx *imu.Transaction) error {
		return tx.Write(ctx, 0x19, 0xDE, 0xAD)
	})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0x19, 0xDE, 0xAD}}, dev.Writes())
	assert.Equal(t, byte(0xDE), dev.Register(0x19))
	assert.Equal(t, byte(0xAD), dev.Register(0x1A))
}

func TestTransaction_ReadInt(t *testing.T) {
	ctx := context.Background()
	dev := sim.NewDevice(0x68)
	dev.SetTemperature(-2)
	err := imu.Do(ctx, dev, 0x68, func(tx *imu.Transaction) error {
		v, err := tx.ReadInt(ctx, 0x41, 2, codec.BigEndian, true)
		require.NoError(t, err)
		assert.Equal(t, int64(-2), v)
		v, err = tx.ReadInt(ctx, 0x41, 2, codec.BigEndian, false)
		require.NoError(t, err)
		assert.Equal(t, int64(0xFFFE), v)
		v, err = tx.ReadInt(ctx, 0x41, 2, codec.LittleEndian, false)
		require.NoError(t, err)
		assert.Equal(t, int64(0xFEFF), v)
		_, err = tx.ReadInt(ctx, 0x41, 2, codec.ByteOrder("middle"), false)
		assert.ErrorIs(t, err, codec.ErrInvalidArgument)
		return nil
	})
	require.NoError(t, err)
}

func TestTransaction_PointerFallback(t *testing.T) {
	ctx := context.Background()
	bus := &pointerBus{regs: map[byte]byte{0x43: 0x80, 0x44: 0x01}}
	err := imu.Do(ctx, bus, 0x68, func(tx *imu.Transaction) error {
		v, err := tx.ReadInt16(ctx, 0x43)
		assert.Equal(t, int16(-32767), v)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "write", "read", "stop"}, bus.events)
	assert.Equal(t, [][]byte{{0x43}}, bus.frames)
}
