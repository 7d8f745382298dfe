package mpu6050

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/imu/codec"
	"github.com/mklimuk/imu/sim"
)

var errNACK = errors.New("nack")

func newSensor(t *testing.T, opts ...ConfigOption) (*MPU6050, *sim.Device) {
	t.Helper()
	dev := sim.NewDevice(DefaultAddress)
	sensor, err := New(context.Background(), dev, opts...)
	require.NoError(t, err)
	return sensor, dev
}

func TestNew_Defaults(t *testing.T) {
	dev := sim.NewDevice(DefaultAddress)
	// asleep, unrelated bit 3 (TEMP_DIS) set, clock on external 19MHz
	dev.SetRegister(regPwrMgmt1, 0b0100_1101)
	dev.SetRegister(regGyroConfig, 0b1111_1111)
	dev.SetRegister(regAccelConfig, 0b0001_1000)

	sensor, err := New(context.Background(), dev)
	require.NoError(t, err)

	assert.Equal(t, byte(0b0000_1010), dev.Register(regPwrMgmt1))
	assert.Equal(t, byte(0b1110_0111), dev.Register(regGyroConfig))
	assert.Equal(t, byte(0b0000_0000), dev.Register(regAccelConfig))
	assert.Equal(t, Gyro250, sensor.GyroscopeRange())
	assert.Equal(t, Accel2G, sensor.AccelerometerRange())
	assert.Equal(t, ClockGyroY, sensor.ClockSource())
	assert.Equal(t, byte(DefaultAddress), sensor.Address())

	// wake, clock, gyro, accel
	starts, stops := dev.Sessions()
	assert.Equal(t, 4, starts)
	assert.Equal(t, 4, stops)
}

func TestNew_Awake(t *testing.T) {
	sensor, dev := newSensor(t)
	asleep, err := sensor.IsAsleep(context.Background())
	require.NoError(t, err)
	assert.False(t, asleep)
	assert.Equal(t, byte(0), dev.Register(regPwrMgmt1)&0x40)
}

func TestNew_Options(t *testing.T) {
	dev := sim.NewDevice(AddressAlt)
	sensor, err := New(context.Background(), dev,
		WithAddress(AddressAlt),
		WithGyroscopeRange(Gyro2000),
		WithAccelerometerRange(Accel8G),
		WithClockSource(ClockInternal),
	)
	require.NoError(t, err)
	assert.Equal(t, byte(0b0001_1000), dev.Register(regGyroConfig))
	assert.Equal(t, byte(0b0001_0000), dev.Register(regAccelConfig))
	assert.Equal(t, byte(0), dev.Register(regPwrMgmt1))
	assert.Equal(t, Accel8G, sensor.AccelerometerRange())
}

func TestNew_TransportError(t *testing.T) {
	dev := sim.NewDevice(DefaultAddress)
	dev.FailFunc = func(op sim.Op, register byte) error {
		if op == sim.OpWrite && register == regGyroConfig {
			return errNACK
		}
		return nil
	}
	_, err := New(context.Background(), dev)
	assert.ErrorIs(t, err, errNACK)
	assert.False(t, dev.Open())
}

func TestSleepWake(t *testing.T) {
	ctx := context.Background()
	sensor, dev := newSensor(t)
	dev.SetRegister(regPwrMgmt1, 0b0000_1010)

	require.NoError(t, sensor.Sleep(ctx))
	assert.Equal(t, byte(0b0100_1010), dev.Register(regPwrMgmt1))
	asleep, err := sensor.IsAsleep(ctx)
	require.NoError(t, err)
	assert.True(t, asleep)

	require.NoError(t, sensor.Sleep(ctx))
	assert.Equal(t, byte(0b0100_1010), dev.Register(regPwrMgmt1))

	require.NoError(t, sensor.WakeUp(ctx))
	assert.Equal(t, byte(0b0000_1010), dev.Register(regPwrMgmt1))
}

func TestSetGyroscopeRange(t *testing.T) {
	tests := []struct {
		given    GyroscopeRange
		expected byte
	}{
		{Gyro250, 0b1110_0111},
		{Gyro500, 0b1110_1111},
		{Gyro1000, 0b1111_0111},
		{Gyro2000, 0b1111_1111},
	}
	for _, test := range tests {
		t.Run(test.given.String(), func(t *testing.T) {
			sensor, dev := newSensor(t)
			// self test bits and reserved bits must survive
			dev.SetRegister(regGyroConfig, 0b1110_0111)
			require.NoError(t, sensor.SetGyroscopeRange(context.Background(), test.given))
			assert.Equal(t, test.expected, dev.Register(regGyroConfig))
			assert.Equal(t, test.given, sensor.GyroscopeRange())
		})
	}
}

func TestSetAccelerometerRange(t *testing.T) {
	tests := []struct {
		given    AccelerometerRange
		expected byte
	}{
		{Accel2G, 0b0000_0011},
		{Accel4G, 0b0000_1011},
		{Accel8G, 0b0001_0011},
		{Accel16G, 0b0001_1011},
	}
	for _, test := range tests {
		t.Run(test.given.String(), func(t *testing.T) {
			sensor, dev := newSensor(t)
			dev.SetRegister(regAccelConfig, 0b0000_0011)
			require.NoError(t, sensor.SetAccelerometerRange(context.Background(), test.given))
			assert.Equal(t, test.expected, dev.Register(regAccelConfig))
			assert.Equal(t, test.given, sensor.AccelerometerRange())
		})
	}
}

func TestSetRange_FailureKeepsScale(t *testing.T) {
	ctx := context.Background()
	sensor, dev := newSensor(t)
	dev.FailFunc = func(op sim.Op, register byte) error {
		if op == sim.OpWrite {
			return errNACK
		}
		return nil
	}
	err := sensor.SetGyroscopeRange(ctx, Gyro1000)
	assert.ErrorIs(t, err, errNACK)
	assert.Equal(t, Gyro250, sensor.GyroscopeRange())

	err = sensor.SetAccelerometerRange(ctx, Accel16G)
	assert.ErrorIs(t, err, errNACK)
	assert.Equal(t, Accel2G, sensor.AccelerometerRange())
}

func TestSetRange_Invalid(t *testing.T) {
	ctx := context.Background()
	sensor, _ := newSensor(t)
	assert.ErrorIs(t, sensor.SetGyroscopeRange(ctx, GyroscopeRange(4)), ErrInvalidRange)
	assert.ErrorIs(t, sensor.SetAccelerometerRange(ctx, AccelerometerRange(9)), codec.ErrInvalidArgument)
	assert.ErrorIs(t, sensor.SetClockSource(ctx, ClockSource(6)), ErrInvalidRange)
	assert.ErrorIs(t, sensor.SetDigitalLowPassFilter(ctx, DLPF(7)), ErrInvalidRange)
}

func TestSetClockSource(t *testing.T) {
	tests := []struct {
		given    ClockSource
		expected byte
	}{
		{ClockInternal, 0b1000_1000},
		{ClockGyroX, 0b1000_1001},
		{ClockGyroY, 0b1000_1010},
		{ClockGyroZ, 0b1000_1011},
		{ClockExternal32kHz, 0b1000_1100},
		{ClockExternal19MHz, 0b1000_1101},
		{ClockStopped, 0b1000_1111},
	}
	for _, test := range tests {
		t.Run(test.given.String(), func(t *testing.T) {
			sensor, dev := newSensor(t)
			dev.SetRegister(regPwrMgmt1, 0b1000_1111)
			require.NoError(t, sensor.SetClockSource(context.Background(), test.given))
			assert.Equal(t, test.expected, dev.Register(regPwrMgmt1))
			assert.Equal(t, test.given, sensor.ClockSource())
		})
	}
}

func TestSetDigitalLowPassFilter(t *testing.T) {
	sensor, dev := newSensor(t)
	// EXT_SYNC_SET bits must survive
	dev.SetRegister(regConfig, 0b0010_1000)
	require.NoError(t, sensor.SetDigitalLowPassFilter(context.Background(), DLPF44Hz))
	assert.Equal(t, byte(0b0010_1011), dev.Register(regConfig))
}

func TestSetSampleRateDivider(t *testing.T) {
	sensor, dev := newSensor(t)
	require.NoError(t, sensor.SetSampleRateDivider(context.Background(), 7))
	assert.Equal(t, byte(7), dev.Register(regSampleRateDiv))
}

func TestWhoAmI(t *testing.T) {
	sensor, _ := newSensor(t)
	id, err := sensor.WhoAmI(context.Background())
	require.NoError(t, err)
	assert.Equal(t, byte(0x68), id)
}
