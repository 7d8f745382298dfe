package mpu6050

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mklimuk/imu"
	"github.com/mklimuk/imu/bitfield"
	"github.com/mklimuk/imu/codec"
)

// StandardGravity converts g to m/s².
const StandardGravity = 9.81

// full scale of a signed 16 bit output register
const rawFullScale = 32767.0

// MPU6050 represents InvenSense MPU-6050 6-axis motion tracking device
// See: https://invensense.tdk.com/wp-content/uploads/2015/02/MPU-6000-Register-Map1.pdf
//
// The driver does no locking; serialize access when sharing it between goroutines.
type MPU6050 struct {
	transport  imu.SessionBus
	address    byte
	gyroRange  GyroscopeRange
	accelRange AccelerometerRange
	clock      ClockSource
	logger     *slog.Logger
}

type Config struct {
	Address            byte
	GyroscopeRange     GyroscopeRange
	AccelerometerRange AccelerometerRange
	ClockSource        ClockSource
	Logger             *slog.Logger
}

type ConfigOption func(*Config)

func WithAddress(address byte) ConfigOption {
	return func(c *Config) {
		c.Address = address
	}
}

func WithGyroscopeRange(r GyroscopeRange) ConfigOption {
	return func(c *Config) {
		c.GyroscopeRange = r
	}
}

func WithAccelerometerRange(r AccelerometerRange) ConfigOption {
	return func(c *Config) {
		c.AccelerometerRange = r
	}
}

func WithClockSource(src ClockSource) ConfigOption {
	return func(c *Config) {
		c.ClockSource = src
	}
}

func WithLogger(logger *slog.Logger) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

// New wakes the device up and brings it to a known configuration: gyroscope Y
// clock reference, ±250°/s and ±2g unless overridden by options. Every step
// runs in its own transaction.
func New(ctx context.Context, trans imu.SessionBus, opts ...ConfigOption) (*MPU6050, error) {
	config := &Config{
		Address:            DefaultAddress,
		GyroscopeRange:     Gyro250,
		AccelerometerRange: Accel2G,
		ClockSource:        ClockGyroY,
		Logger:             slog.Default(),
	}
	for _, opt := range opts {
		opt(config)
	}
	sensor := &MPU6050{
		transport: trans,
		address:   config.Address,
		logger:    config.Logger,
	}
	if err := sensor.WakeUp(ctx); err != nil {
		return nil, err
	}
	if err := sensor.SetClockSource(ctx, config.ClockSource); err != nil {
		return nil, err
	}
	if err := sensor.SetGyroscopeRange(ctx, config.GyroscopeRange); err != nil {
		return nil, err
	}
	if err := sensor.SetAccelerometerRange(ctx, config.AccelerometerRange); err != nil {
		return nil, err
	}
	return sensor, nil
}

func (s *MPU6050) Address() byte {
	return s.address
}

func (s *MPU6050) GyroscopeRange() GyroscopeRange {
	return s.gyroRange
}

func (s *MPU6050) AccelerometerRange() AccelerometerRange {
	return s.accelRange
}

func (s *MPU6050) ClockSource() ClockSource {
	return s.clock
}

// WakeUp clears the SLEEP bit of PWR_MGMT_1.
func (s *MPU6050) WakeUp(ctx context.Context) error {
	err := s.update(ctx, regPwrMgmt1, func(v byte) byte {
		return bitfield.Disable(v, bitSleep)
	})
	if err != nil {
		return fmt.Errorf("mpu6050: could not wake up device: %w", err)
	}
	return nil
}

// Sleep sets the SLEEP bit of PWR_MGMT_1.
func (s *MPU6050) Sleep(ctx context.Context) error {
	err := s.update(ctx, regPwrMgmt1, func(v byte) byte {
		return bitfield.Enable(v, bitSleep)
	})
	if err != nil {
		return fmt.Errorf("mpu6050: could not put device to sleep: %w", err)
	}
	return nil
}

// IsAsleep reads the SLEEP bit of PWR_MGMT_1.
func (s *MPU6050) IsAsleep(ctx context.Context) (bool, error) {
	v, err := s.readRegister(ctx, regPwrMgmt1)
	if err != nil {
		return false, fmt.Errorf("mpu6050: could not read power management: %w", err)
	}
	return bitfield.IsSet(v, bitSleep), nil
}

// WhoAmI returns the content of the WHO_AM_I register (0x68 for a genuine part).
func (s *MPU6050) WhoAmI(ctx context.Context) (byte, error) {
	v, err := s.readRegister(ctx, regWhoAmI)
	if err != nil {
		return 0, fmt.Errorf("mpu6050: could not read identity: %w", err)
	}
	return v, nil
}

// SetGyroscopeRange writes FS_SEL of GYRO_CONFIG. The stored scale changes only
// once the register write succeeded.
func (s *MPU6050) SetGyroscopeRange(ctx context.Context, r GyroscopeRange) error {
	if !r.Valid() {
		return fmt.Errorf("mpu6050: gyroscope range %d: %w", uint8(r), ErrInvalidRange)
	}
	err := s.update(ctx, regGyroConfig, func(v byte) byte {
		return setFullScale(v, r.Code())
	})
	if err != nil {
		return fmt.Errorf("mpu6050: could not set gyroscope range: %w", err)
	}
	s.gyroRange = r
	return nil
}

// SetAccelerometerRange writes AFS_SEL of ACCEL_CONFIG. The stored scale changes
// only once the register write succeeded.
func (s *MPU6050) SetAccelerometerRange(ctx context.Context, r AccelerometerRange) error {
	if !r.Valid() {
		return fmt.Errorf("mpu6050: accelerometer range %d: %w", uint8(r), ErrInvalidRange)
	}
	err := s.update(ctx, regAccelConfig, func(v byte) byte {
		return setFullScale(v, r.Code())
	})
	if err != nil {
		return fmt.Errorf("mpu6050: could not set accelerometer range: %w", err)
	}
	s.accelRange = r
	return nil
}

// SetClockSource writes CLKSEL (bits 2:0) of PWR_MGMT_1.
func (s *MPU6050) SetClockSource(ctx context.Context, src ClockSource) error {
	if !src.Valid() {
		return fmt.Errorf("mpu6050: clock source %d: %w", uint8(src), ErrInvalidRange)
	}
	sel := uint8(src)
	err := s.update(ctx, regPwrMgmt1, func(v byte) byte {
		v = bitfield.Set(v, bitClkSel0, bitfield.IsSet(sel, 0))
		v = bitfield.Set(v, bitClkSel1, bitfield.IsSet(sel, 1))
		return bitfield.Set(v, bitClkSel2, bitfield.IsSet(sel, 2))
	})
	if err != nil {
		return fmt.Errorf("mpu6050: could not set clock source: %w", err)
	}
	s.clock = src
	return nil
}

// SetDigitalLowPassFilter writes DLPF_CFG (bits 2:0) of CONFIG.
func (s *MPU6050) SetDigitalLowPassFilter(ctx context.Context, f DLPF) error {
	if !f.Valid() {
		return fmt.Errorf("mpu6050: low pass filter %d: %w", uint8(f), ErrInvalidRange)
	}
	cfg := uint8(f)
	err := s.update(ctx, regConfig, func(v byte) byte {
		v = bitfield.Set(v, bitDLPF0, bitfield.IsSet(cfg, 0))
		v = bitfield.Set(v, bitDLPF1, bitfield.IsSet(cfg, 1))
		return bitfield.Set(v, bitDLPF2, bitfield.IsSet(cfg, 2))
	})
	if err != nil {
		return fmt.Errorf("mpu6050: could not set low pass filter: %w", err)
	}
	return nil
}

// SetSampleRateDivider writes SMPLRT_DIV. The sample rate is the gyroscope
// output rate divided by 1+div.
func (s *MPU6050) SetSampleRateDivider(ctx context.Context, div byte) error {
	err := imu.Do(ctx, s.transport, s.address, func(tx *imu.Transaction) error {
		return tx.Write(ctx, regSampleRateDiv, div)
	})
	if err != nil {
		return fmt.Errorf("mpu6050: could not set sample rate divider: %w", err)
	}
	return nil
}

// update performs a read-modify-write of a single register in one transaction.
func (s *MPU6050) update(ctx context.Context, register byte, modify func(byte) byte) error {
	return imu.Do(ctx, s.transport, s.address, func(tx *imu.Transaction) error {
		current, err := tx.ReadUint8(ctx, register)
		if err != nil {
			return err
		}
		next := modify(current)
		s.logger.DebugContext(ctx, "mpu6050 register update",
			"register", fmt.Sprintf("%#02x", register),
			"from", fmt.Sprintf("%08b", current),
			"to", fmt.Sprintf("%08b", next))
		return tx.Write(ctx, register, next)
	})
}

func (s *MPU6050) readRegister(ctx context.Context, register byte) (byte, error) {
	var v byte
	err := imu.Do(ctx, s.transport, s.address, func(tx *imu.Transaction) error {
		var err error
		v, err = tx.ReadUint8(ctx, register)
		return err
	})
	return v, err
}

// setFullScale maps code bit 0 to register bit 3 and code bit 1 to register bit 4.
func setFullScale(value, code uint8) uint8 {
	value = bitfield.Set(value, bitFullScale0, bitfield.IsSet(code, 0))
	return bitfield.Set(value, bitFullScale1, bitfield.IsSet(code, 1))
}

// decodeInt16 converts a big endian register pair.
func decodeInt16(data []byte) int16 {
	// two bytes and a fixed byte order never fail
	v, _ := codec.Decode(data, codec.BigEndian, true)
	return int16(v)
}
