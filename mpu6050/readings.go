package mpu6050

import (
	"context"
	"fmt"

	"github.com/mklimuk/imu"
)

// RawSample holds two's complement output register values of one sensor.
type RawSample struct {
	X int16 `json:"x" yaml:"x"`
	Y int16 `json:"y" yaml:"y"`
	Z int16 `json:"z" yaml:"z"`
}

// Vector holds a reading in physical units.
type Vector struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Sample is a consistent snapshot of all output registers.
type Sample struct {
	Accelerometer RawSample `json:"accelerometer" yaml:"accelerometer"`
	Temperature   int16     `json:"temperature" yaml:"temperature"`
	Gyroscope     RawSample `json:"gyroscope" yaml:"gyroscope"`
}

// Reading is a Sample converted to physical units.
type Reading struct {
	// Accelerometer in g
	Accelerometer Vector `json:"accelerometer" yaml:"accelerometer"`
	// Temperature in °C
	Temperature float64 `json:"temperature" yaml:"temperature"`
	// Gyroscope in °/s
	Gyroscope Vector `json:"gyroscope" yaml:"gyroscope"`
}

// ReadGyroscopeRaw reads the three gyroscope output registers in a single transaction.
func (s *MPU6050) ReadGyroscopeRaw(ctx context.Context) (RawSample, error) {
	raw, err := s.readTriplet(ctx, regGyroXOut, regGyroYOut, regGyroZOut)
	if err != nil {
		return RawSample{}, fmt.Errorf("mpu6050: could not read gyroscope: %w", err)
	}
	return raw, nil
}

// ReadGyroscopeDegrees returns the rotation rate in °/s.
func (s *MPU6050) ReadGyroscopeDegrees(ctx context.Context) (Vector, error) {
	raw, err := s.ReadGyroscopeRaw(ctx)
	if err != nil {
		return Vector{}, err
	}
	return scale(raw, s.gyroRange.Scale()), nil
}

// ReadAccelerometerRaw reads the three accelerometer output registers in a single transaction.
func (s *MPU6050) ReadAccelerometerRaw(ctx context.Context) (RawSample, error) {
	raw, err := s.readTriplet(ctx, regAccelXOut, regAccelYOut, regAccelZOut)
	if err != nil {
		return RawSample{}, fmt.Errorf("mpu6050: could not read accelerometer: %w", err)
	}
	return raw, nil
}

// ReadAccelerometerGs returns the acceleration in g.
func (s *MPU6050) ReadAccelerometerGs(ctx context.Context) (Vector, error) {
	raw, err := s.ReadAccelerometerRaw(ctx)
	if err != nil {
		return Vector{}, err
	}
	return scale(raw, s.accelRange.Scale()), nil
}

// ReadAccelerometerMeters returns the acceleration in m/s².
func (s *MPU6050) ReadAccelerometerMeters(ctx context.Context) (Vector, error) {
	g, err := s.ReadAccelerometerGs(ctx)
	if err != nil {
		return Vector{}, err
	}
	return Vector{X: g.X * StandardGravity, Y: g.Y * StandardGravity, Z: g.Z * StandardGravity}, nil
}

func (s *MPU6050) ReadTemperatureRaw(ctx context.Context) (int16, error) {
	var raw int16
	err := imu.Do(ctx, s.transport, s.address, func(tx *imu.Transaction) error {
		var err error
		raw, err = tx.ReadInt16(ctx, regTempOut)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("mpu6050: could not read temperature: %w", err)
	}
	return raw, nil
}

// ReadTemperatureDegrees returns the die temperature in °C.
func (s *MPU6050) ReadTemperatureDegrees(ctx context.Context) (float64, error) {
	raw, err := s.ReadTemperatureRaw(ctx)
	if err != nil {
		return 0, err
	}
	return temperature(raw), nil
}

// ReadSample reads accelerometer, temperature and gyroscope outputs in one burst
// so all values belong to the same sampling instant.
func (s *MPU6050) ReadSample(ctx context.Context) (Sample, error) {
	var sample Sample
	err := imu.Do(ctx, s.transport, s.address, func(tx *imu.Transaction) error {
		buf, err := tx.ReadBytes(ctx, regAccelXOut, sampleLength)
		if err != nil {
			return err
		}
		sample.Accelerometer = RawSample{X: decodeInt16(buf[0:2]), Y: decodeInt16(buf[2:4]), Z: decodeInt16(buf[4:6])}
		sample.Temperature = decodeInt16(buf[6:8])
		sample.Gyroscope = RawSample{X: decodeInt16(buf[8:10]), Y: decodeInt16(buf[10:12]), Z: decodeInt16(buf[12:14])}
		return nil
	})
	if err != nil {
		return Sample{}, fmt.Errorf("mpu6050: could not read sample: %w", err)
	}
	return sample, nil
}

// Convert scales a sample with the currently configured ranges.
func (s *MPU6050) Convert(sample Sample) Reading {
	return Reading{
		Accelerometer: scale(sample.Accelerometer, s.accelRange.Scale()),
		Temperature:   temperature(sample.Temperature),
		Gyroscope:     scale(sample.Gyroscope, s.gyroRange.Scale()),
	}
}

func (s *MPU6050) readTriplet(ctx context.Context, x, y, z byte) (RawSample, error) {
	var raw RawSample
	err := imu.Do(ctx, s.transport, s.address, func(tx *imu.Transaction) error {
		var err error
		if raw.X, err = tx.ReadInt16(ctx, x); err != nil {
			return err
		}
		if raw.Y, err = tx.ReadInt16(ctx, y); err != nil {
			return err
		}
		raw.Z, err = tx.ReadInt16(ctx, z)
		return err
	})
	return raw, err
}

func scale(raw RawSample, fullScale float64) Vector {
	return Vector{
		X: float64(raw.X) / rawFullScale * fullScale,
		Y: float64(raw.Y) / rawFullScale * fullScale,
		Z: float64(raw.Z) / rawFullScale * fullScale,
	}
}

// temperature applies the datasheet formula TEMP_OUT/340 + 36.53.
func temperature(raw int16) float64 {
	return float64(raw)/340.0 + 36.53
}
