// Package config loads the imu command line configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mklimuk/imu/mpu6050"
	"github.com/mklimuk/imu/telemetry"
)

// Version is injected at build time.
var Version = "dev"

// Config describes how to reach the sensor and how to configure it.
type Config struct {
	Adapter string `yaml:"adapter"`
	Device  string `yaml:"device"`
	Bus     int    `yaml:"bus"`
	Address uint8  `yaml:"address"`

	GyroscopeRange     mpu6050.GyroscopeRange     `yaml:"gyroscope_range"`
	AccelerometerRange mpu6050.AccelerometerRange `yaml:"accelerometer_range"`
	ClockSource        mpu6050.ClockSource        `yaml:"clock_source"`
	// nil keeps the device setting
	LowPassFilter     *mpu6050.DLPF `yaml:"low_pass_filter,omitempty"`
	SampleRateDivider *uint8        `yaml:"sample_rate_divider,omitempty"`

	MQTT MQTT `yaml:"mqtt"`
}

type MQTT struct {
	Broker   string        `yaml:"broker"`
	ClientID string        `yaml:"client_id"`
	Prefix   string        `yaml:"prefix"`
	Interval time.Duration `yaml:"interval"`
}

func Default() Config {
	return Config{
		Adapter:            "generic",
		Device:             "/dev/i2c-1",
		Bus:                -1,
		Address:            mpu6050.DefaultAddress,
		GyroscopeRange:     mpu6050.Gyro250,
		AccelerometerRange: mpu6050.Accel2G,
		ClockSource:        mpu6050.ClockGyroY,
		MQTT: MQTT{
			Broker:   "tcp://localhost:1883",
			ClientID: "imu",
			Prefix:   telemetry.DefaultPrefix,
			Interval: telemetry.DefaultInterval,
		},
	}
}

// Load reads path on top of the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("could not open config file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}

// Decode parses YAML from r on top of the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	err := yaml.NewDecoder(r).Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("could not decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Address != mpu6050.DefaultAddress && c.Address != mpu6050.AddressAlt {
		return fmt.Errorf("address %#x is not an MPU-6050 address: %w", c.Address, mpu6050.ErrInvalidRange)
	}
	if c.LowPassFilter != nil && !c.LowPassFilter.Valid() {
		return fmt.Errorf("low pass filter %d: %w", uint8(*c.LowPassFilter), mpu6050.ErrInvalidRange)
	}
	return nil
}

// DriverOptions converts the sensor settings to driver options.
func (c Config) DriverOptions() []mpu6050.ConfigOption {
	return []mpu6050.ConfigOption{
		mpu6050.WithAddress(c.Address),
		mpu6050.WithGyroscopeRange(c.GyroscopeRange),
		mpu6050.WithAccelerometerRange(c.AccelerometerRange),
		mpu6050.WithClockSource(c.ClockSource),
	}
}

// Encode writes c as YAML.
func (c Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("could not encode config: %w", err)
	}
	return enc.Close()
}
