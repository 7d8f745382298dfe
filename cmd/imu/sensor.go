package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"gobot.io/x/gobot/v2/platforms/raspi"

	"github.com/mklimuk/imu"
	"github.com/mklimuk/imu/adapter"
	"github.com/mklimuk/imu/config"
	"github.com/mklimuk/imu/i2c"
	"github.com/mklimuk/imu/mpu6050"
	"github.com/mklimuk/imu/sim"
	"github.com/mklimuk/imu/snsctx"
)

// loadConfig reads the configuration file and applies global flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("adapter") {
		cfg.Adapter = c.String("adapter")
	}
	if c.IsSet("device") {
		cfg.Device = c.String("device")
	}
	if c.IsSet("bus") {
		cfg.Bus = c.Int("bus")
	}
	if c.IsSet("address") {
		cfg.Address = uint8(c.Uint("address"))
	}
	return cfg, cfg.Validate()
}

// openBus returns the transport selected by cfg and a function releasing it.
func openBus(ctx context.Context, cfg config.Config) (imu.SessionBus, func(), error) {
	switch cfg.Adapter {
	case "mcp2221":
		a := adapter.NewMCP2221()
		if err := a.Init(ctx); err != nil {
			return nil, nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		return a, func() {}, nil
	case "generic", "periph":
		bus, err := i2c.NewGenericBus(cfg.Device)
		if err != nil {
			return nil, nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		return bus, closer(bus.Close), nil
	case "nanopi":
		npi := nanopi.NewNeoAdaptor()
		if err := npi.Connect(); err != nil {
			return nil, nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		bus := i2c.NewGobotBus(npi, cfg.Bus)
		return bus, func() {
			closer(bus.Close)()
			closer(npi.Finalize)()
		}, nil
	case "raspi":
		pi := raspi.NewAdaptor()
		if err := pi.Connect(); err != nil {
			return nil, nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		bus := i2c.NewGobotBus(pi, cfg.Bus)
		return bus, func() {
			closer(bus.Close)()
			closer(pi.Finalize)()
		}, nil
	case "sim":
		dev := sim.NewDevice(cfg.Address)
		// a device lying flat at rest
		dev.SetAccelerometer(0, 0, 16384)
		dev.SetTemperature(-1530)
		return dev, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown adapter %q", cfg.Adapter)
}

func closer(fn func() error) func() {
	return func() {
		if err := fn(); err != nil {
			slog.Error("could not close bus", "error", err)
		}
	}
}

// openSensor connects to and initializes the sensor described by the global flags.
func openSensor(c *cli.Context) (context.Context, *mpu6050.MPU6050, func(), error) {
	ctx := snsctx.SetVerbose(c.Context, c.Bool("verbose"))
	cfg, err := loadConfig(c)
	if err != nil {
		return ctx, nil, nil, err
	}
	bus, done, err := openBus(ctx, cfg)
	if err != nil {
		return ctx, nil, nil, err
	}
	opts := append(cfg.DriverOptions(), mpu6050.WithLogger(slog.Default()))
	sensor, err := mpu6050.New(ctx, bus, opts...)
	if err != nil {
		done()
		return ctx, nil, nil, err
	}
	if cfg.LowPassFilter != nil {
		if err := sensor.SetDigitalLowPassFilter(ctx, *cfg.LowPassFilter); err != nil {
			done()
			return ctx, nil, nil, err
		}
	}
	if cfg.SampleRateDivider != nil {
		if err := sensor.SetSampleRateDivider(ctx, *cfg.SampleRateDivider); err != nil {
			done()
			return ctx, nil, nil, err
		}
	}
	slog.DebugContext(ctx, "sensor ready", "adapter", cfg.Adapter, "address", fmt.Sprintf("%#x", sensor.Address()))
	return ctx, sensor, done, nil
}
