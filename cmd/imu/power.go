package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/imu/cmd/imu/console"
)

var sleepCmd = cli.Command{
	Name:  "sleep",
	Usage: "put the sensor into sleep mode",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"},
	},
	Action: func(c *cli.Context) error {
		if !c.Bool("yes") {
			ok, err := console.Confirm("stop all measurements and put the sensor to sleep?")
			if err != nil {
				return console.Fail("prompt error", err)
			}
			if !ok {
				return nil
			}
		}
		ctx, sensor, done, err := openSensor(c)
		if err != nil {
			return console.Fail("sensor initialization error", err)
		}
		defer done()
		if err := sensor.Sleep(ctx); err != nil {
			return console.Fail("error putting sensor to sleep", err)
		}
		console.PInfof(console.PictoSleep, "sensor is %s", console.Yellow("asleep"))
		return nil
	},
}

var wakeCmd = cli.Command{
	Name:  "wake",
	Usage: "wake the sensor up",
	Action: func(c *cli.Context) error {
		// initialization always wakes the device
		ctx, sensor, done, err := openSensor(c)
		if err != nil {
			return console.Fail("sensor initialization error", err)
		}
		defer done()
		asleep, err := sensor.IsAsleep(ctx)
		if err != nil {
			return console.Fail("error reading power state", err)
		}
		if asleep {
			return console.Exit(1, "sensor is still %s", console.Red("asleep"))
		}
		console.PInfof(console.PictoAwake, "sensor is %s", console.Green("awake"))
		return nil
	},
}

type sensorInfo struct {
	Address            string `yaml:"address"`
	WhoAmI             string `yaml:"who_am_i"`
	Asleep             bool   `yaml:"asleep"`
	GyroscopeRange     string `yaml:"gyroscope_range"`
	AccelerometerRange string `yaml:"accelerometer_range"`
	ClockSource        string `yaml:"clock_source"`
}

var infoCmd = cli.Command{
	Name:  "info",
	Usage: "print sensor identity and configuration",
	Action: func(c *cli.Context) error {
		ctx, sensor, done, err := openSensor(c)
		if err != nil {
			return console.Fail("sensor initialization error", err)
		}
		defer done()
		id, err := sensor.WhoAmI(ctx)
		if err != nil {
			return console.Fail("error reading identity", err)
		}
		asleep, err := sensor.IsAsleep(ctx)
		if err != nil {
			return console.Fail("error reading power state", err)
		}
		if id != sensor.Address()&^1 {
			console.Warnf("unexpected WHO_AM_I value %s", console.Yellow(fmt.Sprintf("%#x", id)))
		}
		err = console.YAML(sensorInfo{
			Address:            fmt.Sprintf("%#x", sensor.Address()),
			WhoAmI:             fmt.Sprintf("%#x", id),
			Asleep:             asleep,
			GyroscopeRange:     sensor.GyroscopeRange().String(),
			AccelerometerRange: sensor.AccelerometerRange().String(),
			ClockSource:        sensor.ClockSource().String(),
		})
		if err != nil {
			return console.Fail("encoding error", err)
		}
		return nil
	},
}
