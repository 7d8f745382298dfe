package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/imu/cmd/imu/console"
	"github.com/mklimuk/imu/mpu6050"
)

var rangeCmd = cli.Command{
	Name:  "range",
	Usage: "set full scale ranges",
	Subcommands: []*cli.Command{
		&rangeGyroCmd,
		&rangeAccelCmd,
	},
}

var rangeGyroCmd = cli.Command{
	Name:      "gyro",
	Usage:     "set gyroscope full scale",
	ArgsUsage: "<250|500|1000|2000>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		r, err := mpu6050.ParseGyroscopeRange(c.Args().First())
		if err != nil {
			return console.Fail("invalid range", err)
		}
		ctx, sensor, done, err := openSensor(c)
		if err != nil {
			return console.Fail("sensor initialization error", err)
		}
		defer done()
		if err := sensor.SetGyroscopeRange(ctx, r); err != nil {
			return console.Fail("error setting gyroscope range", err)
		}
		console.PInfof(console.PictoGyroscope, "range set to ±%s", console.White(sensor.GyroscopeRange()))
		return nil
	},
}

var rangeAccelCmd = cli.Command{
	Name:      "accel",
	Usage:     "set accelerometer full scale",
	ArgsUsage: "<2|4|8|16>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		r, err := mpu6050.ParseAccelerometerRange(c.Args().First())
		if err != nil {
			return console.Fail("invalid range", err)
		}
		ctx, sensor, done, err := openSensor(c)
		if err != nil {
			return console.Fail("sensor initialization error", err)
		}
		defer done()
		if err := sensor.SetAccelerometerRange(ctx, r); err != nil {
			return console.Fail("error setting accelerometer range", err)
		}
		console.PInfof(console.PictoAccelerometer, "range set to ±%s", console.White(sensor.AccelerometerRange()))
		return nil
	},
}

var clockCmd = cli.Command{
	Name:      "clock",
	Usage:     "select the clock source",
	ArgsUsage: "<internal|gyro-x|gyro-y|gyro-z|external-32khz|external-19mhz|stopped>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		src, err := mpu6050.ParseClockSource(c.Args().First())
		if err != nil {
			return console.Fail("invalid clock source", err)
		}
		ctx, sensor, done, err := openSensor(c)
		if err != nil {
			return console.Fail("sensor initialization error", err)
		}
		defer done()
		if err := sensor.SetClockSource(ctx, src); err != nil {
			return console.Fail("error setting clock source", err)
		}
		console.PInfof(console.PictoClock, "clock source set to %s", console.White(sensor.ClockSource()))
		return nil
	},
}

var dlpfCmd = cli.Command{
	Name:      "dlpf",
	Usage:     "set the digital low pass filter bandwidth",
	ArgsUsage: "<260|184|94|44|21|10|5>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		f, err := mpu6050.ParseDLPF(c.Args().First())
		if err != nil {
			return console.Fail("invalid bandwidth", err)
		}
		ctx, sensor, done, err := openSensor(c)
		if err != nil {
			return console.Fail("sensor initialization error", err)
		}
		defer done()
		if err := sensor.SetDigitalLowPassFilter(ctx, f); err != nil {
			return console.Fail("error setting low pass filter", err)
		}
		console.Infof("low pass filter set to %s", console.White(f))
		return nil
	},
}
