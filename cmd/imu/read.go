package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/imu/cmd/imu/console"
	"github.com/mklimuk/imu/mpu6050"
)

var rawFlag = &cli.BoolFlag{Name: "raw", Aliases: []string{"r"}, Usage: "print register values instead of physical units"}

var readCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Usage:   "read sensor outputs",
	Subcommands: []*cli.Command{
		&readGyroCmd,
		&readAccelCmd,
		&readTempCmd,
		&readAllCmd,
	},
}

var readGyroCmd = cli.Command{
	Name:  "gyro",
	Usage: "read angular rate (°/s)",
	Flags: []cli.Flag{rawFlag},
	Action: func(c *cli.Context) error {
		ctx, sensor, done, err := openSensor(c)
		if err != nil {
			return console.Fail("sensor initialization error", err)
		}
		defer done()
		if c.Bool("raw") {
			raw, err := sensor.ReadGyroscopeRaw(ctx)
			if err != nil {
				return console.Fail("error reading gyroscope", err)
			}
			printRaw(console.PictoGyroscope, raw)
			return nil
		}
		v, err := sensor.ReadGyroscopeDegrees(ctx)
		if err != nil {
			return console.Fail("error reading gyroscope", err)
		}
		printVector(console.PictoGyroscope, v, "°/s")
		return nil
	},
}

var readAccelCmd = cli.Command{
	Name:  "accel",
	Usage: "read acceleration",
	Flags: []cli.Flag{
		rawFlag,
		&cli.StringFlag{Name: "unit", Aliases: []string{"u"}, Value: "g", Usage: "g or ms2"},
	},
	Action: func(c *cli.Context) error {
		ctx, sensor, done, err := openSensor(c)
		if err != nil {
			return console.Fail("sensor initialization error", err)
		}
		defer done()
		if c.Bool("raw") {
			raw, err := sensor.ReadAccelerometerRaw(ctx)
			if err != nil {
				return console.Fail("error reading accelerometer", err)
			}
			printRaw(console.PictoAccelerometer, raw)
			return nil
		}
		switch c.String("unit") {
		case "g":
			v, err := sensor.ReadAccelerometerGs(ctx)
			if err != nil {
				return console.Fail("error reading accelerometer", err)
			}
			printVector(console.PictoAccelerometer, v, "g")
		case "ms2", "m":
			v, err := sensor.ReadAccelerometerMeters(ctx)
			if err != nil {
				return console.Fail("error reading accelerometer", err)
			}
			printVector(console.PictoAccelerometer, v, "m/s²")
		default:
			return console.Exit(1, "unknown unit %s", console.Red(c.String("unit")))
		}
		return nil
	},
}

var readTempCmd = cli.Command{
	Name:    "temperature",
	Aliases: []string{"temp"},
	Usage:   "read die temperature (°C)",
	Flags:   []cli.Flag{rawFlag},
	Action: func(c *cli.Context) error {
		ctx, sensor, done, err := openSensor(c)
		if err != nil {
			return console.Fail("sensor initialization error", err)
		}
		defer done()
		if c.Bool("raw") {
			raw, err := sensor.ReadTemperatureRaw(ctx)
			if err != nil {
				return console.Fail("error reading temperature", err)
			}
			console.PInfof(console.PictoThermometer, "%s", console.White(raw))
			return nil
		}
		temp, err := sensor.ReadTemperatureDegrees(ctx)
		if err != nil {
			return console.Fail("error reading temperature", err)
		}
		console.PInfof(console.PictoThermometer, "%s °C", console.Axis(temp))
		return nil
	},
}

var readAllCmd = cli.Command{
	Name:  "all",
	Usage: "read all outputs in one burst and print them as YAML",
	Flags: []cli.Flag{rawFlag},
	Action: func(c *cli.Context) error {
		ctx, sensor, done, err := openSensor(c)
		if err != nil {
			return console.Fail("sensor initialization error", err)
		}
		defer done()
		sample, err := sensor.ReadSample(ctx)
		if err != nil {
			return console.Fail("error reading sample", err)
		}
		var out interface{} = sensor.Convert(sample)
		if c.Bool("raw") {
			out = sample
		}
		if err := console.YAML(out); err != nil {
			return console.Fail("encoding error", err)
		}
		return nil
	},
}

func printVector(picto string, v mpu6050.Vector, unit string) {
	console.PInfof(picto, "x: %s y: %s z: %s %s", console.Axis(v.X), console.Axis(v.Y), console.Axis(v.Z), unit)
}

func printRaw(picto string, raw mpu6050.RawSample) {
	console.PInfof(picto, "x: %s y: %s z: %s", console.White(raw.X), console.White(raw.Y), console.White(raw.Z))
}
