package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/imu/cmd/imu/console"
	"github.com/mklimuk/imu/telemetry"
)

var publishCmd = cli.Command{
	Name:  "publish",
	Usage: "stream samples to an MQTT broker until interrupted",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "broker", Usage: "broker url, overrides configuration"},
		&cli.StringFlag{Name: "client-id", Usage: "MQTT client identifier"},
		&cli.StringFlag{Name: "prefix", Usage: "topic prefix"},
		&cli.DurationFlag{Name: "interval", Aliases: []string{"i"}, Usage: "sampling interval"},
		&cli.UintFlag{Name: "qos", Usage: "MQTT quality of service (0-2)"},
		&cli.BoolFlag{Name: "retain", Usage: "publish retained messages"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return console.Fail("configuration error", err)
		}
		if c.IsSet("broker") {
			cfg.MQTT.Broker = c.String("broker")
		}
		if c.IsSet("client-id") {
			cfg.MQTT.ClientID = c.String("client-id")
		}
		if c.IsSet("prefix") {
			cfg.MQTT.Prefix = c.String("prefix")
		}
		if c.IsSet("interval") {
			cfg.MQTT.Interval = c.Duration("interval")
		}
		if c.Uint("qos") > 2 {
			return console.Exit(1, "invalid qos %s", console.Red(c.Uint("qos")))
		}

		ctx, sensor, done, err := openSensor(c)
		if err != nil {
			return console.Fail("sensor initialization error", err)
		}
		defer done()

		client, err := telemetry.Connect(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		if err != nil {
			return console.Fail("broker connection error", err)
		}
		defer client.Disconnect(250)

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		pub := telemetry.NewPublisher(sensor, client,
			telemetry.WithPrefix(cfg.MQTT.Prefix),
			telemetry.WithInterval(cfg.MQTT.Interval),
			telemetry.WithQoS(byte(c.Uint("qos")), c.Bool("retain")),
		)
		console.PInfof(console.PictoAntenna, "publishing to %s under %s every %s",
			console.White(cfg.MQTT.Broker), console.White(pub.Topic("#")), console.White(cfg.MQTT.Interval))
		if err := pub.Run(ctx); err != nil {
			return console.Fail("publisher error", err)
		}
		console.Infof("publisher stopped")
		return nil
	},
}
