// Package telemetry periodically samples an inertial sensor and publishes the
// readings to an MQTT broker.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/mklimuk/imu/mpu6050"
)

const (
	DefaultInterval = 100 * time.Millisecond
	DefaultPrefix   = "imu"
)

// Source is satisfied by *mpu6050.MPU6050.
type Source interface {
	ReadSample(ctx context.Context) (mpu6050.Sample, error)
	Convert(sample mpu6050.Sample) mpu6050.Reading
}

// Client is the subset of mqtt.Client used for publishing.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Message is the payload of the sample topic.
type Message struct {
	Time    time.Time       `json:"time"`
	Raw     mpu6050.Sample  `json:"raw"`
	Reading mpu6050.Reading `json:"reading"`
}

type Publisher struct {
	source   Source
	client   Client
	prefix   string
	interval time.Duration
	qos      byte
	retained bool
	timeout  time.Duration
	now      func() time.Time
}

type Option func(*Publisher)

func WithPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

func WithInterval(interval time.Duration) Option {
	return func(p *Publisher) {
		p.interval = interval
	}
}

func WithQoS(qos byte, retained bool) Option {
	return func(p *Publisher) {
		p.qos = qos
		p.retained = retained
	}
}

func NewPublisher(source Source, client Client, opts ...Option) *Publisher {
	p := &Publisher{
		source:   source,
		client:   client,
		prefix:   DefaultPrefix,
		interval: DefaultInterval,
		timeout:  time.Second,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Connect opens a client connection to broker.
func Connect(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", broker, token.Error())
	}
	return client, nil
}

// Run publishes a sample every interval until ctx is done. Failed ticks are
// logged and skipped.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	slog.InfoContext(ctx, "publishing telemetry", "prefix", p.prefix, "interval", p.interval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := p.PublishOnce(ctx); err != nil {
				slog.WarnContext(ctx, "telemetry tick skipped", "error", err)
			}
		}
	}
}

// PublishOnce reads one sample and publishes it on all topics.
func (p *Publisher) PublishOnce(ctx context.Context) error {
	sample, err := p.source.ReadSample(ctx)
	if err != nil {
		return fmt.Errorf("could not read sample: %w", err)
	}
	reading := p.source.Convert(sample)
	msgs := []struct {
		topic   string
		payload any
	}{
		{p.Topic("sample"), Message{Time: p.now(), Raw: sample, Reading: reading}},
		{p.Topic("gyro"), reading.Gyroscope},
		{p.Topic("accel"), reading.Accelerometer},
		{p.Topic("temp"), reading.Temperature},
	}
	for _, msg := range msgs {
		payload, err := json.Marshal(msg.payload)
		if err != nil {
			return fmt.Errorf("could not marshal %s payload: %w", msg.topic, err)
		}
		token := p.client.Publish(msg.topic, p.qos, p.retained, payload)
		if !token.WaitTimeout(p.timeout) {
			return fmt.Errorf("publish to %s timed out", msg.topic)
		}
		if err := token.Error(); err != nil {
			return fmt.Errorf("could not publish to %s: %w", msg.topic, err)
		}
	}
	return nil
}

// Topic returns the full topic name for suffix.
func (p *Publisher) Topic(suffix string) string {
	return p.prefix + "/" + suffix
}
