package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/imu/mpu6050"
	"github.com/mklimuk/imu/sim"
)

type token struct {
	err error
}

func (t *token) Wait() bool                     { return true }
func (t *token) WaitTimeout(time.Duration) bool { return true }
func (t *token) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *token) Error() error { return t.err }

type published struct {
	topic   string
	payload []byte
}

type client struct {
	messages []published
	err      error
}

func (c *client) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.messages = append(c.messages, published{topic: topic, payload: payload.([]byte)})
	return &token{err: c.err}
}

func newSource(t *testing.T) (*mpu6050.MPU6050, *sim.Device) {
	t.Helper()
	dev := sim.NewDevice(mpu6050.DefaultAddress)
	sensor, err := mpu6050.New(context.Background(), dev)
	require.NoError(t, err)
	return sensor, dev
}

func TestPublishOnce(t *testing.T) {
	sensor, dev := newSource(t)
	dev.SetAccelerometer(0, 0, 16384)
	dev.SetGyroscope(32767, 0, 0)
	c := &client{}
	p := NewPublisher(sensor, c, WithPrefix("bench/imu"))
	p.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, p.PublishOnce(context.Background()))
	require.Len(t, c.messages, 4)
	assert.Equal(t, "bench/imu/sample", c.messages[0].topic)
	assert.Equal(t, "bench/imu/gyro", c.messages[1].topic)
	assert.Equal(t, "bench/imu/accel", c.messages[2].topic)
	assert.Equal(t, "bench/imu/temp", c.messages[3].topic)

	var msg Message
	require.NoError(t, json.Unmarshal(c.messages[0].payload, &msg))
	assert.Equal(t, int16(16384), msg.Raw.Accelerometer.Z)
	assert.InDelta(t, 250.0, msg.Reading.Gyroscope.X, 1e-9)
	assert.Equal(t, "36.53", string(c.messages[3].payload))
}

func TestPublishOnce_ReadError(t *testing.T) {
	sensor, dev := newSource(t)
	dev.FailFunc = func(op sim.Op, register byte) error {
		if op == sim.OpRead {
			return errors.New("nack")
		}
		return nil
	}
	c := &client{}
	err := NewPublisher(sensor, c).PublishOnce(context.Background())
	assert.Error(t, err)
	assert.Empty(t, c.messages)
}

func TestPublishOnce_PublishError(t *testing.T) {
	sensor, _ := newSource(t)
	c := &client{err: errors.New("not connected")}
	err := NewPublisher(sensor, c).PublishOnce(context.Background())
	assert.ErrorContains(t, err, "imu/sample")
	assert.Len(t, c.messages, 1)
}

func TestRun_StopsOnCancel(t *testing.T) {
	sensor, _ := newSource(t)
	c := &client{}
	p := NewPublisher(sensor, c, WithInterval(time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.NoError(t, p.Run(ctx))
	assert.NotEmpty(t, c.messages)
}
