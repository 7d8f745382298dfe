// Package i2c provides bus transports backed by the host I2C controller.
package i2c

import (
	"context"
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/mklimuk/imu"
	"github.com/mklimuk/imu/snsctx"
)

var (
	_ imu.SessionBus     = &GenericBus{}
	_ imu.RegisterReader = &GenericBus{}
)

// GenericBus drives a Linux I2C controller through periph.io. Every Tx is framed
// with its own start and stop conditions, so Acquire and Release only trace.
type GenericBus struct {
	bus i2c.BusCloser
}

func NewGenericBus(dev string) (*GenericBus, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("periph driver loaded", "driver", driver.String())
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus: %w", err)
	}
	return &GenericBus{
		bus: bus,
	}, nil
}

func (b *GenericBus) Acquire(ctx context.Context) error {
	snsctx.Dump(ctx, "i2c session start", 0, nil)
	return nil
}

func (b *GenericBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), nil, buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	snsctx.Dump(ctx, "i2c read", address, buffer)
	return nil
}

// ReadFromMem writes the register pointer and reads buffer in one combined transfer.
func (b *GenericBus) ReadFromMem(ctx context.Context, address, register byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), []byte{register}, buffer)
	if err != nil {
		return fmt.Errorf("could not read register %#x from i2c bus %x: %w", register, address, err)
	}
	snsctx.Dump(ctx, "i2c register read", address, append([]byte{register}, buffer...))
	return nil
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	snsctx.Dump(ctx, "i2c write", address, buffer)
	err := b.bus.Tx(uint16(address), buffer, nil)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GenericBus) Release(ctx context.Context) error {
	snsctx.Dump(ctx, "i2c session stop", 0, nil)
	return nil
}

// SetSpeed changes the bus clock (e.g. 400*physic.KiloHertz for fast mode).
func (b *GenericBus) SetSpeed(f physic.Frequency) error {
	if err := b.bus.SetSpeed(f); err != nil {
		return fmt.Errorf("could not set i2c bus speed to %s: %w", f, err)
	}
	return nil
}

func (b *GenericBus) Close() error {
	return b.bus.Close()
}
