package i2c

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/imu"
	"github.com/mklimuk/imu/snsctx"
)

var (
	_ imu.SessionBus     = &GobotBus{}
	_ imu.RegisterReader = &GobotBus{}
)

// GobotBus runs the bus contracts on top of a gobot I2C adaptor (Raspberry Pi,
// NanoPi, ...). A connection is opened lazily per device address.
type GobotBus struct {
	mx        sync.Mutex
	connector i2c.Connector
	bus       int
	conns     map[byte]i2c.Connection
}

// NewGobotBus uses bus number busNr of connector; a negative value selects the
// adaptor's default bus.
func NewGobotBus(connector i2c.Connector, busNr int) *GobotBus {
	if busNr < 0 {
		busNr = connector.DefaultI2cBus()
	}
	return &GobotBus{
		connector: connector,
		bus:       busNr,
		conns:     make(map[byte]i2c.Connection),
	}
}

func (b *GobotBus) Acquire(ctx context.Context) error {
	return nil
}

func (b *GobotBus) Release(ctx context.Context) error {
	return nil
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	n, err := conn.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %d device %x: %w", b.bus, address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short read from device %x: %d of %d bytes", address, n, len(buffer))
	}
	snsctx.Dump(ctx, "gobot read", address, buffer)
	return nil
}

func (b *GobotBus) ReadFromMem(ctx context.Context, address, register byte, buffer []byte) error {
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	if err := conn.ReadBlockData(register, buffer); err != nil {
		return fmt.Errorf("could not read register %#x from device %x: %w", register, address, err)
	}
	snsctx.Dump(ctx, "gobot register read", address, append([]byte{register}, buffer...))
	return nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	snsctx.Dump(ctx, "gobot write", address, buffer)
	if err := conn.WriteBytes(buffer); err != nil {
		return fmt.Errorf("could not write to i2c bus %d device %x: %w", b.bus, address, err)
	}
	return nil
}

// Close closes every connection opened so far.
func (b *GobotBus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var err error
	for addr, conn := range b.conns {
		err = multierr.Append(err, conn.Close())
		delete(b.conns, addr)
	}
	return err
}

func (b *GobotBus) connection(address byte) (i2c.Connection, error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	if conn, ok := b.conns[address]; ok {
		return conn, nil
	}
	conn, err := b.connector.GetI2cConnection(int(address), b.bus)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus %d device %x: %w", b.bus, address, err)
	}
	b.conns[address] = conn
	return conn, nil
}
