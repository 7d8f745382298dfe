// Package imu holds the bus contracts shared by the inertial sensor drivers and
// transports, and the scoped Transaction used to talk to a device.
package imu

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type BusReader interface {
	Read(ctx context.Context, buffer []byte) error
}

type BusWriter interface {
	Write(ctx context.Context, buffer []byte) error
}

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

// AddressableWriter writes raw frames to a device. Release ends the current bus
// session (I2C stop condition / transfer cancel).
type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

type I2CBus interface {
	AddressableReader
	AddressableWriter
}

// SessionBus is an I2CBus whose sessions can be opened explicitly. Acquire is
// the start of a session, Release its end.
type SessionBus interface {
	I2CBus
	Acquire(ctx context.Context) error
}

// RegisterReader is implemented by transports able to read a register range in
// a single combined transfer (register pointer write + repeated start read).
type RegisterReader interface {
	ReadFromMem(ctx context.Context, address, register byte, buffer []byte) error
}
