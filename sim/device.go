// Package sim emulates the MPU-6050 register file on top of the bus contracts,
// so drivers can be exercised without hardware.
package sim

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mklimuk/imu"
)

var (
	_ imu.SessionBus     = &Device{}
	_ imu.RegisterReader = &Device{}
)

// Op identifies the bus operation passed to a FailFunc.
type Op int

const (
	OpAcquire Op = iota
	OpRelease
	OpRead
	OpWrite
)

func (o Op) String() string {
	switch o {
	case OpAcquire:
		return "acquire"
	case OpRelease:
		return "release"
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	default:
		return "unknown"
	}
}

// FailFunc is consulted before every bus operation; a non-nil error aborts it.
// register is the first register touched, or 0 for acquire and release.
type FailFunc func(op Op, register byte) error

// Power-on register values.
const (
	powerOnPwrMgmt1 = 0x40
	whoAmIValue     = 0x68
	regPwrMgmt1     = 0x6B
	regWhoAmI       = 0x75
	regAccelOut     = 0x3B
	regTempOut      = 0x41
	regGyroOut      = 0x43
)

// Device is an MPU-6050 answering on a single address. Register reads and
// writes auto-increment like the real device.
type Device struct {
	mx       sync.Mutex
	address  byte
	regs     [256]byte
	pointer  byte
	open     bool
	starts   int
	stops    int
	writes   [][]byte
	FailFunc FailFunc
}

// NewDevice returns a device in its power-on state (asleep).
func NewDevice(address byte) *Device {
	d := &Device{address: address}
	d.regs[regPwrMgmt1] = powerOnPwrMgmt1
	d.regs[regWhoAmI] = whoAmIValue
	return d
}

func (d *Device) Acquire(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	if err := d.fail(OpAcquire, 0); err != nil {
		return err
	}
	d.starts++
	d.open = true
	return nil
}

func (d *Device) Release(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.stops++
	d.open = false
	return d.fail(OpRelease, 0)
}

func (d *Device) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	if err := d.check(address); err != nil {
		return err
	}
	if len(buffer) == 0 {
		return nil
	}
	if err := d.fail(OpWrite, buffer[0]); err != nil {
		return err
	}
	d.writes = append(d.writes, append([]byte(nil), buffer...))
	d.pointer = buffer[0]
	for _, b := range buffer[1:] {
		slog.Debug("sim register write", "register", fmt.Sprintf("%#x", d.pointer), "value", fmt.Sprintf("%#08b", b))
		if d.pointer != regWhoAmI {
			d.regs[d.pointer] = b
		}
		d.pointer++
	}
	return nil
}

func (d *Device) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	if err := d.check(address); err != nil {
		return err
	}
	if err := d.fail(OpRead, d.pointer); err != nil {
		return err
	}
	for i := range buffer {
		buffer[i] = d.regs[d.pointer]
		d.pointer++
	}
	return nil
}

func (d *Device) ReadFromMem(ctx context.Context, address, register byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	if err := d.check(address); err != nil {
		return err
	}
	if err := d.fail(OpRead, register); err != nil {
		return err
	}
	d.pointer = register
	for i := range buffer {
		buffer[i] = d.regs[d.pointer]
		d.pointer++
	}
	return nil
}

// Register returns the current value of register.
func (d *Device) Register(register byte) byte {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.regs[register]
}

// SetRegister overwrites register without going through the bus.
func (d *Device) SetRegister(register, value byte) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.regs[register] = value
}

// SetGyroscope stores raw gyroscope output values.
func (d *Device) SetGyroscope(x, y, z int16) {
	d.setTriplet(regGyroOut, x, y, z)
}

// SetAccelerometer stores raw accelerometer output values.
func (d *Device) SetAccelerometer(x, y, z int16) {
	d.setTriplet(regAccelOut, x, y, z)
}

// SetTemperature stores the raw temperature output value.
func (d *Device) SetTemperature(raw int16) {
	d.mx.Lock()
	defer d.mx.Unlock()
	binary.BigEndian.PutUint16(d.regs[regTempOut:], uint16(raw))
}

// Sessions returns the number of started and stopped bus sessions.
func (d *Device) Sessions() (starts, stops int) {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.starts, d.stops
}

// Open reports whether a session is currently started.
func (d *Device) Open() bool {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.open
}

// Writes returns copies of all frames written to the device.
func (d *Device) Writes() [][]byte {
	d.mx.Lock()
	defer d.mx.Unlock()
	res := make([][]byte, len(d.writes))
	for i, w := range d.writes {
		res[i] = append([]byte(nil), w...)
	}
	return res
}

func (d *Device) setTriplet(register byte, x, y, z int16) {
	d.mx.Lock()
	defer d.mx.Unlock()
	binary.BigEndian.PutUint16(d.regs[register:], uint16(x))
	binary.BigEndian.PutUint16(d.regs[register+2:], uint16(y))
	binary.BigEndian.PutUint16(d.regs[register+4:], uint16(z))
}

func (d *Device) check(address byte) error {
	if address != d.address {
		return fmt.Errorf("no device acknowledged address %#x", address)
	}
	return nil
}

func (d *Device) fail(op Op, register byte) error {
	if d.FailFunc == nil {
		return nil
	}
	return d.FailFunc(op, register)
}
