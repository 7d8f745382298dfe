package imu

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/mklimuk/imu/codec"
)

// Transaction is a bus session bound to one device address. It is not
// reentrant: do not begin another transaction on the same bus before End.
type Transaction struct {
	bus     SessionBus
	address byte
}

// Begin starts a bus session for address. The caller must call End.
func Begin(ctx context.Context, bus SessionBus, address byte) (*Transaction, error) {
	if err := bus.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("could not start session with %#x: %w", address, err)
	}
	return &Transaction{bus: bus, address: address}, nil
}

// Do runs fn inside a transaction. The session is ended on every exit path;
// an error ending the session is combined with the error returned by fn.
func Do(ctx context.Context, bus SessionBus, address byte, fn func(tx *Transaction) error) (err error) {
	tx, err := Begin(ctx, bus, address)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, tx.End(ctx))
	}()
	return fn(tx)
}

// End stops the bus session.
func (t *Transaction) End(ctx context.Context) error {
	if err := t.bus.Release(ctx); err != nil {
		return fmt.Errorf("could not stop session with %#x: %w", t.address, err)
	}
	return nil
}

// Address returns the device address the transaction is bound to.
func (t *Transaction) Address() byte {
	return t.address
}

// ReadBytes reads length bytes starting at register.
func (t *Transaction) ReadBytes(ctx context.Context, register byte, length int) ([]byte, error) {
	buf := make([]byte, length)
	if mem, ok := t.bus.(RegisterReader); ok {
		if err := mem.ReadFromMem(ctx, t.address, register, buf); err != nil {
			return nil, fmt.Errorf("could not read register %#x: %w", register, err)
		}
		return buf, nil
	}
	// set register pointer, then read
	if err := t.bus.WriteToAddr(ctx, t.address, []byte{register}); err != nil {
		return nil, fmt.Errorf("could not set register pointer %#x: %w", register, err)
	}
	if err := t.bus.ReadFromAddr(ctx, t.address, buf); err != nil {
		return nil, fmt.Errorf("could not read register %#x: %w", register, err)
	}
	return buf, nil
}

// ReadInt reads length bytes starting at register and decodes them as an integer.
func (t *Transaction) ReadInt(ctx context.Context, register byte, length int, order codec.ByteOrder, signed bool) (int64, error) {
	if !order.Valid() {
		return 0, fmt.Errorf("byte order must be either 'big' or 'little', got %q: %w", string(order), codec.ErrInvalidArgument)
	}
	data, err := t.ReadBytes(ctx, register, length)
	if err != nil {
		return 0, err
	}
	return codec.Decode(data, order, signed)
}

// ReadUint8 reads a single register.
func (t *Transaction) ReadUint8(ctx context.Context, register byte) (uint8, error) {
	v, err := t.ReadInt(ctx, register, 1, codec.BigEndian, false)
	return uint8(v), err
}

// ReadInt16 reads a big endian two's complement register pair.
func (t *Transaction) ReadInt16(ctx context.Context, register byte) (int16, error) {
	v, err := t.ReadInt(ctx, register, 2, codec.BigEndian, true)
	return int16(v), err
}

// Write sends register followed by values in a single bus write. The device
// stores consecutive values at consecutive registers.
func (t *Transaction) Write(ctx context.Context, register byte, values ...byte) error {
	payload := make([]byte, 0, len(values)+1)
	payload = append(payload, register)
	payload = append(payload, values...)
	if err := t.bus.WriteToAddr(ctx, t.address, payload); err != nil {
		return fmt.Errorf("could not write register %#x: %w", register, err)
	}
	return nil
}
