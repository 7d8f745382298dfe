// Package codec reconstructs integers from register byte streams.
package codec

import (
	"fmt"
	"math"
)

// ErrInvalidArgument is returned for unknown byte orders and unsupported input lengths.
var ErrInvalidArgument = fmt.Errorf("invalid argument")

// MaxLength is the longest byte sequence that fits the decoded integer types.
const MaxLength = 8

// ByteOrder selects which end of a byte sequence is the most significant.
type ByteOrder string

const (
	// BigEndian puts the most significant byte first (MPU-6050 output registers).
	BigEndian ByteOrder = "big"
	// LittleEndian puts the least significant byte first.
	LittleEndian ByteOrder = "little"
)

func (o ByteOrder) String() string {
	return string(o)
}

// Valid reports whether o is one of the known byte orders.
func (o ByteOrder) Valid() bool {
	return o == BigEndian || o == LittleEndian
}

// ParseByteOrder converts a byte order token ("big" or "little").
func ParseByteOrder(token string) (ByteOrder, error) {
	order := ByteOrder(token)
	if !order.Valid() {
		return "", fmt.Errorf("byte order must be either 'big' or 'little', got %q: %w", token, ErrInvalidArgument)
	}
	return order, nil
}

// DecodeUnsigned combines data into an unsigned integer honoring order.
func DecodeUnsigned(data []byte, order ByteOrder) (uint64, error) {
	if !order.Valid() {
		return 0, fmt.Errorf("byte order must be either 'big' or 'little', got %q: %w", string(order), ErrInvalidArgument)
	}
	if len(data) == 0 || len(data) > MaxLength {
		return 0, fmt.Errorf("cannot decode %d bytes (1-%d supported): %w", len(data), MaxLength, ErrInvalidArgument)
	}
	var value uint64
	if order == BigEndian {
		for _, b := range data {
			value = value<<8 | uint64(b)
		}
		return value, nil
	}
	for i := len(data) - 1; i >= 0; i-- {
		value = value<<8 | uint64(data[i])
	}
	return value, nil
}

// Decode combines data into an integer honoring order. When signed is set the
// value is interpreted as two's complement over the full length of data.
func Decode(data []byte, order ByteOrder, signed bool) (int64, error) {
	value, err := DecodeUnsigned(data, order)
	if err != nil {
		return 0, err
	}
	msb := data[0]
	if order == LittleEndian {
		msb = data[len(data)-1]
	}
	if !signed {
		if value > math.MaxInt64 {
			return 0, fmt.Errorf("unsigned value %d overflows int64: %w", value, ErrInvalidArgument)
		}
		return int64(value), nil
	}
	if msb&0x80 == 0 || len(data) == MaxLength {
		// 8 byte values already carry the sign in the conversion
		return int64(value), nil
	}
	return int64(value) - int64(1)<<(8*len(data)), nil
}
