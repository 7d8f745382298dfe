// Package bitfield reads and writes single bits of register values.
//
// Index 0 is the least significant bit. Callers must keep the index below the
// width of the value type.
package bitfield

import "golang.org/x/exp/constraints"

// Get returns the bit at index as 0 or 1.
func Get[T constraints.Unsigned](value T, index uint) uint8 {
	return uint8((value >> index) & 1)
}

// IsSet reports whether the bit at index is 1.
func IsSet[T constraints.Unsigned](value T, index uint) bool {
	return Get(value, index) == 1
}

// Enable sets the bit at index to 1.
func Enable[T constraints.Unsigned](value T, index uint) T {
	return value | (T(1) << index)
}

// Disable sets the bit at index to 0.
func Disable[T constraints.Unsigned](value T, index uint) T {
	return value &^ (T(1) << index)
}

// Set sets the bit at index to 1 if bit is true and to 0 otherwise.
func Set[T constraints.Unsigned](value T, index uint, bit bool) T {
	if bit {
		return Enable(value, index)
	}
	return Disable(value, index)
}
