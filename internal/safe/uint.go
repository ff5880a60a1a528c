// Package safe provides helpers for safe numeric conversions and arithmetic
// on native-currency amounts.
package safe

import (
	"fmt"
	"math"
)

// Int64 converts an unsigned amount to int64 for storage in signed SQL columns.
func Int64(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("value %d out of int64 range", v)
	}
	return int64(v), nil
}

// Uint64 converts a stored signed amount back to uint64, rejecting negatives.
func Uint64(v int64) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("value %d out of uint64 range", v)
	}
	return uint64(v), nil
}

// Add returns a+b, or an error when the sum overflows.
func Add(a, b uint64) (uint64, error) {
	if b > math.MaxUint64-a {
		return 0, fmt.Errorf("%d + %d overflows uint64", a, b)
	}
	return a + b, nil
}

// Sub returns a-b, or an error when b exceeds a.
func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, fmt.Errorf("%d - %d underflows uint64", a, b)
	}
	return a - b, nil
}

// Uint32 narrows a count to uint32 for the wire.
func Uint32(v int) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of uint32 range", v)
	}
	return uint32(v), nil
}
