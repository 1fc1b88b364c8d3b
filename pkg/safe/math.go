// Package safe provides overflow-checked unsigned 64-bit arithmetic for
// settlement amounts. Every operation reports a wrapped result as an error
// instead of silently truncating; callers surface it as a numeric-overflow
// failure of the whole operation.
package safe

import (
	"errors"
	"math"
)

// ErrOverflow is returned when an operation would wrap around.
var ErrOverflow = errors.New("arithmetic overflow")

// ErrDivideByZero is returned when dividing by zero.
var ErrDivideByZero = errors.New("division by zero")

// Add returns a+b, or ErrOverflow if the sum does not fit in uint64.
func Add(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// Sub returns a-b, or ErrOverflow if b > a.
func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrOverflow
	}
	return a - b, nil
}

// Mul returns a*b, or ErrOverflow if the product does not fit in uint64.
func Mul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxUint64/b {
		return 0, ErrOverflow
	}
	return a * b, nil
}

// Div returns a/b, or ErrDivideByZero if b is zero.
func Div(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	return a / b, nil
}

// MulDiv returns floor(a*b/d) with the intermediate product checked.
// This is the basis-point primitive: fee = MulDiv(price, bps, 10000).
func MulDiv(a, b, d uint64) (uint64, error) {
	product, err := Mul(a, b)
	if err != nil {
		return 0, err
	}
	return Div(product, d)
}
