package dual

import (
	"math"
	"unsafe"
)

// Real is a plain float64 scalar. It carries no derivative state and is the
// zero-overhead instantiation used by value-only evaluation paths.
type Real float64

func (r Real) Add(s Real) Real { return r + s }
func (r Real) Sub(s Real) Real { return r - s }
func (r Real) Mul(s Real) Real { return r * s }
func (r Real) Div(s Real) Real { return r / s }
func (r Real) Neg() Real       { return -r }

func (r Real) Scale(c float64) Real { return r * Real(c) }
func (r Real) Shift(c float64) Real { return r + Real(c) }
func (r Real) Lift(c float64) Real  { return Real(c) }

func (r Real) Sqrt() Real { return Real(math.Sqrt(float64(r))) }
func (r Real) Exp() Real  { return Real(math.Exp(float64(r))) }
func (r Real) Log() Real  { return Real(math.Log(float64(r))) }

func (r Real) Pow(p float64) Real { return Real(math.Pow(float64(r), p)) }

func (r Real) Sin() Real { return Real(math.Sin(float64(r))) }
func (r Real) Cos() Real { return Real(math.Cos(float64(r))) }
func (r Real) Tan() Real { return Real(math.Tan(float64(r))) }

// Float returns the value as a float64.
func (r Real) Float() float64 { return float64(r) }

// Reals reinterprets a float64 slice as a Real slice without copying.
// The returned slice aliases xs.
func Reals(xs []float64) []Real {
	if len(xs) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for a zero-copy view, Real is defined as float64
	return unsafe.Slice((*Real)(unsafe.Pointer(&xs[0])), len(xs))
}

// Floats reinterprets a Real slice as a float64 slice without copying.
// The returned slice aliases xs.
func Floats(xs []Real) []float64 {
	if len(xs) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for a zero-copy view, Real is defined as float64
	return unsafe.Slice((*float64)(unsafe.Pointer(&xs[0])), len(xs))
}

var _ Scalar[Real] = Real(0)
