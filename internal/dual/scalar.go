// Package dual implements forward-mode automatic differentiation scalars.
//
// The package provides:
//   - Scalar: the numeric capability surface objective bodies are written against
//   - Real: a plain float64 scalar with no derivative state
//   - Number: a dual number carrying one tangent component per seeded direction
//
// A function body written once against Scalar runs unchanged at three depths:
// Real for plain values, Number[Real] for first derivatives, and
// Number[Number[Real]] for first and second derivatives together
// (forward-over-forward). Nesting works because Number's arithmetic is defined
// over any Scalar, including Number itself.
//
// Example:
//
//	func paraboloid[T dual.Scalar[T]](v ...[]T) T {
//	    x, y := v[0][0], v[0][1]
//	    return x.Mul(x).Add(y.Mul(y).Scale(3))
//	}
//
// Domain faults are not intercepted: Sqrt of a negative value produces NaN in
// the base component and the chain rule spreads it through the tangents, the
// same way plain float64 arithmetic would behave.
package dual

// Scalar is the operator set a differentiable function body may use.
//
// Binary operations combine two values of the same concrete type. Scale,
// Shift and Lift fold float64 constants into a computation: Scale multiplies
// by a constant, Shift adds a constant, and Lift produces the constant
// itself, shaped like the receiver (same direction count at every nesting
// depth, all tangents zero). Float reports the base value, unwrapping every
// nesting level.
type Scalar[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	Neg() T

	Scale(c float64) T
	Shift(c float64) T
	Lift(c float64) T

	Sqrt() T
	Exp() T
	Log() T
	Pow(p float64) T
	Sin() T
	Cos() T
	Tan() T

	Float() float64
}
