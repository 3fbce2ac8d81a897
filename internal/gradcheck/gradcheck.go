// Package gradcheck approximates derivatives by finite differences. It backs
// the cross-checks that compare automatically differentiated results against
// a derivative-free reference in tests.
package gradcheck

import "golang.org/x/exp/constraints"

// Gradient approximates the gradient of f at x by central differences with
// step h. x is mutated during probing and restored before returning.
func Gradient[F constraints.Float](f func([]F) F, x []F, h F) []F {
	g := make([]F, len(x))
	for i := range x {
		orig := x[i]
		x[i] = orig + h
		fp := f(x)
		x[i] = orig - h
		fm := f(x)
		x[i] = orig
		g[i] = (fp - fm) / (2 * h)
	}
	return g
}

// Derivative approximates df/dx at x by a central difference with step h.
func Derivative[F constraints.Float](f func(F) F, x, h F) F {
	return (f(x+h) - f(x-h)) / (2 * h)
}
