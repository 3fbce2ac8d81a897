package term

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/descent-opt/descent/internal/dual"
)

// Order1 is the dual scalar carrying first derivatives.
type Order1 = dual.Number[dual.Real]

// Order2 is the nested dual scalar carrying first and second derivatives.
type Order2 = dual.Number[Order1]

// Body is a user objective over variable blocks, written once against the
// dual.Scalar operator set so a single definition serves the plain, order-1
// and order-2 instantiations.
type Body[T dual.Scalar[T]] func(vars ...[]T) T

// ErrNilBody is returned when a term is constructed without a function body.
var ErrNilBody = errors.New("term: nil function body")

// AutoDiffTerm computes a user function body's value, gradient and Hessian
// by forward-over-forward automatic differentiation. The body is evaluated
// exactly once per call: seeded dual numbers carry all first- and
// second-derivative information through the computation, so no derivative
// code is ever written by hand.
//
// The value path and the derivative paths run instantiations of the same
// generic definition, which makes the value returned by Evaluate and the
// value component returned by EvaluateWithDerivatives identical for
// identical inputs.
//
// A term holds no state across calls beyond the body itself: each call
// allocates its own seed set, so calls on distinct terms, or on one term
// whose body is pure, are safe to run concurrently without locking. The
// term performs no synchronization of its own.
type AutoDiffTerm struct {
	Shape

	value Body[dual.Real]
	grad  Body[Order1]
	deriv Body[Order2]

	owned    io.Closer
	once     sync.Once
	closeErr error
}

// AutoDiffTerm can serve an aggregate's gradient-only requests.
var _ GradientEvaluator = (*AutoDiffTerm)(nil)

// AutoDiffOption configures an AutoDiffTerm.
type AutoDiffOption func(*AutoDiffTerm)

// WithOwned transfers ownership of a resource the function body closes over.
// The term's Close releases it exactly once.
func WithOwned(c io.Closer) AutoDiffOption {
	return func(t *AutoDiffTerm) { t.owned = c }
}

// WithGradient supplies the order-1 instantiation of the body, giving
// EvaluateWithGradient a first-derivative-only pass instead of the order-2
// fallback. It must be instantiated from the same definition as the other
// two bodies.
func WithGradient(body Body[Order1]) AutoDiffOption {
	return func(t *AutoDiffTerm) { t.grad = body }
}

// NewAutoDiff builds a term over the given block shape from two
// instantiations of one generic function body: value at the plain scalar
// type and deriv at the order-2 dual type.
//
// Example:
//
//	func himmelblau[T dual.Scalar[T]](v ...[]T) T {
//	    x, y := v[0][0], v[0][1]
//	    a := x.Mul(x).Add(y).Shift(-11)
//	    b := y.Mul(y).Add(x).Shift(-7)
//	    return a.Mul(a).Add(b.Mul(b))
//	}
//
//	t, err := term.NewAutoDiff(term.Shape{2},
//	    himmelblau[dual.Real], himmelblau[term.Order2])
func NewAutoDiff(shape Shape, value Body[dual.Real], deriv Body[Order2], opts ...AutoDiffOption) (*AutoDiffTerm, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if value == nil || deriv == nil {
		return nil, ErrNilBody
	}
	t := &AutoDiffTerm{Shape: shape.Clone(), value: value, deriv: deriv}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Close releases the owned resource, if any. The first call releases, every
// later call returns the first result. Close is safe whether or not the term
// was ever evaluated.
func (t *AutoDiffTerm) Close() error {
	t.once.Do(func() {
		if t.owned != nil {
			t.closeErr = t.owned.Close()
		}
	})
	return t.closeErr
}

// Evaluate computes the value only. The body runs directly on plain scalar
// views of vars, with no dual wrapping and no tangent storage.
func (t *AutoDiffTerm) Evaluate(vars [][]float64) float64 {
	t.checkVariables(vars)
	blocks := make([][]dual.Real, len(vars))
	for i, v := range vars {
		blocks[i] = dual.Reals(v)
	}
	return t.value(blocks...).Float()
}

// EvaluateWithGradient computes the value and gradient. With an order-1 body
// attached (WithGradient) the pass carries first-derivative tangents only;
// otherwise it falls back to the full order-2 pass and discards the Hessian.
func (t *AutoDiffTerm) EvaluateWithGradient(vars [][]float64, gradient []*mat.VecDense) float64 {
	t.checkVariables(vars)
	t.checkGradient(gradient)
	if t.grad == nil {
		return t.EvaluateWithDerivatives(vars, gradient, NewHessian(t))
	}

	total := t.TotalDimension()
	blocks := make([][]Order1, len(vars))
	m := 0
	for i, v := range vars {
		blocks[i] = make([]Order1, len(v))
		for c, x := range v {
			s := dual.NewNumber(dual.Real(x), total)
			s.Emag[m] = dual.Real(1)
			blocks[i][c] = s
			m++
		}
	}
	r := t.grad(blocks...)

	m = 0
	for i := range vars {
		for c := 0; c < t.Shape[i]; c++ {
			gradient[i].SetVec(c, r.Emag[m].Float())
			m++
		}
	}
	return r.Float()
}

// EvaluateWithDerivatives computes value, gradient and the full Hessian grid
// from a single evaluation of the body on seeded order-2 duals. For every
// packed direction m, both the inner tangent and the outer tangent of
// variable m carry the unit vector e_m. After the call, the inner tangents
// of the result hold the gradient and the tangents-of-tangents hold the
// Hessian. Entries (i, j) and (j, i) are extracted independently, never
// mirrored; for a twice-differentiable body they agree up to rounding.
//
// The full k-by-k grid is materialized eagerly. Tangent storage grows with
// the square of the packed dimension; that quadratic bookkeeping is the
// price of single-evaluation second derivatives.
func (t *AutoDiffTerm) EvaluateWithDerivatives(vars [][]float64, gradient []*mat.VecDense, hessian [][]*mat.Dense) float64 {
	t.checkVariables(vars)
	t.checkGradient(gradient)
	t.checkHessian(hessian)

	total := t.TotalDimension()
	blocks := make([][]Order2, len(vars))
	m := 0
	for i, v := range vars {
		blocks[i] = make([]Order2, len(v))
		for c, x := range v {
			inner := dual.NewNumber(dual.Real(x), total)
			inner.Emag[m] = dual.Real(1)
			s := dual.NewNumber(inner, total)
			s.Emag[m] = dual.NewNumber(dual.Real(1), total)
			blocks[i][c] = s
			m++
		}
	}
	r := t.deriv(blocks...)

	m = 0
	for i := range vars {
		for c := 0; c < t.Shape[i]; c++ {
			gradient[i].SetVec(c, r.Real.Emag[m].Float())
			m++
		}
	}

	row := 0
	for i := range vars {
		col := 0
		for j := range vars {
			hij := hessian[i][j]
			for a := 0; a < t.Shape[i]; a++ {
				for b := 0; b < t.Shape[j]; b++ {
					hij.Set(a, b, r.Emag[col+b].Emag[row+a].Float())
				}
			}
			col += t.Shape[j]
		}
		row += t.Shape[i]
	}
	return r.Float()
}

// checkVariables panics unless vars matches the term shape exactly.
func (t *AutoDiffTerm) checkVariables(vars [][]float64) {
	if len(vars) != t.NumVariables() {
		panic(fmt.Sprintf("got %d variable blocks, want %d", len(vars), t.NumVariables()))
	}
	for i, v := range vars {
		if len(v) != t.Shape[i] {
			panic(fmt.Sprintf("variable block %d has length %d, want %d", i, len(v), t.Shape[i]))
		}
	}
}

// checkGradient panics unless gradient is shaped for this term.
func (t *AutoDiffTerm) checkGradient(gradient []*mat.VecDense) {
	if len(gradient) != t.NumVariables() {
		panic(fmt.Sprintf("got %d gradient vectors, want %d", len(gradient), t.NumVariables()))
	}
	for i, g := range gradient {
		if g.Len() != t.Shape[i] {
			panic(fmt.Sprintf("gradient vector %d has length %d, want %d", i, g.Len(), t.Shape[i]))
		}
	}
}

// checkHessian panics unless hessian is shaped for this term.
func (t *AutoDiffTerm) checkHessian(hessian [][]*mat.Dense) {
	if len(hessian) != t.NumVariables() {
		panic(fmt.Sprintf("got %d Hessian rows, want %d", len(hessian), t.NumVariables()))
	}
	for i, hrow := range hessian {
		if len(hrow) != t.NumVariables() {
			panic(fmt.Sprintf("Hessian row %d has %d blocks, want %d", i, len(hrow), t.NumVariables()))
		}
		for j, h := range hrow {
			r, c := h.Dims()
			if r != t.Shape[i] || c != t.Shape[j] {
				panic(fmt.Sprintf("Hessian block (%d,%d) is %dx%d, want %dx%d", i, j, r, c, t.Shape[i], t.Shape[j]))
			}
		}
	}
}
