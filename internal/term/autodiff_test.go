package term_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/descent-opt/descent/internal/dual"
	"github.com/descent-opt/descent/internal/gradcheck"
	"github.com/descent-opt/descent/internal/term"
)

// sqrtBody is f(x, y) = y*sqrt(x) + sin(sqrt(x)) over two scalar variables.
// One definition serves the plain path and both derivative paths.
func sqrtBody[T dual.Scalar[T]](vars ...[]T) T {
	x, y := vars[0][0], vars[1][0]
	s := x.Sqrt()
	return y.Mul(s).Add(s.Sin())
}

// trigBody is f(x) = sin(x0) + cos(x1) + 1.4*x0*x1 + 1 over one
// two-dimensional variable.
func trigBody[T dual.Scalar[T]](vars ...[]T) T {
	x0, x1 := vars[0][0], vars[0][1]
	return x0.Sin().Add(x1.Cos()).Add(x0.Mul(x1).Scale(1.4)).Shift(1)
}

// trigBlocksBody is the same function with each coordinate in its own
// variable block.
func trigBlocksBody[T dual.Scalar[T]](vars ...[]T) T {
	x0, x1 := vars[0][0], vars[1][0]
	return x0.Sin().Add(x1.Cos()).Add(x0.Mul(x1).Scale(1.4)).Shift(1)
}

// trilinearBody is f(a, b, c) = a*b0 + b1*c + a*c over three blocks with
// dimensions 1, 2 and 1.
func trilinearBody[T dual.Scalar[T]](vars ...[]T) T {
	a, b0, b1, c := vars[0][0], vars[1][0], vars[1][1], vars[2][0]
	return a.Mul(b0).Add(b1.Mul(c)).Add(a.Mul(c))
}

// constBody ignores its (empty) variable list and returns 3.5.
func constBody[T dual.Scalar[T]](vars ...[]T) T {
	var zero T
	return zero.Lift(3.5)
}

func newSqrtTerm(t *testing.T) *term.AutoDiffTerm {
	t.Helper()
	adt, err := term.NewAutoDiff(term.Shape{1, 1}, sqrtBody[dual.Real], sqrtBody[term.Order2])
	require.NoError(t, err)
	return adt
}

// TestAutoDiff_Value tests the plain evaluation path against a direct
// computation with math.
func TestAutoDiff_Value(t *testing.T) {
	adt := newSqrtTerm(t)

	x, y := 1.3, 2.0
	got := adt.Evaluate([][]float64{{x}, {y}})
	want := y*math.Sqrt(x) + math.Sin(math.Sqrt(x))
	assert.InDelta(t, want, got, 1e-15)
}

// TestAutoDiff_Derivatives tests gradient and Hessian of
// f(x, y) = y*sqrt(x) + sin(sqrt(x)) at (1.3, 2) against the closed forms
//
//	df/dx   = (y + cos(sqrt(x))) / (2*sqrt(x))
//	df/dy   = sqrt(x)
//	d2f/dx2 = -(y + cos(sqrt(x)) + sqrt(x)*sin(sqrt(x))) / (4*x^1.5)
//	d2f/dxdy = 1 / (2*sqrt(x))
//	d2f/dy2 = 0
func TestAutoDiff_Derivatives(t *testing.T) {
	adt := newSqrtTerm(t)

	x, y := 1.3, 2.0
	sx := math.Sqrt(x)

	gradient := term.NewGradient(adt)
	hessian := term.NewHessian(adt)
	value := adt.EvaluateWithDerivatives([][]float64{{x}, {y}}, gradient, hessian)

	assert.InDelta(t, y*sx+math.Sin(sx), value, 1e-15)

	assert.InDelta(t, (y+math.Cos(sx))/(2*sx), gradient[0].AtVec(0), 1e-12)
	assert.InDelta(t, sx, gradient[1].AtVec(0), 1e-12)

	assert.InDelta(t, -(y+math.Cos(sx)+sx*math.Sin(sx))/(4*math.Pow(x, 1.5)), hessian[0][0].At(0, 0), 1e-12)
	assert.InDelta(t, 1/(2*sx), hessian[0][1].At(0, 0), 1e-12)
	assert.InDelta(t, 1/(2*sx), hessian[1][0].At(0, 0), 1e-12)
	assert.InDelta(t, 0, hessian[1][1].At(0, 0), 1e-12)
}

// TestAutoDiff_VectorVariable tests a single two-dimensional variable block:
// f(x) = sin(x0) + cos(x1) + 1.4*x0*x1 + 1 at (1, 3).
func TestAutoDiff_VectorVariable(t *testing.T) {
	adt, err := term.NewAutoDiff(term.Shape{2}, trigBody[dual.Real], trigBody[term.Order2])
	require.NoError(t, err)

	x0, x1 := 1.0, 3.0
	gradient := term.NewGradient(adt)
	hessian := term.NewHessian(adt)
	value := adt.EvaluateWithDerivatives([][]float64{{x0, x1}}, gradient, hessian)

	assert.InDelta(t, math.Sin(x0)+math.Cos(x1)+1.4*x0*x1+1, value, 1e-15)

	assert.InDelta(t, math.Cos(x0)+1.4*x1, gradient[0].AtVec(0), 1e-12)
	assert.InDelta(t, -math.Sin(x1)+1.4*x0, gradient[0].AtVec(1), 1e-12)

	h := hessian[0][0]
	assert.InDelta(t, -math.Sin(x0), h.At(0, 0), 1e-12)
	assert.InDelta(t, 1.4, h.At(0, 1), 1e-12)
	assert.InDelta(t, 1.4, h.At(1, 0), 1e-12)
	assert.InDelta(t, -math.Cos(x1), h.At(1, 1), 1e-12)
}

// TestAutoDiff_SplitBlocks tests the same trigonometric function split into
// two scalar blocks, including the off-diagonal Hessian blocks.
func TestAutoDiff_SplitBlocks(t *testing.T) {
	adt, err := term.NewAutoDiff(term.Shape{1, 1}, trigBlocksBody[dual.Real], trigBlocksBody[term.Order2])
	require.NoError(t, err)

	x0, x1 := 5.3, 7.1
	gradient := term.NewGradient(adt)
	hessian := term.NewHessian(adt)
	value := adt.EvaluateWithDerivatives([][]float64{{x0}, {x1}}, gradient, hessian)

	assert.InDelta(t, math.Sin(x0)+math.Cos(x1)+1.4*x0*x1+1, value, 1e-15)

	assert.InDelta(t, math.Cos(x0)+1.4*x1, gradient[0].AtVec(0), 1e-12)
	assert.InDelta(t, -math.Sin(x1)+1.4*x0, gradient[1].AtVec(0), 1e-12)

	assert.InDelta(t, -math.Sin(x0), hessian[0][0].At(0, 0), 1e-12)
	assert.InDelta(t, 1.4, hessian[0][1].At(0, 0), 1e-12)
	assert.InDelta(t, 1.4, hessian[1][0].At(0, 0), 1e-12)
	assert.InDelta(t, -math.Cos(x1), hessian[1][1].At(0, 0), 1e-12)
}

// TestAutoDiff_ThreeBlocks tests a trilinear function over three blocks of
// mixed dimension. All second derivatives are constants, so every entry of
// the 3x3 block grid has a known exact value.
func TestAutoDiff_ThreeBlocks(t *testing.T) {
	adt, err := term.NewAutoDiff(term.Shape{1, 2, 1}, trilinearBody[dual.Real], trilinearBody[term.Order2])
	require.NoError(t, err)

	vars := [][]float64{{2}, {3, 4}, {5}}
	gradient := term.NewGradient(adt)
	hessian := term.NewHessian(adt)
	value := adt.EvaluateWithDerivatives(vars, gradient, hessian)

	// f = 2*3 + 4*5 + 2*5
	assert.Equal(t, 36.0, value)

	assert.Equal(t, 8.0, gradient[0].AtVec(0))
	assert.Equal(t, 2.0, gradient[1].AtVec(0))
	assert.Equal(t, 5.0, gradient[1].AtVec(1))
	assert.Equal(t, 6.0, gradient[2].AtVec(0))

	assert.Equal(t, 0.0, hessian[0][0].At(0, 0))
	assert.Equal(t, 1.0, hessian[0][1].At(0, 0))
	assert.Equal(t, 0.0, hessian[0][1].At(0, 1))
	assert.Equal(t, 1.0, hessian[0][2].At(0, 0))
	assert.Equal(t, 1.0, hessian[1][0].At(0, 0))
	assert.Equal(t, 0.0, hessian[1][0].At(1, 0))
	assert.Equal(t, 0.0, hessian[1][2].At(0, 0))
	assert.Equal(t, 1.0, hessian[1][2].At(1, 0))
	assert.Equal(t, 1.0, hessian[2][0].At(0, 0))
	assert.Equal(t, 0.0, hessian[2][1].At(0, 0))
	assert.Equal(t, 1.0, hessian[2][1].At(0, 1))
	assert.Equal(t, 0.0, hessian[2][2].At(0, 0))
}

// TestAutoDiff_ValueAgreement tests that the plain path and both derivative
// paths return the same value bit for bit. All three run the body through
// identical arithmetic on the primal component.
func TestAutoDiff_ValueAgreement(t *testing.T) {
	adt := newSqrtTerm(t)

	points := [][][]float64{
		{{1.3}, {2.0}},
		{{0.07}, {-4.25}},
		{{19.5}, {0.003}},
	}
	for _, vars := range points {
		plain := adt.Evaluate(vars)

		gradient := term.NewGradient(adt)
		hessian := term.NewHessian(adt)
		full := adt.EvaluateWithDerivatives(vars, gradient, hessian)
		require.Equal(t, plain, full)

		gradOnly := adt.EvaluateWithGradient(vars, term.NewGradient(adt))
		require.Equal(t, plain, gradOnly)
	}
}

// TestAutoDiff_GradientPath tests EvaluateWithGradient with and without a
// dedicated first-order body against the full second-order path.
func TestAutoDiff_GradientPath(t *testing.T) {
	vars := [][]float64{{1.3}, {2.0}}

	full := newSqrtTerm(t)
	gradient := term.NewGradient(full)
	hessian := term.NewHessian(full)
	full.EvaluateWithDerivatives(vars, gradient, hessian)

	t.Run("dedicated first-order body", func(t *testing.T) {
		adt, err := term.NewAutoDiff(term.Shape{1, 1}, sqrtBody[dual.Real], sqrtBody[term.Order2],
			term.WithGradient(sqrtBody[term.Order1]))
		require.NoError(t, err)

		g := term.NewGradient(adt)
		value := adt.EvaluateWithGradient(vars, g)
		assert.Equal(t, full.Evaluate(vars), value)
		assert.InDelta(t, gradient[0].AtVec(0), g[0].AtVec(0), 1e-15)
		assert.InDelta(t, gradient[1].AtVec(0), g[1].AtVec(0), 1e-15)
	})

	t.Run("fallback through second order", func(t *testing.T) {
		adt := newSqrtTerm(t)

		g := term.NewGradient(adt)
		value := adt.EvaluateWithGradient(vars, g)
		assert.Equal(t, full.Evaluate(vars), value)
		assert.InDelta(t, gradient[0].AtVec(0), g[0].AtVec(0), 1e-15)
		assert.InDelta(t, gradient[1].AtVec(0), g[1].AtVec(0), 1e-15)
	})
}

// TestAutoDiff_NumericalCheck cross-checks the automatic gradient against
// central differences.
func TestAutoDiff_NumericalCheck(t *testing.T) {
	adt, err := term.NewAutoDiff(term.Shape{2}, trigBody[dual.Real], trigBody[term.Order2])
	require.NoError(t, err)

	x := []float64{0.8, -1.7}
	gradient := term.NewGradient(adt)
	adt.EvaluateWithGradient([][]float64{x}, gradient)

	numerical := gradcheck.Gradient(func(p []float64) float64 {
		return adt.Evaluate([][]float64{p})
	}, x, 1e-6)

	assert.InDelta(t, numerical[0], gradient[0].AtVec(0), 1e-5)
	assert.InDelta(t, numerical[1], gradient[0].AtVec(1), 1e-5)
}

// TestAutoDiff_HessianSymmetry tests that mixed partials agree across the
// diagonal for a function with nontrivial curvature.
func TestAutoDiff_HessianSymmetry(t *testing.T) {
	adt, err := term.NewAutoDiff(term.Shape{2}, trigBody[dual.Real], trigBody[term.Order2])
	require.NoError(t, err)

	gradient := term.NewGradient(adt)
	hessian := term.NewHessian(adt)
	adt.EvaluateWithDerivatives([][]float64{{0.9, 2.6}}, gradient, hessian)

	h := hessian[0][0]
	assert.Equal(t, h.At(0, 1), h.At(1, 0))
}

// TestAutoDiff_NoVariables tests a term over zero variables.
func TestAutoDiff_NoVariables(t *testing.T) {
	adt, err := term.NewAutoDiff(term.Shape{}, constBody[dual.Real], constBody[term.Order2])
	require.NoError(t, err)

	assert.Equal(t, 0, adt.NumVariables())
	assert.Equal(t, 3.5, adt.Evaluate(nil))

	value := adt.EvaluateWithDerivatives(nil, term.NewGradient(adt), term.NewHessian(adt))
	assert.Equal(t, 3.5, value)
}

// TestAutoDiff_ShapeStable tests that the reported shape does not change
// across evaluations.
func TestAutoDiff_ShapeStable(t *testing.T) {
	adt := newSqrtTerm(t)

	for range 3 {
		adt.Evaluate([][]float64{{1.3}, {2.0}})
		require.Equal(t, 2, adt.NumVariables())
		require.Equal(t, 1, adt.VariableDimension(0))
		require.Equal(t, 1, adt.VariableDimension(1))
	}
}

// TestNewAutoDiff_Validation tests constructor failures.
func TestNewAutoDiff_Validation(t *testing.T) {
	_, err := term.NewAutoDiff(term.Shape{1, 1}, nil, sqrtBody[term.Order2])
	assert.ErrorIs(t, err, term.ErrNilBody)

	_, err = term.NewAutoDiff(term.Shape{1, 1}, sqrtBody[dual.Real], nil)
	assert.ErrorIs(t, err, term.ErrNilBody)

	_, err = term.NewAutoDiff(term.Shape{1, 0}, sqrtBody[dual.Real], sqrtBody[term.Order2])
	assert.Error(t, err)

	_, err = term.NewAutoDiff(term.Shape{-1}, sqrtBody[dual.Real], sqrtBody[term.Order2])
	assert.Error(t, err)
}

// TestAutoDiff_InputPanics tests that malformed evaluation inputs panic.
func TestAutoDiff_InputPanics(t *testing.T) {
	adt := newSqrtTerm(t)
	good := [][]float64{{1.3}, {2.0}}

	assert.Panics(t, func() {
		adt.Evaluate([][]float64{{1.3}})
	}, "wrong variable count")

	assert.Panics(t, func() {
		adt.Evaluate([][]float64{{1.3, 9.9}, {2.0}})
	}, "wrong variable dimension")

	assert.Panics(t, func() {
		adt.EvaluateWithGradient(good, term.NewGradient(adt)[:1])
	}, "wrong gradient count")

	assert.Panics(t, func() {
		adt.EvaluateWithDerivatives(good, term.NewGradient(adt), term.NewHessian(adt)[:1])
	}, "wrong hessian row count")
}

// countingCloser records Close calls and returns a fixed error.
type countingCloser struct {
	closes int
	err    error
}

func (c *countingCloser) Close() error {
	c.closes++
	return c.err
}

// TestAutoDiff_OwnedResource tests that Close releases an owned resource
// exactly once and keeps returning the first result.
func TestAutoDiff_OwnedResource(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		cc := &countingCloser{}
		adt, err := term.NewAutoDiff(term.Shape{1, 1}, sqrtBody[dual.Real], sqrtBody[term.Order2],
			term.WithOwned(cc))
		require.NoError(t, err)

		adt.Evaluate([][]float64{{1.3}, {2.0}})
		for range 3 {
			require.NoError(t, adt.Close())
		}
		assert.Equal(t, 1, cc.closes)
	})

	t.Run("close without evaluate", func(t *testing.T) {
		cc := &countingCloser{}
		adt, err := term.NewAutoDiff(term.Shape{1, 1}, sqrtBody[dual.Real], sqrtBody[term.Order2],
			term.WithOwned(cc))
		require.NoError(t, err)

		require.NoError(t, adt.Close())
		assert.Equal(t, 1, cc.closes)
	})

	t.Run("close error is sticky", func(t *testing.T) {
		errBroken := errors.New("resource wedged")
		cc := &countingCloser{err: errBroken}
		adt, err := term.NewAutoDiff(term.Shape{1, 1}, sqrtBody[dual.Real], sqrtBody[term.Order2],
			term.WithOwned(cc))
		require.NoError(t, err)

		assert.ErrorIs(t, adt.Close(), errBroken)
		assert.ErrorIs(t, adt.Close(), errBroken)
		assert.Equal(t, 1, cc.closes)
	})

	t.Run("nothing owned", func(t *testing.T) {
		adt := newSqrtTerm(t)
		require.NoError(t, adt.Close())
	})
}
