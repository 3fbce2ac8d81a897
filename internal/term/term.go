// Package term implements objective terms and their automatic differentiation.
//
// A term is a scalar function of one or more vector-valued variable blocks.
// The package separates what a term looks like (Term, the shape-only
// surface) from how it is computed (Evaluator, which adds a value-only path
// and a full derivative path). AutoDiffTerm implements Evaluator for any
// user function body written against the dual.Scalar operator set, deriving
// gradient and Hessian by forward-over-forward differentiation instead of
// hand-written derivative code.
package term

import "gonum.org/v1/gonum/mat"

// Term is the shape-only capability surface: enough to size storage for a
// term's results without knowing anything about its computation. Embedding a
// Shape satisfies it.
type Term interface {
	NumVariables() int
	VariableDimension(i int) int
}

// Evaluator is a computable term. It extends the shape surface with the two
// evaluation paths an optimizer drives: a cheap value-only path for line
// search trial points, and a full derivative path for building the model at
// the current iterate.
type Evaluator interface {
	Term

	// Evaluate returns the term value at the given variable blocks. Block
	// count and per-block lengths must match the term shape exactly; a
	// mismatch panics.
	Evaluate(vars [][]float64) float64

	// EvaluateWithDerivatives returns the term value and fills gradient and
	// hessian in place. The containers must be shaped for this term (see
	// NewGradient and NewHessian); a mismatch panics. The returned value is
	// identical to what Evaluate returns for the same vars.
	EvaluateWithDerivatives(vars [][]float64, gradient []*mat.VecDense, hessian [][]*mat.Dense) float64
}

// GradientEvaluator is an optional capability: a term that can produce its
// gradient without second-derivative bookkeeping. Aggregates upgrade to it
// when present and fall back to EvaluateWithDerivatives otherwise.
type GradientEvaluator interface {
	Evaluator

	// EvaluateWithGradient returns the term value and fills gradient in
	// place, skipping the Hessian.
	EvaluateWithGradient(vars [][]float64, gradient []*mat.VecDense) float64
}

// NewGradient allocates a gradient container shaped for t: one vector per
// variable block, sized to that block's dimension.
func NewGradient(t Term) []*mat.VecDense {
	g := make([]*mat.VecDense, t.NumVariables())
	for i := range g {
		g[i] = mat.NewVecDense(t.VariableDimension(i), nil)
	}
	return g
}

// NewHessian allocates a Hessian container shaped for t: a k-by-k grid where
// entry (i, j) is an N_i-by-N_j matrix.
func NewHessian(t Term) [][]*mat.Dense {
	k := t.NumVariables()
	h := make([][]*mat.Dense, k)
	for i := range h {
		h[i] = make([]*mat.Dense, k)
		for j := range h[i] {
			h[i][j] = mat.NewDense(t.VariableDimension(i), t.VariableDimension(j), nil)
		}
	}
	return h
}
