// Copyright 2025 Descent Optimization Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package term

import (
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/descent-opt/descent/internal/dual"
	"github.com/descent-opt/descent/internal/term"
)

// Shape

// Shape describes a term's variable blocks: one entry per block, each the
// block's dimension.
type Shape = term.Shape

// Interfaces

// Term is the shape-only capability: block count and dimensions.
type Term = term.Term

// Evaluator is a term that can compute its value and full derivatives.
type Evaluator = term.Evaluator

// GradientEvaluator is an Evaluator with a dedicated first-order path.
type GradientEvaluator = term.GradientEvaluator

// Autodiff terms

// Order1 is the dual scalar used for gradient-only evaluation.
type Order1 = term.Order1

// Order2 is the nested dual scalar used for Hessian evaluation.
type Order2 = term.Order2

// Body is a scalar-generic function body over per-block slices.
type Body[T dual.Scalar[T]] = term.Body[T]

// AutoDiffTerm derives gradients and Hessians from a function body by
// forward-mode dual arithmetic.
type AutoDiffTerm = term.AutoDiffTerm

// AutoDiffOption configures an AutoDiffTerm at construction.
type AutoDiffOption = term.AutoDiffOption

// ErrNilBody is returned when a required function body is missing.
var ErrNilBody = term.ErrNilBody

// NewAutoDiff creates a term from one function body instantiated at the
// plain scalar (value path) and at Order2 (derivative path). Both
// instantiations must come from the same generic definition.
func NewAutoDiff(shape Shape, value Body[dual.Real], deriv Body[Order2], opts ...AutoDiffOption) (*AutoDiffTerm, error) {
	return term.NewAutoDiff(shape, value, deriv, opts...)
}

// WithOwned transfers ownership of a resource backing the function body.
// Closing the term closes it exactly once.
func WithOwned(c io.Closer) AutoDiffOption {
	return term.WithOwned(c)
}

// WithGradient supplies the body instantiated at Order1, giving
// EvaluateWithGradient a cheaper path than full second-order evaluation.
func WithGradient(body Body[Order1]) AutoDiffOption {
	return term.WithGradient(body)
}

// Output buffers

// NewGradient allocates a gradient sized to the term's shape, one vector
// per block.
func NewGradient(t Term) []*mat.VecDense {
	return term.NewGradient(t)
}

// NewHessian allocates a block Hessian sized to the term's shape, block
// (i, j) of dimension N_i by N_j.
func NewHessian(t Term) [][]*mat.Dense {
	return term.NewHessian(t)
}
