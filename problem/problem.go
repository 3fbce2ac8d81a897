// Copyright 2025 Descent Optimization Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package problem assembles terms over shared variables into one objective.
//
// Variables are registered first and receive consecutive ranges of a packed
// point vector; terms are then bound to the variables they read. The
// assembled objective sums term values and accumulates term derivatives
// blockwise, and plugs directly into the solver package.
//
// Example:
//
//	import (
//	    "github.com/descent-opt/descent/dual"
//	    "github.com/descent-opt/descent/problem"
//	    "github.com/descent-opt/descent/term"
//	)
//
//	func square[T dual.Scalar[T]](vars ...[]T) T {
//	    v := vars[0][0]
//	    return v.Mul(v)
//	}
//
//	func main() {
//	    p := problem.New()
//	    x, _ := p.AddVariable(1, problem.WithName("x"), problem.WithValues(2))
//	    t, _ := term.NewAutoDiff(term.Shape{1}, square[dual.Real], square[term.Order2])
//	    _ = p.AddTerm(t, x)
//
//	    point := p.Pack()
//	    grad := make([]float64, p.Dim())
//	    _ = p.EvaluateWithGradient(point, grad) // 4, grad (4)
//	}
package problem

import (
	"github.com/descent-opt/descent/internal/problem"
)

// Type aliases for public API

// Problem is a sum of terms over registered variable blocks.
type Problem = problem.Problem

// Variable is one block of scalar components in a problem.
type Variable = problem.Variable

// VariableOption configures a variable as it is added.
type VariableOption = problem.VariableOption

// ParallelConfig controls fan-out across terms during evaluation.
type ParallelConfig = problem.ParallelConfig

// ErrForeignVariable reports a term bound to a variable from another
// problem.
var ErrForeignVariable = problem.ErrForeignVariable

// New creates an empty problem.
func New() *Problem {
	return problem.New()
}

// WithName labels a variable for logs and debug output.
func WithName(name string) VariableOption {
	return problem.WithName(name)
}

// WithValues sets a variable's starting point.
func WithValues(values ...float64) VariableOption {
	return problem.WithValues(values...)
}
