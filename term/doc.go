// Copyright 2025 Descent Optimization Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package term provides differentiable objective terms.
//
// # Overview
//
// This package contains:
//   - Shape: block count and per-block dimensions of a term
//   - Term, Evaluator, GradientEvaluator: the capability surface optimizers
//     consume
//   - AutoDiffTerm: wraps a scalar-generic function body and computes its
//     gradient and Hessian by forward-over-forward differentiation
//   - NewGradient, NewHessian: output buffers sized to a term's shape
//
// # Writing a function body
//
// A body is written once, generically over the scalar type, using only the
// operations of dual.Scalar. The same definition is then instantiated for
// the plain value path and for the differentiating path:
//
//	import (
//	    "github.com/descent-opt/descent/dual"
//	    "github.com/descent-opt/descent/term"
//	)
//
//	func bowl[T dual.Scalar[T]](vars ...[]T) T {
//	    x, y := vars[0][0], vars[1][0]
//	    return x.Mul(x).Add(y.Mul(y))
//	}
//
//	func main() {
//	    t, _ := term.NewAutoDiff(term.Shape{1, 1}, bowl[dual.Real], bowl[term.Order2])
//	    defer t.Close()
//
//	    gradient := term.NewGradient(t)
//	    hessian := term.NewHessian(t)
//	    value := t.EvaluateWithDerivatives([][]float64{{1}, {2}}, gradient, hessian)
//	    _ = value // 5, gradient (2)(4), hessian diag 2 and 2
//	}
//
// One evaluation of the body on seeded order-2 duals produces the value,
// the full gradient, and the full block Hessian. The value path
// (Evaluate) runs the same body on plain floats with no differentiation
// overhead, so the two paths agree exactly.
package term
