// Copyright 2025 Descent Optimization Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package solver provides minimizers for assembled problems.
//
// # Overview
//
// This package contains:
//   - GradientDescent: steepest descent with backtracking line search
//   - Newton: damped Newton steps from a Cholesky solve, with diagonal
//     shifts when the Hessian is not positive definite
//   - Backtracking: the Armijo line search both minimizers step through
//   - Config, Result, Status: run control and outcome reporting
//
// # Basic Usage
//
//	import (
//	    "github.com/descent-opt/descent/problem"
//	    "github.com/descent-opt/descent/solver"
//	)
//
//	func main() {
//	    p := problem.New()
//	    // ... add variables and terms ...
//
//	    x := p.Pack()
//	    nw := solver.NewNewton(solver.Config{GradientTolerance: 1e-9})
//	    result := nw.Minimize(p, x)
//	    if result.Status == solver.GradientTolerance {
//	        p.Unpack(x) // write the optimum back into the variables
//	    }
//	}
//
// Minimizers mutate the packed point in place and report how they stopped
// in the Result. A failed line search or a non-finite objective ends the
// run with a descriptive status instead of an error.
package solver
