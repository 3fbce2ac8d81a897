// Copyright 2025 Descent Optimization Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dual provides the forward-mode dual-number arithmetic that
// autodiff terms are built on.
//
// A Number[T] carries a value and one tangent component per seeded
// direction, and every operation applies the chain rule to the value and
// all tangents in one pass. Because Number is generic over its component
// scalar, nesting it once (Number[Number[Real]]) yields second derivatives
// from the same arithmetic code.
//
// Example:
//
//	// d/dx (x*x) at x = 3, seeded along one direction
//	x := dual.NewNumber(dual.Real(3), 1)
//	x.Emag[0] = dual.Real(1)
//	y := x.Mul(x)
//	_ = y.Float()         // 9
//	_ = y.Emag[0].Float() // 6
package dual

import (
	"github.com/descent-opt/descent/internal/dual"
)

// Type aliases for public API

// Scalar is the numeric capability surface shared by plain floats and dual
// numbers. Function bodies are written against it once and evaluated at
// both.
type Scalar[T any] = dual.Scalar[T]

// Real is a plain float64 implementing Scalar with no tangent storage.
type Real = dual.Real

// Number is a dual number over the component scalar T.
type Number[T Scalar[T]] = dual.Number[T]

// NewNumber creates a dual number with the given value and n zero tangents.
func NewNumber[T Scalar[T]](re T, n int) Number[T] {
	return dual.NewNumber(re, n)
}

// Reals reinterprets a float64 slice as a Real slice without copying.
func Reals(xs []float64) []Real { return dual.Reals(xs) }

// Floats reinterprets a Real slice as a float64 slice without copying.
func Floats(xs []Real) []float64 { return dual.Floats(xs) }
