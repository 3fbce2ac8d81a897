// Copyright 2025 Descent Optimization Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package solver

import (
	"log/slog"

	"github.com/descent-opt/descent/internal/solver"
)

// Objectives

// Objective is a scalar function of a packed point vector.
type Objective = solver.Objective

// HessianObjective is an objective that can also fill the packed Hessian.
type HessianObjective = solver.HessianObjective

// Run control

// Config controls a minimizer run.
type Config = solver.Config

// LineSearchConfig controls the backtracking search.
type LineSearchConfig = solver.LineSearchConfig

// Result describes the state a minimizer stopped in.
type Result = solver.Result

// Status reports why minimization stopped.
type Status = solver.Status

// Stopping statuses.
const (
	GradientTolerance Status = solver.GradientTolerance
	MaxIterations     Status = solver.MaxIterations
	StepFailure       Status = solver.StepFailure
	NotFinite         Status = solver.NotFinite
)

// Minimizers

// GradientDescent minimizes an objective by steepest descent.
type GradientDescent = solver.GradientDescent

// NewGradientDescent creates a gradient-descent minimizer. Zero config
// fields fall back to their defaults.
func NewGradientDescent(config Config) *GradientDescent {
	return solver.NewGradientDescent(config)
}

// Newton minimizes an objective by damped Newton steps.
type Newton = solver.Newton

// NewNewton creates a Newton minimizer. Zero config fields fall back to
// their defaults.
func NewNewton(config Config) *Newton {
	return solver.NewNewton(config)
}

// Backtracking returns the largest step along p satisfying the Armijo
// condition, or zero after the shrink budget runs out.
func Backtracking(f func(x []float64) float64, x, g, p, scratch []float64, fval, startAlpha float64, config LineSearchConfig, logger *slog.Logger) float64 {
	return solver.Backtracking(f, x, g, p, scratch, fval, startAlpha, config, logger)
}
