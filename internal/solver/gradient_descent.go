package solver

import (
	"gonum.org/v1/gonum/floats"
)

// GradientDescent minimizes an objective by steepest descent, with step
// lengths from the backtracking line search.
type GradientDescent struct {
	config Config
}

// NewGradientDescent returns a gradient-descent minimizer. Zero config
// fields fall back to their defaults.
func NewGradientDescent(config Config) *GradientDescent {
	return &GradientDescent{config: config.withDefaults()}
}

// Minimize runs the descent loop from x and writes the final point back
// into x.
func (gd *GradientDescent) Minimize(obj Objective, x []float64) Result {
	checkPoint(obj, x)
	n := len(x)
	grad := make([]float64, n)
	p := make([]float64, n)
	scratch := make([]float64, n)
	logger := gd.config.Logger

	value := obj.EvaluateWithGradient(x, grad)
	for iter := 0; iter < gd.config.MaxIterations; iter++ {
		gnorm := floats.Norm(grad, 2)
		if !finite(value, grad) {
			return Result{Status: NotFinite, Iterations: iter, Value: value, GradientNorm: gnorm}
		}
		if gnorm < gd.config.GradientTolerance {
			return Result{Status: GradientTolerance, Iterations: iter, Value: value, GradientNorm: gnorm}
		}

		for i := range grad {
			p[i] = -grad[i]
		}
		alpha := Backtracking(obj.Evaluate, x, grad, p, scratch, value, 1.0, gd.config.LineSearch, logger)
		if alpha == 0 {
			return Result{Status: StepFailure, Iterations: iter, Value: value, GradientNorm: gnorm}
		}

		floats.AddScaled(x, alpha, p)
		value = obj.EvaluateWithGradient(x, grad)
		logger.Debug("iteration",
			"iter", iter,
			"value", value,
			"gradient_norm", floats.Norm(grad, 2),
			"step", alpha)
	}
	return Result{
		Status:       MaxIterations,
		Iterations:   gd.config.MaxIterations,
		Value:        value,
		GradientNorm: floats.Norm(grad, 2),
	}
}
