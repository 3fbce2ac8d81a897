// Package solver minimizes objectives assembled from autodiff terms.
//
// Two minimizers are provided. GradientDescent needs only values and
// gradients; Newton additionally consumes the packed Hessian and solves for
// its step with a Cholesky factorization, shifting the diagonal when the
// Hessian is not positive definite. Both take their steps through the same
// backtracking line search.
package solver

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Objective is a scalar function of a packed point vector.
type Objective interface {
	// Dim returns the packed dimension.
	Dim() int

	// Evaluate returns the value at x.
	Evaluate(x []float64) float64

	// EvaluateWithGradient fills grad and returns the value at x.
	EvaluateWithGradient(x, grad []float64) float64
}

// Status reports why minimization stopped.
type Status int

const (
	// GradientTolerance means the gradient norm fell below the threshold.
	GradientTolerance Status = iota

	// MaxIterations means the iteration budget ran out first.
	MaxIterations

	// StepFailure means the line search could not find a decreasing step.
	StepFailure

	// NotFinite means the objective value or gradient stopped being finite.
	NotFinite
)

func (s Status) String() string {
	switch s {
	case GradientTolerance:
		return "gradient tolerance reached"
	case MaxIterations:
		return "maximum iterations reached"
	case StepFailure:
		return "line search failed"
	case NotFinite:
		return "objective not finite"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result describes the state a minimizer stopped in. The final point itself
// is written into the caller's vector.
type Result struct {
	Status       Status
	Iterations   int
	Value        float64
	GradientNorm float64
}

// Config controls a minimizer run.
type Config struct {
	// MaxIterations caps outer iterations. Defaults to 100.
	MaxIterations int

	// GradientTolerance stops the run once the euclidean gradient norm
	// drops below it. Defaults to 1e-9.
	GradientTolerance float64

	// LineSearch configures the backtracking search used for every step.
	LineSearch LineSearchConfig

	// Logger receives per-iteration progress at debug level. Defaults to
	// a discarding logger.
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.MaxIterations == 0 {
		c.MaxIterations = 100
	}
	if c.GradientTolerance == 0 {
		c.GradientTolerance = 1e-9
	}
	c.LineSearch = c.LineSearch.withDefaults()
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

func checkPoint(obj Objective, x []float64) {
	if len(x) != obj.Dim() {
		panic(fmt.Sprintf("solver: point has dimension %d, want %d", len(x), obj.Dim()))
	}
}

// finite reports whether the current value and gradient are usable.
func finite(value float64, grad []float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	return !floats.HasNaN(grad)
}
