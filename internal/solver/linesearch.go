package solver

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
)

// LineSearchConfig controls the backtracking search.
type LineSearchConfig struct {
	// Rho is the step shrink factor. Defaults to 0.5.
	Rho float64

	// SufficientDecrease is the Armijo constant c in
	// f(x + alpha*p) <= f(x) + c*alpha*(g.p). Defaults to 1e-4.
	SufficientDecrease float64

	// MaxBacktracks bounds the number of shrink attempts before the
	// search gives up. Defaults to 100.
	MaxBacktracks int
}

func (c LineSearchConfig) withDefaults() LineSearchConfig {
	if c.Rho == 0 {
		c.Rho = 0.5
	}
	if c.SufficientDecrease == 0 {
		c.SufficientDecrease = 1e-4
	}
	if c.MaxBacktracks == 0 {
		c.MaxBacktracks = 100
	}
	return c
}

// Backtracking returns the largest step alpha = startAlpha * Rho^n along
// the direction p that satisfies the Armijo condition, evaluating f only
// through its cheap value path. fval is f(x) and g is the gradient at x;
// scratch must have the same length as x and is overwritten with trial
// points. A not-a-number trial value fails the condition and shrinks like
// any other rejection. When MaxBacktracks shrinks are exhausted the search
// logs a diagnostic and returns zero, leaving the decision to stop or
// retry with the caller.
func Backtracking(f func(x []float64) float64, x, g, p, scratch []float64, fval, startAlpha float64, config LineSearchConfig, logger *slog.Logger) float64 {
	config = config.withDefaults()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	gp := floats.Dot(g, p)
	alpha := startAlpha
	for attempts := 0; ; {
		floats.AddScaledTo(scratch, x, alpha, p)
		lhs := f(scratch)
		rhs := fval + config.SufficientDecrease*alpha*gp
		if lhs <= rhs {
			return alpha
		}
		alpha *= config.Rho
		attempts++
		if attempts > config.MaxBacktracks {
			logger.Warn("Backtracking failed, returning zero step.",
				"start_alpha", startAlpha,
				"directional_derivative", gp)
			return 0
		}
	}
}
