package solver

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// HessianObjective is an objective that can also fill the packed Hessian.
type HessianObjective interface {
	Objective

	// EvaluateWithHessian fills grad and hess and returns the value at x.
	EvaluateWithHessian(x, grad []float64, hess *mat.SymDense) float64
}

// maxShifts bounds the diagonal-shift ladder used to force an indefinite
// Hessian positive definite.
const maxShifts = 20

// Newton minimizes an objective by damped Newton steps. The step solves
// hess*p = -grad through a Cholesky factorization; when the Hessian is not
// positive definite a growing multiple of the identity is added until the
// factorization succeeds, and the step length comes from the backtracking
// line search.
type Newton struct {
	config Config
}

// NewNewton returns a Newton minimizer. Zero config fields fall back to
// their defaults.
func NewNewton(config Config) *Newton {
	return &Newton{config: config.withDefaults()}
}

// Minimize runs the Newton loop from x and writes the final point back
// into x.
func (nw *Newton) Minimize(obj HessianObjective, x []float64) Result {
	checkPoint(obj, x)
	n := len(x)
	grad := make([]float64, n)
	p := make([]float64, n)
	scratch := make([]float64, n)
	hess := mat.NewSymDense(n, nil)
	logger := nw.config.Logger

	value := obj.EvaluateWithHessian(x, grad, hess)
	for iter := 0; iter < nw.config.MaxIterations; iter++ {
		gnorm := floats.Norm(grad, 2)
		if !finite(value, grad) {
			return Result{Status: NotFinite, Iterations: iter, Value: value, GradientNorm: gnorm}
		}
		if gnorm < nw.config.GradientTolerance {
			return Result{Status: GradientTolerance, Iterations: iter, Value: value, GradientNorm: gnorm}
		}

		if !newtonDirection(hess, grad, p) || floats.Dot(grad, p) >= 0 {
			// Not a descent direction, take the steepest one instead.
			for i := range grad {
				p[i] = -grad[i]
			}
		}
		alpha := Backtracking(obj.Evaluate, x, grad, p, scratch, value, 1.0, nw.config.LineSearch, logger)
		if alpha == 0 {
			return Result{Status: StepFailure, Iterations: iter, Value: value, GradientNorm: gnorm}
		}

		floats.AddScaled(x, alpha, p)
		value = obj.EvaluateWithHessian(x, grad, hess)
		logger.Debug("iteration",
			"iter", iter,
			"value", value,
			"gradient_norm", floats.Norm(grad, 2),
			"step", alpha)
	}
	return Result{
		Status:       MaxIterations,
		Iterations:   nw.config.MaxIterations,
		Value:        value,
		GradientNorm: floats.Norm(grad, 2),
	}
}

// newtonDirection solves hess*dir = -grad, writing the solution into dir.
// When the plain factorization fails it retries with hess + tau*I for a
// growing shift tau. Reports whether any factorization succeeded.
func newtonDirection(hess *mat.SymDense, grad, dir []float64) bool {
	n := len(grad)
	rhs := mat.NewVecDense(n, nil)
	for i, g := range grad {
		rhs.SetVec(i, -g)
	}
	sol := mat.NewVecDense(n, dir)

	var chol mat.Cholesky
	if chol.Factorize(hess) && chol.SolveVecTo(sol, rhs) == nil {
		return true
	}

	shifted := mat.NewSymDense(n, nil)
	tau := initialShift(hess)
	for range maxShifts {
		shifted.CopySym(hess)
		for i := range n {
			shifted.SetSym(i, i, shifted.At(i, i)+tau)
		}
		if chol.Factorize(shifted) && chol.SolveVecTo(sol, rhs) == nil {
			return true
		}
		tau *= 10
	}
	return false
}

// initialShift picks the first diagonal shift to try, scaled to the
// Hessian's largest diagonal entry.
func initialShift(hess *mat.SymDense) float64 {
	maxDiag := 0.0
	n := hess.SymmetricDim()
	for i := range n {
		if d := math.Abs(hess.At(i, i)); d > maxDiag {
			maxDiag = d
		}
	}
	if maxDiag == 0 {
		return 1.0
	}
	return 1e-6 * maxDiag
}
