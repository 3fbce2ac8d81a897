// Package problem assembles many autodiff terms over shared variable blocks
// into one objective function of a packed point vector.
//
// A Problem owns the packed layout: variables registered with AddVariable
// receive consecutive offset ranges, and terms added with AddTerm evaluate
// over views into that range. The objective value is the sum of all term
// values, the gradient and Hessian are the blockwise sums of the term
// derivatives. Evaluation fans out across terms when the problem is large
// enough; results are reduced in term order, so the outcome is identical
// for any worker count.
package problem

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/descent-opt/descent/internal/parallel"
	"github.com/descent-opt/descent/internal/term"
)

// ErrForeignVariable reports a term bound to a variable that was not
// registered with this problem.
var ErrForeignVariable = errors.New("problem: variable belongs to a different problem")

// ParallelConfig controls fan-out across terms during evaluation.
type ParallelConfig struct {
	// Workers caps concurrent term evaluations. Defaults to GOMAXPROCS.
	Workers int

	// MinTerms is the term count below which evaluation stays serial.
	// Defaults to 16.
	MinTerms int
}

// binding pairs one term with the variables it evaluates over.
type binding struct {
	evaluator term.Evaluator
	gradient  term.GradientEvaluator // nil when the term has no dedicated gradient path
	vars      []*Variable
}

// blocks returns views into x for each of the binding's variables.
func (b *binding) blocks(x []float64) [][]float64 {
	views := make([][]float64, len(b.vars))
	for i, v := range b.vars {
		views[i] = x[v.offset : v.offset+v.dim]
	}
	return views
}

// Problem is a sum of terms over registered variable blocks.
type Problem struct {
	variables []*Variable
	bindings  []binding
	dim       int
	parallel  ParallelConfig
}

// New returns an empty problem.
func New() *Problem {
	d := parallel.DefaultConfig()
	return &Problem{
		parallel: ParallelConfig{
			Workers:  d.Workers,
			MinTerms: d.MinWork,
		},
	}
}

// SetParallel reconfigures evaluation fan-out. Zero fields fall back to
// their defaults.
func (p *Problem) SetParallel(config ParallelConfig) {
	d := parallel.DefaultConfig()
	if config.Workers == 0 {
		config.Workers = d.Workers
	}
	if config.MinTerms == 0 {
		config.MinTerms = d.MinWork
	}
	p.parallel = config
}

// AddVariable registers a block of dim scalar components and returns its
// handle. The block starts at zero unless WithValues overrides it.
func (p *Problem) AddVariable(dim int, opts ...VariableOption) (*Variable, error) {
	if dim < 1 {
		return nil, fmt.Errorf("problem: variable dimension %d (must be >= 1)", dim)
	}
	v := &Variable{
		name:   fmt.Sprintf("x%d", len(p.variables)),
		dim:    dim,
		offset: p.dim,
		values: make([]float64, dim),
		owner:  p,
	}
	for _, opt := range opts {
		opt(v)
	}
	if len(v.values) != dim {
		return nil, fmt.Errorf("problem: variable %s: %d starting values for dimension %d",
			v.name, len(v.values), dim)
	}
	p.variables = append(p.variables, v)
	p.dim += dim
	return v, nil
}

// AddTerm binds a term to the variables it evaluates over. The binding must
// match the term's shape exactly, and a variable may appear at most once
// per term.
func (p *Problem) AddTerm(t term.Evaluator, vars ...*Variable) error {
	if got, want := len(vars), t.NumVariables(); got != want {
		return fmt.Errorf("problem: term binds %d variables, got %d", want, got)
	}
	for i, v := range vars {
		if v == nil || v.owner != p {
			return fmt.Errorf("%w: argument %d", ErrForeignVariable, i)
		}
		if v.dim != t.VariableDimension(i) {
			return fmt.Errorf("problem: argument %d: variable %s has dimension %d, term wants %d",
				i, v.name, v.dim, t.VariableDimension(i))
		}
		for j := range i {
			if vars[j] == v {
				return fmt.Errorf("problem: variable %s bound to arguments %d and %d of one term",
					v.name, j, i)
			}
		}
	}
	b := binding{evaluator: t, vars: append([]*Variable(nil), vars...)}
	if ge, ok := t.(term.GradientEvaluator); ok {
		b.gradient = ge
	}
	p.bindings = append(p.bindings, b)
	return nil
}

// Dim returns the total packed dimension across all variables.
func (p *Problem) Dim() int { return p.dim }

// NumVariables returns the number of registered variable blocks.
func (p *Problem) NumVariables() int { return len(p.variables) }

// NumTerms returns the number of bound terms.
func (p *Problem) NumTerms() int { return len(p.bindings) }

// Pack gathers every variable's current values into one flat vector laid
// out in registration order.
func (p *Problem) Pack() []float64 {
	x := make([]float64, p.dim)
	for _, v := range p.variables {
		copy(x[v.offset:v.offset+v.dim], v.values)
	}
	return x
}

// Unpack scatters a packed point back into the variables' backing storage.
func (p *Problem) Unpack(x []float64) {
	p.checkPoint(x)
	for _, v := range p.variables {
		copy(v.values, x[v.offset:v.offset+v.dim])
	}
}

// Evaluate returns the sum of all term values at the packed point x.
func (p *Problem) Evaluate(x []float64) float64 {
	p.checkPoint(x)
	values := make([]float64, len(p.bindings))
	p.forEachTerm(func(i int, b *binding) {
		values[i] = b.evaluator.Evaluate(b.blocks(x))
	})
	value := 0.0
	for _, v := range values {
		value += v
	}
	return value
}

// EvaluateWithGradient fills grad with the objective gradient at x and
// returns the objective value. grad must have the packed dimension.
func (p *Problem) EvaluateWithGradient(x, grad []float64) float64 {
	p.checkPoint(x)
	p.checkGradient(grad)

	values := make([]float64, len(p.bindings))
	grads := make([][]*mat.VecDense, len(p.bindings))
	p.forEachTerm(func(i int, b *binding) {
		g := term.NewGradient(b.evaluator)
		if b.gradient != nil {
			values[i] = b.gradient.EvaluateWithGradient(b.blocks(x), g)
		} else {
			values[i] = b.evaluator.EvaluateWithDerivatives(b.blocks(x), g, term.NewHessian(b.evaluator))
		}
		grads[i] = g
	})

	clear(grad)
	value := 0.0
	for i := range p.bindings {
		value += values[i]
		b := &p.bindings[i]
		for j, v := range b.vars {
			gj := grads[i][j]
			for c := range v.dim {
				grad[v.offset+c] += gj.AtVec(c)
			}
		}
	}
	return value
}

// EvaluateWithHessian fills grad and hess at x and returns the objective
// value. hess must be Dim by Dim; term Hessian blocks accumulate into it at
// the bound variables' offsets.
func (p *Problem) EvaluateWithHessian(x, grad []float64, hess *mat.SymDense) float64 {
	p.checkPoint(x)
	p.checkGradient(grad)
	if n := hess.SymmetricDim(); n != p.dim {
		panic(fmt.Sprintf("problem: hessian is %dx%d, want %dx%d", n, n, p.dim, p.dim))
	}

	values := make([]float64, len(p.bindings))
	grads := make([][]*mat.VecDense, len(p.bindings))
	hesses := make([][][]*mat.Dense, len(p.bindings))
	p.forEachTerm(func(i int, b *binding) {
		g := term.NewGradient(b.evaluator)
		h := term.NewHessian(b.evaluator)
		values[i] = b.evaluator.EvaluateWithDerivatives(b.blocks(x), g, h)
		grads[i], hesses[i] = g, h
	})

	clear(grad)
	hess.Zero()
	value := 0.0
	for i := range p.bindings {
		value += values[i]
		b := &p.bindings[i]
		for j, vj := range b.vars {
			gj := grads[i][j]
			for c := range vj.dim {
				grad[vj.offset+c] += gj.AtVec(c)
			}
			for l, vl := range b.vars {
				addHessianBlock(hess, vj, vl, hesses[i][j][l])
			}
		}
	}
	return value
}

// addHessianBlock accumulates one term Hessian block into the packed
// matrix. Only entries on or above the diagonal are written; the mirrored
// block carries the same values for the lower triangle.
func addHessianBlock(hess *mat.SymDense, rowVar, colVar *Variable, block *mat.Dense) {
	for a := range rowVar.dim {
		r := rowVar.offset + a
		for b := range colVar.dim {
			c := colVar.offset + b
			if r > c {
				continue
			}
			hess.SetSym(r, c, hess.At(r, c)+block.At(a, b))
		}
	}
}

// forEachTerm runs fn once per binding, fanning out across workers when the
// problem has enough terms. Callers reduce their per-term results in index
// order afterwards, so values never depend on scheduling.
func (p *Problem) forEachTerm(fn func(i int, b *binding)) {
	config := parallel.Config{
		Workers: p.parallel.Workers,
		MinWork: p.parallel.MinTerms,
	}
	parallel.For(len(p.bindings), config, func(i int) {
		fn(i, &p.bindings[i])
	})
}

func (p *Problem) checkPoint(x []float64) {
	if len(x) != p.dim {
		panic(fmt.Sprintf("problem: point has dimension %d, want %d", len(x), p.dim))
	}
}

func (p *Problem) checkGradient(grad []float64) {
	if len(grad) != p.dim {
		panic(fmt.Sprintf("problem: gradient has dimension %d, want %d", len(grad), p.dim))
	}
}
