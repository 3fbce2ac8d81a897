// Package main provides the Descent optimization library CLI.
package main

import (
	"fmt"
	"os"

	"github.com/descent-opt/descent/dual"
	"github.com/descent-opt/descent/problem"
	"github.com/descent-opt/descent/solver"
	"github.com/descent-opt/descent/term"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Descent %s\n", version)
			return
		case "demo":
			demo()
			return
		}
	}

	fmt.Println("Descent - Differentiable Optimization for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  demo       Minimize a small test problem")
}

// booth is the Booth function (x + 2y - 7)^2 + (2x + y - 5)^2, with its
// minimum at (1, 3).
func booth[T dual.Scalar[T]](vars ...[]T) T {
	x, y := vars[0][0], vars[0][1]
	a := x.Add(y.Scale(2)).Shift(-7)
	b := x.Scale(2).Add(y).Shift(-5)
	return a.Mul(a).Add(b.Mul(b))
}

func demo() {
	p := problem.New()
	v, err := p.AddVariable(2, problem.WithName("xy"))
	if err != nil {
		fail(err)
	}
	t, err := term.NewAutoDiff(term.Shape{2}, booth[dual.Real], booth[term.Order2])
	if err != nil {
		fail(err)
	}
	if err := p.AddTerm(t, v); err != nil {
		fail(err)
	}

	x := p.Pack()
	result := solver.NewNewton(solver.Config{}).Minimize(p, x)
	p.Unpack(x)

	fmt.Println("Minimizing the Booth function from (0, 0)")
	fmt.Printf("  status:     %s\n", result.Status)
	fmt.Printf("  iterations: %d\n", result.Iterations)
	fmt.Printf("  minimum:    f(%.4f, %.4f) = %.6f\n", x[0], x[1], result.Value)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
