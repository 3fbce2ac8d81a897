package dual_test

import (
	"math"
	"testing"

	"github.com/descent-opt/descent/internal/dual"
)

// floatEqual compares two floats within an absolute tolerance.
func floatEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// TestReal_Arithmetic tests that Real operations match plain float64 arithmetic.
func TestReal_Arithmetic(t *testing.T) {
	a, b := dual.Real(1.5), dual.Real(-2.25)

	if got := a.Add(b).Float(); got != 1.5+(-2.25) {
		t.Errorf("Add = %v, want %v", got, 1.5+(-2.25))
	}
	if got := a.Sub(b).Float(); got != 1.5-(-2.25) {
		t.Errorf("Sub = %v, want %v", got, 1.5-(-2.25))
	}
	if got := a.Mul(b).Float(); got != 1.5*(-2.25) {
		t.Errorf("Mul = %v, want %v", got, 1.5*(-2.25))
	}
	if got := a.Div(b).Float(); got != 1.5/(-2.25) {
		t.Errorf("Div = %v, want %v", got, 1.5/(-2.25))
	}
	if got := a.Neg().Float(); got != -1.5 {
		t.Errorf("Neg = %v, want %v", got, -1.5)
	}
	if got := a.Scale(4).Float(); got != 6.0 {
		t.Errorf("Scale = %v, want %v", got, 6.0)
	}
	if got := a.Shift(4).Float(); got != 5.5 {
		t.Errorf("Shift = %v, want %v", got, 5.5)
	}
	if got := a.Lift(7.25).Float(); got != 7.25 {
		t.Errorf("Lift = %v, want %v", got, 7.25)
	}
}

// TestReal_Elementary tests that elementary functions delegate to math.
func TestReal_Elementary(t *testing.T) {
	x := dual.Real(0.7)

	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"Sqrt", x.Sqrt().Float(), math.Sqrt(0.7)},
		{"Exp", x.Exp().Float(), math.Exp(0.7)},
		{"Log", x.Log().Float(), math.Log(0.7)},
		{"Pow", x.Pow(2.5).Float(), math.Pow(0.7, 2.5)},
		{"Sin", x.Sin().Float(), math.Sin(0.7)},
		{"Cos", x.Cos().Float(), math.Cos(0.7)},
		{"Tan", x.Tan().Float(), math.Tan(0.7)},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

// TestReals_ZeroCopyView tests that Reals and Floats alias the input slice.
func TestReals_ZeroCopyView(t *testing.T) {
	xs := []float64{1, 2, 3}
	rs := dual.Reals(xs)

	if len(rs) != 3 {
		t.Fatalf("len(Reals) = %d, want 3", len(rs))
	}

	xs[1] = 42
	if rs[1].Float() != 42 {
		t.Errorf("view not aliased: rs[1] = %v, want 42", rs[1].Float())
	}

	fs := dual.Floats(rs)
	fs[2] = -7
	if xs[2] != -7 {
		t.Errorf("view not aliased: xs[2] = %v, want -7", xs[2])
	}

	if dual.Reals(nil) != nil {
		t.Error("Reals(nil) should be nil")
	}
	if dual.Floats(nil) != nil {
		t.Error("Floats(nil) should be nil")
	}
}

// TestReal_NaNPropagation tests that domain faults are not intercepted.
func TestReal_NaNPropagation(t *testing.T) {
	if got := dual.Real(-1).Sqrt().Float(); !math.IsNaN(got) {
		t.Errorf("Sqrt(-1) = %v, want NaN", got)
	}
	if got := dual.Real(-1).Log().Float(); !math.IsNaN(got) {
		t.Errorf("Log(-1) = %v, want NaN", got)
	}
}
