package dual

import "fmt"

// Number is a dual number: a base component plus one tangent component per
// seeded direction. Every operation applies the scalar chain rule to the base
// and to all tangents in a single pass, so evaluating a function once on
// seeded Numbers yields its derivatives along every direction at once.
//
// The parameter T is any Scalar, including Number itself: Number[Real]
// carries first derivatives and Number[Number[Real]] carries first and second
// derivatives. The base component is computed through exactly the same T
// operations a plain evaluation would use, so base values agree bit for bit
// with an undifferentiated run of the same code.
//
// The field names follow the usual dual-number convention: Emag holds the
// magnitudes of the infinitesimal components.
type Number[T Scalar[T]] struct {
	Real T
	Emag []T
}

// NewNumber returns a Number with base re and n zero tangent components.
// Seed a direction by assigning its Emag entry afterwards.
func NewNumber[T Scalar[T]](re T, n int) Number[T] {
	em := make([]T, n)
	for i := range em {
		em[i] = re.Lift(0)
	}
	return Number[T]{Real: re, Emag: em}
}

// Directions returns the number of tangent components.
func (u Number[T]) Directions() int { return len(u.Emag) }

// matched allocates the tangent slice for a binary result. Operands must
// carry the same direction count; a mismatch means the values were seeded
// for different computations and cannot be combined.
func (u Number[T]) matched(v Number[T]) []T {
	if len(u.Emag) != len(v.Emag) {
		panic(fmt.Sprintf("direction count mismatch: %d vs %d", len(u.Emag), len(v.Emag)))
	}
	return make([]T, len(u.Emag))
}

// Add returns u + v.
func (u Number[T]) Add(v Number[T]) Number[T] {
	em := u.matched(v)
	for i := range em {
		em[i] = u.Emag[i].Add(v.Emag[i])
	}
	return Number[T]{Real: u.Real.Add(v.Real), Emag: em}
}

// Sub returns u - v.
func (u Number[T]) Sub(v Number[T]) Number[T] {
	em := u.matched(v)
	for i := range em {
		em[i] = u.Emag[i].Sub(v.Emag[i])
	}
	return Number[T]{Real: u.Real.Sub(v.Real), Emag: em}
}

// Mul returns u * v by the product rule: (uv)' = u'v + uv'.
func (u Number[T]) Mul(v Number[T]) Number[T] {
	em := u.matched(v)
	for i := range em {
		em[i] = u.Real.Mul(v.Emag[i]).Add(v.Real.Mul(u.Emag[i]))
	}
	return Number[T]{Real: u.Real.Mul(v.Real), Emag: em}
}

// Div returns u / v by the quotient rule: (u/v)' = (u'v - uv') / v^2.
func (u Number[T]) Div(v Number[T]) Number[T] {
	em := u.matched(v)
	vv := v.Real.Mul(v.Real)
	for i := range em {
		em[i] = u.Emag[i].Mul(v.Real).Sub(u.Real.Mul(v.Emag[i])).Div(vv)
	}
	return Number[T]{Real: u.Real.Div(v.Real), Emag: em}
}

// Neg returns -u.
func (u Number[T]) Neg() Number[T] {
	em := make([]T, len(u.Emag))
	for i := range em {
		em[i] = u.Emag[i].Neg()
	}
	return Number[T]{Real: u.Real.Neg(), Emag: em}
}

// Scale returns c * u for a float64 constant c.
func (u Number[T]) Scale(c float64) Number[T] {
	em := make([]T, len(u.Emag))
	for i := range em {
		em[i] = u.Emag[i].Scale(c)
	}
	return Number[T]{Real: u.Real.Scale(c), Emag: em}
}

// Shift returns u + c for a float64 constant c. Tangents are unchanged.
func (u Number[T]) Shift(c float64) Number[T] {
	em := make([]T, len(u.Emag))
	copy(em, u.Emag)
	return Number[T]{Real: u.Real.Shift(c), Emag: em}
}

// Lift returns the constant c with u's direction count and zero tangents.
func (u Number[T]) Lift(c float64) Number[T] {
	em := make([]T, len(u.Emag))
	for i := range em {
		em[i] = u.Emag[i].Lift(0)
	}
	return Number[T]{Real: u.Real.Lift(c), Emag: em}
}

// Sqrt returns the square root: (sqrt u)' = u' / (2 sqrt u).
func (u Number[T]) Sqrt() Number[T] {
	s := u.Real.Sqrt()
	d := s.Scale(2)
	em := make([]T, len(u.Emag))
	for i := range em {
		em[i] = u.Emag[i].Div(d)
	}
	return Number[T]{Real: s, Emag: em}
}

// Exp returns e**u: (exp u)' = u' exp u.
func (u Number[T]) Exp() Number[T] {
	e := u.Real.Exp()
	em := make([]T, len(u.Emag))
	for i := range em {
		em[i] = u.Emag[i].Mul(e)
	}
	return Number[T]{Real: e, Emag: em}
}

// Log returns the natural logarithm: (log u)' = u' / u.
func (u Number[T]) Log() Number[T] {
	em := make([]T, len(u.Emag))
	for i := range em {
		em[i] = u.Emag[i].Div(u.Real)
	}
	return Number[T]{Real: u.Real.Log(), Emag: em}
}

// Pow returns u**p for a float64 exponent p: (u**p)' = p u**(p-1) u'.
func (u Number[T]) Pow(p float64) Number[T] {
	d := u.Real.Pow(p - 1).Scale(p)
	em := make([]T, len(u.Emag))
	for i := range em {
		em[i] = u.Emag[i].Mul(d)
	}
	return Number[T]{Real: u.Real.Pow(p), Emag: em}
}

// Sin returns the sine: (sin u)' = u' cos u.
func (u Number[T]) Sin() Number[T] {
	c := u.Real.Cos()
	em := make([]T, len(u.Emag))
	for i := range em {
		em[i] = u.Emag[i].Mul(c)
	}
	return Number[T]{Real: u.Real.Sin(), Emag: em}
}

// Cos returns the cosine: (cos u)' = -u' sin u.
func (u Number[T]) Cos() Number[T] {
	s := u.Real.Sin().Neg()
	em := make([]T, len(u.Emag))
	for i := range em {
		em[i] = u.Emag[i].Mul(s)
	}
	return Number[T]{Real: u.Real.Cos(), Emag: em}
}

// Tan returns the tangent: (tan u)' = u' / cos^2 u.
func (u Number[T]) Tan() Number[T] {
	c := u.Real.Cos()
	cc := c.Mul(c)
	em := make([]T, len(u.Emag))
	for i := range em {
		em[i] = u.Emag[i].Div(cc)
	}
	return Number[T]{Real: u.Real.Tan(), Emag: em}
}

// Float returns the base value, unwrapping every nesting level.
func (u Number[T]) Float() float64 { return u.Real.Float() }

// The engine is the same code at both depths.
var (
	_ Scalar[Number[Real]]         = Number[Real]{}
	_ Scalar[Number[Number[Real]]] = Number[Number[Real]]{}
)
