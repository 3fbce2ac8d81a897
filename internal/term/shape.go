package term

import "fmt"

// Shape describes the block structure of a term: one entry per variable
// block, holding that block's dimension. Shape is purely descriptive and
// never computes anything; it exists so optimizers can size gradient and
// Hessian storage before evaluating.
type Shape []int

// NumVariables returns the number of variable blocks.
func (s Shape) NumVariables() int { return len(s) }

// VariableDimension returns the dimension of block i.
func (s Shape) VariableDimension(i int) int {
	if i < 0 || i >= len(s) {
		panic(fmt.Sprintf("variable index %d out of range [0,%d)", i, len(s)))
	}
	return s[i]
}

// TotalDimension returns the packed dimension: the sum of all block
// dimensions, which is also the number of tangent directions a derivative
// pass seeds.
func (s Shape) TotalDimension() int {
	n := 0
	for _, dim := range s {
		n += dim
	}
	return n
}

// Validate checks that every block dimension is positive.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}
