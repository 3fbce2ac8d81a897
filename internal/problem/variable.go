package problem

// Variable is one block of scalar components registered with a Problem.
// Its backing storage holds the current point for the block; Pack gathers
// that storage into a flat vector and Unpack scatters results back.
type Variable struct {
	name   string
	dim    int
	offset int
	values []float64
	owner  *Problem
}

// VariableOption configures a variable as it is added to a problem.
type VariableOption func(*Variable)

// WithName labels the variable for logs and debug output.
func WithName(name string) VariableOption {
	return func(v *Variable) { v.name = name }
}

// WithValues sets the variable's starting point. The number of values must
// match the variable's dimension.
func WithValues(values ...float64) VariableOption {
	return func(v *Variable) { v.values = append([]float64(nil), values...) }
}

// Name returns the variable's label.
func (v *Variable) Name() string { return v.name }

// Dim returns the number of scalar components in the block.
func (v *Variable) Dim() int { return v.dim }

// Offset returns the block's first index in the packed layout.
func (v *Variable) Offset() int { return v.offset }

// Values returns the block's backing storage. The slice is live: writes
// change the point the problem packs from, and Unpack writes through it.
func (v *Variable) Values() []float64 { return v.values }
