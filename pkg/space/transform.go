package space

import (
	"fmt"
	"math"
)

// Transform maps a unit draw in [0,1) to a concrete hyperparameter value.
// Transforms are pure: the same input always produces the same output, and
// evaluation history never influences the mapping.
type Transform interface {
	Apply(x float64) float64
	fmt.Stringer
}

// Linear maps x to Lo + (Hi-Lo)*x, covering [Lo, Hi).
type Linear struct {
	Lo float64 `validate:"ltfield=Hi"`
	Hi float64
}

func (t Linear) Apply(x float64) float64 {
	return t.Lo + (t.Hi-t.Lo)*x
}

func (t Linear) String() string {
	return fmt.Sprintf("linear[%g,%g)", t.Lo, t.Hi)
}

// IntRange maps x to the integer Lo + int((Hi-Lo)*x), covering [Lo, Hi).
type IntRange struct {
	Lo int `validate:"ltfield=Hi"`
	Hi int
}

func (t IntRange) Apply(x float64) float64 {
	return float64(t.Lo + int(float64(t.Hi-t.Lo)*x))
}

func (t IntRange) String() string {
	return fmt.Sprintf("int[%d,%d)", t.Lo, t.Hi)
}

// Log10 maps x to 10^(A+B*x), an exponential scale spanning
// [10^A, 10^(A+B)). B must be non-zero or the dimension collapses
// to a constant.
type Log10 struct {
	A float64
	B float64 `validate:"ne=0"`
}

func (t Log10) Apply(x float64) float64 {
	return math.Pow(10, t.A+t.B*x)
}

func (t Log10) String() string {
	return fmt.Sprintf("10^(%g+%g*x)", t.A, t.B)
}

// Pow2Int maps x to the integer int(2^(A+B*x)), used for power-of-two
// scales such as batch sizes.
type Pow2Int struct {
	A float64
	B float64 `validate:"ne=0"`
}

func (t Pow2Int) Apply(x float64) float64 {
	return float64(int(math.Pow(2, t.A+t.B*x)))
}

func (t Pow2Int) String() string {
	return fmt.Sprintf("int(2^(%g+%g*x))", t.A, t.B)
}
