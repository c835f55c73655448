package space

import (
	"github.com/go-playground/validator/v10"

	"github.com/XiaoConstantine/hyperband-go/pkg/errors"
)

// Dimension is one hyperparameter axis: a name plus the transform that maps
// a uniform unit draw onto the parameter's concrete range.
type Dimension struct {
	Name      string
	Transform Transform
}

// Space is an ordered, fixed-dimensional hyperparameter search space.
// A Space is immutable after construction.
type Space struct {
	dims []Dimension
}

// New builds a Space from the given dimensions, validating every transform's
// range configuration up front. Malformed ranges are fatal here, before any
// sampling or evaluation runs.
func New(dims ...Dimension) (*Space, error) {
	if len(dims) == 0 {
		return nil, errors.New(errors.InvalidSpace, "search space needs at least one dimension")
	}

	validate := validator.New()
	seen := make(map[string]bool, len(dims))

	for _, d := range dims {
		if d.Name == "" {
			return nil, errors.New(errors.InvalidSpace, "dimension name cannot be empty")
		}
		if seen[d.Name] {
			return nil, errors.WithFields(
				errors.New(errors.InvalidSpace, "duplicate dimension name"),
				errors.Fields{"dimension": d.Name})
		}
		seen[d.Name] = true

		if d.Transform == nil {
			return nil, errors.WithFields(
				errors.New(errors.InvalidSpace, "dimension has no transform"),
				errors.Fields{"dimension": d.Name})
		}
		if err := validate.Struct(d.Transform); err != nil {
			return nil, errors.WithFields(
				errors.Wrap(err, errors.InvalidSpace, "malformed transform range"),
				errors.Fields{"dimension": d.Name, "transform": d.Transform.String()})
		}
	}

	out := &Space{dims: make([]Dimension, len(dims))}
	copy(out.dims, dims)
	return out, nil
}

// Dims returns the number of dimensions.
func (s *Space) Dims() int {
	return len(s.dims)
}

// Names returns the dimension names in sample order.
func (s *Space) Names() []string {
	names := make([]string, len(s.dims))
	for i, d := range s.dims {
		names[i] = d.Name
	}
	return names
}

// Apply maps a unit vector onto concrete parameter values, in dimension
// order. The unit vector length must equal Dims.
func (s *Space) Apply(unit []float64) map[string]float64 {
	values := make(map[string]float64, len(s.dims))
	for i, d := range s.dims {
		values[d.Name] = d.Transform.Apply(unit[i])
	}
	return values
}

// MNISTCNN returns the four-dimensional space used to tune the reference
// convolutional MNIST classifier:
//
//   - nfilters: convolutional filters per layer, in [10, 100)
//   - batch_size: power-of-two training batch size, in [16, 256)
//   - momentum: SGD momentum factor, in [0, 1)
//   - learning_rate: exponential scale over [0.01, ~0.31)
func MNISTCNN() *Space {
	sp, err := New(
		Dimension{Name: "nfilters", Transform: IntRange{Lo: 10, Hi: 100}},
		Dimension{Name: "batch_size", Transform: Pow2Int{A: 4, B: 4}},
		Dimension{Name: "momentum", Transform: Linear{Lo: 0, Hi: 1}},
		Dimension{Name: "learning_rate", Transform: Log10{A: -2, B: 1.5}},
	)
	if err != nil {
		// The built-in space is statically well formed.
		panic(err)
	}
	return sp
}
