package hyperband

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/XiaoConstantine/hyperband-go/pkg/space"
)

// Sampler draws hyperparameter configurations uniformly at random from a
// search space. A fixed seed reproduces the exact configuration sequence.
type Sampler struct {
	space *space.Space
	rng   *rand.Rand
}

// NewSampler creates a sampler over the given space, seeded for
// reproducibility.
func NewSampler(sp *space.Space, seed int64) *Sampler {
	return &Sampler{
		space: sp,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Sample draws one configuration: independent uniforms in [0,1) per
// dimension, mapped through the space's transforms.
func (s *Sampler) Sample() *Configuration {
	unit := make([]float64, s.space.Dims())
	for i := range unit {
		unit[i] = s.rng.Float64()
	}

	return &Configuration{
		id:     uuid.New().String(),
		unit:   unit,
		values: s.space.Apply(unit),
	}
}

// SampleN draws n configurations in sequence.
func (s *Sampler) SampleN(n int) []*Configuration {
	configs := make([]*Configuration, n)
	for i := range configs {
		configs[i] = s.Sample()
	}
	return configs
}
