package hyperband

import (
	"context"
	"math"
	"math/rand"
	"sync"
)

// Result is what one evaluation produces: the validation loss (lower is
// better) and the budget actually spent. Cost may undershoot the budget on
// early termination or overshoot it slightly when the trainer only checks
// the clock between steps.
type Result struct {
	Score float64 // validation loss
	Cost  float64 // seconds (or iterations) consumed
}

// Evaluator trains a model under the given configuration for at most budget
// seconds and reports the resulting validation loss. The evaluator enforces
// its own budget; the search never preempts a running evaluation. It must be
// safe for concurrent calls when the search runs rungs in parallel.
type Evaluator interface {
	Evaluate(ctx context.Context, cfg *Configuration, budget float64) (Result, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, cfg *Configuration, budget float64) (Result, error)

func (f EvaluatorFunc) Evaluate(ctx context.Context, cfg *Configuration, budget float64) (Result, error) {
	return f(ctx, cfg, budget)
}

// Synthetic is a deterministic-shape stand-in for real training: the loss is
// the square-rooted distance between one hyperparameter and an optimum that
// drifts toward 0.8 as the budget grows, plus a 0.5/budget floor and
// multiplicative gaussian noise. Cheap to run, it preserves the property
// that more budget reveals better configurations, which is all Hyperband
// cares about.
type Synthetic struct {
	// Param is the hyperparameter the objective reads. It should map to
	// [0,1); the drifting optimum lives there.
	Param string
	// Noise scales the multiplicative noise term. Zero makes the objective
	// deterministic.
	Noise float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSynthetic builds the synthetic objective over the named parameter with
// the given noise level and seed.
func NewSynthetic(param string, noise float64, seed int64) *Synthetic {
	return &Synthetic{
		Param: param,
		Noise: noise,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (s *Synthetic) Evaluate(_ context.Context, cfg *Configuration, budget float64) (Result, error) {
	x := cfg.Value(s.Param)

	// The apparent optimum approaches 0.8 as budget grows; short runs see a
	// shifted, noisier landscape.
	xopt := 0.8 - 0.8/math.Sqrt(budget)

	loss := math.Pow(math.Abs(xopt-x), 0.5)
	loss += 0.5 / budget
	loss *= 1 + math.Abs(s.normFloat64())*s.Noise

	return Result{Score: loss, Cost: budget}, nil
}

func (s *Synthetic) normFloat64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.NormFloat64()
}
