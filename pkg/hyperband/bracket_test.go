package hyperband

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/hyperband-go/pkg/logging"
)

func quietLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{
		Severity: logging.ERROR,
		Outputs:  []logging.Output{logging.NewConsoleOutput(false, logging.WithColor(false), logging.WithWriter(io.Discard))},
	})
}

func newTestEngine(t *testing.T, evaluator Evaluator, opts ...Option) *Hyperband {
	t.Helper()
	opts = append([]Option{WithSeed(42), WithLogger(quietLogger())}, opts...)
	h, err := New(testSpace(t), evaluator, opts...)
	require.NoError(t, err)
	return h
}

// momentumEvaluator scores a configuration by its own momentum value, making
// rankings fully predictable.
func momentumEvaluator() Evaluator {
	return EvaluatorFunc(func(_ context.Context, cfg *Configuration, budget float64) (Result, error) {
		return Result{Score: cfg.Value("momentum"), Cost: budget}, nil
	})
}

func TestNewValidation(t *testing.T) {
	eval := momentumEvaluator()

	t.Run("Nil Space", func(t *testing.T) {
		_, err := New(nil, eval)
		assert.Error(t, err)
	})

	t.Run("Nil Evaluator", func(t *testing.T) {
		_, err := New(testSpace(t), nil)
		assert.Error(t, err)
	})

	t.Run("Eta At Most One", func(t *testing.T) {
		_, err := New(testSpace(t), eval, WithEta(1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "eta must be greater than 1")
	})

	t.Run("Budget Below One", func(t *testing.T) {
		_, err := New(testSpace(t), eval, WithMaxBudget(0.5))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max budget must be at least 1")
	})

	t.Run("Zero Parallelism", func(t *testing.T) {
		_, err := New(testSpace(t), eval, WithParallelism(0))
		assert.Error(t, err)
	})

	t.Run("Defaults", func(t *testing.T) {
		h, err := New(testSpace(t), eval)
		require.NoError(t, err)
		assert.Equal(t, 60.0, h.config.MaxBudget)
		assert.Equal(t, 3.0, h.config.Eta)
		assert.Equal(t, 1, h.config.Parallelism)
		assert.NotZero(t, h.config.Seed, "seed should default to something non-zero")
		assert.NotEmpty(t, h.RunID())
	})
}

func TestBracketSchedule(t *testing.T) {
	h := newTestEngine(t, momentumEvaluator(), WithEta(3), WithMaxBudget(60))

	assert.Equal(t, 3, h.SMax(), "3^3=27 <= 60 < 81=3^4")

	brackets, err := h.Brackets()
	require.NoError(t, err)
	require.Len(t, brackets, 4)

	// Most exploratory bracket first.
	assert.Equal(t, 3, brackets[0].S)
	assert.Equal(t, 27, brackets[0].N)
	assert.InDelta(t, 60.0/27.0, brackets[0].R, 1e-9)
	assert.Equal(t, 2, brackets[1].S)
	assert.Equal(t, 12, brackets[1].N)
	assert.InDelta(t, 60.0/9.0, brackets[1].R, 1e-9)
	assert.Equal(t, Bracket{S: 0, N: 4, R: 60}, brackets[3])
}

func TestBracketScheduleProperties(t *testing.T) {
	for _, eta := range []float64{2, 3, 4} {
		for _, maxBudget := range []float64{1, 10, 60, 300} {
			t.Run(fmt.Sprintf("eta=%g max=%g", eta, maxBudget), func(t *testing.T) {
				h := newTestEngine(t, momentumEvaluator(), WithEta(eta), WithMaxBudget(maxBudget))

				sMax := h.SMax()
				assert.GreaterOrEqual(t, sMax, 0)

				brackets, err := h.Brackets()
				require.NoError(t, err)
				require.Len(t, brackets, sMax+1)

				for _, b := range brackets {
					assert.GreaterOrEqual(t, b.N, 1, "bracket %d", b.S)
					assert.GreaterOrEqual(t, b.R, 1-1e-9, "bracket %d", b.S)
				}
			})
		}
	}
}

func TestRunBracketPoolShrinks(t *testing.T) {
	var mu sync.Mutex
	rungSizes := make(map[int]int)

	eval := EvaluatorFunc(func(_ context.Context, cfg *Configuration, budget float64) (Result, error) {
		return Result{Score: cfg.Value("momentum"), Cost: budget}, nil
	})
	h := newTestEngine(t, eval, WithEta(3), WithMaxBudget(60))

	// Count evaluations per rung through a wrapper.
	h.evaluator = EvaluatorFunc(func(ctx context.Context, cfg *Configuration, budget float64) (Result, error) {
		mu.Lock()
		rungSizes[int(budget)]++
		mu.Unlock()
		return eval.Evaluate(ctx, cfg, budget)
	})

	best, bestLoss, err := h.runBracket(context.Background(), Bracket{S: 2, N: 9, R: 60.0 / 9.0})
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Greater(t, bestLoss, 0.0)

	// 9 at r, 3 at 3r, 1 at 9r: strictly decreasing pool.
	assert.Equal(t, 9, rungSizes[6])
	assert.Equal(t, 3, rungSizes[20])
	assert.Equal(t, 1, rungSizes[60])
}

func TestRunBracketEarlyExhaustion(t *testing.T) {
	h := newTestEngine(t, momentumEvaluator(), WithEta(3), WithMaxBudget(60))

	// n=5, eta=3: rung 0 keeps floor(5/3)=1, rung 1 keeps 0, and the
	// remaining scheduled rungs must not touch an empty pool.
	best, _, err := h.runBracket(context.Background(), Bracket{S: 3, N: 5, R: 1})
	require.NoError(t, err)
	assert.NotNil(t, best)
}

func TestRunBracketRanking(t *testing.T) {
	t.Run("Keeps Lower Loss", func(t *testing.T) {
		var mu sync.Mutex
		scores := []float64{0.1, 0.05}
		call := 0
		eval := EvaluatorFunc(func(_ context.Context, _ *Configuration, budget float64) (Result, error) {
			mu.Lock()
			s := scores[call%len(scores)]
			call++
			mu.Unlock()
			return Result{Score: s, Cost: budget}, nil
		})

		h := newTestEngine(t, eval)
		_, bestLoss, err := h.runBracket(context.Background(), Bracket{S: 0, N: 2, R: 60})
		require.NoError(t, err)
		assert.Equal(t, 0.05, bestLoss)
	})

	t.Run("Ties Keep Sample Order", func(t *testing.T) {
		var mu sync.Mutex
		var order []string
		eval := EvaluatorFunc(func(_ context.Context, cfg *Configuration, budget float64) (Result, error) {
			mu.Lock()
			order = append(order, cfg.ID())
			mu.Unlock()
			return Result{Score: 0.5, Cost: budget}, nil
		})

		h := newTestEngine(t, eval)
		best, _, err := h.runBracket(context.Background(), Bracket{S: 0, N: 4, R: 60})
		require.NoError(t, err)
		require.NotNil(t, best)
		assert.Equal(t, order[0], best.ID(), "stable sort must keep the first sample on a tie")
	})
}

func TestRunBracketFailurePolicy(t *testing.T) {
	t.Run("Skips Failed Evaluations", func(t *testing.T) {
		var mu sync.Mutex
		call := 0
		eval := EvaluatorFunc(func(_ context.Context, _ *Configuration, budget float64) (Result, error) {
			mu.Lock()
			call++
			n := call
			mu.Unlock()
			if n == 1 {
				// Diverged after burning part of the budget.
				return Result{Cost: budget / 2}, fmt.Errorf("loss is NaN")
			}
			return Result{Score: 0.3, Cost: budget}, nil
		})

		h := newTestEngine(t, eval)
		best, bestLoss, err := h.runBracket(context.Background(), Bracket{S: 0, N: 3, R: 60})
		require.NoError(t, err)
		require.NotNil(t, best)
		assert.Equal(t, 0.3, bestLoss)

		// Two full evaluations plus the half-budget failure.
		assert.InDelta(t, 2.5, h.State().CumulativeCost(), 1e-9)
	})

	t.Run("All Failures End Bracket", func(t *testing.T) {
		eval := EvaluatorFunc(func(_ context.Context, _ *Configuration, _ float64) (Result, error) {
			return Result{}, fmt.Errorf("out of memory")
		})

		h := newTestEngine(t, eval)
		best, _, err := h.runBracket(context.Background(), Bracket{S: 1, N: 3, R: 20})
		require.NoError(t, err)
		assert.Nil(t, best)
	})
}

func TestRunBracketCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := newTestEngine(t, momentumEvaluator())
	_, _, err := h.runBracket(ctx, Bracket{S: 1, N: 3, R: 20})
	assert.Error(t, err)
}
