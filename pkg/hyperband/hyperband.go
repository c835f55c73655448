package hyperband

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/XiaoConstantine/hyperband-go/pkg/errors"
	"github.com/XiaoConstantine/hyperband-go/pkg/logging"
	"github.com/XiaoConstantine/hyperband-go/pkg/record"
	"github.com/XiaoConstantine/hyperband-go/pkg/space"
)

// Config contains the knobs of a Hyperband search.
type Config struct {
	// MaxBudget is the largest budget (seconds, or an equivalent iteration
	// count) any single configuration may receive. Default: 60.
	MaxBudget float64 `json:"max_budget"`
	// Eta is the downsampling rate: each rung keeps the best 1/Eta fraction
	// of its pool. Default: 3.
	Eta float64 `json:"eta"`
	// Seed drives configuration sampling. Zero picks a time-based seed.
	Seed int64 `json:"seed"`
	// Parallelism bounds concurrent evaluations within a rung. The default
	// of 1 evaluates strictly sequentially.
	Parallelism int `json:"parallelism"`
}

// Hyperband runs repeated successive halving over randomly sampled
// configurations, trading off many cheap evaluations against few expensive
// ones across its brackets.
type Hyperband struct {
	config    Config
	space     *space.Space
	sampler   *Sampler
	evaluator Evaluator
	recorder  record.Recorder
	state     *SearchState
	logger    *logging.Logger
	runID     string
}

// Option defines functional options for Hyperband configuration.
type Option func(*Hyperband)

// WithMaxBudget sets the maximum per-configuration budget.
func WithMaxBudget(budget float64) Option {
	return func(h *Hyperband) {
		h.config.MaxBudget = budget
	}
}

// WithEta sets the downsampling rate.
func WithEta(eta float64) Option {
	return func(h *Hyperband) {
		h.config.Eta = eta
	}
}

// WithSeed fixes the sampling seed for reproducible searches.
func WithSeed(seed int64) Option {
	return func(h *Hyperband) {
		h.config.Seed = seed
	}
}

// WithParallelism bounds concurrent evaluations within a rung.
func WithParallelism(n int) Option {
	return func(h *Hyperband) {
		h.config.Parallelism = n
	}
}

// WithRecorder attaches a recorder that receives one entry per successful
// evaluation.
func WithRecorder(r record.Recorder) Option {
	return func(h *Hyperband) {
		h.recorder = r
	}
}

// WithLogger overrides the global logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Hyperband) {
		h.logger = l
	}
}

// New creates a Hyperband search over the given space and evaluator.
// Configuration errors are fatal here, before any evaluation runs.
func New(sp *space.Space, evaluator Evaluator, opts ...Option) (*Hyperband, error) {
	h := &Hyperband{
		config: Config{
			MaxBudget:   60,
			Eta:         3,
			Parallelism: 1,
		},
		space:     sp,
		evaluator: evaluator,
		logger:    logging.GetLogger(),
		runID:     uuid.New().String(),
	}

	for _, opt := range opts {
		opt(h)
	}

	if sp == nil {
		return nil, errors.New(errors.InvalidInput, "search space is required")
	}
	if evaluator == nil {
		return nil, errors.New(errors.InvalidInput, "evaluator is required")
	}
	if h.config.Eta <= 1 {
		return nil, errors.WithFields(
			errors.New(errors.ValidationFailed, "eta must be greater than 1"),
			errors.Fields{"eta": h.config.Eta})
	}
	if h.config.MaxBudget < 1 {
		return nil, errors.WithFields(
			errors.New(errors.ValidationFailed, "max budget must be at least 1"),
			errors.Fields{"max_budget": h.config.MaxBudget})
	}
	if h.config.Parallelism < 1 {
		return nil, errors.WithFields(
			errors.New(errors.ValidationFailed, "parallelism must be at least 1"),
			errors.Fields{"parallelism": h.config.Parallelism})
	}

	if h.config.Seed == 0 {
		h.config.Seed = time.Now().UnixNano()
	}

	h.sampler = NewSampler(h.space, h.config.Seed)
	h.state = NewSearchState(h.config.MaxBudget)

	return h, nil
}

// Space returns the search space configurations are drawn from.
func (h *Hyperband) Space() *space.Space {
	return h.space
}

// RunID returns the identifier stamped on every record of this search.
func (h *Hyperband) RunID() string {
	return h.runID
}

// State exposes the running totals. The best score and cumulative cost are
// valid for inspection at any point, including mid-bracket.
func (h *Hyperband) State() *SearchState {
	return h.state
}

func (h *Hyperband) record(ctx context.Context, e record.Entry) {
	if h.recorder == nil {
		return
	}
	if err := h.recorder.Record(e); err != nil {
		h.logger.Warn(ctx, "failed to record evaluation %s: %v", e.TrialID, err)
	}
}
