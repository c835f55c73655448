package hyperband

import (
	"math"
	"sync"
)

// SearchState carries the process-wide running totals of a search: the
// cumulative cost in max-budget units and the best result observed so far.
// It is created once per search, updated after every evaluation, and never
// reset mid-run, so the running best is always inspectable even if the
// search is interrupted between brackets. All methods are safe for
// concurrent use; parallel rung evaluation funnels through the one mutex.
type SearchState struct {
	mu        sync.Mutex
	maxBudget float64

	cumCost  float64
	bestLoss float64
	best     *Configuration
}

// NewSearchState initializes the totals. maxBudget is the normalization
// divisor for cumulative cost, so one unit of cost equals one
// full-budget evaluation.
func NewSearchState(maxBudget float64) *SearchState {
	return &SearchState{
		maxBudget: maxBudget,
		bestLoss:  math.Inf(1),
	}
}

// Observe folds one evaluation into the totals and reports the updated
// cumulative cost, the best accuracy so far, and whether this evaluation
// improved on the best.
func (st *SearchState) Observe(cfg *Configuration, res Result) (cumCost, bestScore float64, improved bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.cumCost += res.Cost / st.maxBudget

	if res.Score < st.bestLoss {
		st.bestLoss = res.Score
		st.best = cfg
		improved = true
	}

	return st.cumCost, accuracyFromLoss(st.bestLoss), improved
}

// AddCost accrues cost without a score, used when an evaluation fails after
// burning budget.
func (st *SearchState) AddCost(cost float64) float64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.cumCost += cost / st.maxBudget
	return st.cumCost
}

// CumulativeCost returns the total spend so far in max-budget units.
func (st *SearchState) CumulativeCost() float64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.cumCost
}

// Best returns the best configuration seen so far and its loss. The
// configuration is nil until the first successful evaluation.
func (st *SearchState) Best() (*Configuration, float64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.best, st.bestLoss
}

// BestAccuracy returns the best score expressed as validation accuracy,
// the monotone non-decreasing view of the search's progress.
func (st *SearchState) BestAccuracy() float64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	return accuracyFromLoss(st.bestLoss)
}

// accuracyFromLoss converts a validation loss to the accuracy-style score
// the trace files report. Before any evaluation succeeds the accuracy is 0.
func accuracyFromLoss(loss float64) float64 {
	if math.IsInf(loss, 1) {
		return 0
	}
	return 100 - loss
}
