package hyperband

import (
	"context"
	"math"

	"github.com/XiaoConstantine/hyperband-go/pkg/errors"
	"github.com/XiaoConstantine/hyperband-go/pkg/logging"
)

// BracketResult is what one bracket settled on.
type BracketResult struct {
	Bracket  Bracket
	Best     *Configuration
	BestLoss float64
}

// SearchResult summarizes a completed search.
type SearchResult struct {
	RunID          string
	Best           *Configuration
	BestLoss       float64
	BestAccuracy   float64
	CumulativeCost float64
	Brackets       []BracketResult
}

// Search runs the full Hyperband outer loop: every bracket from the most
// exploratory (many cheap configurations) down to the most conservative
// (few full-budget ones), with successive halving inside each. Brackets are
// independent; only the monotone best-so-far tracker crosses them. The
// search stops early only on context cancellation, and even then the
// running totals stay inspectable through State.
func (h *Hyperband) Search(ctx context.Context) (*SearchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithRunID(ctx, h.runID)

	brackets, err := h.Brackets()
	if err != nil {
		return nil, err
	}

	h.logger.Info(ctx, "starting hyperband search: max_budget=%g eta=%g brackets=%d parallelism=%d seed=%d",
		h.config.MaxBudget, h.config.Eta, len(brackets), h.config.Parallelism, h.config.Seed)

	results := make([]BracketResult, 0, len(brackets))
	for _, b := range brackets {
		if err := errors.CheckContext(ctx, "hyperband search"); err != nil {
			return nil, err
		}

		h.logger.Info(ctx, "bracket %d: n=%d r=%.3f", b.S, b.N, b.R)

		best, bestLoss, err := h.runBracket(ctx, b)
		if err != nil {
			return nil, err
		}
		if best != nil {
			h.logger.Info(ctx, "bracket %d done: best loss %.6f (%s)", b.S, bestLoss, best)
		}
		results = append(results, BracketResult{Bracket: b, Best: best, BestLoss: bestLoss})
	}

	bestCfg, bestLoss := h.state.Best()
	if bestCfg == nil {
		return nil, errors.New(errors.EvaluationFailed, "no evaluation succeeded in any bracket")
	}

	out := &SearchResult{
		RunID:          h.runID,
		Best:           bestCfg,
		BestLoss:       bestLoss,
		BestAccuracy:   accuracyFromLoss(bestLoss),
		CumulativeCost: h.state.CumulativeCost(),
		Brackets:       results,
	}

	h.logger.Info(ctx, "search done: best loss %.6f after %.3f max-budget units (%s)",
		out.BestLoss, out.CumulativeCost, out.Best)

	return out, nil
}

// SMax returns floor(log_eta(maxBudget)), the number of unique halvings the
// budget admits.
func (h *Hyperband) SMax() int {
	return int(math.Log(h.config.MaxBudget) / math.Log(h.config.Eta))
}
