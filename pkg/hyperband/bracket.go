package hyperband

import (
	"context"
	"math"
	"sort"
	"time"

	concpool "github.com/sourcegraph/conc/pool"

	"github.com/XiaoConstantine/hyperband-go/pkg/errors"
	"github.com/XiaoConstantine/hyperband-go/pkg/record"
)

// Bracket is one successive-halving run: s indexes the exploration
// trade-off (higher means more, cheaper configurations), n is the initial
// pool size and r the initial per-configuration budget.
type Bracket struct {
	S int
	N int
	R float64
}

// Brackets derives the full bracket schedule from MaxBudget and Eta, in the
// order the search processes them: s from s_max down to 0, most exploratory
// first. Degenerate parameters (n or r below 1) are a configuration error
// and are reported, never clamped.
func (h *Hyperband) Brackets() ([]Bracket, error) {
	sMax := int(math.Log(h.config.MaxBudget) / math.Log(h.config.Eta))
	budget := float64(sMax+1) * h.config.MaxBudget

	out := make([]Bracket, 0, sMax+1)
	for s := sMax; s >= 0; s-- {
		n := int(math.Ceil(budget / h.config.MaxBudget / float64(s+1) * math.Pow(h.config.Eta, float64(s))))
		r := h.config.MaxBudget * math.Pow(h.config.Eta, -float64(s))

		// A hair of float tolerance: r sits exactly on 1 when eta^s_max
		// equals the max budget.
		if n < 1 || r < 1-1e-9 {
			return nil, errors.WithFields(
				errors.New(errors.ValidationFailed, "degenerate bracket parameters"),
				errors.Fields{"s": s, "n": n, "r": r})
		}
		out = append(out, Bracket{S: s, N: n, R: r})
	}
	return out, nil
}

// rungOutcome pairs a configuration with what its evaluation produced.
type rungOutcome struct {
	cfg *Configuration
	res Result
	err error
}

// runBracket executes successive halving for one bracket: evaluate the pool
// at a growing budget, keep the best 1/eta fraction, repeat through rung s.
// Every evaluation restarts training from scratch at the rung's budget;
// nothing is resumed from the previous rung (the finite-horizon formulation
// without checkpoint reuse).
func (h *Hyperband) runBracket(ctx context.Context, b Bracket) (*Configuration, float64, error) {
	pool := h.sampler.SampleN(b.N)

	var best *Configuration
	bestLoss := math.Inf(1)

	for i := 0; i <= b.S; i++ {
		if err := errors.CheckContext(ctx, "successive halving"); err != nil {
			return best, bestLoss, err
		}
		if len(pool) == 0 {
			// The previous rung kept nobody; the bracket ends early.
			break
		}

		nI := float64(b.N) * math.Pow(h.config.Eta, -float64(i))
		rI := b.R * math.Pow(h.config.Eta, float64(i))

		h.logger.Info(ctx, "bracket %d rung %d: evaluating %d configs at budget %.3f",
			b.S, i, len(pool), rI)

		ranked := h.evaluateRung(ctx, b.S, i, pool, rI)
		if len(ranked) == 0 {
			h.logger.Warn(ctx, "bracket %d rung %d: every evaluation failed, ending bracket", b.S, i)
			return best, bestLoss, nil
		}

		// The rung winner at the largest budget evaluated so far is the
		// bracket's current answer.
		best = ranked[0].cfg
		bestLoss = ranked[0].res.Score

		keep := int(nI / h.config.Eta)
		if keep > len(ranked) {
			keep = len(ranked)
		}
		pool = pool[:0]
		for _, out := range ranked[:keep] {
			pool = append(pool, out.cfg)
		}
	}

	return best, bestLoss, nil
}

// evaluateRung evaluates every configuration in the pool at the given
// budget and returns the successful outcomes ranked ascending by loss.
// Ties keep sample order (stable sort). Failed evaluations are skipped with
// a warning; whatever cost they reported still accrues.
func (h *Hyperband) evaluateRung(ctx context.Context, s, rung int, configs []*Configuration, budget float64) []rungOutcome {
	outcomes := make([]rungOutcome, len(configs))

	p := concpool.New().WithMaxGoroutines(h.config.Parallelism)
	for idx, cfg := range configs {
		idx, cfg := idx, cfg
		p.Go(func() {
			res, err := h.evaluator.Evaluate(ctx, cfg, budget)
			outcomes[idx] = rungOutcome{cfg: cfg, res: res, err: err}
		})
	}
	p.Wait()

	// Fold results into the running totals in sample order so records and
	// ranking stay deterministic regardless of completion order.
	ranked := make([]rungOutcome, 0, len(outcomes))
	for _, out := range outcomes {
		if out.err != nil {
			cum := h.state.AddCost(out.res.Cost)
			h.logger.Warn(ctx, "bracket %d rung %d: evaluation %s failed, skipping: %v (cumulative cost %.3f)",
				s, rung, out.cfg.ID(), out.err, cum)
			continue
		}

		cum, bestAcc, improved := h.state.Observe(out.cfg, out.res)
		h.logger.Evaluation(ctx, s, rung, budget, out.res.Score, out.res.Cost)
		if improved {
			h.logger.Info(ctx, "best validation accuracy improved: %.15g (%s)", bestAcc, out.cfg)
		}

		h.record(ctx, record.Entry{
			RunID:          h.runID,
			TrialID:        out.cfg.ID(),
			Bracket:        s,
			Rung:           rung,
			Budget:         budget,
			Score:          out.res.Score,
			Cost:           out.res.Cost,
			CumulativeCost: cum,
			BestScore:      bestAcc,
			Values:         out.cfg.Values(),
			At:             time.Now(),
		})

		ranked = append(ranked, out)
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].res.Score < ranked[b].res.Score
	})
	return ranked
}
