// Package hyperbandgo implements the Hyperband hyperparameter search
// algorithm: repeated rounds of successive halving over randomly sampled
// configurations, each evaluated under a time-bounded training budget.
//
// The module treats training as an opaque collaborator — anything that can
// score a configuration under a budget plugs in behind the Evaluator
// interface — and focuses on the scheduling core: how configurations are
// sampled, how many survive each rung, how budgets scale across brackets,
// and how the best result and cumulative cost are tracked over the whole
// search.
//
// Key Components:
//
//   - hyperband: the search core — bracket schedule, successive halving
//     engine, seeded configuration sampler, and the explicit SearchState
//     threaded through the run.
//
//   - space: fixed-dimensional search spaces built from monotone transforms
//     (linear, integer, exponential, power-of-two scales) over unit draws.
//
//   - record: append-only evaluation traces — tab-separated files, SQLite
//     databases, and Parquet snapshots for later analysis.
//
//   - logging, errors, config: the supporting severity logger, coded error
//     types, and YAML/env driver configuration.
//
// A minimal search:
//
//	sp := space.MNISTCNN()
//	eval := hyperband.NewSynthetic("momentum", 0.1, 42)
//	hb, err := hyperband.New(sp, eval, hyperband.WithSeed(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := hb.Search(context.Background())
package hyperbandgo
