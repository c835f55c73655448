package testutil

import (
	"context"
	"sync"

	"github.com/XiaoConstantine/hyperband-go/pkg/hyperband"
)

// ScriptedEvaluator returns canned results in call order, cycling when the
// script runs out. An entry with a non-nil error simulates a failed trial.
type ScriptedEvaluator struct {
	mu     sync.Mutex
	script []ScriptedResult
	calls  int
}

type ScriptedResult struct {
	Result hyperband.Result
	Err    error
}

func NewScriptedEvaluator(script ...ScriptedResult) *ScriptedEvaluator {
	return &ScriptedEvaluator{script: script}
}

func (e *ScriptedEvaluator) Evaluate(_ context.Context, _ *hyperband.Configuration, budget float64) (hyperband.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := e.script[e.calls%len(e.script)]
	e.calls++

	res := out.Result
	if res.Cost == 0 && out.Err == nil {
		res.Cost = budget
	}
	return res, out.Err
}

// Calls reports how many evaluations ran.
func (e *ScriptedEvaluator) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// ValueEvaluator scores a configuration by one of its own parameter values,
// making rankings fully predictable in tests.
type ValueEvaluator struct {
	Param string

	mu    sync.Mutex
	calls int
}

func (e *ValueEvaluator) Evaluate(_ context.Context, cfg *hyperband.Configuration, budget float64) (hyperband.Result, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	return hyperband.Result{Score: cfg.Value(e.Param), Cost: budget}, nil
}

func (e *ValueEvaluator) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}
