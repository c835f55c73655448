package record

import (
	"sync"
	"time"

	"github.com/XiaoConstantine/hyperband-go/pkg/errors"
)

// Entry is the append-only trace of one finished evaluation. CumulativeCost
// and BestScore describe the whole search up to and including this
// evaluation; the remaining fields describe the evaluation itself.
type Entry struct {
	RunID   string
	TrialID string
	Bracket int
	Rung    int

	Budget float64
	Score  float64 // validation loss reported by the evaluator
	Cost   float64 // budget actually spent

	CumulativeCost float64 // total spend so far, in max-budget units
	BestScore      float64 // best validation accuracy seen so far

	Values map[string]float64
	At     time.Time
}

// Recorder persists evaluation entries for later analysis. Record is called
// exactly once per successful evaluation, in completion order.
type Recorder interface {
	Record(Entry) error
	Close() error
}

// MemoryRecorder keeps entries in memory. It backs tests and post-run
// exports such as Parquet snapshots.
type MemoryRecorder struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (m *MemoryRecorder) Record(e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *MemoryRecorder) Close() error {
	return nil
}

// Entries returns a copy of everything recorded so far.
func (m *MemoryRecorder) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// MultiRecorder fans each entry out to several recorders. The first write
// error is returned, but all recorders still see the entry.
type MultiRecorder struct {
	recorders []Recorder
}

func NewMultiRecorder(recorders ...Recorder) *MultiRecorder {
	return &MultiRecorder{recorders: recorders}
}

func (m *MultiRecorder) Record(e Entry) error {
	var firstErr error
	for _, r := range m.recorders {
		if err := r.Record(e); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, errors.RecordFailed, "recorder write failed")
		}
	}
	return firstErr
}

func (m *MultiRecorder) Close() error {
	var firstErr error
	for _, r := range m.recorders {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
