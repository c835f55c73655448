package record

import (
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/XiaoConstantine/hyperband-go/pkg/errors"
)

// SQLiteRecorder persists evaluation entries to a SQLite database so a
// finished (or interrupted) run can be inspected with plain SQL.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database at path and prepares the
// evaluations table.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, errors.RecordFailed, "failed to open sqlite database")
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	r := &SQLiteRecorder{db: db}
	if err := r.initDB(); err != nil {
		db.Close()
		return nil, err
	}

	// WAL keeps readers from blocking the append path during a run.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrap(err, errors.RecordFailed, "failed to set pragma")
		}
	}

	return r, nil
}

func (r *SQLiteRecorder) initDB() error {
	schema := `
	CREATE TABLE IF NOT EXISTS evaluations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		trial_id TEXT NOT NULL,
		bracket INTEGER NOT NULL,
		rung INTEGER NOT NULL,
		budget REAL NOT NULL,
		score REAL NOT NULL,
		cost REAL NOT NULL,
		cumulative_cost REAL NOT NULL,
		best_score REAL NOT NULL,
		params TEXT,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_evaluations_run ON evaluations(run_id);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return errors.Wrap(err, errors.RecordFailed, "failed to initialize schema")
	}
	return nil
}

func (r *SQLiteRecorder) Record(e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	params, err := json.Marshal(e.Values)
	if err != nil {
		return errors.Wrap(err, errors.RecordFailed, "failed to encode params")
	}

	_, err = r.db.Exec(
		`INSERT INTO evaluations
		 (run_id, trial_id, bracket, rung, budget, score, cost, cumulative_cost, best_score, params, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.TrialID, e.Bracket, e.Rung, e.Budget, e.Score, e.Cost,
		e.CumulativeCost, e.BestScore, string(params), e.At,
	)
	if err != nil {
		return errors.Wrap(err, errors.RecordFailed, "failed to insert evaluation")
	}
	return nil
}

// CountByRun returns how many evaluations the given run has recorded.
func (r *SQLiteRecorder) CountByRun(runID string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM evaluations WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, errors.RecordFailed, "failed to count evaluations")
	}
	return n, nil
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
