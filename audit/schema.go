package audit

import "database/sql"

// RunsSchema holds every completed optimization solve. Weights are a
// msgpack-encoded blob since their length varies per run.
const RunsSchema = `
CREATE TABLE IF NOT EXISTS optimization_runs (
    id INTEGER PRIMARY KEY,
    uuid TEXT UNIQUE NOT NULL,
    method TEXT NOT NULL,
    assets INTEGER NOT NULL,
    converged INTEGER NOT NULL,
    iterations INTEGER NOT NULL,
    expected_return REAL NOT NULL,
    volatility REAL NOT NULL,
    sharpe_ratio REAL NOT NULL,
    weights_blob BLOB NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_optimization_runs_method ON optimization_runs(method);
CREATE INDEX IF NOT EXISTS idx_optimization_runs_created ON optimization_runs(created_at);
`

// InitSchema ensures the optimization_runs table exists.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(RunsSchema)
	return err
}
