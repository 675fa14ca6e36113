// Package store persists two things an evaluation run produces: a memoized
// Result keyed on the scenario, the replay window and the temperature data
// version (so a
// re-run with unchanged inputs skips the per-server power-sampling loop),
// and a durable record of every completed run's headline scores for
// cross-scenario comparison. Both live in a single SQLite file
// (modernc.org/sqlite) rather than an in-memory map.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yourusername/geosched/internal/evaluator"
)

// Store owns the SQLite connection backing both the evaluation cache and
// the run-results table.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS eval_cache (
			cache_key   TEXT PRIMARY KEY,
			result_json TEXT NOT NULL,
			updated_at  INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS run_results (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			scenario            INTEGER NOT NULL,
			start_unix          INTEGER NOT NULL,
			end_unix            INTEGER NOT NULL,
			it_energy_kwh       REAL NOT NULL,
			it_cost_usd         REAL NOT NULL,
			total_energy_kwh    REAL NOT NULL,
			total_cost_usd      REAL NOT NULL,
			util_penalty        REAL NOT NULL,
			util_price_penalty  REAL NOT NULL,
			constraint_penalty  REAL NOT NULL,
			sla_penalty         REAL NOT NULL,
			created_at          INTEGER NOT NULL
		)
	`)
	return err
}

// CacheKey builds the memoization key §9's design note asks for: the
// scenario and the replay window plus a caller-supplied identifier for the
// temperature data
// version, so a changed temperature file invalidates prior entries without
// the store having to hash the series itself.
func CacheKey(scenario int, start, end time.Time, temperatureVersion string) string {
	return fmt.Sprintf("%d|%d|%d|%s", scenario, start.Unix(), end.Unix(), temperatureVersion)
}

// GetEvaluation returns a memoized Result for key, if present.
func (s *Store) GetEvaluation(key string) (evaluator.Result, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw string
	err := s.db.QueryRow(`SELECT result_json FROM eval_cache WHERE cache_key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return evaluator.Result{}, false, nil
	}
	if err != nil {
		return evaluator.Result{}, false, fmt.Errorf("store: get evaluation: %w", err)
	}

	var result evaluator.Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return evaluator.Result{}, false, fmt.Errorf("store: decode cached result: %w", err)
	}
	return result, true, nil
}

// PutEvaluation stores result under key, overwriting any prior entry.
func (s *Store) PutEvaluation(key string, result evaluator.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("store: encode result: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO eval_cache (cache_key, result_json, updated_at)
		VALUES (?, ?, ?)
	`, key, string(raw), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store: put evaluation: %w", err)
	}
	return nil
}

// RunRecord is one row of the run_results table, returned by ListRuns for
// cross-scenario comparison.
type RunRecord struct {
	ID       int64
	Scenario int
	Start    time.Time
	End      time.Time
	Result   evaluator.Result
	Created  time.Time
}

// RecordRun appends a completed run's headline scores to run_results and
// returns its row id.
func (s *Store) RecordRun(scenario int, start, end time.Time, result evaluator.Result) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	res, err := s.db.Exec(`
		INSERT INTO run_results (
			scenario, start_unix, end_unix,
			it_energy_kwh, it_cost_usd, total_energy_kwh, total_cost_usd,
			util_penalty, util_price_penalty, constraint_penalty, sla_penalty,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		scenario, start.Unix(), end.Unix(),
		result.Energy.ITEnergyKWh, result.Energy.ITCostUSD,
		result.Energy.TotalEnergyKWh, result.Energy.TotalCostUSD,
		result.UtilPenalty, result.UtilPricePenalty, result.ConstraintPenalty, result.SLAPenalty,
		now.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("store: record run: %w", err)
	}
	return res.LastInsertId()
}

// ListRuns returns the most recent runs, newest first, capped at limit.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, scenario, start_unix, end_unix,
		       it_energy_kwh, it_cost_usd, total_energy_kwh, total_cost_usd,
		       util_penalty, util_price_penalty, constraint_penalty, sla_penalty,
		       created_at
		FROM run_results
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			rec                RunRecord
			startUnix, endUnix int64
			createdUnix        int64
		)
		if err := rows.Scan(
			&rec.ID, &rec.Scenario, &startUnix, &endUnix,
			&rec.Result.Energy.ITEnergyKWh, &rec.Result.Energy.ITCostUSD,
			&rec.Result.Energy.TotalEnergyKWh, &rec.Result.Energy.TotalCostUSD,
			&rec.Result.UtilPenalty, &rec.Result.UtilPricePenalty,
			&rec.Result.ConstraintPenalty, &rec.Result.SLAPenalty,
			&createdUnix,
		); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		rec.Start = time.Unix(startUnix, 0).UTC()
		rec.End = time.Unix(endUnix, 0).UTC()
		rec.Created = time.Unix(createdUnix, 0).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
