// Package persistence provides the SQLite results store for batch runs.
package persistence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/bank-reserves/internal/batch"
	"github.com/talgya/bank-reserves/internal/engine"
)

// DB wraps a SQLite connection holding run results.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a results database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		combo_index INTEGER NOT NULL,
		iteration INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		people INTEGER NOT NULL,
		initial_cash INTEGER NOT NULL,
		rich_threshold INTEGER NOT NULL,
		reserve_ratio REAL NOT NULL,
		torus INTEGER NOT NULL,
		random_wallets INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		steps_recorded INTEGER NOT NULL,
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS step_stats (
		run_id TEXT NOT NULL,
		step INTEGER NOT NULL,
		rich INTEGER NOT NULL,
		middle_class INTEGER NOT NULL,
		poor INTEGER NOT NULL,
		total_wallets INTEGER NOT NULL,
		total_savings INTEGER NOT NULL,
		total_loans INTEGER NOT NULL,
		total_money INTEGER NOT NULL,
		reserve_requirement REAL NOT NULL,
		gini REAL NOT NULL,
		PRIMARY KEY (run_id, step)
	);

	CREATE TABLE IF NOT EXISTS batch_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveResult writes one run and its snapshots (full replace for that run).
func (db *DB) SaveResult(res batch.Result) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM runs WHERE run_id = ?", res.RunID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM step_stats WHERE run_id = ?", res.RunID); err != nil {
		return err
	}

	sim := res.Combo.Sim
	torus := 0
	if sim.Torus {
		torus = 1
	}
	randomWallets := 0
	if sim.RandomWallets {
		randomWallets = 1
	}

	_, err = tx.Exec(`INSERT INTO runs
		(run_id, combo_index, iteration, width, height, people, initial_cash,
		 rich_threshold, reserve_ratio, torus, random_wallets, seed,
		 steps_recorded, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, res.Combo.Index, res.Combo.Iteration,
		sim.Width, sim.Height, sim.People, sim.InitialCash,
		sim.RichThreshold, sim.ReserveRatio, torus, randomWallets, sim.Seed,
		len(res.Stats), res.Status, res.Err,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", res.RunID, err)
	}

	stmt, err := tx.Preparex(`INSERT INTO step_stats
		(run_id, step, rich, middle_class, poor, total_wallets, total_savings,
		 total_loans, total_money, reserve_requirement, gini)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, snap := range res.Stats {
		_, err := stmt.Exec(
			res.RunID, snap.Step, snap.Rich, snap.MiddleClass, snap.Poor,
			snap.TotalWallets, snap.TotalSavings, snap.TotalLoans,
			snap.TotalMoney, snap.ReserveRequirement, snap.Gini,
		)
		if err != nil {
			return fmt.Errorf("insert run %s step %d: %w", res.RunID, snap.Step, err)
		}
	}

	return tx.Commit()
}

// SaveBatch stores every result of a finished batch.
func (db *DB) SaveBatch(results []batch.Result) error {
	slog.Info("saving batch results", "runs", len(results))

	for _, res := range results {
		if err := db.SaveResult(res); err != nil {
			return fmt.Errorf("save run %s: %w", res.RunID, err)
		}
	}
	if err := db.SaveMeta("runs", fmt.Sprintf("%d", len(results))); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta("finished_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	slog.Info("batch results saved")
	return nil
}

// SaveMeta stores a key-value pair in batch metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO batch_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM batch_meta WHERE key = ?", key)
	return value, err
}

// RunSummary is the stored outcome of one run.
type RunSummary struct {
	RunID  string `db:"run_id"`
	Seed   int64  `db:"seed"`
	Status string `db:"status"`
	Err    string `db:"error"`
	Steps  int    `db:"steps_recorded"`
}

// Runs returns stored run summaries in sweep order.
func (db *DB) Runs() ([]RunSummary, error) {
	var runs []RunSummary
	err := db.conn.Select(&runs,
		"SELECT run_id, seed, status, error, steps_recorded FROM runs ORDER BY combo_index")
	return runs, err
}

// statRow mirrors a step_stats row for scanning.
type statRow struct {
	Step               int     `db:"step"`
	Rich               int     `db:"rich"`
	MiddleClass        int     `db:"middle_class"`
	Poor               int     `db:"poor"`
	TotalWallets       int     `db:"total_wallets"`
	TotalSavings       int     `db:"total_savings"`
	TotalLoans         int     `db:"total_loans"`
	TotalMoney         int     `db:"total_money"`
	ReserveRequirement float64 `db:"reserve_requirement"`
	Gini               float64 `db:"gini"`
}

// StepStats returns a run's snapshots in step order.
func (db *DB) StepStats(runID string) ([]engine.StepStats, error) {
	var rows []statRow
	err := db.conn.Select(&rows, `SELECT
		step, rich, middle_class, poor, total_wallets, total_savings,
		total_loans, total_money, reserve_requirement, gini
		FROM step_stats WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, err
	}

	stats := make([]engine.StepStats, len(rows))
	for i, r := range rows {
		stats[i] = engine.StepStats{
			Step:               r.Step,
			Rich:               r.Rich,
			MiddleClass:        r.MiddleClass,
			Poor:               r.Poor,
			TotalWallets:       r.TotalWallets,
			TotalSavings:       r.TotalSavings,
			TotalLoans:         r.TotalLoans,
			TotalMoney:         r.TotalMoney,
			ReserveRequirement: r.ReserveRequirement,
			Gini:               r.Gini,
		}
	}
	return stats, nil
}
