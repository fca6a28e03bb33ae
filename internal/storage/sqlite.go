package storage

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"

	"housingIndexMetrics/internal/finance"
)

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	Begin() (*sql.Tx, error)
	Close() error
}

type Store struct{ db DB }

// Run is one report run with its rows in output order.
type Run struct {
	ID        string
	CreatedAt time.Time
	Rows      []finance.ResultRow
}

// RunInfo summarises a stored run.
type RunInfo struct {
	ID        string
	CreatedAt time.Time
	Series    int
}

func OpenSQLite(dsn string) (DB, error) {
	return sql.Open("sqlite3", dsn)
}

func InitSchema(db DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS runs(
		run_id TEXT PRIMARY KEY, created_at INTEGER, series_count INTEGER
	);
	CREATE TABLE IF NOT EXISTS results(
		run_id TEXT REFERENCES runs(run_id) ON DELETE CASCADE,
		position INTEGER,
		name TEXT,
		one_yr REAL, five_yr REAL, ten_yr REAL, long_term REAL, long_term_years INTEGER,
		beta REAL, excess_return REAL, volatility REAL, sharpe REAL,
		PRIMARY KEY (run_id, position)
	)`)
	return err
}

func NewStore(db DB) *Store { return &Store{db: db} }

// NewRunID returns a fresh identifier for a run.
func NewRunID() string { return uuid.NewString() }

// SaveRun stores the run and its rows in a single transaction.
func (s *Store) SaveRun(run Run) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs(run_id,created_at,series_count) VALUES(?,?,?)`,
		run.ID, run.CreatedAt.Unix(), len(run.Rows)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for i, r := range run.Rows {
		if _, err := tx.Exec(`INSERT INTO results(run_id,position,name,one_yr,five_yr,ten_yr,long_term,long_term_years,beta,excess_return,volatility,sharpe)
			VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`,
			run.ID, i, r.Name,
			nullable(r.OneYear), nullable(r.FiveYear), nullable(r.TenYear), nullable(r.LongTerm), r.LongTermYears,
			nullable(r.Beta), nullable(r.ExcessReturn), nullable(r.Volatility), nullable(r.Sharpe)); err != nil {
			return fmt.Errorf("insert result %s: %w", r.Name, err)
		}
	}
	return tx.Commit()
}

// FetchRun loads a stored run. Undefined statistics come back as NaN.
func (s *Store) FetchRun(runID string) (*Run, error) {
	info, err := s.runInfo(runID)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT name,one_yr,five_yr,ten_yr,long_term,long_term_years,beta,excess_return,volatility,sharpe
		FROM results WHERE run_id=? ORDER BY position ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	run := &Run{ID: info.ID, CreatedAt: info.CreatedAt}
	for rows.Next() {
		var r finance.ResultRow
		var one, five, ten, long, beta, excess, vol, sharpe sql.NullFloat64
		if err := rows.Scan(&r.Name, &one, &five, &ten, &long, &r.LongTermYears, &beta, &excess, &vol, &sharpe); err != nil {
			return nil, err
		}
		r.OneYear, r.FiveYear, r.TenYear, r.LongTerm = value(one), value(five), value(ten), value(long)
		r.Beta, r.ExcessReturn, r.Volatility, r.Sharpe = value(beta), value(excess), value(vol), value(sharpe)
		run.Rows = append(run.Rows, r)
	}
	return run, rows.Err()
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(limit int) ([]RunInfo, error) {
	rows, err := s.db.Query(`SELECT run_id,created_at,series_count FROM runs ORDER BY created_at DESC, run_id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RunInfo
	for rows.Next() {
		var ri RunInfo
		var ts int64
		if err := rows.Scan(&ri.ID, &ts, &ri.Series); err != nil {
			return nil, err
		}
		ri.CreatedAt = time.Unix(ts, 0).UTC()
		out = append(out, ri)
	}
	return out, rows.Err()
}

func (s *Store) runInfo(runID string) (RunInfo, error) {
	rows, err := s.db.Query(`SELECT run_id,created_at,series_count FROM runs WHERE run_id=?`, runID)
	if err != nil {
		return RunInfo{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return RunInfo{}, err
		}
		return RunInfo{}, fmt.Errorf("run %s: %w", runID, sql.ErrNoRows)
	}
	var ri RunInfo
	var ts int64
	if err := rows.Scan(&ri.ID, &ts, &ri.Series); err != nil {
		return RunInfo{}, err
	}
	ri.CreatedAt = time.Unix(ts, 0).UTC()
	return ri, nil
}

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func value(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
