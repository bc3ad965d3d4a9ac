package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"pipecheck/internal/verify"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			unit TEXT,
			unit_hash TEXT,
			created_at TIMESTAMP,
			passed BOOLEAN,
			findings INTEGER,
			report JSON
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_hash ON runs(unit_hash);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveReport stores one verification run.
func (s *SQLiteStore) SaveReport(ctx context.Context, unitHash string, report *verify.Report) (int64, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (unit, unit_hash, created_at, passed, findings, report)
		VALUES (?, ?, ?, ?, ?, ?)
	`, report.Unit, unitHash, time.Now().UTC(), report.OK(), report.Findings(), payload)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetReport retrieves a stored report by run id.
func (s *SQLiteStore) GetReport(ctx context.Context, id int64) (*verify.Report, error) {
	row := s.db.QueryRowContext(ctx, "SELECT report FROM runs WHERE id = ?", id)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		return nil, err
	}

	var report verify.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %d: %w", id, err)
	}
	return &report, nil
}

// ListRuns returns the verification history, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, unit, unit_hash, created_at, passed, findings
		FROM runs ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Unit, &r.UnitHash, &r.CreatedAt, &r.Passed, &r.Findings); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
