// Package history keeps a local record of past detection runs in SQLite,
// one row per run with the full report document, so findings survive after
// the report files are rotated away.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"twiniz/persistdetect/alert"
	"twiniz/persistdetect/report"
)

// Store wraps the run-history database.
type Store struct {
	db *sql.DB
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	RunID       string
	GeneratedAt time.Time
	AlertCount  int
	InfoCount   int
}

// Open creates or opens the history database at path and ensures the
// schema is current. Single connection plus busy_timeout keeps a local
// single-writer tool clear of "database is locked" errors.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history db: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun persists one detection run and returns its generated run id.
func (s *Store) RecordRun(ctx context.Context, r report.Report) (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	runID := uuid.NewString()
	alerts, infos, oks := countBySeverity(r.Alerts)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs(run_id, generated_at, alert_count, info_count, ok_count, report_json, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)
	`, runID, r.GeneratedAt.Unix(), alerts, infos, oks, string(data), time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, generated_at, alert_count, info_count
		FROM runs
		ORDER BY generated_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var generatedAt int64
		if err := rows.Scan(&r.RunID, &generatedAt, &r.AlertCount, &r.InfoCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.GeneratedAt = time.Unix(generatedAt, 0).UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// GetRun loads one stored run's full report.
func (s *Store) GetRun(ctx context.Context, runID string) (report.Report, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT report_json
		FROM runs
		WHERE run_id = ?
	`, runID).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return report.Report{}, fmt.Errorf("run not found: %s", runID)
		}
		return report.Report{}, fmt.Errorf("query run %s: %w", runID, err)
	}

	var r report.Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return report.Report{}, fmt.Errorf("parse stored report %s: %w", runID, err)
	}
	return r, nil
}

func countBySeverity(alerts []alert.Alert) (alertCount, infoCount, okCount int) {
	for _, a := range alerts {
		switch a.Severity {
		case alert.SeverityAlert:
			alertCount++
		case alert.SeverityInfo:
			infoCount++
		case alert.SeverityOK:
			okCount++
		}
	}
	return
}
