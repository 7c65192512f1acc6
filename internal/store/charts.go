// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/astrochart/astrod/internal/astro"
	"github.com/astrochart/astrod/internal/ephemeris"
	"github.com/astrochart/astrod/internal/metrics"
)

const schemaVersion = 1

// ErrNotFound is returned when a chart ID is not in the archive.
var ErrNotFound = errors.New("store: chart not found")

// ChartStore is the SQLite-backed chart archive.
type ChartStore struct {
	db *sql.DB
}

// Entry is an archived chart with its storage metadata.
type Entry struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Chart     astro.Chart `json:"chart"`
}

// NewChartStore opens (and migrates) the archive at dbPath.
func NewChartStore(dbPath string) (*ChartStore, error) {
	db, err := open(dbPath, DefaultConfig())
	if err != nil {
		return nil, err
	}

	s := &ChartStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("chart store: migration failed: %w", err)
	}
	return s, nil
}

func (s *ChartStore) migrate() error {
	var currentVersion int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&currentVersion); err != nil {
		return err
	}
	if currentVersion >= schemaVersion {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	schema := `
	CREATE TABLE IF NOT EXISTS charts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		birth_date TEXT NOT NULL,
		birth_time TEXT NOT NULL,
		location TEXT NOT NULL,
		sun_sign TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_charts_created ON charts(created_at);
	CREATE INDEX IF NOT EXISTS idx_charts_name ON charts(name);
	`
	if _, err := tx.Exec(schema); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

// Save archives a chart and returns its generated ID.
func (s *ChartStore) Save(ctx context.Context, chart *astro.Chart) (string, error) {
	id := uuid.New().String()
	chart.ID = id

	payload, err := json.Marshal(chart)
	if err != nil {
		metrics.IncChartStored("failure")
		return "", fmt.Errorf("chart store: marshal: %w", err)
	}

	const query = `
	INSERT INTO charts (id, name, birth_date, birth_time, location, sun_sign, payload, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		id, chart.Name, chart.Date, chart.Time, chart.Location,
		string(chart.SignOf(ephemeris.Sun)), string(payload), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		metrics.IncChartStored("failure")
		return "", fmt.Errorf("chart store: insert: %w", err)
	}
	metrics.IncChartStored("success")
	return id, nil
}

// Get loads an archived chart by ID.
func (s *ChartStore) Get(ctx context.Context, id string) (*Entry, error) {
	const query = `SELECT payload, created_at FROM charts WHERE id = ?`

	var payload, createdAt string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&payload, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("chart store: get: %w", err)
	}
	return decodeEntry(id, payload, createdAt)
}

// Recent returns up to limit charts, newest first.
func (s *ChartStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	const query = `SELECT id, payload, created_at FROM charts ORDER BY created_at DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("chart store: recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var id, payload, createdAt string
		if err := rows.Scan(&id, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("chart store: scan: %w", err)
		}
		e, err := decodeEntry(id, payload, createdAt)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Ping verifies the database is reachable, for readiness checks.
func (s *ChartStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *ChartStore) Close() error {
	return s.db.Close()
}

func decodeEntry(id, payload, createdAt string) (*Entry, error) {
	var chart astro.Chart
	if err := json.Unmarshal([]byte(payload), &chart); err != nil {
		return nil, fmt.Errorf("chart store: decode %s: %w", id, err)
	}
	ts, _ := time.Parse(time.RFC3339, createdAt)
	return &Entry{ID: id, CreatedAt: ts, Chart: chart}, nil
}
