// Package sqlite provides a SQLite-backed audit driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/aegis/pkg/audit"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id             TEXT PRIMARY KEY,
	created_at     TIMESTAMP NOT NULL,
	outcome        TEXT NOT NULL,
	model          TEXT,
	categories     TEXT,
	threats        TEXT,
	error_category TEXT,
	duration_ms    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_events_created_at ON audit_events (created_at);
`

// Driver implements audit.Driver using SQLite.
type Driver struct {
	db *sql.DB
}

// NewDriver creates a new SQLite-backed audit driver.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewDriver(ctx context.Context, dbPath string) (*Driver, error) {
	// Open the database using the github.com/mattn/go-sqlite3 driver
	// (registered as "sqlite3").
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating audit schema: %w", err)
	}

	return &Driver{db: db}, nil
}

// Append stores an event. Slice fields are stored as JSON text columns.
func (d *Driver) Append(ctx context.Context, event *audit.Event) error {
	if event == nil {
		return audit.ErrNilEvent
	}

	categories, err := json.Marshal(event.Categories)
	if err != nil {
		return fmt.Errorf("encoding categories: %w", err)
	}
	threats, err := json.Marshal(event.Threats)
	if err != nil {
		return fmt.Errorf("encoding threats: %w", err)
	}

	_, err = d.db.ExecContext(ctx,
		`INSERT INTO audit_events
			(id, created_at, outcome, model, categories, threats, error_category, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Time, event.Outcome, event.Model,
		string(categories), string(threats), event.ErrorCategory, event.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("inserting audit event: %w", err)
	}

	return nil
}

// List returns up to limit events, most recent first.
func (d *Driver) List(ctx context.Context, limit int) ([]*audit.Event, error) {
	query := `SELECT id, created_at, outcome, model, categories, threats, error_category, duration_ms
		FROM audit_events ORDER BY created_at DESC`

	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = d.db.QueryContext(ctx, query+" LIMIT ?", limit)
	} else {
		rows, err = d.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("querying audit events: %w", err)
	}
	defer rows.Close()

	var events []*audit.Event
	for rows.Next() {
		var ev audit.Event
		var categories, threats string

		if err := rows.Scan(&ev.ID, &ev.Time, &ev.Outcome, &ev.Model,
			&categories, &threats, &ev.ErrorCategory, &ev.DurationMs); err != nil {
			return nil, fmt.Errorf("scanning audit event: %w", err)
		}

		if err := json.Unmarshal([]byte(categories), &ev.Categories); err != nil {
			return nil, fmt.Errorf("decoding categories: %w", err)
		}
		if err := json.Unmarshal([]byte(threats), &ev.Threats); err != nil {
			return nil, fmt.Errorf("decoding threats: %w", err)
		}

		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit events: %w", err)
	}

	return events, nil
}

// Close closes the underlying database.
func (d *Driver) Close() error {
	return d.db.Close()
}
