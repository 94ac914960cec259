package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent so the full
// list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillRecordCounts(db); err != nil {
		return fmt.Errorf("backfilling dataset record counts: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS datasets (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL UNIQUE,
		source       TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS records (
		dataset_id   TEXT NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
		id           TEXT NOT NULL,
		position     INTEGER NOT NULL,
		date         TEXT NOT NULL,
		worker       TEXT NOT NULL,
		process      TEXT NOT NULL,
		start_time   TEXT NOT NULL,
		end_time     TEXT NOT NULL,
		note         TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (dataset_id, id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_records_dataset_date ON records(dataset_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_records_dataset_worker ON records(dataset_id, worker)`,

	// Display color travels with the record but is never part of CSV.
	`ALTER TABLE records ADD COLUMN color TEXT NOT NULL DEFAULT ''`,

	// Cached count so listing datasets does not scan records.
	`ALTER TABLE datasets ADD COLUMN record_count INTEGER NOT NULL DEFAULT -1`,
}

// migrateBackfillRecordCounts fills record_count for datasets saved before
// the column existed (marked -1).
func migrateBackfillRecordCounts(db *sql.DB) error {
	ctx := context.Background()
	_, err := db.ExecContext(ctx, `UPDATE datasets
		SET record_count = (SELECT COUNT(*) FROM records r WHERE r.dataset_id = datasets.id)
		WHERE record_count < 0`)
	return err
}
