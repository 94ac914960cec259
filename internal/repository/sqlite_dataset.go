package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftboard/internal/db"
	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/google/uuid"
)

// SQLiteDatasetRepo implements DatasetRepo using a SQLite database.
type SQLiteDatasetRepo struct {
	db db.DBTX
}

// NewSQLiteDatasetRepo creates a repo over a *sql.DB or a transaction.
func NewSQLiteDatasetRepo(conn db.DBTX) *SQLiteDatasetRepo {
	return &SQLiteDatasetRepo{db: conn}
}

func (r *SQLiteDatasetRepo) Save(ctx context.Context, ds *domain.Dataset, records []domain.ScheduleRecord) error {
	now := time.Now().UTC().Truncate(time.Second)

	existing, err := r.GetByName(ctx, ds.Name)
	switch {
	case errors.Is(err, ErrNotFound):
		if ds.ID == "" {
			ds.ID = uuid.NewString()
		}
		ds.CreatedAt = now
		ds.UpdatedAt = now
		ds.RecordCount = len(records)
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO datasets (id, name, source, record_count, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			ds.ID, ds.Name, ds.Source, ds.RecordCount, formatTimestamp(now), formatTimestamp(now))
		if err != nil {
			return fmt.Errorf("inserting dataset: %w", err)
		}
	case err != nil:
		return err
	default:
		ds.ID = existing.ID
		ds.CreatedAt = existing.CreatedAt
		ds.UpdatedAt = now
		ds.RecordCount = len(records)
		_, err = r.db.ExecContext(ctx,
			`UPDATE datasets SET source = ?, record_count = ?, updated_at = ? WHERE id = ?`,
			ds.Source, ds.RecordCount, formatTimestamp(now), ds.ID)
		if err != nil {
			return fmt.Errorf("updating dataset: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE dataset_id = ?`, ds.ID); err != nil {
			return fmt.Errorf("clearing dataset records: %w", err)
		}
	}

	const insert = `INSERT INTO records
		(dataset_id, id, position, date, worker, process, start_time, end_time, note, color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i, rec := range records {
		_, err := r.db.ExecContext(ctx, insert,
			ds.ID, rec.ID, i, rec.Date, rec.Worker, rec.Process, rec.Start, rec.End, rec.Note, rec.Color)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.ID, err)
		}
	}
	return nil
}

func (r *SQLiteDatasetRepo) GetByName(ctx context.Context, name string) (*domain.Dataset, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, source, record_count, created_at, updated_at FROM datasets WHERE name = ?`, name)
	ds, err := scanDataset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dataset %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning dataset: %w", err)
	}
	return ds, nil
}

func (r *SQLiteDatasetRepo) LoadRecords(ctx context.Context, datasetID string) ([]domain.ScheduleRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, worker, process, start_time, end_time, note, color
		FROM records WHERE dataset_id = ? ORDER BY position`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var out []domain.ScheduleRecord
	for rows.Next() {
		var rec domain.ScheduleRecord
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.Worker, &rec.Process,
			&rec.Start, &rec.End, &rec.Note, &rec.Color); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteDatasetRepo) List(ctx context.Context) ([]*domain.Dataset, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, source, record_count, created_at, updated_at FROM datasets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	defer rows.Close()

	var out []*domain.Dataset
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning dataset: %w", err)
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

func (r *SQLiteDatasetRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting dataset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting dataset: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("dataset %q: %w", name, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDataset(row rowScanner) (*domain.Dataset, error) {
	var ds domain.Dataset
	var createdAt, updatedAt string
	if err := row.Scan(&ds.ID, &ds.Name, &ds.Source, &ds.RecordCount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if ds.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if ds.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &ds, nil
}
