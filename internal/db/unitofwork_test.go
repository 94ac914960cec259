package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/shiftboard/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openUOW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func insertDataset(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (id, name, created_at, updated_at) VALUES (?, ?, 'now', 'now')`, id, "name-"+id)
	return err
}

func datasetExists(t *testing.T, uow *db.SQLiteUnitOfWork, id string) bool {
	t.Helper()
	var found bool
	require.NoError(t, uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM datasets WHERE id = ?`, id).Scan(&n); err != nil {
			return err
		}
		found = n > 0
		return nil
	}))
	return found
}

func TestWithinTx(t *testing.T) {
	errBoom := errors.New("deliberate failure")

	tests := []struct {
		name      string
		fn        func(ctx context.Context, tx db.DBTX) error
		wantErr   error
		wantFound bool
	}{
		{
			name:      "commit on success",
			fn:        func(ctx context.Context, tx db.DBTX) error { return insertDataset(ctx, tx, "k1") },
			wantFound: true,
		},
		{
			name: "rollback on error",
			fn: func(ctx context.Context, tx db.DBTX) error {
				if err := insertDataset(ctx, tx, "k1"); err != nil {
					return err
				}
				return errBoom
			},
			wantErr: errBoom,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uow := openUOW(t)
			err := uow.WithinTx(context.Background(), tc.fn)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantFound, datasetExists(t, uow, "k1"))
		})
	}
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openUOW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertDataset(ctx, tx, "k3")
			panic("boom")
		})
	})

	assert.False(t, datasetExists(t, uow, "k3"))
}

func TestWithinTx_CancelledBeforeCommit(t *testing.T) {
	uow := openUOW(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := insertDataset(ctx, tx, "k4"); err != nil {
			return err
		}
		cancel()
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, datasetExists(t, uow, "k4"))
}
