package testutil

import (
	"context"
	"database/sql"
	"strings"

	"github.com/alexanderramin/shiftboard/internal/db"
)

// FailingUoW runs the production unit of work but makes the FailOn-th
// matching ExecContext return Err, so a dataset save can be cut off part
// way through. Only statements containing Match are counted; an empty Match
// counts every write. Counting starts at 1 and restarts for every
// transaction.
type FailingUoW struct {
	DB     *sql.DB
	Match  string
	FailOn int
	Err    error
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingExec{DBTX: tx, uow: u})
	})
}

type failingExec struct {
	db.DBTX
	uow  *FailingUoW
	seen int
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.Contains(query, f.uow.Match) {
		f.seen++
		if f.seen == f.uow.FailOn {
			return nil, f.uow.Err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
