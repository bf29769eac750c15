package testutil

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/sitetrack/internal/db"
)

// FailOnNthExecUoW behaves like the SQLite unit of work but makes the
// FailOn-th write of each transaction return Err, counting from 1. Reads
// are untouched, so a snapshot save fails after some rows were written.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &countingWriter{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

// countingWriter counts ExecContext calls and fails the configured one.
type countingWriter struct {
	db.DBTX
	writes int
	failOn int
	err    error
}

func (w *countingWriter) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	w.writes++
	if w.writes == w.failOn {
		return nil, w.err
	}
	return w.DBTX.ExecContext(ctx, query, args...)
}
