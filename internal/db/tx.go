package db

import (
	"context"
	"database/sql"
)

// MakeTx begins a transaction, `discard` is safe to call after `commit`.
type MakeTx = func(ctx context.Context) (tx *Queries, discard, commit func() error, err error)

func NewMakeTx(sqldb *sql.DB) MakeTx {
	return func(ctx context.Context) (*Queries, func() error, func() error, error) {
		sqltx, err := sqldb.BeginTx(ctx, nil)
		if err != nil {
			return nil, nil, nil, err
		}
		discard := func() error {
			err := sqltx.Rollback()
			if err == sql.ErrTxDone {
				return nil
			}
			return err
		}
		return New(sqltx), discard, sqltx.Commit, nil
	}
}
