package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RunInTx begins a transaction and runs fn inside it. fn returning nil commits,
// any error (or panic) rolls back.
func RunInTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// MySQL error numbers the stores map to API errors.
const (
	ErrNumDataTooLong     = 1406
	ErrNumDuplicateEntry  = 1062
	ErrNumRowIsReferenced = 1451
	ErrNumNoReferencedRow = 1452
)

func mysqlErrNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

func IsDuplicateKey(err error) bool      { return mysqlErrNumber(err) == ErrNumDuplicateEntry }
func IsForeignKeyMissing(err error) bool { return mysqlErrNumber(err) == ErrNumNoReferencedRow }
func IsRowReferenced(err error) bool     { return mysqlErrNumber(err) == ErrNumRowIsReferenced }
func IsDataTooLong(err error) bool       { return mysqlErrNumber(err) == ErrNumDataTooLong }
