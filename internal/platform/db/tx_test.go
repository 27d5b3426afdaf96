package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestion-activos-backend/internal/platform/config"
)

func TestRunInTx(t *testing.T) {
	t.Run("commits when fn succeeds", func(t *testing.T) {
		conn, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer conn.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE activos").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = RunInTx(context.Background(), conn, nil, func(ctx context.Context, tx DBTX) error {
			_, err := tx.ExecContext(ctx, "UPDATE activos SET estado = 'Disponible'")
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		conn, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer conn.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err = RunInTx(context.Background(), conn, nil, func(ctx context.Context, tx DBTX) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back and re-panics", func(t *testing.T) {
		conn, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer conn.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = RunInTx(context.Background(), conn, nil, func(ctx context.Context, tx DBTX) error {
				panic("kaboom")
			})
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMySQLErrorClassification(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	fk := &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
	ref := &mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"}
	long := &mysql.MySQLError{Number: 1406, Message: "Data too long for column 'referencia' at row 1"}

	assert.True(t, IsDuplicateKey(dup))
	assert.True(t, IsDuplicateKey(errors.Join(errors.New("insert"), dup)))
	assert.False(t, IsDuplicateKey(fk))
	assert.True(t, IsForeignKeyMissing(fk))
	assert.True(t, IsRowReferenced(ref))
	assert.True(t, IsDataTooLong(long))
	assert.False(t, IsDataTooLong(dup))
	assert.False(t, IsDuplicateKey(errors.New("plain")))
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 3306, Username: "app", Password: "pw", DBName: "activos"})
	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Equal(t, "activos", cfg.DBName)
	assert.True(t, cfg.ParseTime)
	assert.True(t, cfg.MultiStatements)
	assert.True(t, cfg.ClientFoundRows)
}
