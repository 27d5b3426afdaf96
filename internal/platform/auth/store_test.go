package auth

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	s := NewStore(conn)

	cols := []string{"id", "username", "password", "rol", "activo"}

	mock.ExpectQuery(regexp.QuoteMeta("FROM usuarios WHERE username = ?")).
		WithArgs("ana").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(3, "ana", "$2a$hash", RoleUser, true))
	u, err := s.GetByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, &User{ID: 3, Username: "ana", PasswordHash: "$2a$hash", Role: RoleUser, Active: true}, u)

	mock.ExpectQuery(regexp.QuoteMeta("FROM usuarios WHERE id = ?")).
		WithArgs(uint64(8)).
		WillReturnRows(sqlmock.NewRows(cols))
	u, err = s.GetByID(ctx, 8)
	require.NoError(t, err)
	assert.Nil(t, u)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM usuarios WHERE username = ? AND id <> ?)")).
		WithArgs("ana", uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
	taken, err := s.UsernameTaken(ctx, "ana", 3)
	require.NoError(t, err)
	assert.False(t, taken)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO usuarios (username, password, rol, activo) VALUES (?, ?, ?, ?)")).
		WithArgs("eva", "h", RoleViewer, true).
		WillReturnResult(sqlmock.NewResult(11, 1))
	id, err := s.Create(ctx, &User{Username: "eva", PasswordHash: "h", Role: RoleViewer, Active: true})
	require.NoError(t, err)
	assert.Equal(t, uint64(11), id)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM usuarios WHERE id = ?")).
		WithArgs(uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	n, err := s.Delete(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.NoError(t, mock.ExpectationsWereMet())
}
