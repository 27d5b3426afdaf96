package auth

import (
	"context"
	"database/sql"
	"errors"
)

type UserStore interface {
	GetByID(ctx context.Context, id uint64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UsernameTaken(ctx context.Context, username string, exceptID uint64) (bool, error)
	Create(ctx context.Context, u *User) (uint64, error)
	Update(ctx context.Context, u *User) (int64, error)
	UpdatePassword(ctx context.Context, id uint64, hash string) (int64, error)
	Delete(ctx context.Context, id uint64) (int64, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const userColumns = `id, username, password, rol, activo`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Active); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns nil, nil when no row matches.
func (s *Store) GetByID(ctx context.Context, id uint64) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM usuarios WHERE id = ? LIMIT 1`
	u, err := scanUser(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM usuarios WHERE username = ? LIMIT 1`
	u, err := scanUser(s.db.QueryRowContext(ctx, q, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (s *Store) List(ctx context.Context) ([]User, error) {
	const q = `SELECT ` + userColumns + ` FROM usuarios ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (s *Store) UsernameTaken(ctx context.Context, username string, exceptID uint64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM usuarios WHERE username = ? AND id <> ?)`
	var taken bool
	if err := s.db.QueryRowContext(ctx, q, username, exceptID).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

func (s *Store) Create(ctx context.Context, u *User) (uint64, error) {
	const q = `INSERT INTO usuarios (username, password, rol, activo) VALUES (?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, u.Username, u.PasswordHash, u.Role, u.Active)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update writes username, role, active flag and the password hash as given.
func (s *Store) Update(ctx context.Context, u *User) (int64, error) {
	const q = `UPDATE usuarios SET username = ?, password = ?, rol = ?, activo = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, u.Username, u.PasswordHash, u.Role, u.Active, u.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) UpdatePassword(ctx context.Context, id uint64, hash string) (int64, error) {
	const q = `UPDATE usuarios SET password = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, hash, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Delete(ctx context.Context, id uint64) (int64, error) {
	const q = `DELETE FROM usuarios WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
