package assettypes

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"gestion-activos-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) *Store { return &Store{db: conn} }

// WithTx returns a store bound to tx.
func (s *Store) WithTx(tx db.DBTX) *Store { return &Store{db: tx} }

func (s *Store) List(ctx context.Context) ([]Type, error) {
	const q = `SELECT id, nombre, codificacion FROM tipos ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]Type, 0, 16)
	for rows.Next() {
		var t Type
		if err := rows.Scan(&t.ID, &t.Name, &t.Prefix); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Get returns nil, nil when the type does not exist.
func (s *Store) Get(ctx context.Context, id uint64) (*Type, error) {
	const q = `SELECT id, nombre, codificacion FROM tipos WHERE id = ?`
	var t Type
	err := s.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Prefix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindByKey looks a type up by its normalized name.
func (s *Store) FindByKey(ctx context.Context, key string) (*Type, error) {
	const q = `SELECT id, nombre, codificacion FROM tipos WHERE nombre_clave = ?`
	var t Type
	err := s.db.QueryRowContext(ctx, q, key).Scan(&t.ID, &t.Name, &t.Prefix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) NameKeyTaken(ctx context.Context, key string, exceptID uint64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM tipos WHERE nombre_clave = ? AND id <> ?)`
	var taken bool
	err := s.db.QueryRowContext(ctx, q, key, exceptID).Scan(&taken)
	return taken, err
}

func (s *Store) PrefixTaken(ctx context.Context, prefix string, exceptID uint64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM tipos WHERE codificacion = ? AND id <> ?)`
	var taken bool
	err := s.db.QueryRowContext(ctx, q, prefix, exceptID).Scan(&taken)
	return taken, err
}

func (s *Store) Create(ctx context.Context, name, key string, prefix *string) (uint64, error) {
	const q = `INSERT INTO tipos (nombre, nombre_clave, codificacion) VALUES (?, ?, ?)`
	r, err := s.db.ExecContext(ctx, q, name, key, prefix)
	if err != nil {
		return 0, err
	}
	id, err := r.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (s *Store) Update(ctx context.Context, id uint64, name, key string, prefix *string) (int64, error) {
	const q = `UPDATE tipos SET nombre = ?, nombre_clave = ?, codificacion = ? WHERE id = ?`
	r, err := s.db.ExecContext(ctx, q, name, key, prefix, id)
	if err != nil {
		return 0, err
	}
	return r.RowsAffected()
}

func (s *Store) Delete(ctx context.Context, id uint64) (int64, error) {
	const q = `DELETE FROM tipos WHERE id = ?`
	r, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return r.RowsAffected()
}

func (s *Store) CountAssets(ctx context.Context, id uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM activos WHERE tipo_id = ?`
	var n int
	err := s.db.QueryRowContext(ctx, q, id).Scan(&n)
	return n, err
}

// CodesWithPrefix lists asset codes that start with prefix, candidates for
// NextCode.
func (s *Store) CodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	const q = `SELECT codigo FROM activos WHERE codigo LIKE ? ESCAPE '\\'`
	rows, err := s.db.QueryContext(ctx, q, escapeLike(prefix)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
