package assets

import (
	"context"
	"database/sql"
	"errors"

	"gestion-activos-backend/internal/asset_mgmt/assettypes"
	"gestion-activos-backend/internal/asset_mgmt/ledger"
	"gestion-activos-backend/internal/platform/dates"
	"gestion-activos-backend/internal/platform/db"
	"gestion-activos-backend/internal/platform/textnorm"
)

// Queries is what a lifecycle operation may do inside its transaction.
type Queries interface {
	// LockAsset reads the asset and holds its row lock until the transaction
	// ends. nil, nil when it does not exist.
	LockAsset(ctx context.Context, id uint64) (*Asset, error)
	GetAsset(ctx context.Context, id uint64) (*Asset, error)
	CodeKeyTaken(ctx context.Context, key string, exceptID uint64) (bool, error)
	GetType(ctx context.Context, id uint64) (*assettypes.Type, error)
	CodesWithPrefix(ctx context.Context, prefix string) ([]string, error)
	InsertAsset(ctx context.Context, a *Asset, codeKey string) (uint64, error)
	UpdateAsset(ctx context.Context, a *Asset, codeKey string) error
	// TransitionStatus moves the asset from one status to another and reports
	// false when the row was not in `from`.
	TransitionStatus(ctx context.Context, id uint64, from, to Status, reason *string) (bool, error)
	DeleteAsset(ctx context.Context, id uint64) (int64, error)

	OpenAssignment(ctx context.Context, assetID uint64, snap ledger.Snapshot, custodian string, assignedOn, dueBackOn dates.Date) (*ledger.Record, error)
	CloseAssignment(ctx context.Context, assetID uint64, returnedOn dates.Date) (*ledger.Record, error)
	DeleteAssignments(ctx context.Context, assetID uint64) (int64, error)
}

type Repository interface {
	GetAsset(ctx context.Context, id uint64) (*Asset, error)
	ListAssets(ctx context.Context, includeDecommissioned bool) ([]Asset, error)
	FindTypeByName(ctx context.Context, name string) (*assettypes.Type, error)
	WithinTx(ctx context.Context, fn func(ctx context.Context, q Queries) error) error
}

// Store is the MySQL Repository.
type Store struct {
	db     *sql.DB
	types  *assettypes.Store
	ledger *ledger.Ledger
}

func NewStore(conn *sql.DB, types *assettypes.Store, l *ledger.Ledger) *Store {
	return &Store{db: conn, types: types, ledger: l}
}

var txOptions = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, q Queries) error) error {
	return db.RunInTx(ctx, s.db, txOptions, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, s.queries(tx))
	})
}

func (s *Store) queries(q db.DBTX) *sqlQueries {
	return &sqlQueries{q: q, types: s.types.WithTx(q), ledger: s.ledger}
}

func (s *Store) GetAsset(ctx context.Context, id uint64) (*Asset, error) {
	return s.queries(s.db).GetAsset(ctx, id)
}

func (s *Store) FindTypeByName(ctx context.Context, name string) (*assettypes.Type, error) {
	return s.types.FindByKey(ctx, textnorm.Key(name))
}

const assetColumns = `a.id, a.tipo_id, COALESCE(t.nombre, ''), a.codigo, a.referencia, a.descripcion,
	a.marca, a.detalles, a.area, a.responsable, a.fecha_revision, a.estado, a.motivo_baja`

const assetFrom = `
	FROM activos a
	LEFT JOIN tipos t ON t.id = a.tipo_id`

func scanAsset(row interface{ Scan(...any) error }) (*Asset, error) {
	var a Asset
	if err := row.Scan(&a.ID, &a.TypeID, &a.TypeName, &a.Code, &a.Reference, &a.Description,
		&a.Brand, &a.Details, &a.Area, &a.Custodian, &a.ReviewDate, &a.Status, &a.DecommissionReason); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListAssets(ctx context.Context, includeDecommissioned bool) ([]Asset, error) {
	q := `SELECT ` + assetColumns + assetFrom
	var args []any
	if !includeDecommissioned {
		q += ` WHERE a.estado <> ?`
		args = append(args, StatusDecommissioned)
	}
	q += ` ORDER BY a.id`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Asset, 0, 64)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type sqlQueries struct {
	q      db.DBTX
	types  *assettypes.Store
	ledger *ledger.Ledger
}

func (s *sqlQueries) getAsset(ctx context.Context, query string, id uint64) (*Asset, error) {
	a, err := scanAsset(s.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (s *sqlQueries) GetAsset(ctx context.Context, id uint64) (*Asset, error) {
	const q = `SELECT ` + assetColumns + assetFrom + ` WHERE a.id = ?`
	return s.getAsset(ctx, q, id)
}

func (s *sqlQueries) LockAsset(ctx context.Context, id uint64) (*Asset, error) {
	const q = `SELECT ` + assetColumns + assetFrom + ` WHERE a.id = ? FOR UPDATE OF a`
	return s.getAsset(ctx, q, id)
}

func (s *sqlQueries) CodeKeyTaken(ctx context.Context, key string, exceptID uint64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM activos WHERE codigo_clave = ? AND id <> ?)`
	var taken bool
	err := s.q.QueryRowContext(ctx, q, key, exceptID).Scan(&taken)
	return taken, err
}

func (s *sqlQueries) GetType(ctx context.Context, id uint64) (*assettypes.Type, error) {
	return s.types.Get(ctx, id)
}

func (s *sqlQueries) CodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	return s.types.CodesWithPrefix(ctx, prefix)
}

func (s *sqlQueries) InsertAsset(ctx context.Context, a *Asset, codeKey string) (uint64, error) {
	const q = `
	INSERT INTO activos
	(tipo_id, codigo, codigo_clave, referencia, descripcion, marca, detalles, area, responsable, fecha_revision, estado)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := s.q.ExecContext(ctx, q,
		a.TypeID, a.Code, codeKey, a.Reference, a.Description,
		a.Brand, a.Details, a.Area, a.Custodian, a.ReviewDate, StatusAvailable,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdateAsset writes every field except status and decommission reason.
func (s *sqlQueries) UpdateAsset(ctx context.Context, a *Asset, codeKey string) error {
	const q = `
	UPDATE activos
	SET tipo_id = ?, codigo = ?, codigo_clave = ?, referencia = ?, descripcion = ?,
		marca = ?, detalles = ?, area = ?, responsable = ?, fecha_revision = ?
	WHERE id = ?`
	res, err := s.q.ExecContext(ctx, q,
		a.TypeID, a.Code, codeKey, a.Reference, a.Description,
		a.Brand, a.Details, a.Area, a.Custodian, a.ReviewDate, a.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n != 1 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *sqlQueries) TransitionStatus(ctx context.Context, id uint64, from, to Status, reason *string) (bool, error) {
	const q = `UPDATE activos SET estado = ?, motivo_baja = ? WHERE id = ? AND estado = ?`
	res, err := s.q.ExecContext(ctx, q, to, reason, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *sqlQueries) DeleteAsset(ctx context.Context, id uint64) (int64, error) {
	const q = `DELETE FROM activos WHERE id = ?`
	res, err := s.q.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *sqlQueries) OpenAssignment(ctx context.Context, assetID uint64, snap ledger.Snapshot, custodian string, assignedOn, dueBackOn dates.Date) (*ledger.Record, error) {
	return s.ledger.OpenRecord(ctx, s.q, assetID, snap, custodian, assignedOn, dueBackOn)
}

func (s *sqlQueries) CloseAssignment(ctx context.Context, assetID uint64, returnedOn dates.Date) (*ledger.Record, error) {
	return s.ledger.CloseLatestOpenRecord(ctx, s.q, assetID, returnedOn)
}

func (s *sqlQueries) DeleteAssignments(ctx context.Context, assetID uint64) (int64, error) {
	return s.ledger.DeleteForAsset(ctx, s.q, assetID)
}
