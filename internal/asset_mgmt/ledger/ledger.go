package ledger

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"gestion-activos-backend/internal/platform/dates"
	"gestion-activos-backend/internal/platform/db"
)

var (
	// ErrOpenRecordExists means an open record was found before inserting a new
	// one: the asset row and the ledger disagree.
	ErrOpenRecordExists = errors.New("ledger: asset already has an open record")
	// ErrDuplicateOpen means the one-open-record unique key rejected the insert.
	ErrDuplicateOpen = errors.New("ledger: concurrent open record")
	ErrNoOpenRecord  = errors.New("ledger: asset has no open record")
)

type IDGen interface {
	New() (string, error)
}

type ulidGen struct {
	mu      sync.Mutex
	entropy io.Reader
}

// NewULIDGen returns a generator of monotonic ULIDs, safe for concurrent use.
func NewULIDGen() IDGen {
	return &ulidGen{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ulidGen) New() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), g.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Ledger reads and writes historico rows. Every method takes the handle to
// run on so the Registry can call it inside its own transaction.
type Ledger struct {
	ids IDGen
}

func New(ids IDGen) *Ledger { return &Ledger{ids: ids} }

const recordColumns = `h.id, h.ulid, h.activo_id, h.activo_codigo, h.activo_referencia, t.nombre,
	h.persona, h.fecha_asignacion, h.fecha_devolucion_prevista, h.fecha_devolucion`

const recordFrom = `
	FROM historico h
	LEFT JOIN activos a ON a.id = h.activo_id
	LEFT JOIN tipos t ON t.id = a.tipo_id`

func scanRecord(row interface{ Scan(...any) error }) (*Record, error) {
	var r Record
	if err := row.Scan(&r.ID, &r.ULID, &r.AssetID, &r.AssetCode, &r.AssetReference, &r.TypeName,
		&r.Custodian, &r.AssignedOn, &r.DueBackOn, &r.ReturnedOn); err != nil {
		return nil, err
	}
	return &r, nil
}

// OpenRecord inserts the open record of a new custody period.
func (l *Ledger) OpenRecord(ctx context.Context, q db.DBTX, assetID uint64, snap Snapshot, custodian string, assignedOn, dueBackOn dates.Date) (*Record, error) {
	const qOpen = `SELECT id FROM historico WHERE activo_id = ? AND fecha_devolucion IS NULL LIMIT 1 FOR UPDATE`
	var openID uint64
	err := q.QueryRowContext(ctx, qOpen, assetID).Scan(&openID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w (asset %d, record %d)", ErrOpenRecordExists, assetID, openID)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("check open record: %w", err)
	}

	key, err := l.ids.New()
	if err != nil {
		return nil, fmt.Errorf("generate ulid: %w", err)
	}

	const qIns = `
	INSERT INTO historico
	(ulid, activo_id, activo_codigo, activo_referencia, persona, fecha_asignacion, fecha_devolucion_prevista)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := q.ExecContext(ctx, qIns, key, assetID, snap.Code, snap.Reference, custodian, assignedOn, dueBackOn)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateOpen, err)
		}
		return nil, fmt.Errorf("insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Record{
		ID:             uint64(id),
		ULID:           key,
		AssetID:        assetID,
		AssetCode:      snap.Code,
		AssetReference: snap.Reference,
		Custodian:      custodian,
		AssignedOn:     assignedOn,
		DueBackOn:      dueBackOn,
	}, nil
}

// CloseLatestOpenRecord locks the most recent open record of the asset and
// sets its return date.
func (l *Ledger) CloseLatestOpenRecord(ctx context.Context, q db.DBTX, assetID uint64, returnedOn dates.Date) (*Record, error) {
	const qSel = `SELECT ` + recordColumns + recordFrom + `
	WHERE h.activo_id = ? AND h.fecha_devolucion IS NULL
	ORDER BY h.fecha_asignacion DESC, h.id DESC
	LIMIT 1
	FOR UPDATE OF h`
	rec, err := scanRecord(q.QueryRowContext(ctx, qSel, assetID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoOpenRecord
	}
	if err != nil {
		return nil, fmt.Errorf("lock open record: %w", err)
	}

	const qUpd = `UPDATE historico SET fecha_devolucion = ? WHERE id = ? AND fecha_devolucion IS NULL`
	res, err := q.ExecContext(ctx, qUpd, returnedOn, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("close record: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n != 1 {
		return nil, ErrNoOpenRecord
	}
	rec.ReturnedOn = &returnedOn
	return rec, nil
}

// DeleteForAsset removes every record of the asset.
func (l *Ledger) DeleteForAsset(ctx context.Context, q db.DBTX, assetID uint64) (int64, error) {
	const qDel = `DELETE FROM historico WHERE activo_id = ?`
	res, err := q.ExecContext(ctx, qDel, assetID)
	if err != nil {
		return 0, fmt.Errorf("delete records: %w", err)
	}
	return res.RowsAffected()
}

// List returns records matching f, newest first.
func (l *Ledger) List(ctx context.Context, q db.DBTX, f Filter) ([]Record, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + recordColumns + recordFrom + `
	WHERE 1=1`)

	args := []any{}
	if f.AssetID != nil {
		sb.WriteString(` AND h.activo_id = ?`)
		args = append(args, *f.AssetID)
	}
	if c := strings.TrimSpace(f.Custodian); c != "" {
		sb.WriteString(` AND h.persona LIKE ?`)
		args = append(args, "%"+escapeLike(c)+"%")
	}
	if f.OpenOnly {
		sb.WriteString(` AND h.fecha_devolucion IS NULL`)
	}
	if f.From != nil {
		sb.WriteString(` AND h.fecha_asignacion >= ?`)
		args = append(args, *f.From)
	}
	if f.To != nil {
		sb.WriteString(` AND h.fecha_asignacion <= ?`)
		args = append(args, *f.To)
	}
	sb.WriteString(` ORDER BY h.fecha_asignacion DESC, h.id DESC`)

	rows, err := q.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Ledger) ListByAsset(ctx context.Context, q db.DBTX, assetID uint64) ([]Record, error) {
	return l.List(ctx, q, Filter{AssetID: &assetID})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
