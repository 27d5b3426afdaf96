package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"gestion-activos-backend/internal/asset_mgmt/assettypes"
	"gestion-activos-backend/internal/asset_mgmt/ledger"
	"gestion-activos-backend/internal/platform/apierr"
	"gestion-activos-backend/internal/platform/dates"
	"gestion-activos-backend/internal/platform/db"
	"gestion-activos-backend/internal/platform/textnorm"
)

var (
	errAssetNotFound   = apierr.NotFound("Activo no encontrado")
	errCodeTaken       = apierr.Conflict("El código ya existe")
	errTypeMissing     = apierr.InvalidReference("El tipo de activo no existe")
	errNoOpenRecord    = apierr.NotFound("No se encontró asignación activa")
	errRequiredFields  = apierr.Invalid("Los campos tipoId, codigo y referencia son requeridos")
	errCustodianBlank  = apierr.Invalid("La persona es requerida")
	errDueBackMissing  = apierr.Invalid("La fecha de devolución prevista es requerida")
	errDueBackNotAfter = apierr.Invalid("La fecha de devolución prevista debe ser posterior a hoy")
	errReasonBlank     = apierr.Invalid("El motivo de la baja es requerido")
	errFieldTooLong    = apierr.Invalid("Uno de los campos excede la longitud permitida")
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Service is the asset registry: it owns asset records and every lifecycle
// transition, writing the correlated ledger entry in the same transaction.
type Service struct {
	repo   Repository
	clock  Clock
	loc    *time.Location
	logger *zap.Logger
}

type Option func(*Service)

func WithClock(c Clock) Option { return func(s *Service) { s.clock = c } }

// WithLocation sets the zone that decides what "today" is.
func WithLocation(loc *time.Location) Option { return func(s *Service) { s.loc = loc } }

func NewService(repo Repository, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, clock: realClock{}, loc: time.Local, logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) today() dates.Date { return dates.Today(s.clock.Now(), s.loc) }

func optional(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// fromRequest copies the editable fields; status is never taken from input.
func fromRequest(a *Asset, req AssetRequest) {
	a.TypeID = req.TipoID
	a.Code = strings.TrimSpace(req.Codigo)
	a.Reference = strings.TrimSpace(req.Referencia)
	a.Description = strings.TrimSpace(req.Descripcion)
	a.Brand = optional(req.Marca)
	a.Details = optional(req.Detalles)
	a.Area = optional(req.Area)
	a.Custodian = optional(req.Responsable)
	a.ReviewDate = nil
	if req.FechaRevision != nil {
		a.ReviewDate = dates.Ptr(*req.FechaRevision)
	}
}

// resolveCode checks the type reference and the code format, generating the
// next code when none was given and the type has a prefix.
func resolveCode(ctx context.Context, q Queries, a *Asset, generate bool) (string, error) {
	t, err := q.GetType(ctx, a.TypeID)
	if err != nil {
		return "", fmt.Errorf("load type: %w", err)
	}
	if t == nil {
		return "", errTypeMissing
	}
	a.TypeName = t.Name

	if a.Code == "" {
		if !generate || !t.HasPrefix() {
			return "", errRequiredFields
		}
		codes, err := q.CodesWithPrefix(ctx, *t.Prefix)
		if err != nil {
			return "", fmt.Errorf("list codes: %w", err)
		}
		if a.Code, err = assettypes.NextCode(*t.Prefix, codes); err != nil {
			return "", err
		}
	}
	if err := assettypes.CheckCode(t, a.Code); err != nil {
		return "", err
	}

	key := textnorm.Key(a.Code)
	taken, err := q.CodeKeyTaken(ctx, key, a.ID)
	if err != nil {
		return "", fmt.Errorf("check code: %w", err)
	}
	if taken {
		return "", errCodeTaken
	}
	return key, nil
}

func mapWriteErr(err error, op string) error {
	switch {
	case db.IsDuplicateKey(err):
		return errCodeTaken
	case db.IsForeignKeyMissing(err):
		return errTypeMissing
	case db.IsDataTooLong(err):
		return errFieldTooLong
	}
	return fmt.Errorf("%s: %w", op, err)
}

// maxFieldLen is the size of the VARCHAR columns of activos.
const maxFieldLen = 255

func checkLengths(req AssetRequest) error {
	fields := []struct {
		name  string
		value *string
	}{
		{"codigo", &req.Codigo},
		{"referencia", &req.Referencia},
		{"marca", req.Marca},
		{"area", req.Area},
		{"responsable", req.Responsable},
	}
	for _, f := range fields {
		if f.value != nil && utf8.RuneCountInString(strings.TrimSpace(*f.value)) > maxFieldLen {
			return apierr.Invalidf("El campo %s no puede superar %d caracteres", f.name, maxFieldLen)
		}
	}
	return nil
}

// Create inserts a new asset in status Disponible.
func (s *Service) Create(ctx context.Context, req AssetRequest) (*Asset, error) {
	if req.TipoID == 0 || strings.TrimSpace(req.Referencia) == "" {
		return nil, errRequiredFields
	}
	if err := checkLengths(req); err != nil {
		return nil, err
	}
	var a Asset
	fromRequest(&a, req)

	err := s.repo.WithinTx(ctx, func(ctx context.Context, q Queries) error {
		key, err := resolveCode(ctx, q, &a, true)
		if err != nil {
			return err
		}
		id, err := q.InsertAsset(ctx, &a, key)
		if err != nil {
			return mapWriteErr(err, "insert asset")
		}
		a.ID = id
		a.Status = StatusAvailable
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("asset created", zap.Uint64("asset_id", a.ID), zap.String("codigo", a.Code))
	return &a, nil
}

// Edit replaces the descriptive fields of an asset that is not assigned.
func (s *Service) Edit(ctx context.Context, id uint64, req AssetRequest) (*Asset, error) {
	if req.TipoID == 0 || strings.TrimSpace(req.Codigo) == "" || strings.TrimSpace(req.Referencia) == "" {
		return nil, errRequiredFields
	}
	if err := checkLengths(req); err != nil {
		return nil, err
	}
	var out *Asset
	err := s.repo.WithinTx(ctx, func(ctx context.Context, q Queries) error {
		a, err := q.LockAsset(ctx, id)
		if err != nil {
			return fmt.Errorf("lock asset: %w", err)
		}
		if a == nil {
			return errAssetNotFound
		}
		if err := a.Status.checkEdit(); err != nil {
			return err
		}
		fromRequest(a, req)
		key, err := resolveCode(ctx, q, a, false)
		if err != nil {
			return err
		}
		if err := q.UpdateAsset(ctx, a, key); err != nil {
			return mapWriteErr(err, "update asset")
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("asset edited", zap.Uint64("asset_id", id))
	return out, nil
}

// Assign hands an available asset to a custodian until dueBackOn, which must
// be a later calendar day than today.
func (s *Service) Assign(ctx context.Context, id uint64, req AssignRequest) (*Asset, *ledger.Record, error) {
	custodian := strings.TrimSpace(req.Persona)
	if custodian == "" {
		return nil, nil, errCustodianBlank
	}
	if req.FechaDevolucionPrevista.IsZero() {
		return nil, nil, errDueBackMissing
	}
	today := s.today()
	if !req.FechaDevolucionPrevista.After(today) {
		return nil, nil, errDueBackNotAfter
	}

	var (
		out *Asset
		rec *ledger.Record
	)
	err := s.repo.WithinTx(ctx, func(ctx context.Context, q Queries) error {
		a, err := q.LockAsset(ctx, id)
		if err != nil {
			return fmt.Errorf("lock asset: %w", err)
		}
		if a == nil {
			return errAssetNotFound
		}
		if err := a.Status.checkAssign(); err != nil {
			return err
		}
		ok, err := q.TransitionStatus(ctx, id, StatusAvailable, StatusAssigned, nil)
		if err != nil {
			return fmt.Errorf("set status: %w", err)
		}
		if !ok {
			return errAssignNotAvailable
		}

		snap := ledger.Snapshot{Code: a.Code, Reference: a.Reference}
		rec, err = q.OpenAssignment(ctx, id, snap, custodian, today, req.FechaDevolucionPrevista)
		switch {
		case errors.Is(err, ledger.ErrDuplicateOpen):
			return errAssignNotAvailable
		case errors.Is(err, ledger.ErrOpenRecordExists):
			s.logger.Error("available asset already has an open assignment", zap.Uint64("asset_id", id), zap.Error(err))
			return err
		case err != nil:
			return fmt.Errorf("open assignment: %w", err)
		}
		a.Status = StatusAssigned
		out = a
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("asset assigned",
		zap.Uint64("asset_id", id),
		zap.String("estado", string(StatusAssigned)),
		zap.String("persona", custodian),
		zap.Stringer("fecha_devolucion_prevista", req.FechaDevolucionPrevista),
	)
	return out, rec, nil
}

// Return closes the open assignment with today's date and makes the asset
// available again.
func (s *Service) Return(ctx context.Context, id uint64) (*Asset, *ledger.Record, error) {
	today := s.today()
	var (
		out *Asset
		rec *ledger.Record
	)
	err := s.repo.WithinTx(ctx, func(ctx context.Context, q Queries) error {
		a, err := q.LockAsset(ctx, id)
		if err != nil {
			return fmt.Errorf("lock asset: %w", err)
		}
		if a == nil {
			return errAssetNotFound
		}
		if err := a.Status.checkReturn(); err != nil {
			return err
		}
		ok, err := q.TransitionStatus(ctx, id, StatusAssigned, StatusAvailable, nil)
		if err != nil {
			return fmt.Errorf("set status: %w", err)
		}
		if !ok {
			return errReturnNotAssigned
		}

		rec, err = q.CloseAssignment(ctx, id, today)
		if errors.Is(err, ledger.ErrNoOpenRecord) {
			s.logger.Error("assigned asset has no open assignment", zap.Uint64("asset_id", id))
			return errNoOpenRecord
		}
		if err != nil {
			return fmt.Errorf("close assignment: %w", err)
		}
		a.Status = StatusAvailable
		out = a
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("asset returned", zap.Uint64("asset_id", id), zap.String("estado", string(StatusAvailable)))
	return out, rec, nil
}

// Decommission retires an asset for good. The reason is stored as given.
func (s *Service) Decommission(ctx context.Context, id uint64, reason string) (*Asset, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, errReasonBlank
	}
	var out *Asset
	err := s.repo.WithinTx(ctx, func(ctx context.Context, q Queries) error {
		a, err := q.LockAsset(ctx, id)
		if err != nil {
			return fmt.Errorf("lock asset: %w", err)
		}
		if a == nil {
			return errAssetNotFound
		}
		if err := a.Status.checkDecommission(); err != nil {
			return err
		}
		ok, err := q.TransitionStatus(ctx, id, a.Status, StatusDecommissioned, &reason)
		if err != nil {
			return fmt.Errorf("set status: %w", err)
		}
		if !ok {
			return errDecommissionAssigned
		}
		a.Status = StatusDecommissioned
		a.DecommissionReason = &reason
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("asset decommissioned", zap.Uint64("asset_id", id), zap.String("estado", string(StatusDecommissioned)))
	return out, nil
}

// Delete removes an asset that is not assigned, together with its history.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	var removed int64
	err := s.repo.WithinTx(ctx, func(ctx context.Context, q Queries) error {
		a, err := q.LockAsset(ctx, id)
		if err != nil {
			return fmt.Errorf("lock asset: %w", err)
		}
		if a == nil {
			return errAssetNotFound
		}
		if err := a.Status.checkDelete(); err != nil {
			return err
		}
		if removed, err = q.DeleteAssignments(ctx, id); err != nil {
			return fmt.Errorf("delete history: %w", err)
		}
		n, err := q.DeleteAsset(ctx, id)
		if err != nil {
			return fmt.Errorf("delete asset: %w", err)
		}
		if n == 0 {
			return errAssetNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("asset deleted", zap.Uint64("asset_id", id), zap.Int64("historico_borrado", removed))
	return nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*Asset, error) {
	a, err := s.repo.GetAsset(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	if a == nil {
		return nil, errAssetNotFound
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Asset, error) {
	all, err := s.repo.ListAssets(ctx, f.IncludeDecommissioned)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	needle := textnorm.Key(f.Search)
	if needle == "" {
		return all, nil
	}
	out := make([]Asset, 0, len(all))
	for _, a := range all {
		if matches(&a, needle) {
			out = append(out, a)
		}
	}
	return out, nil
}

func matches(a *Asset, needle string) bool {
	fields := []string{a.Code, a.Reference, a.Description, a.TypeName}
	if a.Custodian != nil {
		fields = append(fields, *a.Custodian)
	}
	for _, f := range fields {
		if strings.Contains(textnorm.Key(f), needle) {
			return true
		}
	}
	return false
}
