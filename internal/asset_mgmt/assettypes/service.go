package assettypes

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gestion-activos-backend/internal/platform/apierr"
	"gestion-activos-backend/internal/platform/db"
	"gestion-activos-backend/internal/platform/textnorm"
)

var (
	errTypeNotFound = apierr.NotFound("Tipo no encontrado")
	errNameTaken    = apierr.Conflict("Ya existe un tipo con ese nombre")
	errPrefixTaken  = apierr.Conflict("Ya existe un tipo con esa codificación")
	errTypeInUse    = apierr.Conflict("No se puede eliminar un tipo que está siendo usado por activos")
)

type Service struct {
	store  *Store
	logger *zap.Logger
}

func NewService(store *Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Type, error) {
	types, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	return types, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*Type, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get type: %w", err)
	}
	if t == nil {
		return nil, errTypeNotFound
	}
	return t, nil
}

func cleanPrefix(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func (s *Service) checkUnique(ctx context.Context, key string, prefix *string, exceptID uint64) error {
	taken, err := s.store.NameKeyTaken(ctx, key, exceptID)
	if err != nil {
		return fmt.Errorf("check type name: %w", err)
	}
	if taken {
		return errNameTaken
	}
	if prefix != nil {
		taken, err := s.store.PrefixTaken(ctx, *prefix, exceptID)
		if err != nil {
			return fmt.Errorf("check type prefix: %w", err)
		}
		if taken {
			return errPrefixTaken
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, req CreateTypeRequest) (*Type, error) {
	name := strings.TrimSpace(req.Nombre)
	if name == "" {
		return nil, apierr.Invalid("El nombre es requerido")
	}
	prefix := cleanPrefix(req.Codificacion)
	key := textnorm.Key(name)
	if err := s.checkUnique(ctx, key, prefix, 0); err != nil {
		return nil, err
	}

	id, err := s.store.Create(ctx, name, key, prefix)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, errNameTaken
		}
		return nil, fmt.Errorf("insert type: %w", err)
	}
	s.logger.Info("asset type created", zap.Uint64("type_id", id), zap.String("nombre", name))
	return &Type{ID: id, Name: name, Prefix: prefix}, nil
}

func (s *Service) Update(ctx context.Context, id uint64, req UpdateTypeRequest) (*Type, error) {
	name := strings.TrimSpace(req.Nombre)
	if name == "" {
		return nil, apierr.Invalid("El nombre es requerido")
	}
	prefix := cleanPrefix(req.Codificacion)
	key := textnorm.Key(name)
	if err := s.checkUnique(ctx, key, prefix, id); err != nil {
		return nil, err
	}

	n, err := s.store.Update(ctx, id, name, key, prefix)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, errNameTaken
		}
		return nil, fmt.Errorf("update type: %w", err)
	}
	if n == 0 {
		return nil, errTypeNotFound
	}
	return &Type{ID: id, Name: name, Prefix: prefix}, nil
}

// Delete refuses while any asset still references the type.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	inUse, err := s.store.CountAssets(ctx, id)
	if err != nil {
		return fmt.Errorf("count assets of type: %w", err)
	}
	if inUse > 0 {
		return errTypeInUse
	}
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		if db.IsRowReferenced(err) {
			return errTypeInUse
		}
		return fmt.Errorf("delete type: %w", err)
	}
	if n == 0 {
		return errTypeNotFound
	}
	s.logger.Info("asset type deleted", zap.Uint64("type_id", id))
	return nil
}

// NextCode suggests the next free code for a type with a prefix.
func (s *Service) NextCode(ctx context.Context, id uint64) (string, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !t.HasPrefix() {
		return "", apierr.Invalid("El tipo no tiene codificación")
	}
	codes, err := s.store.CodesWithPrefix(ctx, *t.Prefix)
	if err != nil {
		return "", fmt.Errorf("list codes: %w", err)
	}
	return NextCode(*t.Prefix, codes)
}
