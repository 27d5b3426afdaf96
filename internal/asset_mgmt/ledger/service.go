package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"gestion-activos-backend/internal/platform/apierr"
)

// Service exposes the read side of the ledger to the API.
type Service struct {
	db     *sql.DB
	ledger *Ledger
}

func NewService(conn *sql.DB, l *Ledger) *Service {
	return &Service{db: conn, ledger: l}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Record, error) {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, apierr.Invalid("La fecha desde no puede ser posterior a la fecha hasta")
	}
	recs, err := s.ledger.List(ctx, s.db, f)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return recs, nil
}

func (s *Service) ListByAsset(ctx context.Context, assetID uint64) ([]Record, error) {
	recs, err := s.ledger.ListByAsset(ctx, s.db, assetID)
	if err != nil {
		return nil, fmt.Errorf("list asset history: %w", err)
	}
	return recs, nil
}
