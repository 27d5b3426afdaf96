// Package areas exposes the fixed catalogue of organisational areas an asset
// can be placed in. Areas are seeded by migration and read-only over the API.
package areas

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"gestion-activos-backend/internal/platform/apierr"
	"gestion-activos-backend/internal/platform/db"
)

type Area struct {
	ID     uint64 `json:"id"`
	Codigo string `json:"codigo"`
	Nombre string `json:"nombre"`
}

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) *Store { return &Store{db: conn} }

func (s *Store) List(ctx context.Context) ([]Area, error) {
	const q = `SELECT id, codigo, nombre FROM areas ORDER BY codigo`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Area, 0, 16)
	for rows.Next() {
		var a Area
		if err := rows.Scan(&a.ID, &a.Codigo, &a.Nombre); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type Service struct{ store *Store }

func NewService(store *Store) *Service { return &Service{store: store} }

func (s *Service) List(ctx context.Context) ([]Area, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	return list, nil
}

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/areas", h.List)
}

// List godoc
// @Summary  Áreas
// @Tags     Areas
// @Produce  json
// @Success  200 {array} Area
// @Router   /areas [get]
func (h *Handler) List(c *gin.Context) {
	res, err := h.svc.List(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
