package assets

import (
	"gestion-activos-backend/internal/asset_mgmt/ledger"
	"gestion-activos-backend/internal/platform/dates"
)

// AssetRequest is the body of create and edit. On create an empty codigo asks
// for the next code of the type's prefix.
type AssetRequest struct {
	TipoID        uint64      `json:"tipoId" binding:"required"`
	Codigo        string      `json:"codigo" binding:"max=255"`
	Referencia    string      `json:"referencia" binding:"notblank,max=255"`
	Descripcion   string      `json:"descripcion"`
	Marca         *string     `json:"marca" binding:"omitempty,max=255"`
	Detalles      *string     `json:"detalles"`
	Area          *string     `json:"area" binding:"omitempty,max=255"`
	Responsable   *string     `json:"responsable" binding:"omitempty,max=255"`
	FechaRevision *dates.Date `json:"fechaRevision"`
}

type AssignRequest struct {
	Persona                 string     `json:"persona" binding:"max=255"`
	FechaDevolucionPrevista dates.Date `json:"fechaDevolucionPrevista"`
}

type DecommissionRequest struct {
	Motivo string `json:"motivo"`
}

type TransitionResponse struct {
	Message   string         `json:"message"`
	Activo    *Asset         `json:"activo"`
	Historico *ledger.Record `json:"historico,omitempty"`
}

// ImportRowResult is the outcome of one data row. Fila is the line number in
// the uploaded file, the header being line 1.
type ImportRowResult struct {
	Fila    int     `json:"fila"`
	Ok      bool    `json:"ok"`
	Omitido bool    `json:"omitido,omitempty"`
	Error   *string `json:"error,omitempty"`
	ID      *uint64 `json:"id,omitempty"`
	Codigo  *string `json:"codigo,omitempty"`
}

type ImportResponse struct {
	Total      int               `json:"total"`
	Creados    int               `json:"creados"`
	Omitidos   int               `json:"omitidos"`
	Errores    int               `json:"errores"`
	Resultados []ImportRowResult `json:"resultados"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
