package assets

import "gestion-activos-backend/internal/platform/dates"

type Asset struct {
	ID                 uint64      `json:"id"`
	TypeID             uint64      `json:"tipoId"`
	TypeName           string      `json:"tipoNombre"`
	Code               string      `json:"codigo"`
	Reference          string      `json:"referencia"`
	Description        string      `json:"descripcion"`
	Brand              *string     `json:"marca"`
	Details            *string     `json:"detalles"`
	Area               *string     `json:"area"`
	Custodian          *string     `json:"responsable"`
	ReviewDate         *dates.Date `json:"fechaRevision"`
	Status             Status      `json:"estado"`
	DecommissionReason *string     `json:"motivoBaja"`
}

// ListFilter selects assets for List and Export.
type ListFilter struct {
	IncludeDecommissioned bool
	// Search matches code, reference, description, type name or custodian,
	// ignoring case and accents.
	Search string
}
