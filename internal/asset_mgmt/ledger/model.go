package ledger

import "gestion-activos-backend/internal/platform/dates"

// Record is one custody period of an asset. It is open while ReturnedOn is nil.
type Record struct {
	ID             uint64      `json:"id"`
	ULID           string      `json:"ulid"`
	AssetID        uint64      `json:"activoId"`
	AssetCode      string      `json:"activoCodigo"`
	AssetReference string      `json:"activoReferencia"`
	TypeName       *string     `json:"tipoNombre,omitempty"`
	Custodian      string      `json:"persona"`
	AssignedOn     dates.Date  `json:"fechaAsignacion"`
	DueBackOn      dates.Date  `json:"fechaDevolucionPrevista"`
	ReturnedOn     *dates.Date `json:"fechaDevolucion"`
}

func (r *Record) IsOpen() bool { return r.ReturnedOn == nil }

// Snapshot is the asset data copied into a record when it is opened.
type Snapshot struct {
	Code      string
	Reference string
}

type Filter struct {
	AssetID   *uint64
	Custodian string
	OpenOnly  bool
	From      *dates.Date
	To        *dates.Date
}
