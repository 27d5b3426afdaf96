package assets

import "gestion-activos-backend/internal/platform/apierr"

// Status is the lifecycle state of an asset. Baja is terminal.
//
//	Disponible --assign--> Asignado --return--> Disponible
//	Disponible --decommission--> Baja
type Status string

const (
	StatusAvailable      Status = "Disponible"
	StatusAssigned       Status = "Asignado"
	StatusDecommissioned Status = "Baja"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusAssigned, StatusDecommissioned:
		return true
	}
	return false
}

var (
	errAssignNotAvailable    = apierr.InvalidState("Solo se pueden asignar activos disponibles")
	errReturnNotAssigned     = apierr.InvalidState("Solo se pueden devolver activos asignados")
	errEditAssigned          = apierr.InvalidState("No se puede editar un activo asignado. Primero debe devolverse.")
	errDecommissionAssigned  = apierr.InvalidState("No se puede dar de baja un activo asignado")
	errAlreadyDecommissioned = apierr.InvalidState("El activo ya está dado de baja")
	errDeleteAssigned        = apierr.InvalidState("No se puede eliminar un activo que está asignado. Primero debe devolverse.")
)

func (s Status) checkEdit() error {
	if s == StatusAssigned {
		return errEditAssigned
	}
	return nil
}

func (s Status) checkAssign() error {
	if s != StatusAvailable {
		return errAssignNotAvailable
	}
	return nil
}

func (s Status) checkReturn() error {
	if s != StatusAssigned {
		return errReturnNotAssigned
	}
	return nil
}

func (s Status) checkDecommission() error {
	switch s {
	case StatusAssigned:
		return errDecommissionAssigned
	case StatusDecommissioned:
		return errAlreadyDecommissioned
	}
	return nil
}

func (s Status) checkDelete() error {
	if s == StatusAssigned {
		return errDeleteAssigned
	}
	return nil
}
