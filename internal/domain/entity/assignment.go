package entity

import (
	"errors"
	"time"
)

// TargetKind destino de una asignación de licencia.
type TargetKind int

const (
	TargetEquipment TargetKind = iota + 1
	TargetUser
)

func (k TargetKind) String() string {
	switch k {
	case TargetEquipment:
		return "equipo"
	case TargetUser:
		return "usuario"
	}
	return "desconocido"
}

// ErrInvalidTarget se devuelve cuando no se indica exactamente uno de equipo o usuario.
var ErrInvalidTarget = errors.New("debe especificar exactamente un equipo o un usuario")

// Target a quién se asigna un puesto de licencia: un equipo o un usuario, nunca ambos.
type Target struct {
	kind TargetKind
	id   string
}

// EquipmentTarget destino equipo.
func EquipmentTarget(id string) Target { return Target{kind: TargetEquipment, id: id} }

// UserTarget destino usuario.
func UserTarget(id string) Target { return Target{kind: TargetUser, id: id} }

// NewTarget construye el destino desde los dos campos opcionales de la API.
func NewTarget(equipoID, usuarioID *string) (Target, error) {
	hasEquipo := equipoID != nil && *equipoID != ""
	hasUsuario := usuarioID != nil && *usuarioID != ""
	switch {
	case hasEquipo && !hasUsuario:
		return EquipmentTarget(*equipoID), nil
	case hasUsuario && !hasEquipo:
		return UserTarget(*usuarioID), nil
	}
	return Target{}, ErrInvalidTarget
}

func (t Target) Kind() TargetKind { return t.kind }
func (t Target) ID() string       { return t.id }
func (t Target) IsZero() bool     { return t.kind == 0 }

// Columns devuelve la representación en dos columnas anulables (equipo_id, usuario_id).
func (t Target) Columns() (equipoID, usuarioID *string) {
	id := t.id
	switch t.kind {
	case TargetEquipment:
		return &id, nil
	case TargetUser:
		return nil, &id
	}
	return nil, nil
}

// Assignment puesto de licencia asignado (asignaciones_licencia).
type Assignment struct {
	ID              string
	LicenciaID      string
	Target          Target
	FechaAsignacion time.Time
	Instalado       bool
	Notas           *string
}
