package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LicensePool lote de licencias adquiridas de un software (licencias_software).
// Invariante: 0 <= CantidadDisponible <= CantidadTotal y
// CantidadDisponible == CantidadTotal - asignaciones vivas.
type LicensePool struct {
	ID                 string
	SoftwareID         string
	ClaveProducto      *string
	FechaAdquisicion   time.Time
	FechaExpiracion    *time.Time
	ProveedorID        *string
	CostoAdquisicion   *decimal.Decimal
	NumeroOrdenCompra  *string
	CantidadTotal      int
	CantidadDisponible int
	Notas              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Assigned cantidad de puestos ocupados según los contadores.
func (p *LicensePool) Assigned() int {
	return p.CantidadTotal - p.CantidadDisponible
}
