package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSoftwareRequest body para POST /api/licencias/catalogo/.
type CreateSoftwareRequest struct {
	Nombre                string  `json:"nombre" validate:"required,min=1,max=255"`
	Version               *string `json:"version,omitempty" validate:"omitempty,max=50"`
	Fabricante            *string `json:"fabricante,omitempty" validate:"omitempty,max=100"`
	Categoria             *string `json:"categoria,omitempty"`
	TipoLicencia          *string `json:"tipo_licencia,omitempty"`
	MetricaLicenciamiento *string `json:"metrica_licenciamiento,omitempty"`
}

// SoftwareResponse salida del catálogo de software.
type SoftwareResponse struct {
	ID                    string    `json:"id"`
	Nombre                string    `json:"nombre"`
	Version               *string   `json:"version"`
	Fabricante            *string   `json:"fabricante"`
	Categoria             *string   `json:"categoria"`
	TipoLicencia          *string   `json:"tipo_licencia"`
	MetricaLicenciamiento *string   `json:"metrica_licenciamiento"`
	CreatedAt             time.Time `json:"created_at"`
}

// CreateLicensePoolRequest body para POST /api/licencias/.
// cantidad_disponible no se acepta: siempre arranca igual a cantidad_total.
type CreateLicensePoolRequest struct {
	SoftwareCatalogoID string           `json:"software_catalogo_id" validate:"required"`
	ClaveProducto      *string          `json:"clave_producto,omitempty"`
	FechaAdquisicion   *Date            `json:"fecha_adquisicion" validate:"required"`
	FechaExpiracion    *Date            `json:"fecha_expiracion,omitempty"`
	ProveedorID        *string          `json:"proveedor_id,omitempty"`
	CostoAdquisicion   *decimal.Decimal `json:"costo_adquisicion,omitempty"`
	NumeroOrdenCompra  *string          `json:"numero_orden_compra,omitempty"`
	CantidadTotal      int              `json:"cantidad_total"`
	Notas              *string          `json:"notas,omitempty"`
}

// UpdateLicensePoolRequest body para PUT /api/licencias/{id}.
// CantidadDisponible se recibe solo para poder descartarla explícitamente.
type UpdateLicensePoolRequest struct {
	ClaveProducto      *string          `json:"clave_producto,omitempty"`
	FechaAdquisicion   *Date            `json:"fecha_adquisicion,omitempty"`
	FechaExpiracion    *Date            `json:"fecha_expiracion,omitempty"`
	ProveedorID        *string          `json:"proveedor_id,omitempty"`
	CostoAdquisicion   *decimal.Decimal `json:"costo_adquisicion,omitempty"`
	NumeroOrdenCompra  *string          `json:"numero_orden_compra,omitempty"`
	CantidadTotal      *int             `json:"cantidad_total,omitempty"`
	CantidadDisponible *int             `json:"cantidad_disponible,omitempty"`
	Notas              *string          `json:"notas,omitempty"`
}

// LicensePoolResponse salida de un lote de licencias.
type LicensePoolResponse struct {
	ID                 string           `json:"id"`
	SoftwareCatalogoID string           `json:"software_catalogo_id"`
	ClaveProducto      *string          `json:"clave_producto"`
	FechaAdquisicion   Date             `json:"fecha_adquisicion"`
	FechaExpiracion    *Date            `json:"fecha_expiracion"`
	ProveedorID        *string          `json:"proveedor_id"`
	CostoAdquisicion   *decimal.Decimal `json:"costo_adquisicion"`
	NumeroOrdenCompra  *string          `json:"numero_orden_compra"`
	CantidadTotal      int              `json:"cantidad_total"`
	CantidadDisponible int              `json:"cantidad_disponible"`
	Notas              *string          `json:"notas"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// CreateAssignmentRequest body para POST /api/licencias/asignaciones/.
// Exactamente uno de equipo_id o usuario_id.
type CreateAssignmentRequest struct {
	LicenciaID string  `json:"licencia_id" validate:"required"`
	EquipoID   *string `json:"equipo_id,omitempty"`
	UsuarioID  *string `json:"usuario_id,omitempty"`
	Instalado  *bool   `json:"instalado,omitempty"`
	Notas      *string `json:"notas,omitempty"`
}

// UpdateAssignmentRequest body para PUT /api/licencias/asignaciones/{id}.
// Solo instalado y notas; cualquier otro campo se ignora.
type UpdateAssignmentRequest struct {
	Instalado *bool   `json:"instalado,omitempty"`
	Notas     *string `json:"notas,omitempty"`
}

// AssignmentResponse salida de una asignación.
type AssignmentResponse struct {
	ID              string    `json:"id"`
	LicenciaID      string    `json:"licencia_id"`
	EquipoID        *string   `json:"equipo_id"`
	UsuarioID       *string   `json:"usuario_id"`
	FechaAsignacion time.Time `json:"fecha_asignacion"`
	Instalado       bool      `json:"instalado"`
	Notas           *string   `json:"notas"`
}

// LicenseDiscrepancy lote cuyo contador no coincide con sus asignaciones.
type LicenseDiscrepancy struct {
	LicenciaID         string `json:"licencia_id"`
	CantidadTotal      int    `json:"cantidad_total"`
	CantidadDisponible int    `json:"cantidad_disponible"`
	Asignaciones       int    `json:"asignaciones"`
}

// LicenseReconciliationResponse resultado de comparar contadores y asignaciones.
type LicenseReconciliationResponse struct {
	Lotes         int                  `json:"lotes"`
	Consistente   bool                 `json:"consistente"`
	Discrepancias []LicenseDiscrepancy `json:"discrepancias"`
}
