package dto

import "time"

// CreateItemTypeRequest body para POST /api/inventario/tipos/.
type CreateItemTypeRequest struct {
	Nombre               string  `json:"nombre" validate:"required,min=1,max=255"`
	Descripcion          *string `json:"descripcion,omitempty"`
	Categoria            string  `json:"categoria" validate:"required,oneof='Consumible' 'Parte Repuesto' 'Accesorio' 'Otro'"`
	UnidadMedida         string  `json:"unidad_medida" validate:"omitempty,max=50"`
	Marca                *string `json:"marca,omitempty" validate:"omitempty,max=100"`
	Modelo               *string `json:"modelo,omitempty" validate:"omitempty,max=100"`
	SKU                  *string `json:"sku,omitempty" validate:"omitempty,max=100"`
	CodigoBarras         *string `json:"codigo_barras,omitempty" validate:"omitempty,max=100"`
	StockMinimo          int     `json:"stock_minimo" validate:"min=0"`
	Perecedero           bool    `json:"perecedero"`
	ProveedorPreferidoID *string `json:"proveedor_preferido_id,omitempty"`
}

// UpdateItemTypeRequest body para PUT /api/inventario/tipos/{id}.
type UpdateItemTypeRequest struct {
	Nombre               *string `json:"nombre,omitempty" validate:"omitempty,min=1,max=255"`
	Descripcion          *string `json:"descripcion,omitempty"`
	Categoria            *string `json:"categoria,omitempty" validate:"omitempty,oneof='Consumible' 'Parte Repuesto' 'Accesorio' 'Otro'"`
	UnidadMedida         *string `json:"unidad_medida,omitempty" validate:"omitempty,max=50"`
	Marca                *string `json:"marca,omitempty"`
	Modelo               *string `json:"modelo,omitempty"`
	SKU                  *string `json:"sku,omitempty"`
	CodigoBarras         *string `json:"codigo_barras,omitempty"`
	StockMinimo          *int    `json:"stock_minimo,omitempty" validate:"omitempty,min=0"`
	Perecedero           *bool   `json:"perecedero,omitempty"`
	ProveedorPreferidoID *string `json:"proveedor_preferido_id,omitempty"`
}

// ItemTypeResponse salida de un tipo de ítem.
type ItemTypeResponse struct {
	ID                   string    `json:"id"`
	Nombre               string    `json:"nombre"`
	Descripcion          *string   `json:"descripcion"`
	Categoria            string    `json:"categoria"`
	UnidadMedida         string    `json:"unidad_medida"`
	Marca                *string   `json:"marca"`
	Modelo               *string   `json:"modelo"`
	SKU                  *string   `json:"sku"`
	CodigoBarras         *string   `json:"codigo_barras"`
	StockMinimo          int       `json:"stock_minimo"`
	Perecedero           bool      `json:"perecedero"`
	ProveedorPreferidoID *string   `json:"proveedor_preferido_id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ItemTypeListResponse lista paginada de tipos de ítem.
type ItemTypeListResponse struct {
	Items []ItemTypeResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// LowStockItemResponse ítem bajo su stock mínimo.
type LowStockItemResponse struct {
	ItemTypeResponse
	StockTotal int64 `json:"stock_total"`
	Faltante   int64 `json:"faltante"`
}
