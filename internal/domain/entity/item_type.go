package entity

import "time"

// Categorías válidas de un tipo de ítem de inventario.
const (
	CategoriaConsumible    = "Consumible"
	CategoriaParteRepuesto = "Parte Repuesto"
	CategoriaAccesorio     = "Accesorio"
	CategoriaOtro          = "Otro"
)

// ValidItemCategory indica si c es una de las categorías admitidas.
func ValidItemCategory(c string) bool {
	switch c {
	case CategoriaConsumible, CategoriaParteRepuesto, CategoriaAccesorio, CategoriaOtro:
		return true
	}
	return false
}

// ItemType es el catálogo de artículos consumibles o repuestos (tipos_item_inventario).
// No guarda cantidades: el stock vive en StockRecord.
type ItemType struct {
	ID                   string
	Nombre               string
	Descripcion          *string
	Categoria            string
	UnidadMedida         string
	Marca                *string
	Modelo               *string
	SKU                  *string
	CodigoBarras         *string
	StockMinimo          int
	Perecedero           bool
	ProveedorPreferidoID *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// LowStockItem es un tipo de ítem cuyo stock total no supera su stock mínimo.
type LowStockItem struct {
	Item       ItemType
	StockTotal int64
}
