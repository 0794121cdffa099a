package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockKey identifica un registro de stock: (ítem, ubicación, lote).
// Lote nil es una identidad propia, distinta de cualquier cadena.
type StockKey struct {
	TipoItemID string
	Ubicacion  string
	Lote       *string
}

// Same compara dos claves tratando nil como valor propio.
func (k StockKey) Same(o StockKey) bool {
	if k.TipoItemID != o.TipoItemID || k.Ubicacion != o.Ubicacion {
		return false
	}
	if k.Lote == nil || o.Lote == nil {
		return k.Lote == nil && o.Lote == nil
	}
	return *k.Lote == *o.Lote
}

// String representación estable de la clave (para mapas e informes).
func (k StockKey) String() string {
	lote := "\x00"
	if k.Lote != nil {
		lote = *k.Lote
	}
	return k.TipoItemID + "|" + k.Ubicacion + "|" + lote
}

// StockRecord cantidad disponible de un ítem en una ubicación y lote (inventario_stock).
// CantidadActual y CostoPromedioPonderado solo los modifica el motor de movimientos.
type StockRecord struct {
	ID                     string
	TipoItemID             string
	Ubicacion              string
	Lote                   *string
	FechaCaducidad         *time.Time
	CantidadActual         int
	CostoPromedioPonderado *decimal.Decimal
	Notas                  *string
	UltimaActualizacion    time.Time
}

// Key devuelve la clave natural del registro.
func (s *StockRecord) Key() StockKey {
	return StockKey{TipoItemID: s.TipoItemID, Ubicacion: s.Ubicacion, Lote: s.Lote}
}

// StockFilter filtros del listado de stock. Ubicacion y Lote son subcadenas (sin mayúsculas).
type StockFilter struct {
	TipoItemID string
	Ubicacion  string
	Lote       string
}
