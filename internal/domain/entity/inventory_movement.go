package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento de inventario; el valor es el texto que viaja en la API.
type MovementKind string

const (
	MovEntradaCompra        MovementKind = "Entrada Compra"
	MovSalidaUso            MovementKind = "Salida Uso"
	MovSalidaDescarte       MovementKind = "Salida Descarte"
	MovAjustePositivo       MovementKind = "Ajuste Positivo"
	MovAjusteNegativo       MovementKind = "Ajuste Negativo"
	MovTransferenciaSalida  MovementKind = "Transferencia Salida"
	MovTransferenciaEntrada MovementKind = "Transferencia Entrada"
	MovDevolucionProveedor  MovementKind = "Devolucion Proveedor"
	MovDevolucionInterna    MovementKind = "Devolucion Interna"
)

// MovementKinds todos los tipos en orden de presentación.
var MovementKinds = []MovementKind{
	MovEntradaCompra, MovSalidaUso, MovSalidaDescarte,
	MovAjustePositivo, MovAjusteNegativo,
	MovTransferenciaSalida, MovTransferenciaEntrada,
	MovDevolucionProveedor, MovDevolucionInterna,
}

// Movement registro inmutable de un cambio de stock (inventario_movimientos).
// Secuencia da el orden de inserción usado al reproducir el log.
type Movement struct {
	ID                      string
	Secuencia               int64
	TipoItemID              string
	TipoMovimiento          MovementKind
	Cantidad                int
	UbicacionOrigen         *string
	LoteOrigen              *string
	UbicacionDestino        *string
	LoteDestino             *string
	EquipoAsociadoID        *string
	MantenimientoID         *string
	UsuarioID               *string
	FechaHora               time.Time
	CostoUnitario           *decimal.Decimal
	MotivoAjuste            *string
	ReferenciaExterna       *string
	ReferenciaTransferencia *string
	Notas                   *string
}

// OriginKey clave del registro de stock de origen (nil si el movimiento no tiene origen).
func (m *Movement) OriginKey() *StockKey {
	if m.UbicacionOrigen == nil {
		return nil
	}
	return &StockKey{TipoItemID: m.TipoItemID, Ubicacion: *m.UbicacionOrigen, Lote: m.LoteOrigen}
}

// DestinationKey clave del registro de stock de destino (nil si no hay destino).
func (m *Movement) DestinationKey() *StockKey {
	if m.UbicacionDestino == nil {
		return nil
	}
	return &StockKey{TipoItemID: m.TipoItemID, Ubicacion: *m.UbicacionDestino, Lote: m.LoteDestino}
}

// MovementFilter filtros del listado de movimientos. Ubicacion busca como subcadena en origen
// o destino. FechaDesde es inclusiva y FechaHasta exclusiva.
type MovementFilter struct {
	TipoItemID      string
	Ubicacion       string
	TipoMovimiento  MovementKind
	FechaDesde      *time.Time
	FechaHasta      *time.Time
	UsuarioID       string
	EquipoID        string
	MantenimientoID string
}
