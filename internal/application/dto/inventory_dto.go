package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventario/movimientos/.
// Los campos obligatorios dependen de tipo_movimiento; la validación completa está en el motor.
type RegisterMovementRequest struct {
	TipoItemID        string           `json:"tipo_item_id" validate:"required"`
	TipoMovimiento    string           `json:"tipo_movimiento" validate:"required"`
	Cantidad          int              `json:"cantidad" validate:"gt=0"`
	UbicacionOrigen   *string          `json:"ubicacion_origen,omitempty" validate:"omitempty,max=255"`
	LoteOrigen        *string          `json:"lote_origen,omitempty" validate:"omitempty,max=100"`
	UbicacionDestino  *string          `json:"ubicacion_destino,omitempty" validate:"omitempty,max=255"`
	LoteDestino       *string          `json:"lote_destino,omitempty" validate:"omitempty,max=100"`
	EquipoAsociadoID  *string          `json:"equipo_asociado_id,omitempty"`
	MantenimientoID   *string          `json:"mantenimiento_id,omitempty"`
	CostoUnitario     *decimal.Decimal `json:"costo_unitario,omitempty"`
	MotivoAjuste      *string          `json:"motivo_ajuste,omitempty"`
	ReferenciaExterna *string          `json:"referencia_externa,omitempty" validate:"omitempty,max=255"`
	Notas             *string          `json:"notas,omitempty"`
}

// RegisterTransferRequest body para POST /api/inventario/movimientos/transferencias.
// Genera la pareja Transferencia Salida / Transferencia Entrada en una sola transacción.
type RegisterTransferRequest struct {
	TipoItemID        string           `json:"tipo_item_id" validate:"required"`
	Cantidad          int              `json:"cantidad" validate:"gt=0"`
	UbicacionOrigen   string           `json:"ubicacion_origen" validate:"required,max=255"`
	LoteOrigen        *string          `json:"lote_origen,omitempty"`
	UbicacionDestino  string           `json:"ubicacion_destino" validate:"required,max=255"`
	LoteDestino       *string          `json:"lote_destino,omitempty"`
	CostoUnitario     *decimal.Decimal `json:"costo_unitario,omitempty"`
	ReferenciaExterna *string          `json:"referencia_externa,omitempty"`
	Notas             *string          `json:"notas,omitempty"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID                      string           `json:"id"`
	TipoItemID              string           `json:"tipo_item_id"`
	TipoMovimiento          string           `json:"tipo_movimiento"`
	Cantidad                int              `json:"cantidad"`
	UbicacionOrigen         *string          `json:"ubicacion_origen"`
	LoteOrigen              *string          `json:"lote_origen"`
	UbicacionDestino        *string          `json:"ubicacion_destino"`
	LoteDestino             *string          `json:"lote_destino"`
	EquipoAsociadoID        *string          `json:"equipo_asociado_id"`
	MantenimientoID         *string          `json:"mantenimiento_id"`
	UsuarioID               *string          `json:"usuario_id"`
	FechaHora               time.Time        `json:"fecha_hora"`
	CostoUnitario           *decimal.Decimal `json:"costo_unitario"`
	MotivoAjuste            *string          `json:"motivo_ajuste"`
	ReferenciaExterna       *string          `json:"referencia_externa"`
	ReferenciaTransferencia *string          `json:"referencia_transferencia"`
	Notas                   *string          `json:"notas"`
}

// MovementListRequest filtros de GET /api/inventario/movimientos/.
type MovementListRequest struct {
	PageRequest
	TipoItemID       string `query:"tipo_item_id"`
	Ubicacion        string `query:"ubicacion"`
	TipoMovimiento   string `query:"tipo_movimiento"`
	StartDate        string `query:"start_date"`
	EndDate          string `query:"end_date"`
	UsuarioID        string `query:"usuario_id"`
	EquipoAsociadoID string `query:"equipo_asociado_id"`
	MantenimientoID  string `query:"mantenimiento_id"`
}

// TransferResponse pareja de movimientos generada por una transferencia.
type TransferResponse struct {
	ReferenciaTransferencia string           `json:"referencia_transferencia"`
	Salida                  MovementResponse `json:"salida"`
	Entrada                 MovementResponse `json:"entrada"`
}

// StockResponse salida de un registro de stock.
type StockResponse struct {
	ID                     string           `json:"id"`
	TipoItemID             string           `json:"tipo_item_id"`
	Ubicacion              string           `json:"ubicacion"`
	Lote                   *string          `json:"lote"`
	FechaCaducidad         *Date            `json:"fecha_caducidad"`
	CantidadActual         int              `json:"cantidad_actual"`
	CostoPromedioPonderado *decimal.Decimal `json:"costo_promedio_ponderado"`
	Notas                  *string          `json:"notas"`
	UltimaActualizacion    time.Time        `json:"ultima_actualizacion"`
}

// StockListRequest filtros de GET /api/inventario/stock/.
type StockListRequest struct {
	PageRequest
	TipoItemID string `query:"tipo_item_id"`
	Ubicacion  string `query:"ubicacion"`
	Lote       string `query:"lote"`
}

// UpdateStockDetailsRequest body para PUT /api/inventario/stock/{id}/details.
// Solo lote, fecha_caducidad y notas; null borra el valor.
type UpdateStockDetailsRequest struct {
	Lote           Nullable[string] `json:"lote"`
	FechaCaducidad Nullable[Date]   `json:"fecha_caducidad"`
	Notas          Nullable[string] `json:"notas"`
}

// StockTotalResponse total de un ítem en todas las ubicaciones.
type StockTotalResponse struct {
	TipoItemID    string `json:"tipo_item_id"`
	CantidadTotal int64  `json:"cantidad_total"`
}

// StockDiscrepancy diferencia entre el registro guardado y la reproducción del log.
type StockDiscrepancy struct {
	TipoItemID       string           `json:"tipo_item_id"`
	Ubicacion        string           `json:"ubicacion"`
	Lote             *string          `json:"lote"`
	CantidadGuardada int              `json:"cantidad_guardada"`
	CantidadEsperada int              `json:"cantidad_esperada"`
	CostoGuardado    *decimal.Decimal `json:"costo_guardado"`
	CostoEsperado    *decimal.Decimal `json:"costo_esperado"`
}

// StockReconciliationResponse resultado de reproducir el log de movimientos.
type StockReconciliationResponse struct {
	Movimientos   int                `json:"movimientos"`
	Registros     int                `json:"registros"`
	Consistente   bool               `json:"consistente"`
	Discrepancias []StockDiscrepancy `json:"discrepancias"`
	Errores       []string           `json:"errores,omitempty"`
}
