package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/control-equipos-api/internal/application/dto"
	"github.com/jhoicas/control-equipos-api/internal/domain"
	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
	domaininv "github.com/jhoicas/control-equipos-api/internal/domain/inventory"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

// StockUseCase consultas sobre registros de stock, edición de detalles y conciliación.
// Cantidad y costo promedio no se editan aquí: solo cambian vía movimientos.
type StockUseCase struct {
	txRunner  TxRunner
	stockRepo repository.StockRepository
	itemRepo  repository.ItemTypeRepository
	movRepo   repository.MovementRepository
	log       zerolog.Logger
	now       func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemTypeRepository,
	movRepo repository.MovementRepository,
	log zerolog.Logger,
) *StockUseCase {
	return &StockUseCase{
		txRunner:  txRunner,
		stockRepo: stockRepo,
		itemRepo:  itemRepo,
		movRepo:   movRepo,
		log:       log,
		now:       time.Now,
	}
}

// List lista registros de stock ordenados por ubicación y tipo de ítem.
func (uc *StockUseCase) List(ctx context.Context, in dto.StockListRequest) ([]dto.StockResponse, error) {
	in.DefaultPage()
	f := entity.StockFilter{
		TipoItemID: in.TipoItemID,
		Ubicacion:  strings.TrimSpace(in.Ubicacion),
		Lote:       strings.TrimSpace(in.Lote),
	}
	list, err := uc.stockRepo.List(ctx, f, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toStockResponse(s))
	}
	return out, nil
}

// GetByID obtiene un registro de stock.
func (uc *StockUseCase) GetByID(ctx context.Context, id string) (*dto.StockResponse, error) {
	s, err := uc.stockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFound("registro de stock %s no encontrado", id)
	}
	resp := toStockResponse(s)
	return &resp, nil
}

// UpdateDetails modifica lote, fecha de caducidad y notas de un registro.
// Sin campos válidos devuelve ErrBadRequest; si el nuevo lote ya existe para el mismo ítem y
// ubicación devuelve conflicto. Cambiar el lote de un registro con existencias deja en el log
// una pareja de transferencia entre ambos lotes, para que la conciliación siga cuadrando.
func (uc *StockUseCase) UpdateDetails(ctx context.Context, userID, id string, in dto.UpdateStockDetailsRequest) (*dto.StockResponse, error) {
	if !in.Lote.Set && !in.FechaCaducidad.Set && !in.Notas.Set {
		return nil, domain.BadRequest("no se proporcionaron campos válidos para actualizar (lote, fecha_caducidad, notas)")
	}

	var updated *entity.StockRecord
	now := uc.now().UTC()
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		_ repository.ItemTypeRepository,
	) error {
		rec, err := stockRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.NotFound("registro de stock %s no encontrado", id)
		}
		if in.Lote.Set {
			newKey := entity.StockKey{TipoItemID: rec.TipoItemID, Ubicacion: rec.Ubicacion, Lote: trimmed(in.Lote.Ptr())}
			if !newKey.Same(rec.Key()) {
				other, err := stockRepo.Find(ctx, newKey)
				if err != nil {
					return err
				}
				if other != nil && other.ID != rec.ID {
					return domain.Wrap(domain.ErrConflict, domain.ErrDuplicate,
						"ya existe un registro de stock para este ítem en '%s' con el lote indicado", rec.Ubicacion)
				}
				if rec.CantidadActual > 0 {
					for _, m := range relabelMovements(rec, newKey.Lote, userID, now) {
						if err := movRepo.Create(ctx, m); err != nil {
							return err
						}
					}
				}
			}
			rec.Lote = newKey.Lote
		}
		if in.FechaCaducidad.Set {
			if in.FechaCaducidad.Valid && !in.FechaCaducidad.Value.IsZero() {
				t := in.FechaCaducidad.Value.Time
				rec.FechaCaducidad = &t
			} else {
				rec.FechaCaducidad = nil
			}
		}
		if in.Notas.Set {
			rec.Notas = in.Notas.Ptr()
		}
		rec.UltimaActualizacion = now
		if err := stockRepo.UpdateDetails(ctx, rec); err != nil {
			return err
		}
		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("stock_id", id).Msg("detalles de stock actualizados")
	resp := toStockResponse(updated)
	return &resp, nil
}

// TotalForItem suma la cantidad del ítem en todas sus ubicaciones y lotes (0 si no hay registros).
func (uc *StockUseCase) TotalForItem(ctx context.Context, tipoItemID string) (*dto.StockTotalResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, tipoItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("tipo de ítem %s no encontrado", tipoItemID)
	}
	total, err := uc.stockRepo.TotalForItem(ctx, tipoItemID)
	if err != nil {
		return nil, err
	}
	return &dto.StockTotalResponse{TipoItemID: tipoItemID, CantidadTotal: total}, nil
}

// Reconcile reproduce el log de movimientos desde cero y lo compara con los registros guardados.
func (uc *StockUseCase) Reconcile(ctx context.Context) (*dto.StockReconciliationResponse, error) {
	movs, err := uc.movRepo.ListChronological(ctx)
	if err != nil {
		return nil, err
	}
	records, err := uc.stockRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.StockReconciliationResponse{
		Movimientos:   len(movs),
		Registros:     len(records),
		Discrepancias: []dto.StockDiscrepancy{},
	}
	snap, err := domaininv.Replay(movs)
	if err != nil {
		resp.Errores = append(resp.Errores, err.Error())
	}

	seen := make(map[string]bool, len(records))
	for _, r := range records {
		key := r.Key().String()
		seen[key] = true
		var expQty int
		var expCost *decimal.Decimal
		if pos, ok := snap[key]; ok {
			expQty, expCost = pos.Cantidad, pos.Costo
		}
		// Sin existencias el costo promedio no interviene en ningún cálculo posterior.
		if r.CantidadActual == 0 && expQty == 0 {
			continue
		}
		if r.CantidadActual != expQty || !sameCost(r.CostoPromedioPonderado, expCost) {
			resp.Discrepancias = append(resp.Discrepancias, dto.StockDiscrepancy{
				TipoItemID:       r.TipoItemID,
				Ubicacion:        r.Ubicacion,
				Lote:             r.Lote,
				CantidadGuardada: r.CantidadActual,
				CantidadEsperada: expQty,
				CostoGuardado:    r.CostoPromedioPonderado,
				CostoEsperado:    expCost,
			})
		}
	}
	for key, pos := range snap {
		if seen[key] || pos.Cantidad == 0 {
			continue
		}
		resp.Discrepancias = append(resp.Discrepancias, dto.StockDiscrepancy{
			TipoItemID:       pos.Key.TipoItemID,
			Ubicacion:        pos.Key.Ubicacion,
			Lote:             pos.Key.Lote,
			CantidadEsperada: pos.Cantidad,
			CostoEsperado:    pos.Costo,
		})
	}
	resp.Consistente = len(resp.Discrepancias) == 0 && len(resp.Errores) == 0
	if !resp.Consistente {
		uc.log.Warn().Int("discrepancias", len(resp.Discrepancias)).Msg("conciliación de stock con diferencias")
	}
	return resp, nil
}

// relabelMovements pareja Transferencia Salida / Entrada que traslada toda la cantidad del
// registro de su lote actual al nuevo, dentro de la misma ubicación y al costo promedio vigente.
// El registro se reetiqueta en sitio; los movimientos solo se escriben en el log.
func relabelMovements(rec *entity.StockRecord, nuevoLote *string, userID string, now time.Time) []*entity.Movement {
	ref := uuid.New().String()
	nota := "reetiquetado de lote"
	ubicacion := rec.Ubicacion
	var usuario *string
	if userID != "" {
		usuario = &userID
	}
	salida := &entity.Movement{
		ID:                      uuid.New().String(),
		TipoItemID:              rec.TipoItemID,
		TipoMovimiento:          entity.MovTransferenciaSalida,
		Cantidad:                rec.CantidadActual,
		UbicacionOrigen:         &ubicacion,
		LoteOrigen:              rec.Lote,
		UsuarioID:               usuario,
		FechaHora:               now,
		CostoUnitario:           rec.CostoPromedioPonderado,
		ReferenciaTransferencia: &ref,
		Notas:                   &nota,
	}
	entrada := *salida
	entrada.ID = uuid.New().String()
	entrada.TipoMovimiento = entity.MovTransferenciaEntrada
	entrada.UbicacionOrigen, entrada.LoteOrigen = nil, nil
	entrada.UbicacionDestino, entrada.LoteDestino = &ubicacion, nuevoLote
	return []*entity.Movement{salida, &entrada}
}

func sameCost(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func toStockResponse(s *entity.StockRecord) dto.StockResponse {
	return dto.StockResponse{
		ID:                     s.ID,
		TipoItemID:             s.TipoItemID,
		Ubicacion:              s.Ubicacion,
		Lote:                   s.Lote,
		FechaCaducidad:         dto.DatePtr(s.FechaCaducidad),
		CantidadActual:         s.CantidadActual,
		CostoPromedioPonderado: s.CostoPromedioPonderado,
		Notas:                  s.Notas,
		UltimaActualizacion:    s.UltimaActualizacion,
	}
}
