package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
	domaininv "github.com/jhoicas/control-equipos-api/internal/domain/inventory"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

// applyToStock aplica un movimiento ya validado sobre los registros de stock.
// Debe ejecutarse dentro de TxRunner.Run: los registros quedan bloqueados hasta el commit.
//
// Origen: bloquea la fila (SELECT FOR UPDATE); si no existe o no alcanza, conflicto de stock.
// Destino: get-or-create bajo bloqueo, suma la cantidad y recalcula el costo promedio.
func applyToStock(ctx context.Context, stockRepo repository.StockRepository, m *entity.Movement, now time.Time) error {
	if k := m.OriginKey(); k != nil {
		rec, err := stockRepo.GetForUpdate(ctx, *k)
		if err != nil {
			return err
		}
		if rec == nil {
			return domaininv.InsufficientStock(*k, 0, m.Cantidad)
		}
		if rec.CantidadActual < m.Cantidad {
			return domaininv.InsufficientStock(*k, rec.CantidadActual, m.Cantidad)
		}
		rec.CantidadActual -= m.Cantidad
		rec.UltimaActualizacion = now
		if err := stockRepo.UpdateQuantity(ctx, rec); err != nil {
			return err
		}
	}

	if k := m.DestinationKey(); k != nil {
		rec, err := stockRepo.GetOrCreateForUpdate(ctx, *k)
		if err != nil {
			return err
		}
		rec.CostoPromedioPonderado = domaininv.CostCalculator(rec.CantidadActual, rec.CostoPromedioPonderado, m.Cantidad, m.CostoUnitario)
		rec.CantidadActual += m.Cantidad
		rec.UltimaActualizacion = now
		if err := stockRepo.UpdateQuantity(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
