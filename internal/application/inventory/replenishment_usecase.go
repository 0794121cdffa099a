package inventory

import (
	"context"

	"github.com/jhoicas/control-equipos-api/internal/application/dto"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

// ReplenishmentUseCase lista los tipos de ítem que necesitan reposición.
type ReplenishmentUseCase struct {
	itemRepo repository.ItemTypeRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(itemRepo repository.ItemTypeRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{itemRepo: itemRepo}
}

// LowStockItems devuelve los ítems cuyo stock total (todas las ubicaciones y lotes) es menor o
// igual que su stock mínimo. Un ítem sin registros de stock cuenta con total 0.
// Faltante es lo que falta para volver al mínimo (0 si ya está justo en el mínimo).
func (uc *ReplenishmentUseCase) LowStockItems(ctx context.Context, page dto.PageRequest) ([]dto.LowStockItemResponse, error) {
	page.DefaultPage()
	rows, err := uc.itemRepo.ListLowStock(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemResponse, 0, len(rows))
	for i := range rows {
		r := rows[i]
		faltante := int64(r.Item.StockMinimo) - r.StockTotal
		if faltante < 0 {
			faltante = 0
		}
		out = append(out, dto.LowStockItemResponse{
			ItemTypeResponse: toItemTypeResponse(&r.Item),
			StockTotal:       r.StockTotal,
			Faltante:         faltante,
		})
	}
	return out, nil
}
