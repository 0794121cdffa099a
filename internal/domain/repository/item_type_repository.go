package repository

import (
	"context"

	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
)

// ItemTypeRepository define el puerto de persistencia para el catálogo de tipos de ítem (DIP).
// Los Get* devuelven (nil, nil) cuando no existe la fila.
type ItemTypeRepository interface {
	Create(ctx context.Context, item *entity.ItemType) error
	GetByID(ctx context.Context, id string) (*entity.ItemType, error)
	GetByNombre(ctx context.Context, nombre string) (*entity.ItemType, error)
	GetBySKU(ctx context.Context, sku string) (*entity.ItemType, error)
	GetByCodigoBarras(ctx context.Context, codigo string) (*entity.ItemType, error)
	Update(ctx context.Context, item *entity.ItemType) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.ItemType, error)
	// CountReferences cuenta registros de stock y movimientos que apuntan al ítem.
	CountReferences(ctx context.Context, id string) (stock, movimientos int, err error)
	// ListLowStock devuelve los ítems con stock total <= stock_minimo; sin registros cuenta como 0.
	ListLowStock(ctx context.Context, limit, offset int) ([]entity.LowStockItem, error)
}
