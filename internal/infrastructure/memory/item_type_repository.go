package memory

import (
	"context"

	"github.com/jhoicas/control-equipos-api/internal/domain"
	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

var _ repository.ItemTypeRepository = (*ItemTypeRepo)(nil)

// ItemTypeRepo catálogo de tipos de ítem en memoria.
type ItemTypeRepo struct {
	base
}

// NewItemTypeRepository construye el repositorio fuera de transacción.
func NewItemTypeRepository(st *Store) *ItemTypeRepo {
	return &ItemTypeRepo{base{st: st}}
}

func (r *ItemTypeRepo) Create(ctx context.Context, item *entity.ItemType) error {
	return r.do(ctx, func(d *state) error {
		if err := checkItemUnique(d, item); err != nil {
			return err
		}
		d.items[item.ID] = *item
		return nil
	})
}

func (r *ItemTypeRepo) GetByID(ctx context.Context, id string) (*entity.ItemType, error) {
	return r.find(ctx, func(it *entity.ItemType) bool { return it.ID == id })
}

func (r *ItemTypeRepo) GetByNombre(ctx context.Context, nombre string) (*entity.ItemType, error) {
	return r.find(ctx, func(it *entity.ItemType) bool { return it.Nombre == nombre })
}

func (r *ItemTypeRepo) GetBySKU(ctx context.Context, sku string) (*entity.ItemType, error) {
	return r.find(ctx, func(it *entity.ItemType) bool { return it.SKU != nil && *it.SKU == sku })
}

func (r *ItemTypeRepo) GetByCodigoBarras(ctx context.Context, codigo string) (*entity.ItemType, error) {
	return r.find(ctx, func(it *entity.ItemType) bool { return it.CodigoBarras != nil && *it.CodigoBarras == codigo })
}

func (r *ItemTypeRepo) Update(ctx context.Context, item *entity.ItemType) error {
	return r.do(ctx, func(d *state) error {
		if _, ok := d.items[item.ID]; !ok {
			return domain.NotFound("tipo de ítem %s no encontrado", item.ID)
		}
		if err := checkItemUnique(d, item); err != nil {
			return err
		}
		d.items[item.ID] = *item
		return nil
	})
}

func (r *ItemTypeRepo) Delete(ctx context.Context, id string) error {
	return r.do(ctx, func(d *state) error {
		if _, ok := d.items[id]; !ok {
			return domain.NotFound("tipo de ítem %s no encontrado", id)
		}
		stock, movs := countItemRefs(d, id)
		if stock > 0 || movs > 0 {
			return domain.Wrap(domain.ErrConflict, domain.ErrInUse, "el tipo de ítem %s tiene registros asociados", id)
		}
		delete(d.items, id)
		return nil
	})
}

func (r *ItemTypeRepo) List(ctx context.Context, limit, offset int) ([]*entity.ItemType, error) {
	var out []*entity.ItemType
	err := r.do(ctx, func(d *state) error {
		for _, it := range paginate(sortedItems(d), limit, offset) {
			it := it
			out = append(out, &it)
		}
		return nil
	})
	return out, err
}

func (r *ItemTypeRepo) CountReferences(ctx context.Context, id string) (stock, movimientos int, err error) {
	err = r.do(ctx, func(d *state) error {
		stock, movimientos = countItemRefs(d, id)
		return nil
	})
	return stock, movimientos, err
}

func (r *ItemTypeRepo) ListLowStock(ctx context.Context, limit, offset int) ([]entity.LowStockItem, error) {
	var out []entity.LowStockItem
	err := r.do(ctx, func(d *state) error {
		totals := map[string]int64{}
		for _, s := range d.stock {
			totals[s.TipoItemID] += int64(s.CantidadActual)
		}
		var low []entity.LowStockItem
		for _, it := range sortedItems(d) {
			if totals[it.ID] <= int64(it.StockMinimo) {
				low = append(low, entity.LowStockItem{Item: it, StockTotal: totals[it.ID]})
			}
		}
		out = paginate(low, limit, offset)
		return nil
	})
	return out, err
}

func (r *ItemTypeRepo) find(ctx context.Context, match func(*entity.ItemType) bool) (*entity.ItemType, error) {
	var found *entity.ItemType
	err := r.do(ctx, func(d *state) error {
		for _, it := range d.items {
			if match(&it) {
				it := it
				found = &it
				return nil
			}
		}
		return nil
	})
	return found, err
}

func sortedItems(d *state) []entity.ItemType {
	return sortedValues(d.items, func(a, b *entity.ItemType) bool { return a.Nombre < b.Nombre })
}

func checkItemUnique(d *state, item *entity.ItemType) error {
	for _, other := range d.items {
		if other.ID == item.ID {
			continue
		}
		if other.Nombre == item.Nombre {
			return domain.Wrap(domain.ErrConflict, domain.ErrDuplicate, "ya existe un tipo de ítem con el nombre '%s'", item.Nombre)
		}
		if item.SKU != nil && eqPtr(other.SKU, item.SKU) {
			return domain.Wrap(domain.ErrConflict, domain.ErrDuplicate, "el SKU '%s' ya está en uso", *item.SKU)
		}
		if item.CodigoBarras != nil && eqPtr(other.CodigoBarras, item.CodigoBarras) {
			return domain.Wrap(domain.ErrConflict, domain.ErrDuplicate, "el código de barras '%s' ya está en uso", *item.CodigoBarras)
		}
	}
	return nil
}

func countItemRefs(d *state, id string) (stock, movs int) {
	for _, s := range d.stock {
		if s.TipoItemID == id {
			stock++
		}
	}
	for _, m := range d.movements {
		if m.TipoItemID == id {
			movs++
		}
	}
	return stock, movs
}
