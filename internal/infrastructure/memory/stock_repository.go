package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/control-equipos-api/internal/domain"
	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
	domaininv "github.com/jhoicas/control-equipos-api/internal/domain/inventory"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo registros de stock en memoria. Los bloqueos *ForUpdate los cubre el mutex del TxRunner.
type StockRepo struct {
	base
}

// NewStockRepository construye el repositorio fuera de transacción.
func NewStockRepository(st *Store) *StockRepo {
	return &StockRepo{base{st: st}}
}

func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	var found *entity.StockRecord
	err := r.do(ctx, func(d *state) error {
		if s, ok := d.stock[id]; ok {
			found = &s
		}
		return nil
	})
	return found, err
}

func (r *StockRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *StockRepo) Find(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	var found *entity.StockRecord
	err := r.do(ctx, func(d *state) error {
		found = findStock(d, key)
		return nil
	})
	return found, err
}

func (r *StockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	return r.Find(ctx, key)
}

func (r *StockRepo) GetOrCreateForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	var found *entity.StockRecord
	err := r.do(ctx, func(d *state) error {
		if _, ok := d.items[key.TipoItemID]; !ok {
			return domain.Conflict("el tipo de ítem %s no existe", key.TipoItemID)
		}
		found = findStock(d, key)
		if found != nil {
			return nil
		}
		rec := entity.StockRecord{
			ID:         uuid.New().String(),
			TipoItemID: key.TipoItemID,
			Ubicacion:  key.Ubicacion,
			Lote:       key.Lote,
		}
		d.stock[rec.ID] = rec
		found = &rec
		return nil
	})
	return found, err
}

func (r *StockRepo) UpdateQuantity(ctx context.Context, s *entity.StockRecord) error {
	return r.do(ctx, func(d *state) error {
		cur, ok := d.stock[s.ID]
		if !ok {
			return domain.NotFound("registro de stock %s no encontrado", s.ID)
		}
		if s.CantidadActual < 0 {
			return domaininv.InsufficientStock(cur.Key(), cur.CantidadActual, cur.CantidadActual-s.CantidadActual)
		}
		cur.CantidadActual = s.CantidadActual
		cur.CostoPromedioPonderado = s.CostoPromedioPonderado
		cur.UltimaActualizacion = s.UltimaActualizacion
		d.stock[s.ID] = cur
		return nil
	})
}

func (r *StockRepo) UpdateDetails(ctx context.Context, s *entity.StockRecord) error {
	return r.do(ctx, func(d *state) error {
		cur, ok := d.stock[s.ID]
		if !ok {
			return domain.NotFound("registro de stock %s no encontrado", s.ID)
		}
		newKey := entity.StockKey{TipoItemID: cur.TipoItemID, Ubicacion: cur.Ubicacion, Lote: s.Lote}
		if other := findStock(d, newKey); other != nil && other.ID != s.ID {
			return domain.Wrap(domain.ErrConflict, domain.ErrDuplicate, "ya existe un registro de stock con ese lote")
		}
		cur.Lote = s.Lote
		cur.FechaCaducidad = s.FechaCaducidad
		cur.Notas = s.Notas
		cur.UltimaActualizacion = s.UltimaActualizacion
		d.stock[s.ID] = cur
		return nil
	})
}

func (r *StockRepo) List(ctx context.Context, f entity.StockFilter, limit, offset int) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	err := r.do(ctx, func(d *state) error {
		var list []entity.StockRecord
		for _, s := range sortedStock(d) {
			if f.TipoItemID != "" && s.TipoItemID != f.TipoItemID {
				continue
			}
			if f.Ubicacion != "" && !containsFold(s.Ubicacion, f.Ubicacion) {
				continue
			}
			if f.Lote != "" && (s.Lote == nil || !containsFold(*s.Lote, f.Lote)) {
				continue
			}
			list = append(list, s)
		}
		for _, s := range paginate(list, limit, offset) {
			s := s
			out = append(out, &s)
		}
		return nil
	})
	return out, err
}

func (r *StockRepo) ListAll(ctx context.Context) ([]*entity.StockRecord, error) {
	return r.List(ctx, entity.StockFilter{}, 0, 0)
}

func (r *StockRepo) TotalForItem(ctx context.Context, tipoItemID string) (int64, error) {
	var total int64
	err := r.do(ctx, func(d *state) error {
		for _, s := range d.stock {
			if s.TipoItemID == tipoItemID {
				total += int64(s.CantidadActual)
			}
		}
		return nil
	})
	return total, err
}

func findStock(d *state, key entity.StockKey) *entity.StockRecord {
	for _, s := range d.stock {
		if s.Key().Same(key) {
			s := s
			return &s
		}
	}
	return nil
}

func sortedStock(d *state) []entity.StockRecord {
	list := make([]entity.StockRecord, 0, len(d.stock))
	for _, s := range d.stock {
		list = append(list, s)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Ubicacion != list[j].Ubicacion {
			return list[i].Ubicacion < list[j].Ubicacion
		}
		if list[i].TipoItemID != list[j].TipoItemID {
			return list[i].TipoItemID < list[j].TipoItemID
		}
		return list[i].Key().String() < list[j].Key().String()
	})
	return list
}
