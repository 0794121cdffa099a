package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/control-equipos-api/internal/domain"
	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo log de movimientos en memoria (solo inserción).
type MovementRepo struct {
	base
}

// NewMovementRepository construye el repositorio fuera de transacción.
func NewMovementRepository(st *Store) *MovementRepo {
	return &MovementRepo{base{st: st}}
}

func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	return r.do(ctx, func(d *state) error {
		if _, ok := d.items[m.TipoItemID]; !ok {
			return domain.Conflict("el tipo de ítem %s no existe", m.TipoItemID)
		}
		d.seq++
		m.Secuencia = d.seq
		d.movements = append(d.movements, *m)
		return nil
	})
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	var found *entity.Movement
	err := r.do(ctx, func(d *state) error {
		for _, m := range d.movements {
			if m.ID == id {
				m := m
				found = &m
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *MovementRepo) List(ctx context.Context, f entity.MovementFilter, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.do(ctx, func(d *state) error {
		var list []entity.Movement
		for _, m := range d.movements {
			if matchMovement(&m, f) {
				list = append(list, m)
			}
		}
		sort.SliceStable(list, func(i, j int) bool {
			if !list[i].FechaHora.Equal(list[j].FechaHora) {
				return list[i].FechaHora.After(list[j].FechaHora)
			}
			return list[i].Secuencia > list[j].Secuencia
		})
		for _, m := range paginate(list, limit, offset) {
			m := m
			out = append(out, &m)
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) ListChronological(ctx context.Context) ([]entity.Movement, error) {
	var out []entity.Movement
	err := r.do(ctx, func(d *state) error {
		out = make([]entity.Movement, len(d.movements))
		copy(out, d.movements)
		return nil
	})
	return out, err
}

func matchMovement(m *entity.Movement, f entity.MovementFilter) bool {
	if f.TipoItemID != "" && m.TipoItemID != f.TipoItemID {
		return false
	}
	if f.TipoMovimiento != "" && m.TipoMovimiento != f.TipoMovimiento {
		return false
	}
	if f.Ubicacion != "" {
		inOrigen := m.UbicacionOrigen != nil && containsFold(*m.UbicacionOrigen, f.Ubicacion)
		inDestino := m.UbicacionDestino != nil && containsFold(*m.UbicacionDestino, f.Ubicacion)
		if !inOrigen && !inDestino {
			return false
		}
	}
	if f.FechaDesde != nil && m.FechaHora.Before(*f.FechaDesde) {
		return false
	}
	if f.FechaHasta != nil && !m.FechaHora.Before(*f.FechaHasta) {
		return false
	}
	if f.UsuarioID != "" && (m.UsuarioID == nil || *m.UsuarioID != f.UsuarioID) {
		return false
	}
	if f.EquipoID != "" && (m.EquipoAsociadoID == nil || *m.EquipoAsociadoID != f.EquipoID) {
		return false
	}
	if f.MantenimientoID != "" && (m.MantenimientoID == nil || *m.MantenimientoID != f.MantenimientoID) {
		return false
	}
	return true
}
