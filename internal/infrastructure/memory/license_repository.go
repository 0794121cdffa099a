package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/control-equipos-api/internal/domain"
	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

var (
	_ repository.SoftwareRepository    = (*SoftwareRepo)(nil)
	_ repository.LicensePoolRepository = (*LicensePoolRepo)(nil)
	_ repository.AssignmentRepository  = (*AssignmentRepo)(nil)
)

// SoftwareRepo catálogo de software en memoria.
type SoftwareRepo struct {
	base
}

// NewSoftwareRepository construye el repositorio.
func NewSoftwareRepository(st *Store) *SoftwareRepo {
	return &SoftwareRepo{base{st: st}}
}

func (r *SoftwareRepo) Create(ctx context.Context, s *entity.Software) error {
	return r.do(ctx, func(d *state) error {
		for _, o := range d.software {
			if o.Nombre == s.Nombre && eqPtr(o.Version, s.Version) {
				return domain.Wrap(domain.ErrConflict, domain.ErrDuplicate, "el software '%s' ya existe en el catálogo", s.Nombre)
			}
		}
		d.software[s.ID] = *s
		return nil
	})
}

func (r *SoftwareRepo) GetByID(ctx context.Context, id string) (*entity.Software, error) {
	var found *entity.Software
	err := r.do(ctx, func(d *state) error {
		if s, ok := d.software[id]; ok {
			found = &s
		}
		return nil
	})
	return found, err
}

func (r *SoftwareRepo) List(ctx context.Context, limit, offset int) ([]*entity.Software, error) {
	var out []*entity.Software
	err := r.do(ctx, func(d *state) error {
		list := sortedValues(d.software, func(a, b *entity.Software) bool { return a.Nombre < b.Nombre })
		for _, s := range paginate(list, limit, offset) {
			s := s
			out = append(out, &s)
		}
		return nil
	})
	return out, err
}

// LicensePoolRepo lotes de licencias en memoria.
type LicensePoolRepo struct {
	base
}

// NewLicensePoolRepository construye el repositorio fuera de transacción.
func NewLicensePoolRepository(st *Store) *LicensePoolRepo {
	return &LicensePoolRepo{base{st: st}}
}

func (r *LicensePoolRepo) Create(ctx context.Context, p *entity.LicensePool) error {
	return r.do(ctx, func(d *state) error {
		if _, ok := d.software[p.SoftwareID]; !ok {
			return domain.Conflict("el software %s no existe", p.SoftwareID)
		}
		if err := checkPool(d, p); err != nil {
			return err
		}
		d.pools[p.ID] = *p
		return nil
	})
}

func (r *LicensePoolRepo) GetByID(ctx context.Context, id string) (*entity.LicensePool, error) {
	var found *entity.LicensePool
	err := r.do(ctx, func(d *state) error {
		if p, ok := d.pools[id]; ok {
			found = &p
		}
		return nil
	})
	return found, err
}

func (r *LicensePoolRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.LicensePool, error) {
	return r.GetByID(ctx, id)
}

func (r *LicensePoolRepo) Update(ctx context.Context, p *entity.LicensePool) error {
	return r.do(ctx, func(d *state) error {
		if _, ok := d.pools[p.ID]; !ok {
			return domain.NotFound("licencia %s no encontrada", p.ID)
		}
		if err := checkPool(d, p); err != nil {
			return err
		}
		d.pools[p.ID] = *p
		return nil
	})
}

func (r *LicensePoolRepo) Delete(ctx context.Context, id string) error {
	return r.do(ctx, func(d *state) error {
		if _, ok := d.pools[id]; !ok {
			return domain.NotFound("licencia %s no encontrada", id)
		}
		for _, a := range d.assignments {
			if a.LicenciaID == id {
				return domain.Wrap(domain.ErrConflict, domain.ErrInUse, "la licencia %s tiene asignaciones", id)
			}
		}
		delete(d.pools, id)
		return nil
	})
}

func (r *LicensePoolRepo) List(ctx context.Context, limit, offset int) ([]*entity.LicensePool, error) {
	return r.filter(ctx, func(*entity.LicensePool) bool { return true }, byAdquisicionDesc, limit, offset)
}

func (r *LicensePoolRepo) ListBySoftware(ctx context.Context, softwareID string, limit, offset int) ([]*entity.LicensePool, error) {
	return r.filter(ctx, func(p *entity.LicensePool) bool { return p.SoftwareID == softwareID }, byAdquisicionDesc, limit, offset)
}

func (r *LicensePoolRepo) ListExpiring(ctx context.Context, from, to time.Time, limit, offset int) ([]*entity.LicensePool, error) {
	return r.filter(ctx, func(p *entity.LicensePool) bool {
		return p.FechaExpiracion != nil && !p.FechaExpiracion.Before(from) && !p.FechaExpiracion.After(to)
	}, func(a, b *entity.LicensePool) bool { return a.FechaExpiracion.Before(*b.FechaExpiracion) }, limit, offset)
}

func (r *LicensePoolRepo) ListAll(ctx context.Context) ([]*entity.LicensePool, error) {
	return r.List(ctx, 0, 0)
}

func (r *LicensePoolRepo) filter(ctx context.Context, keep func(*entity.LicensePool) bool, less func(a, b *entity.LicensePool) bool, limit, offset int) ([]*entity.LicensePool, error) {
	var out []*entity.LicensePool
	err := r.do(ctx, func(d *state) error {
		var list []entity.LicensePool
		for _, p := range d.pools {
			if keep(&p) {
				list = append(list, p)
			}
		}
		sort.SliceStable(list, func(i, j int) bool { return less(&list[i], &list[j]) })
		for _, p := range paginate(list, limit, offset) {
			p := p
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

func byAdquisicionDesc(a, b *entity.LicensePool) bool {
	if !a.FechaAdquisicion.Equal(b.FechaAdquisicion) {
		return a.FechaAdquisicion.After(b.FechaAdquisicion)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// checkPool equivalente a los CHECK y UNIQUE de licencias_software.
func checkPool(d *state, p *entity.LicensePool) error {
	if p.CantidadDisponible < 0 {
		return domain.Wrap(domain.ErrConflict, domain.ErrNoSeatsAvailable, "no hay licencias disponibles")
	}
	if p.CantidadDisponible > p.CantidadTotal {
		return domain.BadRequest("cantidad_disponible (%d) no puede superar cantidad_total (%d)", p.CantidadDisponible, p.CantidadTotal)
	}
	if p.ClaveProducto != nil {
		for _, o := range d.pools {
			if o.ID != p.ID && eqPtr(o.ClaveProducto, p.ClaveProducto) {
				return domain.Wrap(domain.ErrConflict, domain.ErrDuplicate, "la clave de producto ya está registrada")
			}
		}
	}
	return nil
}

// AssignmentRepo asignaciones de licencia en memoria.
type AssignmentRepo struct {
	base
}

// NewAssignmentRepository construye el repositorio fuera de transacción.
func NewAssignmentRepository(st *Store) *AssignmentRepo {
	return &AssignmentRepo{base{st: st}}
}

func (r *AssignmentRepo) Create(ctx context.Context, a *entity.Assignment) error {
	return r.do(ctx, func(d *state) error {
		if a.Target.IsZero() {
			return domain.BadRequest("%s", entity.ErrInvalidTarget.Error())
		}
		if _, ok := d.pools[a.LicenciaID]; !ok {
			return domain.Conflict("la licencia %s no existe", a.LicenciaID)
		}
		for _, o := range d.assignments {
			if o.LicenciaID == a.LicenciaID && o.Target == a.Target {
				return domain.Wrap(domain.ErrConflict, domain.ErrDuplicate,
					"Esta licencia ya está asignada a este %s", a.Target.Kind())
			}
		}
		d.assignments[a.ID] = *a
		return nil
	})
}

func (r *AssignmentRepo) GetByID(ctx context.Context, id string) (*entity.Assignment, error) {
	var found *entity.Assignment
	err := r.do(ctx, func(d *state) error {
		if a, ok := d.assignments[id]; ok {
			found = &a
		}
		return nil
	})
	return found, err
}

func (r *AssignmentRepo) GetByLicenseAndTarget(ctx context.Context, licenciaID string, t entity.Target) (*entity.Assignment, error) {
	var found *entity.Assignment
	err := r.do(ctx, func(d *state) error {
		for _, a := range d.assignments {
			if a.LicenciaID == licenciaID && a.Target == t {
				a := a
				found = &a
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *AssignmentRepo) Update(ctx context.Context, a *entity.Assignment) error {
	return r.do(ctx, func(d *state) error {
		cur, ok := d.assignments[a.ID]
		if !ok {
			return domain.NotFound("asignación %s no encontrada", a.ID)
		}
		cur.Instalado = a.Instalado
		cur.Notas = a.Notas
		d.assignments[a.ID] = cur
		return nil
	})
}

func (r *AssignmentRepo) Delete(ctx context.Context, id string) error {
	return r.do(ctx, func(d *state) error {
		if _, ok := d.assignments[id]; !ok {
			return domain.NotFound("asignación %s no encontrada", id)
		}
		delete(d.assignments, id)
		return nil
	})
}

func (r *AssignmentRepo) CountByLicense(ctx context.Context, licenciaID string) (int, error) {
	n := 0
	err := r.do(ctx, func(d *state) error {
		for _, a := range d.assignments {
			if a.LicenciaID == licenciaID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *AssignmentRepo) ListByLicense(ctx context.Context, licenciaID string, limit, offset int) ([]*entity.Assignment, error) {
	return r.filter(ctx, func(a *entity.Assignment) bool { return a.LicenciaID == licenciaID }, limit, offset)
}

func (r *AssignmentRepo) ListByEquipment(ctx context.Context, equipoID string, limit, offset int) ([]*entity.Assignment, error) {
	return r.filter(ctx, func(a *entity.Assignment) bool { return a.Target == entity.EquipmentTarget(equipoID) }, limit, offset)
}

func (r *AssignmentRepo) ListByUser(ctx context.Context, usuarioID string, limit, offset int) ([]*entity.Assignment, error) {
	return r.filter(ctx, func(a *entity.Assignment) bool { return a.Target == entity.UserTarget(usuarioID) }, limit, offset)
}

func (r *AssignmentRepo) filter(ctx context.Context, keep func(*entity.Assignment) bool, limit, offset int) ([]*entity.Assignment, error) {
	var out []*entity.Assignment
	err := r.do(ctx, func(d *state) error {
		var list []entity.Assignment
		all := sortedValues(d.assignments, func(a, b *entity.Assignment) bool {
			if !a.FechaAsignacion.Equal(b.FechaAsignacion) {
				return a.FechaAsignacion.After(b.FechaAsignacion)
			}
			return a.ID < b.ID
		})
		for _, a := range all {
			if keep(&a) {
				list = append(list, a)
			}
		}
		for _, a := range paginate(list, limit, offset) {
			a := a
			out = append(out, &a)
		}
		return nil
	})
	return out, err
}
