package memory

import (
	"context"

	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

var _ repository.ReferenceRepository = (*ReferenceRepo)(nil)

// ReferenceRepo existencia de equipos, usuarios, mantenimientos y proveedores registrados con
// Store.AddEquipment, AddUser, AddMaintenance y AddVendor.
type ReferenceRepo struct {
	base
}

// NewReferenceRepository construye el repositorio.
func NewReferenceRepository(st *Store) *ReferenceRepo {
	return &ReferenceRepo{base{st: st}}
}

func (r *ReferenceRepo) EquipmentExists(ctx context.Context, id string) (bool, error) {
	return r.has(ctx, func(d *state) map[string]bool { return d.equipment }, id)
}

func (r *ReferenceRepo) UserExists(ctx context.Context, id string) (bool, error) {
	return r.has(ctx, func(d *state) map[string]bool { return d.users }, id)
}

func (r *ReferenceRepo) MaintenanceExists(ctx context.Context, id string) (bool, error) {
	return r.has(ctx, func(d *state) map[string]bool { return d.maintenance }, id)
}

func (r *ReferenceRepo) VendorExists(ctx context.Context, id string) (bool, error) {
	return r.has(ctx, func(d *state) map[string]bool { return d.vendors }, id)
}

func (r *ReferenceRepo) has(ctx context.Context, set func(*state) map[string]bool, id string) (bool, error) {
	var ok bool
	err := r.do(ctx, func(d *state) error {
		ok = set(d)[id]
		return nil
	})
	return ok, err
}
