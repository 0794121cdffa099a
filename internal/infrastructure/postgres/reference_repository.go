package postgres

import (
	"context"

	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

var _ repository.ReferenceRepository = (*ReferenceRepo)(nil)

// ReferenceRepo comprueba existencia en las tablas de entidades externas.
type ReferenceRepo struct {
	q Querier
}

// NewReferenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReferenceRepository(q Querier) *ReferenceRepo {
	return &ReferenceRepo{q: q}
}

func (r *ReferenceRepo) EquipmentExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, "equipos", id)
}

func (r *ReferenceRepo) UserExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, "usuarios", id)
}

func (r *ReferenceRepo) MaintenanceExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, "mantenimiento", id)
}

func (r *ReferenceRepo) VendorExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, "proveedores", id)
}

func (r *ReferenceRepo) exists(ctx context.Context, table, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, classify("exists "+table, err)
	}
	return ok, nil
}
