package memory

import (
	"context"

	"github.com/jhoicas/control-equipos-api/internal/application/inventory"
	"github.com/jhoicas/control-equipos-api/internal/application/licensing"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ licensing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks sobre una copia del estado y la publica si no hay error.
type TxRunner struct {
	st *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(st *Store) *TxRunner {
	return &TxRunner{st: st}
}

func (r *TxRunner) begin(ctx context.Context, fn func(work base) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	work := r.st.data.clone()
	if err := fn(base{st: r.st, tx: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.st.data = work
	return nil
}

// Run transacción de inventario.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemTypeRepository,
) error) error {
	return r.begin(ctx, func(b base) error {
		return fn(&MovementRepo{b}, &StockRepo{b}, &ItemTypeRepo{b})
	})
}

// RunLicensing transacción de licencias.
func (r *TxRunner) RunLicensing(ctx context.Context, fn func(
	poolRepo repository.LicensePoolRepository,
	asgRepo repository.AssignmentRepository,
) error) error {
	return r.begin(ctx, func(b base) error {
		return fn(&LicensePoolRepo{b}, &AssignmentRepo{b})
	})
}
