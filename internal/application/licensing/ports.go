package licensing

import (
	"context"

	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios de licencias
// atados a esa tx. El lote de licencias se bloquea con GetByIDForUpdate antes de tocar contadores.
type TxRunner interface {
	RunLicensing(ctx context.Context, fn func(
		poolRepo repository.LicensePoolRepository,
		asgRepo repository.AssignmentRepository,
	) error) error
}
