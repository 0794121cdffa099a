package repository

import (
	"context"
	"time"

	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
)

// SoftwareRepository catálogo de software.
type SoftwareRepository interface {
	Create(ctx context.Context, s *entity.Software) error
	GetByID(ctx context.Context, id string) (*entity.Software, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Software, error)
}

// LicensePoolRepository define el puerto de persistencia para lotes de licencias.
type LicensePoolRepository interface {
	Create(ctx context.Context, p *entity.LicensePool) error
	GetByID(ctx context.Context, id string) (*entity.LicensePool, error)
	// GetByIDForUpdate bloquea la fila del lote (SELECT FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.LicensePool, error)
	Update(ctx context.Context, p *entity.LicensePool) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.LicensePool, error)
	// ListBySoftware ordena por fecha de adquisición descendente.
	ListBySoftware(ctx context.Context, softwareID string, limit, offset int) ([]*entity.LicensePool, error)
	// ListExpiring lotes con expiración en [from, to], orden ascendente.
	ListExpiring(ctx context.Context, from, to time.Time, limit, offset int) ([]*entity.LicensePool, error)
	ListAll(ctx context.Context) ([]*entity.LicensePool, error)
}

// AssignmentRepository define el puerto de persistencia para asignaciones de licencia.
// Los listados ordenan por fecha de asignación descendente.
type AssignmentRepository interface {
	Create(ctx context.Context, a *entity.Assignment) error
	GetByID(ctx context.Context, id string) (*entity.Assignment, error)
	GetByLicenseAndTarget(ctx context.Context, licenciaID string, t entity.Target) (*entity.Assignment, error)
	Update(ctx context.Context, a *entity.Assignment) error
	Delete(ctx context.Context, id string) error
	CountByLicense(ctx context.Context, licenciaID string) (int, error)
	ListByLicense(ctx context.Context, licenciaID string, limit, offset int) ([]*entity.Assignment, error)
	ListByEquipment(ctx context.Context, equipoID string, limit, offset int) ([]*entity.Assignment, error)
	ListByUser(ctx context.Context, usuarioID string, limit, offset int) ([]*entity.Assignment, error)
}
