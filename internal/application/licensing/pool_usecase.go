package licensing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/control-equipos-api/internal/application/dto"
	"github.com/jhoicas/control-equipos-api/internal/domain"
	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

// PoolUseCase administra los lotes de licencias y mantiene cantidad_disponible.
// cantidad_disponible nunca se acepta desde fuera: arranca igual al total y luego solo la
// mueven las asignaciones y los cambios de total.
type PoolUseCase struct {
	txRunner     TxRunner
	poolRepo     repository.LicensePoolRepository
	asgRepo      repository.AssignmentRepository
	softwareRepo repository.SoftwareRepository
	refs         repository.ReferenceRepository
	log          zerolog.Logger
	now          func() time.Time
}

// NewPoolUseCase construye el caso de uso.
func NewPoolUseCase(
	txRunner TxRunner,
	poolRepo repository.LicensePoolRepository,
	asgRepo repository.AssignmentRepository,
	softwareRepo repository.SoftwareRepository,
	refs repository.ReferenceRepository,
	log zerolog.Logger,
) *PoolUseCase {
	return &PoolUseCase{
		txRunner:     txRunner,
		poolRepo:     poolRepo,
		asgRepo:      asgRepo,
		softwareRepo: softwareRepo,
		refs:         refs,
		log:          log,
		now:          time.Now,
	}
}

// CreatePool registra un lote de licencias con cantidad_disponible = cantidad_total.
func (uc *PoolUseCase) CreatePool(ctx context.Context, in dto.CreateLicensePoolRequest) (*dto.LicensePoolResponse, error) {
	if in.CantidadTotal < 0 {
		return nil, domain.Unprocessable("cantidad_total no puede ser negativa")
	}
	if in.CostoAdquisicion != nil && in.CostoAdquisicion.IsNegative() {
		return nil, domain.Unprocessable("costo_adquisicion no puede ser negativo")
	}
	if in.FechaAdquisicion == nil || in.FechaAdquisicion.IsZero() {
		return nil, domain.Unprocessable("fecha_adquisicion es obligatoria")
	}
	adq := in.FechaAdquisicion.Time
	var exp *time.Time
	if in.FechaExpiracion != nil && !in.FechaExpiracion.IsZero() {
		t := in.FechaExpiracion.Time
		exp = &t
	}
	if err := checkDates(adq, exp); err != nil {
		return nil, err
	}

	sw, err := uc.softwareRepo.GetByID(ctx, in.SoftwareCatalogoID)
	if err != nil {
		return nil, err
	}
	if sw == nil {
		return nil, domain.NotFound("software %s no encontrado en el catálogo", in.SoftwareCatalogoID)
	}
	if err := uc.checkVendor(ctx, in.ProveedorID); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	pool := &entity.LicensePool{
		ID:                 uuid.New().String(),
		SoftwareID:         sw.ID,
		ClaveProducto:      nonEmpty(in.ClaveProducto),
		FechaAdquisicion:   adq,
		FechaExpiracion:    exp,
		ProveedorID:        nonEmpty(in.ProveedorID),
		CostoAdquisicion:   in.CostoAdquisicion,
		NumeroOrdenCompra:  in.NumeroOrdenCompra,
		CantidadTotal:      in.CantidadTotal,
		CantidadDisponible: in.CantidadTotal,
		Notas:              in.Notas,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.poolRepo.Create(ctx, pool); err != nil {
		return nil, err
	}
	uc.log.Info().Str("licencia_id", pool.ID).Int("cantidad_total", pool.CantidadTotal).Msg("lote de licencias creado")
	resp := toLicensePoolResponse(pool)
	return &resp, nil
}

// UpdatePool actualiza un lote. Si cambia cantidad_total, bajo bloqueo de fila se exige
// total >= asignaciones vivas y se recalcula disponible = total - asignaciones.
func (uc *PoolUseCase) UpdatePool(ctx context.Context, id string, in dto.UpdateLicensePoolRequest) (*dto.LicensePoolResponse, error) {
	if in.CantidadDisponible != nil {
		uc.log.Warn().Str("licencia_id", id).Int("cantidad_disponible", *in.CantidadDisponible).
			Msg("se ignora cantidad_disponible en la actualización; se calcula a partir de las asignaciones")
	}
	if in.CantidadTotal != nil && *in.CantidadTotal < 0 {
		return nil, domain.Unprocessable("cantidad_total no puede ser negativa")
	}
	if in.CostoAdquisicion != nil && in.CostoAdquisicion.IsNegative() {
		return nil, domain.Unprocessable("costo_adquisicion no puede ser negativo")
	}
	if err := uc.checkVendor(ctx, in.ProveedorID); err != nil {
		return nil, err
	}

	var updated *entity.LicensePool
	err := uc.txRunner.RunLicensing(ctx, func(poolRepo repository.LicensePoolRepository, asgRepo repository.AssignmentRepository) error {
		pool, err := poolRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if pool == nil {
			return domain.NotFound("licencia %s no encontrada", id)
		}
		if in.ClaveProducto != nil {
			pool.ClaveProducto = nonEmpty(in.ClaveProducto)
		}
		if in.FechaAdquisicion != nil && !in.FechaAdquisicion.IsZero() {
			pool.FechaAdquisicion = in.FechaAdquisicion.Time
		}
		if in.FechaExpiracion != nil {
			if in.FechaExpiracion.IsZero() {
				pool.FechaExpiracion = nil
			} else {
				t := in.FechaExpiracion.Time
				pool.FechaExpiracion = &t
			}
		}
		if err := checkDates(pool.FechaAdquisicion, pool.FechaExpiracion); err != nil {
			return err
		}
		if in.ProveedorID != nil {
			pool.ProveedorID = nonEmpty(in.ProveedorID)
		}
		if in.CostoAdquisicion != nil {
			pool.CostoAdquisicion = in.CostoAdquisicion
		}
		if in.NumeroOrdenCompra != nil {
			pool.NumeroOrdenCompra = in.NumeroOrdenCompra
		}
		if in.Notas != nil {
			pool.Notas = in.Notas
		}
		if in.CantidadTotal != nil {
			asignadas, err := asgRepo.CountByLicense(ctx, id)
			if err != nil {
				return err
			}
			if *in.CantidadTotal < asignadas {
				return domain.Conflict("La nueva cantidad total (%d) no puede ser menor que la cantidad ya asignada (%d)",
					*in.CantidadTotal, asignadas)
			}
			pool.CantidadTotal = *in.CantidadTotal
			pool.CantidadDisponible = *in.CantidadTotal - asignadas
		}
		pool.UpdatedAt = uc.now().UTC()
		if err := poolRepo.Update(ctx, pool); err != nil {
			return err
		}
		updated = pool
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toLicensePoolResponse(updated)
	return &resp, nil
}

// DeletePool elimina un lote sin asignaciones.
func (uc *PoolUseCase) DeletePool(ctx context.Context, id string) error {
	err := uc.txRunner.RunLicensing(ctx, func(poolRepo repository.LicensePoolRepository, asgRepo repository.AssignmentRepository) error {
		pool, err := poolRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if pool == nil {
			return domain.NotFound("licencia %s no encontrada", id)
		}
		n, err := asgRepo.CountByLicense(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.Wrap(domain.ErrConflict, domain.ErrInUse,
				"no se puede eliminar la licencia: tiene %d asignaciones activas", n)
		}
		return poolRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("licencia_id", id).Msg("lote de licencias eliminado")
	return nil
}

// GetByID obtiene un lote de licencias.
func (uc *PoolUseCase) GetByID(ctx context.Context, id string) (*dto.LicensePoolResponse, error) {
	pool, err := uc.poolRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, domain.NotFound("licencia %s no encontrada", id)
	}
	resp := toLicensePoolResponse(pool)
	return &resp, nil
}

// List lista lotes; con softwareID filtra por software (adquisición más reciente primero).
func (uc *PoolUseCase) List(ctx context.Context, softwareID string, page dto.PageRequest) ([]dto.LicensePoolResponse, error) {
	page.DefaultPage()
	var (
		list []*entity.LicensePool
		err  error
	)
	if softwareID != "" {
		list, err = uc.poolRepo.ListBySoftware(ctx, softwareID, page.Limit, page.Offset)
	} else {
		list, err = uc.poolRepo.List(ctx, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	return toLicensePoolResponses(list), nil
}

// ExpiringSoon lotes que expiran entre hoy y hoy+daysAhead (ambos inclusive), del más próximo
// al más lejano. daysAhead negativo se trata como 0.
func (uc *PoolUseCase) ExpiringSoon(ctx context.Context, daysAhead int, page dto.PageRequest) ([]dto.LicensePoolResponse, error) {
	page.DefaultPage()
	if daysAhead < 0 {
		daysAhead = 0
	}
	today := dto.NewDate(uc.now()).Time
	list, err := uc.poolRepo.ListExpiring(ctx, today, today.AddDate(0, 0, daysAhead), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toLicensePoolResponses(list), nil
}

// Reconcile compara cantidad_disponible con cantidad_total - asignaciones en cada lote.
func (uc *PoolUseCase) Reconcile(ctx context.Context) (*dto.LicenseReconciliationResponse, error) {
	pools, err := uc.poolRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.LicenseReconciliationResponse{Lotes: len(pools), Discrepancias: []dto.LicenseDiscrepancy{}}
	for _, p := range pools {
		n, err := uc.asgRepo.CountByLicense(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if p.CantidadDisponible != p.CantidadTotal-n || p.CantidadDisponible < 0 {
			resp.Discrepancias = append(resp.Discrepancias, dto.LicenseDiscrepancy{
				LicenciaID:         p.ID,
				CantidadTotal:      p.CantidadTotal,
				CantidadDisponible: p.CantidadDisponible,
				Asignaciones:       n,
			})
		}
	}
	resp.Consistente = len(resp.Discrepancias) == 0
	if !resp.Consistente {
		uc.log.Warn().Int("discrepancias", len(resp.Discrepancias)).Msg("conciliación de licencias con diferencias")
	}
	return resp, nil
}

func (uc *PoolUseCase) checkVendor(ctx context.Context, id *string) error {
	id = nonEmpty(id)
	if id == nil {
		return nil
	}
	ok, err := uc.refs.VendorExists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("proveedor %s no encontrado", *id)
	}
	return nil
}

func checkDates(adq time.Time, exp *time.Time) error {
	if exp != nil && !exp.After(adq) {
		return domain.Unprocessable("la fecha de expiración debe ser posterior a la fecha de adquisición")
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func toLicensePoolResponses(list []*entity.LicensePool) []dto.LicensePoolResponse {
	out := make([]dto.LicensePoolResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toLicensePoolResponse(p))
	}
	return out
}

func toLicensePoolResponse(p *entity.LicensePool) dto.LicensePoolResponse {
	return dto.LicensePoolResponse{
		ID:                 p.ID,
		SoftwareCatalogoID: p.SoftwareID,
		ClaveProducto:      p.ClaveProducto,
		FechaAdquisicion:   dto.NewDate(p.FechaAdquisicion),
		FechaExpiracion:    dto.DatePtr(p.FechaExpiracion),
		ProveedorID:        p.ProveedorID,
		CostoAdquisicion:   p.CostoAdquisicion,
		NumeroOrdenCompra:  p.NumeroOrdenCompra,
		CantidadTotal:      p.CantidadTotal,
		CantidadDisponible: p.CantidadDisponible,
		Notas:              p.Notas,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
