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

// AssignmentUseCase asigna y libera puestos de licencia. Cada asignación apunta a un equipo o a
// un usuario (nunca ambos) y consume exactamente un puesto del lote.
type AssignmentUseCase struct {
	txRunner TxRunner
	poolRepo repository.LicensePoolRepository
	asgRepo  repository.AssignmentRepository
	refs     repository.ReferenceRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewAssignmentUseCase construye el caso de uso.
func NewAssignmentUseCase(
	txRunner TxRunner,
	poolRepo repository.LicensePoolRepository,
	asgRepo repository.AssignmentRepository,
	refs repository.ReferenceRepository,
	log zerolog.Logger,
) *AssignmentUseCase {
	return &AssignmentUseCase{
		txRunner: txRunner,
		poolRepo: poolRepo,
		asgRepo:  asgRepo,
		refs:     refs,
		log:      log,
		now:      time.Now,
	}
}

// Create asigna un puesto de la licencia al equipo o usuario indicado.
//
// Orden de comprobaciones: destino exclusivo (422), licencia y destino existen (404); ya con el
// lote bloqueado: asignación duplicada (409) y puestos disponibles (409).
func (uc *AssignmentUseCase) Create(ctx context.Context, in dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	target, err := entity.NewTarget(in.EquipoID, in.UsuarioID)
	if err != nil {
		return nil, domain.Wrap(domain.ErrUnprocessable, err, "%s", err.Error())
	}
	pool, err := uc.poolRepo.GetByID(ctx, in.LicenciaID)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, domain.NotFound("licencia %s no encontrada", in.LicenciaID)
	}
	if err := uc.checkTarget(ctx, target); err != nil {
		return nil, err
	}

	asg := &entity.Assignment{
		ID:              uuid.New().String(),
		LicenciaID:      in.LicenciaID,
		Target:          target,
		FechaAsignacion: uc.now().UTC(),
		Instalado:       true,
		Notas:           in.Notas,
	}
	if in.Instalado != nil {
		asg.Instalado = *in.Instalado
	}

	err = uc.txRunner.RunLicensing(ctx, func(poolRepo repository.LicensePoolRepository, asgRepo repository.AssignmentRepository) error {
		locked, err := poolRepo.GetByIDForUpdate(ctx, in.LicenciaID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.NotFound("licencia %s no encontrada", in.LicenciaID)
		}
		existing, err := asgRepo.GetByLicenseAndTarget(ctx, in.LicenciaID, target)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.Wrap(domain.ErrConflict, domain.ErrDuplicate,
				"Esta licencia ya está asignada a este %s", target.Kind())
		}
		if locked.CantidadDisponible <= 0 {
			return domain.Wrap(domain.ErrConflict, domain.ErrNoSeatsAvailable,
				"No hay licencias disponibles para la licencia %s (total %d)", locked.ID, locked.CantidadTotal)
		}
		if err := asgRepo.Create(ctx, asg); err != nil {
			return err
		}
		locked.CantidadDisponible--
		locked.UpdatedAt = asg.FechaAsignacion
		return poolRepo.Update(ctx, locked)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("licencia_id", in.LicenciaID).Str("destino", target.Kind().String()).
			Str("destino_id", target.ID()).Msg("asignación rechazada")
		return nil, err
	}
	uc.log.Info().Str("asignacion_id", asg.ID).Str("licencia_id", asg.LicenciaID).Msg("licencia asignada")
	resp := toAssignmentResponse(asg)
	return &resp, nil
}

// Remove elimina la asignación y devuelve el puesto al lote en la misma transacción.
func (uc *AssignmentUseCase) Remove(ctx context.Context, id string) error {
	err := uc.txRunner.RunLicensing(ctx, func(poolRepo repository.LicensePoolRepository, asgRepo repository.AssignmentRepository) error {
		asg, err := asgRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if asg == nil {
			return domain.NotFound("asignación %s no encontrada", id)
		}
		pool, err := poolRepo.GetByIDForUpdate(ctx, asg.LicenciaID)
		if err != nil {
			return err
		}
		// Delete devuelve ErrNotFound si otra transacción la borró mientras esperábamos el bloqueo.
		if err := asgRepo.Delete(ctx, id); err != nil {
			return err
		}
		if pool == nil {
			return nil
		}
		if pool.CantidadDisponible >= pool.CantidadTotal {
			// El contador ya estaba descuadrado; no se supera el total y queda para la conciliación.
			uc.log.Warn().Str("licencia_id", pool.ID).Str("asignacion_id", id).
				Int("cantidad_total", pool.CantidadTotal).Int("cantidad_disponible", pool.CantidadDisponible).
				Msg("lote inconsistente: la asignación eliminada no consumía un puesto contabilizado")
		} else {
			pool.CantidadDisponible++
		}
		pool.UpdatedAt = uc.now().UTC()
		return poolRepo.Update(ctx, pool)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("asignacion_id", id).Msg("asignación eliminada")
	return nil
}

// Update modifica solo instalado y notas.
func (uc *AssignmentUseCase) Update(ctx context.Context, id string, in dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error) {
	asg, err := uc.asgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if asg == nil {
		return nil, domain.NotFound("asignación %s no encontrada", id)
	}
	if in.Instalado != nil {
		asg.Instalado = *in.Instalado
	}
	if in.Notas != nil {
		asg.Notas = in.Notas
	}
	if err := uc.asgRepo.Update(ctx, asg); err != nil {
		return nil, err
	}
	resp := toAssignmentResponse(asg)
	return &resp, nil
}

// GetByID obtiene una asignación.
func (uc *AssignmentUseCase) GetByID(ctx context.Context, id string) (*dto.AssignmentResponse, error) {
	asg, err := uc.asgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if asg == nil {
		return nil, domain.NotFound("asignación %s no encontrada", id)
	}
	resp := toAssignmentResponse(asg)
	return &resp, nil
}

// ByLicense asignaciones de un lote, de la más reciente a la más antigua.
func (uc *AssignmentUseCase) ByLicense(ctx context.Context, licenciaID string, page dto.PageRequest) ([]dto.AssignmentResponse, error) {
	page.DefaultPage()
	list, err := uc.asgRepo.ListByLicense(ctx, licenciaID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toAssignmentResponses(list), nil
}

// ByEquipo asignaciones de un equipo.
func (uc *AssignmentUseCase) ByEquipo(ctx context.Context, equipoID string, page dto.PageRequest) ([]dto.AssignmentResponse, error) {
	page.DefaultPage()
	list, err := uc.asgRepo.ListByEquipment(ctx, equipoID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toAssignmentResponses(list), nil
}

// ByUsuario asignaciones de un usuario.
func (uc *AssignmentUseCase) ByUsuario(ctx context.Context, usuarioID string, page dto.PageRequest) ([]dto.AssignmentResponse, error) {
	page.DefaultPage()
	list, err := uc.asgRepo.ListByUser(ctx, usuarioID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toAssignmentResponses(list), nil
}

func (uc *AssignmentUseCase) checkTarget(ctx context.Context, t entity.Target) error {
	var (
		ok  bool
		err error
	)
	switch t.Kind() {
	case entity.TargetEquipment:
		ok, err = uc.refs.EquipmentExists(ctx, t.ID())
	case entity.TargetUser:
		ok, err = uc.refs.UserExists(ctx, t.ID())
	}
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("%s %s no encontrado", t.Kind(), t.ID())
	}
	return nil
}

func toAssignmentResponses(list []*entity.Assignment) []dto.AssignmentResponse {
	out := make([]dto.AssignmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAssignmentResponse(a))
	}
	return out
}

func toAssignmentResponse(a *entity.Assignment) dto.AssignmentResponse {
	equipoID, usuarioID := a.Target.Columns()
	return dto.AssignmentResponse{
		ID:              a.ID,
		LicenciaID:      a.LicenciaID,
		EquipoID:        equipoID,
		UsuarioID:       usuarioID,
		FechaAsignacion: a.FechaAsignacion,
		Instalado:       a.Instalado,
		Notas:           a.Notas,
	}
}
