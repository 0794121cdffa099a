package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/control-equipos-api/internal/application/dto"
	"github.com/jhoicas/control-equipos-api/internal/domain"
	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
	domaininv "github.com/jhoicas/control-equipos-api/internal/domain/inventory"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de inventario de forma transaccional.
// El movimiento se inserta y el stock se ajusta en la misma transacción, con bloqueo de fila
// (SELECT FOR UPDATE) sobre los registros afectados.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemTypeRepository
	movRepo  repository.MovementRepository
	refs     repository.ReferenceRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemTypeRepository,
	movRepo repository.MovementRepository,
	refs repository.ReferenceRepository,
	log zerolog.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		itemRepo: itemRepo,
		movRepo:  movRepo,
		refs:     refs,
		log:      log,
		now:      time.Now,
	}
}

// MovementInputDTO entrada para registrar un movimiento de inventario.
// UserID es el usuario autenticado que registra el movimiento.
type MovementInputDTO struct {
	UserID            string
	TipoItemID        string
	TipoMovimiento    string
	Cantidad          int
	UbicacionOrigen   *string
	LoteOrigen        *string
	UbicacionDestino  *string
	LoteDestino       *string
	EquipoAsociadoID  *string
	MantenimientoID   *string
	CostoUnitario     *decimal.Decimal
	MotivoAjuste      *string
	ReferenciaExterna *string
	Notas             *string
}

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	mov, err := uc.RegisterMovement(ctx, MovementInputDTO{
		UserID:            userID,
		TipoItemID:        in.TipoItemID,
		TipoMovimiento:    in.TipoMovimiento,
		Cantidad:          in.Cantidad,
		UbicacionOrigen:   in.UbicacionOrigen,
		LoteOrigen:        in.LoteOrigen,
		UbicacionDestino:  in.UbicacionDestino,
		LoteDestino:       in.LoteDestino,
		EquipoAsociadoID:  in.EquipoAsociadoID,
		MantenimientoID:   in.MantenimientoID,
		CostoUnitario:     in.CostoUnitario,
		MotivoAjuste:      in.MotivoAjuste,
		ReferenciaExterna: in.ReferenciaExterna,
		Notas:             in.Notas,
	})
	if err != nil {
		return nil, err
	}
	resp := toMovementResponse(mov)
	return &resp, nil
}

// RegisterMovement valida el movimiento, comprueba las referencias y lo aplica en una transacción.
//
// Errores: ErrUnprocessable (forma), ErrNotFound (ítem, equipo o mantenimiento inexistente),
// ErrConflict con motivo ErrInsufficientStock (origen sin stock suficiente).
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*entity.Movement, error) {
	kind, err := domaininv.ParseKind(input.TipoMovimiento)
	if err != nil {
		return nil, err
	}
	mov := uc.newMovement(input, kind)
	if err := domaininv.Validate(mov); err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, mov); err != nil {
		return nil, err
	}

	now := mov.FechaHora
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		_ repository.ItemTypeRepository,
	) error {
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		return applyToStock(ctx, stockRepo, mov, now)
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("tipo_item_id", mov.TipoItemID).
			Str("tipo_movimiento", string(mov.TipoMovimiento)).
			Int("cantidad", mov.Cantidad).
			Msg("movimiento rechazado")
		return nil, err
	}
	uc.log.Info().
		Str("movimiento_id", mov.ID).
		Str("tipo_movimiento", string(mov.TipoMovimiento)).
		Int("cantidad", mov.Cantidad).
		Msg("movimiento registrado")
	return mov, nil
}

// RegisterTransfer registra la pareja Transferencia Salida / Transferencia Entrada con la misma
// referencia de transferencia. Ambas mitades se aplican en una sola transacción.
func (uc *RegisterMovementUseCase) RegisterTransfer(ctx context.Context, userID string, in dto.RegisterTransferRequest) (*dto.TransferResponse, error) {
	origen := strings.TrimSpace(in.UbicacionOrigen)
	destino := strings.TrimSpace(in.UbicacionDestino)
	if origen == destino && sameLote(in.LoteOrigen, in.LoteDestino) {
		return nil, domain.Unprocessable("el origen y el destino de la transferencia deben ser distintos")
	}
	ref := uuid.New().String()
	base := MovementInputDTO{
		UserID:            userID,
		TipoItemID:        in.TipoItemID,
		Cantidad:          in.Cantidad,
		CostoUnitario:     in.CostoUnitario,
		ReferenciaExterna: in.ReferenciaExterna,
		Notas:             in.Notas,
	}

	salidaIn := base
	salidaIn.UbicacionOrigen, salidaIn.LoteOrigen = &origen, in.LoteOrigen
	salida := uc.newMovement(salidaIn, entity.MovTransferenciaSalida)
	salida.ReferenciaTransferencia = &ref

	entradaIn := base
	entradaIn.UbicacionDestino, entradaIn.LoteDestino = &destino, in.LoteDestino
	entrada := uc.newMovement(entradaIn, entity.MovTransferenciaEntrada)
	entrada.ReferenciaTransferencia = &ref
	entrada.FechaHora = salida.FechaHora

	if err := domaininv.Validate(salida); err != nil {
		return nil, err
	}
	if err := domaininv.Validate(entrada); err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, salida); err != nil {
		return nil, err
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		_ repository.ItemTypeRepository,
	) error {
		for _, m := range []*entity.Movement{salida, entrada} {
			if err := movRepo.Create(ctx, m); err != nil {
				return err
			}
			if err := applyToStock(ctx, stockRepo, m, m.FechaHora); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("referencia_transferencia", ref).Msg("transferencia rechazada")
		return nil, err
	}
	uc.log.Info().Str("referencia_transferencia", ref).Int("cantidad", in.Cantidad).Msg("transferencia registrada")
	return &dto.TransferResponse{
		ReferenciaTransferencia: ref,
		Salida:                  toMovementResponse(salida),
		Entrada:                 toMovementResponse(entrada),
	}, nil
}

// GetByID obtiene un movimiento por ID.
func (uc *RegisterMovementUseCase) GetByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	m, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.NotFound("movimiento %s no encontrado", id)
	}
	resp := toMovementResponse(m)
	return &resp, nil
}

// List lista movimientos con filtros, del más reciente al más antiguo.
// end_date es inclusiva: cubre el día completo.
func (uc *RegisterMovementUseCase) List(ctx context.Context, in dto.MovementListRequest) ([]dto.MovementResponse, error) {
	in.DefaultPage()
	f := entity.MovementFilter{
		TipoItemID:      in.TipoItemID,
		Ubicacion:       strings.TrimSpace(in.Ubicacion),
		UsuarioID:       in.UsuarioID,
		EquipoID:        in.EquipoAsociadoID,
		MantenimientoID: in.MantenimientoID,
	}
	if in.TipoMovimiento != "" {
		kind, err := domaininv.ParseKind(in.TipoMovimiento)
		if err != nil {
			return nil, err
		}
		f.TipoMovimiento = kind
	}
	if in.StartDate != "" {
		t, err := parseDate(in.StartDate)
		if err != nil {
			return nil, domain.Unprocessable("start_date inválida: %s", in.StartDate)
		}
		f.FechaDesde = &t
	}
	if in.EndDate != "" {
		t, err := parseDate(in.EndDate)
		if err != nil {
			return nil, domain.Unprocessable("end_date inválida: %s", in.EndDate)
		}
		next := t.AddDate(0, 0, 1)
		f.FechaHasta = &next
	}

	list, err := uc.movRepo.List(ctx, f, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

func (uc *RegisterMovementUseCase) newMovement(input MovementInputDTO, kind entity.MovementKind) *entity.Movement {
	m := &entity.Movement{
		ID:                uuid.New().String(),
		TipoItemID:        input.TipoItemID,
		TipoMovimiento:    kind,
		Cantidad:          input.Cantidad,
		UbicacionOrigen:   trimmed(input.UbicacionOrigen),
		LoteOrigen:        trimmed(input.LoteOrigen),
		UbicacionDestino:  trimmed(input.UbicacionDestino),
		LoteDestino:       trimmed(input.LoteDestino),
		EquipoAsociadoID:  trimmed(input.EquipoAsociadoID),
		MantenimientoID:   trimmed(input.MantenimientoID),
		FechaHora:         uc.now().UTC(),
		CostoUnitario:     input.CostoUnitario,
		MotivoAjuste:      input.MotivoAjuste,
		ReferenciaExterna: input.ReferenciaExterna,
		Notas:             input.Notas,
	}
	if input.UserID != "" {
		u := input.UserID
		m.UsuarioID = &u
	}
	return m
}

func (uc *RegisterMovementUseCase) checkReferences(ctx context.Context, m *entity.Movement) error {
	item, err := uc.itemRepo.GetByID(ctx, m.TipoItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.NotFound("tipo de ítem %s no encontrado", m.TipoItemID)
	}
	if m.EquipoAsociadoID != nil {
		ok, err := uc.refs.EquipmentExists(ctx, *m.EquipoAsociadoID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound("equipo %s no encontrado", *m.EquipoAsociadoID)
		}
	}
	if m.MantenimientoID != nil {
		ok, err := uc.refs.MaintenanceExists(ctx, *m.MantenimientoID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound("mantenimiento %s no encontrado", *m.MantenimientoID)
		}
	}
	return nil
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                      m.ID,
		TipoItemID:              m.TipoItemID,
		TipoMovimiento:          string(m.TipoMovimiento),
		Cantidad:                m.Cantidad,
		UbicacionOrigen:         m.UbicacionOrigen,
		LoteOrigen:              m.LoteOrigen,
		UbicacionDestino:        m.UbicacionDestino,
		LoteDestino:             m.LoteDestino,
		EquipoAsociadoID:        m.EquipoAsociadoID,
		MantenimientoID:         m.MantenimientoID,
		UsuarioID:               m.UsuarioID,
		FechaHora:               m.FechaHora,
		CostoUnitario:           m.CostoUnitario,
		MotivoAjuste:            m.MotivoAjuste,
		ReferenciaExterna:       m.ReferenciaExterna,
		ReferenciaTransferencia: m.ReferenciaTransferencia,
		Notas:                   m.Notas,
	}
}

// trimmed recorta espacios; una cadena vacía se trata como ausente.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func sameLote(a, b *string) bool {
	a, b = trimmed(a), trimmed(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha %q: %w", s, err)
	}
	return t, nil
}
