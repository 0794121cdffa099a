package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/control-equipos-api/internal/application/dto"
	"github.com/jhoicas/control-equipos-api/internal/application/inventory"
	"github.com/jhoicas/control-equipos-api/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP del log de movimientos (protegido).
type InventoryHandler struct {
	uc  *inventory.RegisterMovementUseCase
	log zerolog.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, log: log}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Inserta el movimiento y ajusta el stock de origen y/o destino en una sola transacción.
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "tipo_item_id, tipo_movimiento, cantidad y ubicaciones según el tipo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventario/movimientos/ [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.RegisterMovementFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegisterTransfer godoc
// @Summary      Registrar transferencia entre ubicaciones
// @Description  Genera Transferencia Salida y Transferencia Entrada enlazadas por referencia_transferencia.
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterTransferRequest  true  "Origen, destino y cantidad"
// @Success      201   {object}  dto.TransferResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventario/movimientos/transferencias [post]
func (h *InventoryHandler) RegisterTransfer(c *fiber.Ctx) error {
	var in dto.RegisterTransferRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.RegisterTransfer(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        tipo_item_id        query  string  false  "Tipo de ítem"
// @Param        ubicacion           query  string  false  "Subcadena de ubicación origen o destino"
// @Param        tipo_movimiento     query  string  false  "Tipo de movimiento"
// @Param        start_date          query  string  false  "Desde (YYYY-MM-DD, inclusive)"
// @Param        end_date            query  string  false  "Hasta (YYYY-MM-DD, inclusive)"
// @Param        usuario_id          query  string  false  "Usuario"
// @Param        equipo_asociado_id  query  string  false  "Equipo"
// @Param        mantenimiento_id    query  string  false  "Mantenimiento"
// @Param        limit               query  int     false  "Límite (máx. 500)"
// @Param        offset              query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/inventario/movimientos/ [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	var in dto.MovementListRequest
	if !bindQuery(c, &in) {
		return nil
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/movimientos/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Immutable responde 405 a PUT y DELETE: el log de movimientos no se modifica.
// @Summary      Modificar o eliminar movimiento (no permitido)
// @Tags         inventario
// @Security     Bearer
// @Failure      405  {object}  dto.ErrorResponse
// @Router       /api/inventario/movimientos/{id} [put]
// @Router       /api/inventario/movimientos/{id} [delete]
func (h *InventoryHandler) Immutable(c *fiber.Ctx) error {
	return writeError(c, h.log, domain.MethodNotAllowed(
		"los movimientos de inventario no se pueden modificar ni eliminar; registre un ajuste"))
}
