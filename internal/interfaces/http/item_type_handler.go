package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/control-equipos-api/internal/application/dto"
	"github.com/jhoicas/control-equipos-api/internal/application/inventory"
)

// ItemTypeHandler maneja el catálogo de tipos de ítem (protegido).
type ItemTypeHandler struct {
	uc            *inventory.ItemTypeUseCase
	replenishment *inventory.ReplenishmentUseCase
	log           zerolog.Logger
}

// NewItemTypeHandler construye el handler.
func NewItemTypeHandler(uc *inventory.ItemTypeUseCase, replenishment *inventory.ReplenishmentUseCase, log zerolog.Logger) *ItemTypeHandler {
	return &ItemTypeHandler{uc: uc, replenishment: replenishment, log: log}
}

// Create godoc
// @Summary      Crear tipo de ítem
// @Tags         tipos-item
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemTypeRequest  true  "Datos del tipo de ítem"
// @Success      201   {object}  dto.ItemTypeResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventario/tipos/ [post]
func (h *ItemTypeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemTypeRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener tipo de ítem por ID
// @Tags         tipos-item
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del tipo de ítem"
// @Success      200  {object}  dto.ItemTypeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/tipos/{id} [get]
func (h *ItemTypeHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar tipos de ítem
// @Tags         tipos-item
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.ItemTypeListResponse
// @Router       /api/inventario/tipos/ [get]
func (h *ItemTypeHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if !bindQuery(c, &page) {
		return nil
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar tipo de ítem
// @Tags         tipos-item
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del tipo de ítem"
// @Param        body  body  dto.UpdateItemTypeRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ItemTypeResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventario/tipos/{id} [put]
func (h *ItemTypeHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemTypeRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar tipo de ítem
// @Description  Falla con 409 si el ítem tiene stock o movimientos.
// @Tags         tipos-item
// @Security     Bearer
// @Param        id   path  string  true  "ID del tipo de ítem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventario/tipos/{id} [delete]
func (h *ItemTypeHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LowStock godoc
// @Summary      Tipos de ítem bajo stock mínimo
// @Description  Stock total (todas las ubicaciones) <= stock_minimo; sin registros cuenta como 0.
// @Tags         tipos-item
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItemResponse
// @Router       /api/inventario/tipos/bajo-stock/ [get]
func (h *ItemTypeHandler) LowStock(c *fiber.Ctx) error {
	var page dto.PageRequest
	if !bindQuery(c, &page) {
		return nil
	}
	out, err := h.replenishment.LowStockItems(c.UserContext(), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
