package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/control-equipos-api/internal/application/dto"
	"github.com/jhoicas/control-equipos-api/internal/application/inventory"
)

// StockHandler consultas de stock, edición de detalles y conciliación (protegido).
type StockHandler struct {
	uc  *inventory.StockUseCase
	log zerolog.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase, log zerolog.Logger) *StockHandler {
	return &StockHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        tipo_item_id  query  string  false  "Tipo de ítem"
// @Param        ubicacion     query  string  false  "Subcadena de ubicación"
// @Param        lote          query  string  false  "Subcadena de lote"
// @Success      200  {array}  dto.StockResponse
// @Router       /api/inventario/stock/ [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var in dto.StockListRequest
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
// @Summary      Obtener registro de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del registro"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/stock/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// TotalForItem godoc
// @Summary      Stock total de un ítem
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del tipo de ítem"
// @Success      200  {object}  dto.StockTotalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/stock/item/{id}/total [get]
func (h *StockHandler) TotalForItem(c *fiber.Ctx) error {
	out, err := h.uc.TotalForItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateDetails godoc
// @Summary      Actualizar lote, caducidad o notas de un registro de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del registro"
// @Param        body  body  dto.UpdateStockDetailsRequest  true  "lote, fecha_caducidad, notas"
// @Success      200   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventario/stock/{id}/details [put]
func (h *StockHandler) UpdateDetails(c *fiber.Ctx) error {
	var in dto.UpdateStockDetailsRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.UpdateDetails(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar stock con el log de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockReconciliationResponse
// @Router       /api/inventario/stock/conciliacion [get]
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.uc.Reconcile(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
