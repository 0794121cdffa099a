package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/control-equipos-api/internal/application/dto"
	"github.com/jhoicas/control-equipos-api/internal/application/licensing"
)

// LicenseHandler lotes de licencias y catálogo de software (protegido).
type LicenseHandler struct {
	pools        *licensing.PoolUseCase
	software     *licensing.SoftwareUseCase
	expiringDays int
	log          zerolog.Logger
}

// NewLicenseHandler construye el handler. expiringDays es el horizonte por defecto de /expirando.
func NewLicenseHandler(pools *licensing.PoolUseCase, software *licensing.SoftwareUseCase, expiringDays int, log zerolog.Logger) *LicenseHandler {
	return &LicenseHandler{pools: pools, software: software, expiringDays: expiringDays, log: log}
}

// CreateSoftware godoc
// @Summary      Registrar software en el catálogo
// @Tags         licencias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSoftwareRequest  true  "Datos del software"
// @Success      201   {object}  dto.SoftwareResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/licencias/catalogo/ [post]
func (h *LicenseHandler) CreateSoftware(c *fiber.Ctx) error {
	var in dto.CreateSoftwareRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.software.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSoftware godoc
// @Summary      Listar catálogo de software
// @Tags         licencias
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SoftwareResponse
// @Router       /api/licencias/catalogo/ [get]
func (h *LicenseHandler) ListSoftware(c *fiber.Ctx) error {
	var page dto.PageRequest
	if !bindQuery(c, &page) {
		return nil
	}
	out, err := h.software.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetSoftware godoc
// @Summary      Obtener software del catálogo
// @Tags         licencias
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del software"
// @Success      200  {object}  dto.SoftwareResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/licencias/catalogo/{id} [get]
func (h *LicenseHandler) GetSoftware(c *fiber.Ctx) error {
	out, err := h.software.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar lote de licencias
// @Description  cantidad_disponible arranca igual a cantidad_total.
// @Tags         licencias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLicensePoolRequest  true  "Datos del lote"
// @Success      201   {object}  dto.LicensePoolResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/licencias/ [post]
func (h *LicenseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLicensePoolRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.pools.CreatePool(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

type licenseListQuery struct {
	dto.PageRequest
	SoftwareID string `query:"software_catalogo_id"`
}

// List godoc
// @Summary      Listar lotes de licencias
// @Tags         licencias
// @Security     Bearer
// @Produce      json
// @Param        software_catalogo_id  query  string  false  "Filtrar por software"
// @Success      200  {array}  dto.LicensePoolResponse
// @Router       /api/licencias/ [get]
func (h *LicenseHandler) List(c *fiber.Ctx) error {
	var q licenseListQuery
	if !bindQuery(c, &q) {
		return nil
	}
	out, err := h.pools.List(c.UserContext(), q.SoftwareID, q.PageRequest)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

type expiringQuery struct {
	dto.PageRequest
	Dias *int `query:"dias"`
}

// Expiring godoc
// @Summary      Lotes que expiran pronto
// @Tags         licencias
// @Security     Bearer
// @Produce      json
// @Param        dias  query  int  false  "Horizonte en días (negativo = 0)"
// @Success      200  {array}  dto.LicensePoolResponse
// @Router       /api/licencias/expirando [get]
func (h *LicenseHandler) Expiring(c *fiber.Ctx) error {
	var q expiringQuery
	if !bindQuery(c, &q) {
		return nil
	}
	days := h.expiringDays
	if q.Dias != nil {
		days = *q.Dias
	}
	out, err := h.pools.ExpiringSoon(c.UserContext(), days, q.PageRequest)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener lote de licencias
// @Tags         licencias
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del lote"
// @Success      200  {object}  dto.LicensePoolResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/licencias/{id} [get]
func (h *LicenseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.pools.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar lote de licencias
// @Description  cantidad_disponible se ignora; se recalcula como total - asignaciones.
// @Tags         licencias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del lote"
// @Param        body  body  dto.UpdateLicensePoolRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.LicensePoolResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/licencias/{id} [put]
func (h *LicenseHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLicensePoolRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.pools.UpdatePool(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar lote de licencias
// @Tags         licencias
// @Security     Bearer
// @Param        id   path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/licencias/{id} [delete]
func (h *LicenseHandler) Delete(c *fiber.Ctx) error {
	if err := h.pools.DeletePool(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reconcile godoc
// @Summary      Conciliar contadores de licencias con sus asignaciones
// @Tags         licencias
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LicenseReconciliationResponse
// @Router       /api/licencias/conciliacion [get]
func (h *LicenseHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.pools.Reconcile(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
