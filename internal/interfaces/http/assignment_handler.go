package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/control-equipos-api/internal/application/dto"
	"github.com/jhoicas/control-equipos-api/internal/application/licensing"
	"github.com/jhoicas/control-equipos-api/internal/domain"
)

// AssignmentHandler asignaciones de licencia a equipos o usuarios (protegido).
type AssignmentHandler struct {
	uc  *licensing.AssignmentUseCase
	log zerolog.Logger
}

// NewAssignmentHandler construye el handler.
func NewAssignmentHandler(uc *licensing.AssignmentUseCase, log zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Asignar licencia
// @Description  Exactamente uno de equipo_id o usuario_id. Consume un puesto del lote.
// @Tags         asignaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAssignmentRequest  true  "licencia_id y destino"
// @Success      201   {object}  dto.AssignmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/licencias/asignaciones/ [post]
func (h *AssignmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAssignmentRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

type assignmentListQuery struct {
	dto.PageRequest
	LicenciaID string `query:"licencia_id"`
	EquipoID   string `query:"equipo_id"`
	UsuarioID  string `query:"usuario_id"`
}

// List godoc
// @Summary      Listar asignaciones
// @Description  Requiere exactamente un filtro: licencia_id, equipo_id o usuario_id.
// @Tags         asignaciones
// @Security     Bearer
// @Produce      json
// @Param        licencia_id  query  string  false  "Lote de licencias"
// @Param        equipo_id    query  string  false  "Equipo"
// @Param        usuario_id   query  string  false  "Usuario"
// @Success      200  {array}   dto.AssignmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/licencias/asignaciones/ [get]
func (h *AssignmentHandler) List(c *fiber.Ctx) error {
	var q assignmentListQuery
	if !bindQuery(c, &q) {
		return nil
	}
	var (
		out []dto.AssignmentResponse
		err error
	)
	ctx := c.UserContext()
	switch {
	case q.LicenciaID != "" && q.EquipoID == "" && q.UsuarioID == "":
		out, err = h.uc.ByLicense(ctx, q.LicenciaID, q.PageRequest)
	case q.EquipoID != "" && q.LicenciaID == "" && q.UsuarioID == "":
		out, err = h.uc.ByEquipo(ctx, q.EquipoID, q.PageRequest)
	case q.UsuarioID != "" && q.LicenciaID == "" && q.EquipoID == "":
		out, err = h.uc.ByUsuario(ctx, q.UsuarioID, q.PageRequest)
	default:
		err = domain.BadRequest("indique exactamente uno de licencia_id, equipo_id o usuario_id")
	}
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener asignación
// @Tags         asignaciones
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la asignación"
// @Success      200  {object}  dto.AssignmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/licencias/asignaciones/{id} [get]
func (h *AssignmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar asignación
// @Description  Solo instalado y notas.
// @Tags         asignaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la asignación"
// @Param        body  body  dto.UpdateAssignmentRequest  true  "instalado, notas"
// @Success      200   {object}  dto.AssignmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/licencias/asignaciones/{id} [put]
func (h *AssignmentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAssignmentRequest
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
// @Summary      Eliminar asignación
// @Description  Devuelve el puesto al lote.
// @Tags         asignaciones
// @Security     Bearer
// @Param        id   path  string  true  "ID de la asignación"
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/licencias/asignaciones/{id} [delete]
func (h *AssignmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Remove(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.MessageResponse{Msg: "Asignación eliminada y licencia devuelta al lote"})
}
