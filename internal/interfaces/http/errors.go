package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/control-equipos-api/internal/application/dto"
	"github.com/jhoicas/control-equipos-api/internal/domain"
)

// statusFor traduce un error de dominio a código HTTP y código de error de la API.
func statusFor(err error) (int, string) {
	switch domain.KindOf(err) {
	case domain.ErrNotFound:
		return fiber.StatusNotFound, "NOT_FOUND"
	case domain.ErrConflict:
		switch {
		case errors.Is(err, domain.ErrInsufficientStock):
			return fiber.StatusConflict, "INSUFFICIENT_STOCK"
		case errors.Is(err, domain.ErrNoSeatsAvailable):
			return fiber.StatusConflict, "NO_SEATS_AVAILABLE"
		case errors.Is(err, domain.ErrDuplicate):
			return fiber.StatusConflict, "DUPLICATE"
		case errors.Is(err, domain.ErrInUse):
			return fiber.StatusConflict, "IN_USE"
		}
		return fiber.StatusConflict, "CONFLICT"
	case domain.ErrUnprocessable:
		return fiber.StatusUnprocessableEntity, "VALIDATION"
	case domain.ErrBadRequest:
		return fiber.StatusBadRequest, "BAD_REQUEST"
	case domain.ErrMethodNotAllowed:
		return fiber.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"
	case domain.ErrUnauthorized:
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case domain.ErrForbidden:
		return fiber.StatusForbidden, "FORBIDDEN"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fiber.StatusGatewayTimeout, "TIMEOUT"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// writeError escribe la respuesta de error. Los errores internos se registran y se responden
// con un mensaje genérico.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	status, code := statusFor(err)
	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Interface("request_id", c.Locals("requestid")).
			Msg("error interno")
		msg = "error interno del servidor"
		if status == fiber.StatusGatewayTimeout {
			msg = "la operación excedió el tiempo máximo"
		}
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler manejador global de Fiber: errores de ruta (*fiber.Error) y cualquier error
// devuelto por un handler sin escribir respuesta.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "HTTP_ERROR"
			switch fe.Code {
			case fiber.StatusNotFound:
				code = "NOT_FOUND"
			case fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}
		return writeError(c, log, err)
	}
}
