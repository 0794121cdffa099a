package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Los cinco primeros son las clases que la capa HTTP traduce a códigos de estado;
// el resto son motivos concretos que siempre cuelgan de ErrConflict.
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrUnprocessable    = errors.New("entidad no procesable")
	ErrBadRequest       = errors.New("solicitud inválida")
	ErrMethodNotAllowed = errors.New("operación no permitida")

	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrNoSeatsAvailable  = errors.New("no hay licencias disponibles")
	ErrInUse             = errors.New("recurso en uso")

	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)

// Error acompaña una clase de error (Kind) con un motivo opcional y un mensaje legible.
// errors.Is funciona contra ambos.
type Error struct {
	Kind    error
	Reason  error
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Reason != nil {
		return e.Reason.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.Reason != nil {
		return []error{e.Kind, e.Reason}
	}
	return []error{e.Kind}
}

// Wrap construye un *Error con clase, motivo y mensaje formateado.
func Wrap(kind, reason error, format string, args ...any) error {
	return &Error{Kind: kind, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return Wrap(ErrNotFound, nil, format, args...)
}

func Conflict(format string, args ...any) error {
	return Wrap(ErrConflict, nil, format, args...)
}

func Unprocessable(format string, args ...any) error {
	return Wrap(ErrUnprocessable, nil, format, args...)
}

func BadRequest(format string, args ...any) error {
	return Wrap(ErrBadRequest, nil, format, args...)
}

func MethodNotAllowed(format string, args ...any) error {
	return Wrap(ErrMethodNotAllowed, nil, format, args...)
}

// KindOf devuelve la clase de err. Los motivos sueltos (ErrDuplicate, ErrInsufficientStock, ...)
// cuentan como ErrConflict. Devuelve nil si err no pertenece a la taxonomía.
func KindOf(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrUnprocessable):
		return ErrUnprocessable
	case errors.Is(err, ErrMethodNotAllowed):
		return ErrMethodNotAllowed
	case errors.Is(err, ErrBadRequest):
		return ErrBadRequest
	case errors.Is(err, ErrConflict),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrNoSeatsAvailable),
		errors.Is(err, ErrInUse):
		return ErrConflict
	case errors.Is(err, ErrUnauthorized):
		return ErrUnauthorized
	case errors.Is(err, ErrForbidden):
		return ErrForbidden
	}
	return nil
}
