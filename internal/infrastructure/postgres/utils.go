package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"

	"github.com/jhoicas/control-equipos-api/internal/domain"
)

// Códigos SQLSTATE que se traducen a la taxonomía de dominio.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeForeignKeyViolation  = "23503"
	codeNotNullViolation     = "23502"
	codeRaiseException       = "P0001"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// Mensajes de duplicado por constraint.
var duplicateMessages = map[string]string{
	"uq_tipo_item_nombre":            "ya existe un tipo de ítem con ese nombre",
	"uq_tipo_item_sku":               "ya existe un tipo de ítem con ese SKU",
	"uq_tipo_item_codigo_barras":     "ya existe un tipo de ítem con ese código de barras",
	"uq_stock_item_ubicacion_lote":   "ya existe un registro de stock para ese ítem, ubicación y lote",
	"uq_software_nombre_version":     "ya existe un software con ese nombre y versión",
	"uq_licencia_clave_producto":     "ya existe una licencia con esa clave de producto",
	"uq_asignacion_licencia_equipo":  "Esta licencia ya está asignada a este equipo",
	"uq_asignacion_licencia_usuario": "Esta licencia ya está asignada a este usuario",
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// isRetryable indica si la transacción puede repetirse (serialización o deadlock).
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected
	}
	return false
}

// classify traduce errores del driver a errores de dominio; op describe la operación para el
// caso no clasificado. Errores que ya son de dominio pasan sin cambios.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if domain.KindOf(err) != nil {
		return err
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		if isUniqueViolation(err) {
			return domain.Wrap(domain.ErrConflict, domain.ErrDuplicate, "recurso duplicado")
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	switch {
	case pgErr.Code == codeUniqueViolation:
		msg, ok := duplicateMessages[pgErr.ConstraintName]
		if !ok {
			msg = "recurso duplicado"
		}
		return domain.Wrap(domain.ErrConflict, domain.ErrDuplicate, "%s", msg)
	case pgErr.Code == codeCheckViolation && pgErr.ConstraintName == "inventario_stock_cantidad_no_negativa":
		return domain.Wrap(domain.ErrConflict, domain.ErrInsufficientStock, "stock insuficiente")
	case pgErr.Code == codeCheckViolation && pgErr.ConstraintName == "licencias_disponible_rango":
		return domain.Wrap(domain.ErrConflict, domain.ErrNoSeatsAvailable, "no hay licencias disponibles")
	case pgErr.Code == codeCheckViolation,
		pgErr.Code == codeNotNullViolation,
		strings.HasPrefix(pgErr.Code, "22"):
		return domain.BadRequest("datos inválidos: %s", pgErr.Message)
	case pgErr.Code == codeForeignKeyViolation:
		return domain.Wrap(domain.ErrConflict, domain.ErrInUse, "referencia inválida o en uso: %s", pgErr.ConstraintName)
	case pgErr.Code == codeRaiseException:
		if strings.Contains(cases.Fold().String(pgErr.Message), "stock insuficiente") {
			return domain.Wrap(domain.ErrConflict, domain.ErrInsufficientStock, "%s", pgErr.Message)
		}
		return domain.BadRequest("%s", pgErr.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// validID indica si id puede compararse con una columna UUID; un id mal formado no existe.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

// limitArg traduce limit 0 (sin límite) a LIMIT NULL.
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

// prefixed antepone el alias de tabla a cada columna de una lista separada por comas.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// escapeLike escapa los comodines de LIKE para buscar la subcadena literal.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
