package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/control-equipos-api/internal/domain"
)

// ─────────────────────────────────────────────────────────────────────────────
// classify
// ─────────────────────────────────────────────────────────────────────────────

func pgErr(code, constraint, msg string) error {
	return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code, ConstraintName: constraint, Message: msg})
}

func TestClassify_Nil(t *testing.T) {
	assert.NoError(t, classify("op", nil))
}

func TestClassify_UnicoConMensajePorConstraint(t *testing.T) {
	err := classify("insert", pgErr(codeUniqueViolation, "uq_tipo_item_sku", "duplicate key"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, "ya existe un tipo de ítem con ese SKU", err.Error())
}

func TestClassify_UnicoConstraintDesconocido(t *testing.T) {
	err := classify("insert", pgErr(codeUniqueViolation, "otra", "duplicate key"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, "recurso duplicado", err.Error())
}

func TestClassify_CheckStockNegativo(t *testing.T) {
	err := classify("update", pgErr(codeCheckViolation, "inventario_stock_cantidad_no_negativa", "violates check"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, domain.ErrConflict, domain.KindOf(err))
}

func TestClassify_CheckRangoLicencias(t *testing.T) {
	err := classify("update", pgErr(codeCheckViolation, "licencias_disponible_rango", "violates check"))
	assert.ErrorIs(t, err, domain.ErrNoSeatsAvailable)
}

func TestClassify_OtrosCheckYFormatoSonBadRequest(t *testing.T) {
	for _, code := range []string{codeCheckViolation, codeNotNullViolation, "22P02", "22001"} {
		err := classify("insert", pgErr(code, "x", "valor inválido"))
		assert.ErrorIs(t, err, domain.ErrBadRequest, code)
		assert.Contains(t, err.Error(), "valor inválido")
	}
}

func TestClassify_ForeignKeyEsEnUso(t *testing.T) {
	err := classify("delete", pgErr(codeForeignKeyViolation, "asignaciones_licencia_licencia_id_fkey", "fk"))
	assert.ErrorIs(t, err, domain.ErrInUse)
	assert.Equal(t, domain.ErrConflict, domain.KindOf(err))
}

func TestClassify_RaiseException(t *testing.T) {
	err := classify("trigger", pgErr(codeRaiseException, "", "STOCK INSUFICIENTE en bodega"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	err = classify("trigger", pgErr(codeRaiseException, "", "regla violada"))
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestClassify_SerializacionSeConservaParaReintento(t *testing.T) {
	err := classify("update", pgErr(codeSerializationFailure, "", "could not serialize"))
	assert.Nil(t, domain.KindOf(err))
	assert.True(t, isRetryable(err))
	assert.True(t, isRetryable(pgErr(codeDeadlockDetected, "", "deadlock")))
	assert.False(t, isRetryable(errors.New("otro")))
}

func TestClassify_ErrorDeDominioPasaSinCambios(t *testing.T) {
	orig := domain.NotFound("no está")
	assert.Same(t, orig, classify("op", orig))
}

func TestClassify_ErrorGenericoEnvuelveOperacion(t *testing.T) {
	base := errors.New("conexión cerrada")
	err := classify("list stock", base)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "list stock: conexión cerrada", err.Error())
}

// ─────────────────────────────────────────────────────────────────────────────
// Auxiliares
// ─────────────────────────────────────────────────────────────────────────────

func TestLimitArg(t *testing.T) {
	assert.Nil(t, limitArg(0))
	assert.Equal(t, 10, limitArg(10))
}

func TestPrefixed(t *testing.T) {
	assert.Equal(t, "t.id, t.nombre, t.sku", prefixed("t", "id, nombre,\n\tsku"))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_a\\b`, escapeLike(`50%_a\b`))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("3f2504e0-4f89-11d3-9a0c-0305e82c3301"))
	assert.False(t, validID("no-es-uuid"))
	assert.False(t, validID(""))
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", migrateURL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://u@h/db", migrateURL("postgresql://u@h/db"))
}
