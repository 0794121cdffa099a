package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/control-equipos-api/internal/domain"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no encontrado", domain.NotFound("x %s", "1"), domain.ErrNotFound},
		{"conflicto con motivo", domain.Wrap(domain.ErrConflict, domain.ErrInsufficientStock, "sin stock"), domain.ErrConflict},
		{"motivo suelto", domain.ErrNoSeatsAvailable, domain.ErrConflict},
		{"envuelto con %w", fmt.Errorf("op: %w", domain.Unprocessable("mal")), domain.ErrUnprocessable},
		{"405", domain.MethodNotAllowed("inmutable"), domain.ErrMethodNotAllowed},
		{"400", domain.BadRequest("dato"), domain.ErrBadRequest},
		{"ajeno a la taxonomía", errors.New("boom"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.KindOf(tt.err))
		})
	}
}

func TestError_MensajeYUnwrap(t *testing.T) {
	err := domain.Wrap(domain.ErrConflict, domain.ErrDuplicate, "el SKU %s ya existe", "A-1")
	assert.Equal(t, "el SKU A-1 ya existe", err.Error())
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.NotErrorIs(t, err, domain.ErrInUse)

	var de *domain.Error
	assert.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrDuplicate, de.Reason)

	bare := &domain.Error{Kind: domain.ErrNotFound}
	assert.Equal(t, domain.ErrNotFound.Error(), bare.Error())
}
