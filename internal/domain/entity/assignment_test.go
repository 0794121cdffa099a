package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
)

func TestNewTarget_ExactamenteUnDestino(t *testing.T) {
	equipo, usuario, vacio := "eq-1", "us-1", ""

	tests := []struct {
		name     string
		equipoID *string
		usuarioI *string
		wantKind entity.TargetKind
		wantErr  bool
	}{
		{"solo equipo", &equipo, nil, entity.TargetEquipment, false},
		{"solo usuario", nil, &usuario, entity.TargetUser, false},
		{"usuario con equipo vacío", &vacio, &usuario, entity.TargetUser, false},
		{"ambos", &equipo, &usuario, 0, true},
		{"ninguno", nil, nil, 0, true},
		{"ambos vacíos", &vacio, &vacio, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := entity.NewTarget(tt.equipoID, tt.usuarioI)
			if tt.wantErr {
				assert.ErrorIs(t, err, entity.ErrInvalidTarget)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, got.Kind())
		})
	}
}

func TestTarget_Columns(t *testing.T) {
	eq, us := entity.EquipmentTarget("eq-1").Columns()
	require.NotNil(t, eq)
	assert.Equal(t, "eq-1", *eq)
	assert.Nil(t, us)

	eq, us = entity.UserTarget("us-1").Columns()
	assert.Nil(t, eq)
	require.NotNil(t, us)
	assert.Equal(t, "us-1", *us)

	eq, us = entity.Target{}.Columns()
	assert.Nil(t, eq)
	assert.Nil(t, us)
}

func TestTarget_Comparable(t *testing.T) {
	assert.Equal(t, entity.EquipmentTarget("x"), entity.EquipmentTarget("x"))
	assert.NotEqual(t, entity.EquipmentTarget("x"), entity.UserTarget("x"))
	assert.Equal(t, "equipo", entity.TargetEquipment.String())
	assert.Equal(t, "usuario", entity.TargetUser.String())
}
