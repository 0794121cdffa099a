package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────────────────────────────────────
// Seed
// ─────────────────────────────────────────────────────────────────────────────

func TestStoreSeed_RegistraReferencias(t *testing.T) {
	ctx := context.Background()
	equipo, usuario, mant, proveedor := uuid.NewString(), uuid.NewString(), uuid.NewString(), uuid.NewString()
	st := NewStore()
	st.Seed(References{
		Equipos:        []string{equipo},
		Usuarios:       []string{usuario},
		Mantenimientos: []string{mant},
		Proveedores:    []string{proveedor},
	})
	refs := NewReferenceRepository(st)

	checks := []struct {
		name   string
		exists func(context.Context, string) (bool, error)
		id     string
	}{
		{"equipo", refs.EquipmentExists, equipo},
		{"usuario", refs.UserExists, usuario},
		{"mantenimiento", refs.MaintenanceExists, mant},
		{"proveedor", refs.VendorExists, proveedor},
	}
	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			ok, err := c.exists(ctx, c.id)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = c.exists(ctx, uuid.NewString())
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}

	// Las referencias son por tipo: un equipo no es un proveedor.
	ok, err := refs.VendorExists(ctx, equipo)
	require.NoError(t, err)
	assert.False(t, ok)
}
