package licensing_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/control-equipos-api/internal/application/dto"
	"github.com/jhoicas/control-equipos-api/internal/application/licensing"
	"github.com/jhoicas/control-equipos-api/internal/domain"
	"github.com/jhoicas/control-equipos-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: casos de uso de licencias sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store       *memory.Store
	poolRepo    *memory.LicensePoolRepo
	software    *licensing.SoftwareUseCase
	pools       *licensing.PoolUseCase
	assignments *licensing.AssignmentUseCase
}

func newFixture() *fixture {
	return newFixtureWithLog(zerolog.Nop())
}

func newFixtureWithLog(log zerolog.Logger) *fixture {
	st := memory.NewStore()
	tx := memory.NewTxRunner(st)
	swRepo := memory.NewSoftwareRepository(st)
	poolRepo := memory.NewLicensePoolRepository(st)
	asgRepo := memory.NewAssignmentRepository(st)
	refs := memory.NewReferenceRepository(st)
	return &fixture{
		store:       st,
		poolRepo:    poolRepo,
		software:    licensing.NewSoftwareUseCase(swRepo),
		pools:       licensing.NewPoolUseCase(tx, poolRepo, asgRepo, swRepo, refs, log),
		assignments: licensing.NewAssignmentUseCase(tx, poolRepo, asgRepo, refs, log),
	}
}

func ptr[T any](v T) *T { return &v }

func today() time.Time { return dto.NewDate(time.Now()).Time }

func (f *fixture) pool(t *testing.T, total int, expira *time.Time) dto.LicensePoolResponse {
	t.Helper()
	ctx := context.Background()
	sw, err := f.software.Create(ctx, dto.CreateSoftwareRequest{Nombre: "Office", Version: ptr(uuid.NewString())})
	require.NoError(t, err)
	in := dto.CreateLicensePoolRequest{
		SoftwareCatalogoID: sw.ID,
		FechaAdquisicion:   &dto.Date{Time: today().AddDate(-1, 0, 0)},
		CantidadTotal:      total,
	}
	if expira != nil {
		in.FechaExpiracion = &dto.Date{Time: *expira}
	}
	out, err := f.pools.CreatePool(ctx, in)
	require.NoError(t, err)
	return *out
}

func (f *fixture) equipos(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	f.store.AddEquipment(ids...)
	return ids
}

func (f *fixture) disponible(t *testing.T, id string) int {
	t.Helper()
	p, err := f.pools.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.CantidadDisponible
}

// ──────────────────────────────────────────────────────────────────────────────
// Lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestCreatePool_DisponibleIgualATotal(t *testing.T) {
	f := newFixture()
	p := f.pool(t, 5, nil)
	assert.Equal(t, 5, p.CantidadTotal)
	assert.Equal(t, 5, p.CantidadDisponible)

	_, err := f.pools.CreatePool(context.Background(), dto.CreateLicensePoolRequest{
		SoftwareCatalogoID: uuid.NewString(),
		FechaAdquisicion:   &dto.Date{Time: today()},
		CantidadTotal:      1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "software inexistente")

	_, err = f.pools.CreatePool(context.Background(), dto.CreateLicensePoolRequest{
		SoftwareCatalogoID: p.SoftwareCatalogoID,
		FechaAdquisicion:   &dto.Date{Time: today()},
		FechaExpiracion:    &dto.Date{Time: today().AddDate(0, 0, -1)},
		CantidadTotal:      1,
	})
	assert.ErrorIs(t, err, domain.ErrUnprocessable, "expira antes de adquirirse")

	costo := decimal.NewFromInt(-1)
	_, err = f.pools.CreatePool(context.Background(), dto.CreateLicensePoolRequest{
		SoftwareCatalogoID: p.SoftwareCatalogoID,
		FechaAdquisicion:   &dto.Date{Time: today()},
		CostoAdquisicion:   &costo,
		CantidadTotal:      1,
	})
	assert.ErrorIs(t, err, domain.ErrUnprocessable, "costo negativo")
}

func TestUpdatePool_RecalculaDisponible(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.pool(t, 5, nil)
	for _, eq := range f.equipos(3) {
		_, err := f.assignments.Create(ctx, dto.CreateAssignmentRequest{LicenciaID: p.ID, EquipoID: ptr(eq)})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, f.disponible(t, p.ID))

	_, err := f.pools.UpdatePool(ctx, p.ID, dto.UpdateLicensePoolRequest{CantidadTotal: ptr(2)})
	assert.ErrorIs(t, err, domain.ErrConflict, "total por debajo de lo asignado")
	assert.Equal(t, 2, f.disponible(t, p.ID))

	out, err := f.pools.UpdatePool(ctx, p.ID, dto.UpdateLicensePoolRequest{
		CantidadTotal:      ptr(4),
		CantidadDisponible: ptr(99),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, out.CantidadTotal)
	assert.Equal(t, 1, out.CantidadDisponible, "disponible se recalcula y el valor enviado se ignora")

	out, err = f.pools.UpdatePool(ctx, p.ID, dto.UpdateLicensePoolRequest{CantidadDisponible: ptr(0), Notas: ptr("renovada")})
	require.NoError(t, err)
	assert.Equal(t, 1, out.CantidadDisponible)
	require.NotNil(t, out.Notas)
	assert.Equal(t, "renovada", *out.Notas)
}

func TestDeletePool_ConAsignaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.pool(t, 2, nil)
	asg, err := f.assignments.Create(ctx, dto.CreateAssignmentRequest{LicenciaID: p.ID, EquipoID: ptr(f.equipos(1)[0])})
	require.NoError(t, err)

	err = f.pools.DeletePool(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrInUse)

	require.NoError(t, f.assignments.Remove(ctx, asg.ID))
	require.NoError(t, f.pools.DeletePool(ctx, p.ID))
	_, err = f.pools.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExpiringSoon(t *testing.T) {
	f := newFixture()
	hoy := today()
	en10 := hoy.AddDate(0, 0, 10)
	en60 := hoy.AddDate(0, 0, 60)
	ayer := hoy.AddDate(0, 0, -1)
	pHoy := f.pool(t, 1, &hoy)
	p10 := f.pool(t, 1, &en10)
	f.pool(t, 1, &en60)
	f.pool(t, 1, &ayer)
	f.pool(t, 1, nil)

	list, err := f.pools.ExpiringSoon(context.Background(), 30, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, pHoy.ID, list[0].ID, "del más próximo al más lejano")
	assert.Equal(t, p10.ID, list[1].ID)

	list, err = f.pools.ExpiringSoon(context.Background(), -7, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1, "un horizonte negativo se trata como 0")
	assert.Equal(t, pHoy.ID, list[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Asignaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestAssignment_ConsumeYDevuelvePuesto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.pool(t, 5, nil)
	eq := f.equipos(1)[0]

	asg, err := f.assignments.Create(ctx, dto.CreateAssignmentRequest{LicenciaID: p.ID, EquipoID: &eq})
	require.NoError(t, err)
	assert.True(t, asg.Instalado, "instalado por defecto")
	assert.Equal(t, 4, f.disponible(t, p.ID))

	_, err = f.assignments.Create(ctx, dto.CreateAssignmentRequest{LicenciaID: p.ID, EquipoID: &eq})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, 4, f.disponible(t, p.ID))

	require.NoError(t, f.assignments.Remove(ctx, asg.ID))
	assert.Equal(t, 5, f.disponible(t, p.ID))

	err = f.assignments.Remove(ctx, asg.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 5, f.disponible(t, p.ID), "el segundo borrado no devuelve otro puesto")
}

func TestAssignment_DestinoExclusivoYReferencias(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.pool(t, 5, nil)
	eq := f.equipos(1)[0]
	us := uuid.NewString()

	_, err := f.assignments.Create(ctx, dto.CreateAssignmentRequest{LicenciaID: p.ID, EquipoID: &eq, UsuarioID: &us})
	assert.ErrorIs(t, err, domain.ErrUnprocessable)

	_, err = f.assignments.Create(ctx, dto.CreateAssignmentRequest{LicenciaID: p.ID})
	assert.ErrorIs(t, err, domain.ErrUnprocessable)

	_, err = f.assignments.Create(ctx, dto.CreateAssignmentRequest{LicenciaID: p.ID, UsuarioID: &us})
	assert.ErrorIs(t, err, domain.ErrNotFound, "usuario inexistente")

	_, err = f.assignments.Create(ctx, dto.CreateAssignmentRequest{LicenciaID: uuid.NewString(), EquipoID: &eq})
	assert.ErrorIs(t, err, domain.ErrNotFound, "licencia inexistente")

	f.store.AddUser(us)
	asg, err := f.assignments.Create(ctx, dto.CreateAssignmentRequest{LicenciaID: p.ID, UsuarioID: &us, Instalado: ptr(false)})
	require.NoError(t, err)
	assert.Nil(t, asg.EquipoID)
	require.NotNil(t, asg.UsuarioID)
	assert.Equal(t, us, *asg.UsuarioID)
	assert.False(t, asg.Instalado)

	byUser, err := f.assignments.ByUsuario(ctx, us, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, byUser, 1)
	byEq, err := f.assignments.ByEquipo(ctx, eq, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, byEq)
}

func TestAssignment_UpdateSoloInstaladoYNotas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.pool(t, 1, nil)
	asg, err := f.assignments.Create(ctx, dto.CreateAssignmentRequest{LicenciaID: p.ID, EquipoID: ptr(f.equipos(1)[0])})
	require.NoError(t, err)

	out, err := f.assignments.Update(ctx, asg.ID, dto.UpdateAssignmentRequest{Instalado: ptr(false), Notas: ptr("pendiente")})
	require.NoError(t, err)
	assert.False(t, out.Instalado)
	assert.Equal(t, asg.EquipoID, out.EquipoID)
	assert.Equal(t, 0, f.disponible(t, p.ID))

	_, err = f.assignments.Update(ctx, uuid.NewString(), dto.UpdateAssignmentRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssignment_ConcurrenciaNoSobreasigna(t *testing.T) {
	f := newFixture()
	p := f.pool(t, 3, nil)
	eqs := f.equipos(10)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, full int
	)
	for _, eq := range eqs {
		wg.Add(1)
		go func(eq string) {
			defer wg.Done()
			_, err := f.assignments.Create(context.Background(), dto.CreateAssignmentRequest{LicenciaID: p.ID, EquipoID: &eq})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, domain.ErrNoSeatsAvailable) {
				full++
			}
		}(eq)
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, 7, full)
	assert.Equal(t, 0, f.disponible(t, p.ID))

	rep, err := f.pools.Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, rep.Consistente)
	assert.Equal(t, 1, rep.Lotes)
}

func TestAssignment_RemoveConLoteDescuadradoAvisa(t *testing.T) {
	var logs bytes.Buffer
	f := newFixtureWithLog(zerolog.New(&logs))
	ctx := context.Background()
	p := f.pool(t, 2, nil)
	equipo := f.equipos(1)[0]

	asg, err := f.assignments.Create(ctx, dto.CreateAssignmentRequest{LicenciaID: p.ID, EquipoID: &equipo})
	require.NoError(t, err)
	require.Equal(t, 1, f.disponible(t, p.ID))

	// Contador corrompido fuera del flujo normal: disponible vuelve a igualar al total.
	stored, err := f.poolRepo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	stored.CantidadDisponible = stored.CantidadTotal
	require.NoError(t, f.poolRepo.Update(ctx, stored))

	logs.Reset()
	require.NoError(t, f.assignments.Remove(ctx, asg.ID))
	assert.Equal(t, 2, f.disponible(t, p.ID), "nunca supera el total")
	assert.Contains(t, logs.String(), "lote inconsistente")
	assert.Contains(t, logs.String(), p.ID)
}
