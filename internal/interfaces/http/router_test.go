package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/control-equipos-api/internal/application/dto"
	"github.com/jhoicas/control-equipos-api/internal/application/inventory"
	"github.com/jhoicas/control-equipos-api/internal/application/licensing"
	"github.com/jhoicas/control-equipos-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/control-equipos-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
	t     *testing.T
}

// newAPI monta el router completo sobre el almacén en memoria.
func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	log := zerolog.Nop()
	st := memory.NewStore()
	tx := memory.NewTxRunner(st)
	itemRepo := memory.NewItemTypeRepository(st)
	stockRepo := memory.NewStockRepository(st)
	movRepo := memory.NewMovementRepository(st)
	swRepo := memory.NewSoftwareRepository(st)
	poolRepo := memory.NewLicensePoolRepository(st)
	asgRepo := memory.NewAssignmentRepository(st)
	refs := memory.NewReferenceRepository(st)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		RegisterMovement:    inventory.NewRegisterMovementUseCase(tx, itemRepo, movRepo, refs, log),
		StockUC:             inventory.NewStockUseCase(tx, stockRepo, itemRepo, movRepo, log),
		ItemTypeUC:          inventory.NewItemTypeUseCase(tx, itemRepo, refs, log),
		ReplenishmentUC:     inventory.NewReplenishmentUseCase(itemRepo),
		SoftwareUC:          licensing.NewSoftwareUseCase(swRepo),
		PoolUC:              licensing.NewPoolUseCase(tx, poolRepo, asgRepo, swRepo, refs, log),
		AssignmentUC:        licensing.NewAssignmentUseCase(tx, poolRepo, asgRepo, refs, log),
		JWTSecret:           testJWTSecret,
		ExpiringDefaultDays: 30,
		Log:                 log,
	})
	return &apiFixture{app: app, store: st, t: t}
}

// call lanza la petición con un token del rol indicado y decodifica la respuesta en out (si no es nil).
func (f *apiFixture) call(method, path, role string, body interface{}, out interface{}) int {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(f.t, role))
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(f.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(f.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (f *apiFixture) createItem(nombre string, minimo int) dto.ItemTypeResponse {
	f.t.Helper()
	var item dto.ItemTypeResponse
	status := f.call(http.MethodPost, "/api/inventario/tipos/", apphttp.RoleAdmin, dto.CreateItemTypeRequest{
		Nombre:      nombre,
		Categoria:   "Consumible",
		StockMinimo: minimo,
	}, &item)
	require.Equal(f.t, http.StatusCreated, status)
	return item
}

func movement(itemID, tipo string, cantidad int, origen, destino string) map[string]interface{} {
	body := map[string]interface{}{
		"tipo_item_id":    itemID,
		"tipo_movimiento": tipo,
		"cantidad":        cantidad,
	}
	if origen != "" {
		body["ubicacion_origen"] = origen
	}
	if destino != "" {
		body["ubicacion_destino"] = destino
	}
	return body
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_EntradaSalidaYStockInsuficiente(t *testing.T) {
	api := newAPI(t)
	toner := api.createItem("Toner HP 85A", 0)

	var mov dto.MovementResponse
	status := api.call(http.MethodPost, "/api/inventario/movimientos/", apphttp.RoleTecnico,
		movement(toner.ID, "Entrada Compra", 10, "", "Bodega Central"), &mov)
	require.Equal(t, http.StatusCreated, status)
	require.NotNil(t, mov.UsuarioID)
	assert.Equal(t, testUserID, *mov.UsuarioID, "el usuario sale del token")

	status = api.call(http.MethodPost, "/api/inventario/movimientos/", apphttp.RoleTecnico,
		movement(toner.ID, "Salida Uso", 2, "Bodega Central", ""), nil)
	require.Equal(t, http.StatusCreated, status)

	var errResp dto.ErrorResponse
	status = api.call(http.MethodPost, "/api/inventario/movimientos/", apphttp.RoleTecnico,
		movement(toner.ID, "Salida Uso", 20, "Bodega Central", ""), &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)

	var total dto.StockTotalResponse
	status = api.call(http.MethodGet, "/api/inventario/stock/item/"+toner.ID+"/total", apphttp.RoleConsulta, nil, &total)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(8), total.CantidadTotal)

	var list []dto.MovementResponse
	status = api.call(http.MethodGet, "/api/inventario/movimientos/?tipo_item_id="+toner.ID, apphttp.RoleConsulta, nil, &list)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list, 2, "el movimiento rechazado no queda en el log")
}

func TestAPI_MovimientoCantidadCero_Retorna422(t *testing.T) {
	api := newAPI(t)
	item := api.createItem("Cable HDMI", 0)

	var errResp dto.ErrorResponse
	status := api.call(http.MethodPost, "/api/inventario/movimientos/", apphttp.RoleTecnico,
		movement(item.ID, "Entrada Compra", 0, "", "Bodega"), &errResp)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Contains(t, errResp.Fields, "Cantidad")
}

func TestAPI_AjusteSinMotivo_Retorna422(t *testing.T) {
	api := newAPI(t)
	item := api.createItem("Mouse", 0)

	var errResp dto.ErrorResponse
	status := api.call(http.MethodPost, "/api/inventario/movimientos/", apphttp.RoleTecnico,
		movement(item.ID, "Ajuste Positivo", 3, "", "Bodega"), &errResp)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, errResp.Message, "motivo_ajuste")
}

func TestAPI_MovimientoItemInexistente_Retorna404(t *testing.T) {
	api := newAPI(t)
	status := api.call(http.MethodPost, "/api/inventario/movimientos/", apphttp.RoleTecnico,
		movement(uuid.NewString(), "Entrada Compra", 1, "", "Bodega"), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_MovimientosSonInmutables(t *testing.T) {
	api := newAPI(t)
	id := uuid.NewString()

	var errResp dto.ErrorResponse
	status := api.call(http.MethodPut, "/api/inventario/movimientos/"+id, apphttp.RoleAdmin, map[string]int{"cantidad": 1}, &errResp)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, "METHOD_NOT_ALLOWED", errResp.Code)

	status = api.call(http.MethodDelete, "/api/inventario/movimientos/"+id, apphttp.RoleAdmin, nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

func TestAPI_ConsultaNoPuedeRegistrarMovimientos(t *testing.T) {
	api := newAPI(t)
	item := api.createItem("Teclado", 0)
	status := api.call(http.MethodPost, "/api/inventario/movimientos/", apphttp.RoleConsulta,
		movement(item.ID, "Entrada Compra", 1, "", "Bodega"), nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAPI_SinToken_Retorna401(t *testing.T) {
	api := newAPI(t)
	status := api.call(http.MethodGet, "/api/inventario/tipos/", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_Transferencia(t *testing.T) {
	api := newAPI(t)
	item := api.createItem("Disco SSD", 0)
	require.Equal(t, http.StatusCreated, api.call(http.MethodPost, "/api/inventario/movimientos/", apphttp.RoleTecnico,
		movement(item.ID, "Entrada Compra", 5, "", "Bodega A"), nil))

	var tr dto.TransferResponse
	status := api.call(http.MethodPost, "/api/inventario/movimientos/transferencias", apphttp.RoleTecnico,
		dto.RegisterTransferRequest{TipoItemID: item.ID, Cantidad: 3, UbicacionOrigen: "Bodega A", UbicacionDestino: "Bodega B"}, &tr)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Transferencia Salida", tr.Salida.TipoMovimiento)
	assert.Equal(t, "Transferencia Entrada", tr.Entrada.TipoMovimiento)
	require.NotNil(t, tr.Salida.ReferenciaTransferencia)
	assert.Equal(t, tr.ReferenciaTransferencia, *tr.Salida.ReferenciaTransferencia)

	var stock []dto.StockResponse
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/api/inventario/stock/?ubicacion=bodega%20b", apphttp.RoleConsulta, nil, &stock))
	require.Len(t, stock, 1)
	assert.Equal(t, 3, stock[0].CantidadActual)

	var rec dto.StockReconciliationResponse
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/api/inventario/stock/conciliacion", apphttp.RoleAdmin, nil, &rec))
	assert.True(t, rec.Consistente)
	assert.Equal(t, 3, rec.Movimientos)
}

func TestAPI_BajoStockIncluyeItemSinRegistros(t *testing.T) {
	api := newAPI(t)
	sinStock := api.createItem("Batería CMOS", 2)
	conStock := api.createItem("Pasta térmica", 1)
	require.Equal(t, http.StatusCreated, api.call(http.MethodPost, "/api/inventario/movimientos/", apphttp.RoleTecnico,
		movement(conStock.ID, "Entrada Compra", 5, "", "Bodega"), nil))

	var low []dto.LowStockItemResponse
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/api/inventario/tipos/bajo-stock/", apphttp.RoleConsulta, nil, &low))
	require.Len(t, low, 1)
	assert.Equal(t, sinStock.ID, low[0].ID)
	assert.Equal(t, int64(0), low[0].StockTotal)
}

func TestAPI_TipoInexistente_Retorna404(t *testing.T) {
	api := newAPI(t)
	var errResp dto.ErrorResponse
	status := api.call(http.MethodGet, "/api/inventario/tipos/"+uuid.NewString(), apphttp.RoleConsulta, nil, &errResp)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errResp.Code)
}

func TestAPI_EliminarTipoConMovimientos_Retorna409(t *testing.T) {
	api := newAPI(t)
	item := api.createItem("Fuente 500W", 0)
	require.Equal(t, http.StatusCreated, api.call(http.MethodPost, "/api/inventario/movimientos/", apphttp.RoleTecnico,
		movement(item.ID, "Entrada Compra", 1, "", "Bodega"), nil))

	var errResp dto.ErrorResponse
	status := api.call(http.MethodDelete, "/api/inventario/tipos/"+item.ID, apphttp.RoleAdmin, nil, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "IN_USE", errResp.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Licencias
// ──────────────────────────────────────────────────────────────────────────────

func (f *apiFixture) createPool(total int) dto.LicensePoolResponse {
	f.t.Helper()
	var sw dto.SoftwareResponse
	require.Equal(f.t, http.StatusCreated, f.call(http.MethodPost, "/api/licencias/catalogo/", apphttp.RoleAdmin,
		dto.CreateSoftwareRequest{Nombre: "Office " + uuid.NewString()[:8]}, &sw))

	var pool dto.LicensePoolResponse
	require.Equal(f.t, http.StatusCreated, f.call(http.MethodPost, "/api/licencias/", apphttp.RoleAdmin, map[string]interface{}{
		"software_catalogo_id": sw.ID,
		"fecha_adquisicion":    "2026-01-15",
		"cantidad_total":       total,
	}, &pool))
	return pool
}

func TestAPI_AsignacionConsumePuesto(t *testing.T) {
	api := newAPI(t)
	equipo1, equipo2 := uuid.NewString(), uuid.NewString()
	api.store.AddEquipment(equipo1, equipo2)
	pool := api.createPool(1)
	assert.Equal(t, 1, pool.CantidadDisponible)

	var asg dto.AssignmentResponse
	require.Equal(t, http.StatusCreated, api.call(http.MethodPost, "/api/licencias/asignaciones/", apphttp.RoleTecnico,
		dto.CreateAssignmentRequest{LicenciaID: pool.ID, EquipoID: &equipo1}, &asg))

	var errResp dto.ErrorResponse
	status := api.call(http.MethodPost, "/api/licencias/asignaciones/", apphttp.RoleTecnico,
		dto.CreateAssignmentRequest{LicenciaID: pool.ID, EquipoID: &equipo2}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "NO_SEATS_AVAILABLE", errResp.Code)

	var list []dto.AssignmentResponse
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/api/licencias/asignaciones/?licencia_id="+pool.ID, apphttp.RoleConsulta, nil, &list))
	assert.Len(t, list, 1)

	var msg dto.MessageResponse
	require.Equal(t, http.StatusOK, api.call(http.MethodDelete, "/api/licencias/asignaciones/"+asg.ID, apphttp.RoleTecnico, nil, &msg))
	assert.NotEmpty(t, msg.Msg)
	assert.Equal(t, http.StatusNotFound, api.call(http.MethodDelete, "/api/licencias/asignaciones/"+asg.ID, apphttp.RoleTecnico, nil, nil))

	var got dto.LicensePoolResponse
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/api/licencias/"+pool.ID, apphttp.RoleConsulta, nil, &got))
	assert.Equal(t, 1, got.CantidadDisponible)
}

func TestAPI_AsignacionEquipoYUsuario_Retorna422(t *testing.T) {
	api := newAPI(t)
	equipo, usuario := uuid.NewString(), uuid.NewString()
	api.store.AddEquipment(equipo)
	api.store.AddUser(usuario)
	pool := api.createPool(3)

	var errResp dto.ErrorResponse
	status := api.call(http.MethodPost, "/api/licencias/asignaciones/", apphttp.RoleTecnico,
		dto.CreateAssignmentRequest{LicenciaID: pool.ID, EquipoID: &equipo, UsuarioID: &usuario}, &errResp)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status = api.call(http.MethodPost, "/api/licencias/asignaciones/", apphttp.RoleTecnico,
		dto.CreateAssignmentRequest{LicenciaID: pool.ID}, &errResp)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestAPI_ListarAsignacionesSinFiltro_Retorna400(t *testing.T) {
	api := newAPI(t)
	var errResp dto.ErrorResponse
	status := api.call(http.MethodGet, "/api/licencias/asignaciones/", apphttp.RoleConsulta, nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)

	status = api.call(http.MethodGet, "/api/licencias/asignaciones/?equipo_id=a&usuario_id=b", apphttp.RoleConsulta, nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAPI_ActualizarLoteIgnoraDisponible(t *testing.T) {
	api := newAPI(t)
	pool := api.createPool(5)

	var got dto.LicensePoolResponse
	status := api.call(http.MethodPut, "/api/licencias/"+pool.ID, apphttp.RoleAdmin,
		map[string]int{"cantidad_total": 7, "cantidad_disponible": 1}, &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 7, got.CantidadTotal)
	assert.Equal(t, 7, got.CantidadDisponible)
}

func TestAPI_TecnicoNoAdministraLotes(t *testing.T) {
	api := newAPI(t)
	pool := api.createPool(2)
	status := api.call(http.MethodDelete, "/api/licencias/"+pool.ID, apphttp.RoleTecnico, nil, nil)
	assert.Equal(t, http.StatusForbidden, status)
}
