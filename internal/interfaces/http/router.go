package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/control-equipos-api/internal/application/inventory"
	"github.com/jhoicas/control-equipos-api/internal/application/licensing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegisterMovement *inventory.RegisterMovementUseCase
	StockUC          *inventory.StockUseCase
	ItemTypeUC       *inventory.ItemTypeUseCase
	ReplenishmentUC  *inventory.ReplenishmentUseCase
	SoftwareUC       *licensing.SoftwareUseCase
	PoolUC           *licensing.PoolUseCase
	AssignmentUC     *licensing.AssignmentUseCase
	JWTSecret        string
	// ExpiringDefaultDays horizonte de /licencias/expirando cuando no llega ?dias.
	ExpiringDefaultDays int
	Log                 zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Todas las rutas requieren Bearer Token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	writers := RequireRole(RoleAdmin, RoleTecnico)
	admins := RequireRole(RoleAdmin)

	// Movimientos (append-only). Las rutas estáticas van antes de /:id.
	movements := protected.Group("/inventario/movimientos")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Log)
	movements.Post("/", writers, inventoryHandler.RegisterMovement)
	movements.Post("/transferencias", writers, inventoryHandler.RegisterTransfer)
	movements.Get("/", inventoryHandler.List)
	movements.Get("/:id", inventoryHandler.GetByID)
	movements.Put("/:id", inventoryHandler.Immutable)
	movements.Patch("/:id", inventoryHandler.Immutable)
	movements.Delete("/:id", inventoryHandler.Immutable)

	// Stock
	stock := protected.Group("/inventario/stock")
	stockHandler := NewStockHandler(deps.StockUC, deps.Log)
	stock.Get("/", stockHandler.List)
	stock.Get("/conciliacion", admins, stockHandler.Reconcile)
	stock.Get("/item/:id/total", stockHandler.TotalForItem)
	stock.Get("/:id", stockHandler.GetByID)
	stock.Put("/:id/details", writers, stockHandler.UpdateDetails)

	// Tipos de ítem
	types := protected.Group("/inventario/tipos")
	itemTypeHandler := NewItemTypeHandler(deps.ItemTypeUC, deps.ReplenishmentUC, deps.Log)
	types.Post("/", writers, itemTypeHandler.Create)
	types.Get("/", itemTypeHandler.List)
	types.Get("/bajo-stock", itemTypeHandler.LowStock)
	types.Get("/:id", itemTypeHandler.GetByID)
	types.Put("/:id", writers, itemTypeHandler.Update)
	types.Delete("/:id", admins, itemTypeHandler.Delete)

	// Licencias: catálogo, asignaciones y lotes (en ese orden por /:id)
	licenses := protected.Group("/licencias")
	licenseHandler := NewLicenseHandler(deps.PoolUC, deps.SoftwareUC, deps.ExpiringDefaultDays, deps.Log)
	assignmentHandler := NewAssignmentHandler(deps.AssignmentUC, deps.Log)

	licenses.Post("/catalogo", admins, licenseHandler.CreateSoftware)
	licenses.Get("/catalogo", licenseHandler.ListSoftware)
	licenses.Get("/catalogo/:id", licenseHandler.GetSoftware)

	licenses.Post("/asignaciones", writers, assignmentHandler.Create)
	licenses.Get("/asignaciones", assignmentHandler.List)
	licenses.Get("/asignaciones/:id", assignmentHandler.GetByID)
	licenses.Put("/asignaciones/:id", writers, assignmentHandler.Update)
	licenses.Delete("/asignaciones/:id", writers, assignmentHandler.Delete)

	licenses.Post("/", admins, licenseHandler.Create)
	licenses.Get("/", licenseHandler.List)
	licenses.Get("/expirando", licenseHandler.Expiring)
	licenses.Get("/conciliacion", admins, licenseHandler.Reconcile)
	licenses.Get("/:id", licenseHandler.GetByID)
	licenses.Put("/:id", admins, licenseHandler.Update)
	licenses.Delete("/:id", admins, licenseHandler.Delete)
}
