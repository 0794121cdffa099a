package repository

import "context"

// ReferenceRepository comprueba la existencia de entidades administradas fuera de este servicio
// (equipos, usuarios, mantenimientos, proveedores).
type ReferenceRepository interface {
	EquipmentExists(ctx context.Context, id string) (bool, error)
	UserExists(ctx context.Context, id string) (bool, error)
	MaintenanceExists(ctx context.Context, id string) (bool, error)
	VendorExists(ctx context.Context, id string) (bool, error)
}
