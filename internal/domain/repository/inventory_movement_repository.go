package repository

import (
	"context"

	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para el log de movimientos (solo inserción).
type MovementRepository interface {
	// Create inserta el movimiento y rellena su Secuencia.
	Create(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// List ordena por fecha_hora descendente.
	List(ctx context.Context, f entity.MovementFilter, limit, offset int) ([]*entity.Movement, error)
	// ListChronological devuelve el log completo en orden de secuencia.
	ListChronological(ctx context.Context) ([]entity.Movement, error)
}
