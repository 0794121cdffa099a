package repository

import (
	"context"

	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar registros de stock.
// Los métodos *ForUpdate solo tienen sentido dentro de una transacción (TxRunner).
type StockRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockRecord, error)
	// GetByIDForUpdate bloquea la fila por ID (SELECT FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRecord, error)
	// Find busca por clave natural sin bloquear. (nil, nil) si no existe.
	Find(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila de la clave. (nil, nil) si no existe; nunca la crea.
	GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error)
	// GetOrCreateForUpdate inserta la fila con cantidad 0 si no existe y la devuelve bloqueada.
	GetOrCreateForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error)
	// UpdateQuantity persiste cantidad y costo promedio.
	UpdateQuantity(ctx context.Context, s *entity.StockRecord) error
	// UpdateDetails persiste lote, fecha de caducidad y notas.
	UpdateDetails(ctx context.Context, s *entity.StockRecord) error
	List(ctx context.Context, f entity.StockFilter, limit, offset int) ([]*entity.StockRecord, error)
	ListAll(ctx context.Context) ([]*entity.StockRecord, error)
	TotalForItem(ctx context.Context, tipoItemID string) (int64, error)
}
