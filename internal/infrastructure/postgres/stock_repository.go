package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/control-equipos-api/internal/domain"
	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, tipo_item_id, ubicacion, lote, fecha_caducidad, cantidad_actual,
	costo_promedio_ponderado, notas, ultima_actualizacion`

func scanStock(row pgx.Row) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := row.Scan(&s.ID, &s.TipoItemID, &s.Ubicacion, &s.Lote, &s.FechaCaducidad, &s.CantidadActual,
		&s.CostoPromedioPonderado, &s.Notas, &s.UltimaActualizacion)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StockRepo) one(ctx context.Context, op, query string, args ...any) (*entity.StockRecord, error) {
	s, err := scanStock(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(op, err)
	}
	return s, nil
}

func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.one(ctx, "get stock", `SELECT `+stockColumns+` FROM inventario_stock WHERE id = $1`, id)
}

func (r *StockRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRecord, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.one(ctx, "get stock for update",
		`SELECT `+stockColumns+` FROM inventario_stock WHERE id = $1 FOR UPDATE`, id)
}

// Find busca por (ítem, ubicación, lote); lote NULL solo coincide con NULL.
func (r *StockRepo) Find(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	if !validID(key.TipoItemID) {
		return nil, nil
	}
	return r.one(ctx, "find stock", `
		SELECT `+stockColumns+` FROM inventario_stock
		WHERE tipo_item_id = $1 AND ubicacion = $2 AND lote IS NOT DISTINCT FROM $3`,
		key.TipoItemID, key.Ubicacion, key.Lote)
}

// GetForUpdate obtiene el registro de la clave y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	if !validID(key.TipoItemID) {
		return nil, nil
	}
	return r.one(ctx, "get stock for update", `
		SELECT `+stockColumns+` FROM inventario_stock
		WHERE tipo_item_id = $1 AND ubicacion = $2 AND lote IS NOT DISTINCT FROM $3
		FOR UPDATE`,
		key.TipoItemID, key.Ubicacion, key.Lote)
}

// GetOrCreateForUpdate inserta la fila con cantidad 0 si no existe (ON CONFLICT DO NOTHING) y
// la devuelve bloqueada. Dos transacciones que crean la misma clave terminan sobre la misma fila.
func (r *StockRepo) GetOrCreateForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	if !validID(key.TipoItemID) {
		return nil, domain.Conflict("el tipo de ítem %s no existe", key.TipoItemID)
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventario_stock (id, tipo_item_id, ubicacion, lote, cantidad_actual, ultima_actualizacion)
		VALUES ($1, $2, $3, $4, 0, now())
		ON CONFLICT ON CONSTRAINT uq_stock_item_ubicacion_lote DO NOTHING`,
		uuid.New().String(), key.TipoItemID, key.Ubicacion, key.Lote)
	if err != nil {
		return nil, classify("crear stock", err)
	}
	s, err := r.GetForUpdate(ctx, key)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.Conflict("no se pudo obtener el registro de stock %s", key.Ubicacion)
	}
	return s, nil
}

// UpdateQuantity persiste cantidad y costo. El CHECK cantidad_actual >= 0 se traduce a ErrInsufficientStock.
func (r *StockRepo) UpdateQuantity(ctx context.Context, s *entity.StockRecord) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE inventario_stock SET cantidad_actual = $2, costo_promedio_ponderado = $3, ultima_actualizacion = $4
		WHERE id = $1`,
		s.ID, s.CantidadActual, s.CostoPromedioPonderado, s.UltimaActualizacion)
	if err != nil {
		return classify("update cantidad stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("registro de stock %s no encontrado", s.ID)
	}
	return nil
}

func (r *StockRepo) UpdateDetails(ctx context.Context, s *entity.StockRecord) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE inventario_stock SET lote = $2, fecha_caducidad = $3, notas = $4, ultima_actualizacion = $5
		WHERE id = $1`,
		s.ID, s.Lote, s.FechaCaducidad, s.Notas, s.UltimaActualizacion)
	if err != nil {
		return classify("update detalles stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("registro de stock %s no encontrado", s.ID)
	}
	return nil
}

// List filtra por ítem y por subcadena de ubicación o lote (ILIKE).
func (r *StockRepo) List(ctx context.Context, f entity.StockFilter, limit, offset int) ([]*entity.StockRecord, error) {
	if f.TipoItemID != "" && !validID(f.TipoItemID) {
		return []*entity.StockRecord{}, nil
	}
	query := `
		SELECT ` + stockColumns + ` FROM inventario_stock
		WHERE ($1 = '' OR tipo_item_id::text = $1)
		  AND ($2 = '' OR ubicacion ILIKE '%' || $2 || '%')
		  AND ($3 = '' OR lote ILIKE '%' || $3 || '%')
		ORDER BY ubicacion, tipo_item_id, lote NULLS FIRST
		LIMIT $4 OFFSET $5`
	return r.list(ctx, query, f.TipoItemID, escapeLike(f.Ubicacion), escapeLike(f.Lote), limitArg(limit), offset)
}

func (r *StockRepo) ListAll(ctx context.Context) ([]*entity.StockRecord, error) {
	return r.list(ctx, `SELECT `+stockColumns+` FROM inventario_stock ORDER BY ubicacion, tipo_item_id, lote NULLS FIRST`)
}

func (r *StockRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list stock", err)
	}
	defer rows.Close()
	list := []*entity.StockRecord{}
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, classify("scan stock", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *StockRepo) TotalForItem(ctx context.Context, tipoItemID string) (int64, error) {
	if !validID(tipoItemID) {
		return 0, nil
	}
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(cantidad_actual), 0)::BIGINT FROM inventario_stock WHERE tipo_item_id = $1`,
		tipoItemID).Scan(&total)
	if err != nil {
		return 0, classify("total stock", err)
	}
	return total, nil
}
