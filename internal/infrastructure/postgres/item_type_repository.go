package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/control-equipos-api/internal/domain"
	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

var _ repository.ItemTypeRepository = (*ItemTypeRepo)(nil)

// ItemTypeRepo implementación del puerto ItemTypeRepository sobre PostgreSQL (usable con pool o tx).
type ItemTypeRepo struct {
	q Querier
}

// NewItemTypeRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewItemTypeRepository(q Querier) *ItemTypeRepo {
	return &ItemTypeRepo{q: q}
}

const itemTypeColumns = `id, nombre, descripcion, categoria, unidad_medida, marca, modelo, sku, codigo_barras,
	stock_minimo, perecedero, proveedor_preferido_id, created_at, updated_at`

func scanItemType(row pgx.Row, it *entity.ItemType, extra ...any) error {
	dest := []any{
		&it.ID, &it.Nombre, &it.Descripcion, &it.Categoria, &it.UnidadMedida, &it.Marca, &it.Modelo,
		&it.SKU, &it.CodigoBarras, &it.StockMinimo, &it.Perecedero, &it.ProveedorPreferidoID,
		&it.CreatedAt, &it.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

// Create persiste un nuevo tipo de ítem.
func (r *ItemTypeRepo) Create(ctx context.Context, it *entity.ItemType) error {
	query := `
		INSERT INTO tipos_item_inventario (` + itemTypeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.Nombre, it.Descripcion, it.Categoria, it.UnidadMedida, it.Marca, it.Modelo,
		it.SKU, it.CodigoBarras, it.StockMinimo, it.Perecedero, it.ProveedorPreferidoID,
		it.CreatedAt, it.UpdatedAt,
	)
	return classify("insert tipo item", err)
}

func (r *ItemTypeRepo) GetByID(ctx context.Context, id string) (*entity.ItemType, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getBy(ctx, "id", id)
}

func (r *ItemTypeRepo) GetByNombre(ctx context.Context, nombre string) (*entity.ItemType, error) {
	return r.getBy(ctx, "nombre", nombre)
}

func (r *ItemTypeRepo) GetBySKU(ctx context.Context, sku string) (*entity.ItemType, error) {
	return r.getBy(ctx, "sku", sku)
}

func (r *ItemTypeRepo) GetByCodigoBarras(ctx context.Context, codigo string) (*entity.ItemType, error) {
	return r.getBy(ctx, "codigo_barras", codigo)
}

// getBy column siempre es una constante del paquete, nunca entrada de usuario.
func (r *ItemTypeRepo) getBy(ctx context.Context, column, value string) (*entity.ItemType, error) {
	query := `SELECT ` + itemTypeColumns + ` FROM tipos_item_inventario WHERE ` + column + ` = $1`
	var it entity.ItemType
	if err := scanItemType(r.q.QueryRow(ctx, query, value), &it); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get tipo item", err)
	}
	return &it, nil
}

// Update actualiza los datos de catálogo; no toca created_at.
func (r *ItemTypeRepo) Update(ctx context.Context, it *entity.ItemType) error {
	query := `
		UPDATE tipos_item_inventario SET nombre = $2, descripcion = $3, categoria = $4, unidad_medida = $5,
			marca = $6, modelo = $7, sku = $8, codigo_barras = $9, stock_minimo = $10, perecedero = $11,
			proveedor_preferido_id = $12, updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		it.ID, it.Nombre, it.Descripcion, it.Categoria, it.UnidadMedida, it.Marca, it.Modelo,
		it.SKU, it.CodigoBarras, it.StockMinimo, it.Perecedero, it.ProveedorPreferidoID, it.UpdatedAt,
	)
	if err != nil {
		return classify("update tipo item", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("tipo de ítem %s no encontrado", it.ID)
	}
	return nil
}

// Delete elimina el tipo de ítem. Con stock o movimientos asociados la FK RESTRICT lo impide (ErrInUse).
func (r *ItemTypeRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.NotFound("tipo de ítem %s no encontrado", id)
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM tipos_item_inventario WHERE id = $1`, id)
	if err != nil {
		return classify("delete tipo item", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("tipo de ítem %s no encontrado", id)
	}
	return nil
}

// List lista el catálogo ordenado por nombre.
func (r *ItemTypeRepo) List(ctx context.Context, limit, offset int) ([]*entity.ItemType, error) {
	query := `SELECT ` + itemTypeColumns + ` FROM tipos_item_inventario ORDER BY nombre LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limitArg(limit), offset)
	if err != nil {
		return nil, classify("list tipos item", err)
	}
	defer rows.Close()
	var list []*entity.ItemType
	for rows.Next() {
		var it entity.ItemType
		if err := scanItemType(rows, &it); err != nil {
			return nil, classify("scan tipo item", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *ItemTypeRepo) CountReferences(ctx context.Context, id string) (stock, movimientos int, err error) {
	if !validID(id) {
		return 0, 0, nil
	}
	query := `
		SELECT (SELECT count(*) FROM inventario_stock WHERE tipo_item_id = $1),
		       (SELECT count(*) FROM inventario_movimientos WHERE tipo_item_id = $1)`
	if err := r.q.QueryRow(ctx, query, id).Scan(&stock, &movimientos); err != nil {
		return 0, 0, classify("count referencias tipo item", err)
	}
	return stock, movimientos, nil
}

// ListLowStock ítems cuyo stock total (0 sin registros) no supera stock_minimo, por nombre.
func (r *ItemTypeRepo) ListLowStock(ctx context.Context, limit, offset int) ([]entity.LowStockItem, error) {
	query := `
		SELECT ` + prefixed("t", itemTypeColumns) + `, COALESCE(SUM(s.cantidad_actual), 0)::BIGINT AS total
		FROM tipos_item_inventario t
		LEFT JOIN inventario_stock s ON s.tipo_item_id = t.id
		GROUP BY t.id
		HAVING COALESCE(SUM(s.cantidad_actual), 0) <= t.stock_minimo
		ORDER BY t.nombre
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limitArg(limit), offset)
	if err != nil {
		return nil, classify("list bajo stock", err)
	}
	defer rows.Close()
	var list []entity.LowStockItem
	for rows.Next() {
		var li entity.LowStockItem
		if err := scanItemType(rows, &li.Item, &li.StockTotal); err != nil {
			return nil, classify("scan bajo stock", err)
		}
		list = append(list, li)
	}
	return list, rows.Err()
}
