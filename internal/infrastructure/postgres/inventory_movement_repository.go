package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable con pool o tx).
// El log es de solo inserción: no hay Update ni Delete.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del log de movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, secuencia, tipo_item_id, tipo_movimiento, cantidad, ubicacion_origen, lote_origen,
	ubicacion_destino, lote_destino, equipo_asociado_id, mantenimiento_id, usuario_id, fecha_hora,
	costo_unitario, motivo_ajuste, referencia_externa, referencia_transferencia, notas`

func scanMovement(row pgx.Row, m *entity.Movement) error {
	var kind string
	err := row.Scan(&m.ID, &m.Secuencia, &m.TipoItemID, &kind, &m.Cantidad, &m.UbicacionOrigen, &m.LoteOrigen,
		&m.UbicacionDestino, &m.LoteDestino, &m.EquipoAsociadoID, &m.MantenimientoID, &m.UsuarioID, &m.FechaHora,
		&m.CostoUnitario, &m.MotivoAjuste, &m.ReferenciaExterna, &m.ReferenciaTransferencia, &m.Notas)
	m.TipoMovimiento = entity.MovementKind(kind)
	return err
}

// Create registra el movimiento y rellena Secuencia con el valor asignado por la BD.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO inventario_movimientos (id, tipo_item_id, tipo_movimiento, cantidad, ubicacion_origen, lote_origen,
			ubicacion_destino, lote_destino, equipo_asociado_id, mantenimiento_id, usuario_id, fecha_hora,
			costo_unitario, motivo_ajuste, referencia_externa, referencia_transferencia, notas)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING secuencia`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.TipoItemID, string(m.TipoMovimiento), m.Cantidad, m.UbicacionOrigen, m.LoteOrigen,
		m.UbicacionDestino, m.LoteDestino, m.EquipoAsociadoID, m.MantenimientoID, m.UsuarioID, m.FechaHora,
		m.CostoUnitario, m.MotivoAjuste, m.ReferenciaExterna, m.ReferenciaTransferencia, m.Notas,
	).Scan(&m.Secuencia)
	return classify("insert movimiento", err)
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	if !validID(id) {
		return nil, nil
	}
	var m entity.Movement
	err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM inventario_movimientos WHERE id = $1`, id), &m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get movimiento", err)
	}
	return &m, nil
}

// List aplica los filtros y ordena del más reciente al más antiguo.
func (r *MovementRepo) List(ctx context.Context, f entity.MovementFilter, limit, offset int) ([]*entity.Movement, error) {
	for _, id := range []string{f.TipoItemID, f.EquipoID, f.MantenimientoID} {
		if id != "" && !validID(id) {
			return []*entity.Movement{}, nil
		}
	}
	query := `
		SELECT ` + movementColumns + ` FROM inventario_movimientos
		WHERE ($1 = '' OR tipo_item_id::text = $1)
		  AND ($2 = '' OR ubicacion_origen ILIKE '%' || $2 || '%' OR ubicacion_destino ILIKE '%' || $2 || '%')
		  AND ($3 = '' OR tipo_movimiento = $3)
		  AND ($4::timestamptz IS NULL OR fecha_hora >= $4)
		  AND ($5::timestamptz IS NULL OR fecha_hora < $5)
		  AND ($6 = '' OR usuario_id = $6)
		  AND ($7 = '' OR equipo_asociado_id::text = $7)
		  AND ($8 = '' OR mantenimiento_id::text = $8)
		ORDER BY fecha_hora DESC, secuencia DESC
		LIMIT $9 OFFSET $10`
	rows, err := r.q.Query(ctx, query,
		f.TipoItemID, escapeLike(f.Ubicacion), string(f.TipoMovimiento), f.FechaDesde, f.FechaHasta,
		f.UsuarioID, f.EquipoID, f.MantenimientoID, limitArg(limit), offset)
	if err != nil {
		return nil, classify("list movimientos", err)
	}
	defer rows.Close()
	list := []*entity.Movement{}
	for rows.Next() {
		var m entity.Movement
		if err := scanMovement(rows, &m); err != nil {
			return nil, classify("scan movimiento", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ListChronological devuelve el log completo en orden de secuencia (para la conciliación).
func (r *MovementRepo) ListChronological(ctx context.Context) ([]entity.Movement, error) {
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+` FROM inventario_movimientos ORDER BY secuencia`)
	if err != nil {
		return nil, classify("list movimientos cronológico", err)
	}
	defer rows.Close()
	var list []entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := scanMovement(rows, &m); err != nil {
			return nil, classify("scan movimiento", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
