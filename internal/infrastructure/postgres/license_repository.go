package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/control-equipos-api/internal/domain"
	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

var (
	_ repository.SoftwareRepository    = (*SoftwareRepo)(nil)
	_ repository.LicensePoolRepository = (*LicensePoolRepo)(nil)
	_ repository.AssignmentRepository  = (*AssignmentRepo)(nil)
)

// SoftwareRepo catálogo de software sobre PostgreSQL.
type SoftwareRepo struct {
	q Querier
}

// NewSoftwareRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSoftwareRepository(q Querier) *SoftwareRepo {
	return &SoftwareRepo{q: q}
}

const softwareColumns = `id, nombre, version, fabricante, categoria, tipo_licencia, metrica_licenciamiento, created_at`

func scanSoftware(row pgx.Row, s *entity.Software) error {
	return row.Scan(&s.ID, &s.Nombre, &s.Version, &s.Fabricante, &s.Categoria, &s.TipoLicencia,
		&s.MetricaLicenciamiento, &s.CreatedAt)
}

func (r *SoftwareRepo) Create(ctx context.Context, s *entity.Software) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO software_catalogo (`+softwareColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Nombre, s.Version, s.Fabricante, s.Categoria, s.TipoLicencia, s.MetricaLicenciamiento, s.CreatedAt)
	return classify("insert software", err)
}

func (r *SoftwareRepo) GetByID(ctx context.Context, id string) (*entity.Software, error) {
	if !validID(id) {
		return nil, nil
	}
	var s entity.Software
	if err := scanSoftware(r.q.QueryRow(ctx, `SELECT `+softwareColumns+` FROM software_catalogo WHERE id = $1`, id), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get software", err)
	}
	return &s, nil
}

func (r *SoftwareRepo) List(ctx context.Context, limit, offset int) ([]*entity.Software, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+softwareColumns+` FROM software_catalogo ORDER BY nombre, version NULLS FIRST LIMIT $1 OFFSET $2`,
		limitArg(limit), offset)
	if err != nil {
		return nil, classify("list software", err)
	}
	defer rows.Close()
	list := []*entity.Software{}
	for rows.Next() {
		var s entity.Software
		if err := scanSoftware(rows, &s); err != nil {
			return nil, classify("scan software", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// LicensePoolRepo lotes de licencias sobre PostgreSQL. El CHECK licencias_disponible_rango
// respalda el invariante 0 <= disponible <= total.
type LicensePoolRepo struct {
	q Querier
}

// NewLicensePoolRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLicensePoolRepository(q Querier) *LicensePoolRepo {
	return &LicensePoolRepo{q: q}
}

const poolColumns = `id, software_catalogo_id, clave_producto, fecha_adquisicion, fecha_expiracion, proveedor_id,
	costo_adquisicion, numero_orden_compra, cantidad_total, cantidad_disponible, notas, created_at, updated_at`

func scanPool(row pgx.Row, p *entity.LicensePool) error {
	return row.Scan(&p.ID, &p.SoftwareID, &p.ClaveProducto, &p.FechaAdquisicion, &p.FechaExpiracion, &p.ProveedorID,
		&p.CostoAdquisicion, &p.NumeroOrdenCompra, &p.CantidadTotal, &p.CantidadDisponible, &p.Notas,
		&p.CreatedAt, &p.UpdatedAt)
}

func (r *LicensePoolRepo) Create(ctx context.Context, p *entity.LicensePool) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO licencias_software (`+poolColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.SoftwareID, p.ClaveProducto, p.FechaAdquisicion, p.FechaExpiracion, p.ProveedorID,
		p.CostoAdquisicion, p.NumeroOrdenCompra, p.CantidadTotal, p.CantidadDisponible, p.Notas,
		p.CreatedAt, p.UpdatedAt)
	return classify("insert licencia", err)
}

func (r *LicensePoolRepo) GetByID(ctx context.Context, id string) (*entity.LicensePool, error) {
	return r.get(ctx, `SELECT `+poolColumns+` FROM licencias_software WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea el lote; todas las operaciones sobre sus contadores pasan por aquí.
func (r *LicensePoolRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.LicensePool, error) {
	return r.get(ctx, `SELECT `+poolColumns+` FROM licencias_software WHERE id = $1 FOR UPDATE`, id)
}

func (r *LicensePoolRepo) get(ctx context.Context, query, id string) (*entity.LicensePool, error) {
	if !validID(id) {
		return nil, nil
	}
	var p entity.LicensePool
	if err := scanPool(r.q.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get licencia", err)
	}
	return &p, nil
}

func (r *LicensePoolRepo) Update(ctx context.Context, p *entity.LicensePool) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE licencias_software SET clave_producto = $2, fecha_adquisicion = $3, fecha_expiracion = $4,
			proveedor_id = $5, costo_adquisicion = $6, numero_orden_compra = $7, cantidad_total = $8,
			cantidad_disponible = $9, notas = $10, updated_at = $11
		WHERE id = $1`,
		p.ID, p.ClaveProducto, p.FechaAdquisicion, p.FechaExpiracion, p.ProveedorID, p.CostoAdquisicion,
		p.NumeroOrdenCompra, p.CantidadTotal, p.CantidadDisponible, p.Notas, p.UpdatedAt)
	if err != nil {
		return classify("update licencia", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("licencia %s no encontrada", p.ID)
	}
	return nil
}

// Delete elimina el lote; con asignaciones vivas la FK RESTRICT lo impide (ErrInUse).
func (r *LicensePoolRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.NotFound("licencia %s no encontrada", id)
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM licencias_software WHERE id = $1`, id)
	if err != nil {
		return classify("delete licencia", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("licencia %s no encontrada", id)
	}
	return nil
}

func (r *LicensePoolRepo) List(ctx context.Context, limit, offset int) ([]*entity.LicensePool, error) {
	return r.list(ctx, `SELECT `+poolColumns+` FROM licencias_software
		ORDER BY fecha_adquisicion DESC, created_at DESC LIMIT $1 OFFSET $2`, limitArg(limit), offset)
}

func (r *LicensePoolRepo) ListBySoftware(ctx context.Context, softwareID string, limit, offset int) ([]*entity.LicensePool, error) {
	if !validID(softwareID) {
		return []*entity.LicensePool{}, nil
	}
	return r.list(ctx, `SELECT `+poolColumns+` FROM licencias_software WHERE software_catalogo_id = $1
		ORDER BY fecha_adquisicion DESC, created_at DESC LIMIT $2 OFFSET $3`, softwareID, limitArg(limit), offset)
}

// ListExpiring lotes cuya fecha de expiración cae en [from, to], los más próximos primero.
func (r *LicensePoolRepo) ListExpiring(ctx context.Context, from, to time.Time, limit, offset int) ([]*entity.LicensePool, error) {
	return r.list(ctx, `SELECT `+poolColumns+` FROM licencias_software
		WHERE fecha_expiracion IS NOT NULL AND fecha_expiracion BETWEEN $1::date AND $2::date
		ORDER BY fecha_expiracion ASC LIMIT $3 OFFSET $4`, from, to, limitArg(limit), offset)
}

func (r *LicensePoolRepo) ListAll(ctx context.Context) ([]*entity.LicensePool, error) {
	return r.List(ctx, 0, 0)
}

func (r *LicensePoolRepo) list(ctx context.Context, query string, args ...any) ([]*entity.LicensePool, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list licencias", err)
	}
	defer rows.Close()
	list := []*entity.LicensePool{}
	for rows.Next() {
		var p entity.LicensePool
		if err := scanPool(rows, &p); err != nil {
			return nil, classify("scan licencia", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// AssignmentRepo asignaciones de licencia sobre PostgreSQL. El destino se guarda en dos columnas
// (equipo_id, usuario_id) con CHECK de exclusividad.
type AssignmentRepo struct {
	q Querier
}

// NewAssignmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAssignmentRepository(q Querier) *AssignmentRepo {
	return &AssignmentRepo{q: q}
}

const assignmentColumns = `id, licencia_id, equipo_id, usuario_id, fecha_asignacion, instalado, notas`

func scanAssignment(row pgx.Row) (*entity.Assignment, error) {
	var (
		a                   entity.Assignment
		equipoID, usuarioID *string
	)
	if err := row.Scan(&a.ID, &a.LicenciaID, &equipoID, &usuarioID, &a.FechaAsignacion, &a.Instalado, &a.Notas); err != nil {
		return nil, err
	}
	t, err := entity.NewTarget(equipoID, usuarioID)
	if err != nil {
		return nil, err
	}
	a.Target = t
	return &a, nil
}

func (r *AssignmentRepo) Create(ctx context.Context, a *entity.Assignment) error {
	equipoID, usuarioID := a.Target.Columns()
	_, err := r.q.Exec(ctx, `
		INSERT INTO asignaciones_licencia (`+assignmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.LicenciaID, equipoID, usuarioID, a.FechaAsignacion, a.Instalado, a.Notas)
	return classify("insert asignación", err)
}

func (r *AssignmentRepo) GetByID(ctx context.Context, id string) (*entity.Assignment, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.one(ctx, `SELECT `+assignmentColumns+` FROM asignaciones_licencia WHERE id = $1`, id)
}

func (r *AssignmentRepo) GetByLicenseAndTarget(ctx context.Context, licenciaID string, t entity.Target) (*entity.Assignment, error) {
	if !validID(licenciaID) || !validID(t.ID()) {
		return nil, nil
	}
	column := "equipo_id"
	if t.Kind() == entity.TargetUser {
		column = "usuario_id"
	}
	return r.one(ctx, `SELECT `+assignmentColumns+` FROM asignaciones_licencia
		WHERE licencia_id = $1 AND `+column+` = $2`, licenciaID, t.ID())
}

func (r *AssignmentRepo) one(ctx context.Context, query string, args ...any) (*entity.Assignment, error) {
	a, err := scanAssignment(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get asignación", err)
	}
	return a, nil
}

// Update solo modifica instalado y notas.
func (r *AssignmentRepo) Update(ctx context.Context, a *entity.Assignment) error {
	cmd, err := r.q.Exec(ctx, `UPDATE asignaciones_licencia SET instalado = $2, notas = $3 WHERE id = $1`,
		a.ID, a.Instalado, a.Notas)
	if err != nil {
		return classify("update asignación", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("asignación %s no encontrada", a.ID)
	}
	return nil
}

// Delete devuelve ErrNotFound si la fila ya no existe (otra transacción la eliminó antes).
func (r *AssignmentRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.NotFound("asignación %s no encontrada", id)
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM asignaciones_licencia WHERE id = $1`, id)
	if err != nil {
		return classify("delete asignación", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("asignación %s no encontrada", id)
	}
	return nil
}

func (r *AssignmentRepo) CountByLicense(ctx context.Context, licenciaID string) (int, error) {
	if !validID(licenciaID) {
		return 0, nil
	}
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM asignaciones_licencia WHERE licencia_id = $1`, licenciaID).Scan(&n)
	if err != nil {
		return 0, classify("count asignaciones", err)
	}
	return n, nil
}

func (r *AssignmentRepo) ListByLicense(ctx context.Context, licenciaID string, limit, offset int) ([]*entity.Assignment, error) {
	return r.listBy(ctx, "licencia_id", licenciaID, limit, offset)
}

func (r *AssignmentRepo) ListByEquipment(ctx context.Context, equipoID string, limit, offset int) ([]*entity.Assignment, error) {
	return r.listBy(ctx, "equipo_id", equipoID, limit, offset)
}

func (r *AssignmentRepo) ListByUser(ctx context.Context, usuarioID string, limit, offset int) ([]*entity.Assignment, error) {
	return r.listBy(ctx, "usuario_id", usuarioID, limit, offset)
}

func (r *AssignmentRepo) listBy(ctx context.Context, column, id string, limit, offset int) ([]*entity.Assignment, error) {
	list := []*entity.Assignment{}
	if !validID(id) {
		return list, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+assignmentColumns+` FROM asignaciones_licencia
		WHERE `+column+` = $1 ORDER BY fecha_asignacion DESC, id LIMIT $2 OFFSET $3`, id, limitArg(limit), offset)
	if err != nil {
		return nil, classify("list asignaciones", err)
	}
	defer rows.Close()
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, classify("scan asignación", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
