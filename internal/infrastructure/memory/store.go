package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
)

// Store almacenamiento en memoria para desarrollo y pruebas.
//
// Un único mutex serializa las transacciones: TxRunner clona el estado, ejecuta el callback
// sobre la copia y la publica solo si no hubo error, lo que equivale a tener bloqueadas todas
// las filas durante la transacción y da rollback gratis.
type Store struct {
	mu   sync.Mutex
	data *state
}

type state struct {
	items       map[string]entity.ItemType
	stock       map[string]entity.StockRecord
	movements   []entity.Movement
	seq         int64
	software    map[string]entity.Software
	pools       map[string]entity.LicensePool
	assignments map[string]entity.Assignment
	equipment   map[string]bool
	users       map[string]bool
	maintenance map[string]bool
	vendors     map[string]bool
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: &state{
		items:       map[string]entity.ItemType{},
		stock:       map[string]entity.StockRecord{},
		software:    map[string]entity.Software{},
		pools:       map[string]entity.LicensePool{},
		assignments: map[string]entity.Assignment{},
		equipment:   map[string]bool{},
		users:       map[string]bool{},
		maintenance: map[string]bool{},
		vendors:     map[string]bool{},
	}}
}

func (s *state) clone() *state {
	c := &state{
		items:       make(map[string]entity.ItemType, len(s.items)),
		stock:       make(map[string]entity.StockRecord, len(s.stock)),
		movements:   make([]entity.Movement, len(s.movements)),
		seq:         s.seq,
		software:    make(map[string]entity.Software, len(s.software)),
		pools:       make(map[string]entity.LicensePool, len(s.pools)),
		assignments: make(map[string]entity.Assignment, len(s.assignments)),
		equipment:   s.equipment,
		users:       s.users,
		maintenance: s.maintenance,
		vendors:     s.vendors,
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	copy(c.movements, s.movements)
	for k, v := range s.software {
		c.software[k] = v
	}
	for k, v := range s.pools {
		c.pools[k] = v
	}
	for k, v := range s.assignments {
		c.assignments[k] = v
	}
	return c
}

// AddEquipment registra un equipo existente (administrado fuera de este servicio).
func (s *Store) AddEquipment(ids ...string) { s.addRefs(func(d *state) map[string]bool { return d.equipment }, ids) }

// AddUser registra un usuario existente.
func (s *Store) AddUser(ids ...string) { s.addRefs(func(d *state) map[string]bool { return d.users }, ids) }

// AddMaintenance registra un mantenimiento existente.
func (s *Store) AddMaintenance(ids ...string) {
	s.addRefs(func(d *state) map[string]bool { return d.maintenance }, ids)
}

// AddVendor registra un proveedor existente.
func (s *Store) AddVendor(ids ...string) { s.addRefs(func(d *state) map[string]bool { return d.vendors }, ids) }

// References identificadores externos que el almacén da por existentes.
type References struct {
	Equipos        []string
	Usuarios       []string
	Mantenimientos []string
	Proveedores    []string
}

// Seed registra de una vez las referencias externas (p. ej. las leídas de configuración).
func (s *Store) Seed(r References) {
	s.AddEquipment(r.Equipos...)
	s.AddUser(r.Usuarios...)
	s.AddMaintenance(r.Mantenimientos...)
	s.AddVendor(r.Proveedores...)
}

func (s *Store) addRefs(set func(*state) map[string]bool, ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := set(s.data)
	for _, id := range ids {
		m[id] = true
	}
}

// base da acceso al estado: dentro de una tx usa la copia de trabajo (el mutex ya lo tiene el
// TxRunner); fuera de una tx toma el mutex para cada operación.
type base struct {
	st *Store
	tx *state
}

func (b base) do(ctx context.Context, fn func(d *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.tx != nil {
		return fn(b.tx)
	}
	b.st.mu.Lock()
	defer b.st.mu.Unlock()
	return fn(b.st.data)
}

// containsFold equivalente a ILIKE '%sub%'. Un Caser no admite uso concurrente: uno por llamada.
func containsFold(s, sub string) bool {
	folder := cases.Fold()
	return strings.Contains(folder.String(s), folder.String(sub))
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func sortedValues[K comparable, V any](m map[K]V, less func(a, b *V) bool) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	return out
}

func eqPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
