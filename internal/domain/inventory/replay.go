package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/control-equipos-api/internal/domain"
	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
)

// Position cantidad y costo promedio de una clave de stock.
type Position struct {
	Key      entity.StockKey
	Cantidad int
	Costo    *decimal.Decimal
}

// Snapshot estado de stock derivado del log de movimientos, indexado por StockKey.String().
type Snapshot map[string]*Position

// Apply aplica un movimiento con la misma aritmética que el motor transaccional.
func (s Snapshot) Apply(m *entity.Movement) error {
	if k := m.OriginKey(); k != nil {
		pos, ok := s[k.String()]
		if !ok || pos.Cantidad < m.Cantidad {
			disp := 0
			if ok {
				disp = pos.Cantidad
			}
			return InsufficientStock(*k, disp, m.Cantidad)
		}
		pos.Cantidad -= m.Cantidad
	}
	if k := m.DestinationKey(); k != nil {
		pos, ok := s[k.String()]
		if !ok {
			pos = &Position{Key: *k}
			s[k.String()] = pos
		}
		pos.Costo = CostCalculator(pos.Cantidad, pos.Costo, m.Cantidad, m.CostoUnitario)
		pos.Cantidad += m.Cantidad
	}
	return nil
}

// Replay reproduce el log desde cero en orden de secuencia.
func Replay(movs []entity.Movement) (Snapshot, error) {
	ordered := make([]entity.Movement, len(movs))
	copy(ordered, movs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Secuencia < ordered[j].Secuencia })

	snap := Snapshot{}
	for i := range ordered {
		if err := snap.Apply(&ordered[i]); err != nil {
			return snap, err
		}
	}
	return snap, nil
}

// InsufficientStock error de conflicto para una salida que supera el stock del origen.
func InsufficientStock(k entity.StockKey, disponible, solicitado int) error {
	lote := "sin lote"
	if k.Lote != nil {
		lote = *k.Lote
	}
	return domain.Wrap(domain.ErrConflict, domain.ErrInsufficientStock,
		"stock insuficiente en origen (%s, lote %s): disponible %d, solicitado %d",
		k.Ubicacion, lote, disponible, solicitado)
}
