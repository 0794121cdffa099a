package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/control-equipos-api/internal/domain"
	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
)

// Rule campos obligatorios de un tipo de movimiento.
type Rule struct {
	Origin      bool
	Destination bool
	Reason      bool
}

var rules = map[entity.MovementKind]Rule{
	entity.MovEntradaCompra:        {Destination: true},
	entity.MovSalidaUso:            {Origin: true},
	entity.MovSalidaDescarte:       {Origin: true},
	entity.MovAjustePositivo:       {Destination: true, Reason: true},
	entity.MovAjusteNegativo:       {Origin: true, Reason: true},
	entity.MovTransferenciaSalida:  {Origin: true},
	entity.MovTransferenciaEntrada: {Destination: true},
	entity.MovDevolucionProveedor:  {Origin: true},
	entity.MovDevolucionInterna:    {Origin: true, Destination: true},
}

// RuleFor devuelve la regla del tipo y si el tipo es conocido.
func RuleFor(kind entity.MovementKind) (Rule, bool) {
	r, ok := rules[kind]
	return r, ok
}

// ParseKind convierte el texto recibido en un tipo de movimiento conocido.
func ParseKind(s string) (entity.MovementKind, error) {
	k := entity.MovementKind(strings.TrimSpace(s))
	if _, ok := rules[k]; !ok {
		return "", domain.Unprocessable("tipo de movimiento inválido: %q", s)
	}
	return k, nil
}

// Validate comprueba la forma del movimiento según su tipo y limpia los campos del lado que
// el tipo no toca (una salida nunca incrementa un destino, una entrada nunca descuenta un origen).
func Validate(m *entity.Movement) error {
	rule, ok := rules[m.TipoMovimiento]
	if !ok {
		return domain.Unprocessable("tipo de movimiento inválido: %q", string(m.TipoMovimiento))
	}
	if m.TipoItemID == "" {
		return domain.Unprocessable("tipo_item_id es obligatorio")
	}
	if m.Cantidad <= 0 {
		return domain.Unprocessable("la cantidad debe ser mayor que cero")
	}
	if m.CostoUnitario != nil && m.CostoUnitario.LessThan(decimal.Zero) {
		return domain.Unprocessable("el costo unitario no puede ser negativo")
	}
	if rule.Origin && blank(m.UbicacionOrigen) {
		return domain.Unprocessable("ubicacion_origen es obligatoria para movimientos de tipo '%s'", m.TipoMovimiento)
	}
	if rule.Destination && blank(m.UbicacionDestino) {
		return domain.Unprocessable("ubicacion_destino es obligatoria para movimientos de tipo '%s'", m.TipoMovimiento)
	}
	if rule.Reason && blank(m.MotivoAjuste) {
		return domain.Unprocessable("motivo_ajuste es obligatorio para movimientos de tipo '%s'", m.TipoMovimiento)
	}
	if !rule.Origin {
		m.UbicacionOrigen, m.LoteOrigen = nil, nil
	}
	if !rule.Destination {
		m.UbicacionDestino, m.LoteDestino = nil, nil
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
