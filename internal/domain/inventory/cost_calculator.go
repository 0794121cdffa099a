package inventory

import "github.com/shopspring/decimal"

// CostScale decimales con los que se guarda el costo promedio (NUMERIC(12,4)).
const CostScale = 4

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
//
// Sin costo de entrada el promedio no cambia. Sin promedio previo o sin stock previo, el
// nuevo promedio es el costo de entrada.
func CostCalculator(stockActual int, costoActual *decimal.Decimal, cantEntrada int, costoEntrada *decimal.Decimal) *decimal.Decimal {
	if costoEntrada == nil {
		return costoActual
	}
	if costoActual == nil || stockActual <= 0 {
		c := costoEntrada.Round(CostScale)
		return &c
	}
	sum := decimal.NewFromInt(int64(stockActual + cantEntrada))
	if sum.LessThanOrEqual(decimal.Zero) {
		c := costoEntrada.Round(CostScale)
		return &c
	}
	num := decimal.NewFromInt(int64(stockActual)).Mul(*costoActual).
		Add(decimal.NewFromInt(int64(cantEntrada)).Mul(*costoEntrada))
	avg := num.DivRound(sum, CostScale)
	return &avg
}
