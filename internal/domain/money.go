package domain

import "github.com/shopspring/decimal"

// Decimales con los que se almacenan los valores monetarios.
const (
	MoneyPlaces int32 = 2 // totales, pagos, saldos, precio de venta
	PricePlaces int32 = 4 // precio unitario y costo
	RatePlaces  int32 = 2 // porcentaje de impuesto
)

// ExceedsPlaces indica si d tiene más decimales de los que se pueden guardar.
func ExceedsPlaces(d decimal.Decimal, places int32) bool {
	return !d.Equal(d.Truncate(places))
}

// RoundMoney redondea un monto calculado a MoneyPlaces.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}
