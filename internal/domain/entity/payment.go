package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment pago registrado contra una orden (append-only).
// ReferenceType es el tipo de la orden (sale|purchase).
type Payment struct {
	ID              string
	ReferenceType   string
	ReferenceID     string
	Amount          decimal.Decimal
	Method          string
	PaymentDate     time.Time
	ReferenceNumber string
	Notes           string
	CreatedBy       string
	CreatedAt       time.Time
}
