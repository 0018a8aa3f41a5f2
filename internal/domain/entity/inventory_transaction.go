package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	TransactionTypeSale       = "sale"
	TransactionTypePurchase   = "purchase"
	TransactionTypeAdjustment = "adjustment"
)

// InventoryTransaction entrada inmutable del libro de inventario.
// QuantityChange es positivo en entradas y negativo en salidas.
type InventoryTransaction struct {
	ID             string
	ItemID         string
	Type           string
	ReferenceID    string // orden o ajuste
	QuantityChange int64
	UnitCost       *decimal.Decimal
	CreatedBy      string
	CreatedAt      time.Time
}

// ValidTransactionType indica si t es un tipo de movimiento conocido.
func ValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeSale, TransactionTypePurchase, TransactionTypeAdjustment:
		return true
	}
	return false
}
