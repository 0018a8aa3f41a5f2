package entity

import "time"

// Tipos de ajuste manual de stock.
const (
	AdjustmentIncrease   = "increase"
	AdjustmentDecrease   = "decrease"
	AdjustmentCorrection = "correction" // fija un valor absoluto
)

// StockAdjustment ajuste manual; referencia exactamente una InventoryTransaction.
type StockAdjustment struct {
	ID             string
	ItemID         string
	Type           string
	QuantityBefore int64
	QuantityAfter  int64
	QuantityChange int64
	Reason         string
	TransactionID  string
	CreatedBy      string
	CreatedAt      time.Time
}
