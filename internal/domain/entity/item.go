package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un SKU del inventario.
// CurrentStock solo cambia a través del libro de movimientos (InventoryTransaction).
type Item struct {
	ID           string
	Name         string
	SKU          string // único
	Unit         string
	CurrentStock int64
	MinStock     int64
	MaxStock     int64
	ReorderLevel int64
	CostPrice    decimal.Decimal // costo promedio ponderado
	SellingPrice decimal.Decimal
	TaxRate      decimal.Decimal // porcentaje, ej. 19
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StockValue valor del stock al costo (CurrentStock × CostPrice).
func (i *Item) StockValue() decimal.Decimal {
	return decimal.NewFromInt(i.CurrentStock).Mul(i.CostPrice)
}

// IsLowStock indica si el ítem está en o por debajo de su punto de reorden.
func (i *Item) IsLowStock() bool {
	return i.CurrentStock <= i.ReorderLevel
}

// ItemUpdate comando de actualización: solo los campos editables (nunca CurrentStock).
type ItemUpdate struct {
	Name         *string
	Unit         *string
	MinStock     *int64
	MaxStock     *int64
	ReorderLevel *int64
	CostPrice    *decimal.Decimal
	SellingPrice *decimal.Decimal
	TaxRate      *decimal.Decimal
}

// Apply aplica los campos presentes sobre el ítem.
func (u ItemUpdate) Apply(i *Item) {
	if u.Name != nil {
		i.Name = *u.Name
	}
	if u.Unit != nil {
		i.Unit = *u.Unit
	}
	if u.MinStock != nil {
		i.MinStock = *u.MinStock
	}
	if u.MaxStock != nil {
		i.MaxStock = *u.MaxStock
	}
	if u.ReorderLevel != nil {
		i.ReorderLevel = *u.ReorderLevel
	}
	if u.CostPrice != nil {
		i.CostPrice = *u.CostPrice
	}
	if u.SellingPrice != nil {
		i.SellingPrice = *u.SellingPrice
	}
	if u.TaxRate != nil {
		i.TaxRate = *u.TaxRate
	}
}
