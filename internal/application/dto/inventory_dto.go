package dto

import (
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockAdjustmentRequest body para POST /api/inventory/adjustments.
// Para correction, Quantity es el stock objetivo (puede ser 0).
type StockAdjustmentRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Type     string `json:"adjustment_type" validate:"required,oneof=increase decrease correction"`
	Quantity int64  `json:"quantity" validate:"gte=0"`
	Reason   string `json:"reason" validate:"max=500"`
}

// StockAdjustmentResponse salida de un ajuste.
type StockAdjustmentResponse struct {
	ID             string    `json:"id"`
	ItemID         string    `json:"item_id"`
	Type           string    `json:"adjustment_type"`
	QuantityBefore int64     `json:"quantity_before"`
	QuantityAfter  int64     `json:"quantity_after"`
	QuantityChange int64     `json:"quantity_change"`
	Reason         string    `json:"reason"`
	TransactionID  string    `json:"transaction_id"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewStockAdjustmentResponse mapea la entidad a su respuesta.
func NewStockAdjustmentResponse(a *entity.StockAdjustment) StockAdjustmentResponse {
	return StockAdjustmentResponse{
		ID:             a.ID,
		ItemID:         a.ItemID,
		Type:           a.Type,
		QuantityBefore: a.QuantityBefore,
		QuantityAfter:  a.QuantityAfter,
		QuantityChange: a.QuantityChange,
		Reason:         a.Reason,
		TransactionID:  a.TransactionID,
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt,
	}
}

// LedgerEntryResponse entrada del libro de inventario.
type LedgerEntryResponse struct {
	ID             string           `json:"id"`
	ItemID         string           `json:"item_id"`
	Type           string           `json:"transaction_type"`
	ReferenceID    string           `json:"reference_id"`
	QuantityChange int64            `json:"quantity_change"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	CreatedBy      string           `json:"created_by"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NewLedgerEntryResponse mapea la entidad a su respuesta.
func NewLedgerEntryResponse(t *entity.InventoryTransaction) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:             t.ID,
		ItemID:         t.ItemID,
		Type:           t.Type,
		ReferenceID:    t.ReferenceID,
		QuantityChange: t.QuantityChange,
		UnitCost:       t.UnitCost,
		CreatedBy:      t.CreatedBy,
		CreatedAt:      t.CreatedAt,
	}
}

// LedgerListResponse lista paginada del libro.
type LedgerListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// ReconciliationResponse compara el stock del ítem con la suma del libro.
type ReconciliationResponse struct {
	ItemID        string `json:"item_id"`
	CurrentStock  int64  `json:"current_stock"`
	BaselineStock int64  `json:"baseline_stock"`
	LedgerSum     int64  `json:"ledger_sum"`
	Consistent    bool   `json:"consistent"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un ítem en o bajo su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	ItemID              string          `json:"item_id"`
	SKU                 string          `json:"sku"`
	ItemName            string          `json:"item_name"`
	CurrentStock        int64           `json:"current_stock"`
	ReorderLevel        int64           `json:"reorder_level"`
	IdealStock          int64           `json:"ideal_stock"`         // MaxStock, o ReorderLevel * 1.5 si no hay máximo
	SuggestedOrderQty   int64           `json:"suggested_order_qty"` // IdealStock - CurrentStock
	UnitCost            decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost  decimal.Decimal `json:"estimated_order_cost"`
	GrossMarginPct      decimal.Decimal `json:"gross_margin_pct"`
	UnitsSoldLast90Days int64           `json:"units_sold_last_90d"`
	Priority            int             `json:"priority"` // 1 = más urgente
}
