package dto

import (
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem. InitialStock se registra como ajuste "increase".
type CreateItemRequest struct {
	SKU          string          `json:"sku" validate:"required,min=1,max=100"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Unit         string          `json:"unit" validate:"required,max=20"`
	MinStock     int64           `json:"min_stock" validate:"gte=0"`
	MaxStock     int64           `json:"max_stock" validate:"gte=0"`
	ReorderLevel int64           `json:"reorder_level" validate:"gte=0"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	InitialStock int64           `json:"initial_stock" validate:"gte=0"`
}

// UpdateItemRequest entrada para actualizar un ítem (sin stock).
type UpdateItemRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Unit         *string          `json:"unit" validate:"omitempty,min=1,max=20"`
	MinStock     *int64           `json:"min_stock" validate:"omitempty,gte=0"`
	MaxStock     *int64           `json:"max_stock" validate:"omitempty,gte=0"`
	ReorderLevel *int64           `json:"reorder_level" validate:"omitempty,gte=0"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	TaxRate      *decimal.Decimal `json:"tax_rate"`
}

// ItemResponse salida de un ítem con campos derivados.
type ItemResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CurrentStock int64           `json:"current_stock"`
	MinStock     int64           `json:"min_stock"`
	MaxStock     int64           `json:"max_stock"`
	ReorderLevel int64           `json:"reorder_level"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	StockValue   decimal.Decimal `json:"stock_value"`
	LowStock     bool            `json:"low_stock"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// NewItemResponse mapea la entidad a su respuesta.
func NewItemResponse(i *entity.Item) ItemResponse {
	return ItemResponse{
		ID:           i.ID,
		SKU:          i.SKU,
		Name:         i.Name,
		Unit:         i.Unit,
		CurrentStock: i.CurrentStock,
		MinStock:     i.MinStock,
		MaxStock:     i.MaxStock,
		ReorderLevel: i.ReorderLevel,
		CostPrice:    i.CostPrice,
		SellingPrice: i.SellingPrice,
		TaxRate:      i.TaxRate,
		StockValue:   i.StockValue(),
		LowStock:     i.IsLowStock(),
		Active:       i.Active,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}
