package dto

import (
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de una orden. Sin unit_price se usa el precio de venta (ventas) o el costo (compras).
type OrderLineRequest struct {
	ItemID    string           `json:"item_id" validate:"required,uuid"`
	Quantity  int64            `json:"quantity" validate:"gte=1"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateOrderRequest body para POST /api/sales y /api/purchases.
// CustomerName/CustomerPhone crean (o reutilizan) un cliente mínimo en ventas sin counterparty_id.
type CreateOrderRequest struct {
	CounterpartyID string             `json:"counterparty_id,omitempty" validate:"omitempty,uuid"`
	CustomerName   string             `json:"customer_name,omitempty" validate:"max=200"`
	CustomerPhone  string             `json:"customer_phone,omitempty" validate:"max=30"`
	Items          []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
	TaxRate        decimal.Decimal    `json:"tax_rate"`
	PaymentMethod  string             `json:"payment_method" validate:"max=50"`
	PaidAmount     decimal.Decimal    `json:"paid_amount"`
	Notes          string             `json:"notes" validate:"max=1000"`
	OrderDate      *time.Time         `json:"order_date,omitempty"`
}

// ReceiveLineRequest cantidad recibida acumulada (no incremental) de un ítem.
type ReceiveLineRequest struct {
	ItemID           string `json:"item_id" validate:"required,uuid"`
	ReceivedQuantity int64  `json:"received_quantity" validate:"gte=0"`
}

// ReceiveRequest body para POST /api/purchases/:id/receive.
type ReceiveRequest struct {
	Items        []ReceiveLineRequest `json:"items" validate:"required,min=1,dive"`
	ReceivedDate *time.Time           `json:"received_date,omitempty"`
}

// RecordPaymentRequest body para POST /api/{sales|purchases}/:id/payments.
type RecordPaymentRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method" validate:"max=50"`
	PaymentDate     *time.Time      `json:"payment_date,omitempty"`
	ReferenceNumber string          `json:"reference_number" validate:"max=100"`
	Notes           string          `json:"notes" validate:"max=1000"`
}

// OrderItemResponse línea de una orden.
type OrderItemResponse struct {
	ID               string          `json:"id"`
	ItemID           string          `json:"item_id"`
	Quantity         int64           `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	ReceivedQuantity int64           `json:"received_quantity"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	ID              string          `json:"id"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceID     string          `json:"reference_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentDate     time.Time       `json:"payment_date"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedBy       string          `json:"created_by"`
}

// OrderResponse cabecera de orden con campos derivados.
type OrderResponse struct {
	ID              string          `json:"id"`
	Type            string          `json:"order_type"`
	OrderNumber     string          `json:"order_number"`
	CounterpartyID  *string         `json:"counterparty_id,omitempty"`
	OrderDate       time.Time       `json:"order_date"`
	Status          string          `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentMethod   string          `json:"payment_method"`
	Notes           string          `json:"notes"`
	ReceivedDate    *time.Time      `json:"received_date,omitempty"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderDetailResponse orden con líneas y pagos.
type OrderDetailResponse struct {
	OrderResponse
	Items    []OrderItemResponse `json:"items"`
	Payments []PaymentResponse   `json:"payments"`
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// PaymentResultResponse respuesta de un pago: el pago y la orden actualizada.
type PaymentResultResponse struct {
	Payment PaymentResponse `json:"payment"`
	Order   OrderResponse   `json:"order"`
}

// NewOrderResponse mapea la entidad a su respuesta.
func NewOrderResponse(o *entity.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		Type:            o.Type,
		OrderNumber:     o.OrderNumber,
		CounterpartyID:  o.CounterpartyID,
		OrderDate:       o.OrderDate,
		Status:          o.Status,
		Subtotal:        o.Subtotal,
		TaxRate:         o.TaxRate,
		TaxAmount:       o.TaxAmount,
		TotalAmount:     o.TotalAmount,
		PaidAmount:      o.PaidAmount,
		RemainingAmount: o.RemainingAmount(),
		PaymentStatus:   o.PaymentStatus(),
		PaymentMethod:   o.PaymentMethod,
		Notes:           o.Notes,
		ReceivedDate:    o.ReceivedDate,
		CreatedBy:       o.CreatedBy,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// NewOrderItemResponse mapea la línea a su respuesta.
func NewOrderItemResponse(it *entity.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:               it.ID,
		ItemID:           it.ItemID,
		Quantity:         it.Quantity,
		UnitPrice:        it.UnitPrice,
		TotalPrice:       it.TotalPrice,
		ReceivedQuantity: it.ReceivedQuantity,
	}
}

// NewPaymentResponse mapea el pago a su respuesta.
func NewPaymentResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              p.ID,
		ReferenceType:   p.ReferenceType,
		ReferenceID:     p.ReferenceID,
		Amount:          p.Amount,
		PaymentMethod:   p.Method,
		PaymentDate:     p.PaymentDate,
		ReferenceNumber: p.ReferenceNumber,
		Notes:           p.Notes,
		CreatedBy:       p.CreatedBy,
	}
}
