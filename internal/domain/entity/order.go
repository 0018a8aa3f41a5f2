package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de orden.
const (
	OrderTypeSale     = "sale"
	OrderTypePurchase = "purchase"
)

// Estados de orden. Ventas: pending|completed. Compras: pending|partial|received.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusPartial   = "partial"
	OrderStatusReceived  = "received"
)

// Estado de pago derivado de PaidAmount vs TotalAmount.
const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Order orden de venta o de compra (misma estructura).
// Invariante: 0 <= PaidAmount <= TotalAmount. Líneas y totales son inmutables tras la creación.
type Order struct {
	ID             string
	Type           string
	OrderNumber    string
	CounterpartyID *string // cliente (venta, opcional) o proveedor (compra)
	OrderDate      time.Time
	Status         string
	Subtotal       decimal.Decimal
	TaxRate        decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	PaidAmount     decimal.Decimal
	PaymentMethod  string
	Notes          string
	ReceivedDate   *time.Time
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem línea de una orden. ReceivedQuantity solo aplica a compras.
type OrderItem struct {
	ID               string
	OrderID          string
	ItemID           string
	Quantity         int64
	UnitPrice        decimal.Decimal
	TotalPrice       decimal.Decimal
	ReceivedQuantity int64
}

// RemainingAmount saldo pendiente de pago.
func (o *Order) RemainingAmount() decimal.Decimal {
	return o.TotalAmount.Sub(o.PaidAmount)
}

// PaymentStatus estado de pago derivado.
func (o *Order) PaymentStatus() string {
	switch {
	case o.PaidAmount.GreaterThanOrEqual(o.TotalAmount):
		return PaymentStatusPaid
	case o.PaidAmount.IsPositive():
		return PaymentStatusPartial
	default:
		return PaymentStatusUnpaid
	}
}

// ValidOrderType indica si t es venta o compra.
func ValidOrderType(t string) bool {
	return t == OrderTypeSale || t == OrderTypePurchase
}

// CounterpartyKindFor devuelve el tipo de tercero que corresponde a un tipo de orden.
func CounterpartyKindFor(orderType string) string {
	if orderType == OrderTypePurchase {
		return CounterpartySupplier
	}
	return CounterpartyCustomer
}
