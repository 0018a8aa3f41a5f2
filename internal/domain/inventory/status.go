package inventory

import (
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SaleStatus estado de una orden de venta según lo pagado.
func SaleStatus(paid, total decimal.Decimal) string {
	if paid.GreaterThanOrEqual(total) {
		return entity.OrderStatusCompleted
	}
	return entity.OrderStatusPending
}

// ReceivingStatus estado de una orden de compra según lo recibido por línea:
// received si todas las líneas están completas, partial si alguna tiene recepción, pending si ninguna.
func ReceivingStatus(lines []*entity.OrderItem) string {
	if len(lines) == 0 {
		return entity.OrderStatusPending
	}
	complete, started := true, false
	for _, l := range lines {
		if l.ReceivedQuantity > 0 {
			started = true
		}
		if l.ReceivedQuantity != l.Quantity {
			complete = false
		}
	}
	switch {
	case complete:
		return entity.OrderStatusReceived
	case started:
		return entity.OrderStatusPartial
	default:
		return entity.OrderStatusPending
	}
}
