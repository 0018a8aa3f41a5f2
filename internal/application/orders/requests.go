package orders

import (
	"context"

	"github.com/jhoicas/pos-api/internal/application/dto"
)

// CreateFromRequest adapta el request HTTP a CreateOrder. orderType viene de la ruta (sale|purchase).
func (e *Engine) CreateFromRequest(ctx context.Context, orderType, userID, idempotencyKey string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	lines := make([]OrderLine, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, OrderLine{ItemID: it.ItemID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	o, err := e.CreateOrder(ctx, CreateOrderInput{
		Type:              orderType,
		CounterpartyID:    in.CounterpartyID,
		CounterpartyName:  in.CustomerName,
		CounterpartyPhone: in.CustomerPhone,
		Lines:             lines,
		TaxRate:           in.TaxRate,
		PaymentMethod:     in.PaymentMethod,
		PaidAmount:        in.PaidAmount,
		Notes:             in.Notes,
		OrderDate:         in.OrderDate,
		Actor:             userID,
		IdempotencyKey:    idempotencyKey,
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewOrderResponse(o)
	return &out, nil
}

// ReceiveFromRequest adapta el request HTTP a Receive.
func (e *Engine) ReceiveFromRequest(ctx context.Context, orderID, userID string, in dto.ReceiveRequest) (*dto.OrderDetailResponse, error) {
	lines := make([]ReceiveLine, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, ReceiveLine{ItemID: it.ItemID, ReceivedQuantity: it.ReceivedQuantity})
	}
	res, err := e.Receive(ctx, ReceiveInput{
		OrderID:      orderID,
		Lines:        lines,
		ReceivedDate: in.ReceivedDate,
		Actor:        userID,
	})
	if err != nil {
		return nil, err
	}
	return newOrderDetail(res.Order, res.Items, nil), nil
}

// RecordPaymentFromRequest adapta el request HTTP a RecordPayment.
func (e *Engine) RecordPaymentFromRequest(ctx context.Context, orderType, orderID, userID, idempotencyKey string, in dto.RecordPaymentRequest) (*dto.PaymentResultResponse, error) {
	res, err := e.RecordPayment(ctx, PaymentInput{
		OrderType:       orderType,
		OrderID:         orderID,
		Amount:          in.Amount,
		Method:          in.PaymentMethod,
		Date:            in.PaymentDate,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		Actor:           userID,
		IdempotencyKey:  idempotencyKey,
	})
	if err != nil {
		return nil, err
	}
	return &dto.PaymentResultResponse{
		Payment: dto.NewPaymentResponse(res.Payment),
		Order:   dto.NewOrderResponse(res.Order),
	}, nil
}
