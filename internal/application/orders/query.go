package orders

import (
	"context"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// QueryUseCase lecturas de órdenes con campos derivados (saldo pendiente, estado de pago).
type QueryUseCase struct {
	orders   repository.OrderRepository
	payments repository.PaymentRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(orders repository.OrderRepository, payments repository.PaymentRepository) *QueryUseCase {
	return &QueryUseCase{orders: orders, payments: payments}
}

// Get orden con líneas y pagos. El tipo debe coincidir (una venta no se consulta como compra).
func (uc *QueryUseCase) Get(ctx context.Context, orderType, id string) (*dto.OrderDetailResponse, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("obtener orden", err)
	}
	if o == nil || o.Type != orderType {
		return nil, domain.Errorf(domain.ErrNotFound, "orden %s", id)
	}
	items, err := uc.orders.ListItems(ctx, id)
	if err != nil {
		return nil, domain.Storage("obtener líneas", err)
	}
	payments, err := uc.payments.ListByReference(ctx, o.Type, id)
	if err != nil {
		return nil, domain.Storage("obtener pagos", err)
	}
	return newOrderDetail(o, items, payments), nil
}

// List órdenes del tipo indicado, más recientes primero.
func (uc *QueryUseCase) List(ctx context.Context, orderType, status, counterpartyID string, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	list, err := uc.orders.List(ctx, repository.OrderFilter{
		Type:           orderType,
		Status:         status,
		CounterpartyID: counterpartyID,
		Limit:          page.Limit,
		Offset:         page.Offset,
	})
	if err != nil {
		return nil, domain.Storage("listar órdenes", err)
	}
	out := &dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, o := range list {
		out.Items = append(out.Items, dto.NewOrderResponse(o))
	}
	return out, nil
}

func newOrderDetail(o *entity.Order, items []*entity.OrderItem, payments []*entity.Payment) *dto.OrderDetailResponse {
	out := &dto.OrderDetailResponse{
		OrderResponse: dto.NewOrderResponse(o),
		Items:         make([]dto.OrderItemResponse, 0, len(items)),
		Payments:      make([]dto.PaymentResponse, 0, len(payments)),
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.NewOrderItemResponse(it))
	}
	for _, p := range payments {
		out.Payments = append(out.Payments, dto.NewPaymentResponse(p))
	}
	return out
}
