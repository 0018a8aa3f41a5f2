package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OrderFilter filtros para listar órdenes.
type OrderFilter struct {
	Type           string
	Status         string
	CounterpartyID string
	Limit          int
	Offset         int
}

// OrderRepository define el puerto de persistencia para órdenes y sus líneas.
// Tras la creación solo se modifican pagado, estado, fecha de recepción y cantidades recibidas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateItems(ctx context.Context, items []*entity.OrderItem) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, error)
	UpdatePayment(ctx context.Context, id string, paid decimal.Decimal, status string) error
	UpdateStatus(ctx context.Context, id, status string, receivedDate *time.Time) error
	UpdateReceivedQuantity(ctx context.Context, orderItemID string, qty int64) error
}
