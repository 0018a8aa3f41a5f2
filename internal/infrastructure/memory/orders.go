package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.OrderRepository   = (*orderRepo)(nil)
	_ repository.PaymentRepository = (*paymentRepo)(nil)
)

type orderRepo struct{ v *view }

func (r *orderRepo) Create(ctx context.Context, order *entity.Order) error {
	return r.v.do(ctx, "orders.create", func(st *state) error {
		for _, o := range st.orders {
			if o.ID == order.ID || (o.Type == order.Type && o.OrderNumber == order.OrderNumber) {
				return domain.Errorf(domain.ErrDuplicate, "orden %s", order.OrderNumber)
			}
		}
		st.orders[order.ID] = *order
		return nil
	})
}

func (r *orderRepo) CreateItems(ctx context.Context, items []*entity.OrderItem) error {
	return r.v.do(ctx, "orders.create_items", func(st *state) error {
		for _, it := range items {
			if _, ok := st.orders[it.OrderID]; !ok {
				return domain.Errorf(domain.ErrNotFound, "orden %s", it.OrderID)
			}
			st.orderItems[it.ID] = *it
		}
		return nil
	})
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.v.do(ctx, "orders.get", func(st *state) error {
		if o, ok := st.orders[id]; ok {
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	err := r.v.do(ctx, "orders.list_items", func(st *state) error {
		for _, it := range st.orderItems {
			if it.OrderID == orderID {
				out = append(out, &it)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, err
}

func (r *orderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.v.do(ctx, "orders.list", func(st *state) error {
		for _, o := range st.orders {
			if f.Type != "" && o.Type != f.Type {
				continue
			}
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			if f.CounterpartyID != "" && (o.CounterpartyID == nil || *o.CounterpartyID != f.CounterpartyID) {
				continue
			}
			out = append(out, &o)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].OrderNumber > out[j].OrderNumber
	})
	return page(out, f.Limit, f.Offset), err
}

func (r *orderRepo) UpdatePayment(ctx context.Context, id string, paid decimal.Decimal, status string) error {
	return r.v.do(ctx, "orders.update_payment", func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return domain.Errorf(domain.ErrNotFound, "orden %s", id)
		}
		o.PaidAmount = paid
		o.Status = status
		o.UpdatedAt = time.Now()
		st.orders[id] = o
		return nil
	})
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id, status string, receivedDate *time.Time) error {
	return r.v.do(ctx, "orders.update_status", func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return domain.Errorf(domain.ErrNotFound, "orden %s", id)
		}
		o.Status = status
		if receivedDate != nil {
			o.ReceivedDate = receivedDate
		}
		o.UpdatedAt = time.Now()
		st.orders[id] = o
		return nil
	})
}

func (r *orderRepo) UpdateReceivedQuantity(ctx context.Context, orderItemID string, qty int64) error {
	return r.v.do(ctx, "orders.update_received", func(st *state) error {
		it, ok := st.orderItems[orderItemID]
		if !ok {
			return domain.Errorf(domain.ErrNotFound, "línea %s", orderItemID)
		}
		it.ReceivedQuantity = qty
		st.orderItems[orderItemID] = it
		return nil
	})
}

type paymentRepo struct{ v *view }

func (r *paymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	return r.v.do(ctx, "payments.create", func(st *state) error {
		st.payments = append(st.payments, *p)
		return nil
	})
}

func (r *paymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	var out *entity.Payment
	err := r.v.do(ctx, "payments.get", func(st *state) error {
		for _, p := range st.payments {
			if p.ID == id {
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *paymentRepo) ListByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	err := r.v.do(ctx, "payments.list", func(st *state) error {
		for _, p := range st.payments {
			if p.ReferenceType == referenceType && p.ReferenceID == referenceID {
				out = append(out, &p)
			}
		}
		return nil
	})
	return out, err
}
