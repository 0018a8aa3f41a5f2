package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-api/internal/domain/inventory"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// PaymentInput entrada de recordPayment.
type PaymentInput struct {
	OrderType       string
	OrderID         string
	Amount          decimal.Decimal
	Method          string
	Date            *time.Time
	ReferenceNumber string
	Notes           string
	Actor           string
	IdempotencyKey  string
}

func (in PaymentInput) fingerprintPayload() any {
	return struct {
		OrderType, OrderID, Amount, Method string
		Date                               *time.Time
		ReferenceNumber, Notes             string
	}{in.OrderType, in.OrderID, in.Amount.StringFixed(domain.MoneyPlaces), in.Method, in.Date, in.ReferenceNumber, in.Notes}
}

// PaymentResult pago registrado y orden actualizada.
type PaymentResult struct {
	Payment *entity.Payment
	Order   *entity.Order
}

// RecordPayment registra un pago contra una orden: aumenta lo pagado, recalcula el estado (ventas)
// y descuenta el monto del saldo del tercero. Nunca recorta el monto: si supera el saldo pendiente falla.
func (e *Engine) RecordPayment(ctx context.Context, in PaymentInput) (res *PaymentResult, err error) {
	ctx, span := tracer.Start(ctx, "orders.RecordPayment", trace.WithAttributes(
		attribute.String("order.id", in.OrderID),
		attribute.String("order.type", in.OrderType),
	))
	defer func() { endSpan(span, err) }()

	if in.OrderID == "" || !entity.ValidOrderType(in.OrderType) {
		return nil, domain.NewValidationError("tipo e id de orden requeridos")
	}
	if !in.Amount.IsPositive() {
		return nil, domain.Errorf(domain.ErrInvalidPayment, "el monto debe ser mayor que cero")
	}
	if domain.ExceedsPlaces(in.Amount, domain.MoneyPlaces) {
		return nil, domain.Errorf(domain.ErrInvalidPayment, "el monto admite máximo %d decimales", domain.MoneyPlaces)
	}

	var fp string
	if in.IdempotencyKey != "" {
		if fp, err = fingerprint(in.fingerprintPayload()); err != nil {
			return nil, err
		}
		release, lockErr := e.lockKey(ctx, entity.IdempotencyScopeRecordPayment, in.IdempotencyKey)
		if lockErr != nil {
			return nil, lockErr
		}
		defer release()
	}

	err = runIdempotent(func() error {
		res = nil
		return e.txRunner.Run(ctx, func(store repository.Store) error {
			paymentID := uuid.New().String()
			if in.IdempotencyKey != "" {
				ref, err := claimKey(ctx, store, entity.IdempotencyScopeRecordPayment, in.IdempotencyKey, fp, paymentID, e.now())
				if err != nil {
					return err
				}
				if ref != "" {
					r, err := replayPayment(ctx, store, ref)
					if err != nil {
						return err
					}
					e.log.Info().Str("idempotency_key", in.IdempotencyKey).Str("payment_id", ref).Msg("pago repetido, se devuelve el original")
					res = r
					return nil
				}
			}
			r, err := e.recordPaymentInTx(ctx, store, in, paymentID)
			if err != nil {
				return err
			}
			res = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) recordPaymentInTx(ctx context.Context, store repository.Store, in PaymentInput, paymentID string) (*PaymentResult, error) {
	order, err := store.Orders.GetForUpdate(ctx, in.OrderID)
	if err != nil {
		return nil, domain.Storage("bloquear orden", err)
	}
	if order == nil || order.Type != in.OrderType {
		return nil, domain.Errorf(domain.ErrNotFound, "orden %s", in.OrderID)
	}
	remaining := order.RemainingAmount()
	if in.Amount.GreaterThan(remaining) {
		return nil, domain.Errorf(domain.ErrOverpayment,
			"monto %s, saldo pendiente %s", in.Amount.StringFixed(2), remaining.StringFixed(2))
	}

	now := e.now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	p := &entity.Payment{
		ID:              paymentID,
		ReferenceType:   order.Type,
		ReferenceID:     order.ID,
		Amount:          in.Amount,
		Method:          in.Method,
		PaymentDate:     date,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		CreatedBy:       in.Actor,
		CreatedAt:       now,
	}
	if err := store.Payments.Create(ctx, p); err != nil {
		return nil, domain.Storage("guardar pago", err)
	}

	paid := order.PaidAmount.Add(in.Amount)
	status := order.Status
	if order.Type == entity.OrderTypeSale {
		status = domaininv.SaleStatus(paid, order.TotalAmount)
	}
	if err := store.Orders.UpdatePayment(ctx, order.ID, paid, status); err != nil {
		return nil, domain.Storage("actualizar orden", err)
	}
	if order.CounterpartyID != nil {
		if err := store.Counterparties.AdjustBalance(ctx, *order.CounterpartyID, in.Amount.Neg()); err != nil {
			return nil, domain.Storage("actualizar saldo", err)
		}
	}
	order.PaidAmount = paid
	order.Status = status
	order.UpdatedAt = now
	return &PaymentResult{Payment: p, Order: order}, nil
}

func replayPayment(ctx context.Context, store repository.Store, paymentID string) (*PaymentResult, error) {
	p, err := store.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, domain.Storage("obtener pago", err)
	}
	if p == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "pago %s", paymentID)
	}
	o, err := store.Orders.GetByID(ctx, p.ReferenceID)
	if err != nil {
		return nil, domain.Storage("obtener orden", err)
	}
	if o == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "orden %s", p.ReferenceID)
	}
	return &PaymentResult{Payment: p, Order: o}, nil
}
