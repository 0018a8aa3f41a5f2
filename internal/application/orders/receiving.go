package orders

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-api/internal/domain/inventory"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// ReceiveLine cantidad recibida ACUMULADA de un ítem (no el incremento de esta entrega).
type ReceiveLine struct {
	ItemID           string
	ReceivedQuantity int64
}

// ReceiveInput entrada de receive.
type ReceiveInput struct {
	OrderID      string
	Lines        []ReceiveLine
	ReceivedDate *time.Time
	Actor        string
}

// ReceiveResult orden actualizada, sus líneas y las entradas de libro generadas (vacío si no hubo incrementos).
type ReceiveResult struct {
	Order   *entity.Order
	Items   []*entity.OrderItem
	Entries []*entity.InventoryTransaction
}

func validateReceive(in ReceiveInput) error {
	if in.OrderID == "" {
		return domain.NewValidationError("id de orden requerido")
	}
	if len(in.Lines) == 0 {
		return domain.NewValidationError("se requiere al menos una línea a recibir")
	}
	seen := make(map[string]bool, len(in.Lines))
	for i, l := range in.Lines {
		if l.ItemID == "" {
			return domain.NewValidationError("línea %d: item_id requerido", i+1)
		}
		if l.ReceivedQuantity < 0 {
			return domain.NewValidationError("línea %d: la cantidad recibida no puede ser negativa", i+1)
		}
		if seen[l.ItemID] {
			return domain.NewValidationError("línea %d: ítem %s repetido", i+1, l.ItemID)
		}
		seen[l.ItemID] = true
	}
	return nil
}

// Receive registra la recepción de una orden de compra. Cada línea trae el total recibido a la fecha;
// solo el incremento respecto a lo ya guardado entra al stock. Repetir la misma llamada no genera movimientos.
// pending -> partial -> received; received es terminal.
func (e *Engine) Receive(ctx context.Context, in ReceiveInput) (res *ReceiveResult, err error) {
	ctx, span := tracer.Start(ctx, "orders.Receive", trace.WithAttributes(
		attribute.String("order.id", in.OrderID),
		attribute.Int("receive.lines", len(in.Lines)),
	))
	defer func() { endSpan(span, err) }()

	if err = validateReceive(in); err != nil {
		return nil, err
	}
	err = e.txRunner.Run(ctx, func(store repository.Store) error {
		r, err := e.receiveInTx(ctx, store, in)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) receiveInTx(ctx context.Context, store repository.Store, in ReceiveInput) (*ReceiveResult, error) {
	order, err := store.Orders.GetForUpdate(ctx, in.OrderID)
	if err != nil {
		return nil, domain.Storage("bloquear orden", err)
	}
	if order == nil || order.Type != entity.OrderTypePurchase {
		return nil, domain.Errorf(domain.ErrNotFound, "orden de compra %s", in.OrderID)
	}
	if order.Status == entity.OrderStatusReceived {
		return nil, domain.Errorf(domain.ErrAlreadyReceived, "orden %s", order.OrderNumber)
	}

	items, err := store.Orders.ListItems(ctx, order.ID)
	if err != nil {
		return nil, domain.Storage("leer líneas", err)
	}
	byItem := make(map[string]*entity.OrderItem, len(items))
	for _, it := range items {
		byItem[it.ItemID] = it
	}

	// Validación completa antes de escribir nada
	increments := make(map[string]int64, len(in.Lines))
	ids := make([]string, 0, len(in.Lines))
	for _, l := range in.Lines {
		line, ok := byItem[l.ItemID]
		if !ok {
			return nil, domain.NewValidationError("el ítem %s no pertenece a la orden %s", l.ItemID, order.OrderNumber)
		}
		if l.ReceivedQuantity > line.Quantity {
			return nil, domain.NewValidationError("ítem %s: recibido %d supera lo pedido %d", l.ItemID, l.ReceivedQuantity, line.Quantity)
		}
		if l.ReceivedQuantity < line.ReceivedQuantity {
			return nil, domain.NewValidationError("ítem %s: la cantidad acumulada %d es menor a la ya recibida %d", l.ItemID, l.ReceivedQuantity, line.ReceivedQuantity)
		}
		if inc := l.ReceivedQuantity - line.ReceivedQuantity; inc > 0 {
			increments[l.ItemID] = inc
			ids = append(ids, l.ItemID)
		}
	}
	sort.Strings(ids)

	res := &ReceiveResult{Order: order, Items: items}
	if len(ids) > 0 {
		locked, err := store.Items.LockForUpdate(ctx, ids)
		if err != nil {
			return nil, domain.Storage("bloquear ítems", err)
		}
		for _, id := range ids {
			item := locked[id]
			if item == nil || !item.Active {
				return nil, domain.Errorf(domain.ErrNotFound, "ítem %s", id)
			}
			line := byItem[id]
			inc := increments[id]

			// Costo promedio ponderado con el stock previo a la entrada
			newCost := domaininv.CostCalculator(item.CurrentStock, item.CostPrice, inc, line.UnitPrice)
			if err := store.Items.UpdateCost(ctx, id, newCost); err != nil {
				return nil, domain.Storage("actualizar costo", err)
			}
			unitCost := line.UnitPrice
			tx, err := e.ledger.RecordTransaction(ctx, store, inventory.LedgerEntry{
				ItemID:         id,
				Type:           entity.TransactionTypePurchase,
				ReferenceID:    order.ID,
				QuantityChange: inc,
				UnitCost:       &unitCost,
				Actor:          in.Actor,
			})
			if err != nil {
				return nil, err
			}
			res.Entries = append(res.Entries, tx)

			line.ReceivedQuantity += inc
			if err := store.Orders.UpdateReceivedQuantity(ctx, line.ID, line.ReceivedQuantity); err != nil {
				return nil, domain.Storage("actualizar línea", err)
			}
		}
	}

	status := domaininv.ReceivingStatus(items)
	var receivedDate *time.Time
	if status == entity.OrderStatusReceived {
		d := e.now()
		if in.ReceivedDate != nil {
			d = *in.ReceivedDate
		}
		receivedDate = &d
	}
	if status != order.Status {
		if err := store.Orders.UpdateStatus(ctx, order.ID, status, receivedDate); err != nil {
			return nil, domain.Storage("actualizar estado", err)
		}
		order.Status = status
		if receivedDate != nil {
			order.ReceivedDate = receivedDate
		}
		order.UpdatedAt = e.now()
	}
	return res, nil
}
