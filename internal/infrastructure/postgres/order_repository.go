package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var (
	_ repository.OrderRepository   = (*OrderRepo)(nil)
	_ repository.PaymentRepository = (*PaymentRepo)(nil)
)

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, order_type, order_number, counterparty_id, order_date, status, subtotal, tax_rate,
	tax_amount, total_amount, paid_amount, payment_method, notes, received_date, created_by, created_at, updated_at`

func scanOrder(row pgxScanner) (*entity.Order, error) {
	var o entity.Order
	var method, notes *string
	err := row.Scan(
		&o.ID, &o.Type, &o.OrderNumber, &o.CounterpartyID, &o.OrderDate, &o.Status, &o.Subtotal, &o.TaxRate,
		&o.TaxAmount, &o.TotalAmount, &o.PaidAmount, &method, &notes, &o.ReceivedDate, &o.CreatedBy,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.PaymentMethod = emptyIfNull(method)
	o.Notes = emptyIfNull(notes)
	return &o, nil
}

// Create persiste la cabecera de la orden.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Type, o.OrderNumber, o.CounterpartyID, o.OrderDate, o.Status, o.Subtotal, o.TaxRate,
		o.TaxAmount, o.TotalAmount, o.PaidAmount, nullIfEmpty(o.PaymentMethod), nullIfEmpty(o.Notes),
		o.ReceivedDate, o.CreatedBy, o.CreatedAt, o.UpdatedAt,
	)
	return wrapErr("insert order", err)
}

// CreateItems persiste las líneas de la orden en un solo batch.
func (r *OrderRepo) CreateItems(ctx context.Context, items []*entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(insertOrderItemSQL, it.ID, it.OrderID, it.ItemID, it.Quantity, it.UnitPrice, it.TotalPrice, it.ReceivedQuantity)
	}
	br := r.q.SendBatch(ctx, batch)
	for range items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return wrapErr("insert order item", err)
		}
	}
	return wrapErr("insert order items", br.Close())
}

const insertOrderItemSQL = `
	INSERT INTO order_items (id, order_id, item_id, quantity, unit_price, total_price, received_quantity)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (r *OrderRepo) getOne(ctx context.Context, op, query string, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(op, err)
	}
	return o, nil
}

// GetByID obtiene la cabecera de una orden.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, "get order", `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate obtiene la orden y bloquea la fila (SELECT FOR UPDATE).
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, "get order for update", `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

// ListItems líneas de la orden en orden de item_id.
func (r *OrderRepo) ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, item_id, quantity, unit_price, total_price, received_quantity
		FROM order_items WHERE order_id = $1 ORDER BY item_id, id`, orderID)
	if err != nil {
		return nil, wrapErr("list order items", err)
	}
	defer rows.Close()
	var list []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ItemID, &it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.ReceivedQuantity); err != nil {
			return nil, wrapErr("scan order item", err)
		}
		list = append(list, &it)
	}
	return list, wrapErr("list order items", rows.Err())
}

// List órdenes filtradas, más recientes primero.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + ` FROM orders
		WHERE ($1 = '' OR order_type = $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR counterparty_id::text = $3)
		ORDER BY order_date DESC, order_number DESC
		LIMIT $4 OFFSET $5`
	var limit *int
	if f.Limit > 0 {
		limit = &f.Limit
	}
	rows, err := r.q.Query(ctx, query, f.Type, f.Status, f.CounterpartyID, limit, f.Offset)
	if err != nil {
		return nil, wrapErr("list orders", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, wrapErr("scan order", err)
		}
		list = append(list, o)
	}
	return list, wrapErr("list orders", rows.Err())
}

// UpdatePayment fija lo pagado y el estado.
func (r *OrderRepo) UpdatePayment(ctx context.Context, id string, paid decimal.Decimal, status string) error {
	_, err := r.q.Exec(ctx, `UPDATE orders SET paid_amount = $2, status = $3, updated_at = now() WHERE id = $1`, id, paid, status)
	return wrapErr("update order payment", err)
}

// UpdateStatus fija el estado y, si se indica, la fecha de recepción.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string, receivedDate *time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE orders SET status = $2, received_date = COALESCE($3, received_date), updated_at = now()
		WHERE id = $1`, id, status, receivedDate)
	return wrapErr("update order status", err)
}

// UpdateReceivedQuantity fija la cantidad recibida acumulada de una línea.
func (r *OrderRepo) UpdateReceivedQuantity(ctx context.Context, orderItemID string, qty int64) error {
	_, err := r.q.Exec(ctx, `UPDATE order_items SET received_quantity = $2 WHERE id = $1`, orderItemID, qty)
	return wrapErr("update received quantity", err)
}

// PaymentRepo implementación de PaymentRepository (append-only, usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, reference_type, reference_id, amount, payment_method, payment_date,
	reference_number, notes, created_by, created_at`

func scanPayment(row pgxScanner) (*entity.Payment, error) {
	var p entity.Payment
	var method, refNumber, notes *string
	if err := row.Scan(&p.ID, &p.ReferenceType, &p.ReferenceID, &p.Amount, &method, &p.PaymentDate,
		&refNumber, &notes, &p.CreatedBy, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Method = emptyIfNull(method)
	p.ReferenceNumber = emptyIfNull(refNumber)
	p.Notes = emptyIfNull(notes)
	return &p, nil
}

// Create persiste el pago.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ReferenceType, p.ReferenceID, p.Amount, nullIfEmpty(p.Method), p.PaymentDate,
		nullIfEmpty(p.ReferenceNumber), nullIfEmpty(p.Notes), p.CreatedBy, p.CreatedAt,
	)
	return wrapErr("insert payment", err)
}

// GetByID obtiene un pago por ID.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get payment", err)
	}
	return p, nil
}

// ListByReference pagos de una orden en orden cronológico.
func (r *PaymentRepo) ListByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE reference_type = $1 AND reference_id = $2
		ORDER BY payment_date, created_at`, referenceType, referenceID)
	if err != nil {
		return nil, wrapErr("list payments", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, wrapErr("scan payment", err)
		}
		list = append(list, p)
	}
	return list, wrapErr("list payments", rows.Err())
}
