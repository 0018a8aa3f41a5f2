package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var (
	_ repository.InventoryTransactionRepository = (*LedgerRepo)(nil)
	_ repository.StockAdjustmentRepository      = (*StockAdjustmentRepo)(nil)
)

// LedgerRepo implementación del libro de inventario (append-only, usable con pool o tx).
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, item_id, transaction_type, reference_id, quantity_change, unit_cost, created_by, created_at`

func scanLedgerEntry(row pgxScanner) (*entity.InventoryTransaction, error) {
	var t entity.InventoryTransaction
	if err := row.Scan(&t.ID, &t.ItemID, &t.Type, &t.ReferenceID, &t.QuantityChange, &t.UnitCost, &t.CreatedBy, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserta una entrada en el libro.
func (r *LedgerRepo) Create(ctx context.Context, t *entity.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.ItemID, t.Type, t.ReferenceID, t.QuantityChange, t.UnitCost, t.CreatedBy, t.CreatedAt,
	)
	return wrapErr("insert inventory transaction", err)
}

func (r *LedgerRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.InventoryTransaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()
	var list []*entity.InventoryTransaction
	for rows.Next() {
		t, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, wrapErr("scan inventory transaction", err)
		}
		list = append(list, t)
	}
	return list, wrapErr(op, rows.Err())
}

// ListByItem entradas de un ítem en orden de registro, con rango de fechas opcional.
func (r *LedgerRepo) ListByItem(ctx context.Context, itemID string, f repository.LedgerFilter) ([]*entity.InventoryTransaction, error) {
	query := `
		SELECT ` + ledgerColumns + ` FROM inventory_transactions
		WHERE item_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY seq
		LIMIT $4 OFFSET $5`
	var limit *int
	if f.Limit > 0 {
		limit = &f.Limit
	}
	return r.list(ctx, "list inventory transactions", query, itemID, f.From, f.To, limit, f.Offset)
}

// ListByReference entradas generadas por una orden o un ajuste.
func (r *LedgerRepo) ListByReference(ctx context.Context, referenceID string) ([]*entity.InventoryTransaction, error) {
	return r.list(ctx, "list inventory transactions by reference",
		`SELECT `+ledgerColumns+` FROM inventory_transactions WHERE reference_id = $1 ORDER BY seq`, referenceID)
}

// SumByItem suma de quantity_change del ítem.
func (r *LedgerRepo) SumByItem(ctx context.Context, itemID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity_change), 0)::bigint FROM inventory_transactions WHERE item_id = $1`, itemID,
	).Scan(&sum)
	return sum, wrapErr("sum inventory transactions", err)
}

// SoldUnitsSince unidades vendidas por ítem desde la fecha indicada.
func (r *LedgerRepo) SoldUnitsSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT item_id, COALESCE(SUM(-quantity_change), 0)::bigint
		FROM inventory_transactions
		WHERE transaction_type = $1 AND created_at >= $2
		GROUP BY item_id`, entity.TransactionTypeSale, since)
	if err != nil {
		return nil, wrapErr("sold units", err)
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var id string
		var units int64
		if err := rows.Scan(&id, &units); err != nil {
			return nil, wrapErr("scan sold units", err)
		}
		out[id] = units
	}
	return out, wrapErr("sold units", rows.Err())
}

// StockAdjustmentRepo implementación de StockAdjustmentRepository (usable con pool o tx).
type StockAdjustmentRepo struct {
	q Querier
}

// NewStockAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAdjustmentRepository(q Querier) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{q: q}
}

const adjustmentColumns = `id, item_id, adjustment_type, quantity_before, quantity_after, quantity_change,
	reason, transaction_id, created_by, created_at`

func scanAdjustment(row pgxScanner) (*entity.StockAdjustment, error) {
	var a entity.StockAdjustment
	var reason *string
	if err := row.Scan(&a.ID, &a.ItemID, &a.Type, &a.QuantityBefore, &a.QuantityAfter, &a.QuantityChange,
		&reason, &a.TransactionID, &a.CreatedBy, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Reason = emptyIfNull(reason)
	return &a, nil
}

// Create persiste el ajuste.
func (r *StockAdjustmentRepo) Create(ctx context.Context, a *entity.StockAdjustment) error {
	query := `
		INSERT INTO stock_adjustments (` + adjustmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.ItemID, a.Type, a.QuantityBefore, a.QuantityAfter, a.QuantityChange,
		nullIfEmpty(a.Reason), a.TransactionID, a.CreatedBy, a.CreatedAt,
	)
	return wrapErr("insert stock adjustment", err)
}

// GetByID obtiene un ajuste por ID.
func (r *StockAdjustmentRepo) GetByID(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	a, err := scanAdjustment(r.q.QueryRow(ctx, `SELECT `+adjustmentColumns+` FROM stock_adjustments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get stock adjustment", err)
	}
	return a, nil
}

// ListByItem ajustes de un ítem, más recientes primero.
func (r *StockAdjustmentRepo) ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+adjustmentColumns+` FROM stock_adjustments
		WHERE item_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, itemID, limit, offset)
	if err != nil {
		return nil, wrapErr("list stock adjustments", err)
	}
	defer rows.Close()
	var list []*entity.StockAdjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, wrapErr("scan stock adjustment", err)
		}
		list = append(list, a)
	}
	return list, wrapErr("list stock adjustments", rows.Err())
}
