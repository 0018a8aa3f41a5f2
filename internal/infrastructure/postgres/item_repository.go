package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, sku, name, unit, current_stock, min_stock, max_stock, reorder_level,
	cost_price, selling_price, tax_rate, active, created_at, updated_at`

func scanItem(row pgxScanner) (*entity.Item, error) {
	var i entity.Item
	err := row.Scan(
		&i.ID, &i.SKU, &i.Name, &i.Unit, &i.CurrentStock, &i.MinStock, &i.MaxStock, &i.ReorderLevel,
		&i.CostPrice, &i.SellingPrice, &i.TaxRate, &i.Active, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *ItemRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(op, err)
	}
	return item, nil
}

func (r *ItemRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, wrapErr("scan item", err)
		}
		list = append(list, item)
	}
	return list, wrapErr(op, rows.Err())
}

// Create persiste un nuevo ítem.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.SKU, item.Name, item.Unit, item.CurrentStock, item.MinStock, item.MaxStock,
		item.ReorderLevel, item.CostPrice, item.SellingPrice, item.TaxRate, item.Active,
		item.CreatedAt, item.UpdatedAt,
	)
	return wrapErr("insert item", err)
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, "get item", `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetBySKU obtiene un ítem por SKU.
func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	return r.getOne(ctx, "get item by sku", `SELECT `+itemColumns+` FROM items WHERE sku = $1`, sku)
}

// GetForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, "get item for update", `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

// LockForUpdate bloquea varios ítems en orden ascendente de id para evitar deadlocks
// entre órdenes concurrentes con los mismos ítems.
func (r *ItemRepo) LockForUpdate(ctx context.Context, ids []string) (map[string]*entity.Item, error) {
	out := make(map[string]*entity.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := r.list(ctx, "lock items",
		`SELECT `+itemColumns+` FROM items WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range list {
		out[it.ID] = it
	}
	return out, nil
}

// Update actualiza los campos editables. No modifica current_stock (se maneja vía libro).
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, unit = $3, min_stock = $4, max_stock = $5, reorder_level = $6,
		       cost_price = $7, selling_price = $8, tax_rate = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Unit, item.MinStock, item.MaxStock, item.ReorderLevel,
		item.CostPrice, item.SellingPrice, item.TaxRate, item.UpdatedAt,
	)
	return wrapErr("update item", err)
}

// SetActive activa o desactiva el ítem.
func (r *ItemRepo) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.q.Exec(ctx, `UPDATE items SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	return wrapErr("set item active", err)
}

// UpdateStock fija el stock del ítem (solo lo invoca el escritor del libro).
func (r *ItemRepo) UpdateStock(ctx context.Context, id string, stock int64) error {
	_, err := r.q.Exec(ctx, `UPDATE items SET current_stock = $2, updated_at = now() WHERE id = $1`, id, stock)
	return wrapErr("update item stock", err)
}

// UpdateCost actualiza solo el costo promedio (usado al recibir compras).
func (r *ItemRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE items SET cost_price = $2, updated_at = now() WHERE id = $1`, id, cost)
	return wrapErr("update item cost", err)
}

// List lista ítems con búsqueda por nombre o SKU y paginación.
func (r *ItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + ` FROM items
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR sku ILIKE '%' || $1 || '%')
		  AND (NOT $2 OR active)
		ORDER BY name
		LIMIT $3 OFFSET $4`
	limit := f.Limit
	if limit <= 0 {
		limit = 1000
	}
	return r.list(ctx, "list items", query, f.Search, f.ActiveOnly, limit, f.Offset)
}

// ListBelowReorderLevel ítems activos con stock en o por debajo del punto de reorden.
func (r *ItemRepo) ListBelowReorderLevel(ctx context.Context) ([]*entity.Item, error) {
	return r.list(ctx, "list items below reorder",
		`SELECT `+itemColumns+` FROM items WHERE active AND current_stock <= reorder_level ORDER BY id`)
}
