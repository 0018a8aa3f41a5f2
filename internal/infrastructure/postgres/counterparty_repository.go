package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.CounterpartyRepository = (*CounterpartyRepo)(nil)

// CounterpartyRepo implementación de CounterpartyRepository (usable con pool o tx).
type CounterpartyRepo struct {
	q Querier
}

// NewCounterpartyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCounterpartyRepository(q Querier) *CounterpartyRepo {
	return &CounterpartyRepo{q: q}
}

const counterpartyColumns = `id, kind, name, tax_id, phone, email, address, credit_limit, current_balance,
	active, created_at, updated_at`

func scanCounterparty(row pgxScanner) (*entity.Counterparty, error) {
	var c entity.Counterparty
	var taxID, phone, email, address *string
	if err := row.Scan(&c.ID, &c.Kind, &c.Name, &taxID, &phone, &email, &address, &c.CreditLimit,
		&c.CurrentBalance, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.TaxID = emptyIfNull(taxID)
	c.Phone = emptyIfNull(phone)
	c.Email = emptyIfNull(email)
	c.Address = emptyIfNull(address)
	return &c, nil
}

func (r *CounterpartyRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Counterparty, error) {
	c, err := scanCounterparty(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(op, err)
	}
	return c, nil
}

// Create persiste un nuevo cliente o proveedor.
func (r *CounterpartyRepo) Create(ctx context.Context, c *entity.Counterparty) error {
	query := `
		INSERT INTO counterparties (` + counterpartyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Kind, c.Name, nullIfEmpty(c.TaxID), nullIfEmpty(c.Phone), nullIfEmpty(c.Email),
		nullIfEmpty(c.Address), c.CreditLimit, c.CurrentBalance, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	return wrapErr("insert counterparty", err)
}

// GetByID obtiene un tercero por ID.
func (r *CounterpartyRepo) GetByID(ctx context.Context, id string) (*entity.Counterparty, error) {
	return r.getOne(ctx, "get counterparty", `SELECT `+counterpartyColumns+` FROM counterparties WHERE id = $1`, id)
}

// GetForUpdate obtiene el tercero y bloquea la fila (SELECT FOR UPDATE).
func (r *CounterpartyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Counterparty, error) {
	return r.getOne(ctx, "get counterparty for update", `SELECT `+counterpartyColumns+` FROM counterparties WHERE id = $1 FOR UPDATE`, id)
}

// FindByPhone busca un tercero activo del tipo indicado por teléfono normalizado.
func (r *CounterpartyRepo) FindByPhone(ctx context.Context, kind, phone string) (*entity.Counterparty, error) {
	return r.getOne(ctx, "find counterparty by phone", `
		SELECT `+counterpartyColumns+` FROM counterparties
		WHERE kind = $1 AND phone = $2 AND active
		ORDER BY created_at LIMIT 1`, kind, phone)
}

// Update actualiza los campos editables. No modifica current_balance.
func (r *CounterpartyRepo) Update(ctx context.Context, c *entity.Counterparty) error {
	_, err := r.q.Exec(ctx, `
		UPDATE counterparties
		SET name = $2, tax_id = $3, phone = $4, email = $5, address = $6, credit_limit = $7, updated_at = $8
		WHERE id = $1`,
		c.ID, c.Name, nullIfEmpty(c.TaxID), nullIfEmpty(c.Phone), nullIfEmpty(c.Email),
		nullIfEmpty(c.Address), c.CreditLimit, c.UpdatedAt,
	)
	return wrapErr("update counterparty", err)
}

// SetActive activa o desactiva el tercero.
func (r *CounterpartyRepo) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.q.Exec(ctx, `UPDATE counterparties SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	return wrapErr("set counterparty active", err)
}

// List lista terceros filtrados por tipo y búsqueda por nombre o teléfono.
func (r *CounterpartyRepo) List(ctx context.Context, f repository.CounterpartyFilter) ([]*entity.Counterparty, error) {
	var limit *int
	if f.Limit > 0 {
		limit = &f.Limit
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+counterpartyColumns+` FROM counterparties
		WHERE ($1 = '' OR kind = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR phone LIKE '%' || $2 || '%')
		  AND (NOT $3 OR active)
		ORDER BY name
		LIMIT $4 OFFSET $5`, f.Kind, f.Search, f.ActiveOnly, limit, f.Offset)
	if err != nil {
		return nil, wrapErr("list counterparties", err)
	}
	defer rows.Close()
	var list []*entity.Counterparty
	for rows.Next() {
		c, err := scanCounterparty(rows)
		if err != nil {
			return nil, wrapErr("scan counterparty", err)
		}
		list = append(list, c)
	}
	return list, wrapErr("list counterparties", rows.Err())
}

// AdjustBalance suma delta al saldo corriente en una sola sentencia.
func (r *CounterpartyRepo) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `
		UPDATE counterparties SET current_balance = current_balance + $2, updated_at = now()
		WHERE id = $1`, id, delta)
	return wrapErr("adjust counterparty balance", err)
}
