package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var (
	_ repository.SequenceRepository    = (*SequenceRepo)(nil)
	_ repository.IdempotencyRepository = (*IdempotencyRepo)(nil)
)

// SequenceRepo contador por nombre en la tabla order_sequences. El UPSERT bloquea la fila
// hasta el fin de la transacción, así que dos órdenes concurrentes nunca comparten número.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el contador.
func (r *SequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO order_sequences (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = order_sequences.value + 1
		RETURNING value`, name).Scan(&n)
	return n, wrapErr("next sequence", err)
}

// IdempotencyRepo claves de idempotencia (PK scope+key).
type IdempotencyRepo struct {
	q Querier
}

// NewIdempotencyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIdempotencyRepository(q Querier) *IdempotencyRepo {
	return &IdempotencyRepo{q: q}
}

// Create registra la clave; si ya existe devuelve domain.ErrDuplicate.
func (r *IdempotencyRepo) Create(ctx context.Context, rec *entity.IdempotencyRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO idempotency_keys (scope, key, fingerprint, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`, rec.Scope, rec.Key, rec.Fingerprint, rec.ReferenceID, rec.CreatedAt)
	return wrapErr("insert idempotency key", err)
}

// Get obtiene la clave o (nil, nil).
func (r *IdempotencyRepo) Get(ctx context.Context, scope, key string) (*entity.IdempotencyRecord, error) {
	var rec entity.IdempotencyRecord
	err := r.q.QueryRow(ctx, `
		SELECT scope, key, fingerprint, reference_id, created_at
		FROM idempotency_keys WHERE scope = $1 AND key = $2`, scope, key,
	).Scan(&rec.Scope, &rec.Key, &rec.Fingerprint, &rec.ReferenceID, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get idempotency key", err)
	}
	return &rec, nil
}
