package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

var tracer = otel.Tracer("github.com/jhoicas/pos-api/internal/infrastructure/postgres")

// NewStore devuelve los repositorios atados a q (pool para lecturas, tx dentro de Run).
func NewStore(q Querier) repository.Store {
	return repository.Store{
		Items:          NewItemRepository(q),
		Ledger:         NewLedgerRepository(q),
		Adjustments:    NewStockAdjustmentRepository(q),
		Orders:         NewOrderRepository(q),
		Payments:       NewPaymentRepository(q),
		Counterparties: NewCounterpartyRepository(q),
		Sequences:      NewSequenceRepository(q),
		Idempotency:    NewIdempotencyRepository(q),
	}
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout > 0 limita la espera por bloqueos de fila
// (la operación falla con ErrConflict en vez de quedarse esperando).
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(store repository.Store) error) (err error) {
	ctx, span := tracer.Start(ctx, "postgres.Tx")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrapErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeout.Milliseconds())); err != nil {
			return wrapErr("set lock_timeout", err)
		}
	}

	if err := fn(NewStore(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

// Ping verifica la conexión (usado por /health).
func (r *TxRunner) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return domain.Storage("ping", err)
	}
	return nil
}
