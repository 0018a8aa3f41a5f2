package repository

import "context"

// Store agrupa los repositorios atados a una misma conexión o transacción.
type Store struct {
	Items          ItemRepository
	Ledger         InventoryTransactionRepository
	Adjustments    StockAdjustmentRepository
	Orders         OrderRepository
	Payments       PaymentRepository
	Counterparties CounterpartyRepository
	Sequences      SequenceRepository
	Idempotency    IdempotencyRepository
}

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error se hace Rollback de todo; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(store Store) error) error
}
