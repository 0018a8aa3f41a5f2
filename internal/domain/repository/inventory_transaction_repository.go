package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// LedgerFilter filtros para consultar el libro de un ítem.
type LedgerFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// InventoryTransactionRepository define el puerto del libro de inventario (append-only).
type InventoryTransactionRepository interface {
	Create(ctx context.Context, tx *entity.InventoryTransaction) error
	ListByItem(ctx context.Context, itemID string, f LedgerFilter) ([]*entity.InventoryTransaction, error)
	ListByReference(ctx context.Context, referenceID string) ([]*entity.InventoryTransaction, error)
	// SumByItem suma de QuantityChange de todas las entradas del ítem.
	SumByItem(ctx context.Context, itemID string) (int64, error)
	// SoldUnitsSince unidades vendidas por ítem desde la fecha indicada.
	SoldUnitsSince(ctx context.Context, since time.Time) (map[string]int64, error)
}
