package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// LedgerEntry datos de un movimiento a registrar.
type LedgerEntry struct {
	ItemID         string
	Type           string // sale|purchase|adjustment
	ReferenceID    string
	QuantityChange int64
	UnitCost       *decimal.Decimal
	Actor          string
}

// LedgerWriter único camino por el que cambia el stock: ajusta el ítem y agrega la entrada al libro.
type LedgerWriter struct {
	now func() time.Time
}

// NewLedgerWriter construye el escritor del libro.
func NewLedgerWriter() *LedgerWriter {
	return &LedgerWriter{now: time.Now}
}

// RecordTransaction aplica QuantityChange al stock del ítem y agrega la entrada al libro.
// store debe estar atado a la transacción del caller: si cualquiera de los dos pasos falla,
// el caller devuelve el error y TxRunner revierte ambos.
func (w *LedgerWriter) RecordTransaction(ctx context.Context, store repository.Store, e LedgerEntry) (*entity.InventoryTransaction, error) {
	if e.ItemID == "" || e.ReferenceID == "" {
		return nil, domain.NewValidationError("item_id y reference_id son requeridos")
	}
	if !entity.ValidTransactionType(e.Type) {
		return nil, domain.NewValidationError("tipo de movimiento inválido: %q", e.Type)
	}
	if _, err := adjustStock(ctx, store.Items, e.ItemID, e.QuantityChange); err != nil {
		return nil, err
	}
	tx := &entity.InventoryTransaction{
		ID:             uuid.New().String(),
		ItemID:         e.ItemID,
		Type:           e.Type,
		ReferenceID:    e.ReferenceID,
		QuantityChange: e.QuantityChange,
		UnitCost:       e.UnitCost,
		CreatedBy:      e.Actor,
		CreatedAt:      w.now(),
	}
	if err := store.Ledger.Create(ctx, tx); err != nil {
		return nil, domain.Storage("registrar movimiento", err)
	}
	return tx, nil
}
