package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// AdjustmentUseCase ajustes manuales de stock (increase, decrease, correction) sobre el LedgerWriter.
// El ajuste y su entrada de libro se confirman juntos o ninguno.
type AdjustmentUseCase struct {
	txRunner    repository.TxRunner
	ledger      *LedgerWriter
	adjustments repository.StockAdjustmentRepository
	now         func() time.Time
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(txRunner repository.TxRunner, ledger *LedgerWriter, adjustments repository.StockAdjustmentRepository) *AdjustmentUseCase {
	return &AdjustmentUseCase{
		txRunner:    txRunner,
		ledger:      ledger,
		adjustments: adjustments,
		now:         time.Now,
	}
}

// AdjustInput entrada de un ajuste. En correction, Quantity es el stock objetivo.
type AdjustInput struct {
	ItemID   string
	Type     string
	Quantity int64
	Reason   string
	Actor    string
}

func validateAdjust(in AdjustInput) error {
	if in.ItemID == "" {
		return domain.NewValidationError("item_id requerido")
	}
	switch in.Type {
	case entity.AdjustmentIncrease, entity.AdjustmentDecrease:
		if in.Quantity < 1 {
			return domain.NewValidationError("la cantidad debe ser al menos 1")
		}
	case entity.AdjustmentCorrection:
		if in.Quantity < 0 {
			return domain.NewValidationError("el stock objetivo no puede ser negativo")
		}
	default:
		return domain.NewValidationError("tipo de ajuste inválido: %q", in.Type)
	}
	return nil
}

// Adjust abre una transacción y aplica el ajuste.
func (uc *AdjustmentUseCase) Adjust(ctx context.Context, in AdjustInput) (*entity.StockAdjustment, error) {
	if err := validateAdjust(in); err != nil {
		return nil, err
	}
	var out *entity.StockAdjustment
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		adj, err := uc.AdjustInTx(ctx, store, in)
		if err != nil {
			return err
		}
		out = adj
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AdjustInTx aplica el ajuste con los repositorios de la transacción del caller
// (ej. stock inicial al crear un ítem).
func (uc *AdjustmentUseCase) AdjustInTx(ctx context.Context, store repository.Store, in AdjustInput) (*entity.StockAdjustment, error) {
	if err := validateAdjust(in); err != nil {
		return nil, err
	}
	// Bloquea la fila para que before/after sean consistentes con el delta aplicado
	item, err := store.Items.GetForUpdate(ctx, in.ItemID)
	if err != nil {
		return nil, domain.Storage("bloquear ítem", err)
	}
	if item == nil || !item.Active {
		return nil, domain.Errorf(domain.ErrNotFound, "ítem %s", in.ItemID)
	}

	var delta int64
	switch in.Type {
	case entity.AdjustmentIncrease:
		delta = in.Quantity
	case entity.AdjustmentDecrease:
		if in.Quantity > item.CurrentStock {
			return nil, domain.Errorf(domain.ErrInvalidAdjustment,
				"no se pueden descontar %d unidades de %q: stock actual %d", in.Quantity, item.Name, item.CurrentStock)
		}
		delta = -in.Quantity
	case entity.AdjustmentCorrection:
		delta = in.Quantity - item.CurrentStock
	}

	adjID := uuid.New().String()
	tx, err := uc.ledger.RecordTransaction(ctx, store, LedgerEntry{
		ItemID:         in.ItemID,
		Type:           entity.TransactionTypeAdjustment,
		ReferenceID:    adjID,
		QuantityChange: delta,
		Actor:          in.Actor,
	})
	if err != nil {
		return nil, err
	}
	adj := &entity.StockAdjustment{
		ID:             adjID,
		ItemID:         in.ItemID,
		Type:           in.Type,
		QuantityBefore: item.CurrentStock,
		QuantityAfter:  item.CurrentStock + delta,
		QuantityChange: delta,
		Reason:         in.Reason,
		TransactionID:  tx.ID,
		CreatedBy:      in.Actor,
		CreatedAt:      uc.now(),
	}
	if err := store.Adjustments.Create(ctx, adj); err != nil {
		return nil, domain.Storage("guardar ajuste", err)
	}
	return adj, nil
}

// ListByItem ajustes de un ítem, más recientes primero.
func (uc *AdjustmentUseCase) ListByItem(ctx context.Context, itemID string, page dto.PageRequest) ([]dto.StockAdjustmentResponse, error) {
	if itemID == "" {
		return nil, domain.NewValidationError("item_id requerido")
	}
	page.DefaultPage()
	list, err := uc.adjustments.ListByItem(ctx, itemID, page.Limit, page.Offset)
	if err != nil {
		return nil, domain.Storage("listar ajustes", err)
	}
	out := make([]dto.StockAdjustmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.NewStockAdjustmentResponse(a))
	}
	return out, nil
}
