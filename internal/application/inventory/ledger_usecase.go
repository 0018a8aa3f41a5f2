package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// LedgerUseCase lecturas del libro de inventario: consulta, conciliación y exportación.
type LedgerUseCase struct {
	txRunner repository.TxRunner
	registry *Registry
	ledger   repository.InventoryTransactionRepository
	exporter LedgerExporter
}

// NewLedgerUseCase construye el caso de uso. exporter puede ser nil (exportación deshabilitada).
func NewLedgerUseCase(txRunner repository.TxRunner, registry *Registry, ledger repository.InventoryTransactionRepository, exporter LedgerExporter) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, registry: registry, ledger: ledger, exporter: exporter}
}

// ListByItem entradas del libro de un ítem en orden de registro.
func (uc *LedgerUseCase) ListByItem(ctx context.Context, itemID string, from, to *time.Time, page dto.PageRequest) (*dto.LedgerListResponse, error) {
	if _, err := uc.registry.GetItem(ctx, itemID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.ledger.ListByItem(ctx, itemID, repository.LedgerFilter{From: from, To: to, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, domain.Storage("listar libro", err)
	}
	out := &dto.LedgerListResponse{
		Items: make([]dto.LedgerEntryResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, t := range list {
		out.Items = append(out.Items, dto.NewLedgerEntryResponse(t))
	}
	return out, nil
}

// ListByReference entradas del libro generadas por una orden o un ajuste.
func (uc *LedgerUseCase) ListByReference(ctx context.Context, referenceID string) ([]dto.LedgerEntryResponse, error) {
	list, err := uc.ledger.ListByReference(ctx, referenceID)
	if err != nil {
		return nil, domain.Storage("listar libro", err)
	}
	out := make([]dto.LedgerEntryResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.NewLedgerEntryResponse(t))
	}
	return out, nil
}

// Reconcile compara current_stock con la suma del libro. Los ítems nacen con stock 0,
// por lo que la línea base es 0. Se lee bajo bloqueo de la fila del ítem.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, itemID string) (*dto.ReconciliationResponse, error) {
	if itemID == "" {
		return nil, domain.NewValidationError("item_id requerido")
	}
	var out *dto.ReconciliationResponse
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		item, err := store.Items.GetForUpdate(ctx, itemID)
		if err != nil {
			return domain.Storage("bloquear ítem", err)
		}
		if item == nil {
			return domain.Errorf(domain.ErrNotFound, "ítem %s", itemID)
		}
		sum, err := store.Ledger.SumByItem(ctx, itemID)
		if err != nil {
			return domain.Storage("sumar libro", err)
		}
		out = &dto.ReconciliationResponse{
			ItemID:        itemID,
			CurrentStock:  item.CurrentStock,
			BaselineStock: 0,
			LedgerSum:     sum,
			Consistent:    item.CurrentStock == sum,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Export genera el archivo del libro de un ítem y su nombre sugerido.
func (uc *LedgerUseCase) Export(ctx context.Context, itemID string, from, to *time.Time) ([]byte, string, error) {
	if uc.exporter == nil {
		return nil, "", fmt.Errorf("exportación no configurada")
	}
	item, err := uc.registry.GetItem(ctx, itemID)
	if err != nil {
		return nil, "", err
	}
	list, err := uc.ledger.ListByItem(ctx, itemID, repository.LedgerFilter{From: from, To: to})
	if err != nil {
		return nil, "", domain.Storage("listar libro", err)
	}
	data, err := uc.exporter.ExportLedger(item, list)
	if err != nil {
		return nil, "", fmt.Errorf("exportar libro: %w", err)
	}
	return data, fmt.Sprintf("libro_%s.xlsx", item.SKU), nil
}

