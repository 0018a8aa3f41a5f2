package inventory

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// Registry registro autoritativo de ítems. Expone lecturas; el stock solo se modifica
// mediante adjustStock, que únicamente invoca LedgerWriter.
type Registry struct {
	items repository.ItemRepository
}

// NewRegistry construye el registro de ítems.
func NewRegistry(items repository.ItemRepository) *Registry {
	return &Registry{items: items}
}

// GetItem devuelve el ítem o ErrNotFound.
func (r *Registry) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	if id == "" {
		return nil, domain.NewValidationError("id de ítem requerido")
	}
	item, err := r.items.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("obtener ítem", err)
	}
	if item == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "ítem %s", id)
	}
	return item, nil
}

// adjustStock bloquea la fila del ítem y le suma delta.
// Falla con ErrNotFound si el ítem no existe o está inactivo y con InsufficientStockError
// si el resultado quedaría por debajo de cero.
func adjustStock(ctx context.Context, items repository.ItemRepository, id string, delta int64) (*entity.Item, error) {
	item, err := items.GetForUpdate(ctx, id)
	if err != nil {
		return nil, domain.Storage("bloquear ítem", err)
	}
	if item == nil || !item.Active {
		return nil, domain.Errorf(domain.ErrNotFound, "ítem %s", id)
	}
	next := item.CurrentStock + delta
	if next < 0 {
		return nil, &domain.InsufficientStockError{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Available: item.CurrentStock,
			Requested: -delta,
		}
	}
	if err := items.UpdateStock(ctx, id, next); err != nil {
		return nil, domain.Storage("actualizar stock", err)
	}
	item.CurrentStock = next
	return item, nil
}
