package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ItemFilter filtros para listar ítems.
type ItemFilter struct {
	Search     string // nombre o SKU
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ItemRepository define el puerto de persistencia para Item.
// Los Get* devuelven (nil, nil) si el ítem no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	// Update persiste los campos editables; nunca escribe current_stock.
	Update(ctx context.Context, item *entity.Item) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, f ItemFilter) ([]*entity.Item, error)
	ListBelowReorderLevel(ctx context.Context) ([]*entity.Item, error)

	// GetForUpdate lee el ítem con bloqueo de escritura (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	// LockForUpdate bloquea varios ítems en orden ascendente de id.
	// Los ids inexistentes no aparecen en el mapa resultante.
	LockForUpdate(ctx context.Context, ids []string) (map[string]*entity.Item, error)
	UpdateStock(ctx context.Context, id string, stock int64) error
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
}
