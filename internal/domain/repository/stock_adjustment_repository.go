package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// StockAdjustmentRepository define el puerto de persistencia para ajustes manuales.
type StockAdjustmentRepository interface {
	Create(ctx context.Context, adj *entity.StockAdjustment) error
	GetByID(ctx context.Context, id string) (*entity.StockAdjustment, error)
	ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.StockAdjustment, error)
}
