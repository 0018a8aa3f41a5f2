package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para pagos (append-only).
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	ListByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.Payment, error)
}
