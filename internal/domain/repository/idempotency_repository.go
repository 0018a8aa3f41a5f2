package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// IdempotencyRepository guarda claves de idempotencia. Create devuelve domain.ErrDuplicate
// si la clave ya existe en el ámbito.
type IdempotencyRepository interface {
	Create(ctx context.Context, rec *entity.IdempotencyRecord) error
	Get(ctx context.Context, scope, key string) (*entity.IdempotencyRecord, error)
}
