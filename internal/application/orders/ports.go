package orders

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// NumberGenerator produce números de orden únicos y legibles por tipo (ej. SO-000042).
// store es el de la transacción en curso, para generadores respaldados por la misma BD.
type NumberGenerator interface {
	Next(ctx context.Context, store repository.Store, orderType string) (string, error)
}

// KeyLocker evita que dos peticiones con la misma clave de idempotencia se procesen a la vez.
// Lock devuelve domain.ErrConflict si la clave ya está tomada.
type KeyLocker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// OrderLineForPDF línea de la orden enriquecida con datos del ítem.
type OrderLineForPDF struct {
	entity.OrderItem
	ItemName string
	SKU      string
}

// OrderPDFGenerator genera el comprobante PDF de una orden.
type OrderPDFGenerator interface {
	GenerateOrderPDF(
		ctx context.Context,
		order *entity.Order,
		counterparty *entity.Counterparty,
		lines []OrderLineForPDF,
		payments []*entity.Payment,
	) ([]byte, error)
}
