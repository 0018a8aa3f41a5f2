package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-api/internal/application/orders"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// Incrementer subconjunto de *redis.Client usado por el generador.
type Incrementer interface {
	Incr(ctx context.Context, key string) *goredis.IntCmd
}

// NumberGenerator numera órdenes con INCR. El contador vive fuera de la transacción:
// una orden revertida deja un hueco en la numeración.
type NumberGenerator struct {
	client Incrementer
	format orders.NumberFormat
}

// NewNumberGenerator construye el generador con el formato dado.
func NewNumberGenerator(client Incrementer, format orders.NumberFormat) *NumberGenerator {
	return &NumberGenerator{client: client, format: format}
}

// Next implementa orders.NumberGenerator; ignora el store de la transacción.
func (g *NumberGenerator) Next(ctx context.Context, _ repository.Store, orderType string) (string, error) {
	n, err := g.client.Incr(ctx, orders.SequenceName(orderType)).Result()
	if err != nil {
		return "", domain.Storage("redis: número de orden", err)
	}
	return g.format.Format(orderType, n), nil
}
