package redis

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/internal/domain"
)

// KeyLocker candado distribuido por clave de idempotencia (orders.KeyLocker).
// Sin reintentos: si la clave está tomada otra petición la está procesando.
type KeyLocker struct {
	locker *redislock.Client
	log    zerolog.Logger
}

// NewKeyLocker construye el locker sobre un cliente compatible con redislock.
func NewKeyLocker(client redislock.RedisClient, log zerolog.Logger) *KeyLocker {
	return &KeyLocker{locker: redislock.New(client), log: log}
}

// Lock obtiene el candado de key por ttl. domain.ErrConflict si ya está tomado.
func (l *KeyLocker) Lock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	lock, err := l.locker.Obtain(ctx, "lock:"+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, domain.Errorf(domain.ErrConflict, "hay otra petición en curso con la misma clave de idempotencia")
	}
	if err != nil {
		return nil, domain.Storage("redis: obtener candado", err)
	}
	return func() {
		// Contexto propio: el de la petición puede estar cancelado al liberar.
		relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lock.Release(relCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar el candado")
		}
	}, nil
}
