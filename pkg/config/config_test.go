package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, NumberBackendDB, cfg.Orders.NumberBackend)
	assert.Equal(t, "SO", cfg.Orders.SalePrefix)
	assert.Equal(t, "PO", cfg.Orders.PurchasePrefix)
	assert.Equal(t, 6, cfg.Orders.NumberWidth)
	assert.Equal(t, "CO", cfg.Orders.PhoneRegion)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "MEMORY")
	v.Set("DB_MAX_CONNS", "8")
	v.Set("DB_LOCK_TIMEOUT", "250ms")
	v.Set("IDEMPOTENCY_LOCK_TTL", "1500")
	v.Set("REDIS_ADDR", "localhost:6379")
	v.Set("ORDER_NUMBER_BACKEND", "redis")
	v.Set("PHONE_DEFAULT_REGION", "mx")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, int32(8), cfg.DB.MaxConns)
	assert.Equal(t, 250*time.Millisecond, cfg.DB.LockTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.Orders.IdempotencyLockTTL)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, NumberBackendRedis, cfg.Orders.NumberBackend)
	assert.Equal(t, "MX", cfg.Orders.PhoneRegion)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"driver desconocido", "STORAGE_DRIVER", "mongo"},
		{"redis sin dirección", "ORDER_NUMBER_BACKEND", "redis"},
		{"backend desconocido", "ORDER_NUMBER_BACKEND", "uuid"},
		{"ancho cero", "ORDER_NUMBER_WIDTH", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)
			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss:w", DBName: "pos", SSLMode: "disable"}
	assert.Equal(t, "postgres://pos:p%40ss%3Aw@db:5432/pos?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
