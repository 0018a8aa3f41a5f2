package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CounterpartyFilter filtros para listar clientes o proveedores.
type CounterpartyFilter struct {
	Kind       string
	Search     string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// CounterpartyRepository define el puerto de persistencia para clientes y proveedores.
type CounterpartyRepository interface {
	Create(ctx context.Context, c *entity.Counterparty) error
	GetByID(ctx context.Context, id string) (*entity.Counterparty, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Counterparty, error)
	FindByPhone(ctx context.Context, kind, phone string) (*entity.Counterparty, error)
	// Update persiste los campos editables; nunca escribe current_balance.
	Update(ctx context.Context, c *entity.Counterparty) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, f CounterpartyFilter) ([]*entity.Counterparty, error)
	// AdjustBalance suma delta (con signo) al saldo corriente.
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error
}
