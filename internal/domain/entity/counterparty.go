package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de tercero.
const (
	CounterpartyCustomer = "customer"
	CounterpartySupplier = "supplier"
)

// Counterparty cliente o proveedor con saldo corriente.
// CurrentBalance es lo adeudado y solo cambia al crear órdenes o registrar pagos.
type Counterparty struct {
	ID             string
	Kind           string
	Name           string
	TaxID          string
	Phone          string // E.164 cuando se pudo normalizar
	Email          string
	Address        string
	CreditLimit    decimal.Decimal // 0 = sin límite
	CurrentBalance decimal.Decimal
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CounterpartyUpdate comando de actualización (nunca CurrentBalance).
type CounterpartyUpdate struct {
	Name        *string
	TaxID       *string
	Phone       *string
	Email       *string
	Address     *string
	CreditLimit *decimal.Decimal
}

// Apply aplica los campos presentes sobre el tercero.
func (u CounterpartyUpdate) Apply(c *Counterparty) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.TaxID != nil {
		c.TaxID = *u.TaxID
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.Address != nil {
		c.Address = *u.Address
	}
	if u.CreditLimit != nil {
		c.CreditLimit = *u.CreditLimit
	}
}

// ExceedsCreditLimit indica si sumar delta al saldo superaría el límite de crédito.
func (c *Counterparty) ExceedsCreditLimit(delta decimal.Decimal) bool {
	if !c.CreditLimit.IsPositive() {
		return false
	}
	return c.CurrentBalance.Add(delta).GreaterThan(c.CreditLimit)
}
