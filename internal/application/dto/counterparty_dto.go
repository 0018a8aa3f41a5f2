package dto

import (
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateCounterpartyRequest entrada para crear un cliente o proveedor.
type CreateCounterpartyRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	TaxID       string          `json:"tax_id" validate:"max=50"`
	Phone       string          `json:"phone" validate:"max=30"`
	Email       string          `json:"email" validate:"omitempty,email"`
	Address     string          `json:"address" validate:"max=300"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// UpdateCounterpartyRequest entrada para actualizar un tercero (sin saldo).
type UpdateCounterpartyRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	TaxID       *string          `json:"tax_id" validate:"omitempty,max=50"`
	Phone       *string          `json:"phone" validate:"omitempty,max=30"`
	Email       *string          `json:"email" validate:"omitempty,email"`
	Address     *string          `json:"address" validate:"omitempty,max=300"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
}

// CounterpartyResponse salida de un cliente o proveedor.
type CounterpartyResponse struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	Name           string          `json:"name"`
	TaxID          string          `json:"tax_id"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	Address        string          `json:"address"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CounterpartyListResponse lista paginada de terceros.
type CounterpartyListResponse struct {
	Items []CounterpartyResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// NewCounterpartyResponse mapea la entidad a su respuesta.
func NewCounterpartyResponse(c *entity.Counterparty) CounterpartyResponse {
	return CounterpartyResponse{
		ID:             c.ID,
		Kind:           c.Kind,
		Name:           c.Name,
		TaxID:          c.TaxID,
		Phone:          c.Phone,
		Email:          c.Email,
		Address:        c.Address,
		CreditLimit:    c.CreditLimit,
		CurrentBalance: c.CurrentBalance,
		Active:         c.Active,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
