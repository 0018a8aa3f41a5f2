package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-api/internal/domain"
)

func TestErrorf_EsDelTipoIndicado(t *testing.T) {
	err := domain.Errorf(domain.ErrNotFound, "ítem %s", "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "ítem abc")
	assert.True(t, domain.IsDomain(err))
}

func TestInsufficientStockError_NombraElItem(t *testing.T) {
	var err error = &domain.InsufficientStockError{ItemID: "i1", ItemName: "Café", Available: 5, Requested: 10}
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Café")

	var ise *domain.InsufficientStockError
	wrapped := fmt.Errorf("crear orden: %w", err)
	assert.True(t, errors.As(wrapped, &ise))
	assert.Equal(t, int64(5), ise.Available)
}

func TestValidationError_EsErrInvalidInput(t *testing.T) {
	err := domain.NewValidationError("items vacío")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "items vacío")
}

func TestStorage_EnvuelveSoloErroresDeInfraestructura(t *testing.T) {
	cause := errors.New("connection reset")
	err := domain.Storage("crear orden", cause)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.False(t, domain.IsDomain(err))

	dup := domain.Errorf(domain.ErrDuplicate, "sku")
	assert.Same(t, dup, domain.Storage("crear ítem", dup))
	assert.Nil(t, domain.Storage("x", nil))
}
