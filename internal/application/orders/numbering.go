package orders

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// NumberFormat formato de número de orden: <prefijo>-<contador con ceros a la izquierda>.
type NumberFormat struct {
	SalePrefix     string
	PurchasePrefix string
	Width          int
}

// DefaultNumberFormat SO-000001 / PO-000001.
func DefaultNumberFormat() NumberFormat {
	return NumberFormat{SalePrefix: "SO", PurchasePrefix: "PO", Width: 6}
}

// Format arma el número de orden para el tipo y contador dados.
func (f NumberFormat) Format(orderType string, n int64) string {
	prefix := f.SalePrefix
	if orderType == entity.OrderTypePurchase {
		prefix = f.PurchasePrefix
	}
	return fmt.Sprintf("%s-%0*d", prefix, f.Width, n)
}

// SequenceName nombre del contador por tipo de orden.
func SequenceName(orderType string) string {
	return "order:" + orderType
}

// SequenceNumberGenerator usa el contador de la BD dentro de la transacción de la orden:
// si la orden se revierte, el número no se consume.
type SequenceNumberGenerator struct {
	format NumberFormat
}

// NewSequenceNumberGenerator construye el generador.
func NewSequenceNumberGenerator(format NumberFormat) *SequenceNumberGenerator {
	return &SequenceNumberGenerator{format: format}
}

// Next incrementa el contador del tipo y devuelve el número formateado.
func (g *SequenceNumberGenerator) Next(ctx context.Context, store repository.Store, orderType string) (string, error) {
	n, err := store.Sequences.Next(ctx, SequenceName(orderType))
	if err != nil {
		return "", domain.Storage("número de orden", err)
	}
	return g.format.Format(orderType, n), nil
}
