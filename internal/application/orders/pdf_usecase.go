package orders

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// PDFUseCase genera el comprobante PDF de una orden de venta o compra.
type PDFUseCase struct {
	orders         repository.OrderRepository
	payments       repository.PaymentRepository
	items          repository.ItemRepository
	counterparties repository.CounterpartyRepository
	generator      OrderPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	items repository.ItemRepository,
	counterparties repository.CounterpartyRepository,
	generator OrderPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		orders:         orders,
		payments:       payments,
		items:          items,
		counterparties: counterparties,
		generator:      generator,
	}
}

// DownloadOrderPDF carga la orden con sus líneas, pagos y tercero y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la orden no existe o es de otro tipo.
func (uc *PDFUseCase) DownloadOrderPDF(ctx context.Context, orderType, orderID string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar orden ───────────────────────────────────────────────────────
	o, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", domain.Storage("pdf: obtener orden", err)
	}
	if o == nil || o.Type != orderType {
		return nil, "", domain.Errorf(domain.ErrNotFound, "orden %s", orderID)
	}

	// ── 2. Tercero (opcional en ventas) ──────────────────────────────────────
	cp, err := uc.counterpartyOf(ctx, o.CounterpartyID)
	if err != nil {
		return nil, "", err
	}

	// ── 3. Líneas enriquecidas con nombre y SKU del ítem ─────────────────────
	rawItems, err := uc.orders.ListItems(ctx, orderID)
	if err != nil {
		return nil, "", domain.Storage("pdf: obtener líneas", err)
	}
	lines := make([]OrderLineForPDF, 0, len(rawItems))
	for _, it := range rawItems {
		name, sku := "Ítem "+it.ItemID, ""
		if item, iErr := uc.items.GetByID(ctx, it.ItemID); iErr == nil && item != nil {
			name, sku = item.Name, item.SKU
		}
		lines = append(lines, OrderLineForPDF{OrderItem: *it, ItemName: name, SKU: sku})
	}

	// ── 4. Pagos ──────────────────────────────────────────────────────────────
	payments, err := uc.payments.ListByReference(ctx, o.Type, orderID)
	if err != nil {
		return nil, "", domain.Storage("pdf: obtener pagos", err)
	}

	// ── 5. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateOrderPDF(ctx, o, cp, lines, payments)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("orden_%s.pdf", o.OrderNumber), nil
}

func (uc *PDFUseCase) counterpartyOf(ctx context.Context, id *string) (*entity.Counterparty, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	cp, err := uc.counterparties.GetByID(ctx, *id)
	if err != nil {
		return nil, domain.Storage("pdf: obtener tercero", err)
	}
	return cp, nil
}
