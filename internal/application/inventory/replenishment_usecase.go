package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReplenishmentUseCase genera la lista de reposición: ítems activos en o bajo su punto de reorden,
// priorizados por margen y volumen de ventas reciente.
type ReplenishmentUseCase struct {
	items  repository.ItemRepository
	ledger repository.InventoryTransactionRepository
	now    func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(items repository.ItemRepository, ledger repository.InventoryTransactionRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{items: items, ledger: ledger, now: time.Now}
}

// GenerateReplenishmentList devuelve los ítems bajo punto de reorden con la cantidad sugerida
// de pedido y un ranking de prioridad.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Ítems en o bajo el punto de reorden
	rawItems, err := uc.items.ListBelowReorderLevel(ctx)
	if err != nil {
		return nil, domain.Storage("listar ítems bajo reorden", err)
	}
	if len(rawItems) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Unidades vendidas en los últimos 90 días según el libro
	sold, err := uc.ledger.SoldUnitsSince(ctx, uc.now().AddDate(0, 0, -90))
	if err != nil {
		return nil, domain.Storage("ventas recientes", err)
	}

	hundred := decimal.NewFromInt(100)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(rawItems))
	for _, item := range rawItems {
		ideal := item.MaxStock
		if ideal <= 0 {
			ideal = (item.ReorderLevel*3 + 1) / 2 // ceil(reorder * 1.5)
		}
		suggested := ideal - item.CurrentStock
		if suggested < 0 {
			suggested = 0
		}
		var margin decimal.Decimal
		if item.SellingPrice.IsPositive() {
			margin = item.SellingPrice.Sub(item.CostPrice).Div(item.SellingPrice).Mul(hundred).Round(2)
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ItemID:              item.ID,
			SKU:                 item.SKU,
			ItemName:            item.Name,
			CurrentStock:        item.CurrentStock,
			ReorderLevel:        item.ReorderLevel,
			IdealStock:          ideal,
			SuggestedOrderQty:   suggested,
			UnitCost:            item.CostPrice,
			EstimatedOrderCost:  decimal.NewFromInt(suggested).Mul(item.CostPrice),
			GrossMarginPct:      margin,
			UnitsSoldLast90Days: sold[item.ID],
		})
	}

	// 3. Ordenar: mayor margen, luego mayor volumen de ventas, luego mayor déficit bajo el reorden
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		if a.UnitsSoldLast90Days != b.UnitsSoldLast90Days {
			return a.UnitsSoldLast90Days > b.UnitsSoldLast90Days
		}
		return a.ReorderLevel-a.CurrentStock > b.ReorderLevel-b.CurrentStock
	})

	// 4. Prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
