package inventory

import (
	"context"

	"github.com/jhoicas/pos-api/internal/application/dto"
)

// AdjustFromRequest adapta el request HTTP al caso de uso Adjust(ctx, AdjustInput).
func (uc *AdjustmentUseCase) AdjustFromRequest(ctx context.Context, userID string, in dto.StockAdjustmentRequest) (*dto.StockAdjustmentResponse, error) {
	adj, err := uc.Adjust(ctx, AdjustInput{
		ItemID:   in.ItemID,
		Type:     in.Type,
		Quantity: in.Quantity,
		Reason:   in.Reason,
		Actor:    userID,
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewStockAdjustmentResponse(adj)
	return &out, nil
}
