package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var (
	_ repository.InventoryTransactionRepository = (*ledgerRepo)(nil)
	_ repository.StockAdjustmentRepository      = (*adjustmentRepo)(nil)
)

type ledgerRepo struct{ v *view }

func (r *ledgerRepo) Create(ctx context.Context, tx *entity.InventoryTransaction) error {
	return r.v.do(ctx, "ledger.create", func(st *state) error {
		st.ledger = append(st.ledger, *tx)
		return nil
	})
}

func (r *ledgerRepo) ListByItem(ctx context.Context, itemID string, f repository.LedgerFilter) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	err := r.v.do(ctx, "ledger.list", func(st *state) error {
		for _, t := range st.ledger {
			if t.ItemID != itemID {
				continue
			}
			if f.From != nil && t.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && t.CreatedAt.After(*f.To) {
				continue
			}
			out = append(out, &t)
		}
		return nil
	})
	return page(out, f.Limit, f.Offset), err
}

func (r *ledgerRepo) ListByReference(ctx context.Context, referenceID string) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	err := r.v.do(ctx, "ledger.list", func(st *state) error {
		for _, t := range st.ledger {
			if t.ReferenceID == referenceID {
				out = append(out, &t)
			}
		}
		return nil
	})
	return out, err
}

func (r *ledgerRepo) SumByItem(ctx context.Context, itemID string) (int64, error) {
	var sum int64
	err := r.v.do(ctx, "ledger.sum", func(st *state) error {
		for _, t := range st.ledger {
			if t.ItemID == itemID {
				sum += t.QuantityChange
			}
		}
		return nil
	})
	return sum, err
}

func (r *ledgerRepo) SoldUnitsSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	out := map[string]int64{}
	err := r.v.do(ctx, "ledger.sum", func(st *state) error {
		for _, t := range st.ledger {
			if t.Type == entity.TransactionTypeSale && !t.CreatedAt.Before(since) {
				out[t.ItemID] += -t.QuantityChange
			}
		}
		return nil
	})
	return out, err
}

type adjustmentRepo struct{ v *view }

func (r *adjustmentRepo) Create(ctx context.Context, adj *entity.StockAdjustment) error {
	return r.v.do(ctx, "adjustments.create", func(st *state) error {
		if _, ok := st.adjustments[adj.ID]; ok {
			return domain.Errorf(domain.ErrDuplicate, "ajuste %s", adj.ID)
		}
		st.adjustments[adj.ID] = *adj
		return nil
	})
}

func (r *adjustmentRepo) GetByID(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	var out *entity.StockAdjustment
	err := r.v.do(ctx, "adjustments.get", func(st *state) error {
		if a, ok := st.adjustments[id]; ok {
			out = &a
		}
		return nil
	})
	return out, err
}

func (r *adjustmentRepo) ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	var out []*entity.StockAdjustment
	err := r.v.do(ctx, "adjustments.list", func(st *state) error {
		for _, a := range st.adjustments {
			if a.ItemID == itemID {
				out = append(out, &a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), err
}
