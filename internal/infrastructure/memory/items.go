package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ItemRepository = (*itemRepo)(nil)

type itemRepo struct{ v *view }

func (r *itemRepo) Create(ctx context.Context, item *entity.Item) error {
	return r.v.do(ctx, "items.create", func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return domain.Errorf(domain.ErrDuplicate, "ítem %s", item.ID)
		}
		for _, it := range st.items {
			if it.SKU == item.SKU {
				return domain.Errorf(domain.ErrDuplicate, "sku %s", item.SKU)
			}
		}
		st.items[item.ID] = *item
		return nil
	})
}

func (r *itemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	var out *entity.Item
	err := r.v.do(ctx, "items.get", func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *itemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	var out *entity.Item
	err := r.v.do(ctx, "items.get", func(st *state) error {
		for _, it := range st.items {
			if it.SKU == sku {
				out = &it
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *itemRepo) Update(ctx context.Context, item *entity.Item) error {
	return r.v.do(ctx, "items.update", func(st *state) error {
		cur, ok := st.items[item.ID]
		if !ok {
			return domain.Errorf(domain.ErrNotFound, "ítem %s", item.ID)
		}
		stock := cur.CurrentStock
		cur = *item
		cur.CurrentStock = stock
		cur.UpdatedAt = time.Now()
		st.items[item.ID] = cur
		return nil
	})
}

func (r *itemRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.v.do(ctx, "items.update", func(st *state) error {
		cur, ok := st.items[id]
		if !ok {
			return domain.Errorf(domain.ErrNotFound, "ítem %s", id)
		}
		cur.Active = active
		cur.UpdatedAt = time.Now()
		st.items[id] = cur
		return nil
	})
}

func (r *itemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.v.do(ctx, "items.list", func(st *state) error {
		search := strings.ToLower(f.Search)
		for _, it := range st.items {
			if f.ActiveOnly && !it.Active {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(it.Name), search) && !strings.Contains(strings.ToLower(it.SKU), search) {
				continue
			}
			out = append(out, &it)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f.Limit, f.Offset), err
}

func (r *itemRepo) ListBelowReorderLevel(ctx context.Context) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.v.do(ctx, "items.list", func(st *state) error {
		for _, it := range st.items {
			if it.Active && it.IsLowStock() {
				out = append(out, &it)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *itemRepo) LockForUpdate(ctx context.Context, ids []string) (map[string]*entity.Item, error) {
	out := make(map[string]*entity.Item, len(ids))
	err := r.v.do(ctx, "items.lock", func(st *state) error {
		for _, id := range ids {
			if it, ok := st.items[id]; ok {
				out[id] = &it
			}
		}
		return nil
	})
	return out, err
}

func (r *itemRepo) UpdateStock(ctx context.Context, id string, stock int64) error {
	return r.v.do(ctx, "items.update_stock", func(st *state) error {
		cur, ok := st.items[id]
		if !ok {
			return domain.Errorf(domain.ErrNotFound, "ítem %s", id)
		}
		cur.CurrentStock = stock
		cur.UpdatedAt = time.Now()
		st.items[id] = cur
		return nil
	})
}

func (r *itemRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error {
	return r.v.do(ctx, "items.update_cost", func(st *state) error {
		cur, ok := st.items[id]
		if !ok {
			return domain.Errorf(domain.ErrNotFound, "ítem %s", id)
		}
		cur.CostPrice = cost
		cur.UpdatedAt = time.Now()
		st.items[id] = cur
		return nil
	})
}
