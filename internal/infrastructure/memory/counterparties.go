package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.CounterpartyRepository = (*counterpartyRepo)(nil)
	_ repository.SequenceRepository     = (*sequenceRepo)(nil)
	_ repository.IdempotencyRepository  = (*idempotencyRepo)(nil)
)

type counterpartyRepo struct{ v *view }

func (r *counterpartyRepo) Create(ctx context.Context, c *entity.Counterparty) error {
	return r.v.do(ctx, "counterparties.create", func(st *state) error {
		if _, ok := st.counterparties[c.ID]; ok {
			return domain.Errorf(domain.ErrDuplicate, "tercero %s", c.ID)
		}
		st.counterparties[c.ID] = *c
		return nil
	})
}

func (r *counterpartyRepo) GetByID(ctx context.Context, id string) (*entity.Counterparty, error) {
	var out *entity.Counterparty
	err := r.v.do(ctx, "counterparties.get", func(st *state) error {
		if c, ok := st.counterparties[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *counterpartyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Counterparty, error) {
	return r.GetByID(ctx, id)
}

func (r *counterpartyRepo) FindByPhone(ctx context.Context, kind, phone string) (*entity.Counterparty, error) {
	var out *entity.Counterparty
	err := r.v.do(ctx, "counterparties.get", func(st *state) error {
		for _, c := range st.counterparties {
			if c.Kind == kind && c.Phone == phone && c.Active {
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *counterpartyRepo) Update(ctx context.Context, c *entity.Counterparty) error {
	return r.v.do(ctx, "counterparties.update", func(st *state) error {
		cur, ok := st.counterparties[c.ID]
		if !ok {
			return domain.Errorf(domain.ErrNotFound, "tercero %s", c.ID)
		}
		balance := cur.CurrentBalance
		cur = *c
		cur.CurrentBalance = balance
		cur.UpdatedAt = time.Now()
		st.counterparties[c.ID] = cur
		return nil
	})
}

func (r *counterpartyRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.v.do(ctx, "counterparties.update", func(st *state) error {
		cur, ok := st.counterparties[id]
		if !ok {
			return domain.Errorf(domain.ErrNotFound, "tercero %s", id)
		}
		cur.Active = active
		cur.UpdatedAt = time.Now()
		st.counterparties[id] = cur
		return nil
	})
}

func (r *counterpartyRepo) List(ctx context.Context, f repository.CounterpartyFilter) ([]*entity.Counterparty, error) {
	var out []*entity.Counterparty
	err := r.v.do(ctx, "counterparties.list", func(st *state) error {
		search := strings.ToLower(f.Search)
		for _, c := range st.counterparties {
			if f.Kind != "" && c.Kind != f.Kind {
				continue
			}
			if f.ActiveOnly && !c.Active {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(c.Name), search) && !strings.Contains(c.Phone, search) {
				continue
			}
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f.Limit, f.Offset), err
}

func (r *counterpartyRepo) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	return r.v.do(ctx, "counterparties.adjust_balance", func(st *state) error {
		cur, ok := st.counterparties[id]
		if !ok {
			return domain.Errorf(domain.ErrNotFound, "tercero %s", id)
		}
		cur.CurrentBalance = cur.CurrentBalance.Add(delta)
		cur.UpdatedAt = time.Now()
		st.counterparties[id] = cur
		return nil
	})
}

type sequenceRepo struct{ v *view }

func (r *sequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	var n int64
	err := r.v.do(ctx, "sequences.next", func(st *state) error {
		st.sequences[name]++
		n = st.sequences[name]
		return nil
	})
	return n, err
}

type idempotencyRepo struct{ v *view }

func idempotencyKey(scope, key string) string {
	return fmt.Sprintf("%s\x00%s", scope, key)
}

func (r *idempotencyRepo) Create(ctx context.Context, rec *entity.IdempotencyRecord) error {
	return r.v.do(ctx, "idempotency.create", func(st *state) error {
		k := idempotencyKey(rec.Scope, rec.Key)
		if _, ok := st.idempotency[k]; ok {
			return domain.Errorf(domain.ErrDuplicate, "clave de idempotencia %s", rec.Key)
		}
		st.idempotency[k] = *rec
		return nil
	})
}

func (r *idempotencyRepo) Get(ctx context.Context, scope, key string) (*entity.IdempotencyRecord, error) {
	var out *entity.IdempotencyRecord
	err := r.v.do(ctx, "idempotency.get", func(st *state) error {
		if rec, ok := st.idempotency[idempotencyKey(scope, key)]; ok {
			out = &rec
		}
		return nil
	})
	return out, err
}
