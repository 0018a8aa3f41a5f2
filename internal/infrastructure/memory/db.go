// Package memory implementa los puertos de persistencia en memoria del proceso.
// Cada transacción trabaja sobre una copia del estado y la publica al hacer Commit,
// por lo que un error en fn descarta todos los cambios. Las transacciones se serializan.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.TxRunner = (*DB)(nil)

type state struct {
	items          map[string]entity.Item
	ledger         []entity.InventoryTransaction
	adjustments    map[string]entity.StockAdjustment
	orders         map[string]entity.Order
	orderItems     map[string]entity.OrderItem
	payments       []entity.Payment
	counterparties map[string]entity.Counterparty
	sequences      map[string]int64
	idempotency    map[string]entity.IdempotencyRecord
}

func newState() *state {
	return &state{
		items:          map[string]entity.Item{},
		adjustments:    map[string]entity.StockAdjustment{},
		orders:         map[string]entity.Order{},
		orderItems:     map[string]entity.OrderItem{},
		counterparties: map[string]entity.Counterparty{},
		sequences:      map[string]int64{},
		idempotency:    map[string]entity.IdempotencyRecord{},
	}
}

func (s *state) clone() *state {
	c := &state{
		items:          make(map[string]entity.Item, len(s.items)),
		ledger:         append([]entity.InventoryTransaction(nil), s.ledger...),
		adjustments:    make(map[string]entity.StockAdjustment, len(s.adjustments)),
		orders:         make(map[string]entity.Order, len(s.orders)),
		orderItems:     make(map[string]entity.OrderItem, len(s.orderItems)),
		payments:       append([]entity.Payment(nil), s.payments...),
		counterparties: make(map[string]entity.Counterparty, len(s.counterparties)),
		sequences:      make(map[string]int64, len(s.sequences)),
		idempotency:    make(map[string]entity.IdempotencyRecord, len(s.idempotency)),
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.adjustments {
		c.adjustments[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.orderItems {
		c.orderItems[k] = v
	}
	for k, v := range s.counterparties {
		c.counterparties[k] = v
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, v := range s.idempotency {
		c.idempotency[k] = v
	}
	return c
}

// DB almacén en memoria. Implementa repository.TxRunner.
type DB struct {
	mu     sync.Mutex
	st     *state
	faults map[string]error
}

// New crea un almacén vacío.
func New() *DB {
	return &DB{st: newState(), faults: map[string]error{}}
}

// Store devuelve repositorios fuera de transacción (cada llamada es atómica por sí sola).
// No debe usarse dentro de un callback de Run.
func (db *DB) Store() repository.Store {
	return newStore(&view{db: db})
}

// Run ejecuta fn sobre una copia del estado; si fn termina sin error la copia pasa a ser el estado.
func (db *DB) Run(ctx context.Context, fn func(store repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return domain.Storage("begin transaction", err)
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	tx := db.st.clone()
	if err := fn(newStore(&view{db: db, tx: tx})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return domain.Storage("commit transaction", err)
	}
	db.st = tx
	return nil
}

// FailOn hace que la operación op (ej. "payments.create") devuelva err hasta que se limpie con nil.
// Pensado para pruebas de atomicidad.
func (db *DB) FailOn(op string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err == nil {
		delete(db.faults, op)
		return
	}
	db.faults[op] = err
}

type view struct {
	db *DB
	tx *state
}

// do ejecuta fn sobre el estado de la transacción o, fuera de ella, bajo el mutex del DB.
func (v *view) do(ctx context.Context, op string, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return domain.Storage(op, err)
	}
	if v.tx != nil {
		if err := v.db.faults[op]; err != nil {
			return domain.Storage(op, err)
		}
		return fn(v.tx)
	}
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	if err := v.db.faults[op]; err != nil {
		return domain.Storage(op, err)
	}
	return fn(v.db.st)
}

func newStore(v *view) repository.Store {
	return repository.Store{
		Items:          &itemRepo{v: v},
		Ledger:         &ledgerRepo{v: v},
		Adjustments:    &adjustmentRepo{v: v},
		Orders:         &orderRepo{v: v},
		Payments:       &paymentRepo{v: v},
		Counterparties: &counterpartyRepo{v: v},
		Sequences:      &sequenceRepo{v: v},
		Idempotency:    &idempotencyRepo{v: v},
	}
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
