package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testActor = "00000000-0000-0000-0000-000000000001"

type fakeExporter struct {
	item    *entity.Item
	entries []*entity.InventoryTransaction
}

func (f *fakeExporter) ExportLedger(item *entity.Item, entries []*entity.InventoryTransaction) ([]byte, error) {
	f.item, f.entries = item, entries
	return []byte("xlsx"), nil
}

type env struct {
	db       *memory.DB
	store    repository.Store
	writer   *inventory.LedgerWriter
	adjust   *inventory.AdjustmentUseCase
	ledger   *inventory.LedgerUseCase
	exporter *fakeExporter
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := memory.New()
	store := db.Store()
	writer := inventory.NewLedgerWriter()
	exp := &fakeExporter{}
	return &env{
		db:       db,
		store:    store,
		writer:   writer,
		adjust:   inventory.NewAdjustmentUseCase(db, writer, store.Adjustments),
		ledger:   inventory.NewLedgerUseCase(db, inventory.NewRegistry(store.Items), store.Ledger, exp),
		exporter: exp,
	}
}

func (e *env) createItem(t *testing.T, item entity.Item) {
	t.Helper()
	item.Active = true
	if item.SKU == "" {
		item.SKU = "SKU-" + item.ID
	}
	if item.Name == "" {
		item.Name = "Item " + item.ID
	}
	require.NoError(t, e.store.Items.Create(context.Background(), &item))
}

func (e *env) stock(t *testing.T, id string) int64 {
	t.Helper()
	it, err := e.store.Items.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it.CurrentStock
}

func (e *env) apply(t *testing.T, id, typ string, qty int64) *entity.StockAdjustment {
	t.Helper()
	adj, err := e.adjust.Adjust(context.Background(), inventory.AdjustInput{
		ItemID: id, Type: typ, Quantity: qty, Reason: "conteo", Actor: testActor,
	})
	require.NoError(t, err)
	return adj
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_IncrementoDecrementoYCorreccion(t *testing.T) {
	e := newEnv(t)
	e.createItem(t, entity.Item{ID: "a"})

	inc := e.apply(t, "a", entity.AdjustmentIncrease, 10)
	assert.Equal(t, int64(0), inc.QuantityBefore)
	assert.Equal(t, int64(10), inc.QuantityAfter)
	assert.Equal(t, int64(10), inc.QuantityChange)
	assert.NotEmpty(t, inc.TransactionID)

	dec := e.apply(t, "a", entity.AdjustmentDecrease, 4)
	assert.Equal(t, int64(-4), dec.QuantityChange)
	assert.Equal(t, int64(6), dec.QuantityAfter)

	cor := e.apply(t, "a", entity.AdjustmentCorrection, 2)
	assert.Equal(t, int64(6), cor.QuantityBefore)
	assert.Equal(t, int64(-4), cor.QuantityChange)
	assert.Equal(t, int64(2), e.stock(t, "a"))

	// Cada ajuste tiene exactamente una entrada en el libro, referenciada por su id
	for _, adj := range []*entity.StockAdjustment{inc, dec, cor} {
		entries, err := e.store.Ledger.ListByReference(context.Background(), adj.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, adj.TransactionID, entries[0].ID)
		assert.Equal(t, adj.QuantityChange, entries[0].QuantityChange)
		assert.Equal(t, entity.TransactionTypeAdjustment, entries[0].Type)
	}

	rec, err := e.ledger.Reconcile(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, rec.Consistent)
	assert.Equal(t, int64(2), rec.LedgerSum)
}

func TestAdjust_CorreccionACeroYSinCambio(t *testing.T) {
	e := newEnv(t)
	e.createItem(t, entity.Item{ID: "a"})
	e.apply(t, "a", entity.AdjustmentIncrease, 3)

	same := e.apply(t, "a", entity.AdjustmentCorrection, 3)
	assert.Equal(t, int64(0), same.QuantityChange)

	zero := e.apply(t, "a", entity.AdjustmentCorrection, 0)
	assert.Equal(t, int64(-3), zero.QuantityChange)
	assert.Equal(t, int64(0), e.stock(t, "a"))
}

func TestAdjust_DecrementoMayorAlStockRechazado(t *testing.T) {
	e := newEnv(t)
	e.createItem(t, entity.Item{ID: "a"})
	e.apply(t, "a", entity.AdjustmentIncrease, 3)

	_, err := e.adjust.Adjust(context.Background(), inventory.AdjustInput{
		ItemID: "a", Type: entity.AdjustmentDecrease, Quantity: 4, Actor: testActor,
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidAdjustment))
	assert.Equal(t, int64(3), e.stock(t, "a"))

	list, err := e.adjust.ListByItem(context.Background(), "a", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAdjust_EntradasInvalidas(t *testing.T) {
	e := newEnv(t)
	e.createItem(t, entity.Item{ID: "a"})
	ctx := context.Background()

	cases := []struct {
		name string
		in   inventory.AdjustInput
		want error
	}{
		{"tipo desconocido", inventory.AdjustInput{ItemID: "a", Type: "robo", Quantity: 1}, domain.ErrInvalidInput},
		{"incremento cero", inventory.AdjustInput{ItemID: "a", Type: entity.AdjustmentIncrease, Quantity: 0}, domain.ErrInvalidInput},
		{"corrección negativa", inventory.AdjustInput{ItemID: "a", Type: entity.AdjustmentCorrection, Quantity: -1}, domain.ErrInvalidInput},
		{"ítem inexistente", inventory.AdjustInput{ItemID: "zzz", Type: entity.AdjustmentIncrease, Quantity: 1}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.adjust.Adjust(ctx, tc.in)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestAdjust_FalloDelLibroRevierteElStock(t *testing.T) {
	e := newEnv(t)
	e.createItem(t, entity.Item{ID: "a"})
	e.db.FailOn("ledger.create", errors.New("sin conexión"))

	_, err := e.adjust.Adjust(context.Background(), inventory.AdjustInput{
		ItemID: "a", Type: entity.AdjustmentIncrease, Quantity: 5, Actor: testActor,
	})
	assert.True(t, errors.Is(err, domain.ErrStorage))
	assert.Equal(t, int64(0), e.stock(t, "a"))
}

func TestAdjustFromRequest_MapeaRespuesta(t *testing.T) {
	e := newEnv(t)
	e.createItem(t, entity.Item{ID: "a"})

	out, err := e.adjust.AdjustFromRequest(context.Background(), testActor, dto.StockAdjustmentRequest{
		ItemID: "a", Type: entity.AdjustmentIncrease, Quantity: 7, Reason: "compra local",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.QuantityAfter)
	assert.Equal(t, testActor, out.CreatedBy)
}

// ──────────────────────────────────────────────────────────────────────────────
// Libro
// ──────────────────────────────────────────────────────────────────────────────

func TestLedgerWriter_NoPermiteStockNegativo(t *testing.T) {
	e := newEnv(t)
	e.createItem(t, entity.Item{ID: "a"})
	ctx := context.Background()

	err := e.db.Run(ctx, func(s repository.Store) error {
		_, err := e.writer.RecordTransaction(ctx, s, inventory.LedgerEntry{
			ItemID: "a", Type: entity.TransactionTypeSale, ReferenceID: "so-1", QuantityChange: -1,
		})
		return err
	})
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(0), stockErr.Available)

	err = e.db.Run(ctx, func(s repository.Store) error {
		_, err := e.writer.RecordTransaction(ctx, s, inventory.LedgerEntry{
			ItemID: "a", Type: "regalo", ReferenceID: "x", QuantityChange: 1,
		})
		return err
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestLedgerUseCase_ListadoYExportacion(t *testing.T) {
	e := newEnv(t)
	e.createItem(t, entity.Item{ID: "a", SKU: "CAFE-500"})
	e.apply(t, "a", entity.AdjustmentIncrease, 5)
	e.apply(t, "a", entity.AdjustmentDecrease, 2)
	ctx := context.Background()

	list, err := e.ledger.ListByItem(ctx, "a", nil, nil, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, int64(5), list.Items[0].QuantityChange)

	data, name, err := e.ledger.Export(ctx, "a", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)
	assert.Equal(t, "libro_CAFE-500.xlsx", name)
	assert.Len(t, e.exporter.entries, 2)

	_, err = e.ledger.ListByItem(ctx, "zzz", nil, nil, dto.PageRequest{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reposición
// ──────────────────────────────────────────────────────────────────────────────

func TestReplenishment_OrdenaPorMargenYVentas(t *testing.T) {
	e := newEnv(t)
	d := decimal.RequireFromString
	// alto margen (50%)
	e.createItem(t, entity.Item{ID: "a", ReorderLevel: 10, MaxStock: 30, CostPrice: d("50"), SellingPrice: d("100")})
	// margen 20%, con ventas
	e.createItem(t, entity.Item{ID: "b", ReorderLevel: 4, CostPrice: d("80"), SellingPrice: d("100")})
	// margen 20%, sin ventas
	e.createItem(t, entity.Item{ID: "c", ReorderLevel: 4, CostPrice: d("80"), SellingPrice: d("100")})
	// sobre el punto de reorden: no aparece
	e.createItem(t, entity.Item{ID: "z", ReorderLevel: 1, CostPrice: d("1"), SellingPrice: d("2")})
	e.apply(t, "z", entity.AdjustmentIncrease, 50)

	e.apply(t, "b", entity.AdjustmentIncrease, 3)
	ctx := context.Background()
	require.NoError(t, e.db.Run(ctx, func(s repository.Store) error {
		_, err := e.writer.RecordTransaction(ctx, s, inventory.LedgerEntry{
			ItemID: "b", Type: entity.TransactionTypeSale, ReferenceID: "so-1", QuantityChange: -2,
		})
		return err
	}))

	uc := inventory.NewReplenishmentUseCase(e.store.Items, e.store.Ledger)
	list, err := uc.GenerateReplenishmentList(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "a", list[0].ItemID)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, int64(30), list[0].IdealStock)
	assert.Equal(t, int64(30), list[0].SuggestedOrderQty)
	assert.True(t, list[0].GrossMarginPct.Equal(d("50")))
	assert.True(t, list[0].EstimatedOrderCost.Equal(d("1500")))

	assert.Equal(t, "b", list[1].ItemID)
	assert.Equal(t, int64(2), list[1].UnitsSoldLast90Days)
	assert.Equal(t, int64(6), list[1].IdealStock)
	assert.Equal(t, int64(5), list[1].SuggestedOrderQty)

	assert.Equal(t, "c", list[2].ItemID)
	assert.Equal(t, 3, list[2].Priority)
}
