package orders_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/orders"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testActor = "00000000-0000-0000-0000-000000000001"

type fixture struct {
	db      *memory.DB
	store   repository.Store
	engine  *orders.Engine
	adjust  *inventory.AdjustmentUseCase
	ledgers *inventory.LedgerUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.New()
	store := db.Store()
	writer := inventory.NewLedgerWriter()
	return &fixture{
		db:      db,
		store:   store,
		engine:  orders.NewEngine(db, writer, orders.Options{}),
		adjust:  inventory.NewAdjustmentUseCase(db, writer, store.Adjustments),
		ledgers: inventory.NewLedgerUseCase(db, inventory.NewRegistry(store.Items), store.Ledger, nil),
	}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedItem crea el ítem en stock 0 y, si stock > 0, lo sube con un ajuste (queda en el libro).
func (f *fixture) seedItem(t *testing.T, id string, stock int64, price, cost string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.Items.Create(ctx, &entity.Item{
		ID: id, Name: "Item " + id, SKU: "SKU-" + id, Unit: "und",
		SellingPrice: d(price), CostPrice: d(cost), Active: true,
	}))
	if stock > 0 {
		_, err := f.adjust.Adjust(ctx, inventory.AdjustInput{
			ItemID: id, Type: entity.AdjustmentIncrease, Quantity: stock, Reason: "stock inicial", Actor: testActor,
		})
		require.NoError(t, err)
	}
}

func (f *fixture) seedCounterparty(t *testing.T, id, kind, creditLimit string) {
	t.Helper()
	require.NoError(t, f.store.Counterparties.Create(context.Background(), &entity.Counterparty{
		ID: id, Kind: kind, Name: "Tercero " + id, CreditLimit: d(creditLimit), Active: true,
	}))
}

func (f *fixture) stock(t *testing.T, id string) int64 {
	t.Helper()
	it, err := f.store.Items.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it.CurrentStock
}

func (f *fixture) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	cp, err := f.store.Counterparties.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, cp)
	return cp.CurrentBalance
}

func (f *fixture) assertConsistent(t *testing.T, ids ...string) {
	t.Helper()
	for _, id := range ids {
		rec, err := f.ledgers.Reconcile(context.Background(), id)
		require.NoError(t, err)
		assert.Truef(t, rec.Consistent, "ítem %s: stock %d, suma del libro %d", id, rec.CurrentStock, rec.LedgerSum)
	}
}

func sale(lines ...orders.OrderLine) orders.CreateOrderInput {
	return orders.CreateOrderInput{Type: entity.OrderTypeSale, Lines: lines, Actor: testActor}
}

func line(itemID string, qty int64) orders.OrderLine {
	return orders.OrderLine{ItemID: itemID, Quantity: qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_VentaPagadaCompletaDescuentaStock(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "50", "30")
	ctx := context.Background()

	in := sale(line("a", 10))
	in.PaidAmount = d("500")
	order, err := f.engine.CreateOrder(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusCompleted, order.Status)
	assert.Equal(t, "SO-000001", order.OrderNumber)
	assert.True(t, order.TotalAmount.Equal(d("500")))
	assert.Equal(t, int64(0), f.stock(t, "a"))

	entries, err := f.store.Ledger.ListByReference(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(-10), entries[0].QuantityChange)
	assert.Equal(t, entity.TransactionTypeSale, entries[0].Type)

	payments, err := f.store.Payments.ListByReference(ctx, entity.OrderTypeSale, order.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.True(t, payments[0].Amount.Equal(d("500")))
	f.assertConsistent(t, "a")
}

func TestCreateOrder_StockInsuficienteNoCreaNada(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 5, "50", "30")
	ctx := context.Background()

	_, err := f.engine.CreateOrder(ctx, sale(line("a", 10)))
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "a", stockErr.ItemID)
	assert.Equal(t, int64(5), stockErr.Available)
	assert.Equal(t, int64(10), stockErr.Requested)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	assert.Equal(t, int64(5), f.stock(t, "a"))
	list, err := f.store.Orders.List(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateOrder_LineasRepetidasSeSumanParaValidarStock(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 5, "10", "5")

	_, err := f.engine.CreateOrder(context.Background(), sale(line("a", 3), line("a", 3)))
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, int64(5), f.stock(t, "a"))
}

func TestCreateOrder_FalloEnTerceraLineaNoDejaEfectos(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		f.seedItem(t, id, 10, "10", "5")
	}
	ctx := context.Background()

	_, err := f.engine.CreateOrder(ctx, sale(line("a", 1), line("b", 2), line("c", 11), line("d", 1), line("e", 1)))
	require.True(t, errors.Is(err, domain.ErrInsufficientStock))

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		assert.Equal(t, int64(10), f.stock(t, id), "ítem %s", id)
	}
	f.assertConsistent(t, "a", "b", "c", "d", "e")
}

func TestCreateOrder_FalloAlGuardarPagoRevierteStockYOrden(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "10", "5")
	f.seedItem(t, "b", 10, "10", "5")
	ctx := context.Background()

	f.db.FailOn("payments.create", errors.New("disco lleno"))
	in := sale(line("a", 2), line("b", 3))
	in.PaidAmount = d("10")
	_, err := f.engine.CreateOrder(ctx, in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorage))

	assert.Equal(t, int64(10), f.stock(t, "a"))
	assert.Equal(t, int64(10), f.stock(t, "b"))
	list, err := f.store.Orders.List(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	// El número no se consumió
	f.db.FailOn("payments.create", nil)
	order, err := f.engine.CreateOrder(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "SO-000001", order.OrderNumber)
	f.assertConsistent(t, "a", "b")
}

func TestCreateOrder_VentasConcurrentesDelUltimoStock(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 1, "10", "5")
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.engine.CreateOrder(ctx, sale(line("a", 1)))
		}(i)
	}
	wg.Wait()

	ok, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			rejected++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, rejected)
	assert.Equal(t, int64(0), f.stock(t, "a"))
	f.assertConsistent(t, "a")
}

func TestCreateOrder_ImpuestoYPrecioExplicito(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "100", "60")

	price := d("80")
	in := sale(orders.OrderLine{ItemID: "a", Quantity: 2, UnitPrice: &price})
	in.TaxRate = d("19")
	order, err := f.engine.CreateOrder(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, order.Subtotal.Equal(d("160")))
	assert.True(t, order.TaxAmount.Equal(d("30.4")))
	assert.True(t, order.TotalAmount.Equal(d("190.4")))
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, entity.PaymentStatusUnpaid, order.PaymentStatus())
}

func TestCreateOrder_MontosAlCentavo(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "1", "1")
	f.seedCounterparty(t, "c1", entity.CounterpartyCustomer, "0")
	ctx := context.Background()

	price := d("0.335")
	in := sale(orders.OrderLine{ItemID: "a", Quantity: 1, UnitPrice: &price})
	in.CounterpartyID = "c1"
	in.PaidAmount = d("0.334")
	_, err := f.engine.CreateOrder(ctx, in)
	assert.True(t, errors.Is(err, domain.ErrInvalidPayment), "got %v", err)
	assert.Equal(t, int64(10), f.stock(t, "a"))
	assert.True(t, f.balance(t, "c1").IsZero())

	in.PaidAmount = d("0.33")
	order, err := f.engine.CreateOrder(ctx, in)
	require.NoError(t, err)
	assert.True(t, order.Subtotal.Equal(d("0.34")), "subtotal %s", order.Subtotal)
	assert.True(t, order.TotalAmount.Equal(d("0.34")))
	assert.True(t, order.RemainingAmount().Equal(d("0.01")))
	assert.True(t, f.balance(t, "c1").Equal(order.RemainingAmount()))

	items, err := f.store.Orders.ListItems(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].UnitPrice.Equal(price))
	assert.True(t, items[0].TotalPrice.Equal(d("0.34")))

	_, err = f.engine.RecordPayment(ctx, orders.PaymentInput{
		OrderType: entity.OrderTypeSale, OrderID: order.ID, Amount: d("0.005"), Actor: testActor,
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidPayment), "got %v", err)

	res, err := f.engine.RecordPayment(ctx, orders.PaymentInput{
		OrderType: entity.OrderTypeSale, OrderID: order.ID, Amount: d("0.01"), Actor: testActor,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, res.Order.Status)
	assert.True(t, f.balance(t, "c1").IsZero())

	tooPrecise := d("0.12345")
	_, err = f.engine.CreateOrder(ctx, sale(orders.OrderLine{ItemID: "a", Quantity: 1, UnitPrice: &tooPrecise}))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)
}

func TestCreateOrder_PagoMayorAlTotalRechazado(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "10", "5")

	in := sale(line("a", 1))
	in.PaidAmount = d("11")
	_, err := f.engine.CreateOrder(context.Background(), in)
	assert.True(t, errors.Is(err, domain.ErrInvalidPayment))
	assert.Equal(t, int64(10), f.stock(t, "a"))
}

func TestCreateOrder_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "10", "5")
	ctx := context.Background()

	cases := []struct {
		name string
		in   orders.CreateOrderInput
		want error
	}{
		{"sin líneas", sale(), domain.ErrInvalidInput},
		{"cantidad cero", sale(line("a", 0)), domain.ErrInvalidInput},
		{"tipo inválido", orders.CreateOrderInput{Type: "gift", Lines: []orders.OrderLine{line("a", 1)}}, domain.ErrInvalidInput},
		{"ítem inexistente", sale(line("zzz", 1)), domain.ErrNotFound},
		{"compra sin proveedor", orders.CreateOrderInput{Type: entity.OrderTypePurchase, Lines: []orders.OrderLine{line("a", 1)}}, domain.ErrInvalidInput},
		{"pago negativo", func() orders.CreateOrderInput { in := sale(line("a", 1)); in.PaidAmount = d("-1"); return in }(), domain.ErrInvalidPayment},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.engine.CreateOrder(ctx, tc.in)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
	assert.Equal(t, int64(10), f.stock(t, "a"))
}

func TestCreateOrder_ItemInactivoNoSeVende(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "10", "5")
	ctx := context.Background()
	require.NoError(t, f.store.Items.SetActive(ctx, "a", false))

	_, err := f.engine.CreateOrder(ctx, sale(line("a", 1)))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Saldos y pagos
// ──────────────────────────────────────────────────────────────────────────────

func TestPagos_SaldoDelClienteVuelveAlValorPrevio(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "1000", "600")
	f.seedCounterparty(t, "c1", entity.CounterpartyCustomer, "0")
	ctx := context.Background()

	in := sale(line("a", 1))
	in.CounterpartyID = "c1"
	in.PaidAmount = d("400")
	order, err := f.engine.CreateOrder(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, entity.PaymentStatusPartial, order.PaymentStatus())
	assert.True(t, f.balance(t, "c1").Equal(d("600")))

	res, err := f.engine.RecordPayment(ctx, orders.PaymentInput{
		OrderType: entity.OrderTypeSale, OrderID: order.ID, Amount: d("600"), Method: "cash", Actor: testActor,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, res.Order.Status)
	assert.True(t, res.Order.PaidAmount.Equal(d("1000")))
	assert.True(t, f.balance(t, "c1").IsZero())

	payments, err := f.store.Payments.ListByReference(ctx, entity.OrderTypeSale, order.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestPagos_SobrepagoRechazado(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "1000", "600")
	f.seedCounterparty(t, "c1", entity.CounterpartyCustomer, "0")
	ctx := context.Background()

	in := sale(line("a", 1))
	in.CounterpartyID = "c1"
	in.PaidAmount = d("400")
	order, err := f.engine.CreateOrder(ctx, in)
	require.NoError(t, err)

	_, err = f.engine.RecordPayment(ctx, orders.PaymentInput{
		OrderType: entity.OrderTypeSale, OrderID: order.ID, Amount: d("700"), Actor: testActor,
	})
	assert.True(t, errors.Is(err, domain.ErrOverpayment))

	got, err := f.store.Orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, got.PaidAmount.Equal(d("400")))
	assert.True(t, f.balance(t, "c1").Equal(d("600")))
}

func TestPagos_MontoNoPositivoYTipoEquivocado(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "100", "60")
	ctx := context.Background()
	order, err := f.engine.CreateOrder(ctx, sale(line("a", 1)))
	require.NoError(t, err)

	_, err = f.engine.RecordPayment(ctx, orders.PaymentInput{OrderType: entity.OrderTypeSale, OrderID: order.ID, Amount: d("0")})
	assert.True(t, errors.Is(err, domain.ErrInvalidPayment))

	_, err = f.engine.RecordPayment(ctx, orders.PaymentInput{OrderType: entity.OrderTypePurchase, OrderID: order.ID, Amount: d("10")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreateOrder_LimiteDeCredito(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "1000", "600")
	f.seedCounterparty(t, "c1", entity.CounterpartyCustomer, "500")
	ctx := context.Background()

	in := sale(line("a", 1))
	in.CounterpartyID = "c1"
	in.PaidAmount = d("400")
	_, err := f.engine.CreateOrder(ctx, in)
	assert.True(t, errors.Is(err, domain.ErrCreditLimitExceeded))
	assert.Equal(t, int64(10), f.stock(t, "a"))

	in.PaidAmount = d("500")
	_, err = f.engine.CreateOrder(ctx, in)
	require.NoError(t, err)
	assert.True(t, f.balance(t, "c1").Equal(d("500")))
}

func TestCreateOrder_ClienteOcasionalPorTelefono(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "100", "60")
	ctx := context.Background()

	in := sale(line("a", 1))
	in.CounterpartyName = "Ana"
	in.CounterpartyPhone = "300 123 4567"
	first, err := f.engine.CreateOrder(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, first.CounterpartyID)

	in.CounterpartyPhone = "+57 3001234567"
	second, err := f.engine.CreateOrder(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, second.CounterpartyID)
	assert.Equal(t, *first.CounterpartyID, *second.CounterpartyID)

	cp, err := f.store.Counterparties.GetByID(ctx, *first.CounterpartyID)
	require.NoError(t, err)
	assert.Equal(t, "+573001234567", cp.Phone)
	assert.Equal(t, entity.CounterpartyCustomer, cp.Kind)
	assert.True(t, cp.CurrentBalance.Equal(d("200")))
}

func TestCreateOrder_TerceroDeOtroTipo(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "100", "60")
	f.seedCounterparty(t, "s1", entity.CounterpartySupplier, "0")

	in := sale(line("a", 1))
	in.CounterpartyID = "s1"
	_, err := f.engine.CreateOrder(context.Background(), in)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// ──────────────────────────────────────────────────────────────────────────────
// Idempotencia
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_ClaveIdempotenteDevuelveLaMismaOrden(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "10", "5")
	ctx := context.Background()

	in := sale(line("a", 3))
	in.IdempotencyKey = "req-1"
	first, err := f.engine.CreateOrder(ctx, in)
	require.NoError(t, err)
	second, err := f.engine.CreateOrder(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(7), f.stock(t, "a"))

	in.Lines = []orders.OrderLine{line("a", 4)}
	_, err = f.engine.CreateOrder(ctx, in)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, int64(7), f.stock(t, "a"))
}

func TestCreateOrder_ClaveIdempotenteIgnoraLaEscalaDelPrecio(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "10", "5")
	ctx := context.Background()

	price := d("10")
	in := sale(orders.OrderLine{ItemID: "a", Quantity: 3, UnitPrice: &price})
	in.PaidAmount = d("30")
	in.IdempotencyKey = "req-escala"
	first, err := f.engine.CreateOrder(ctx, in)
	require.NoError(t, err)

	samePrice := d("10.00")
	in.Lines = []orders.OrderLine{{ItemID: "a", Quantity: 3, UnitPrice: &samePrice}}
	in.PaidAmount = d("30.00")
	second, err := f.engine.CreateOrder(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(7), f.stock(t, "a"))
}

func TestRecordPayment_ClaveIdempotenteNoDuplicaPago(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "100", "60")
	f.seedCounterparty(t, "c1", entity.CounterpartyCustomer, "0")
	ctx := context.Background()

	in := sale(line("a", 1))
	in.CounterpartyID = "c1"
	order, err := f.engine.CreateOrder(ctx, in)
	require.NoError(t, err)

	pay := orders.PaymentInput{
		OrderType: entity.OrderTypeSale, OrderID: order.ID, Amount: d("30"), Actor: testActor, IdempotencyKey: "pay-1",
	}
	first, err := f.engine.RecordPayment(ctx, pay)
	require.NoError(t, err)
	pay.Amount = d("30.00")
	second, err := f.engine.RecordPayment(ctx, pay)
	require.NoError(t, err)

	assert.Equal(t, first.Payment.ID, second.Payment.ID)
	assert.True(t, second.Order.PaidAmount.Equal(d("30")))
	assert.True(t, f.balance(t, "c1").Equal(d("70")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras y recepción
// ──────────────────────────────────────────────────────────────────────────────

func createPurchase(t *testing.T, f *fixture, supplierID string, lines ...orders.OrderLine) *entity.Order {
	t.Helper()
	order, err := f.engine.CreateOrder(context.Background(), orders.CreateOrderInput{
		Type: entity.OrderTypePurchase, CounterpartyID: supplierID, Lines: lines, Actor: testActor,
	})
	require.NoError(t, err)
	return order
}

func TestReceive_RecepcionParcial(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 0, "20", "10")
	f.seedItem(t, "b", 0, "20", "10")
	f.seedCounterparty(t, "s1", entity.CounterpartySupplier, "0")
	ctx := context.Background()

	order := createPurchase(t, f, "s1", line("a", 10), line("b", 5))
	assert.Equal(t, "PO-000001", order.OrderNumber)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, int64(0), f.stock(t, "a"), "crear la compra no mueve stock")
	assert.True(t, f.balance(t, "s1").Equal(d("150")))

	res, err := f.engine.Receive(ctx, orders.ReceiveInput{
		OrderID: order.ID,
		Lines:   []orders.ReceiveLine{{ItemID: "a", ReceivedQuantity: 10}, {ItemID: "b", ReceivedQuantity: 3}},
		Actor:   testActor,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPartial, res.Order.Status)
	assert.Nil(t, res.Order.ReceivedDate)
	assert.Len(t, res.Entries, 2)
	assert.Equal(t, int64(10), f.stock(t, "a"))
	assert.Equal(t, int64(3), f.stock(t, "b"))

	// Repetir la misma recepción no genera movimientos
	again, err := f.engine.Receive(ctx, orders.ReceiveInput{
		OrderID: order.ID,
		Lines:   []orders.ReceiveLine{{ItemID: "a", ReceivedQuantity: 10}, {ItemID: "b", ReceivedQuantity: 3}},
		Actor:   testActor,
	})
	require.NoError(t, err)
	assert.Empty(t, again.Entries)
	assert.Equal(t, int64(3), f.stock(t, "b"))

	// Completar
	done, err := f.engine.Receive(ctx, orders.ReceiveInput{
		OrderID: order.ID,
		Lines:   []orders.ReceiveLine{{ItemID: "b", ReceivedQuantity: 5}},
		Actor:   testActor,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, done.Order.Status)
	assert.NotNil(t, done.Order.ReceivedDate)
	assert.Equal(t, int64(5), f.stock(t, "b"))

	_, err = f.engine.Receive(ctx, orders.ReceiveInput{
		OrderID: order.ID,
		Lines:   []orders.ReceiveLine{{ItemID: "b", ReceivedQuantity: 5}},
	})
	assert.True(t, errors.Is(err, domain.ErrAlreadyReceived))
	f.assertConsistent(t, "a", "b")
}

func TestReceive_CostoPromedioPonderado(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "300", "100")
	f.seedCounterparty(t, "s1", entity.CounterpartySupplier, "0")
	ctx := context.Background()

	price := d("200")
	order := createPurchase(t, f, "s1", orders.OrderLine{ItemID: "a", Quantity: 10, UnitPrice: &price})
	res, err := f.engine.Receive(ctx, orders.ReceiveInput{
		OrderID: order.ID, Lines: []orders.ReceiveLine{{ItemID: "a", ReceivedQuantity: 10}}, Actor: testActor,
	})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	require.NotNil(t, res.Entries[0].UnitCost)
	assert.True(t, res.Entries[0].UnitCost.Equal(price))
	assert.Equal(t, entity.TransactionTypePurchase, res.Entries[0].Type)

	it, err := f.store.Items.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(20), it.CurrentStock)
	assert.True(t, it.CostPrice.Equal(d("150")), "costo %s", it.CostPrice)
}

func TestReceive_CantidadesInvalidas(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 0, "20", "10")
	f.seedItem(t, "x", 0, "20", "10")
	f.seedCounterparty(t, "s1", entity.CounterpartySupplier, "0")
	ctx := context.Background()
	order := createPurchase(t, f, "s1", line("a", 5))

	_, err := f.engine.Receive(ctx, orders.ReceiveInput{OrderID: order.ID, Lines: []orders.ReceiveLine{{ItemID: "a", ReceivedQuantity: 6}}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "más de lo pedido")

	_, err = f.engine.Receive(ctx, orders.ReceiveInput{OrderID: order.ID, Lines: []orders.ReceiveLine{{ItemID: "x", ReceivedQuantity: 1}}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "ítem fuera de la orden")

	_, err = f.engine.Receive(ctx, orders.ReceiveInput{OrderID: order.ID, Lines: []orders.ReceiveLine{{ItemID: "a", ReceivedQuantity: 3}}})
	require.NoError(t, err)
	_, err = f.engine.Receive(ctx, orders.ReceiveInput{OrderID: order.ID, Lines: []orders.ReceiveLine{{ItemID: "a", ReceivedQuantity: 2}}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "corrección a la baja")
	assert.Equal(t, int64(3), f.stock(t, "a"))

	_, err = f.engine.Receive(ctx, orders.ReceiveInput{OrderID: "no-existe", Lines: []orders.ReceiveLine{{ItemID: "a", ReceivedQuantity: 1}}})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPagos_CompraReduceSaldoConProveedorYConservaEstado(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 0, "20", "10")
	f.seedCounterparty(t, "s1", entity.CounterpartySupplier, "0")
	ctx := context.Background()
	order := createPurchase(t, f, "s1", line("a", 5))

	res, err := f.engine.RecordPayment(ctx, orders.PaymentInput{
		OrderType: entity.OrderTypePurchase, OrderID: order.ID, Amount: d("50"), Actor: testActor,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, res.Order.Status)
	assert.Equal(t, entity.PaymentStatusPaid, res.Order.PaymentStatus())
	assert.True(t, f.balance(t, "s1").IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas y adaptadores HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestQueryUseCase_DetalleYListado(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a", 10, "100", "60")
	ctx := context.Background()

	created, err := f.engine.CreateFromRequest(ctx, entity.OrderTypeSale, testActor, "", dto.CreateOrderRequest{
		Items:      []dto.OrderLineRequest{{ItemID: "a", Quantity: 2}},
		PaidAmount: d("50"),
	})
	require.NoError(t, err)
	assert.True(t, created.RemainingAmount.Equal(d("150")))
	assert.Equal(t, entity.PaymentStatusPartial, created.PaymentStatus)

	q := orders.NewQueryUseCase(f.store.Orders, f.store.Payments)
	detail, err := q.Get(ctx, entity.OrderTypeSale, created.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Items, 1)
	assert.Len(t, detail.Payments, 1)

	_, err = q.Get(ctx, entity.OrderTypePurchase, created.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	list, err := q.List(ctx, entity.OrderTypeSale, "", "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 20, list.Page.Limit)

	paid, err := f.engine.RecordPaymentFromRequest(ctx, entity.OrderTypeSale, created.ID, testActor, "", dto.RecordPaymentRequest{Amount: d("150")})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, paid.Order.Status)
}
