package orders

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-api/internal/domain/inventory"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/contact"
)

var hundred = decimal.NewFromInt(100)

// Options dependencias opcionales del motor de órdenes.
type Options struct {
	Numbers     NumberGenerator // por defecto contador en BD con DefaultNumberFormat
	Locker      KeyLocker       // nil = sin bloqueo distribuido de claves
	LockTTL     time.Duration
	PhoneRegion string // región por defecto para normalizar teléfonos (ej. "CO")
	Logger      *zerolog.Logger
}

// Engine motor transaccional de órdenes: creación de ventas y compras, recepción de compras
// y registro de pagos. Cada operación es una única transacción.
type Engine struct {
	txRunner    repository.TxRunner
	ledger      *inventory.LedgerWriter
	numbers     NumberGenerator
	locker      KeyLocker
	lockTTL     time.Duration
	phoneRegion string
	log         zerolog.Logger
	now         func() time.Time
}

// NewEngine construye el motor.
func NewEngine(txRunner repository.TxRunner, ledger *inventory.LedgerWriter, opts Options) *Engine {
	e := &Engine{
		txRunner:    txRunner,
		ledger:      ledger,
		numbers:     opts.Numbers,
		locker:      opts.Locker,
		lockTTL:     opts.LockTTL,
		phoneRegion: opts.PhoneRegion,
		log:         zerolog.Nop(),
		now:         time.Now,
	}
	if e.numbers == nil {
		e.numbers = NewSequenceNumberGenerator(DefaultNumberFormat())
	}
	if e.lockTTL <= 0 {
		e.lockTTL = 30 * time.Second
	}
	if e.phoneRegion == "" {
		e.phoneRegion = "CO"
	}
	if opts.Logger != nil {
		e.log = *opts.Logger
	}
	return e
}

// OrderLine línea solicitada. UnitPrice nil = precio del ítem (venta) o costo (compra).
type OrderLine struct {
	ItemID    string
	Quantity  int64
	UnitPrice *decimal.Decimal
}

// CreateOrderInput entrada de createOrder.
type CreateOrderInput struct {
	Type              string
	CounterpartyID    string
	CounterpartyName  string // venta sin tercero: crea o reutiliza un cliente mínimo
	CounterpartyPhone string
	Lines             []OrderLine
	TaxRate           decimal.Decimal // porcentaje
	PaymentMethod     string
	PaidAmount        decimal.Decimal
	Notes             string
	OrderDate         *time.Time
	Actor             string
	IdempotencyKey    string
}

type fingerprintLine struct {
	ItemID    string
	Quantity  int64
	UnitPrice string
}

// fingerprintPayload campos que identifican la petición (sin actor ni clave).
// Los decimales van a escala fija: "10" y "10.00" son la misma petición.
func (in CreateOrderInput) fingerprintPayload() any {
	lines := make([]fingerprintLine, len(in.Lines))
	for i, l := range in.Lines {
		lines[i] = fingerprintLine{ItemID: l.ItemID, Quantity: l.Quantity}
		if l.UnitPrice != nil {
			lines[i].UnitPrice = l.UnitPrice.StringFixed(domain.PricePlaces)
		}
	}
	return struct {
		Type, CounterpartyID, Name, Phone string
		Lines                             []fingerprintLine
		TaxRate, PaidAmount               string
		PaymentMethod, Notes              string
		OrderDate                         *time.Time
	}{
		in.Type, in.CounterpartyID, in.CounterpartyName, in.CounterpartyPhone,
		lines, in.TaxRate.StringFixed(domain.RatePlaces), in.PaidAmount.StringFixed(domain.MoneyPlaces),
		in.PaymentMethod, in.Notes, in.OrderDate,
	}
}

func validateCreate(in CreateOrderInput) error {
	if !entity.ValidOrderType(in.Type) {
		return domain.NewValidationError("tipo de orden inválido: %q", in.Type)
	}
	if len(in.Lines) == 0 {
		return domain.NewValidationError("la orden debe tener al menos un ítem")
	}
	seen := make(map[string]bool, len(in.Lines))
	for i, l := range in.Lines {
		if l.ItemID == "" {
			return domain.NewValidationError("línea %d: item_id requerido", i+1)
		}
		if l.Quantity < 1 {
			return domain.NewValidationError("línea %d: la cantidad debe ser al menos 1", i+1)
		}
		if l.UnitPrice != nil && l.UnitPrice.IsNegative() {
			return domain.NewValidationError("línea %d: el precio unitario no puede ser negativo", i+1)
		}
		if l.UnitPrice != nil && domain.ExceedsPlaces(*l.UnitPrice, domain.PricePlaces) {
			return domain.NewValidationError("línea %d: el precio unitario admite máximo %d decimales", i+1, domain.PricePlaces)
		}
		if seen[l.ItemID] && in.Type == entity.OrderTypePurchase {
			return domain.NewValidationError("línea %d: ítem %s repetido en la orden de compra", i+1, l.ItemID)
		}
		seen[l.ItemID] = true
	}
	if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(hundred) {
		return domain.NewValidationError("la tasa de impuesto debe estar entre 0 y 100")
	}
	if domain.ExceedsPlaces(in.TaxRate, domain.RatePlaces) {
		return domain.NewValidationError("la tasa de impuesto admite máximo %d decimales", domain.RatePlaces)
	}
	if in.PaidAmount.IsNegative() {
		return domain.Errorf(domain.ErrInvalidPayment, "el monto pagado no puede ser negativo")
	}
	if domain.ExceedsPlaces(in.PaidAmount, domain.MoneyPlaces) {
		return domain.Errorf(domain.ErrInvalidPayment, "el monto pagado admite máximo %d decimales", domain.MoneyPlaces)
	}
	if in.Type == entity.OrderTypePurchase && in.CounterpartyID == "" {
		return domain.NewValidationError("la orden de compra requiere proveedor")
	}
	return nil
}

// CreateOrder valida y persiste una orden de venta o compra en una única transacción.
// En ventas descuenta stock por línea a través del libro; en compras el stock cambia al recibir.
func (e *Engine) CreateOrder(ctx context.Context, in CreateOrderInput) (order *entity.Order, err error) {
	ctx, span := tracer.Start(ctx, "orders.CreateOrder", trace.WithAttributes(
		attribute.String("order.type", in.Type),
		attribute.Int("order.lines", len(in.Lines)),
	))
	defer func() { endSpan(span, err) }()

	if err = validateCreate(in); err != nil {
		return nil, err
	}

	var fp string
	if in.IdempotencyKey != "" {
		if fp, err = fingerprint(in.fingerprintPayload()); err != nil {
			return nil, err
		}
		release, lockErr := e.lockKey(ctx, entity.IdempotencyScopeCreateOrder, in.IdempotencyKey)
		if lockErr != nil {
			return nil, lockErr
		}
		defer release()
	}

	err = runIdempotent(func() error {
		order = nil
		return e.txRunner.Run(ctx, func(store repository.Store) error {
			orderID := uuid.New().String()
			if in.IdempotencyKey != "" {
				ref, err := claimKey(ctx, store, entity.IdempotencyScopeCreateOrder, in.IdempotencyKey, fp, orderID, e.now())
				if err != nil {
					return err
				}
				if ref != "" {
					o, err := store.Orders.GetByID(ctx, ref)
					if err != nil {
						return domain.Storage("obtener orden", err)
					}
					if o == nil {
						return domain.Errorf(domain.ErrNotFound, "orden %s", ref)
					}
					e.log.Info().Str("idempotency_key", in.IdempotencyKey).Str("order_id", ref).Msg("orden repetida, se devuelve la original")
					order = o
					return nil
				}
			}
			o, err := e.createInTx(ctx, store, in, orderID)
			if err != nil {
				return err
			}
			order = o
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (e *Engine) createInTx(ctx context.Context, store repository.Store, in CreateOrderInput, orderID string) (*entity.Order, error) {
	now := e.now()
	orderDate := now
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}
	isSale := in.Type == entity.OrderTypeSale

	// 1. Tercero (se bloquea antes que los ítems)
	cp, err := e.resolveCounterparty(ctx, store, in, now)
	if err != nil {
		return nil, err
	}

	// 2. Bloqueo de ítems en orden ascendente de id
	ids := make([]string, 0, len(in.Lines))
	requested := make(map[string]int64, len(in.Lines))
	for _, l := range in.Lines {
		if _, ok := requested[l.ItemID]; !ok {
			ids = append(ids, l.ItemID)
		}
		requested[l.ItemID] += l.Quantity
	}
	sort.Strings(ids)
	locked, err := store.Items.LockForUpdate(ctx, ids)
	if err != nil {
		return nil, domain.Storage("bloquear ítems", err)
	}
	for _, l := range in.Lines {
		if it := locked[l.ItemID]; it == nil || !it.Active {
			return nil, domain.Errorf(domain.ErrNotFound, "ítem %s", l.ItemID)
		}
	}

	// 3. Líneas y totales
	lines := make([]*entity.OrderItem, 0, len(in.Lines))
	subtotal := decimal.Zero
	for _, l := range in.Lines {
		item := locked[l.ItemID]
		price := item.SellingPrice
		if !isSale {
			price = item.CostPrice
		}
		if l.UnitPrice != nil {
			price = *l.UnitPrice
		}
		// El total de línea se guarda a centavos; el subtotal suma los valores ya redondeados.
		lineTotal := domain.RoundMoney(price.Mul(decimal.NewFromInt(l.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		lines = append(lines, &entity.OrderItem{
			ID:         uuid.New().String(),
			OrderID:    orderID,
			ItemID:     l.ItemID,
			Quantity:   l.Quantity,
			UnitPrice:  price,
			TotalPrice: lineTotal,
		})
	}
	taxAmount := domain.RoundMoney(subtotal.Mul(in.TaxRate).Div(hundred))
	total := subtotal.Add(taxAmount)

	// 4. Pago inicial dentro de [0, total]
	if in.PaidAmount.GreaterThan(total) {
		return nil, domain.Errorf(domain.ErrInvalidPayment,
			"el monto pagado %s supera el total %s", in.PaidAmount.StringFixed(2), total.StringFixed(2))
	}

	// 5. Stock suficiente (solo ventas), agregado por ítem
	if isSale {
		checked := make(map[string]bool, len(ids))
		for _, l := range in.Lines {
			if checked[l.ItemID] {
				continue
			}
			checked[l.ItemID] = true
			item := locked[l.ItemID]
			if requested[l.ItemID] > item.CurrentStock {
				return nil, &domain.InsufficientStockError{
					ItemID:    item.ID,
					ItemName:  item.Name,
					Available: item.CurrentStock,
					Requested: requested[l.ItemID],
				}
			}
		}
	}

	remaining := total.Sub(in.PaidAmount)
	if isSale && cp != nil && remaining.IsPositive() && cp.ExceedsCreditLimit(remaining) {
		return nil, domain.Errorf(domain.ErrCreditLimitExceeded,
			"%s: saldo %s + %s supera el límite %s", cp.Name,
			cp.CurrentBalance.StringFixed(2), remaining.StringFixed(2), cp.CreditLimit.StringFixed(2))
	}

	// 6. Estado inicial
	status := entity.OrderStatusPending
	if isSale {
		status = domaininv.SaleStatus(in.PaidAmount, total)
	}

	number, err := e.numbers.Next(ctx, store, in.Type)
	if err != nil {
		return nil, err
	}

	order := &entity.Order{
		ID:            orderID,
		Type:          in.Type,
		OrderNumber:   number,
		OrderDate:     orderDate,
		Status:        status,
		Subtotal:      subtotal,
		TaxRate:       in.TaxRate,
		TaxAmount:     taxAmount,
		TotalAmount:   total,
		PaidAmount:    in.PaidAmount,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		CreatedBy:     in.Actor,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if cp != nil {
		id := cp.ID
		order.CounterpartyID = &id
	}
	if err := store.Orders.Create(ctx, order); err != nil {
		return nil, domain.Storage("guardar orden", err)
	}
	if err := store.Orders.CreateItems(ctx, lines); err != nil {
		return nil, domain.Storage("guardar líneas", err)
	}

	// 7. Salida de stock por línea (ventas)
	if isSale {
		for _, l := range lines {
			if _, err := e.ledger.RecordTransaction(ctx, store, inventory.LedgerEntry{
				ItemID:         l.ItemID,
				Type:           entity.TransactionTypeSale,
				ReferenceID:    orderID,
				QuantityChange: -l.Quantity,
				Actor:          in.Actor,
			}); err != nil {
				return nil, err
			}
		}
	}

	// 8. Pago inicial
	if in.PaidAmount.IsPositive() {
		if err := store.Payments.Create(ctx, &entity.Payment{
			ID:            uuid.New().String(),
			ReferenceType: in.Type,
			ReferenceID:   orderID,
			Amount:        in.PaidAmount,
			Method:        in.PaymentMethod,
			PaymentDate:   orderDate,
			CreatedBy:     in.Actor,
			CreatedAt:     now,
		}); err != nil {
			return nil, domain.Storage("guardar pago", err)
		}
	}

	// 9. Lo no pagado pasa a ser deuda del tercero (por cobrar o por pagar)
	if cp != nil && remaining.IsPositive() {
		if err := store.Counterparties.AdjustBalance(ctx, cp.ID, remaining); err != nil {
			return nil, domain.Storage("actualizar saldo", err)
		}
	}
	return order, nil
}

// resolveCounterparty bloquea el tercero indicado o, en ventas sin tercero pero con nombre
// o teléfono, reutiliza el cliente con ese teléfono o crea uno mínimo.
func (e *Engine) resolveCounterparty(ctx context.Context, store repository.Store, in CreateOrderInput, now time.Time) (*entity.Counterparty, error) {
	kind := entity.CounterpartyKindFor(in.Type)
	if in.CounterpartyID != "" {
		cp, err := store.Counterparties.GetForUpdate(ctx, in.CounterpartyID)
		if err != nil {
			return nil, domain.Storage("bloquear tercero", err)
		}
		if cp == nil || !cp.Active {
			return nil, domain.Errorf(domain.ErrNotFound, "tercero %s", in.CounterpartyID)
		}
		if cp.Kind != kind {
			return nil, domain.NewValidationError("el tercero %s no es un %s", cp.ID, kind)
		}
		return cp, nil
	}
	if in.Type != entity.OrderTypeSale || (in.CounterpartyName == "" && in.CounterpartyPhone == "") {
		return nil, nil
	}

	phone := contact.NormalizePhone(in.CounterpartyPhone, e.phoneRegion)
	if phone != "" {
		existing, err := store.Counterparties.FindByPhone(ctx, kind, phone)
		if err != nil {
			return nil, domain.Storage("buscar cliente", err)
		}
		if existing != nil {
			cp, err := store.Counterparties.GetForUpdate(ctx, existing.ID)
			if err != nil {
				return nil, domain.Storage("bloquear tercero", err)
			}
			if cp != nil {
				return cp, nil
			}
		}
	}
	name := in.CounterpartyName
	if name == "" {
		name = phone
	}
	cp := &entity.Counterparty{
		ID:        uuid.New().String(),
		Kind:      kind,
		Name:      name,
		Phone:     phone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.Counterparties.Create(ctx, cp); err != nil {
		return nil, domain.Storage("crear cliente", err)
	}
	return cp, nil
}

// lockKey toma el candado distribuido de la clave si hay locker configurado.
func (e *Engine) lockKey(ctx context.Context, scope, key string) (func(), error) {
	if e.locker == nil {
		return func() {}, nil
	}
	return e.locker.Lock(ctx, "idempotency:"+scope+":"+key, e.lockTTL)
}
