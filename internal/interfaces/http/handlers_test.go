package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/orders"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/infrastructure/export"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
	"github.com/jhoicas/pos-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/pos-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pos-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación completa sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type apiClient struct {
	t      *testing.T
	app    *fiber.App
	tokens map[string]string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	db := memory.New()
	store := db.Store()
	writer := inventory.NewLedgerWriter()
	adjust := inventory.NewAdjustmentUseCase(db, writer, store.Adjustments)
	engine := orders.NewEngine(db, writer, orders.Options{})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ItemUC:         usecase.NewItemUseCase(db, store.Items, adjust),
		CounterpartyUC: usecase.NewCounterpartyUseCase(store.Counterparties, "CO"),
		Adjustments:    adjust,
		Ledger:         inventory.NewLedgerUseCase(db, inventory.NewRegistry(store.Items), store.Ledger, export.NewLedgerExcelExporter()),
		Replenishment:  inventory.NewReplenishmentUseCase(store.Items, store.Ledger),
		Orders:         engine,
		OrderQuery:     orders.NewQueryUseCase(store.Orders, store.Payments),
		OrderPDF:       orders.NewPDFUseCase(store.Orders, store.Payments, store.Items, store.Counterparties, pdf.NewReceiptGenerator("pos-api")),
		ServiceName:    "pos-api",
		JWTSecret:      testJWTSecret,
		JWTIssuer:      testIssuer,
		Logger:         zerolog.Nop(),
	})

	tokens := map[string]string{}
	for _, role := range []string{pkgjwt.RoleAdmin, pkgjwt.RoleBodeguero, pkgjwt.RoleVendedor} {
		tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
		require.NoError(t, err)
		tokens[role] = "Bearer " + tok
	}
	return &apiClient{t: t, app: app, tokens: tokens}
}

// do envía la petición como role y devuelve status y body.
func (a *apiClient) do(role, method, path string, body any, headers ...string) (int, []byte, http.Header) {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", a.tokens[role])
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp.StatusCode, out, resp.Header
}

func decode(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m), string(b))
	return m
}

func (a *apiClient) createItem(sku string, stock int) string {
	a.t.Helper()
	status, body, _ := a.do(pkgjwt.RoleBodeguero, http.MethodPost, "/api/items", map[string]any{
		"sku": sku, "name": "Ítem " + sku, "unit": "und",
		"cost_price": "60", "selling_price": "100", "tax_rate": "0",
		"reorder_level": 2, "initial_stock": stock,
	})
	require.Equal(a.t, http.StatusCreated, status, string(body))
	return decode(a.t, body)["id"].(string)
}

func (a *apiClient) currentStock(id string) float64 {
	a.t.Helper()
	status, body, _ := a.do(pkgjwt.RoleVendedor, http.MethodGet, "/api/items/"+id, nil)
	require.Equal(a.t, http.StatusOK, status, string(body))
	return decode(a.t, body)["current_stock"].(float64)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_Publico(t *testing.T) {
	api := newAPI(t)
	status, body, _ := api.do("", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", decode(t, body)["status"])
}

func TestItems_CrearConStockInicialYConciliar(t *testing.T) {
	api := newAPI(t)
	id := api.createItem("CAFE-500", 10)
	assert.Equal(t, float64(10), api.currentStock(id))

	status, body, _ := api.do(pkgjwt.RoleBodeguero, http.MethodGet, "/api/items/"+id+"/reconciliation", nil)
	require.Equal(t, http.StatusOK, status)
	rec := decode(t, body)
	assert.Equal(t, true, rec["consistent"])
	assert.Equal(t, float64(10), rec["ledger_sum"])

	status, body, _ = api.do(pkgjwt.RoleBodeguero, http.MethodGet, "/api/items/"+id+"/ledger", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode(t, body)["items"], 1)
}

func TestItems_Validacion400ConDetalle(t *testing.T) {
	api := newAPI(t)
	status, body, _ := api.do(pkgjwt.RoleAdmin, http.MethodPost, "/api/items", map[string]any{"name": "Sin SKU", "unit": "und"})
	require.Equal(t, http.StatusBadRequest, status)
	resp := decode(t, body)
	assert.Equal(t, "VALIDATION", resp["code"])
	assert.Equal(t, "required", resp["details"].(map[string]any)["sku"])
}

func TestItems_SKUDuplicado409(t *testing.T) {
	api := newAPI(t)
	api.createItem("DUP-1", 0)
	status, body, _ := api.do(pkgjwt.RoleAdmin, http.MethodPost, "/api/items", map[string]any{"sku": "DUP-1", "name": "Otro", "unit": "und"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", decode(t, body)["code"])
}

func TestItems_LimiteFueraDeRango400(t *testing.T) {
	api := newAPI(t)
	status, _, _ := api.do(pkgjwt.RoleAdmin, http.MethodGet, "/api/items?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAjustes_DecrementoMayorAlStock422(t *testing.T) {
	api := newAPI(t)
	id := api.createItem("AJ-1", 3)

	status, body, _ := api.do(pkgjwt.RoleBodeguero, http.MethodPost, "/api/inventory/adjustments", map[string]any{
		"item_id": id, "adjustment_type": "decrease", "quantity": 5, "reason": "merma",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_ADJUSTMENT", decode(t, body)["code"])

	status, body, _ = api.do(pkgjwt.RoleBodeguero, http.MethodPost, "/api/inventory/adjustments", map[string]any{
		"item_id": id, "adjustment_type": "correction", "quantity": 8, "reason": "conteo físico",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.Equal(t, float64(5), decode(t, body)["quantity_change"])
	assert.Equal(t, float64(8), api.currentStock(id))

	// vendedor no ajusta inventario
	status, _, _ = api.do(pkgjwt.RoleVendedor, http.MethodPost, "/api/inventory/adjustments", map[string]any{
		"item_id": id, "adjustment_type": "increase", "quantity": 1,
	})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestVentas_FlujoCompleto(t *testing.T) {
	api := newAPI(t)
	id := api.createItem("VEN-1", 10)

	status, body, _ := api.do(pkgjwt.RoleVendedor, http.MethodPost, "/api/sales", map[string]any{
		"items":          []map[string]any{{"item_id": id, "quantity": 3}},
		"payment_method": "efectivo",
		"paid_amount":    "100",
	}, "Idempotency-Key", "venta-1")
	require.Equal(t, http.StatusCreated, status, string(body))
	sale := decode(t, body)
	saleID := sale["id"].(string)
	assert.Equal(t, "SO-000001", sale["order_number"])
	assert.Equal(t, "300", sale["total_amount"])
	assert.Equal(t, "partial", sale["payment_status"])
	assert.Equal(t, float64(7), api.currentStock(id))

	// Repetición con la misma clave: misma orden, sin nuevo descuento de stock.
	status, body, _ = api.do(pkgjwt.RoleVendedor, http.MethodPost, "/api/sales", map[string]any{
		"items":          []map[string]any{{"item_id": id, "quantity": 3}},
		"payment_method": "efectivo",
		"paid_amount":    "100",
	}, "Idempotency-Key", "venta-1")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, saleID, decode(t, body)["id"])
	assert.Equal(t, float64(7), api.currentStock(id))

	// Sobrepago
	status, body, _ = api.do(pkgjwt.RoleVendedor, http.MethodPost, "/api/sales/"+saleID+"/payments", map[string]any{"amount": "500"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "OVERPAYMENT", decode(t, body)["code"])

	status, body, _ = api.do(pkgjwt.RoleVendedor, http.MethodPost, "/api/sales/"+saleID+"/payments", map[string]any{"amount": "200", "payment_method": "tarjeta"})
	require.Equal(t, http.StatusCreated, status, string(body))
	order := decode(t, body)["order"].(map[string]any)
	assert.Equal(t, "completed", order["status"])
	assert.Equal(t, "paid", order["payment_status"])

	status, body, _ = api.do(pkgjwt.RoleBodeguero, http.MethodGet, "/api/sales/"+saleID, nil)
	require.Equal(t, http.StatusOK, status)
	detail := decode(t, body)
	assert.Len(t, detail["items"], 1)
	assert.Len(t, detail["payments"], 2)

	status, _, hdr := api.do(pkgjwt.RoleVendedor, http.MethodGet, "/api/sales/"+saleID+"/pdf", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/pdf", hdr.Get("Content-Type"))
	assert.Contains(t, hdr.Get("Content-Disposition"), "orden_SO-000001.pdf")

	// Una venta no es visible como compra.
	status, _, _ = api.do(pkgjwt.RoleAdmin, http.MethodGet, "/api/purchases/"+saleID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestVentas_StockInsuficiente409(t *testing.T) {
	api := newAPI(t)
	id := api.createItem("VEN-2", 2)

	status, body, _ := api.do(pkgjwt.RoleVendedor, http.MethodPost, "/api/sales", map[string]any{
		"items": []map[string]any{{"item_id": id, "quantity": 5}},
	})
	require.Equal(t, http.StatusConflict, status)
	resp := decode(t, body)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp["code"])
	details := resp["details"].(map[string]any)
	assert.Equal(t, id, details["item_id"])
	assert.Equal(t, "2", details["available"])
	assert.Equal(t, "5", details["requested"])
	assert.Equal(t, float64(2), api.currentStock(id))
}

func TestVentas_IdempotencyKeyConOtroContenido409(t *testing.T) {
	api := newAPI(t)
	id := api.createItem("VEN-3", 10)
	send := func(qty int) int {
		status, _, _ := api.do(pkgjwt.RoleVendedor, http.MethodPost, "/api/sales", map[string]any{
			"items": []map[string]any{{"item_id": id, "quantity": qty}},
		}, "Idempotency-Key", "clave-x")
		return status
	}
	assert.Equal(t, http.StatusCreated, send(1))
	assert.Equal(t, http.StatusConflict, send(2))
	assert.Equal(t, float64(9), api.currentStock(id))
}

func TestCompras_RecepcionYPagoAlProveedor(t *testing.T) {
	api := newAPI(t)
	id := api.createItem("COM-1", 0)

	// vendedor no gestiona compras
	status, _, _ := api.do(pkgjwt.RoleVendedor, http.MethodPost, "/api/purchases", map[string]any{
		"items": []map[string]any{{"item_id": id, "quantity": 1}},
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, body, _ := api.do(pkgjwt.RoleBodeguero, http.MethodPost, "/api/suppliers", map[string]any{"name": "Tostadora Andina", "tax_id": "800.197.268-4"})
	require.Equal(t, http.StatusCreated, status, string(body))
	supplierID := decode(t, body)["id"].(string)

	status, body, _ = api.do(pkgjwt.RoleBodeguero, http.MethodPost, "/api/purchases", map[string]any{
		"counterparty_id": supplierID,
		"items":           []map[string]any{{"item_id": id, "quantity": 5, "unit_price": "50"}},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	po := decode(t, body)
	poID := po["id"].(string)
	assert.Equal(t, "PO-000001", po["order_number"])
	assert.Equal(t, float64(0), api.currentStock(id))

	receive := func(qty int) (int, map[string]any) {
		status, body, _ := api.do(pkgjwt.RoleBodeguero, http.MethodPost, "/api/purchases/"+poID+"/receive", map[string]any{
			"items": []map[string]any{{"item_id": id, "received_quantity": qty}},
		})
		return status, decode(t, body)
	}
	status, resp := receive(2)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "partial", resp["status"])
	assert.Equal(t, float64(2), api.currentStock(id))

	status, resp = receive(5)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "received", resp["status"])
	assert.Equal(t, float64(5), api.currentStock(id))

	status, resp = receive(5)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_RECEIVED", resp["code"])

	status, body, _ = api.do(pkgjwt.RoleBodeguero, http.MethodGet, "/api/suppliers/"+supplierID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "250", decode(t, body)["current_balance"])

	status, body, _ = api.do(pkgjwt.RoleAdmin, http.MethodPost, "/api/purchases/"+poID+"/payments", map[string]any{"amount": "250"})
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.Equal(t, "received", decode(t, body)["order"].(map[string]any)["status"])

	status, body, _ = api.do(pkgjwt.RoleBodeguero, http.MethodGet, "/api/suppliers/"+supplierID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0", decode(t, body)["current_balance"])

	status, _, hdr := api.do(pkgjwt.RoleBodeguero, http.MethodGet, "/api/items/"+id+"/ledger/export", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, hdr.Get("Content-Disposition"), ".xlsx")
}

func TestOrdenes_NoExiste404(t *testing.T) {
	api := newAPI(t)
	status, body, _ := api.do(pkgjwt.RoleAdmin, http.MethodGet, "/api/sales/00000000-0000-0000-0000-0000000000ff", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decode(t, body)["code"])
}

func TestIDsMalFormados400(t *testing.T) {
	api := newAPI(t)
	id := api.createItem("ID-1", 5)

	status, body, _ := api.do(pkgjwt.RoleAdmin, http.MethodPost, "/api/sales", map[string]any{
		"items": []map[string]any{{"item_id": "abc", "quantity": 1}},
	})
	require.Equal(t, http.StatusBadRequest, status, string(body))
	resp := decode(t, body)
	assert.Equal(t, "VALIDATION", resp["code"])
	assert.Equal(t, "uuid", resp["details"].(map[string]any)["items[0].item_id"])

	status, body, _ = api.do(pkgjwt.RoleAdmin, http.MethodPost, "/api/sales", map[string]any{
		"counterparty_id": "abc",
		"items":           []map[string]any{{"item_id": id, "quantity": 1}},
	})
	require.Equal(t, http.StatusBadRequest, status, string(body))
	assert.Equal(t, "uuid", decode(t, body)["details"].(map[string]any)["counterparty_id"])
	assert.Equal(t, float64(5), api.currentStock(id))

	for _, path := range []string{
		"/api/items/abc",
		"/api/items/abc/ledger",
		"/api/sales/abc",
		"/api/customers/abc",
		"/api/inventory/adjustments?item_id=abc",
		"/api/sales?counterparty_id=abc",
	} {
		status, body, _ = api.do(pkgjwt.RoleAdmin, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.Equal(t, "VALIDATION", decode(t, body)["code"], path)
	}
}
