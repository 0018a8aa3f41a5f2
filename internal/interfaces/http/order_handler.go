package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/orders"
)

// HeaderIdempotencyKey header opcional en creación de órdenes y registro de pagos.
const HeaderIdempotencyKey = "Idempotency-Key"

// OrderHandler maneja órdenes de un tipo (sale|purchase).
type OrderHandler struct {
	engine    *orders.Engine
	query     *orders.QueryUseCase
	pdf       *orders.PDFUseCase
	orderType string
	log       zerolog.Logger
}

// NewOrderHandler construye el handler para un tipo de orden.
func NewOrderHandler(engine *orders.Engine, query *orders.QueryUseCase, pdf *orders.PDFUseCase, orderType string, log zerolog.Logger) *OrderHandler {
	return &OrderHandler{engine: engine, query: query, pdf: pdf, orderType: orderType, log: log}
}

func idempotencyKey(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Get(HeaderIdempotencyKey))
}

// Create godoc
// @Summary      Crear orden de venta / compra
// @Description  Valida stock (ventas), descuenta o registra líneas, actualiza saldo del tercero y registra el pago inicial en una sola transacción.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                  false  "Clave de idempotencia"
// @Param        body             body    dto.CreateOrderRequest  true   "Orden"
// @Success      201  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
// @Router       /api/purchases [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.engine.CreateFromRequest(c.UserContext(), h.orderType, GetUserID(c), idempotencyKey(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Detalle de la orden con líneas y pagos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
// @Router       /api/purchases/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.query.Get(c.UserContext(), h.orderType, id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status           query  string  false  "pending|completed|partial|received"
// @Param        counterparty_id  query  string  false  "Cliente o proveedor"
// @Param        limit            query  int     false  "Límite"  default(20)
// @Param        offset           query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/sales [get]
// @Router       /api/purchases [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	counterpartyID, err := queryID(c, "counterparty_id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.query.List(c.UserContext(), h.orderType, c.Query("status"), counterpartyID, page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// RecordPayment godoc
// @Summary      Registrar pago
// @Description  Montos con máximo 2 decimales; nunca se recorta un pago mayor al saldo pendiente.
// @Description  En ventas la orden pasa a completed al quedar pagada. En compras el estado sigue
// @Description  la recepción (pending, partial, received) y el pago completo se refleja en payment_status=paid.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id               path    string                    true   "ID de la orden"
// @Param        Idempotency-Key  header  string                    false  "Clave de idempotencia"
// @Param        body             body    dto.RecordPaymentRequest  true   "Pago"
// @Success      201  {object}  dto.PaymentResultResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/payments [post]
// @Router       /api/purchases/{id}/payments [post]
func (h *OrderHandler) RecordPayment(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	var in dto.RecordPaymentRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.engine.RecordPaymentFromRequest(c.UserContext(), h.orderType, id, GetUserID(c), idempotencyKey(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Receive godoc
// @Summary      Recibir mercancía de una orden de compra
// @Description  Cantidades recibidas acumuladas por ítem; solo el incremento entra al inventario.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la orden de compra"
// @Param        body  body  dto.ReceiveRequest  true  "Cantidades recibidas"
// @Success      200   {object}  dto.OrderDetailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/receive [post]
func (h *OrderHandler) Receive(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	var in dto.ReceiveRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.engine.ReceiveFromRequest(c.UserContext(), id, GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Comprobante PDF de la orden
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/pdf [get]
// @Router       /api/purchases/{id}/pdf [get]
func (h *OrderHandler) DownloadPDF(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	data, filename, err := h.pdf.DownloadOrderPDF(c.UserContext(), h.orderType, id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
