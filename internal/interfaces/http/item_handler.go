package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/usecase"
)

// ItemHandler maneja las peticiones HTTP de ítems y su libro de inventario.
type ItemHandler struct {
	items  *usecase.ItemUseCase
	ledger *inventory.LedgerUseCase
	log    zerolog.Logger
}

// NewItemHandler construye el handler.
func NewItemHandler(items *usecase.ItemUseCase, ledger *inventory.LedgerUseCase, log zerolog.Logger) *ItemHandler {
	return &ItemHandler{items: items, ledger: ledger, log: log}
}

// Create godoc
// @Summary      Crear ítem
// @Description  El stock inicial se registra como ajuste "increase" en la misma transacción.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.items.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.items.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ítems
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Busca en nombre y SKU"
// @Param        active  query  bool    false  "Solo activos"  default(true)
// @Param        limit   query  int     false  "Límite"        default(20)
// @Param        offset  query  int     false  "Offset"        default(0)
// @Success      200     {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.items.List(c.UserContext(), c.Query("search"), c.QueryBool("active", true), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar ítem (nunca modifica el stock)
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	var in dto.UpdateItemRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.items.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar ítem
// @Tags         items
// @Security     Bearer
// @Param        id   path  string  true  "ID del ítem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Deactivate(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.items.Deactivate(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Ledger godoc
// @Summary      Libro de inventario del ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del ítem"
// @Param        from    query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.LedgerListResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/items/{id}/ledger [get]
func (h *ItemHandler) Ledger(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	from, to, err := dateRange(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	page, err := pageFromQuery(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.ledger.ListByItem(c.UserContext(), id, from, to, page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ExportLedger godoc
// @Summary      Exportar libro de inventario a Excel
// @Tags         items
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id    path   string  true   "ID del ítem"
// @Param        from  query  string  false  "Desde"
// @Param        to    query  string  false  "Hasta"
// @Success      200
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/ledger/export [get]
func (h *ItemHandler) ExportLedger(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	from, to, err := dateRange(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	data, filename, err := h.ledger.Export(c.UserContext(), id, from, to)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// Reconciliation godoc
// @Summary      Conciliación stock vs libro
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/reconciliation [get]
func (h *ItemHandler) Reconciliation(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.ledger.Reconcile(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = dateQuery(c, "from"); err != nil {
		return nil, nil, err
	}
	if to, err = dateQuery(c, "to"); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
