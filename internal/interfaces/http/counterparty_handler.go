package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/usecase"
)

// CounterpartyHandler maneja clientes o proveedores según kind.
type CounterpartyHandler struct {
	uc   *usecase.CounterpartyUseCase
	kind string
	log  zerolog.Logger
}

// NewCounterpartyHandler construye el handler para un tipo de tercero (customer|supplier).
func NewCounterpartyHandler(uc *usecase.CounterpartyUseCase, kind string, log zerolog.Logger) *CounterpartyHandler {
	return &CounterpartyHandler{uc: uc, kind: kind, log: log}
}

// Create godoc
// @Summary      Crear cliente / proveedor
// @Tags         counterparties
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCounterpartyRequest  true  "Datos del tercero"
// @Success      201   {object}  dto.CounterpartyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
// @Router       /api/suppliers [post]
func (h *CounterpartyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCounterpartyRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.Create(c.UserContext(), h.kind, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener cliente / proveedor
// @Tags         counterparties
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.CounterpartyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
// @Router       /api/suppliers/{id} [get]
func (h *CounterpartyHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), h.kind, id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar clientes / proveedores activos
// @Tags         counterparties
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Nombre, NIT o teléfono"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.CounterpartyListResponse
// @Router       /api/customers [get]
// @Router       /api/suppliers [get]
func (h *CounterpartyHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.List(c.UserContext(), h.kind, c.Query("search"), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cliente / proveedor (el saldo es de solo lectura)
// @Tags         counterparties
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID"
// @Param        body  body  dto.UpdateCounterpartyRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.CounterpartyResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [put]
// @Router       /api/suppliers/{id} [put]
func (h *CounterpartyHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	var in dto.UpdateCounterpartyRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.Update(c.UserContext(), h.kind, id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar cliente / proveedor
// @Tags         counterparties
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [delete]
// @Router       /api/suppliers/{id} [delete]
func (h *CounterpartyHandler) Deactivate(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.uc.Deactivate(c.UserContext(), h.kind, id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
