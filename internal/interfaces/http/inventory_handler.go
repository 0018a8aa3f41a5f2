package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
)

// InventoryHandler maneja ajustes de stock y la lista de reposición.
type InventoryHandler struct {
	adjust        *inventory.AdjustmentUseCase
	replenishment *inventory.ReplenishmentUseCase
	log           zerolog.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(adjust *inventory.AdjustmentUseCase, replenishment *inventory.ReplenishmentUseCase, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{adjust: adjust, replenishment: replenishment, log: log}
}

// Adjust godoc
// @Summary      Registrar ajuste de stock
// @Description  increase/decrease mueven el stock en quantity; correction lo fija en quantity.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustmentRequest  true  "Ajuste"
// @Success      201   {object}  dto.StockAdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.StockAdjustmentRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.adjust.AdjustFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAdjustments godoc
// @Summary      Ajustes de un ítem
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  true   "ID del ítem"
// @Param        limit    query  int     false  "Límite"  default(20)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200      {array}   dto.StockAdjustmentResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [get]
func (h *InventoryHandler) ListAdjustments(c *fiber.Ctx) error {
	itemID, err := queryID(c, "item_id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if itemID == "" {
		return respondError(c, h.log, &domain.ValidationError{Message: "item_id es requerido", Details: map[string]string{"item_id": "required"}})
	}
	page, err := pageFromQuery(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.adjust.ListByItem(c.UserContext(), itemID, page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Ítems activos en o bajo su punto de reorden, priorizados por margen y rotación.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) ReplenishmentList(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
