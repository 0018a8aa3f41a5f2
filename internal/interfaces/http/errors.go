package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
)

type errorMapping struct {
	kind   error
	status int
	code   string
}

// Orden relevante: el primer tipo que coincide gana.
var errorMappings = []errorMapping{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrAlreadyReceived, fiber.StatusConflict, "ALREADY_RECEIVED"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInvalidAdjustment, fiber.StatusUnprocessableEntity, "INVALID_ADJUSTMENT"},
	{domain.ErrInvalidPayment, fiber.StatusUnprocessableEntity, "INVALID_PAYMENT"},
	{domain.ErrOverpayment, fiber.StatusUnprocessableEntity, "OVERPAYMENT"},
	{domain.ErrCreditLimitExceeded, fiber.StatusUnprocessableEntity, "CREDIT_LIMIT"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrStorage, fiber.StatusServiceUnavailable, "STORAGE"},
}

// respondError traduce un error de dominio a status + dto.ErrorResponse.
// Los errores de almacenamiento e internos se registran; su detalle no se expone.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: verr.Error(), Details: verr.Details})
	}
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: stockErr.Error(),
			Details: map[string]string{
				"item_id":   stockErr.ItemID,
				"available": strconv.FormatInt(stockErr.Available, 10),
				"requested": strconv.FormatInt(stockErr.Requested, 10),
			},
		})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	for _, m := range errorMappings {
		if !errors.Is(err, m.kind) {
			continue
		}
		if m.status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("error de almacenamiento")
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: "almacenamiento no disponible, intente más tarde"})
		}
		return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
