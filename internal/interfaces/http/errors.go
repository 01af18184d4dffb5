package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/internal/domain"
	"github.com/jhoicas/CRM-api/pkg/validator"
)

// LocalError guarda el error interno para que RequestLogger lo registre.
const LocalError = "request_error"

// errorStatus traduce un error de dominio a (HTTP status, código). ErrQuoteLocked se evalúa
// antes que ErrInvalidTransition: una transición desde un estado bloqueado cumple ambos.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrQuoteLocked):
		return fiber.StatusLocked, "QUOTE_LOCKED"
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrEmptyQuote):
		return fiber.StatusUnprocessableEntity, "EMPTY_QUOTE"
	case errors.Is(err, domain.ErrLegalRetention):
		return fiber.StatusConflict, "LEGAL_RETENTION"
	case errors.Is(err, domain.ErrForeignKeyConflict):
		return fiber.StatusConflict, "HAS_ASSOCIATED_QUOTES"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// writeError responde con dto.ErrorResponse. Los 500 no exponen el detalle.
func writeError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		c.Locals(LocalError, err)
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func validationFailed(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Message(err)})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}
