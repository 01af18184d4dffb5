package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/CRM-api/internal/application/crm"
	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/pkg/validator"
)

// QuoteHandler maneja las peticiones HTTP de cotizaciones (protegido).
type QuoteHandler struct {
	quotes    *crm.QuoteUseCase
	lifecycle *crm.QuoteLifecycleUseCase
	archival  *crm.ArchivalUseCase
	followUps *crm.FollowUpUseCase
	v         *validator.Validator
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(
	quotes *crm.QuoteUseCase,
	lifecycle *crm.QuoteLifecycleUseCase,
	archival *crm.ArchivalUseCase,
	followUps *crm.FollowUpUseCase,
	v *validator.Validator,
) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, lifecycle: lifecycle, archival: archival, followUps: followUps, v: v}
}

// Create godoc
// @Summary      Crear cotización
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body      dto.CreateQuoteRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/quotes [post]
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.v.Struct(in); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.quotes.CreateQuote(c.UserContext(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener cotización
// @Tags         quotes
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id} [get]
func (h *QuoteHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.quotes.GetQuote(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateItems godoc
// @Summary      Reemplazar líneas
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path      string                       true  "ID de la cotización"
// @Param        body  body      dto.UpdateQuoteItemsRequest  true  "Líneas nuevas"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      423   {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/items [put]
func (h *QuoteHandler) UpdateItems(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateQuoteItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.v.Struct(in); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.quotes.UpdateQuoteItems(c.UserContext(), userID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Validate godoc
// @Summary      Validar borrador (DRAFT -> READY)
// @Tags         quotes
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/validate [post]
func (h *QuoteHandler) Validate(c *fiber.Ctx) error {
	return h.step(c, h.lifecycle.ValidateQuote)
}

// Send godoc
// @Summary      Enviar o reenviar cotización
// @Tags         quotes
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/send [post]
func (h *QuoteHandler) Send(c *fiber.Ctx) error {
	return h.step(c, h.lifecycle.SendQuote)
}

// Viewed godoc
// @Summary      Registrar apertura
// @Tags         quotes
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/viewed [post]
func (h *QuoteHandler) Viewed(c *fiber.Ctx) error {
	return h.step(c, h.lifecycle.MarkQuoteViewed)
}

func (h *QuoteHandler) step(c *fiber.Ctx, fn func(ctx context.Context, userID, quoteID string) (*dto.QuoteResponse, error)) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := fn(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Cambiar estado
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path      string                      true  "ID de la cotización"
// @Param        body  body      dto.TransitionQuoteRequest  true  "Estado destino"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      423   {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/status [post]
func (h *QuoteHandler) Transition(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.TransitionQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.v.Struct(in); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.lifecycle.TransitionQuote(c.UserContext(), userID, c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar o archivar cotización
// @Description  Sin force: borrador -> borrado, aceptada -> LEGAL_RETENTION, resto -> archivada en el sitio
// @Tags         quotes
// @Produce      json
// @Security     Bearer
// @Param        id     path      string  true   "ID de la cotización"
// @Param        force  query     bool    false  "Borrado físico"  default(false)
// @Success      200    {object}  dto.DeleteQuoteResponse
// @Failure      409    {object}  dto.ErrorResponse
// @Router       /api/quotes/{id} [delete]
func (h *QuoteHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.archival.DeleteQuote(c.UserContext(), userID, c.Params("id"), c.QueryBool("force", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Restore godoc
// @Summary      Restaurar cotización archivada
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path      string                   true  "ID de la cotización"
// @Param        body  body      dto.RestoreQuoteRequest  true  "Estado restaurado"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/restore [post]
func (h *QuoteHandler) Restore(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.RestoreQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.v.Struct(in); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.archival.RestoreQuote(c.UserContext(), userID, c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// FollowUp godoc
// @Summary      Urgencia de relance
// @Tags         quotes
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "ID de la cotización"
// @Success      200  {object}  dto.FollowUpResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/follow-up [get]
func (h *QuoteHandler) FollowUp(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.followUps.QuoteFollowUp(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PendingFollowUps godoc
// @Summary      Relances pendientes del usuario
// @Tags         quotes
// @Produce      json
// @Security     Bearer
// @Success      200  {array}  dto.FollowUpResponse
// @Router       /api/quotes/follow-ups [get]
func (h *QuoteHandler) PendingFollowUps(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.followUps.PendingFollowUps(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
