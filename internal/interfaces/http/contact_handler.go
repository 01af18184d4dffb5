package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/CRM-api/internal/application/crm"
	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/pkg/validator"
)

// ContactHandler maneja las peticiones HTTP de contactos (protegido).
type ContactHandler struct {
	contacts  *crm.ContactUseCase
	metrics   *crm.ContactMetricsUseCase
	quotes    *crm.QuoteUseCase
	archival  *crm.ArchivalUseCase
	followUps *crm.FollowUpUseCase
	v         *validator.Validator
}

// NewContactHandler construye el handler.
func NewContactHandler(
	contacts *crm.ContactUseCase,
	metrics *crm.ContactMetricsUseCase,
	quotes *crm.QuoteUseCase,
	archival *crm.ArchivalUseCase,
	followUps *crm.FollowUpUseCase,
	v *validator.Validator,
) *ContactHandler {
	return &ContactHandler{contacts: contacts, metrics: metrics, quotes: quotes, archival: archival, followUps: followUps, v: v}
}

// Create godoc
// @Summary      Crear contacto
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body      dto.CreateContactRequest  true  "Datos del contacto"
// @Success      201   {object}  dto.ContactResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/contacts [post]
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateContactRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.v.Struct(in); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.contacts.CreateContact(c.UserContext(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener contacto
// @Tags         contacts
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "ID del contacto"
// @Success      200  {object}  dto.ContactResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contacts/{id} [get]
func (h *ContactHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.contacts.GetContact(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar contacto
// @Description  Archiva las cotizaciones no borrador, borra los borradores y después el contacto, todo o nada
// @Tags         contacts
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "ID del contacto"
// @Success      200  {object}  dto.DeleteContactResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/contacts/{id} [delete]
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.archival.DeleteContact(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecomputeMetrics godoc
// @Summary      Recalcular métricas y clasificación
// @Tags         contacts
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "ID del contacto"
// @Success      200  {object}  dto.ContactMetricsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contacts/{id}/metrics [post]
func (h *ContactHandler) RecomputeMetrics(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.metrics.RecomputeContactMetrics(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Overview godoc
// @Summary      Resumen del contacto
// @Tags         contacts
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "ID del contacto"
// @Success      200  {object}  dto.ContactOverviewResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contacts/{id}/overview [get]
func (h *ContactHandler) Overview(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.contacts.ContactOverview(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Quotes godoc
// @Summary      Cotizaciones del contacto
// @Tags         contacts
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "ID del contacto"
// @Success      200  {array}   dto.QuoteSummary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contacts/{id}/quotes [get]
func (h *ContactHandler) Quotes(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.quotes.ListContactQuotes(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// FollowUps godoc
// @Summary      Relances pendientes del contacto
// @Tags         contacts
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "ID del contacto"
// @Success      200  {array}   dto.FollowUpResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contacts/{id}/follow-ups [get]
func (h *ContactHandler) FollowUps(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.followUps.ContactFollowUps(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
