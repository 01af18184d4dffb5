package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/CRM-api/internal/application/crm"
	"github.com/jhoicas/CRM-api/internal/application/dto"
)

// ArchiveHandler consulta de snapshots de conservación legal (protegido, solo lectura).
type ArchiveHandler struct {
	archival *crm.ArchivalUseCase
}

// NewArchiveHandler construye el handler.
func NewArchiveHandler(archival *crm.ArchivalUseCase) *ArchiveHandler {
	return &ArchiveHandler{archival: archival}
}

// GetByQuoteID godoc
// @Summary      Copia archivada de una cotización
// @Tags         archives
// @Produce      json
// @Security     Bearer
// @Param        quoteId  path      string  true  "ID de la cotización original"
// @Success      200      {object}  dto.ArchivedQuoteResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/archives/{quoteId} [get]
func (h *ArchiveHandler) GetByQuoteID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	quoteID := c.Params("quoteId")
	if quoteID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "quoteId es requerido"})
	}
	out, err := h.archival.GetArchivedQuote(c.UserContext(), userID, quoteID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar copias archivadas
// @Tags         archives
// @Produce      json
// @Security     Bearer
// @Param        contact_id  query     string  false  "Filtrar por contacto eliminado"
// @Success      200         {array}   dto.ArchivedQuoteResponse
// @Router       /api/archives [get]
func (h *ArchiveHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.archival.ListArchivedQuotes(c.UserContext(), userID, c.Query("contact_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
