package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/CRM-api/internal/application/crm"
	"github.com/jhoicas/CRM-api/internal/application/dto"
	"github.com/jhoicas/CRM-api/pkg/validator"
)

// FollowUpHandler expone la función de urgencia de seguimiento sin cotización asociada.
type FollowUpHandler struct {
	followUps *crm.FollowUpUseCase
	v         *validator.Validator
}

// NewFollowUpHandler construye el handler.
func NewFollowUpHandler(followUps *crm.FollowUpUseCase, v *validator.Validator) *FollowUpHandler {
	return &FollowUpHandler{followUps: followUps, v: v}
}

// Evaluate godoc
// @Summary      Calcular urgencia de relance
// @Tags         follow-up
// @Produce      json
// @Security     Bearer
// @Param        days    query     int     true  "Días desde el envío"
// @Param        status  query     string  true  "Estado de la cotización"
// @Success      200     {object}  dto.FollowUpResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/follow-up [get]
func (h *FollowUpHandler) Evaluate(c *fiber.Ctx) error {
	var q dto.FollowUpQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	if err := h.v.Struct(q); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.followUps.Evaluate(q.Days, q.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
