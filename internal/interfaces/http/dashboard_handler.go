package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/application/usecase"
)

// DashboardHandler KPIs del tablero.
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// KPIs godoc
// @Summary      KPIs de inventario de la organización
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardKPIs
// @Router       /api/v1/dashboard/kpis [get]
func (h *DashboardHandler) KPIs(c *fiber.Ctx) error {
	out, err := h.uc.KPIs(c.Context(), GetOrgID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
