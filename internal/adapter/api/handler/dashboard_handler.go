package handler

import (
	"github.com/labstack/echo/v4"

	"bazaarflow/internal/usecase"
	"bazaarflow/pkg/response"
)

type DashboardHandler struct {
	dashboardUseCase *usecase.DashboardUseCase
}

func NewDashboardHandler(dashboardUseCase *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{
		dashboardUseCase: dashboardUseCase,
	}
}

func (h *DashboardHandler) GetStats(c echo.Context) error {
	userID := c.Get("uid").(string)

	stats, err := h.dashboardUseCase.GetStats(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}
