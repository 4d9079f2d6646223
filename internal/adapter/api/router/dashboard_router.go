package router

import (
	"github.com/labstack/echo/v4"

	"bazaarflow/internal/adapter/api/handler"
	"bazaarflow/internal/adapter/api/middleware"
)

func SetupDashboardRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	dashboardHandler := handler.GetDashboardHandler()

	dashboard := e.Group("/v1/dashboard")
	dashboard.Use(authMiddleware.Authenticate)
	dashboard.GET("/stats", dashboardHandler.GetStats)
}
