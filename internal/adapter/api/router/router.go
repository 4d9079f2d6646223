package router

import (
	"github.com/labstack/echo/v4"

	"bazaarflow/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupListingRouter(e, authMiddleware)
	SetupBidRouter(e, authMiddleware)
	SetupOrderRouter(e, authMiddleware)
	SetupConversationRouter(e, authMiddleware, adminMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupDashboardRouter(e, authMiddleware)
	SetupWishlistRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
