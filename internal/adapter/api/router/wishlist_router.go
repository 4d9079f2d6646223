package router

import (
	"github.com/labstack/echo/v4"

	"bazaarflow/internal/adapter/api/handler"
	"bazaarflow/internal/adapter/api/middleware"
)

func SetupWishlistRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	wishlistHandler := handler.GetWishlistHandler()

	wishlist := e.Group("/v1/wishlist")
	wishlist.Use(authMiddleware.Authenticate)
	wishlist.GET("", wishlistHandler.GetWishlist)
	wishlist.POST("", wishlistHandler.AddToWishlist)
	wishlist.DELETE("/:listingId", wishlistHandler.RemoveFromWishlist)
}
