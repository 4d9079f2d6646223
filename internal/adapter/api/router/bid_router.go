package router

import (
	"github.com/labstack/echo/v4"

	"bazaarflow/internal/adapter/api/handler"
	"bazaarflow/internal/adapter/api/middleware"
)

func SetupBidRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	bidHandler := handler.GetBidHandler()

	bids := e.Group("/v1/bids")
	bids.Use(authMiddleware.Authenticate)
	bids.POST("", bidHandler.PlaceBid)
	bids.GET("/my", bidHandler.ListMyBids)
	bids.POST("/:id/accept", bidHandler.AcceptBid)
	bids.POST("/:id/reject", bidHandler.RejectBid)

	buyNow := e.Group("/v1/listings")
	buyNow.Use(authMiddleware.Authenticate)
	buyNow.POST("/:id/buy-now", bidHandler.BuyNow)
}
