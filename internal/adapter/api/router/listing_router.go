package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"bazaarflow/internal/adapter/api/handler"
	"bazaarflow/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	listingHandler := handler.GetListingHandler()

	listings := e.Group("/v1/listings")
	listings.GET("", listingHandler.ListListings)

	myListings := e.Group("/v1/my-listings")
	myListings.Use(authMiddleware.Authenticate)
	myListings.GET("", listingHandler.ListMyListings)
	myListings.POST("", listingHandler.CreateListing)
	myListings.PUT("/:id", listingHandler.UpdateListing)
	myListings.POST("/:id/close", listingHandler.CloseListing)
	myListings.DELETE("/:id", listingHandler.DeleteListing)
}

// SetupListingDetailRouter registers the public detail route with
// optional authentication: owners see their drafts and bidder emails,
// everyone else gets the public view.
func SetupListingDetailRouter(e *echo.Echo, authClient *auth.Client) {
	listingHandler := handler.GetListingHandler()
	bidHandler := handler.GetBidHandler()

	detail := e.Group("/v1/listings")
	detail.Use(VerifyToken(authClient))
	detail.GET("/:id", listingHandler.GetListing)
	detail.GET("/:id/bids", bidHandler.ListBidsForListing)
}
