package handler

import (
	"github.com/labstack/echo/v4"

	"bazaarflow/internal/usecase"
)

var (
	listingHandler      *ListingHandler
	bidHandler          *BidHandler
	orderHandler        *OrderHandler
	conversationHandler *ConversationHandler
	notificationHandler *NotificationHandler
	dashboardHandler    *DashboardHandler
	wishlistHandler     *WishlistHandler
)

func Setup(
	listingUseCase *usecase.ListingUseCase,
	biddingUseCase *usecase.BiddingUseCase,
	orderUseCase *usecase.OrderUseCase,
	conversationUseCase *usecase.ConversationUseCase,
	notificationUseCase *usecase.NotificationUseCase,
	dashboardUseCase *usecase.DashboardUseCase,
	wishlistUseCase *usecase.WishlistUseCase,
) {
	listingHandler = NewListingHandler(listingUseCase)
	bidHandler = NewBidHandler(biddingUseCase)
	orderHandler = NewOrderHandler(orderUseCase)
	conversationHandler = NewConversationHandler(conversationUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
	dashboardHandler = NewDashboardHandler(dashboardUseCase)
	wishlistHandler = NewWishlistHandler(wishlistUseCase)
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetBidHandler() *BidHandler {
	return bidHandler
}

func GetOrderHandler() *OrderHandler {
	return orderHandler
}

func GetConversationHandler() *ConversationHandler {
	return conversationHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetDashboardHandler() *DashboardHandler {
	return dashboardHandler
}

func GetWishlistHandler() *WishlistHandler {
	return wishlistHandler
}

// identityFromContext builds the caller's identity from the values the
// auth middleware placed on the echo context.
func identityFromContext(c echo.Context) usecase.Identity {
	uid, _ := c.Get("uid").(string)
	name, _ := c.Get("name").(string)
	email, _ := c.Get("email").(string)

	if name == "" {
		name = "User"
	}

	return usecase.Identity{ID: uid, Name: name, Email: email}
}
