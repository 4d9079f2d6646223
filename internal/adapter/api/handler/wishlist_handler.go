package handler

import (
	"github.com/labstack/echo/v4"

	"bazaarflow/internal/usecase"
	"bazaarflow/pkg/response"
)

type WishlistHandler struct {
	wishlistUseCase *usecase.WishlistUseCase
}

func NewWishlistHandler(wishlistUseCase *usecase.WishlistUseCase) *WishlistHandler {
	return &WishlistHandler{
		wishlistUseCase: wishlistUseCase,
	}
}

type addWishlistRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
}

func (h *WishlistHandler) AddToWishlist(c echo.Context) error {
	var req addWishlistRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	item, err := h.wishlistUseCase.AddToWishlist(c.Request().Context(), userID, req.ListingID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}

func (h *WishlistHandler) GetWishlist(c echo.Context) error {
	userID := c.Get("uid").(string)

	entries, err := h.wishlistUseCase.GetWishlist(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, entries)
}

func (h *WishlistHandler) RemoveFromWishlist(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.wishlistUseCase.RemoveFromWishlist(c.Request().Context(), userID, c.Param("listingId")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "removed"})
}
