package handler

import (
	"github.com/labstack/echo/v4"

	"bazaarflow/internal/usecase"
	"bazaarflow/pkg/response"
	"bazaarflow/pkg/utils"
)

type BidHandler struct {
	biddingUseCase *usecase.BiddingUseCase
}

func NewBidHandler(biddingUseCase *usecase.BiddingUseCase) *BidHandler {
	return &BidHandler{
		biddingUseCase: biddingUseCase,
	}
}

type placeBidRequest struct {
	ListingID string  `json:"listing_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
}

func (h *BidHandler) PlaceBid(c echo.Context) error {
	var req placeBidRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	bidder := identityFromContext(c)

	bid, err := h.biddingUseCase.PlaceBid(c.Request().Context(), bidder, usecase.PlaceBidInput{
		ListingID: req.ListingID,
		Amount:    req.Amount,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, bid)
}

func (h *BidHandler) AcceptBid(c echo.Context) error {
	seller := identityFromContext(c)

	result, err := h.biddingUseCase.AcceptBid(c.Request().Context(), seller, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *BidHandler) RejectBid(c echo.Context) error {
	seller := identityFromContext(c)

	bid, err := h.biddingUseCase.RejectBid(c.Request().Context(), seller, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, bid)
}

func (h *BidHandler) BuyNow(c echo.Context) error {
	buyer := identityFromContext(c)

	order, err := h.biddingUseCase.BuyNow(c.Request().Context(), buyer, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, order)
}

func (h *BidHandler) ListBidsForListing(c echo.Context) error {
	requesterID, _ := c.Get("uid").(string)

	bids, err := h.biddingUseCase.ListBidsForListing(c.Request().Context(), requesterID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, bids)
}

func (h *BidHandler) ListMyBids(c echo.Context) error {
	bidderID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	bids, total, err := h.biddingUseCase.ListMyBids(c.Request().Context(), bidderID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, bids, total, pagination.Page, pagination.PageSize)
}
