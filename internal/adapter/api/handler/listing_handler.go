package handler

import (
	"github.com/labstack/echo/v4"

	"bazaarflow/internal/usecase"
	"bazaarflow/pkg/response"
	"bazaarflow/pkg/utils"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

type listingImageRequest struct {
	URL          string `json:"url" validate:"required,url"`
	DisplayOrder int    `json:"display_order"`
}

type createListingRequest struct {
	Title         string                `json:"title" validate:"required,min=3,max=120"`
	Description   string                `json:"description" validate:"required"`
	Category      string                `json:"category" validate:"required"`
	StartingPrice float64               `json:"starting_price" validate:"required,gt=0"`
	BuyNowPrice   float64               `json:"buy_now_price" validate:"omitempty,gt=0"`
	Images        []listingImageRequest `json:"images"`
	Status        string                `json:"status" validate:"omitempty,oneof=active draft"`
}

type updateListingRequest struct {
	Title       *string                `json:"title" validate:"omitempty,min=3,max=120"`
	Description *string                `json:"description"`
	Category    *string                `json:"category"`
	BuyNowPrice *float64               `json:"buy_now_price" validate:"omitempty,gt=0"`
	Images      *[]listingImageRequest `json:"images"`
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	seller := identityFromContext(c)

	listing, err := h.listingUseCase.CreateListing(c.Request().Context(), seller, usecase.CreateListingInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		StartingPrice: req.StartingPrice,
		BuyNowPrice:   req.BuyNowPrice,
		Images:        convertImages(req.Images),
		Status:        req.Status,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	requesterID, _ := c.Get("uid").(string)

	detail, err := h.listingUseCase.GetListing(c.Request().Context(), requesterID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, detail)
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	listings, total, err := h.listingUseCase.ListListings(c.Request().Context(), usecase.ListListingsInput{
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
		Search:   c.QueryParam("q"),
		Sort:     c.QueryParam("sort"),
		Limit:    pagination.PageSize,
		Offset:   pagination.Offset,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, pagination.Page, pagination.PageSize)
}

func (h *ListingHandler) ListMyListings(c echo.Context) error {
	sellerID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	listings, total, err := h.listingUseCase.ListMyListings(
		c.Request().Context(), sellerID, c.QueryParam("status"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, pagination.Page, pagination.PageSize)
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	requesterID := c.Get("uid").(string)

	input := usecase.UpdateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		BuyNowPrice: req.BuyNowPrice,
	}
	if req.Images != nil {
		images := convertImages(*req.Images)
		input.Images = &images
	}

	listing, err := h.listingUseCase.UpdateListing(c.Request().Context(), requesterID, c.Param("id"), input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) CloseListing(c echo.Context) error {
	requesterID := c.Get("uid").(string)

	if err := h.listingUseCase.CloseListing(c.Request().Context(), requesterID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "closed"})
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	requesterID := c.Get("uid").(string)

	if err := h.listingUseCase.DeleteListing(c.Request().Context(), requesterID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}

func convertImages(reqs []listingImageRequest) []usecase.ListingImageInput {
	images := make([]usecase.ListingImageInput, len(reqs))
	for i, img := range reqs {
		images[i] = usecase.ListingImageInput{
			URL:          img.URL,
			DisplayOrder: img.DisplayOrder,
		}
	}
	return images
}
