package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"bazaarflow/internal/domain/entity"
	"bazaarflow/internal/domain/repository"
	"bazaarflow/pkg/errors"
)

type ListingUseCase struct {
	listingRepo repository.ListingRepository
	bidRepo     repository.BidRepository
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	bidRepo repository.BidRepository,
) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		bidRepo:     bidRepo,
	}
}

type ListingImageInput struct {
	URL          string `json:"url" validate:"required,url"`
	DisplayOrder int    `json:"display_order"`
}

type CreateListingInput struct {
	Title         string              `json:"title" validate:"required,min=3,max=120"`
	Description   string              `json:"description" validate:"required"`
	Category      string              `json:"category" validate:"required"`
	StartingPrice float64             `json:"starting_price" validate:"required,gt=0"`
	BuyNowPrice   float64             `json:"buy_now_price" validate:"omitempty,gt=0"`
	Images        []ListingImageInput `json:"images"`
	Status        string              `json:"status" validate:"omitempty,oneof=active draft"`
}

type UpdateListingInput struct {
	Title       *string              `json:"title" validate:"omitempty,min=3,max=120"`
	Description *string              `json:"description"`
	Category    *string              `json:"category"`
	BuyNowPrice *float64             `json:"buy_now_price" validate:"omitempty,gt=0"`
	Images      *[]ListingImageInput `json:"images"`
}

func (uc *ListingUseCase) CreateListing(ctx context.Context, seller Identity, input CreateListingInput) (*entity.Listing, error) {
	if input.BuyNowPrice > 0 && input.BuyNowPrice <= input.StartingPrice {
		return nil, errors.BadRequest("Buy Now price must be greater than the starting price", nil)
	}

	status := input.Status
	if status == "" {
		status = entity.ListingStatusActive
	}

	listing := &entity.Listing{
		SellerID:      seller.ID,
		SellerName:    seller.Name,
		SellerEmail:   seller.Email,
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		Category:      input.Category,
		StartingPrice: input.StartingPrice,
		BuyNowPrice:   input.BuyNowPrice,
		Images:        buildImages(input.Images),
		Status:        status,
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

// ListingDetail bundles a listing with its bid history for the detail
// page: one fetch instead of two polls.
type ListingDetail struct {
	Listing *entity.Listing `json:"listing"`
	Bids    []*entity.Bid   `json:"bids"`
}

func (uc *ListingUseCase) GetListing(ctx context.Context, requesterID, id string) (*ListingDetail, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Drafts are visible to their owner only.
	if listing.Status == entity.ListingStatusDraft && listing.SellerID != requesterID {
		return nil, errors.NotFound("Listing", nil)
	}

	bids, err := uc.bidRepo.ListByListingID(ctx, id, 10)
	if err != nil {
		return nil, err
	}

	if requesterID != listing.SellerID {
		for _, b := range bids {
			b.BidderEmail = ""
		}
	}

	if bids == nil {
		bids = []*entity.Bid{}
	}

	return &ListingDetail{Listing: listing, Bids: bids}, nil
}

type ListListingsInput struct {
	Category string
	Status   string
	Search   string
	Sort     string // newest, oldest, price-low, price-high, most-bids
	Limit    int
	Offset   int
}

func (uc *ListingUseCase) ListListings(ctx context.Context, input ListListingsInput) ([]*entity.Listing, int64, error) {
	filter := map[string]interface{}{}

	if input.Category != "" {
		filter["category"] = input.Category
	}

	// Browsing defaults to active listings; drafts never appear here.
	status := input.Status
	if status == "" || status == entity.ListingStatusDraft {
		status = entity.ListingStatusActive
	}
	filter["status"] = status

	sort := sortKey(input.Sort)

	var (
		listings []*entity.Listing
		total    int64
		err      error
	)
	if input.Search != "" {
		listings, total, err = uc.listingRepo.Search(ctx, input.Search, filter, sort, input.Limit, input.Offset)
	} else {
		listings, total, err = uc.listingRepo.List(ctx, filter, sort, input.Limit, input.Offset)
	}
	if err != nil {
		return nil, 0, err
	}

	if listings == nil {
		listings = []*entity.Listing{}
	}
	return listings, total, nil
}

func (uc *ListingUseCase) ListMyListings(ctx context.Context, sellerID, status string, limit, offset int) ([]*entity.Listing, int64, error) {
	listings, total, err := uc.listingRepo.ListBySellerID(ctx, sellerID, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if listings == nil {
		listings = []*entity.Listing{}
	}
	return listings, total, nil
}

func (uc *ListingUseCase) UpdateListing(ctx context.Context, requesterID, id string, input UpdateListingInput) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if listing.SellerID != requesterID {
		return nil, errors.Forbidden("You don't have permission to update this listing", nil)
	}

	if listing.Status != entity.ListingStatusActive && listing.Status != entity.ListingStatusDraft {
		return nil, errors.InvalidState("Sold or closed listings cannot be edited")
	}

	if input.Title != nil {
		listing.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.Category != nil {
		listing.Category = *input.Category
	}
	if input.BuyNowPrice != nil {
		if *input.BuyNowPrice <= listing.StartingPrice {
			return nil, errors.BadRequest("Buy Now price must be greater than the starting price", nil)
		}
		listing.BuyNowPrice = *input.BuyNowPrice
	}
	if input.Images != nil {
		listing.Images = buildImages(*input.Images)
	}

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

// CloseListing withdraws an active listing without a sale. Pending bids
// stay pending; they become unactionable because every settlement path
// requires an active listing.
func (uc *ListingUseCase) CloseListing(ctx context.Context, requesterID, id string) error {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if listing.SellerID != requesterID {
		return errors.Forbidden("You don't have permission to close this listing", nil)
	}

	return uc.listingRepo.CloseIfActive(ctx, id)
}

func (uc *ListingUseCase) DeleteListing(ctx context.Context, requesterID, id string) error {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if listing.SellerID != requesterID {
		return errors.Forbidden("You don't have permission to delete this listing", nil)
	}

	if listing.Status == entity.ListingStatusSold {
		return errors.InvalidState("Sold listings cannot be deleted")
	}

	return uc.listingRepo.Delete(ctx, id)
}

func buildImages(inputs []ListingImageInput) []entity.ListingImage {
	images := make([]entity.ListingImage, 0, len(inputs))
	for i, img := range inputs {
		order := img.DisplayOrder
		if order == 0 {
			order = i
		}
		images = append(images, entity.ListingImage{
			ID:           uuid.New().String(),
			URL:          img.URL,
			DisplayOrder: order,
		})
	}
	return images
}

// sortKey maps the public sort tokens (hyphenated, as the browse UI
// sends them) to store field_direction keys. Underscore variants are
// accepted for older clients.
func sortKey(sort string) string {
	switch sort {
	case "oldest":
		return "createdAt_asc"
	case "price-low", "price_low":
		return "startingPrice_asc"
	case "price-high", "price_high":
		return "startingPrice_desc"
	case "most-bids", "most_bids":
		return "bidCount_desc"
	default:
		return "createdAt_desc"
	}
}
