package usecase

import (
	"context"
	"fmt"
	"strconv"

	"bazaarflow/internal/domain/entity"
	"bazaarflow/internal/domain/repository"
	"bazaarflow/internal/infrastructure/ratelimit"
	"bazaarflow/pkg/errors"
	"bazaarflow/pkg/logger"
)

type BiddingUseCase struct {
	bidRepo       repository.BidRepository
	listingRepo   repository.ListingRepository
	orderRepo     repository.OrderRepository
	notifications *NotificationUseCase
	rateLimiter   *ratelimit.RateLimiter
}

func NewBiddingUseCase(
	bidRepo repository.BidRepository,
	listingRepo repository.ListingRepository,
	orderRepo repository.OrderRepository,
	notifications *NotificationUseCase,
	rateLimiter *ratelimit.RateLimiter,
) *BiddingUseCase {
	return &BiddingUseCase{
		bidRepo:       bidRepo,
		listingRepo:   listingRepo,
		orderRepo:     orderRepo,
		notifications: notifications,
		rateLimiter:   rateLimiter,
	}
}

type PlaceBidInput struct {
	ListingID string  `json:"listing_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
}

func (uc *BiddingUseCase) PlaceBid(ctx context.Context, bidder Identity, input PlaceBidInput) (*entity.Bid, error) {
	if uc.rateLimiter != nil {
		if allowed, retryAfter := uc.rateLimiter.Allow(bidder.ID, "place_bid"); !allowed {
			return nil, errors.TooManyRequests(
				fmt.Sprintf("Too many bids. Try again in %.0f seconds", retryAfter.Seconds()), nil)
		}
	}

	listing, err := uc.listingRepo.GetByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}

	if listing.Status != entity.ListingStatusActive {
		return nil, errors.InvalidState("This listing is no longer active")
	}

	if listing.SellerID == bidder.ID {
		return nil, errors.Forbidden("You cannot bid on your own listing", nil)
	}

	if minimum := listing.MinimumBid(); input.Amount < minimum {
		return nil, errors.BadRequest(fmt.Sprintf("Minimum bid is %s", formatAmount(minimum)), nil)
	}

	// ApplyBid re-checks the minimum against the live listing inside a
	// store transaction, so two concurrent bids at the same amount
	// cannot both become the current bid.
	if err := uc.listingRepo.ApplyBid(ctx, listing.ID, input.Amount); err != nil {
		return nil, err
	}

	bid := &entity.Bid{
		ListingID:   listing.ID,
		BidderID:    bidder.ID,
		BidderName:  bidder.Name,
		BidderEmail: bidder.Email,
		Amount:      input.Amount,
		Status:      entity.BidStatusPending,
	}

	if err := uc.bidRepo.Create(ctx, bid); err != nil {
		logger.SettlementInconsistency(listing.ID, "record-bid", err)
		return nil, err
	}

	uc.notifications.Notify(ctx, listing.SellerID, entity.NotificationTypeBid,
		"New bid received",
		fmt.Sprintf("%s placed a bid of %s on \"%s\"", bidder.Name, formatAmount(input.Amount), listing.Title),
		listing.ID)

	return bid, nil
}

// AcceptBidResult carries everything the seller's client needs to
// render the outcome of an acceptance in one response.
type AcceptBidResult struct {
	Bid     *entity.Bid     `json:"bid"`
	Listing *entity.Listing `json:"listing"`
	Order   *entity.Order   `json:"order"`
}

// AcceptBid runs the auction settlement workflow: mark the listing
// sold (the concurrency guard), accept the chosen bid, bulk-reject the
// remaining pending bids, and record the order. The listing transition
// comes first so that of two concurrent settlements exactly one
// proceeds past it; the loser observes a conflict before it has
// touched any bid.
func (uc *BiddingUseCase) AcceptBid(ctx context.Context, seller Identity, bidID string) (*AcceptBidResult, error) {
	bid, err := uc.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}

	listing, err := uc.listingRepo.GetByID(ctx, bid.ListingID)
	if err != nil {
		return nil, err
	}

	if listing.SellerID != seller.ID {
		return nil, errors.Forbidden("Only the seller can accept or reject bids", nil)
	}

	if listing.Status != entity.ListingStatusActive {
		return nil, errors.InvalidState("This listing is no longer active")
	}

	if bid.Status != entity.BidStatusPending {
		return nil, errors.InvalidState("This bid has already been processed")
	}

	sold, err := uc.listingRepo.MarkSoldIfActive(ctx, listing.ID, repository.SaleDetails{
		BuyerID:   bid.BidderID,
		BuyerName: bid.BidderName,
		Price:     bid.Amount,
		SaleType:  entity.SaleTypeAuction,
	})
	if err != nil {
		return nil, err
	}

	accepted, err := uc.bidRepo.UpdateStatusIfPending(ctx, bid.ID, entity.BidStatusAccepted, "")
	if err != nil {
		// The listing is already sold; the workflow cannot roll that
		// back, so record the partial state loudly and surface a
		// generic failure.
		logger.SettlementInconsistency(listing.ID, "accept-bid", err)
		return nil, errors.Internal("Failed to finalize sale", err)
	}

	rejected, err := uc.bidRepo.RejectPendingByListing(ctx, listing.ID, bid.ID, "")
	if err != nil {
		logger.SettlementInconsistency(listing.ID, "reject-losing-bids", err)
		rejected = nil
	}

	order := uc.buildOrder(sold, accepted.BidderID, accepted.BidderName, accepted.BidderEmail,
		accepted.Amount, entity.SaleTypeAuction, accepted.ID)
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		logger.SettlementInconsistency(listing.ID, "create-order", err)
		return nil, errors.Internal("Failed to record order", err)
	}

	uc.notifications.Notify(ctx, accepted.BidderID, entity.NotificationTypeAccepted,
		"Bid accepted",
		fmt.Sprintf("Your bid of %s on \"%s\" was accepted. Congratulations!",
			formatAmount(accepted.Amount), listing.Title),
		listing.ID)

	uc.notifyRejected(ctx, rejected, listing)

	return &AcceptBidResult{Bid: accepted, Listing: sold, Order: order}, nil
}

func (uc *BiddingUseCase) RejectBid(ctx context.Context, seller Identity, bidID string) (*entity.Bid, error) {
	bid, err := uc.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}

	listing, err := uc.listingRepo.GetByID(ctx, bid.ListingID)
	if err != nil {
		return nil, err
	}

	if listing.SellerID != seller.ID {
		return nil, errors.Forbidden("Only the seller can accept or reject bids", nil)
	}

	if listing.Status != entity.ListingStatusActive {
		return nil, errors.InvalidState("This listing is no longer active")
	}

	rejected, err := uc.bidRepo.UpdateStatusIfPending(ctx, bid.ID, entity.BidStatusRejected, "")
	if err != nil {
		return nil, err
	}

	uc.notifications.Notify(ctx, rejected.BidderID, entity.NotificationTypeRejected,
		"Bid rejected",
		fmt.Sprintf("Your bid of %s on \"%s\" was rejected",
			formatAmount(rejected.Amount), listing.Title),
		listing.ID)

	return rejected, nil
}

// BuyNow settles the listing at its buy-now price: same guard-first
// shape as AcceptBid, with every pending bid bulk-rejected since no
// bid wins.
func (uc *BiddingUseCase) BuyNow(ctx context.Context, buyer Identity, listingID string) (*entity.Order, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if listing.Status != entity.ListingStatusActive {
		return nil, errors.InvalidState("This listing is no longer available")
	}

	if listing.BuyNowPrice <= 0 {
		return nil, errors.BadRequest("This listing does not have a Buy Now option", nil)
	}

	if listing.SellerID == buyer.ID {
		return nil, errors.Forbidden("You cannot buy your own listing", nil)
	}

	sold, err := uc.listingRepo.MarkSoldIfActive(ctx, listing.ID, repository.SaleDetails{
		BuyerID:   buyer.ID,
		BuyerName: buyer.Name,
		Price:     listing.BuyNowPrice,
		SaleType:  entity.SaleTypeBuyNow,
	})
	if err != nil {
		return nil, err
	}

	order := uc.buildOrder(sold, buyer.ID, buyer.Name, buyer.Email,
		sold.BuyNowPrice, entity.SaleTypeBuyNow, "")
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		logger.SettlementInconsistency(listing.ID, "create-order", err)
		return nil, errors.Internal("Failed to record order", err)
	}

	rejected, err := uc.bidRepo.RejectPendingByListing(ctx, listing.ID, "", "Item was purchased via Buy Now")
	if err != nil {
		logger.SettlementInconsistency(listing.ID, "reject-pending-bids", err)
		rejected = nil
	}

	uc.notifications.Notify(ctx, listing.SellerID, entity.NotificationTypeSold,
		"Item sold",
		fmt.Sprintf("%s purchased \"%s\" for %s via Buy Now",
			buyer.Name, listing.Title, formatAmount(sold.BuyNowPrice)),
		listing.ID)

	uc.notifyRejected(ctx, rejected, listing)

	return order, nil
}

// ListBidsForListing returns all bids on the listing, highest first.
// Only the seller sees bidder emails.
func (uc *BiddingUseCase) ListBidsForListing(ctx context.Context, requesterID, listingID string) ([]*entity.Bid, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	bids, err := uc.bidRepo.ListByListingID(ctx, listingID, 0)
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
	return bids, nil
}

func (uc *BiddingUseCase) ListMyBids(ctx context.Context, bidderID string, limit, offset int) ([]*entity.Bid, int64, error) {
	bids, total, err := uc.bidRepo.ListByBidderID(ctx, bidderID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if bids == nil {
		bids = []*entity.Bid{}
	}
	return bids, total, nil
}

func (uc *BiddingUseCase) buildOrder(listing *entity.Listing, buyerID, buyerName, buyerEmail string, amount float64, saleType, bidID string) *entity.Order {
	image := ""
	if len(listing.Images) > 0 {
		image = listing.Images[0].URL
	}

	return &entity.Order{
		ListingID:    listing.ID,
		ListingTitle: listing.Title,
		ListingImage: image,
		SellerID:     listing.SellerID,
		SellerName:   listing.SellerName,
		SellerEmail:  listing.SellerEmail,
		BuyerID:      buyerID,
		BuyerName:    buyerName,
		BuyerEmail:   buyerEmail,
		Amount:       amount,
		Type:         saleType,
		Status:       "completed",
		BidID:        bidID,
	}
}

func (uc *BiddingUseCase) notifyRejected(ctx context.Context, rejected []*entity.Bid, listing *entity.Listing) {
	for _, r := range rejected {
		uc.notifications.Notify(ctx, r.BidderID, entity.NotificationTypeRejected,
			"Bid rejected",
			fmt.Sprintf("Your bid of %s on \"%s\" was rejected. The item has been sold.",
				formatAmount(r.Amount), listing.Title),
			listing.ID)
	}
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
