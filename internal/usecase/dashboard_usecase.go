package usecase

import (
	"context"

	"bazaarflow/internal/domain/entity"
	"bazaarflow/internal/domain/repository"
)

type DashboardUseCase struct {
	listingRepo repository.ListingRepository
	bidRepo     repository.BidRepository
	orderRepo   repository.OrderRepository
}

func NewDashboardUseCase(
	listingRepo repository.ListingRepository,
	bidRepo repository.BidRepository,
	orderRepo repository.OrderRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		listingRepo: listingRepo,
		bidRepo:     bidRepo,
		orderRepo:   orderRepo,
	}
}

// DashboardStats aggregates a user's marketplace activity for the
// account overview page. Monetary totals come from orders, which are
// the authoritative settlement records.
type DashboardStats struct {
	ActiveListings int64   `json:"active_listings"`
	SoldListings   int64   `json:"sold_listings"`
	TotalEarned    float64 `json:"total_earned"`
	TotalSpent     float64 `json:"total_spent"`
	PendingBids    int     `json:"pending_bids"`
	ItemsBought    int     `json:"items_bought"`
	ItemsSold      int     `json:"items_sold"`

	RecentListings []*entity.Listing `json:"recent_listings"`
	RecentBids     []*DashboardBid   `json:"recent_bids"`
	CategoryCounts map[string]int    `json:"category_counts"`
}

// DashboardBid is a bid annotated with the listing it was placed on,
// so the overview page can render it without extra lookups. Listing
// fields stay empty when the listing has since been deleted.
type DashboardBid struct {
	*entity.Bid
	ListingTitle string `json:"listing_title,omitempty"`
	ListingImage string `json:"listing_image,omitempty"`
}

func (uc *DashboardUseCase) GetStats(ctx context.Context, userID string) (*DashboardStats, error) {
	stats := &DashboardStats{CategoryCounts: make(map[string]int)}

	listings, _, err := uc.listingRepo.ListBySellerID(ctx, userID, "", 0, 0)
	if err != nil {
		return nil, err
	}
	for _, l := range listings {
		switch l.Status {
		case entity.ListingStatusActive:
			stats.ActiveListings++
		case entity.ListingStatusSold:
			stats.SoldListings++
		}
		stats.CategoryCounts[l.Category]++
	}

	stats.RecentListings = listings
	if len(stats.RecentListings) > 5 {
		stats.RecentListings = stats.RecentListings[:5]
	}
	if stats.RecentListings == nil {
		stats.RecentListings = []*entity.Listing{}
	}

	sales, err := uc.orderRepo.ListByUser(ctx, userID, "seller")
	if err != nil {
		return nil, err
	}
	stats.ItemsSold = len(sales)
	for _, o := range sales {
		stats.TotalEarned += o.Amount
	}

	purchases, err := uc.orderRepo.ListByUser(ctx, userID, "buyer")
	if err != nil {
		return nil, err
	}
	stats.ItemsBought = len(purchases)
	for _, o := range purchases {
		stats.TotalSpent += o.Amount
	}

	bids, _, err := uc.bidRepo.ListByBidderID(ctx, userID, 0, 0)
	if err != nil {
		return nil, err
	}
	for _, b := range bids {
		if b.Status == entity.BidStatusPending {
			stats.PendingBids++
		}
	}

	if len(bids) > 5 {
		bids = bids[:5]
	}
	stats.RecentBids = make([]*DashboardBid, 0, len(bids))
	for _, b := range bids {
		enriched := &DashboardBid{Bid: b}
		if listing, err := uc.listingRepo.GetByID(ctx, b.ListingID); err == nil {
			enriched.ListingTitle = listing.Title
			if len(listing.Images) > 0 {
				enriched.ListingImage = listing.Images[0].URL
			}
		}
		stats.RecentBids = append(stats.RecentBids, enriched)
	}

	return stats, nil
}
