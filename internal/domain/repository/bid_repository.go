package repository

import (
	"context"

	"bazaarflow/internal/domain/entity"
)

type BidRepository interface {
	Create(ctx context.Context, bid *entity.Bid) error
	GetByID(ctx context.Context, id string) (*entity.Bid, error)

	// ListByListingID returns bids sorted by amount descending, then
	// createdAt descending. limit <= 0 means no limit.
	ListByListingID(ctx context.Context, listingID string, limit int) ([]*entity.Bid, error)

	ListByBidderID(ctx context.Context, bidderID string, limit, offset int) ([]*entity.Bid, int64, error)

	// UpdateStatusIfPending is a compare-and-swap on the bid's
	// lifecycle: pending -> status. Returns an InvalidState error when
	// the bid has already been processed.
	UpdateStatusIfPending(ctx context.Context, id string, status string, reason string) (*entity.Bid, error)

	// RejectPendingByListing bulk-transitions every pending bid on the
	// listing (except excludeBidID, if non-empty) to rejected and
	// returns the bids it rejected so callers can notify the bidders.
	RejectPendingByListing(ctx context.Context, listingID, excludeBidID, reason string) ([]*entity.Bid, error)
}
