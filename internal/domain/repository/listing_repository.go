package repository

import (
	"context"

	"bazaarflow/internal/domain/entity"
)

// SaleDetails carries the fields the settlement workflow writes onto a
// listing when it transitions active -> sold.
type SaleDetails struct {
	BuyerID   string
	BuyerName string
	Price     float64
	SaleType  string // entity.SaleTypeAuction or entity.SaleTypeBuyNow
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	List(ctx context.Context, filter map[string]interface{}, sort string, limit, offset int) ([]*entity.Listing, int64, error)
	Search(ctx context.Context, query string, filter map[string]interface{}, sort string, limit, offset int) ([]*entity.Listing, int64, error)
	ListBySellerID(ctx context.Context, sellerID string, status string, limit, offset int) ([]*entity.Listing, int64, error)
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id string) error

	// MarkSoldIfActive is the optimistic-concurrency guard of the
	// settlement workflows: it transitions the listing to sold and
	// writes the sale metadata only if the listing is still active,
	// returning a Conflict error otherwise. Exactly one concurrent
	// settlement can win this transition.
	MarkSoldIfActive(ctx context.Context, id string, sale SaleDetails) (*entity.Listing, error)

	// CloseIfActive transitions active -> closed under the same guard.
	CloseIfActive(ctx context.Context, id string) error

	// ApplyBid records a new top bid on the listing: re-verifies the
	// listing is active and the amount still meets the minimum inside
	// the store transaction, then sets currentBid and increments
	// bidCount. Returns Conflict when outrun by a concurrent bid or
	// settlement.
	ApplyBid(ctx context.Context, id string, amount float64) error
}
