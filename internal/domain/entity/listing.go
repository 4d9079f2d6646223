package entity

import (
	"time"
)

// Listing lifecycle. Active listings may transition to sold (via bid
// acceptance or buy-now) or closed; both are terminal.
const (
	ListingStatusActive = "active"
	ListingStatusSold   = "sold"
	ListingStatusClosed = "closed"
	ListingStatusDraft  = "draft"
)

// Sale paths recorded on a sold listing and its order.
const (
	SaleTypeAuction = "auction"
	SaleTypeBuyNow  = "buy_now"
)

type ListingImage struct {
	ID           string `json:"id" firestore:"id"`
	URL          string `json:"url" firestore:"url"`
	DisplayOrder int    `json:"display_order" firestore:"displayOrder"`
}

type Listing struct {
	ID            string         `json:"id" firestore:"id"`
	SellerID      string         `json:"seller_id" firestore:"sellerId"`
	SellerName    string         `json:"seller_name" firestore:"sellerName"`
	SellerEmail   string         `json:"seller_email,omitempty" firestore:"sellerEmail,omitempty"`
	Title         string         `json:"title" firestore:"title"`
	Description   string         `json:"description" firestore:"description"`
	Category      string         `json:"category" firestore:"category"`
	StartingPrice float64        `json:"starting_price" firestore:"startingPrice"`
	BuyNowPrice   float64        `json:"buy_now_price,omitempty" firestore:"buyNowPrice,omitempty"`
	CurrentBid    float64        `json:"current_bid,omitempty" firestore:"currentBid,omitempty"`
	BidCount      int            `json:"bid_count" firestore:"bidCount"`
	Images        []ListingImage `json:"images" firestore:"images"`
	Status        string         `json:"status" firestore:"status"`

	// Sale metadata, written once by the settlement workflow.
	SoldTo     string     `json:"sold_to,omitempty" firestore:"soldTo,omitempty"`
	SoldToName string     `json:"sold_to_name,omitempty" firestore:"soldToName,omitempty"`
	SoldPrice  float64    `json:"sold_price,omitempty" firestore:"soldPrice,omitempty"`
	SoldType   string     `json:"sold_type,omitempty" firestore:"soldType,omitempty"`
	SoldAt     *time.Time `json:"sold_at,omitempty" firestore:"soldAt,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// MinimumBid is the lowest amount the next bid must reach: one unit
// above the current bid, or the starting price when nobody has bid.
func (l *Listing) MinimumBid() float64 {
	if l.CurrentBid > 0 {
		return l.CurrentBid + 1
	}
	return l.StartingPrice
}
