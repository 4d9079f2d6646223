package entity

import "time"

// Order is the canonical settlement record: created exactly once per
// successful sale and never mutated afterwards. Listing and bid fields
// elsewhere are denormalized display copies; amounts here are
// authoritative.
type Order struct {
	ID           string  `json:"id" firestore:"id"`
	ListingID    string  `json:"listing_id" firestore:"listingId"`
	ListingTitle string  `json:"listing_title" firestore:"listingTitle"`
	ListingImage string  `json:"listing_image,omitempty" firestore:"listingImage,omitempty"`
	SellerID     string  `json:"seller_id" firestore:"sellerId"`
	SellerName   string  `json:"seller_name" firestore:"sellerName"`
	SellerEmail  string  `json:"seller_email,omitempty" firestore:"sellerEmail,omitempty"`
	BuyerID      string  `json:"buyer_id" firestore:"buyerId"`
	BuyerName    string  `json:"buyer_name" firestore:"buyerName"`
	BuyerEmail   string  `json:"buyer_email,omitempty" firestore:"buyerEmail,omitempty"`
	Amount       float64 `json:"amount" firestore:"amount"`
	Type         string  `json:"type" firestore:"type"` // "auction" or "buy_now"
	Status       string  `json:"status" firestore:"status"`
	BidID        string  `json:"bid_id,omitempty" firestore:"bidId,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
