package entity

import "time"

// Bid lifecycle: pending until the seller accepts or rejects it, or a
// buy-now purchase bulk-rejects it. There is deliberately no "outbid"
// state: in a seller's-choice auction every pending bid stays
// actionable until the seller decides, regardless of later, higher
// bids on the same listing.
const (
	BidStatusPending  = "pending"
	BidStatusAccepted = "accepted"
	BidStatusRejected = "rejected"
)

type Bid struct {
	ID          string  `json:"id" firestore:"id"`
	ListingID   string  `json:"listing_id" firestore:"listingId"`
	BidderID    string  `json:"bidder_id" firestore:"bidderId"`
	BidderName  string  `json:"bidder_name" firestore:"bidderName"`
	BidderEmail string  `json:"bidder_email,omitempty" firestore:"bidderEmail,omitempty"`
	Amount      float64 `json:"amount" firestore:"amount"`
	Status      string  `json:"status" firestore:"status"`

	// Set when a bid is rejected as a side effect rather than by an
	// explicit seller action ("Item was purchased via Buy Now").
	RejectedReason string `json:"rejected_reason,omitempty" firestore:"rejectedReason,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
