package entity

import "time"

// Notification types correspond to the state transition that produced
// them.
const (
	NotificationTypeBid      = "bid"
	NotificationTypeAccepted = "accepted"
	NotificationTypeRejected = "rejected"
	NotificationTypeSold     = "sold"
	NotificationTypeMessage  = "message"
)

type Notification struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	Type      string    `json:"type" firestore:"type"`
	Title     string    `json:"title" firestore:"title"`
	Message   string    `json:"message" firestore:"message"`
	ListingID string    `json:"listing_id,omitempty" firestore:"listingId,omitempty"`
	Read      bool      `json:"read" firestore:"read"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
