package entity

import (
	"sort"
	"strings"
	"time"
)

type Participant struct {
	ID    string `json:"id" firestore:"id"`
	Name  string `json:"name" firestore:"name"`
	Email string `json:"email,omitempty" firestore:"email,omitempty"`
}

// Conversation is a two-party thread, optionally scoped to one
// listing. At most one conversation exists per unordered participant
// pair and listing; the deterministic document key enforces that at
// the store level.
type Conversation struct {
	ID                 string        `json:"id" firestore:"id"`
	Participants       []string      `json:"participants" firestore:"participants"`
	ParticipantDetails []Participant `json:"participant_details" firestore:"participantDetails"`
	ListingID          string        `json:"listing_id,omitempty" firestore:"listingId,omitempty"`
	CreatedAt          time.Time     `json:"created_at" firestore:"createdAt"`
	UpdatedAt          time.Time     `json:"updated_at" firestore:"updatedAt"`
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// HasParticipant reports whether userID belongs to this conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// ConversationKey builds the uniqueness key for a participant pair and
// listing: "<listingId|general>_<sorted participants joined by ->".
// Used both as the document ID for new conversations and as the group
// key of the dedup repair procedure.
func ConversationKey(listingID string, participants []string) string {
	sorted := make([]string, len(participants))
	copy(sorted, participants)
	sort.Strings(sorted)

	scope := listingID
	if scope == "" {
		scope = "general"
	}
	return scope + "_" + strings.Join(sorted, "-")
}
