package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"bazaarflow/internal/domain/entity"
	"bazaarflow/internal/domain/repository"
	"bazaarflow/pkg/errors"
)

// In-memory repository fakes. They reproduce the store-level guard
// semantics (conditional transitions return Conflict/InvalidState) so
// the workflow tests exercise the same error paths as the Firestore
// adapters.

type memListingRepo struct {
	listings map[string]*entity.Listing
	seq      int
}

func newMemListingRepo() *memListingRepo {
	return &memListingRepo{listings: map[string]*entity.Listing{}}
}

func (r *memListingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		r.seq++
		listing.ID = fmt.Sprintf("listing-%d", r.seq)
	}
	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	clone := *listing
	r.listings[listing.ID] = &clone
	return nil
}

func (r *memListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	clone := *listing
	return &clone, nil
}

func (r *memListingRepo) List(ctx context.Context, filter map[string]interface{}, sortOrder string, limit, offset int) ([]*entity.Listing, int64, error) {
	var out []*entity.Listing
	for _, l := range r.listings {
		if status, ok := filter["status"].(string); ok && l.Status != status {
			continue
		}
		if category, ok := filter["category"].(string); ok && l.Category != category {
			continue
		}
		clone := *l
		out = append(out, &clone)
	}
	sortListingsByKey(out, sortOrder)
	return out, int64(len(out)), nil
}

func (r *memListingRepo) Search(ctx context.Context, query string, filter map[string]interface{}, sortOrder string, limit, offset int) ([]*entity.Listing, int64, error) {
	q := strings.ToLower(query)
	var out []*entity.Listing
	for _, l := range r.listings {
		if status, ok := filter["status"].(string); ok && l.Status != status {
			continue
		}
		if category, ok := filter["category"].(string); ok && l.Category != category {
			continue
		}
		if !strings.Contains(strings.ToLower(l.Title), q) &&
			!strings.Contains(strings.ToLower(l.Description), q) {
			continue
		}
		clone := *l
		out = append(out, &clone)
	}
	sortListingsByKey(out, sortOrder)
	return out, int64(len(out)), nil
}

func sortListingsByKey(listings []*entity.Listing, key string) {
	sort.Slice(listings, func(i, j int) bool {
		a, b := listings[i], listings[j]
		switch key {
		case "createdAt_asc":
			return a.CreatedAt.Before(b.CreatedAt)
		case "startingPrice_asc":
			return a.StartingPrice < b.StartingPrice
		case "startingPrice_desc":
			return a.StartingPrice > b.StartingPrice
		case "bidCount_desc":
			return a.BidCount > b.BidCount
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}

func (r *memListingRepo) ListBySellerID(ctx context.Context, sellerID string, status string, limit, offset int) ([]*entity.Listing, int64, error) {
	var out []*entity.Listing
	for _, l := range r.listings {
		if l.SellerID != sellerID {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		clone := *l
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *memListingRepo) Update(ctx context.Context, listing *entity.Listing) error {
	if _, ok := r.listings[listing.ID]; !ok {
		return errors.NotFound("Listing", nil)
	}
	listing.UpdatedAt = time.Now()
	clone := *listing
	r.listings[listing.ID] = &clone
	return nil
}

func (r *memListingRepo) Delete(ctx context.Context, id string) error {
	delete(r.listings, id)
	return nil
}

func (r *memListingRepo) MarkSoldIfActive(ctx context.Context, id string, sale repository.SaleDetails) (*entity.Listing, error) {
	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	if listing.Status != entity.ListingStatusActive {
		return nil, errors.Conflict("Listing is no longer available")
	}
	now := time.Now()
	listing.Status = entity.ListingStatusSold
	listing.SoldTo = sale.BuyerID
	listing.SoldToName = sale.BuyerName
	listing.SoldPrice = sale.Price
	listing.SoldType = sale.SaleType
	listing.SoldAt = &now
	listing.UpdatedAt = now
	clone := *listing
	return &clone, nil
}

func (r *memListingRepo) CloseIfActive(ctx context.Context, id string) error {
	listing, ok := r.listings[id]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	if listing.Status != entity.ListingStatusActive {
		return errors.Conflict("Listing is no longer available")
	}
	listing.Status = entity.ListingStatusClosed
	listing.UpdatedAt = time.Now()
	return nil
}

func (r *memListingRepo) ApplyBid(ctx context.Context, id string, amount float64) error {
	listing, ok := r.listings[id]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	if listing.Status != entity.ListingStatusActive {
		return errors.Conflict("Listing is no longer available")
	}
	if amount < listing.MinimumBid() {
		return errors.Conflict("A higher bid was placed first")
	}
	listing.CurrentBid = amount
	listing.BidCount++
	listing.UpdatedAt = time.Now()
	return nil
}

type memBidRepo struct {
	bids map[string]*entity.Bid
	seq  int
}

func newMemBidRepo() *memBidRepo {
	return &memBidRepo{bids: map[string]*entity.Bid{}}
}

func (r *memBidRepo) Create(ctx context.Context, bid *entity.Bid) error {
	if bid.ID == "" {
		r.seq++
		bid.ID = fmt.Sprintf("bid-%d", r.seq)
	}
	now := time.Now()
	bid.CreatedAt = now
	bid.UpdatedAt = now
	clone := *bid
	r.bids[bid.ID] = &clone
	return nil
}

func (r *memBidRepo) GetByID(ctx context.Context, id string) (*entity.Bid, error) {
	bid, ok := r.bids[id]
	if !ok {
		return nil, errors.NotFound("Bid", nil)
	}
	clone := *bid
	return &clone, nil
}

func (r *memBidRepo) ListByListingID(ctx context.Context, listingID string, limit int) ([]*entity.Bid, error) {
	var out []*entity.Bid
	for _, b := range r.bids {
		if b.ListingID == listingID {
			clone := *b
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memBidRepo) ListByBidderID(ctx context.Context, bidderID string, limit, offset int) ([]*entity.Bid, int64, error) {
	var out []*entity.Bid
	for _, b := range r.bids {
		if b.BidderID == bidderID {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memBidRepo) UpdateStatusIfPending(ctx context.Context, id string, status string, reason string) (*entity.Bid, error) {
	bid, ok := r.bids[id]
	if !ok {
		return nil, errors.NotFound("Bid", nil)
	}
	if bid.Status != entity.BidStatusPending {
		return nil, errors.InvalidState("This bid has already been processed")
	}
	bid.Status = status
	bid.RejectedReason = reason
	bid.UpdatedAt = time.Now()
	clone := *bid
	return &clone, nil
}

func (r *memBidRepo) RejectPendingByListing(ctx context.Context, listingID, excludeBidID, reason string) ([]*entity.Bid, error) {
	var rejected []*entity.Bid
	for _, b := range r.bids {
		if b.ListingID != listingID || b.Status != entity.BidStatusPending || b.ID == excludeBidID {
			continue
		}
		b.Status = entity.BidStatusRejected
		b.RejectedReason = reason
		b.UpdatedAt = time.Now()
		clone := *b
		rejected = append(rejected, &clone)
	}
	return rejected, nil
}

type memOrderRepo struct {
	orders []*entity.Order
	seq    int
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{}
}

func (r *memOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		r.seq++
		order.ID = fmt.Sprintf("order-%d", r.seq)
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	clone := *order
	r.orders = append(r.orders, &clone)
	return nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			clone := *o
			return &clone, nil
		}
	}
	return nil, errors.NotFound("Order", nil)
}

func (r *memOrderRepo) ListByUser(ctx context.Context, userID, role string) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.orders {
		if (role == "buyer" && o.BuyerID == userID) || (role == "seller" && o.SellerID == userID) {
			clone := *o
			out = append(out, &clone)
		}
	}
	return out, nil
}

type memNotificationRepo struct {
	notifications []*entity.Notification
	seq           int
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{}
}

func (r *memNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	r.seq++
	n.ID = fmt.Sprintf("notification-%d", r.seq)
	n.CreatedAt = time.Now()
	clone := *n
	r.notifications = append(r.notifications, &clone)
	return nil
}

func (r *memNotificationRepo) ListByUserID(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			clone := *n
			out = append(out, &clone)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memNotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return errors.NotFound("Notification", nil)
}

func (r *memNotificationRepo) DeleteAllByUserID(ctx context.Context, userID string) error {
	var kept []*entity.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

func (r *memNotificationRepo) forUser(userID string) []*entity.Notification {
	var out []*entity.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) Upsert(ctx context.Context, user *entity.User) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

type memConversationRepo struct {
	conversations map[string]*entity.Conversation
	messages      map[string][]*entity.Message
	seq           int
}

func newMemConversationRepo() *memConversationRepo {
	return &memConversationRepo{
		conversations: map[string]*entity.Conversation{},
		messages:      map[string][]*entity.Message{},
	}
}

func (r *memConversationRepo) GetOrCreate(ctx context.Context, conv *entity.Conversation) (*entity.Conversation, bool, error) {
	key := entity.ConversationKey(conv.ListingID, conv.Participants)
	if existing, ok := r.conversations[key]; ok {
		clone := *existing
		return &clone, false, nil
	}
	now := time.Now()
	conv.ID = key
	conv.CreatedAt = now
	conv.UpdatedAt = now
	clone := *conv
	r.conversations[key] = &clone
	out := *conv
	return &out, true, nil
}

func (r *memConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	conv, ok := r.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	clone := *conv
	return &clone, nil
}

func (r *memConversationRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	var out []*entity.Conversation
	for _, conv := range r.conversations {
		if conv.HasParticipant(userID) {
			clone := *conv
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memConversationRepo) Touch(ctx context.Context, id string) error {
	conv, ok := r.conversations[id]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	conv.UpdatedAt = time.Now()
	return nil
}

func (r *memConversationRepo) Delete(ctx context.Context, id string) error {
	delete(r.conversations, id)
	delete(r.messages, id)
	return nil
}

func (r *memConversationRepo) ListAllByCreation(ctx context.Context) ([]*entity.Conversation, error) {
	var out []*entity.Conversation
	for _, conv := range r.conversations {
		clone := *conv
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// insertRaw bypasses the key-based dedup to simulate legacy duplicate
// rows for cleanup tests.
func (r *memConversationRepo) insertRaw(conv *entity.Conversation) {
	clone := *conv
	r.conversations[conv.ID] = &clone
}

func (r *memConversationRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.seq++
	message.ID = fmt.Sprintf("message-%d", r.seq)
	message.CreatedAt = time.Now()
	clone := *message
	r.messages[message.ConversationID] = append(r.messages[message.ConversationID], &clone)
	return nil
}

func (r *memConversationRepo) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	var out []*entity.Message
	for _, m := range r.messages[conversationID] {
		clone := *m
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memConversationRepo) LastMessage(ctx context.Context, conversationID string) (*entity.Message, error) {
	msgs := r.messages[conversationID]
	if len(msgs) == 0 {
		return nil, nil
	}
	clone := *msgs[len(msgs)-1]
	return &clone, nil
}

func (r *memConversationRepo) MarkMessagesRead(ctx context.Context, conversationID, readerID string) error {
	now := time.Now()
	for _, m := range r.messages[conversationID] {
		if m.SenderID != readerID && !m.Read {
			m.Read = true
			m.ReadAt = &now
		}
	}
	return nil
}

func (r *memConversationRepo) CountUnread(ctx context.Context, conversationID, userID string) (int64, error) {
	var count int64
	for _, m := range r.messages[conversationID] {
		if m.SenderID != userID && !m.Read {
			count++
		}
	}
	return count, nil
}

type memWishlistRepo struct {
	items []*entity.WishlistItem
	seq   int
}

func newMemWishlistRepo() *memWishlistRepo {
	return &memWishlistRepo{}
}

func (r *memWishlistRepo) Create(ctx context.Context, item *entity.WishlistItem) error {
	r.seq++
	item.ID = fmt.Sprintf("wishlist-%d", r.seq)
	item.CreatedAt = time.Now()
	clone := *item
	r.items = append(r.items, &clone)
	return nil
}

func (r *memWishlistRepo) GetByUserAndListing(ctx context.Context, userID, listingID string) (*entity.WishlistItem, error) {
	for _, item := range r.items {
		if item.UserID == userID && item.ListingID == listingID {
			clone := *item
			return &clone, nil
		}
	}
	return nil, errors.NotFound("Wishlist item", nil)
}

func (r *memWishlistRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.WishlistItem, error) {
	var out []*entity.WishlistItem
	for _, item := range r.items {
		if item.UserID == userID {
			clone := *item
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memWishlistRepo) Delete(ctx context.Context, userID, listingID string) error {
	var kept []*entity.WishlistItem
	for _, item := range r.items {
		if item.UserID != userID || item.ListingID != listingID {
			kept = append(kept, item)
		}
	}
	r.items = kept
	return nil
}
