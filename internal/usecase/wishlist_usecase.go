package usecase

import (
	"context"

	"bazaarflow/internal/domain/entity"
	"bazaarflow/internal/domain/repository"
	"bazaarflow/pkg/errors"
)

type WishlistUseCase struct {
	wishlistRepo repository.WishlistRepository
	listingRepo  repository.ListingRepository
}

func NewWishlistUseCase(
	wishlistRepo repository.WishlistRepository,
	listingRepo repository.ListingRepository,
) *WishlistUseCase {
	return &WishlistUseCase{
		wishlistRepo: wishlistRepo,
		listingRepo:  listingRepo,
	}
}

// AddToWishlist is idempotent: adding an already-saved listing returns
// the existing entry.
func (uc *WishlistUseCase) AddToWishlist(ctx context.Context, userID, listingID string) (*entity.WishlistItem, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if listing.SellerID == userID {
		return nil, errors.BadRequest("You cannot wishlist your own listing", nil)
	}

	if existing, err := uc.wishlistRepo.GetByUserAndListing(ctx, userID, listingID); err == nil {
		return existing, nil
	}

	item := &entity.WishlistItem{
		UserID:    userID,
		ListingID: listingID,
	}
	if err := uc.wishlistRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// WishlistEntry pairs the saved item with its listing snapshot. Listing
// is nil when the listing was deleted after being saved.
type WishlistEntry struct {
	Item    *entity.WishlistItem `json:"item"`
	Listing *entity.Listing      `json:"listing,omitempty"`
}

func (uc *WishlistUseCase) GetWishlist(ctx context.Context, userID string) ([]*WishlistEntry, error) {
	items, err := uc.wishlistRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]*WishlistEntry, 0, len(items))
	for _, item := range items {
		entry := &WishlistEntry{Item: item}
		if listing, err := uc.listingRepo.GetByID(ctx, item.ListingID); err == nil {
			entry.Listing = listing
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (uc *WishlistUseCase) RemoveFromWishlist(ctx context.Context, userID, listingID string) error {
	return uc.wishlistRepo.Delete(ctx, userID, listingID)
}
