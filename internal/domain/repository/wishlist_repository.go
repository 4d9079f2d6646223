package repository

import (
	"context"

	"bazaarflow/internal/domain/entity"
)

type WishlistRepository interface {
	Create(ctx context.Context, item *entity.WishlistItem) error
	GetByUserAndListing(ctx context.Context, userID, listingID string) (*entity.WishlistItem, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.WishlistItem, error)
	Delete(ctx context.Context, userID, listingID string) error
}
