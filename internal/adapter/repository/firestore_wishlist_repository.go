package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"bazaarflow/internal/domain/entity"
	"bazaarflow/internal/domain/repository"
	"bazaarflow/pkg/errors"

	"cloud.google.com/go/firestore"
)

type firestoreWishlistRepository struct {
	client *firestore.Client
}

func NewFirestoreWishlistRepository(client *firestore.Client) repository.WishlistRepository {
	return &firestoreWishlistRepository{
		client: client,
	}
}

func (r *firestoreWishlistRepository) Create(ctx context.Context, item *entity.WishlistItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	item.CreatedAt = time.Now()

	_, err := r.client.Collection("wishlist").Doc(item.ID).Set(ctx, item)
	if err != nil {
		return errors.Internal("Failed to create wishlist item", err)
	}

	return nil
}

func (r *firestoreWishlistRepository) GetByUserAndListing(ctx context.Context, userID, listingID string) (*entity.WishlistItem, error) {
	query := r.client.Collection("wishlist").
		Where("userId", "==", userID).
		Where("listingId", "==", listingID).
		Limit(1)

	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Wishlist item", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query wishlist", err)
	}

	var item entity.WishlistItem
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse wishlist data", err)
	}

	return &item, nil
}

func (r *firestoreWishlistRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.WishlistItem, error) {
	query := r.client.Collection("wishlist").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	var items []*entity.WishlistItem

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate wishlist", err)
		}

		var item entity.WishlistItem
		if err := doc.DataTo(&item); err != nil {
			continue
		}
		items = append(items, &item)
	}

	return items, nil
}

func (r *firestoreWishlistRepository) Delete(ctx context.Context, userID, listingID string) error {
	query := r.client.Collection("wishlist").
		Where("userId", "==", userID).
		Where("listingId", "==", listingID)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return errors.Internal("Failed to query wishlist", err)
	}

	for _, doc := range docs {
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return errors.Internal("Failed to delete wishlist item", err)
		}
	}

	return nil
}
