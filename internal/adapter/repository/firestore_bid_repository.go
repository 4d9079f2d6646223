package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"bazaarflow/internal/domain/entity"
	"bazaarflow/internal/domain/repository"
	"bazaarflow/pkg/errors"
)

type firestoreBidRepository struct {
	client *firestore.Client
}

func NewFirestoreBidRepository(client *firestore.Client) repository.BidRepository {
	return &firestoreBidRepository{
		client: client,
	}
}

func (r *firestoreBidRepository) Create(ctx context.Context, bid *entity.Bid) error {
	if bid.ID == "" {
		bid.ID = uuid.New().String()
	}

	now := time.Now()
	bid.CreatedAt = now
	bid.UpdatedAt = now

	_, err := r.client.Collection("bids").Doc(bid.ID).Set(ctx, bid)
	if err != nil {
		return errors.Internal("Failed to create bid", err)
	}

	return nil
}

func (r *firestoreBidRepository) GetByID(ctx context.Context, id string) (*entity.Bid, error) {
	doc, err := r.client.Collection("bids").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Bid", err)
		}
		return nil, errors.Internal("Failed to get bid", err)
	}

	var bid entity.Bid
	if err := doc.DataTo(&bid); err != nil {
		return nil, errors.Internal("Failed to parse bid data", err)
	}

	return &bid, nil
}

func (r *firestoreBidRepository) ListByListingID(ctx context.Context, listingID string, limit int) ([]*entity.Bid, error) {
	query := r.client.Collection("bids").
		Where("listingId", "==", listingID).
		OrderBy("amount", firestore.Desc).
		OrderBy("createdAt", firestore.Desc)

	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	var bids []*entity.Bid

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate bids", err)
		}

		var bid entity.Bid
		if err := doc.DataTo(&bid); err != nil {
			return nil, errors.Internal("Failed to parse bid data", err)
		}
		bids = append(bids, &bid)
	}

	return bids, nil
}

func (r *firestoreBidRepository) ListByBidderID(ctx context.Context, bidderID string, limit, offset int) ([]*entity.Bid, int64, error) {
	query := r.client.Collection("bids").
		Where("bidderId", "==", bidderID).
		OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count bids", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var bids []*entity.Bid

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate bids", err)
		}

		var bid entity.Bid
		if err := doc.DataTo(&bid); err != nil {
			return nil, 0, errors.Internal("Failed to parse bid data", err)
		}
		bids = append(bids, &bid)
	}

	return bids, total, nil
}

func (r *firestoreBidRepository) UpdateStatusIfPending(ctx context.Context, id string, newStatus string, reason string) (*entity.Bid, error) {
	var updated entity.Bid

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := r.client.Collection("bids").Doc(id)
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Bid", err)
			}
			return err
		}

		var bid entity.Bid
		if err := doc.DataTo(&bid); err != nil {
			return err
		}

		if bid.Status != entity.BidStatusPending {
			return errors.InvalidState("This bid has already been processed")
		}

		bid.Status = newStatus
		bid.RejectedReason = reason
		bid.UpdatedAt = time.Now()

		updated = bid
		return tx.Set(docRef, &bid)
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return nil, err
		}
		return nil, errors.Internal("Failed to update bid status", err)
	}

	return &updated, nil
}

func (r *firestoreBidRepository) RejectPendingByListing(ctx context.Context, listingID, excludeBidID, reason string) ([]*entity.Bid, error) {
	query := r.client.Collection("bids").
		Where("listingId", "==", listingID).
		Where("status", "==", entity.BidStatusPending)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to query pending bids", err)
	}

	now := time.Now()
	var rejected []*entity.Bid

	for _, doc := range docs {
		var bid entity.Bid
		if err := doc.DataTo(&bid); err != nil {
			continue
		}
		if bid.ID == excludeBidID {
			continue
		}

		bid.Status = entity.BidStatusRejected
		bid.RejectedReason = reason
		bid.UpdatedAt = now

		if _, err := doc.Ref.Set(ctx, &bid); err != nil {
			return rejected, errors.Internal("Failed to reject pending bid", err)
		}
		rejected = append(rejected, &bid)
	}

	return rejected, nil
}
