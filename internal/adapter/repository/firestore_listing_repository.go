package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"bazaarflow/internal/domain/entity"
	"bazaarflow/internal/domain/repository"
	"bazaarflow/pkg/errors"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		doc := r.client.Collection("listings").NewDoc()
		listing.ID = doc.ID
	}

	now := time.Now()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = now

	_, err := r.client.Collection("listings").Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return errors.Internal("Failed to create listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := r.client.Collection("listings").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to get listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}

	return &listing, nil
}

func (r *firestoreListingRepository) List(ctx context.Context, filter map[string]interface{}, sortOrder string, limit, offset int) ([]*entity.Listing, int64, error) {
	query := r.client.Collection("listings").Query

	for key, value := range filter {
		query = query.Where(key, "==", value)
	}

	if sortOrder != "" {
		parts := strings.Split(sortOrder, "_")
		field := parts[0]
		order := firestore.Asc
		if len(parts) > 1 && parts[1] == "desc" {
			order = firestore.Desc
		}
		query = query.OrderBy(field, order)
	} else {
		query = query.OrderBy("createdAt", firestore.Desc)
	}

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count listings", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var listings []*entity.Listing

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate listings", err)
		}
		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return nil, 0, errors.Internal("Failed to parse listing data", err)
		}
		listings = append(listings, &listing)
	}

	return listings, total, nil
}

func (r *firestoreListingRepository) Search(ctx context.Context, queryText string, filter map[string]interface{}, sortOrder string, limit, offset int) ([]*entity.Listing, int64, error) {
	// Firestore has no full-text search; filter manually on title and
	// description, like the reference search endpoint.
	queryText = strings.ToLower(queryText)

	baseQuery := r.client.Collection("listings").Query
	for key, value := range filter {
		baseQuery = baseQuery.Where(key, "==", value)
	}

	docs, err := baseQuery.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to search listings", err)
	}

	var matched []*entity.Listing
	for _, doc := range docs {
		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			continue
		}

		if strings.Contains(strings.ToLower(listing.Title), queryText) ||
			strings.Contains(strings.ToLower(listing.Description), queryText) {
			matched = append(matched, &listing)
		}
	}

	total := int64(len(matched))

	// Matches come back in document order; apply the requested sort
	// before slicing so pagination is stable.
	sortListings(matched, sortOrder)

	start := offset
	end := offset + limit
	if limit <= 0 {
		end = len(matched)
	}
	if start >= len(matched) {
		return []*entity.Listing{}, total, nil
	}
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

// sortListings orders in-memory results by the same field_direction
// keys the store queries use.
func sortListings(listings []*entity.Listing, key string) {
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

func (r *firestoreListingRepository) ListBySellerID(ctx context.Context, sellerID string, statusFilter string, limit, offset int) ([]*entity.Listing, int64, error) {
	query := r.client.Collection("listings").Query.Where("sellerId", "==", sellerID)

	if statusFilter != "" {
		query = query.Where("status", "==", statusFilter)
	}

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count seller listings", err)
	}
	total := int64(len(allDocs))

	query = query.OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var listings []*entity.Listing

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate seller listings", err)
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return nil, 0, errors.Internal("Failed to parse listing data", err)
		}
		listings = append(listings, &listing)
	}

	return listings, total, nil
}

func (r *firestoreListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	listing.UpdatedAt = time.Now()

	_, err := r.client.Collection("listings").Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return errors.Internal("Failed to update listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("listings").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) MarkSoldIfActive(ctx context.Context, id string, sale repository.SaleDetails) (*entity.Listing, error) {
	var sold entity.Listing

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := r.client.Collection("listings").Doc(id)
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Listing", err)
			}
			return err
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return err
		}

		if listing.Status != entity.ListingStatusActive {
			return errors.Conflict("This listing is no longer active")
		}

		now := time.Now()
		listing.Status = entity.ListingStatusSold
		listing.SoldTo = sale.BuyerID
		listing.SoldToName = sale.BuyerName
		listing.SoldPrice = sale.Price
		listing.SoldType = sale.SaleType
		listing.SoldAt = &now
		listing.UpdatedAt = now

		sold = listing
		return tx.Set(docRef, &listing)
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return nil, err
		}
		return nil, errors.Internal("Failed to mark listing sold", err)
	}

	return &sold, nil
}

func (r *firestoreListingRepository) CloseIfActive(ctx context.Context, id string) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := r.client.Collection("listings").Doc(id)
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Listing", err)
			}
			return err
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return err
		}

		if listing.Status != entity.ListingStatusActive {
			return errors.Conflict("This listing is no longer active")
		}

		return tx.Update(docRef, []firestore.Update{
			{Path: "status", Value: entity.ListingStatusClosed},
			{Path: "updatedAt", Value: time.Now()},
		})
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return err
		}
		return errors.Internal("Failed to close listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) ApplyBid(ctx context.Context, id string, amount float64) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := r.client.Collection("listings").Doc(id)
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Listing", err)
			}
			return err
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return err
		}

		if listing.Status != entity.ListingStatusActive {
			return errors.Conflict("This listing is no longer active")
		}

		if amount < listing.MinimumBid() {
			return errors.Conflict("A higher bid was placed first")
		}

		return tx.Update(docRef, []firestore.Update{
			{Path: "currentBid", Value: amount},
			{Path: "bidCount", Value: listing.BidCount + 1},
			{Path: "updatedAt", Value: time.Now()},
		})
	})

	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return err
		}
		return errors.Internal("Failed to apply bid to listing", err)
	}

	return nil
}
