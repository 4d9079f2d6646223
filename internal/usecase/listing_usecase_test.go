package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaarflow/internal/domain/entity"
	"bazaarflow/pkg/errors"
)

func newListingUseCase() (*ListingUseCase, *memListingRepo, *memBidRepo) {
	listings := newMemListingRepo()
	bids := newMemBidRepo()
	return NewListingUseCase(listings, bids), listings, bids
}

func TestCreateListingBuyNowMustExceedStartingPrice(t *testing.T) {
	uc, _, _ := newListingUseCase()
	ctx := context.Background()

	_, err := uc.CreateListing(ctx, seller, CreateListingInput{
		Title: "Mountain bike", Description: "Barely used", Category: "sports",
		StartingPrice: 200, BuyNowPrice: 150,
	})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	listing, err := uc.CreateListing(ctx, seller, CreateListingInput{
		Title: "Mountain bike", Description: "Barely used", Category: "sports",
		StartingPrice: 200, BuyNowPrice: 350,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ListingStatusActive, listing.Status)
	assert.Equal(t, seller.Name, listing.SellerName)
}

func TestGetListingHidesDraftsFromOthers(t *testing.T) {
	uc, _, _ := newListingUseCase()
	ctx := context.Background()

	listing, err := uc.CreateListing(ctx, seller, CreateListingInput{
		Title: "Draft item", Description: "wip", Category: "misc",
		StartingPrice: 10, Status: entity.ListingStatusDraft,
	})
	require.NoError(t, err)

	_, err = uc.GetListing(ctx, alice.ID, listing.ID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	detail, err := uc.GetListing(ctx, seller.ID, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, listing.ID, detail.Listing.ID)
}

func TestUpdateListingOwnerOnly(t *testing.T) {
	uc, _, _ := newListingUseCase()
	ctx := context.Background()

	listing, err := uc.CreateListing(ctx, seller, CreateListingInput{
		Title: "Record player", Description: "works", Category: "electronics", StartingPrice: 80,
	})
	require.NoError(t, err)

	newTitle := "Record player (refurbished)"
	_, err = uc.UpdateListing(ctx, alice.ID, listing.ID, UpdateListingInput{Title: &newTitle})
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	updated, err := uc.UpdateListing(ctx, seller.ID, listing.ID, UpdateListingInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
}

func TestUpdateSoldListingRejected(t *testing.T) {
	uc, listings, _ := newListingUseCase()
	ctx := context.Background()

	listing, err := uc.CreateListing(ctx, seller, CreateListingInput{
		Title: "Lamp", Description: "vintage", Category: "home", StartingPrice: 30,
	})
	require.NoError(t, err)

	stored, err := listings.GetByID(ctx, listing.ID)
	require.NoError(t, err)
	stored.Status = entity.ListingStatusSold
	require.NoError(t, listings.Update(ctx, stored))

	title := "Lamp v2"
	_, err = uc.UpdateListing(ctx, seller.ID, listing.ID, UpdateListingInput{Title: &title})
	assert.True(t, errors.Is(err, "INVALID_STATE"))
}

func TestCloseListingLeavesBidsPending(t *testing.T) {
	uc, listings, bids := newListingUseCase()
	ctx := context.Background()

	listing, err := uc.CreateListing(ctx, seller, CreateListingInput{
		Title: "Desk", Description: "oak", Category: "home", StartingPrice: 50,
	})
	require.NoError(t, err)

	bid := &entity.Bid{ListingID: listing.ID, BidderID: alice.ID, BidderName: alice.Name, Amount: 55, Status: entity.BidStatusPending}
	require.NoError(t, bids.Create(ctx, bid))

	require.NoError(t, uc.CloseListing(ctx, seller.ID, listing.ID))

	got, err := listings.GetByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ListingStatusClosed, got.Status)

	// Closing is not a settlement: bids stay pending, they are just no
	// longer actionable.
	storedBid, err := bids.GetByID(ctx, bid.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BidStatusPending, storedBid.Status)
}

func TestDeleteSoldListingRejected(t *testing.T) {
	uc, listings, _ := newListingUseCase()
	ctx := context.Background()

	listing, err := uc.CreateListing(ctx, seller, CreateListingInput{
		Title: "Chair", Description: "comfy", Category: "home", StartingPrice: 25,
	})
	require.NoError(t, err)

	stored, err := listings.GetByID(ctx, listing.ID)
	require.NoError(t, err)
	stored.Status = entity.ListingStatusSold
	require.NoError(t, listings.Update(ctx, stored))

	err = uc.DeleteListing(ctx, seller.ID, listing.ID)
	assert.True(t, errors.Is(err, "INVALID_STATE"))
}

func TestSortKeyTokens(t *testing.T) {
	cases := map[string]string{
		"newest":     "createdAt_desc",
		"oldest":     "createdAt_asc",
		"price-low":  "startingPrice_asc",
		"price-high": "startingPrice_desc",
		"most-bids":  "bidCount_desc",
		// underscore variants kept for older clients
		"price_low":  "startingPrice_asc",
		"price_high": "startingPrice_desc",
		"most_bids":  "bidCount_desc",
		"":           "createdAt_desc",
	}
	for token, want := range cases {
		assert.Equal(t, want, sortKey(token), "token %q", token)
	}
}

func TestListListingsSortOrdering(t *testing.T) {
	uc, listings, _ := newListingUseCase()
	ctx := context.Background()

	cheap := &entity.Listing{SellerID: seller.ID, Title: "Cheap", Category: "misc", StartingPrice: 10, Status: entity.ListingStatusActive}
	pricey := &entity.Listing{SellerID: seller.ID, Title: "Pricey", Category: "misc", StartingPrice: 500, Status: entity.ListingStatusActive}
	popular := &entity.Listing{SellerID: seller.ID, Title: "Popular", Category: "misc", StartingPrice: 50, BidCount: 7, Status: entity.ListingStatusActive}
	for _, l := range []*entity.Listing{pricey, cheap, popular} {
		require.NoError(t, listings.Create(ctx, l))
	}

	got, _, err := uc.ListListings(ctx, ListListingsInput{Sort: "price-low"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Cheap", got[0].Title)
	assert.Equal(t, "Pricey", got[2].Title)

	got, _, err = uc.ListListings(ctx, ListListingsInput{Sort: "price-high"})
	require.NoError(t, err)
	assert.Equal(t, "Pricey", got[0].Title)

	got, _, err = uc.ListListings(ctx, ListListingsInput{Sort: "most-bids"})
	require.NoError(t, err)
	assert.Equal(t, "Popular", got[0].Title)
}

func TestSearchAppliesSort(t *testing.T) {
	uc, listings, _ := newListingUseCase()
	ctx := context.Background()

	for _, l := range []*entity.Listing{
		{SellerID: seller.ID, Title: "Film camera", Category: "electronics", StartingPrice: 300, Status: entity.ListingStatusActive},
		{SellerID: seller.ID, Title: "Camera strap", Category: "electronics", StartingPrice: 15, Status: entity.ListingStatusActive},
		{SellerID: seller.ID, Title: "Desk lamp", Category: "home", StartingPrice: 40, Status: entity.ListingStatusActive},
	} {
		require.NoError(t, listings.Create(ctx, l))
	}

	got, total, err := uc.ListListings(ctx, ListListingsInput{Search: "camera", Sort: "price-low"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, got, 2)
	assert.Equal(t, "Camera strap", got[0].Title)
	assert.Equal(t, "Film camera", got[1].Title)
}

func TestMinimumBid(t *testing.T) {
	listing := &entity.Listing{StartingPrice: 100}
	assert.Equal(t, float64(100), listing.MinimumBid())

	listing.CurrentBid = 100
	assert.Equal(t, float64(101), listing.MinimumBid())
}
