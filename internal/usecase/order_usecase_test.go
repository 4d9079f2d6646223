package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaarflow/internal/domain/entity"
	"bazaarflow/pkg/errors"
)

func TestOrderHistorySplitsRoles(t *testing.T) {
	orders := newMemOrderRepo()
	uc := NewOrderUseCase(orders)
	ctx := context.Background()

	require.NoError(t, orders.Create(ctx, &entity.Order{
		ListingID: "l1", SellerID: seller.ID, BuyerID: alice.ID, Amount: 100, Type: entity.SaleTypeAuction, Status: "completed",
	}))
	require.NoError(t, orders.Create(ctx, &entity.Order{
		ListingID: "l2", SellerID: alice.ID, BuyerID: bob.ID, Amount: 75, Type: entity.SaleTypeBuyNow, Status: "completed",
	}))

	history, err := uc.GetOrderHistory(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, history.Purchases, 1)
	require.Len(t, history.Sales, 1)
	assert.Equal(t, "l1", history.Purchases[0].ListingID)
	assert.Equal(t, "l2", history.Sales[0].ListingID)
}

func TestGetOrderPrivateToParties(t *testing.T) {
	orders := newMemOrderRepo()
	uc := NewOrderUseCase(orders)
	ctx := context.Background()

	order := &entity.Order{ListingID: "l1", SellerID: seller.ID, BuyerID: alice.ID, Amount: 100}
	require.NoError(t, orders.Create(ctx, order))

	got, err := uc.GetOrder(ctx, alice.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = uc.GetOrder(ctx, bob.ID, order.ID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}
