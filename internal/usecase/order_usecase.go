package usecase

import (
	"context"

	"bazaarflow/internal/domain/entity"
	"bazaarflow/internal/domain/repository"
	"bazaarflow/pkg/errors"
)

type OrderUseCase struct {
	orderRepo repository.OrderRepository
}

func NewOrderUseCase(orderRepo repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{
		orderRepo: orderRepo,
	}
}

// OrderHistory is the ledger view for one user: both sides of every
// sale they took part in.
type OrderHistory struct {
	Purchases []*entity.Order `json:"purchases"`
	Sales     []*entity.Order `json:"sales"`
}

func (uc *OrderUseCase) GetOrderHistory(ctx context.Context, userID string) (*OrderHistory, error) {
	purchases, err := uc.orderRepo.ListByUser(ctx, userID, "buyer")
	if err != nil {
		return nil, err
	}

	sales, err := uc.orderRepo.ListByUser(ctx, userID, "seller")
	if err != nil {
		return nil, err
	}

	if purchases == nil {
		purchases = []*entity.Order{}
	}
	if sales == nil {
		sales = []*entity.Order{}
	}

	return &OrderHistory{Purchases: purchases, Sales: sales}, nil
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, requesterID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Orders are private to the two parties of the sale.
	if order.BuyerID != requesterID && order.SellerID != requesterID {
		return nil, errors.NotFound("Order", nil)
	}

	return order, nil
}
