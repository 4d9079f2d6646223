package repository

import (
	"context"

	"bazaarflow/internal/domain/entity"
)

type OrderRepository interface {
	// Create inserts the settlement record. Orders are immutable after
	// creation; no update method exists by design.
	Create(ctx context.Context, order *entity.Order) error

	GetByID(ctx context.Context, id string) (*entity.Order, error)

	// ListByUser returns orders where the user acted in the given role
	// ("buyer" or "seller"), newest first.
	ListByUser(ctx context.Context, userID, role string) ([]*entity.Order, error)
}
