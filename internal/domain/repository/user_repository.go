package repository

import (
	"context"

	"bazaarflow/internal/domain/entity"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// Upsert records the identity snapshot for a user, creating or
	// refreshing the local profile document.
	Upsert(ctx context.Context, user *entity.User) error
}
