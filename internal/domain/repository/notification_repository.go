package repository

import (
	"context"

	"bazaarflow/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error

	// ListByUserID returns the user's notifications newest first.
	ListByUserID(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)

	// MarkRead flips read on a single notification, scoped to its
	// owner.
	MarkRead(ctx context.Context, id, userID string) error

	// DeleteAllByUserID clears the user's notifications.
	DeleteAllByUserID(ctx context.Context, userID string) error
}
