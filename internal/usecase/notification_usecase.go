package usecase

import (
	"context"

	"bazaarflow/internal/domain/entity"
	"bazaarflow/internal/domain/repository"
	ws "bazaarflow/internal/infrastructure/websocket"
	"bazaarflow/pkg/errors"
	"bazaarflow/pkg/logger"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	wsManager        *ws.Manager
}

func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	wsManager *ws.Manager,
) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		wsManager:        wsManager,
	}
}

// Notify appends a notification for the user. Fire-and-forget:
// failures are logged and never propagated to the action that
// triggered the notification.
func (uc *NotificationUseCase) Notify(ctx context.Context, userID, notifType, title, message, listingID string) {
	notification := &entity.Notification{
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		ListingID: listingID,
	}

	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		logger.Error("Failed to create notification for user %s: %v", userID, err)
		return
	}

	if uc.wsManager != nil {
		uc.wsManager.SendToUser(userID, ws.Event{
			Type:    "notification",
			Payload: notification,
		})
	}
}

type NotificationListResponse struct {
	Notifications []*entity.Notification `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
}

func (uc *NotificationUseCase) ListNotifications(ctx context.Context, userID string) (*NotificationListResponse, error) {
	notifications, err := uc.notificationRepo.ListByUserID(ctx, userID, 50)
	if err != nil {
		return nil, err
	}

	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}

	if notifications == nil {
		notifications = []*entity.Notification{}
	}

	return &NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, notificationID string) error {
	if notificationID == "" {
		return errors.BadRequest("Notification ID is required", nil)
	}

	return uc.notificationRepo.MarkRead(ctx, notificationID, userID)
}

func (uc *NotificationUseCase) ClearAll(ctx context.Context, userID string) error {
	return uc.notificationRepo.DeleteAllByUserID(ctx, userID)
}
