package repository

import (
	"context"

	"bazaarflow/internal/domain/entity"
)

type ConversationRepository interface {
	// GetOrCreate returns the conversation for the participant pair and
	// listing, creating it when absent. The boolean reports whether a
	// new conversation was created. Concurrent calls with the same
	// arguments converge on one document.
	GetOrCreate(ctx context.Context, conv *entity.Conversation) (*entity.Conversation, bool, error)

	GetByID(ctx context.Context, id string) (*entity.Conversation, error)

	// ListByUserID returns the user's conversations sorted by updatedAt
	// descending.
	ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error)

	// Touch bumps the conversation's updatedAt.
	Touch(ctx context.Context, id string) error

	Delete(ctx context.Context, id string) error

	// ListAllByCreation returns every conversation ordered by createdAt
	// ascending. Used by the dedup repair procedure.
	ListAllByCreation(ctx context.Context) ([]*entity.Conversation, error)

	CreateMessage(ctx context.Context, message *entity.Message) error

	// ListMessages returns the thread oldest first.
	ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error)

	// LastMessage returns the newest message or nil when the thread is
	// empty.
	LastMessage(ctx context.Context, conversationID string) (*entity.Message, error)

	// MarkMessagesRead flips read on every message in the conversation
	// not sent by readerID.
	MarkMessagesRead(ctx context.Context, conversationID, readerID string) error

	// CountUnread counts messages in the conversation not sent by
	// userID and not yet read.
	CountUnread(ctx context.Context, conversationID, userID string) (int64, error)
}
