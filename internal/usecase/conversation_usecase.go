package usecase

import (
	"context"
	"fmt"
	"strings"

	"bazaarflow/internal/domain/entity"
	"bazaarflow/internal/domain/repository"
	"bazaarflow/internal/infrastructure/ratelimit"
	ws "bazaarflow/internal/infrastructure/websocket"
	"bazaarflow/pkg/errors"
	"bazaarflow/pkg/logger"
)

type ConversationUseCase struct {
	conversationRepo repository.ConversationRepository
	listingRepo      repository.ListingRepository
	userRepo         repository.UserRepository
	notifications    *NotificationUseCase
	wsManager        *ws.Manager
	rateLimiter      *ratelimit.RateLimiter
}

func NewConversationUseCase(
	conversationRepo repository.ConversationRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	notifications *NotificationUseCase,
	wsManager *ws.Manager,
	rateLimiter *ratelimit.RateLimiter,
) *ConversationUseCase {
	return &ConversationUseCase{
		conversationRepo: conversationRepo,
		listingRepo:      listingRepo,
		userRepo:         userRepo,
		notifications:    notifications,
		wsManager:        wsManager,
		rateLimiter:      rateLimiter,
	}
}

type CreateConversationInput struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	ListingID   string `json:"listing_id"`
}

// ConversationResult reports whether the call created a new thread or
// joined an existing one; clients use IsNew only for analytics.
type ConversationResult struct {
	Conversation *entity.Conversation `json:"conversation"`
	IsNew        bool                 `json:"is_new"`
}

// CreateConversation is get-or-create: at most one thread ever exists
// per participant pair and listing, no matter how many times or how
// concurrently it is called.
func (uc *ConversationUseCase) CreateConversation(ctx context.Context, requester Identity, input CreateConversationInput) (*ConversationResult, error) {
	if input.RecipientID == requester.ID {
		return nil, errors.BadRequest("You cannot message yourself", nil)
	}

	if uc.rateLimiter != nil {
		if allowed, retryAfter := uc.rateLimiter.Allow(requester.ID, "create_conversation"); !allowed {
			return nil, errors.TooManyRequests(
				fmt.Sprintf("Too many new conversations. Try again in %.0f minutes", retryAfter.Minutes()), nil)
		}
	}

	recipientName := "User"
	recipientEmail := ""
	if recipient, err := uc.userRepo.GetByID(ctx, input.RecipientID); err == nil {
		recipientName = recipient.Name
		recipientEmail = recipient.Email
	}

	conv := &entity.Conversation{
		Participants: []string{requester.ID, input.RecipientID},
		ParticipantDetails: []entity.Participant{
			{ID: requester.ID, Name: requester.Name, Email: requester.Email},
			{ID: input.RecipientID, Name: recipientName, Email: recipientEmail},
		},
		ListingID: input.ListingID,
	}

	created, isNew, err := uc.conversationRepo.GetOrCreate(ctx, conv)
	if err != nil {
		return nil, err
	}

	return &ConversationResult{Conversation: created, IsNew: isNew}, nil
}

// ConversationSummary is one row of the inbox: the thread plus the
// display fields a list view needs without further fetches.
type ConversationSummary struct {
	Conversation *entity.Conversation `json:"conversation"`
	OtherUser    entity.Participant   `json:"other_user"`
	Role         string               `json:"role"` // "seller", "buyer" or "member"
	ListingTitle string               `json:"listing_title,omitempty"`
	LastMessage  *entity.Message      `json:"last_message,omitempty"`
	UnreadCount  int64                `json:"unread_count"`
}

func (uc *ConversationUseCase) ListConversations(ctx context.Context, userID string) ([]*ConversationSummary, error) {
	conversations, err := uc.conversationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		summary := &ConversationSummary{
			Conversation: conv,
			Role:         "member",
		}

		otherID := conv.OtherParticipant(userID)
		for _, p := range conv.ParticipantDetails {
			if p.ID == otherID {
				summary.OtherUser = p
				break
			}
		}

		if conv.ListingID != "" {
			if listing, err := uc.listingRepo.GetByID(ctx, conv.ListingID); err == nil {
				summary.ListingTitle = listing.Title
				if listing.SellerID == userID {
					summary.Role = "seller"
				} else {
					summary.Role = "buyer"
				}
			}
		}

		last, err := uc.conversationRepo.LastMessage(ctx, conv.ID)
		if err != nil {
			logger.Warn("Failed to load last message for conversation %s: %v", conv.ID, err)
		} else {
			summary.LastMessage = last
		}

		unread, err := uc.conversationRepo.CountUnread(ctx, conv.ID, userID)
		if err != nil {
			logger.Warn("Failed to count unread for conversation %s: %v", conv.ID, err)
		} else {
			summary.UnreadCount = unread
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// ConversationThread is the full message view of one conversation.
type ConversationThread struct {
	Conversation *entity.Conversation `json:"conversation"`
	Messages     []*entity.Message    `json:"messages"`
}

// GetMessages returns the thread oldest first and, as a side effect,
// marks every message not sent by the requester as read. The requester
// opening the thread IS the read receipt; no separate mark-read call
// exists.
func (uc *ConversationUseCase) GetMessages(ctx context.Context, requesterID, conversationID string) (*ConversationThread, error) {
	conv, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	// Non-participants learn nothing, not even that the thread exists.
	if !conv.HasParticipant(requesterID) {
		return nil, errors.NotFound("Conversation", nil)
	}

	messages, err := uc.conversationRepo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if err := uc.conversationRepo.MarkMessagesRead(ctx, conversationID, requesterID); err != nil {
		logger.Warn("Failed to mark messages read in conversation %s: %v", conversationID, err)
	}

	if messages == nil {
		messages = []*entity.Message{}
	}

	return &ConversationThread{Conversation: conv, Messages: messages}, nil
}

type SendMessageInput struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func (uc *ConversationUseCase) SendMessage(ctx context.Context, sender Identity, conversationID string, input SendMessageInput) (*entity.Message, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, errors.BadRequest("Message content is required", nil)
	}

	if uc.rateLimiter != nil {
		if allowed, retryAfter := uc.rateLimiter.Allow(sender.ID, "send_message"); !allowed {
			return nil, errors.TooManyRequests(
				fmt.Sprintf("Too many messages. Try again in %.0f seconds", retryAfter.Seconds()), nil)
		}
	}

	conv, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if !conv.HasParticipant(sender.ID) {
		return nil, errors.NotFound("Conversation", nil)
	}

	message := &entity.Message{
		ConversationID: conversationID,
		SenderID:       sender.ID,
		SenderName:     sender.Name,
		Content:        content,
	}

	if err := uc.conversationRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if err := uc.conversationRepo.Touch(ctx, conversationID); err != nil {
		logger.Warn("Failed to touch conversation %s: %v", conversationID, err)
	}

	recipientID := conv.OtherParticipant(sender.ID)
	if recipientID != "" {
		uc.notifications.Notify(ctx, recipientID, entity.NotificationTypeMessage,
			"New message",
			fmt.Sprintf("%s sent you a message", sender.Name),
			conv.ListingID)

		if uc.wsManager != nil {
			uc.wsManager.SendToUser(recipientID, ws.Event{
				Type:    "message",
				Payload: message,
			})
		}
	}

	return message, nil
}

// UnreadTotal sums unread messages across all of the user's
// conversations; the inbox badge polls this.
func (uc *ConversationUseCase) UnreadTotal(ctx context.Context, userID string) (int64, error) {
	conversations, err := uc.conversationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, conv := range conversations {
		unread, err := uc.conversationRepo.CountUnread(ctx, conv.ID, userID)
		if err != nil {
			logger.Warn("Failed to count unread for conversation %s: %v", conv.ID, err)
			continue
		}
		total += unread
	}

	return total, nil
}

// DedupResult reports the outcome of the duplicate-conversation repair
// procedure.
type DedupResult struct {
	Deleted   int `json:"deleted"`
	Remaining int `json:"remaining"`
}

// CleanupDuplicates repairs conversations created before the store
// enforced one document per participant pair and listing: it groups
// every conversation by its uniqueness key, keeps the oldest of each
// group and deletes the rest.
func (uc *ConversationUseCase) CleanupDuplicates(ctx context.Context) (*DedupResult, error) {
	conversations, err := uc.conversationRepo.ListAllByCreation(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	deleted := 0

	for _, conv := range conversations {
		key := entity.ConversationKey(conv.ListingID, conv.Participants)
		if !seen[key] {
			seen[key] = true
			continue
		}

		if err := uc.conversationRepo.Delete(ctx, conv.ID); err != nil {
			logger.Error("Failed to delete duplicate conversation %s: %v", conv.ID, err)
			continue
		}
		deleted++
	}

	return &DedupResult{
		Deleted:   deleted,
		Remaining: len(conversations) - deleted,
	}, nil
}
