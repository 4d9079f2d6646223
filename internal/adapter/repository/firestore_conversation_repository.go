package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"bazaarflow/internal/domain/entity"
	"bazaarflow/internal/domain/repository"
	"bazaarflow/pkg/errors"
)

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

// GetOrCreate uses the deterministic conversation key as the document
// ID, so two concurrent creations for the same pair and listing cannot
// both insert: the loser's Create fails with AlreadyExists and we
// return the winner's document.
func (r *firestoreConversationRepository) GetOrCreate(ctx context.Context, conv *entity.Conversation) (*entity.Conversation, bool, error) {
	key := entity.ConversationKey(conv.ListingID, conv.Participants)
	docRef := r.client.Collection("conversations").Doc(key)

	doc, err := docRef.Get(ctx)
	if err == nil {
		var existing entity.Conversation
		if err := doc.DataTo(&existing); err != nil {
			return nil, false, errors.Internal("Failed to parse conversation data", err)
		}
		return &existing, false, nil
	}
	if status.Code(err) != codes.NotFound {
		return nil, false, errors.Internal("Failed to get conversation", err)
	}

	now := time.Now()
	conv.ID = key
	conv.CreatedAt = now
	conv.UpdatedAt = now

	if _, err := docRef.Create(ctx, conv); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			// Lost the race; the other caller's document wins.
			doc, err := docRef.Get(ctx)
			if err != nil {
				return nil, false, errors.Internal("Failed to get conversation", err)
			}
			var existing entity.Conversation
			if err := doc.DataTo(&existing); err != nil {
				return nil, false, errors.Internal("Failed to parse conversation data", err)
			}
			return &existing, false, nil
		}
		return nil, false, errors.Internal("Failed to create conversation", err)
	}

	return conv, true, nil
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.client.Collection("conversations").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Internal("Failed to get conversation", err)
	}

	var conv entity.Conversation
	if err := doc.DataTo(&conv); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}

	return &conv, nil
}

func (r *firestoreConversationRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	query := r.client.Collection("conversations").
		Where("participants", "array-contains", userID).
		OrderBy("updatedAt", firestore.Desc)

	iter := query.Documents(ctx)
	var conversations []*entity.Conversation

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate conversations", err)
		}

		var conv entity.Conversation
		if err := doc.DataTo(&conv); err != nil {
			continue
		}
		conversations = append(conversations, &conv)
	}

	return conversations, nil
}

func (r *firestoreConversationRepository) Touch(ctx context.Context, id string) error {
	_, err := r.client.Collection("conversations").Doc(id).Update(ctx, []firestore.Update{
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return errors.Internal("Failed to touch conversation", err)
	}

	return nil
}

func (r *firestoreConversationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("conversations").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete conversation", err)
	}

	return nil
}

func (r *firestoreConversationRepository) ListAllByCreation(ctx context.Context) ([]*entity.Conversation, error) {
	query := r.client.Collection("conversations").OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	var conversations []*entity.Conversation

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate conversations", err)
		}

		var conv entity.Conversation
		if err := doc.DataTo(&conv); err != nil {
			continue
		}
		conversations = append(conversations, &conv)
	}

	return conversations, nil
}

func (r *firestoreConversationRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	message.CreatedAt = time.Now()

	_, err := r.client.Collection("conversations").Doc(message.ConversationID).
		Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	query := r.client.Collection("conversations").Doc(conversationID).
		Collection("messages").OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}
		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreConversationRepository) LastMessage(ctx context.Context, conversationID string) (*entity.Message, error) {
	query := r.client.Collection("conversations").Doc(conversationID).
		Collection("messages").OrderBy("createdAt", firestore.Desc).Limit(1)

	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Internal("Failed to get last message", err)
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}

	return &message, nil
}

func (r *firestoreConversationRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID string) error {
	query := r.client.Collection("conversations").Doc(conversationID).
		Collection("messages").Where("read", "==", false)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return errors.Internal("Failed to query unread messages", err)
	}

	now := time.Now()
	for _, doc := range docs {
		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			continue
		}
		if message.SenderID == readerID {
			continue
		}

		message.Read = true
		message.ReadAt = &now

		if _, err := doc.Ref.Set(ctx, &message); err != nil {
			return errors.Internal("Failed to mark message read", err)
		}
	}

	return nil
}

func (r *firestoreConversationRepository) CountUnread(ctx context.Context, conversationID, userID string) (int64, error) {
	query := r.client.Collection("conversations").Doc(conversationID).
		Collection("messages").Where("read", "==", false)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count unread messages", err)
	}

	var count int64
	for _, doc := range docs {
		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			continue
		}
		if message.SenderID != userID {
			count++
		}
	}

	return count, nil
}
