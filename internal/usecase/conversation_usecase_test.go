package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaarflow/internal/domain/entity"
	"bazaarflow/pkg/errors"
)

type conversationFixture struct {
	conversations *memConversationRepo
	listings      *memListingRepo
	users         *memUserRepo
	notifications *memNotificationRepo
	uc            *ConversationUseCase
}

func newConversationFixture() *conversationFixture {
	f := &conversationFixture{
		conversations: newMemConversationRepo(),
		listings:      newMemListingRepo(),
		users:         newMemUserRepo(),
		notifications: newMemNotificationRepo(),
	}
	notificationUC := NewNotificationUseCase(f.notifications, nil)
	f.uc = NewConversationUseCase(f.conversations, f.listings, f.users, notificationUC, nil, nil)
	return f
}

func TestCreateConversationGetOrCreate(t *testing.T) {
	f := newConversationFixture()
	ctx := context.Background()

	first, err := f.uc.CreateConversation(ctx, alice, CreateConversationInput{RecipientID: bob.ID, ListingID: "listing-1"})
	require.NoError(t, err)
	assert.True(t, first.IsNew)

	// Repeating the request, in either direction, converges on the
	// same conversation.
	second, err := f.uc.CreateConversation(ctx, alice, CreateConversationInput{RecipientID: bob.ID, ListingID: "listing-1"})
	require.NoError(t, err)
	assert.False(t, second.IsNew)
	assert.Equal(t, first.Conversation.ID, second.Conversation.ID)

	reversed, err := f.uc.CreateConversation(ctx, bob, CreateConversationInput{RecipientID: alice.ID, ListingID: "listing-1"})
	require.NoError(t, err)
	assert.False(t, reversed.IsNew)
	assert.Equal(t, first.Conversation.ID, reversed.Conversation.ID)

	// A different listing between the same pair is a separate thread.
	other, err := f.uc.CreateConversation(ctx, alice, CreateConversationInput{RecipientID: bob.ID, ListingID: "listing-2"})
	require.NoError(t, err)
	assert.True(t, other.IsNew)
	assert.NotEqual(t, first.Conversation.ID, other.Conversation.ID)

	// As is a general thread with no listing.
	general, err := f.uc.CreateConversation(ctx, alice, CreateConversationInput{RecipientID: bob.ID})
	require.NoError(t, err)
	assert.True(t, general.IsNew)
}

func TestCreateConversationWithSelf(t *testing.T) {
	f := newConversationFixture()

	_, err := f.uc.CreateConversation(context.Background(), alice, CreateConversationInput{RecipientID: alice.ID})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestSendMessageAndUnreadFlow(t *testing.T) {
	f := newConversationFixture()
	ctx := context.Background()

	conv, err := f.uc.CreateConversation(ctx, alice, CreateConversationInput{RecipientID: bob.ID})
	require.NoError(t, err)
	convID := conv.Conversation.ID

	_, err = f.uc.SendMessage(ctx, alice, convID, SendMessageInput{Content: "Is this still available?"})
	require.NoError(t, err)
	_, err = f.uc.SendMessage(ctx, alice, convID, SendMessageInput{Content: "Hello?"})
	require.NoError(t, err)

	// The sender's own messages never count as unread for them.
	total, err := f.uc.UnreadTotal(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, total)

	total, err = f.uc.UnreadTotal(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// Opening the thread is the read receipt.
	thread, err := f.uc.GetMessages(ctx, bob.ID, convID)
	require.NoError(t, err)
	assert.Len(t, thread.Messages, 2)

	total, err = f.uc.UnreadTotal(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, total)

	// The sender now sees the read flag flipped.
	thread, err = f.uc.GetMessages(ctx, alice.ID, convID)
	require.NoError(t, err)
	for _, m := range thread.Messages {
		assert.True(t, m.Read)
		assert.NotNil(t, m.ReadAt)
	}
}

func TestSendMessageNotifiesRecipient(t *testing.T) {
	f := newConversationFixture()
	ctx := context.Background()

	conv, err := f.uc.CreateConversation(ctx, alice, CreateConversationInput{RecipientID: bob.ID})
	require.NoError(t, err)

	_, err = f.uc.SendMessage(ctx, alice, conv.Conversation.ID, SendMessageInput{Content: "hi"})
	require.NoError(t, err)

	notes := f.notifications.forUser(bob.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationTypeMessage, notes[0].Type)
}

func TestSendMessageEmptyContent(t *testing.T) {
	f := newConversationFixture()
	ctx := context.Background()

	conv, err := f.uc.CreateConversation(ctx, alice, CreateConversationInput{RecipientID: bob.ID})
	require.NoError(t, err)

	_, err = f.uc.SendMessage(ctx, alice, conv.Conversation.ID, SendMessageInput{Content: "   "})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestNonParticipantSeesNothing(t *testing.T) {
	f := newConversationFixture()
	ctx := context.Background()

	conv, err := f.uc.CreateConversation(ctx, alice, CreateConversationInput{RecipientID: bob.ID})
	require.NoError(t, err)

	outsider := Identity{ID: "mallory", Name: "Mallory"}

	_, err = f.uc.GetMessages(ctx, outsider.ID, conv.Conversation.ID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	_, err = f.uc.SendMessage(ctx, outsider, conv.Conversation.ID, SendMessageInput{Content: "let me in"})
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestListConversationsSummaries(t *testing.T) {
	f := newConversationFixture()
	ctx := context.Background()

	listing := &entity.Listing{
		SellerID: bob.ID, SellerName: bob.Name, Title: "Old bicycle",
		Category: "sports", StartingPrice: 40, Status: entity.ListingStatusActive,
	}
	require.NoError(t, f.listings.Create(ctx, listing))

	conv, err := f.uc.CreateConversation(ctx, alice, CreateConversationInput{RecipientID: bob.ID, ListingID: listing.ID})
	require.NoError(t, err)

	_, err = f.uc.SendMessage(ctx, alice, conv.Conversation.ID, SendMessageInput{Content: "Would you take 35?"})
	require.NoError(t, err)

	summaries, err := f.uc.ListConversations(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, alice.ID, s.OtherUser.ID)
	assert.Equal(t, "seller", s.Role)
	assert.Equal(t, "Old bicycle", s.ListingTitle)
	require.NotNil(t, s.LastMessage)
	assert.Equal(t, "Would you take 35?", s.LastMessage.Content)
	assert.Equal(t, int64(1), s.UnreadCount)

	summaries, err = f.uc.ListConversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "buyer", summaries[0].Role)
	assert.Zero(t, summaries[0].UnreadCount)
}

func TestCleanupDuplicatesKeepsOldest(t *testing.T) {
	f := newConversationFixture()
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	participants := []string{alice.ID, bob.ID}

	// Legacy rows created before the store enforced uniqueness: three
	// copies of one thread plus one unrelated thread.
	f.conversations.insertRaw(&entity.Conversation{
		ID: "dup-oldest", Participants: participants, ListingID: "listing-1", CreatedAt: base,
	})
	f.conversations.insertRaw(&entity.Conversation{
		ID: "dup-middle", Participants: []string{bob.ID, alice.ID}, ListingID: "listing-1", CreatedAt: base.Add(time.Minute),
	})
	f.conversations.insertRaw(&entity.Conversation{
		ID: "dup-newest", Participants: participants, ListingID: "listing-1", CreatedAt: base.Add(2 * time.Minute),
	})
	f.conversations.insertRaw(&entity.Conversation{
		ID: "unrelated", Participants: participants, ListingID: "listing-2", CreatedAt: base.Add(3 * time.Minute),
	})

	result, err := f.uc.CleanupDuplicates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Deleted)
	assert.Equal(t, 2, result.Remaining)

	_, err = f.conversations.GetByID(ctx, "dup-oldest")
	assert.NoError(t, err)
	_, err = f.conversations.GetByID(ctx, "dup-middle")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
	_, err = f.conversations.GetByID(ctx, "dup-newest")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
	_, err = f.conversations.GetByID(ctx, "unrelated")
	assert.NoError(t, err)
}

func TestConversationKey(t *testing.T) {
	key1 := entity.ConversationKey("listing-1", []string{"bob", "alice"})
	key2 := entity.ConversationKey("listing-1", []string{"alice", "bob"})
	assert.Equal(t, key1, key2)
	assert.Equal(t, "listing-1_alice-bob", key1)

	assert.Equal(t, "general_alice-bob", entity.ConversationKey("", []string{"alice", "bob"}))
	assert.NotEqual(t, key1, entity.ConversationKey("listing-2", []string{"alice", "bob"}))
}
