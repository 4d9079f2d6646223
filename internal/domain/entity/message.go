package entity

import "time"

type Message struct {
	ID             string     `json:"id" firestore:"id"`
	ConversationID string     `json:"conversation_id" firestore:"conversationId"`
	SenderID       string     `json:"sender_id" firestore:"senderId"`
	SenderName     string     `json:"sender_name" firestore:"senderName"`
	Content        string     `json:"content" firestore:"content"`
	Read           bool       `json:"read" firestore:"read"`
	ReadAt         *time.Time `json:"read_at,omitempty" firestore:"readAt,omitempty"`
	CreatedAt      time.Time  `json:"created_at" firestore:"createdAt"`
}
