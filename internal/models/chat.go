package models

import "time"

type Conversation struct {
	ID        int64     `json:"id"`
	PairKey   string    `json:"pair_key"`
	BrandID   int64     `json:"brand_id"`
	CreatorID int64     `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	MessageKindText   = "text"
	MessageKindOffer  = "offer"
	MessageKindSystem = "system"
)

type ChatMessage struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	Kind           string    `json:"kind"`
	Content        string    `json:"content"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

type ConversationSummary struct {
	Conversation
	LastMessage *ChatMessage `json:"last_message,omitempty"`
	UnreadCount int          `json:"unread_count"`
}

// TypingPeer is a participant with a live typing marker. StartedAt is the
// write time; readers decide expiry, the writer is not trusted to clean up.
type TypingPeer struct {
	UserID    int64     `json:"user_id"`
	StartedAt time.Time `json:"started_at"`
}
