package models

import "time"

const (
	OfferStatusPending = "pending"
	OfferStatusPaid    = "paid"
)

type Offer struct {
	ID              string     `json:"id"`
	MessageID       int64      `json:"message_id"`
	ConversationID  int64      `json:"conversation_id"`
	BrandID         int64      `json:"brand_id"`
	CreatorID       int64      `json:"creator_id"`
	Amount          float64    `json:"amount"`
	Currency        string     `json:"currency"`
	TripDestination string     `json:"trip_destination"`
	TripCountry     string     `json:"trip_country"`
	Status          string     `json:"status"`
	StripeSessionID *string    `json:"stripe_session_id,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type OfferMessage struct {
	Message ChatMessage `json:"message"`
	Offer   Offer       `json:"offer"`
}
