package models

import "time"

const (
	OrderStatusPaid       = "paid"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order is the escrow record materialized by the payment webhook. Its id
// equals the originating offer id, so a replayed webhook resolves to the
// same row instead of creating a duplicate.
type Order struct {
	ID              string    `json:"id"`
	OfferID         string    `json:"offer_id"`
	BrandID         int64     `json:"brand_id"`
	CreatorID       int64     `json:"creator_id"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	TripDestination string    `json:"trip_destination"`
	TripCountry     string    `json:"trip_country"`
	Status          string    `json:"status"`
	StripeSessionID *string   `json:"stripe_session_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type OrderListing struct {
	Orders        []Order `json:"orders"`
	EarningsTotal float64 `json:"earnings_total,omitempty"`
}

type Deliverable struct {
	ID          int64     `json:"id"`
	OrderID     string    `json:"order_id"`
	CreatorID   int64     `json:"creator_id"`
	BrandID     int64     `json:"brand_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	FileURL     string    `json:"file_url"`
	CreatedAt   time.Time `json:"created_at"`
}
