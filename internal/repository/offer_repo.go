package repository

import (
	"context"

	"github.com/miwaszko990/ugc-travel-connect/internal/models"
)

type OfferRepository struct {
	db DBTX
}

func NewOfferRepository(db DBTX) *OfferRepository {
	return &OfferRepository{db: db}
}

const offerColumns = `
	id, message_id, conversation_id, brand_id, creator_id, amount, currency,
	trip_destination, trip_country, status, stripe_session_id, paid_at,
	created_at, updated_at
`

func scanOffer(row interface{ Scan(dest ...any) error }) (*models.Offer, error) {
	var offer models.Offer
	err := row.Scan(
		&offer.ID,
		&offer.MessageID,
		&offer.ConversationID,
		&offer.BrandID,
		&offer.CreatorID,
		&offer.Amount,
		&offer.Currency,
		&offer.TripDestination,
		&offer.TripCountry,
		&offer.Status,
		&offer.StripeSessionID,
		&offer.PaidAt,
		&offer.CreatedAt,
		&offer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

type CreateOfferInput struct {
	ID              string
	MessageID       int64
	ConversationID  int64
	BrandID         int64
	CreatorID       int64
	Amount          float64
	Currency        string
	TripDestination string
	TripCountry     string
}

func (r *OfferRepository) Create(ctx context.Context, input CreateOfferInput) (*models.Offer, error) {
	query := `
		INSERT INTO offers (
			id, message_id, conversation_id, brand_id, creator_id, amount,
			currency, trip_destination, trip_country, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending')
		RETURNING ` + offerColumns
	return scanOffer(r.db.QueryRow(
		ctx,
		query,
		input.ID,
		input.MessageID,
		input.ConversationID,
		input.BrandID,
		input.CreatorID,
		input.Amount,
		input.Currency,
		input.TripDestination,
		input.TripCountry,
	))
}

func (r *OfferRepository) GetByID(ctx context.Context, offerID string) (*models.Offer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM offers
		WHERE id = $1
	`
	return scanOffer(r.db.QueryRow(ctx, query, offerID))
}

func (r *OfferRepository) SetStripeSession(ctx context.Context, offerID string, sessionID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE offers
		SET stripe_session_id = $2, updated_at = NOW()
		WHERE id = $1
	`, offerID, sessionID)
	return err
}

// MarkPaidIfPending is the guarded half of the payment transition: a replay
// or a concurrent webhook sees zero affected rows instead of double-paying.
func (r *OfferRepository) MarkPaidIfPending(
	ctx context.Context,
	offerID string,
	sessionID string,
) (*models.Offer, error) {
	query := `
		UPDATE offers
		SET status = 'paid',
			stripe_session_id = $2,
			paid_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + offerColumns
	return scanOffer(r.db.QueryRow(ctx, query, offerID, sessionID))
}
