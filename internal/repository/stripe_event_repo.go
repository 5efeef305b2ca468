package repository

import "context"

// StripeEventRepository is the webhook idempotency ledger. Stripe delivers
// events at least once; recording each event id inside the same transaction
// as its side effects makes a replay a complete no-op.
type StripeEventRepository struct {
	db DBTX
}

func NewStripeEventRepository(db DBTX) *StripeEventRepository {
	return &StripeEventRepository{db: db}
}

// InsertIfAbsent returns false when the event id was already recorded.
func (r *StripeEventRepository) InsertIfAbsent(ctx context.Context, eventID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO stripe_events (id)
		VALUES ($1)
		ON CONFLICT (id) DO NOTHING
	`, eventID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
