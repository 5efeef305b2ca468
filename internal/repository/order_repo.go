package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `
	id, offer_id, brand_id, creator_id, amount, currency, trip_destination,
	trip_country, status, stripe_session_id, created_at, updated_at
`

func scanOrder(row interface{ Scan(dest ...any) error }) (*models.Order, error) {
	var order models.Order
	err := row.Scan(
		&order.ID,
		&order.OfferID,
		&order.BrandID,
		&order.CreatorID,
		&order.Amount,
		&order.Currency,
		&order.TripDestination,
		&order.TripCountry,
		&order.Status,
		&order.StripeSessionID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

type CreateOrderInput struct {
	ID              string
	OfferID         string
	BrandID         int64
	CreatorID       int64
	Amount          float64
	Currency        string
	TripDestination string
	TripCountry     string
	StripeSessionID string
}

// CreateIfAbsent inserts the order keyed by offer id. A duplicate insert
// (webhook replay) returns the existing row untouched.
func (r *OrderRepository) CreateIfAbsent(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	query := `
		INSERT INTO orders (
			id, offer_id, brand_id, creator_id, amount, currency,
			trip_destination, trip_country, status, stripe_session_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'paid', $9)
		ON CONFLICT (id) DO NOTHING
		RETURNING ` + orderColumns

	order, err := scanOrder(r.db.QueryRow(
		ctx,
		query,
		input.ID,
		input.OfferID,
		input.BrandID,
		input.CreatorID,
		input.Amount,
		input.Currency,
		input.TripDestination,
		input.TripCountry,
		input.StripeSessionID,
	))
	if err == pgx.ErrNoRows {
		return r.GetByID(ctx, input.ID)
	}
	return order, err
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`
	return scanOrder(r.db.QueryRow(ctx, query, orderID))
}

func (r *OrderRepository) ListForActor(
	ctx context.Context,
	actorID int64,
	role string,
) ([]models.Order, error) {
	actorColumn := "brand_id"
	if role == "creator" {
		actorColumn = "creator_id"
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ` + actorColumn + ` = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateStatusIfCurrent is a compare-and-swap on status, so two actors
// racing on the same order cannot both win the same transition.
func (r *OrderRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	orderID string,
	currentStatus string,
	nextStatus string,
) (*models.Order, error) {
	query := `
		UPDATE orders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + orderColumns
	return scanOrder(r.db.QueryRow(ctx, query, orderID, currentStatus, nextStatus))
}

func (r *OrderRepository) EarningsTotal(ctx context.Context, creatorID int64) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM orders
		WHERE creator_id = $1 AND status <> 'cancelled'
	`
	var total float64
	if err := r.db.QueryRow(ctx, query, creatorID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
