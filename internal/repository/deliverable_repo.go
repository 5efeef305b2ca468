package repository

import (
	"context"

	"github.com/miwaszko990/ugc-travel-connect/internal/models"
)

type DeliverableRepository struct {
	db DBTX
}

func NewDeliverableRepository(db DBTX) *DeliverableRepository {
	return &DeliverableRepository{db: db}
}

type CreateDeliverableInput struct {
	OrderID     string
	CreatorID   int64
	BrandID     int64
	Title       string
	Description *string
	FileURL     string
}

func (r *DeliverableRepository) Create(
	ctx context.Context,
	input CreateDeliverableInput,
) (*models.Deliverable, error) {
	query := `
		INSERT INTO deliverables (order_id, creator_id, brand_id, title, description, file_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, order_id, creator_id, brand_id, title, description, file_url, created_at
	`

	var deliverable models.Deliverable
	err := r.db.QueryRow(
		ctx,
		query,
		input.OrderID,
		input.CreatorID,
		input.BrandID,
		input.Title,
		input.Description,
		input.FileURL,
	).Scan(
		&deliverable.ID,
		&deliverable.OrderID,
		&deliverable.CreatorID,
		&deliverable.BrandID,
		&deliverable.Title,
		&deliverable.Description,
		&deliverable.FileURL,
		&deliverable.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &deliverable, nil
}

func (r *DeliverableRepository) GetByID(ctx context.Context, deliverableID int64) (*models.Deliverable, error) {
	query := `
		SELECT id, order_id, creator_id, brand_id, title, description, file_url, created_at
		FROM deliverables
		WHERE id = $1
	`

	var deliverable models.Deliverable
	err := r.db.QueryRow(ctx, query, deliverableID).Scan(
		&deliverable.ID,
		&deliverable.OrderID,
		&deliverable.CreatorID,
		&deliverable.BrandID,
		&deliverable.Title,
		&deliverable.Description,
		&deliverable.FileURL,
		&deliverable.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &deliverable, nil
}

func (r *DeliverableRepository) ListForActor(
	ctx context.Context,
	actorID int64,
	role string,
) ([]models.Deliverable, error) {
	actorColumn := "brand_id"
	if role == "creator" {
		actorColumn = "creator_id"
	}

	query := `
		SELECT id, order_id, creator_id, brand_id, title, description, file_url, created_at
		FROM deliverables
		WHERE ` + actorColumn + ` = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deliverables := make([]models.Deliverable, 0)
	for rows.Next() {
		var deliverable models.Deliverable
		if err := rows.Scan(
			&deliverable.ID,
			&deliverable.OrderID,
			&deliverable.CreatorID,
			&deliverable.BrandID,
			&deliverable.Title,
			&deliverable.Description,
			&deliverable.FileURL,
			&deliverable.CreatedAt,
		); err != nil {
			return nil, err
		}
		deliverables = append(deliverables, deliverable)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return deliverables, nil
}

func (r *DeliverableRepository) ListByOrder(ctx context.Context, orderID string) ([]models.Deliverable, error) {
	query := `
		SELECT id, order_id, creator_id, brand_id, title, description, file_url, created_at
		FROM deliverables
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deliverables := make([]models.Deliverable, 0)
	for rows.Next() {
		var deliverable models.Deliverable
		if err := rows.Scan(
			&deliverable.ID,
			&deliverable.OrderID,
			&deliverable.CreatorID,
			&deliverable.BrandID,
			&deliverable.Title,
			&deliverable.Description,
			&deliverable.FileURL,
			&deliverable.CreatedAt,
		); err != nil {
			return nil, err
		}
		deliverables = append(deliverables, deliverable)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return deliverables, nil
}
