package repository

import (
	"context"

	"github.com/miwaszko990/ugc-travel-connect/internal/models"
)

type PortfolioRepository struct {
	db DBTX
}

func NewPortfolioRepository(db DBTX) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

type CreatePortfolioItemInput struct {
	ID           string
	CreatorID    int64
	Kind         string
	URL          string
	ThumbnailURL *string
	Title        *string
	Description  *string
}

func (r *PortfolioRepository) Create(
	ctx context.Context,
	input CreatePortfolioItemInput,
) (*models.PortfolioItem, error) {
	query := `
		INSERT INTO portfolio_items (id, creator_id, kind, url, thumbnail_url, title, description, position)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			COALESCE((SELECT MAX(position) + 1 FROM portfolio_items WHERE creator_id = $2), 0)
		)
		RETURNING id, creator_id, kind, url, thumbnail_url, title, description, position, uploaded_at
	`

	var item models.PortfolioItem
	err := r.db.QueryRow(
		ctx,
		query,
		input.ID,
		input.CreatorID,
		input.Kind,
		input.URL,
		input.ThumbnailURL,
		input.Title,
		input.Description,
	).Scan(
		&item.ID,
		&item.CreatorID,
		&item.Kind,
		&item.URL,
		&item.ThumbnailURL,
		&item.Title,
		&item.Description,
		&item.Position,
		&item.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PortfolioRepository) ListByCreator(
	ctx context.Context,
	creatorID int64,
) ([]models.PortfolioItem, error) {
	query := `
		SELECT id, creator_id, kind, url, thumbnail_url, title, description, position, uploaded_at
		FROM portfolio_items
		WHERE creator_id = $1
		ORDER BY position ASC, uploaded_at ASC
	`

	rows, err := r.db.Query(ctx, query, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.PortfolioItem, 0)
	for rows.Next() {
		var item models.PortfolioItem
		if err := rows.Scan(
			&item.ID,
			&item.CreatorID,
			&item.Kind,
			&item.URL,
			&item.ThumbnailURL,
			&item.Title,
			&item.Description,
			&item.Position,
			&item.UploadedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *PortfolioRepository) GetByID(ctx context.Context, itemID string) (*models.PortfolioItem, error) {
	query := `
		SELECT id, creator_id, kind, url, thumbnail_url, title, description, position, uploaded_at
		FROM portfolio_items
		WHERE id = $1
	`

	var item models.PortfolioItem
	err := r.db.QueryRow(ctx, query, itemID).Scan(
		&item.ID,
		&item.CreatorID,
		&item.Kind,
		&item.URL,
		&item.ThumbnailURL,
		&item.Title,
		&item.Description,
		&item.Position,
		&item.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PortfolioRepository) Delete(ctx context.Context, itemID string, creatorID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM portfolio_items
		WHERE id = $1 AND creator_id = $2
	`, itemID, creatorID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PortfolioRepository) UpdatePosition(
	ctx context.Context,
	itemID string,
	creatorID int64,
	position int,
) error {
	_, err := r.db.Exec(ctx, `
		UPDATE portfolio_items
		SET position = $3
		WHERE id = $1 AND creator_id = $2
	`, itemID, creatorID, position)
	return err
}
