package repository

import (
	"context"
	"fmt"

	"github.com/miwaszko990/ugc-travel-connect/internal/models"
)

type BrandProfileRepository struct {
	db DBTX
}

func NewBrandProfileRepository(db DBTX) *BrandProfileRepository {
	return &BrandProfileRepository{db: db}
}

const brandProfileColumns = `
	id, user_id, brand_name, website, instagram_handle, industry,
	budget_per_trip, target_niches, logo_url, profile_complete,
	created_at, updated_at
`

func scanBrandProfile(row interface{ Scan(dest ...any) error }) (*models.BrandProfile, error) {
	var profile models.BrandProfile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.BrandName,
		&profile.Website,
		&profile.InstagramHandle,
		&profile.Industry,
		&profile.BudgetPerTrip,
		&profile.TargetNiches,
		&profile.LogoURL,
		&profile.ProfileComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *BrandProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO brand_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *BrandProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.BrandProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM brand_profiles
		WHERE user_id = $1
	`, brandProfileColumns)
	return scanBrandProfile(r.db.QueryRow(ctx, query, userID))
}

type BrandOnboardingInput struct {
	BrandName       string
	Website         string
	InstagramHandle string
	Industry        string
	BudgetPerTrip   float64
	TargetNiches    []string
}

func (r *BrandProfileRepository) UpdateOnboarding(
	ctx context.Context,
	userID int64,
	input BrandOnboardingInput,
) (*models.BrandProfile, error) {
	query := fmt.Sprintf(`
		UPDATE brand_profiles
		SET brand_name = $1,
			website = $2,
			instagram_handle = $3,
			industry = $4,
			budget_per_trip = $5,
			target_niches = $6,
			profile_complete = TRUE,
			updated_at = NOW()
		WHERE user_id = $7
		RETURNING %s
	`, brandProfileColumns)
	return scanBrandProfile(r.db.QueryRow(
		ctx,
		query,
		input.BrandName,
		input.Website,
		input.InstagramHandle,
		input.Industry,
		input.BudgetPerTrip,
		input.TargetNiches,
		userID,
	))
}

type UpdateBrandProfileInput struct {
	BrandName       *string
	Website         *string
	InstagramHandle *string
	Industry        *string
	BudgetPerTrip   *float64
	TargetNiches    *[]string
}

func (r *BrandProfileRepository) Update(
	ctx context.Context,
	userID int64,
	input UpdateBrandProfileInput,
) (*models.BrandProfile, error) {
	query := fmt.Sprintf(`
		UPDATE brand_profiles
		SET brand_name = COALESCE($1, brand_name),
			website = COALESCE($2, website),
			instagram_handle = COALESCE($3, instagram_handle),
			industry = COALESCE($4, industry),
			budget_per_trip = COALESCE($5, budget_per_trip),
			target_niches = COALESCE($6, target_niches),
			updated_at = NOW()
		WHERE user_id = $7
		RETURNING %s
	`, brandProfileColumns)
	return scanBrandProfile(r.db.QueryRow(
		ctx,
		query,
		input.BrandName,
		input.Website,
		input.InstagramHandle,
		input.Industry,
		input.BudgetPerTrip,
		input.TargetNiches,
		userID,
	))
}

func (r *BrandProfileRepository) UpdateLogo(ctx context.Context, userID int64, logoURL string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE brand_profiles
		SET logo_url = $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, logoURL)
	return err
}
