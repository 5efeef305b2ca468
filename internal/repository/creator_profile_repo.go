package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/miwaszko990/ugc-travel-connect/internal/models"
)

type CreatorProfileRepository struct {
	db DBTX
}

func NewCreatorProfileRepository(db DBTX) *CreatorProfileRepository {
	return &CreatorProfileRepository{db: db}
}

const creatorProfileColumns = `
	id, user_id, full_name, instagram_handle, city, country, followers_count,
	engagement_rate, niches, rate_per_trip, bio, avatar_url, is_verified,
	profile_complete, created_at, updated_at
`

func scanCreatorProfile(row interface{ Scan(dest ...any) error }) (*models.CreatorProfile, error) {
	var profile models.CreatorProfile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.InstagramHandle,
		&profile.City,
		&profile.Country,
		&profile.FollowersCount,
		&profile.EngagementRate,
		&profile.Niches,
		&profile.RatePerTrip,
		&profile.Bio,
		&profile.AvatarURL,
		&profile.IsVerified,
		&profile.ProfileComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *CreatorProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO creator_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *CreatorProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.CreatorProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM creator_profiles
		WHERE user_id = $1
	`, creatorProfileColumns)
	return scanCreatorProfile(r.db.QueryRow(ctx, query, userID))
}

type CreatorOnboardingInput struct {
	FullName        string
	InstagramHandle string
	City            string
	Country         string
	FollowersCount  int
	EngagementRate  float64
	Niches          []string
	RatePerTrip     float64
	Bio             string
}

func (r *CreatorProfileRepository) UpdateOnboarding(
	ctx context.Context,
	userID int64,
	input CreatorOnboardingInput,
) (*models.CreatorProfile, error) {
	query := fmt.Sprintf(`
		UPDATE creator_profiles
		SET full_name = $1,
			instagram_handle = $2,
			city = $3,
			country = $4,
			followers_count = $5,
			engagement_rate = $6,
			niches = $7,
			rate_per_trip = $8,
			bio = $9,
			profile_complete = TRUE,
			updated_at = NOW()
		WHERE user_id = $10
		RETURNING %s
	`, creatorProfileColumns)
	return scanCreatorProfile(r.db.QueryRow(
		ctx,
		query,
		input.FullName,
		input.InstagramHandle,
		input.City,
		input.Country,
		input.FollowersCount,
		input.EngagementRate,
		input.Niches,
		input.RatePerTrip,
		input.Bio,
		userID,
	))
}

type UpdateCreatorProfileInput struct {
	FullName        *string
	InstagramHandle *string
	City            *string
	Country         *string
	FollowersCount  *int
	EngagementRate  *float64
	Niches          *[]string
	RatePerTrip     *float64
	Bio             *string
}

func (r *CreatorProfileRepository) Update(
	ctx context.Context,
	userID int64,
	input UpdateCreatorProfileInput,
) (*models.CreatorProfile, error) {
	query := fmt.Sprintf(`
		UPDATE creator_profiles
		SET full_name = COALESCE($1, full_name),
			instagram_handle = COALESCE($2, instagram_handle),
			city = COALESCE($3, city),
			country = COALESCE($4, country),
			followers_count = COALESCE($5, followers_count),
			engagement_rate = COALESCE($6, engagement_rate),
			niches = COALESCE($7, niches),
			rate_per_trip = COALESCE($8, rate_per_trip),
			bio = COALESCE($9, bio),
			updated_at = NOW()
		WHERE user_id = $10
		RETURNING %s
	`, creatorProfileColumns)
	return scanCreatorProfile(r.db.QueryRow(
		ctx,
		query,
		input.FullName,
		input.InstagramHandle,
		input.City,
		input.Country,
		input.FollowersCount,
		input.EngagementRate,
		input.Niches,
		input.RatePerTrip,
		input.Bio,
		userID,
	))
}

func (r *CreatorProfileRepository) UpdateAvatar(ctx context.Context, userID int64, avatarURL string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE creator_profiles
		SET avatar_url = $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, avatarURL)
	return err
}

type CreatorListFilter struct {
	Niche        string
	City         string
	Country      string
	MinFollowers int
	MaxRate      float64
	Offset       int
	Limit        int
}

func (r *CreatorProfileRepository) List(
	ctx context.Context,
	filter CreatorListFilter,
) ([]models.CreatorProfile, int, error) {
	args := []any{}
	whereParts := []string{"profile_complete = TRUE"}

	if niche := strings.TrimSpace(filter.Niche); niche != "" {
		args = append(args, niche)
		whereParts = append(whereParts, fmt.Sprintf("$%d = ANY(niches)", len(args)))
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		args = append(args, city)
		whereParts = append(whereParts, fmt.Sprintf("LOWER(city) = LOWER($%d)", len(args)))
	}
	if country := strings.TrimSpace(filter.Country); country != "" {
		args = append(args, country)
		whereParts = append(whereParts, fmt.Sprintf("LOWER(country) = LOWER($%d)", len(args)))
	}
	if filter.MinFollowers > 0 {
		args = append(args, filter.MinFollowers)
		whereParts = append(whereParts, fmt.Sprintf("followers_count >= $%d", len(args)))
	}
	if filter.MaxRate > 0 {
		args = append(args, filter.MaxRate)
		whereParts = append(whereParts, fmt.Sprintf("rate_per_trip <= $%d", len(args)))
	}

	where := strings.Join(whereParts, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM creator_profiles WHERE %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM creator_profiles
		WHERE %s
		ORDER BY followers_count DESC NULLS LAST, id ASC
		LIMIT $%d OFFSET $%d
	`, creatorProfileColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	profiles := make([]models.CreatorProfile, 0)
	for rows.Next() {
		profile, err := scanCreatorProfile(rows)
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, *profile)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

func (r *CreatorProfileRepository) ListAll(ctx context.Context) ([]models.CreatorProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM creator_profiles
		WHERE profile_complete = TRUE
	`, creatorProfileColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.CreatorProfile, 0)
	for rows.Next() {
		profile, err := scanCreatorProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}
