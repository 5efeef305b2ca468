package models

import "time"

type CreatorProfile struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	FullName        *string   `json:"full_name"`
	InstagramHandle *string   `json:"instagram_handle"`
	City            *string   `json:"city"`
	Country         *string   `json:"country"`
	FollowersCount  *int      `json:"followers_count"`
	EngagementRate  *float64  `json:"engagement_rate"`
	Niches          *[]string `json:"niches"`
	RatePerTrip     *float64  `json:"rate_per_trip"`
	Bio             *string   `json:"bio"`
	AvatarURL       *string   `json:"avatar_url"`
	IsVerified      *bool     `json:"is_verified"`
	ProfileComplete bool      `json:"profile_complete"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreatorWithScore struct {
	CreatorProfile
	MatchScore int `json:"match_score"`
}

// CreatorListResponse is the trimmed discovery-card shape returned by the
// browse and recommendation endpoints.
type CreatorListResponse struct {
	UserID          int64    `json:"user_id"`
	FullName        *string  `json:"full_name"`
	InstagramHandle *string  `json:"instagram_handle"`
	City            *string  `json:"city"`
	Country         *string  `json:"country"`
	FollowersCount  *int     `json:"followers_count"`
	EngagementRate  *float64 `json:"engagement_rate"`
	Niches          []string `json:"niches"`
	RatePerTrip     *float64 `json:"rate_per_trip"`
	AvatarURL       *string  `json:"avatar_url"`
	IsVerified      bool     `json:"is_verified"`
	MatchScore      int      `json:"match_score,omitempty"`
}
