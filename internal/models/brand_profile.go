package models

import "time"

type BrandProfile struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	BrandName       *string   `json:"brand_name"`
	Website         *string   `json:"website"`
	InstagramHandle *string   `json:"instagram_handle"`
	Industry        *string   `json:"industry"`
	BudgetPerTrip   *float64  `json:"budget_per_trip"`
	TargetNiches    *[]string `json:"target_niches"`
	LogoURL         *string   `json:"logo_url"`
	ProfileComplete bool      `json:"profile_complete"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
