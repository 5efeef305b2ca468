package models

import "time"

const (
	PortfolioKindImage = "image"
	PortfolioKindVideo = "video"
)

type PortfolioItem struct {
	ID           string    `json:"id"`
	CreatorID    int64     `json:"creator_id"`
	Kind         string    `json:"kind"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Position     int       `json:"position"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
