package services

import (
	"context"

	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/repository"
)

type ProfileService struct {
	creatorProfileRepo *repository.CreatorProfileRepository
	brandProfileRepo   *repository.BrandProfileRepository
}

func NewProfileService(
	creatorProfileRepo *repository.CreatorProfileRepository,
	brandProfileRepo *repository.BrandProfileRepository,
) *ProfileService {
	return &ProfileService{
		creatorProfileRepo: creatorProfileRepo,
		brandProfileRepo:   brandProfileRepo,
	}
}

func (s *ProfileService) UpdateCreatorProfile(
	ctx context.Context,
	userID int64,
	input repository.UpdateCreatorProfileInput,
) (*models.CreatorProfile, error) {
	return s.creatorProfileRepo.Update(ctx, userID, input)
}

func (s *ProfileService) UpdateBrandProfile(
	ctx context.Context,
	userID int64,
	input repository.UpdateBrandProfileInput,
) (*models.BrandProfile, error) {
	return s.brandProfileRepo.Update(ctx, userID, input)
}
