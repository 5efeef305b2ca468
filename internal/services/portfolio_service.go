package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/repository"
)

type portfolioStore interface {
	Create(ctx context.Context, input repository.CreatePortfolioItemInput) (*models.PortfolioItem, error)
	ListByCreator(ctx context.Context, creatorID int64) ([]models.PortfolioItem, error)
	GetByID(ctx context.Context, itemID string) (*models.PortfolioItem, error)
	Delete(ctx context.Context, itemID string, creatorID int64) (bool, error)
	UpdatePosition(ctx context.Context, itemID string, creatorID int64, position int) error
}

type PortfolioService struct {
	portfolioRepo  portfolioStore
	storageService StorageService
}

func NewPortfolioService(
	portfolioRepo *repository.PortfolioRepository,
	storageService StorageService,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo:  portfolioRepo,
		storageService: storageService,
	}
}

type AddPortfolioItemInput struct {
	Kind        string
	Title       *string
	Description *string
	File        multipart.File
	Filename    string
}

func (s *PortfolioService) AddItem(
	ctx context.Context,
	creatorID int64,
	input AddPortfolioItemInput,
) (*models.PortfolioItem, error) {
	if s.storageService == nil {
		return nil, ErrStorageUnavailable
	}
	if creatorID <= 0 || input.File == nil {
		return nil, ErrInvalidInput
	}
	if input.Kind != models.PortfolioKindImage && input.Kind != models.PortfolioKindVideo {
		return nil, ErrInvalidInput
	}

	itemID := uuid.NewString()
	filename := buildPortfolioFilename(creatorID, itemID, input.Filename)
	fileURL, err := s.storageService.UploadFile(ctx, input.File, filename, "portfolio")
	if err != nil {
		return nil, err
	}

	item, err := s.portfolioRepo.Create(ctx, repository.CreatePortfolioItemInput{
		ID:          itemID,
		CreatorID:   creatorID,
		Kind:        input.Kind,
		URL:         fileURL,
		Title:       trimmedOrNil(input.Title),
		Description: trimmedOrNil(input.Description),
	})
	if err != nil {
		if cleanupErr := s.storageService.DeleteFile(ctx, fileURL); cleanupErr != nil {
			return nil, fmt.Errorf("%w (cleanup failed: %v)", err, cleanupErr)
		}
		return nil, err
	}

	return item, nil
}

func (s *PortfolioService) ListItems(ctx context.Context, creatorID int64) ([]models.PortfolioItem, error) {
	if creatorID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.portfolioRepo.ListByCreator(ctx, creatorID)
}

func (s *PortfolioService) RemoveItem(ctx context.Context, creatorID int64, itemID string) error {
	item, err := s.portfolioRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.CreatorID != creatorID {
		return ErrForbidden
	}

	deleted, err := s.portfolioRepo.Delete(ctx, itemID, creatorID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrForbidden
	}

	if s.storageService != nil {
		// Storage cleanup is best effort; the row is already gone.
		_ = s.storageService.DeleteFile(ctx, item.URL)
	}
	return nil
}

func (s *PortfolioService) Reorder(
	ctx context.Context,
	creatorID int64,
	orderedItemIDs []string,
) ([]models.PortfolioItem, error) {
	if creatorID <= 0 || len(orderedItemIDs) == 0 {
		return nil, ErrInvalidInput
	}

	for position, itemID := range orderedItemIDs {
		if err := s.portfolioRepo.UpdatePosition(ctx, itemID, creatorID, position); err != nil {
			return nil, err
		}
	}

	return s.portfolioRepo.ListByCreator(ctx, creatorID)
}

func buildPortfolioFilename(creatorID int64, itemID string, original string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("%d-%s-%d%s", creatorID, itemID, time.Now().UnixNano(), ext)
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
