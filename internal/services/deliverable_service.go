package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/repository"
)

type deliverableStore interface {
	Create(ctx context.Context, input repository.CreateDeliverableInput) (*models.Deliverable, error)
	GetByID(ctx context.Context, deliverableID int64) (*models.Deliverable, error)
	ListForActor(ctx context.Context, actorID int64, role string) ([]models.Deliverable, error)
	ListByOrder(ctx context.Context, orderID string) ([]models.Deliverable, error)
}

type deliverableOrderReader interface {
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
}

type DeliverableService struct {
	deliverableRepo deliverableStore
	orderRepo       deliverableOrderReader
	storageService  StorageService
}

func NewDeliverableService(
	deliverableRepo *repository.DeliverableRepository,
	orderRepo *repository.OrderRepository,
	storageService StorageService,
) *DeliverableService {
	return &DeliverableService{
		deliverableRepo: deliverableRepo,
		orderRepo:       orderRepo,
		storageService:  storageService,
	}
}

type SubmitDeliverableInput struct {
	OrderID     string
	Title       string
	Description *string
	File        multipart.File
	Filename    string
}

// SubmitDeliverable lets a creator attach produced content to an order they
// own once the brand has put it in motion.
func (s *DeliverableService) SubmitDeliverable(
	ctx context.Context,
	creatorID int64,
	input SubmitDeliverableInput,
) (*models.Deliverable, error) {
	if s.storageService == nil {
		return nil, ErrStorageUnavailable
	}
	if creatorID <= 0 || input.File == nil {
		return nil, ErrInvalidInput
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}

	order, err := s.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, err
	}
	if order.CreatorID != creatorID {
		return nil, ErrForbidden
	}
	if order.Status != models.OrderStatusInProgress && order.Status != models.OrderStatusCompleted {
		return nil, ErrInvalidStateTransition
	}

	filename := buildDeliverableFilename(creatorID, order.ID, input.Filename)
	fileURL, err := s.storageService.UploadFile(ctx, input.File, filename, "deliverables")
	if err != nil {
		return nil, err
	}

	deliverable, err := s.deliverableRepo.Create(ctx, repository.CreateDeliverableInput{
		OrderID:     order.ID,
		CreatorID:   creatorID,
		BrandID:     order.BrandID,
		Title:       title,
		Description: trimmedOrNil(input.Description),
		FileURL:     fileURL,
	})
	if err != nil {
		if cleanupErr := s.storageService.DeleteFile(ctx, fileURL); cleanupErr != nil {
			return nil, fmt.Errorf("%w (cleanup failed: %v)", err, cleanupErr)
		}
		return nil, err
	}

	return deliverable, nil
}

func (s *DeliverableService) ListDeliverables(
	ctx context.Context,
	actorID int64,
	role string,
) ([]models.Deliverable, error) {
	if role != "brand" && role != "creator" {
		return nil, ErrForbidden
	}
	return s.deliverableRepo.ListForActor(ctx, actorID, role)
}

func (s *DeliverableService) ListOrderDeliverables(
	ctx context.Context,
	actorID int64,
	role string,
	orderID string,
) ([]models.Deliverable, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canAccessOrder(role, actorID, order) {
		return nil, ErrForbidden
	}
	return s.deliverableRepo.ListByOrder(ctx, orderID)
}

func (s *DeliverableService) GetDownloadURL(
	ctx context.Context,
	actorID int64,
	role string,
	deliverableID int64,
) (string, error) {
	if s.storageService == nil {
		return "", ErrStorageUnavailable
	}

	deliverable, err := s.deliverableRepo.GetByID(ctx, deliverableID)
	if err != nil {
		return "", err
	}
	if !canAccessDeliverable(role, actorID, deliverable) {
		return "", ErrForbidden
	}

	return s.storageService.GetSignedURL(ctx, deliverable.FileURL)
}

func canAccessDeliverable(role string, actorID int64, deliverable *models.Deliverable) bool {
	if deliverable == nil {
		return false
	}

	switch role {
	case "creator":
		return actorID == deliverable.CreatorID
	case "brand":
		return actorID == deliverable.BrandID
	default:
		return false
	}
}

func buildDeliverableFilename(creatorID int64, orderID string, original string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("%d-%s-%d%s", creatorID, orderID, time.Now().UnixNano(), ext)
}
