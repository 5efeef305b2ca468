package handlers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/repository"
	"github.com/miwaszko990/ugc-travel-connect/internal/services"
)

const maxImageSizeBytes = 5 * 1024 * 1024

type ProfileHandler struct {
	profileService     *services.ProfileService
	creatorProfileRepo creatorProfileStore
	brandProfileRepo   brandProfileStore
	storageService     services.StorageService
}

type creatorProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.CreatorProfile, error)
	UpdateAvatar(ctx context.Context, userID int64, avatarURL string) error
}

type brandProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.BrandProfile, error)
	UpdateLogo(ctx context.Context, userID int64, logoURL string) error
}

func NewProfileHandler(
	profileService *services.ProfileService,
	creatorProfileRepo creatorProfileStore,
	brandProfileRepo brandProfileStore,
	storageService services.StorageService,
) *ProfileHandler {
	return &ProfileHandler{
		profileService:     profileService,
		creatorProfileRepo: creatorProfileRepo,
		brandProfileRepo:   brandProfileRepo,
		storageService:     storageService,
	}
}

type updateCreatorProfileRequest struct {
	FullName        *string   `json:"full_name"`
	InstagramHandle *string   `json:"instagram_handle"`
	City            *string   `json:"city"`
	Country         *string   `json:"country"`
	FollowersCount  *int      `json:"followers_count"`
	EngagementRate  *float64  `json:"engagement_rate"`
	Niches          *[]string `json:"niches"`
	RatePerTrip     *float64  `json:"rate_per_trip"`
	Bio             *string   `json:"bio"`
}

type updateBrandProfileRequest struct {
	BrandName       *string   `json:"brand_name"`
	Website         *string   `json:"website"`
	InstagramHandle *string   `json:"instagram_handle"`
	Industry        *string   `json:"industry"`
	BudgetPerTrip   *float64  `json:"budget_per_trip"`
	TargetNiches    *[]string `json:"target_niches"`
}

func (h *ProfileHandler) UpdateCreatorProfile(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "creator" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateCreatorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateCreatorProfileUpdateRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.profileService.UpdateCreatorProfile(c.Context(), userID, repository.UpdateCreatorProfileInput{
		FullName:        req.FullName,
		InstagramHandle: req.InstagramHandle,
		City:            req.City,
		Country:         req.Country,
		FollowersCount:  req.FollowersCount,
		EngagementRate:  req.EngagementRate,
		Niches:          req.Niches,
		RatePerTrip:     req.RatePerTrip,
		Bio:             req.Bio,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{
		"profile":          profile,
		"profile_complete": profile.ProfileComplete,
	})
}

func (h *ProfileHandler) UpdateBrandProfile(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "brand" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateBrandProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateBrandProfileUpdateRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.profileService.UpdateBrandProfile(c.Context(), userID, repository.UpdateBrandProfileInput{
		BrandName:       req.BrandName,
		Website:         req.Website,
		InstagramHandle: req.InstagramHandle,
		Industry:        req.Industry,
		BudgetPerTrip:   req.BudgetPerTrip,
		TargetNiches:    req.TargetNiches,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{
		"profile":          profile,
		"profile_complete": profile.ProfileComplete,
	})
}

func (h *ProfileHandler) GetCreatorProfile(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "creator" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.creatorProfileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{
		"profile":          profile,
		"profile_complete": profile.ProfileComplete,
	})
}

func (h *ProfileHandler) GetBrandProfile(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "brand" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.brandProfileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{
		"profile":          profile,
		"profile_complete": profile.ProfileComplete,
	})
}

func (h *ProfileHandler) UploadCreatorAvatar(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "creator" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}
	if h.storageService == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage service is not configured"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	imageURL, badRequest, err := h.uploadImage(c, userID, "avatar", "creators/avatars")
	if badRequest != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": badRequest})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload avatar"})
	}

	currentProfile, err := h.creatorProfileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}
	if currentProfile.AvatarURL != nil && *currentProfile.AvatarURL != "" && *currentProfile.AvatarURL != imageURL {
		_ = h.storageService.DeleteFile(c.Context(), *currentProfile.AvatarURL)
	}

	if err := h.creatorProfileRepo.UpdateAvatar(c.Context(), userID, imageURL); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}
	profile, err := h.creatorProfileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{
		"avatar_url": imageURL,
		"profile":    profile,
	})
}

func (h *ProfileHandler) UploadBrandLogo(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "brand" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}
	if h.storageService == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage service is not configured"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	imageURL, badRequest, err := h.uploadImage(c, userID, "logo", "brands/logos")
	if badRequest != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": badRequest})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload logo"})
	}

	currentProfile, err := h.brandProfileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}
	if currentProfile.LogoURL != nil && *currentProfile.LogoURL != "" && *currentProfile.LogoURL != imageURL {
		_ = h.storageService.DeleteFile(c.Context(), *currentProfile.LogoURL)
	}

	if err := h.brandProfileRepo.UpdateLogo(c.Context(), userID, imageURL); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}
	profile, err := h.brandProfileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{
		"logo_url": imageURL,
		"profile":  profile,
	})
}

func (h *ProfileHandler) uploadImage(
	c *fiber.Ctx,
	userID int64,
	field string,
	folder string,
) (url string, badRequest string, err error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", field + " file is required", nil
	}
	if fileHeader.Size <= 0 {
		return "", field + " file is empty", nil
	}
	if fileHeader.Size > maxImageSizeBytes {
		return "", field + " file exceeds 5MB limit", nil
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", field + " must be a jpg, jpeg, png, or webp file", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	filename := fmt.Sprintf("%d-%d%s", userID, time.Now().UnixNano(), ext)
	url, err = h.storageService.UploadFile(c.Context(), file, filename, folder)
	if err != nil {
		return "", "", err
	}
	return url, "", nil
}
