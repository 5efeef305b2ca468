package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/repository"
)

type creatorOnboardingProfileStore interface {
	UpdateOnboarding(ctx context.Context, userID int64, req repository.CreatorOnboardingInput) (*models.CreatorProfile, error)
}

type brandOnboardingProfileStore interface {
	UpdateOnboarding(ctx context.Context, userID int64, req repository.BrandOnboardingInput) (*models.BrandProfile, error)
}

type OnboardingHandler struct {
	creatorProfileRepo creatorOnboardingProfileStore
	brandProfileRepo   brandOnboardingProfileStore
}

func NewOnboardingHandler(creatorProfileRepo creatorOnboardingProfileStore, brandProfileRepo brandOnboardingProfileStore) *OnboardingHandler {
	return &OnboardingHandler{
		creatorProfileRepo: creatorProfileRepo,
		brandProfileRepo:   brandProfileRepo,
	}
}

type creatorOnboardingRequest struct {
	FullName        string   `json:"full_name"`
	InstagramHandle string   `json:"instagram_handle"`
	City            string   `json:"city"`
	Country         string   `json:"country"`
	FollowersCount  int      `json:"followers_count"`
	EngagementRate  float64  `json:"engagement_rate"`
	Niches          []string `json:"niches"`
	RatePerTrip     float64  `json:"rate_per_trip"`
	Bio             string   `json:"bio"`
}

type brandOnboardingRequest struct {
	BrandName       string   `json:"brand_name"`
	Website         string   `json:"website"`
	InstagramHandle string   `json:"instagram_handle"`
	Industry        string   `json:"industry"`
	BudgetPerTrip   float64  `json:"budget_per_trip"`
	TargetNiches    []string `json:"target_niches"`
}

func (h *OnboardingHandler) CreatorOnboarding(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "creator" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req creatorOnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateCreatorOnboardingRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.creatorProfileRepo.UpdateOnboarding(c.Context(), userID, repository.CreatorOnboardingInput{
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

func (h *OnboardingHandler) BrandOnboarding(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "brand" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req brandOnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateBrandOnboardingRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.brandProfileRepo.UpdateOnboarding(c.Context(), userID, repository.BrandOnboardingInput{
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
