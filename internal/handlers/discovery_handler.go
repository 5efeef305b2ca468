package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/repository"
	"github.com/miwaszko990/ugc-travel-connect/internal/services"
)

type creatorDiscoveryRepository interface {
	List(ctx context.Context, filter repository.CreatorListFilter) ([]models.CreatorProfile, int, error)
	GetByUserID(ctx context.Context, userID int64) (*models.CreatorProfile, error)
}

type brandDiscoveryRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.BrandProfile, error)
}

type creatorMatchmaker interface {
	GetMatchedCreators(ctx context.Context, brandProfile *models.BrandProfile, limit int) ([]models.CreatorWithScore, error)
}

type portfolioLister interface {
	ListByCreator(ctx context.Context, creatorID int64) ([]models.PortfolioItem, error)
}

type CreatorDiscoveryHandler struct {
	creatorRepo        creatorDiscoveryRepository
	brandProfileRepo   brandDiscoveryRepository
	matchmakingService creatorMatchmaker
	portfolioRepo      portfolioLister
}

func NewCreatorDiscoveryHandler(
	creatorRepo creatorDiscoveryRepository,
	brandProfileRepo brandDiscoveryRepository,
	matchmakingService creatorMatchmaker,
	portfolioRepo portfolioLister,
) *CreatorDiscoveryHandler {
	return &CreatorDiscoveryHandler{
		creatorRepo:        creatorRepo,
		brandProfileRepo:   brandProfileRepo,
		matchmakingService: matchmakingService,
		portfolioRepo:      portfolioRepo,
	}
}

func (h *CreatorDiscoveryHandler) ListCreators(c *fiber.Ctx) error {
	page, limit, offset := parsePagination(c)

	minFollowers, err := parseNonNegativeInt(c.Query("min_followers"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "min_followers must be a valid non-negative integer"})
	}
	maxRate, err := parseNonNegativeFloat(c.Query("max_rate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "max_rate must be a valid non-negative number"})
	}

	creators, total, err := h.creatorRepo.List(c.Context(), repository.CreatorListFilter{
		Niche:        strings.TrimSpace(c.Query("niche")),
		City:         strings.TrimSpace(c.Query("city")),
		Country:      strings.TrimSpace(c.Query("country")),
		MinFollowers: minFollowers,
		MaxRate:      maxRate,
		Offset:       offset,
		Limit:        limit,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch creators"})
	}

	response := make([]models.CreatorListResponse, 0, len(creators))
	for _, creator := range creators {
		response = append(response, buildCreatorListResponse(creator, 0))
	}

	return c.JSON(fiber.Map{
		"creators":   response,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *CreatorDiscoveryHandler) GetRecommendedCreators(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "brand" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	brandProfile, err := h.brandProfileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch brand profile"})
	}

	creators, err := h.matchmakingService.GetMatchedCreators(c.Context(), brandProfile, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch recommended creators"})
	}

	response := make([]models.CreatorListResponse, 0, len(creators))
	for _, creator := range creators {
		response = append(response, buildCreatorListResponse(creator.CreatorProfile, creator.MatchScore))
	}

	return c.JSON(fiber.Map{"creators": response})
}

func (h *CreatorDiscoveryHandler) GetCreatorDetail(c *fiber.Ctx) error {
	creatorID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || creatorID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid creator id"})
	}

	creator, err := h.creatorRepo.GetByUserID(c.Context(), creatorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Creator not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch creator"})
	}

	portfolio, err := h.portfolioRepo.ListByCreator(c.Context(), creatorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch portfolio"})
	}

	return c.JSON(fiber.Map{
		"creator":   creator,
		"portfolio": portfolio,
	})
}

func buildCreatorListResponse(creator models.CreatorProfile, matchScore int) models.CreatorListResponse {
	response := models.CreatorListResponse{
		UserID:          creator.UserID,
		FullName:        creator.FullName,
		InstagramHandle: creator.InstagramHandle,
		City:            creator.City,
		Country:         creator.Country,
		FollowersCount:  creator.FollowersCount,
		EngagementRate:  creator.EngagementRate,
		Niches:          stringSliceValue(creator.Niches),
		RatePerTrip:     creator.RatePerTrip,
		AvatarURL:       creator.AvatarURL,
		IsVerified:      boolValue(creator.IsVerified),
	}
	if matchScore > 0 {
		response.MatchScore = matchScore
	}
	return response
}

func stringSliceValue(value *[]string) []string {
	if value == nil {
		return []string{}
	}
	return *value
}

func boolValue(value *bool) bool {
	if value == nil {
		return false
	}
	return *value
}

var _ services.CreatorMatcher = (*repository.CreatorProfileRepository)(nil)
