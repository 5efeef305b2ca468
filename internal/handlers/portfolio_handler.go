package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/services"
)

const maxPortfolioFileSizeBytes = 50 * 1024 * 1024

type portfolioApplicationService interface {
	AddItem(ctx context.Context, creatorID int64, input services.AddPortfolioItemInput) (*models.PortfolioItem, error)
	ListItems(ctx context.Context, creatorID int64) ([]models.PortfolioItem, error)
	RemoveItem(ctx context.Context, creatorID int64, itemID string) error
	Reorder(ctx context.Context, creatorID int64, orderedItemIDs []string) ([]models.PortfolioItem, error)
}

type PortfolioHandler struct {
	service portfolioApplicationService
}

func NewPortfolioHandler(service portfolioApplicationService) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

type reorderPortfolioRequest struct {
	ItemIDs []string `json:"item_ids"`
}

func (h *PortfolioHandler) AddItem(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "creator" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	if fileHeader.Size <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is empty"})
	}
	if fileHeader.Size > maxPortfolioFileSizeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file exceeds 50MB limit"})
	}

	kind := strings.TrimSpace(c.FormValue("kind"))
	if kind != models.PortfolioKindImage && kind != models.PortfolioKindVideo {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "kind must be image or video"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to open file"})
	}
	defer file.Close()

	var title, description *string
	if value := strings.TrimSpace(c.FormValue("title")); value != "" {
		title = &value
	}
	if value := strings.TrimSpace(c.FormValue("description")); value != "" {
		description = &value
	}

	item, err := h.service.AddItem(c.Context(), userID, services.AddPortfolioItemInput{
		Kind:        kind,
		Title:       title,
		Description: description,
		File:        file,
		Filename:    fileHeader.Filename,
	})
	if err != nil {
		return mapPortfolioError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item": item})
}

func (h *PortfolioHandler) ListItems(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "creator" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	items, err := h.service.ListItems(c.Context(), userID)
	if err != nil {
		return mapPortfolioError(c, err)
	}

	return c.JSON(fiber.Map{"items": items})
}

func (h *PortfolioHandler) RemoveItem(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "creator" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	itemID := strings.TrimSpace(c.Params("id"))
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item id"})
	}

	if err := h.service.RemoveItem(c.Context(), userID, itemID); err != nil {
		return mapPortfolioError(c, err)
	}

	return c.JSON(fiber.Map{"status": "deleted"})
}

func (h *PortfolioHandler) Reorder(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "creator" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req reorderPortfolioRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	items, err := h.service.Reorder(c.Context(), userID, req.ItemIDs)
	if err != nil {
		return mapPortfolioError(c, err)
	}

	return c.JSON(fiber.Map{"items": items})
}

func mapPortfolioError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage service is not configured"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Portfolio item not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process portfolio request"})
	}
}
