package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/services"
)

const maxDeliverableSizeBytes = 200 * 1024 * 1024

type deliverableApplicationService interface {
	SubmitDeliverable(ctx context.Context, creatorID int64, input services.SubmitDeliverableInput) (*models.Deliverable, error)
	ListDeliverables(ctx context.Context, actorID int64, role string) ([]models.Deliverable, error)
	ListOrderDeliverables(ctx context.Context, actorID int64, role string, orderID string) ([]models.Deliverable, error)
	GetDownloadURL(ctx context.Context, actorID int64, role string, deliverableID int64) (string, error)
}

type DeliverableHandler struct {
	service deliverableApplicationService
}

func NewDeliverableHandler(service deliverableApplicationService) *DeliverableHandler {
	return &DeliverableHandler{service: service}
}

func (h *DeliverableHandler) SubmitDeliverable(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "creator" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	orderID := strings.TrimSpace(c.Params("id"))
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order id"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	if fileHeader.Size <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is empty"})
	}
	if fileHeader.Size > maxDeliverableSizeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file exceeds 200MB limit"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to open file"})
	}
	defer file.Close()

	var description *string
	if value := strings.TrimSpace(c.FormValue("description")); value != "" {
		description = &value
	}

	deliverable, err := h.service.SubmitDeliverable(c.Context(), userID, services.SubmitDeliverableInput{
		OrderID:     orderID,
		Title:       c.FormValue("title"),
		Description: description,
		File:        file,
		Filename:    fileHeader.Filename,
	})
	if err != nil {
		return mapDeliverableError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"deliverable": deliverable})
}

func (h *DeliverableHandler) ListDeliverables(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != "brand" && role != "creator") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	deliverables, err := h.service.ListDeliverables(c.Context(), userID, role)
	if err != nil {
		return mapDeliverableError(c, err)
	}

	return c.JSON(fiber.Map{"deliverables": deliverables})
}

func (h *DeliverableHandler) ListOrderDeliverables(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != "brand" && role != "creator") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	orderID := strings.TrimSpace(c.Params("id"))
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order id"})
	}

	deliverables, err := h.service.ListOrderDeliverables(c.Context(), userID, role, orderID)
	if err != nil {
		return mapDeliverableError(c, err)
	}

	return c.JSON(fiber.Map{"deliverables": deliverables})
}

func (h *DeliverableHandler) GetDownloadURL(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != "brand" && role != "creator") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	deliverableID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || deliverableID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid deliverable id"})
	}

	url, err := h.service.GetDownloadURL(c.Context(), userID, role, deliverableID)
	if err != nil {
		return mapDeliverableError(c, err)
	}

	return c.JSON(fiber.Map{"url": url})
}

func mapDeliverableError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Order is not accepting deliverables"})
	case errors.Is(err, services.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage service is not configured"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process deliverable request"})
	}
}
