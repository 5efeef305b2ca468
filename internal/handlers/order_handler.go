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

type orderApplicationService interface {
	ListOrders(ctx context.Context, actorID int64, role string) (*models.OrderListing, error)
	GetOrder(ctx context.Context, actorID int64, role string, orderID string) (*models.Order, error)
	UpdateStatus(ctx context.Context, actorID int64, role string, orderID string, requestedStatus string) (*models.Order, error)
	CompleteOrder(ctx context.Context, actorID int64, role string, orderID string) (*models.Order, error)
}

type OrderHandler struct {
	service orderApplicationService
}

func NewOrderHandler(service orderApplicationService) *OrderHandler {
	return &OrderHandler{service: service}
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != "brand" && role != "creator") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	listing, err := h.service.ListOrders(c.Context(), userID, role)
	if err != nil {
		return mapOrderError(c, err)
	}

	return c.JSON(listing)
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
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

	order, err := h.service.GetOrder(c.Context(), userID, role, orderID)
	if err != nil {
		return mapOrderError(c, err)
	}

	return c.JSON(fiber.Map{"order": order})
}

func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "brand" {
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

	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	order, err := h.service.UpdateStatus(c.Context(), userID, role, orderID, req.Status)
	if err != nil {
		return mapOrderError(c, err)
	}

	return c.JSON(fiber.Map{"order": order})
}

func (h *OrderHandler) CompleteOrder(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "brand" {
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

	order, err := h.service.CompleteOrder(c.Context(), userID, role, orderID)
	if err != nil {
		return mapOrderError(c, err)
	}

	return c.JSON(fiber.Map{"order": order})
}

func mapOrderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order status"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Order status transition is not allowed"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process order request"})
	}
}
