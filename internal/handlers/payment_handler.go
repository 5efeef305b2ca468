package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/miwaszko990/ugc-travel-connect/internal/services"
)

type checkoutService interface {
	CreateCheckoutSession(ctx context.Context, actorID int64, role string, offerID string) (*services.CheckoutSession, error)
}

type PaymentHandler struct {
	service checkoutService
}

func NewPaymentHandler(service checkoutService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "brand" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	session, err := h.service.CreateCheckoutSession(c.Context(), userID, role, c.Params("id"))
	if err != nil {
		return mapOfferError(c, err)
	}

	return c.JSON(fiber.Map{"checkout": session})
}
