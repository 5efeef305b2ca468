package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/services"
	chatws "github.com/miwaszko990/ugc-travel-connect/internal/websocket"
)

type offerApplicationService interface {
	SendOffer(ctx context.Context, actorID int64, role string, input services.SendOfferInput) (*models.OfferMessage, *services.ChatDelivery, error)
	GetOffer(ctx context.Context, actorID int64, role string, offerID string) (*models.Offer, error)
}

type OfferHandler struct {
	service offerApplicationService
	hub     *chatws.Hub
}

func NewOfferHandler(service offerApplicationService, hub *chatws.Hub) *OfferHandler {
	return &OfferHandler{
		service: service,
		hub:     hub,
	}
}

type sendOfferRequest struct {
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	TripDestination string  `json:"trip_destination"`
	TripCountry     string  `json:"trip_country"`
}

func (h *OfferHandler) SendOffer(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "brand" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	conversationID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || conversationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation id"})
	}

	var req sendOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	offerMessage, delivery, err := h.service.SendOffer(c.Context(), userID, role, services.SendOfferInput{
		ConversationID:  conversationID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		TripDestination: req.TripDestination,
		TripCountry:     req.TripCountry,
	})
	if err != nil {
		return mapOfferError(c, err)
	}

	if h.hub != nil {
		h.hub.NotifyMessage(delivery)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": offerMessage.Message,
		"offer":   offerMessage.Offer,
	})
}

func (h *OfferHandler) GetOffer(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != "brand" && role != "creator") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	offer, err := h.service.GetOffer(c.Context(), userID, role, c.Params("id"))
	if err != nil {
		return mapOfferError(c, err)
	}

	return c.JSON(fiber.Map{"offer": offer})
}

func mapOfferError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrOfferNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Offer not found"})
	case errors.Is(err, services.ErrOfferNotPending):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Offer is no longer pending"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process offer request"})
	}
}
