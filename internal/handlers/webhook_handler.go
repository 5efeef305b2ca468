package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/services"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

type paymentEventProcessor interface {
	HandleCheckoutCompleted(ctx context.Context, input services.CheckoutCompletedInput) (*models.Order, error)
}

type WebhookHandler struct {
	processor     paymentEventProcessor
	webhookSecret string
}

func NewWebhookHandler(processor paymentEventProcessor, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{
		processor:     processor,
		webhookSecret: webhookSecret,
	}
}

// HandleStripeWebhook verifies the event signature and applies
// checkout.session.completed events. Unhandled event types and events with
// unusable metadata are acknowledged with 200 so the sender stops retrying;
// only signature failures and transient processing errors are rejected.
func (h *WebhookHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signature := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signature, h.webhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid webhook signature"})
	}

	if event.Type != "checkout.session.completed" {
		return c.JSON(fiber.Map{"received": true})
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Printf("webhook: malformed checkout session in event %s: %v", event.ID, err)
		return c.JSON(fiber.Map{"received": true})
	}

	input, ok := buildCheckoutCompletedInput(event.ID, &session)
	if !ok {
		log.Printf("webhook: event %s is missing checkout metadata, skipping", event.ID)
		return c.JSON(fiber.Map{"received": true})
	}

	order, err := h.processor.HandleCheckoutCompleted(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventAlreadyProcessed):
			return c.JSON(fiber.Map{"received": true, "duplicate": true})
		case errors.Is(err, services.ErrOfferNotFound),
			errors.Is(err, services.ErrOfferNotPending),
			errors.Is(err, services.ErrInvalidInput):
			log.Printf("webhook: event %s not applicable: %v", event.ID, err)
			return c.JSON(fiber.Map{"received": true})
		default:
			log.Printf("webhook: event %s failed: %v", event.ID, err)
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to process webhook event"})
		}
	}

	return c.JSON(fiber.Map{"received": true, "order_id": order.ID})
}

func buildCheckoutCompletedInput(eventID string, session *stripe.CheckoutSession) (services.CheckoutCompletedInput, bool) {
	offerID := session.Metadata["offer_id"]
	brandIDRaw := session.Metadata["brand_id"]
	creatorIDRaw := session.Metadata["creator_id"]
	if offerID == "" || brandIDRaw == "" || creatorIDRaw == "" {
		return services.CheckoutCompletedInput{}, false
	}

	brandID, err := strconv.ParseInt(brandIDRaw, 10, 64)
	if err != nil || brandID <= 0 {
		return services.CheckoutCompletedInput{}, false
	}
	creatorID, err := strconv.ParseInt(creatorIDRaw, 10, 64)
	if err != nil || creatorID <= 0 {
		return services.CheckoutCompletedInput{}, false
	}

	return services.CheckoutCompletedInput{
		EventID:   eventID,
		SessionID: session.ID,
		OfferID:   offerID,
		BrandID:   brandID,
		CreatorID: creatorID,
	}, true
}
