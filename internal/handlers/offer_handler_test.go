package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/services"
	chatws "github.com/miwaszko990/ugc-travel-connect/internal/websocket"
)

type stubOfferService struct {
	sendResult  *models.OfferMessage
	sendErr     error
	getResult   *models.Offer
	getErr      error
	lastActorID int64
	lastRole    string
	lastInput   services.SendOfferInput
	lastOfferID string
}

func (s *stubOfferService) SendOffer(_ context.Context, actorID int64, role string, input services.SendOfferInput) (*models.OfferMessage, *services.ChatDelivery, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastInput = input
	if s.sendErr != nil {
		return nil, nil, s.sendErr
	}
	delivery := &services.ChatDelivery{
		Conversation: &models.Conversation{ID: input.ConversationID},
		Message:      &s.sendResult.Message,
		RecipientID:  s.sendResult.Offer.CreatorID,
	}
	return s.sendResult, delivery, nil
}

func (s *stubOfferService) GetOffer(_ context.Context, actorID int64, role string, offerID string) (*models.Offer, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastOfferID = offerID
	return s.getResult, s.getErr
}

func offerTestApp(service *stubOfferService, role, userID string) *fiber.App {
	handler := NewOfferHandler(service, chatws.NewHub())
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Post("/api/v1/conversations/:id/offers", handler.SendOffer)
	app.Get("/api/v1/offers/:id", handler.GetOffer)
	return app
}

func TestSendOfferForwardsTripDetails(t *testing.T) {
	service := &stubOfferService{
		sendResult: &models.OfferMessage{
			Message: models.ChatMessage{
				ID:             31,
				ConversationID: 11,
				SenderID:       42,
				Kind:           models.MessageKindOffer,
				Content:        "Collaboration offer: Lisbon, Portugal for 1200.00 USD",
				CreatedAt:      time.Now().UTC(),
			},
			Offer: models.Offer{
				ID:              "offer-1",
				MessageID:       31,
				ConversationID:  11,
				BrandID:         42,
				CreatorID:       7,
				Amount:          1200,
				Currency:        "usd",
				TripDestination: "Lisbon",
				TripCountry:     "Portugal",
				Status:          models.OfferStatusPending,
			},
		},
	}
	app := offerTestApp(service, "brand", "42")

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/v1/conversations/11/offers",
		strings.NewReader(`{"amount":1200,"currency":"usd","trip_destination":"Lisbon","trip_country":"Portugal"}`),
	)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastInput.ConversationID != 11 || service.lastInput.Amount != 1200 ||
		service.lastInput.TripDestination != "Lisbon" || service.lastInput.TripCountry != "Portugal" {
		t.Fatalf("unexpected forwarded input: %+v", service.lastInput)
	}

	var body struct {
		Message models.ChatMessage `json:"message"`
		Offer   models.Offer       `json:"offer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Offer.ID != "offer-1" || body.Message.Kind != models.MessageKindOffer {
		t.Fatalf("unexpected response body: %+v", body)
	}
}

func TestSendOfferForbiddenForCreators(t *testing.T) {
	service := &stubOfferService{}
	app := offerTestApp(service, "creator", "7")

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/v1/conversations/11/offers",
		strings.NewReader(`{"amount":1200,"trip_destination":"Lisbon","trip_country":"Portugal"}`),
	)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestGetOfferNotFound(t *testing.T) {
	service := &stubOfferService{getErr: services.ErrOfferNotFound}
	app := offerTestApp(service, "brand", "42")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/offers/missing", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if service.lastOfferID != "missing" {
		t.Fatalf("expected offer id to be forwarded, got %q", service.lastOfferID)
	}
}
