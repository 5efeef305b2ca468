package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/services"
)

type stubOrderService struct {
	listing      *models.OrderListing
	order        *models.Order
	err          error
	lastActorID  int64
	lastRole     string
	lastOrderID  string
	lastStatus   string
	completeHits int
}

func (s *stubOrderService) ListOrders(_ context.Context, actorID int64, role string) (*models.OrderListing, error) {
	s.lastActorID = actorID
	s.lastRole = role
	return s.listing, s.err
}

func (s *stubOrderService) GetOrder(_ context.Context, actorID int64, role string, orderID string) (*models.Order, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastOrderID = orderID
	return s.order, s.err
}

func (s *stubOrderService) UpdateStatus(_ context.Context, actorID int64, role string, orderID string, requestedStatus string) (*models.Order, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastOrderID = orderID
	s.lastStatus = requestedStatus
	return s.order, s.err
}

func (s *stubOrderService) CompleteOrder(_ context.Context, actorID int64, role string, orderID string) (*models.Order, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastOrderID = orderID
	s.completeHits++
	return s.order, s.err
}

func orderTestApp(service *stubOrderService, role, userID string) *fiber.App {
	handler := NewOrderHandler(service)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Get("/api/v1/orders", handler.ListOrders)
	app.Get("/api/v1/orders/:id", handler.GetOrder)
	app.Put("/api/v1/orders/:id/status", handler.UpdateOrderStatus)
	app.Post("/api/v1/orders/:id/complete", handler.CompleteOrder)
	return app
}

func TestListOrdersIncludesEarnings(t *testing.T) {
	service := &stubOrderService{
		listing: &models.OrderListing{
			Orders: []models.Order{
				{ID: "ord-1", BrandID: 10, CreatorID: 7, Amount: 900, Status: models.OrderStatusPaid},
			},
			EarningsTotal: 900,
		},
	}
	app := orderTestApp(service, "creator", "7")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastActorID != 7 || service.lastRole != "creator" {
		t.Fatalf("unexpected actor context: %d %q", service.lastActorID, service.lastRole)
	}

	var body models.OrderListing
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Orders) != 1 || body.EarningsTotal != 900 {
		t.Fatalf("unexpected listing: %+v", body)
	}
}

func TestUpdateOrderStatusForwardsRequestedStatus(t *testing.T) {
	service := &stubOrderService{
		order: &models.Order{ID: "ord-1", BrandID: 10, CreatorID: 7, Status: models.OrderStatusInProgress},
	}
	app := orderTestApp(service, "brand", "10")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/ord-1/status", strings.NewReader(`{"status":"in_progress"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastOrderID != "ord-1" || service.lastStatus != "in_progress" {
		t.Fatalf("unexpected forwarded update: id=%q status=%q", service.lastOrderID, service.lastStatus)
	}
}

func TestUpdateOrderStatusRejectsCreators(t *testing.T) {
	service := &stubOrderService{}
	app := orderTestApp(service, "creator", "7")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/ord-1/status", strings.NewReader(`{"status":"completed"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if service.lastStatus != "" {
		t.Fatalf("service must not be called for a forbidden role")
	}
}

func TestUpdateOrderStatusConflictOnInvalidTransition(t *testing.T) {
	service := &stubOrderService{err: services.ErrInvalidStateTransition}
	app := orderTestApp(service, "brand", "10")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/ord-1/status", strings.NewReader(`{"status":"completed"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	service := &stubOrderService{err: pgx.ErrNoRows}
	app := orderTestApp(service, "brand", "10")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/orders/missing", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCompleteOrderInvokesService(t *testing.T) {
	service := &stubOrderService{
		order: &models.Order{ID: "ord-1", BrandID: 10, CreatorID: 7, Status: models.OrderStatusCompleted},
	}
	app := orderTestApp(service, "brand", "10")

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/orders/ord-1/complete", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.completeHits != 1 || service.lastOrderID != "ord-1" {
		t.Fatalf("expected one complete call for ord-1, got %d for %q", service.completeHits, service.lastOrderID)
	}
}
