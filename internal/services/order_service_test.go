package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
)

type fakeOrderStore struct {
	orders        map[string]*models.Order
	earnings      float64
	casCalls      int
	failCAS       bool
	lastNext      string
	lastCurrent   string
	listForActorF func(actorID int64, role string) []models.Order
}

func newFakeOrderStore(orders ...*models.Order) *fakeOrderStore {
	store := &fakeOrderStore{orders: map[string]*models.Order{}}
	for _, order := range orders {
		store.orders[order.ID] = order
	}
	return store
}

func (f *fakeOrderStore) GetByID(_ context.Context, orderID string) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderStore) ListForActor(_ context.Context, actorID int64, role string) ([]models.Order, error) {
	if f.listForActorF != nil {
		return f.listForActorF(actorID, role), nil
	}
	return nil, nil
}

func (f *fakeOrderStore) UpdateStatusIfCurrent(_ context.Context, orderID string, currentStatus string, nextStatus string) (*models.Order, error) {
	f.casCalls++
	f.lastCurrent = currentStatus
	f.lastNext = nextStatus
	if f.failCAS {
		return nil, pgx.ErrNoRows
	}
	order, ok := f.orders[orderID]
	if !ok || order.Status != currentStatus {
		return nil, pgx.ErrNoRows
	}
	order.Status = nextStatus
	copied := *order
	return &copied, nil
}

func (f *fakeOrderStore) EarningsTotal(_ context.Context, _ int64) (float64, error) {
	return f.earnings, nil
}

func paidOrder(id string, brandID, creatorID int64) *models.Order {
	return &models.Order{
		ID:        id,
		OfferID:   id,
		BrandID:   brandID,
		CreatorID: creatorID,
		Amount:    1200,
		Currency:  "usd",
		Status:    models.OrderStatusPaid,
	}
}

func TestUpdateStatusAdvancesPaidToInProgress(t *testing.T) {
	store := newFakeOrderStore(paidOrder("ord-1", 10, 20))
	service := newOrderServiceWithStore(store)

	updated, err := service.UpdateStatus(context.Background(), 10, "brand", "ord-1", "in_progress")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != models.OrderStatusInProgress {
		t.Fatalf("expected in_progress, got %q", updated.Status)
	}
	if store.lastCurrent != models.OrderStatusPaid {
		t.Fatalf("expected CAS against paid, got %q", store.lastCurrent)
	}
}

func TestUpdateStatusNormalizesAliases(t *testing.T) {
	cases := map[string]string{
		"in-progress": models.OrderStatusInProgress,
		"In_Progress": models.OrderStatusInProgress,
		" complete ":  models.OrderStatusCompleted,
		"canceled":    models.OrderStatusCancelled,
	}
	for raw, want := range cases {
		order := paidOrder("ord-1", 10, 20)
		if want == models.OrderStatusCompleted {
			order.Status = models.OrderStatusInProgress
		}
		store := newFakeOrderStore(order)
		service := newOrderServiceWithStore(store)

		updated, err := service.UpdateStatus(context.Background(), 10, "brand", "ord-1", raw)
		if err != nil {
			t.Fatalf("UpdateStatus(%q): %v", raw, err)
		}
		if updated.Status != want {
			t.Fatalf("UpdateStatus(%q) = %q, want %q", raw, updated.Status, want)
		}
	}
}

func TestUpdateStatusRejectsSkippingStates(t *testing.T) {
	store := newFakeOrderStore(paidOrder("ord-1", 10, 20))
	service := newOrderServiceWithStore(store)

	_, err := service.UpdateStatus(context.Background(), 10, "brand", "ord-1", "completed")
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
	if store.casCalls != 0 {
		t.Fatalf("expected no CAS attempt for an invalid transition")
	}
}

func TestUpdateStatusRejectsCreator(t *testing.T) {
	store := newFakeOrderStore(paidOrder("ord-1", 10, 20))
	service := newOrderServiceWithStore(store)

	_, err := service.UpdateStatus(context.Background(), 20, "creator", "ord-1", "in_progress")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateStatusRejectsUnrelatedBrand(t *testing.T) {
	store := newFakeOrderStore(paidOrder("ord-1", 10, 20))
	service := newOrderServiceWithStore(store)

	_, err := service.UpdateStatus(context.Background(), 99, "brand", "ord-1", "in_progress")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	store := newFakeOrderStore(paidOrder("ord-1", 10, 20))
	service := newOrderServiceWithStore(store)

	_, err := service.UpdateStatus(context.Background(), 10, "brand", "ord-1", "refunded")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateStatusCancelOnlyBeforeWorkStarts(t *testing.T) {
	inProgress := paidOrder("ord-1", 10, 20)
	inProgress.Status = models.OrderStatusInProgress
	store := newFakeOrderStore(inProgress)
	service := newOrderServiceWithStore(store)

	_, err := service.UpdateStatus(context.Background(), 10, "brand", "ord-1", "cancelled")
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestUpdateStatusLostRaceSurfacesConflict(t *testing.T) {
	store := newFakeOrderStore(paidOrder("ord-1", 10, 20))
	store.failCAS = true
	service := newOrderServiceWithStore(store)

	_, err := service.UpdateStatus(context.Background(), 10, "brand", "ord-1", "in_progress")
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition on lost race, got %v", err)
	}
	if store.casCalls != 1 {
		t.Fatalf("expected exactly one CAS attempt, got %d", store.casCalls)
	}
}

func TestCompleteOrderMovesInProgressToCompleted(t *testing.T) {
	order := paidOrder("ord-1", 10, 20)
	order.Status = models.OrderStatusInProgress
	store := newFakeOrderStore(order)
	service := newOrderServiceWithStore(store)

	completed, err := service.CompleteOrder(context.Background(), 10, "brand", "ord-1")
	if err != nil {
		t.Fatalf("CompleteOrder: %v", err)
	}
	if completed.Status != models.OrderStatusCompleted {
		t.Fatalf("expected completed, got %q", completed.Status)
	}
}

func TestListOrdersIncludesEarningsForCreator(t *testing.T) {
	store := newFakeOrderStore()
	store.earnings = 3400
	store.listForActorF = func(actorID int64, role string) []models.Order {
		return []models.Order{*paidOrder("ord-1", 10, actorID)}
	}
	service := newOrderServiceWithStore(store)

	listing, err := service.ListOrders(context.Background(), 20, "creator")
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if listing.EarningsTotal != 3400 {
		t.Fatalf("expected earnings 3400, got %.2f", listing.EarningsTotal)
	}

	brandListing, err := service.ListOrders(context.Background(), 10, "brand")
	if err != nil {
		t.Fatalf("ListOrders brand: %v", err)
	}
	if brandListing.EarningsTotal != 0 {
		t.Fatalf("expected no earnings for brand, got %.2f", brandListing.EarningsTotal)
	}
}

func TestGetOrderEnforcesParticipants(t *testing.T) {
	store := newFakeOrderStore(paidOrder("ord-1", 10, 20))
	service := newOrderServiceWithStore(store)

	if _, err := service.GetOrder(context.Background(), 20, "creator", "ord-1"); err != nil {
		t.Fatalf("creator participant should see the order: %v", err)
	}
	if _, err := service.GetOrder(context.Background(), 21, "creator", "ord-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for outsider, got %v", err)
	}
	if _, err := service.GetOrder(context.Background(), 10, "brand", "missing"); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows for missing order, got %v", err)
	}
}
