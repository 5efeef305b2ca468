package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/repository"
)

type orderStore interface {
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	ListForActor(ctx context.Context, actorID int64, role string) ([]models.Order, error)
	UpdateStatusIfCurrent(ctx context.Context, orderID string, currentStatus string, nextStatus string) (*models.Order, error)
	EarningsTotal(ctx context.Context, creatorID int64) (float64, error)
}

type OrderService struct {
	orderRepo orderStore
}

func NewOrderService(orderRepo *repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

func newOrderServiceWithStore(orderRepo orderStore) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

func (s *OrderService) ListOrders(
	ctx context.Context,
	actorID int64,
	role string,
) (*models.OrderListing, error) {
	if role != "brand" && role != "creator" {
		return nil, ErrForbidden
	}

	orders, err := s.orderRepo.ListForActor(ctx, actorID, role)
	if err != nil {
		return nil, err
	}

	listing := &models.OrderListing{Orders: orders}
	if role == "creator" {
		total, err := s.orderRepo.EarningsTotal(ctx, actorID)
		if err != nil {
			return nil, err
		}
		listing.EarningsTotal = total
	}
	return listing, nil
}

func (s *OrderService) GetOrder(
	ctx context.Context,
	actorID int64,
	role string,
	orderID string,
) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canAccessOrder(role, actorID, order) {
		return nil, ErrForbidden
	}
	return order, nil
}

// UpdateStatus advances the escrow state machine. Transitions are validated
// against the order the actor last saw and applied with a compare-and-swap,
// so concurrent writers cannot skip states or resurrect terminal orders.
func (s *OrderService) UpdateStatus(
	ctx context.Context,
	actorID int64,
	role string,
	orderID string,
	requestedStatus string,
) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canAccessOrder(role, actorID, order) {
		return nil, ErrForbidden
	}

	nextStatus, err := normalizeOrderStatus(requestedStatus)
	if err != nil {
		return nil, err
	}
	if err := validateOrderTransition(role, order.Status, nextStatus); err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.UpdateStatusIfCurrent(ctx, orderID, order.Status, nextStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return updated, nil
}

// CompleteOrder finishes the escrow lifecycle.
// TODO: release the escrowed funds to the creator once Stripe Connect
// payouts are wired up; completion currently only moves the status.
func (s *OrderService) CompleteOrder(
	ctx context.Context,
	actorID int64,
	role string,
	orderID string,
) (*models.Order, error) {
	return s.UpdateStatus(ctx, actorID, role, orderID, models.OrderStatusCompleted)
}

func canAccessOrder(role string, actorID int64, order *models.Order) bool {
	if role == "brand" {
		return order.BrandID == actorID
	}
	if role == "creator" {
		return order.CreatorID == actorID
	}
	return false
}

func normalizeOrderStatus(status string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "in_progress", "in-progress":
		return models.OrderStatusInProgress, nil
	case "complete", "completed":
		return models.OrderStatusCompleted, nil
	case "cancel", "cancelled", "canceled":
		return models.OrderStatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

// validateOrderTransition encodes the forward-only escrow lifecycle:
// paid -> in_progress -> completed, with cancellation allowed only before
// work starts. Only the paying brand drives transitions.
func validateOrderTransition(role string, currentStatus string, nextStatus string) error {
	if role != "brand" {
		return ErrForbidden
	}

	switch nextStatus {
	case models.OrderStatusInProgress:
		if currentStatus != models.OrderStatusPaid {
			return ErrInvalidStateTransition
		}
	case models.OrderStatusCompleted:
		if currentStatus != models.OrderStatusInProgress {
			return ErrInvalidStateTransition
		}
	case models.OrderStatusCancelled:
		if currentStatus != models.OrderStatusPaid {
			return ErrInvalidStateTransition
		}
	default:
		return ErrInvalidStatus
	}
	return nil
}
