package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/repository"
)

type OfferService struct {
	db               *pgxpool.Pool
	conversationRepo *repository.ConversationRepository
	messageRepo      *repository.MessageRepository
	offerRepo        *repository.OfferRepository
}

func NewOfferService(
	db *pgxpool.Pool,
	conversationRepo *repository.ConversationRepository,
	messageRepo *repository.MessageRepository,
	offerRepo *repository.OfferRepository,
) *OfferService {
	return &OfferService{
		db:               db,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		offerRepo:        offerRepo,
	}
}

type SendOfferInput struct {
	ConversationID  int64
	Amount          float64
	Currency        string
	TripDestination string
	TripCountry     string
}

// SendOffer appends an offer-kind message and its offer row in one
// transaction, so an offer can never exist without its anchoring message.
func (s *OfferService) SendOffer(
	ctx context.Context,
	actorID int64,
	role string,
	input SendOfferInput,
) (*models.OfferMessage, *ChatDelivery, error) {
	if role != "brand" {
		return nil, nil, ErrForbidden
	}
	if input.ConversationID <= 0 || input.Amount <= 0 {
		return nil, nil, ErrInvalidInput
	}

	destination := strings.TrimSpace(input.TripDestination)
	country := strings.TrimSpace(input.TripCountry)
	if destination == "" || country == "" {
		return nil, nil, ErrInvalidInput
	}

	currency := strings.ToLower(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "usd"
	}

	conversation, err := s.conversationRepo.GetByIDForParticipant(ctx, input.ConversationID, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrForbidden
		}
		return nil, nil, err
	}
	if conversation.BrandID != actorID {
		return nil, nil, ErrForbidden
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewMessageRepository(tx)
	txOfferRepo := repository.NewOfferRepository(tx)
	txConversationRepo := repository.NewConversationRepository(tx)

	content := fmt.Sprintf(
		"Collaboration offer: %s, %s for %.2f %s",
		destination,
		country,
		input.Amount,
		strings.ToUpper(currency),
	)
	message, err := txMessageRepo.Create(ctx, conversation.ID, actorID, models.MessageKindOffer, content)
	if err != nil {
		return nil, nil, err
	}

	offer, err := txOfferRepo.Create(ctx, repository.CreateOfferInput{
		ID:              uuid.NewString(),
		MessageID:       message.ID,
		ConversationID:  conversation.ID,
		BrandID:         conversation.BrandID,
		CreatorID:       conversation.CreatorID,
		Amount:          input.Amount,
		Currency:        currency,
		TripDestination: destination,
		TripCountry:     country,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := txConversationRepo.Touch(ctx, conversation.ID); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	offerMessage := &models.OfferMessage{
		Message: *message,
		Offer:   *offer,
	}
	delivery := &ChatDelivery{
		Conversation: conversation,
		Message:      message,
		RecipientID:  conversation.CreatorID,
	}
	return offerMessage, delivery, nil
}

func (s *OfferService) GetOffer(
	ctx context.Context,
	actorID int64,
	role string,
	offerID string,
) (*models.Offer, error) {
	if role != "brand" && role != "creator" {
		return nil, ErrForbidden
	}

	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	if offer.BrandID != actorID && offer.CreatorID != actorID {
		return nil, ErrForbidden
	}
	return offer, nil
}
