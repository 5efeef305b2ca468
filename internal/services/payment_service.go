package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/repository"
	"github.com/stripe/stripe-go/v76"
)

type checkoutSessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// DeliveryNotifier pushes a committed message to connected clients. The
// websocket hub implements it; a nil notifier just skips the push.
type DeliveryNotifier interface {
	NotifyMessage(delivery *ChatDelivery)
}

type PaymentService struct {
	db               *pgxpool.Pool
	offerRepo        *repository.OfferRepository
	conversationRepo *repository.ConversationRepository
	checkout         checkoutSessionCreator
	frontendBaseURL  string
	notifier         DeliveryNotifier
}

func NewPaymentService(
	db *pgxpool.Pool,
	offerRepo *repository.OfferRepository,
	conversationRepo *repository.ConversationRepository,
	checkout checkoutSessionCreator,
	frontendBaseURL string,
	notifier DeliveryNotifier,
) *PaymentService {
	return &PaymentService{
		db:               db,
		offerRepo:        offerRepo,
		conversationRepo: conversationRepo,
		checkout:         checkout,
		frontendBaseURL:  strings.TrimRight(frontendBaseURL, "/"),
		notifier:         notifier,
	}
}

type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CreateCheckoutSession builds a hosted-checkout redirect for a pending
// offer. The offer, brand and creator ids travel in the session metadata so
// the webhook can find its way back.
func (s *PaymentService) CreateCheckoutSession(
	ctx context.Context,
	actorID int64,
	role string,
	offerID string,
) (*CheckoutSession, error) {
	if role != "brand" {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(offerID) == "" {
		return nil, ErrInvalidInput
	}

	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	if offer.BrandID != actorID {
		return nil, ErrForbidden
	}
	if offer.Status != models.OfferStatusPending {
		return nil, ErrOfferNotPending
	}
	if offer.Amount <= 0 {
		return nil, ErrInvalidInput
	}

	productName := fmt.Sprintf("UGC trip content: %s, %s", offer.TripDestination, offer.TripCountry)
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(offer.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(productName),
					},
					UnitAmount: stripe.Int64(amountToMinorUnits(offer.Amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.frontendBaseURL + "/dashboard/brand?payment=success&session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.frontendBaseURL + "/dashboard/brand?payment=cancelled"),
	}
	params.AddMetadata("offer_id", offer.ID)
	params.AddMetadata("brand_id", fmt.Sprintf("%d", offer.BrandID))
	params.AddMetadata("creator_id", fmt.Sprintf("%d", offer.CreatorID))
	params.AddMetadata("trip_destination", offer.TripDestination)
	params.AddMetadata("trip_country", offer.TripCountry)

	session, err := s.checkout.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	if err := s.offerRepo.SetStripeSession(ctx, offer.ID, session.ID); err != nil {
		return nil, err
	}

	return &CheckoutSession{SessionID: session.ID, URL: session.URL}, nil
}

type CheckoutCompletedInput struct {
	EventID   string
	SessionID string
	OfferID   string
	BrandID   int64
	CreatorID int64
}

// HandleCheckoutCompleted applies the payment side effects as one unit:
// record the event id, flip the offer to paid, append the system message and
// materialize the order. A replayed event bails out at the ledger check and
// mutates nothing.
func (s *PaymentService) HandleCheckoutCompleted(
	ctx context.Context,
	input CheckoutCompletedInput,
) (*models.Order, error) {
	if input.EventID == "" || input.OfferID == "" {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txEventRepo := repository.NewStripeEventRepository(tx)
	txOfferRepo := repository.NewOfferRepository(tx)
	txMessageRepo := repository.NewMessageRepository(tx)
	txConversationRepo := repository.NewConversationRepository(tx)
	txOrderRepo := repository.NewOrderRepository(tx)

	inserted, err := txEventRepo.InsertIfAbsent(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, ErrEventAlreadyProcessed
	}

	offer, err := txOfferRepo.MarkPaidIfPending(ctx, input.OfferID, input.SessionID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if _, lookupErr := txOfferRepo.GetByID(ctx, input.OfferID); lookupErr != nil {
			if errors.Is(lookupErr, pgx.ErrNoRows) {
				return nil, ErrOfferNotFound
			}
			return nil, lookupErr
		}
		return nil, ErrOfferNotPending
	}
	if offer.BrandID != input.BrandID || offer.CreatorID != input.CreatorID {
		return nil, ErrInvalidInput
	}

	conversation, err := txConversationRepo.GetByID(ctx, offer.ConversationID)
	if err != nil {
		return nil, err
	}

	systemContent := fmt.Sprintf(
		"Payment received for %s, %s. Funds are held in escrow until the order is completed.",
		offer.TripDestination,
		offer.TripCountry,
	)
	systemMessage, err := txMessageRepo.Create(
		ctx,
		offer.ConversationID,
		offer.BrandID,
		models.MessageKindSystem,
		systemContent,
	)
	if err != nil {
		return nil, err
	}

	if err := txConversationRepo.Touch(ctx, offer.ConversationID); err != nil {
		return nil, err
	}

	order, err := txOrderRepo.CreateIfAbsent(ctx, repository.CreateOrderInput{
		ID:              offer.ID,
		OfferID:         offer.ID,
		BrandID:         offer.BrandID,
		CreatorID:       offer.CreatorID,
		Amount:          offer.Amount,
		Currency:        offer.Currency,
		TripDestination: offer.TripDestination,
		TripCountry:     offer.TripCountry,
		StripeSessionID: input.SessionID,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyMessage(&ChatDelivery{
			Conversation: conversation,
			Message:      systemMessage,
			RecipientID:  offer.CreatorID,
		})
	} else {
		log.Printf("payment: no notifier configured, order %s created silently", order.ID)
	}

	return order, nil
}

func amountToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
