package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/repository"
)

var (
	testDBOnce sync.Once
	testDBPool *pgxpool.Pool
	testDBErr  error
)

func TestPaymentWebhookCreatesOrderOnce(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)

	brandID := createTestAccount(t, ctx, pool, "brand")
	creatorID := createTestAccount(t, ctx, pool, "creator")
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, brandID, creatorID) })

	chatService := newIntegrationChatService(pool)
	offerService := NewOfferService(
		pool,
		repository.NewConversationRepository(pool),
		repository.NewMessageRepository(pool),
		repository.NewOfferRepository(pool),
	)
	paymentService := NewPaymentService(
		pool,
		repository.NewOfferRepository(pool),
		repository.NewConversationRepository(pool),
		nil,
		"http://localhost:3000",
		nil,
	)

	conversation, err := chatService.StartConversation(ctx, brandID, "brand", creatorID)
	if err != nil {
		t.Fatalf("StartConversation: %v", err)
	}

	offerMessage, _, err := offerService.SendOffer(ctx, brandID, "brand", SendOfferInput{
		ConversationID:  conversation.ID,
		Amount:          1200,
		Currency:        "usd",
		TripDestination: "Lisbon",
		TripCountry:     "Portugal",
	})
	if err != nil {
		t.Fatalf("SendOffer: %v", err)
	}

	eventID := fmt.Sprintf("evt-test-%d", time.Now().UnixNano())
	input := CheckoutCompletedInput{
		EventID:   eventID,
		SessionID: "cs_test_integration",
		OfferID:   offerMessage.Offer.ID,
		BrandID:   brandID,
		CreatorID: creatorID,
	}

	order, err := paymentService.HandleCheckoutCompleted(ctx, input)
	if err != nil {
		t.Fatalf("HandleCheckoutCompleted: %v", err)
	}
	if order.ID != offerMessage.Offer.ID {
		t.Fatalf("expected order id to equal offer id %q, got %q", offerMessage.Offer.ID, order.ID)
	}
	if order.Status != models.OrderStatusPaid {
		t.Fatalf("expected paid order, got %q", order.Status)
	}

	paidOffer, err := repository.NewOfferRepository(pool).GetByID(ctx, offerMessage.Offer.ID)
	if err != nil {
		t.Fatalf("GetByID offer: %v", err)
	}
	if paidOffer.Status != models.OfferStatusPaid {
		t.Fatalf("expected offer marked paid, got %q", paidOffer.Status)
	}

	if _, err := paymentService.HandleCheckoutCompleted(ctx, input); !errors.Is(err, ErrEventAlreadyProcessed) {
		t.Fatalf("expected ErrEventAlreadyProcessed on replay, got %v", err)
	}

	input.EventID = eventID + "-2"
	if _, err := paymentService.HandleCheckoutCompleted(ctx, input); !errors.Is(err, ErrOfferNotPending) {
		t.Fatalf("expected ErrOfferNotPending for an already paid offer, got %v", err)
	}

	messages, _, err := chatService.ListMessages(ctx, creatorID, "creator", conversation.ID, 1, 20)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	systemCount := 0
	for _, message := range messages {
		if message.Kind == models.MessageKindSystem {
			systemCount++
			if !strings.Contains(message.Content, "escrow") {
				t.Fatalf("unexpected system message content: %q", message.Content)
			}
		}
	}
	if systemCount != 1 {
		t.Fatalf("expected exactly one escrow system message, got %d", systemCount)
	}
}

func TestConversationPairNeverForksUnderConcurrentStarts(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)

	brandID := createTestAccount(t, ctx, pool, "brand")
	creatorID := createTestAccount(t, ctx, pool, "creator")
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, brandID, creatorID) })

	chatService := newIntegrationChatService(pool)

	const starters = 5
	results := make(chan int64, starters)
	errs := make(chan error, starters)
	var wg sync.WaitGroup
	for i := 0; i < starters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conversation, err := chatService.StartConversation(ctx, brandID, "brand", creatorID)
			if err != nil {
				errs <- err
				return
			}
			results <- conversation.ID
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("StartConversation: %v", err)
	}
	ids := map[int64]struct{}{}
	for id := range results {
		ids[id] = struct{}{}
	}
	if len(ids) != 1 {
		t.Fatalf("expected all starters to land on one conversation, got %d distinct ids", len(ids))
	}
}

func integrationTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testDBOnce.Do(func() {
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join("..", "..", ".env"))

		dbURL := os.Getenv("DB_URL")
		if dbURL == "" {
			testDBErr = fmt.Errorf("DB_URL is not set")
			return
		}

		cfg, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			testDBErr = err
			return
		}

		testDBPool, testDBErr = pgxpool.NewWithConfig(context.Background(), cfg)
		if testDBErr != nil {
			return
		}
		testDBErr = testDBPool.Ping(context.Background())
	})

	if testDBErr != nil {
		t.Skipf("skipping integration test: %v", testDBErr)
	}
	return testDBPool
}

func newIntegrationChatService(pool *pgxpool.Pool) *ChatService {
	return NewChatService(
		pool,
		repository.NewConversationRepository(pool),
		repository.NewMessageRepository(pool),
		repository.NewTypingRepository(pool),
		repository.NewUserRepository(pool),
	)
}

func createTestAccount(t *testing.T, ctx context.Context, pool *pgxpool.Pool, role string) int64 {
	t.Helper()

	userRepo := repository.NewUserRepository(pool)
	user := &models.User{
		Email:        fmt.Sprintf("payment-test-%s-%d@example.com", role, time.Now().UnixNano()),
		PasswordHash: "test-hash",
		Role:         role,
	}
	if err := userRepo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser(%s): %v", role, err)
	}

	if role == "brand" {
		if err := repository.NewBrandProfileRepository(pool).CreateEmpty(ctx, user.ID); err != nil {
			t.Fatalf("CreateEmpty brand profile: %v", err)
		}
		return user.ID
	}

	if err := repository.NewCreatorProfileRepository(pool).CreateEmpty(ctx, user.ID); err != nil {
		t.Fatalf("CreateEmpty creator profile: %v", err)
	}
	return user.ID
}

func cleanupTestUsers(t *testing.T, ctx context.Context, pool *pgxpool.Pool, userIDs ...int64) {
	t.Helper()

	if len(userIDs) == 0 {
		return
	}

	if _, err := pool.Exec(ctx, "DELETE FROM stripe_events WHERE id LIKE 'evt-test-%'"); err != nil {
		t.Fatalf("cleanup stripe events: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM deliverables WHERE brand_id = ANY($1) OR creator_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup deliverables: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM orders WHERE brand_id = ANY($1) OR creator_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup orders: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM offers WHERE brand_id = ANY($1) OR creator_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup offers: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM typing_status WHERE user_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup typing status: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM messages WHERE conversation_id IN (SELECT id FROM conversations WHERE brand_id = ANY($1) OR creator_id = ANY($1))", userIDs); err != nil {
		t.Fatalf("cleanup messages: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM conversations WHERE brand_id = ANY($1) OR creator_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup conversations: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM users WHERE id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup users: %v", err)
	}
}
