package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/repository"
)

// TypingTTL is how long a typing marker stays meaningful. The writer never
// cleans up after itself; readers drop anything older than this.
const TypingTTL = 5 * time.Second

type ChatService struct {
	db               *pgxpool.Pool
	conversationRepo *repository.ConversationRepository
	messageRepo      *repository.MessageRepository
	typingRepo       *repository.TypingRepository
	userRepo         userReader
}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// ChatDelivery carries everything the hub needs to fan a message out to
// both sides of a conversation.
type ChatDelivery struct {
	Conversation *models.Conversation
	Message      *models.ChatMessage
	RecipientID  int64
}

func NewChatService(
	db *pgxpool.Pool,
	conversationRepo *repository.ConversationRepository,
	messageRepo *repository.MessageRepository,
	typingRepo *repository.TypingRepository,
	userRepo userReader,
) *ChatService {
	return &ChatService{
		db:               db,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		typingRepo:       typingRepo,
		userRepo:         userRepo,
	}
}

// ConversationKey derives the thread identity from the two participant ids.
// It is order-independent, so the same pair can never produce two threads.
func ConversationKey(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

func (s *ChatService) ListConversations(
	ctx context.Context,
	actorID int64,
	role string,
) ([]models.ConversationSummary, error) {
	if role != "brand" && role != "creator" {
		return nil, ErrForbidden
	}

	return s.conversationRepo.ListForParticipant(ctx, actorID)
}

func (s *ChatService) StartConversation(
	ctx context.Context,
	actorID int64,
	role string,
	creatorID int64,
) (*models.Conversation, error) {
	if role != "brand" {
		return nil, ErrForbidden
	}
	if creatorID <= 0 || creatorID == actorID {
		return nil, ErrInvalidInput
	}

	creator, err := s.userRepo.GetByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCreatorNotFound
		}
		return nil, err
	}
	if creator.Role != "creator" {
		return nil, ErrInvalidInput
	}

	return s.conversationRepo.CreateOrGet(ctx, ConversationKey(actorID, creatorID), actorID, creatorID)
}

func (s *ChatService) ListMessages(
	ctx context.Context,
	actorID int64,
	role string,
	conversationID int64,
	page int,
	limit int,
) ([]models.ChatMessage, int, error) {
	if role != "brand" && role != "creator" {
		return nil, 0, ErrForbidden
	}
	if conversationID <= 0 || page <= 0 || limit <= 0 {
		return nil, 0, ErrInvalidInput
	}

	_, err := s.conversationRepo.GetByIDForParticipant(ctx, conversationID, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, pgx.ErrNoRows
		}
		return nil, 0, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewMessageRepository(tx)

	messages, total, err := txMessageRepo.ListByConversation(
		ctx,
		conversationID,
		limit,
		(page-1)*limit,
	)
	if err != nil {
		return nil, 0, err
	}

	messageIDs := make([]int64, 0, len(messages))
	for _, message := range messages {
		messageIDs = append(messageIDs, message.ID)
	}

	if err := txMessageRepo.MarkMessagesRead(ctx, messageIDs, actorID); err != nil {
		return nil, 0, err
	}

	for i := range messages {
		if messages[i].SenderID != actorID {
			messages[i].IsRead = true
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (s *ChatService) SendMessage(
	ctx context.Context,
	actorID int64,
	role string,
	conversationID int64,
	content string,
) (*ChatDelivery, error) {
	if role != "brand" && role != "creator" {
		return nil, ErrForbidden
	}
	if conversationID <= 0 {
		return nil, ErrInvalidInput
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrInvalidInput
	}

	conversation, err := s.conversationRepo.GetByIDForParticipant(ctx, conversationID, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewMessageRepository(tx)
	txConversationRepo := repository.NewConversationRepository(tx)

	message, err := txMessageRepo.Create(ctx, conversationID, actorID, models.MessageKindText, trimmed)
	if err != nil {
		return nil, err
	}

	if err := txConversationRepo.Touch(ctx, conversationID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &ChatDelivery{
		Conversation: conversation,
		Message:      message,
		RecipientID:  peerOf(conversation, actorID),
	}, nil
}

// MarkConversationRead flags all peer messages as read and reports who
// should be notified. Calling it repeatedly is safe.
func (s *ChatService) MarkConversationRead(
	ctx context.Context,
	actorID int64,
	role string,
	conversationID int64,
) (int64, error) {
	if role != "brand" && role != "creator" {
		return 0, ErrForbidden
	}
	if conversationID <= 0 {
		return 0, ErrInvalidInput
	}

	conversation, err := s.conversationRepo.GetByIDForParticipant(ctx, conversationID, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrForbidden
		}
		return 0, err
	}

	if err := s.messageRepo.MarkConversationRead(ctx, conversationID, actorID); err != nil {
		return 0, err
	}

	return peerOf(conversation, actorID), nil
}

func (s *ChatService) SetTyping(
	ctx context.Context,
	actorID int64,
	role string,
	conversationID int64,
	isTyping bool,
) (int64, error) {
	if role != "brand" && role != "creator" {
		return 0, ErrForbidden
	}
	if conversationID <= 0 {
		return 0, ErrInvalidInput
	}

	conversation, err := s.conversationRepo.GetByIDForParticipant(ctx, conversationID, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrForbidden
		}
		return 0, err
	}

	if isTyping {
		err = s.typingRepo.Set(ctx, conversationID, actorID)
	} else {
		err = s.typingRepo.Clear(ctx, conversationID, actorID)
	}
	if err != nil {
		return 0, err
	}

	return peerOf(conversation, actorID), nil
}

// TypingPeers returns the participants currently typing, after dropping
// markers older than TypingTTL.
func (s *ChatService) TypingPeers(
	ctx context.Context,
	actorID int64,
	role string,
	conversationID int64,
) ([]models.TypingPeer, error) {
	if role != "brand" && role != "creator" {
		return nil, ErrForbidden
	}
	if conversationID <= 0 {
		return nil, ErrInvalidInput
	}

	if _, err := s.conversationRepo.GetByIDForParticipant(ctx, conversationID, actorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	peers, err := s.typingRepo.ListPeers(ctx, conversationID, actorID)
	if err != nil {
		return nil, err
	}
	return FilterExpiredTyping(peers, time.Now()), nil
}

func FilterExpiredTyping(peers []models.TypingPeer, now time.Time) []models.TypingPeer {
	live := make([]models.TypingPeer, 0, len(peers))
	for _, peer := range peers {
		if now.Sub(peer.StartedAt) <= TypingTTL {
			live = append(live, peer)
		}
	}
	return live
}

func peerOf(conversation *models.Conversation, actorID int64) int64 {
	if actorID == conversation.BrandID {
		return conversation.CreatorID
	}
	return conversation.BrandID
}

func FormatChatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}
