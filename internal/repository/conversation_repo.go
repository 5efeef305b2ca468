package repository

import (
	"context"
	"database/sql"

	"github.com/miwaszko990/ugc-travel-connect/internal/models"
)

type ConversationRepository struct {
	db DBTX
}

func NewConversationRepository(db DBTX) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// CreateOrGet resolves the unique thread for a brand/creator pair. The
// pair_key unique constraint guarantees the same two participants always
// land on the same conversation row regardless of write ordering.
func (r *ConversationRepository) CreateOrGet(
	ctx context.Context,
	pairKey string,
	brandID int64,
	creatorID int64,
) (*models.Conversation, error) {
	query := `
		INSERT INTO conversations (pair_key, brand_id, creator_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (pair_key)
		DO UPDATE SET updated_at = conversations.updated_at
		RETURNING id, pair_key, brand_id, creator_id, created_at, updated_at
	`

	var conversation models.Conversation
	err := r.db.QueryRow(ctx, query, pairKey, brandID, creatorID).Scan(
		&conversation.ID,
		&conversation.PairKey,
		&conversation.BrandID,
		&conversation.CreatorID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, conversationID int64) (*models.Conversation, error) {
	query := `
		SELECT id, pair_key, brand_id, creator_id, created_at, updated_at
		FROM conversations
		WHERE id = $1
	`

	var conversation models.Conversation
	err := r.db.QueryRow(ctx, query, conversationID).Scan(
		&conversation.ID,
		&conversation.PairKey,
		&conversation.BrandID,
		&conversation.CreatorID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

func (r *ConversationRepository) GetByIDForParticipant(
	ctx context.Context,
	conversationID int64,
	participantID int64,
) (*models.Conversation, error) {
	query := `
		SELECT id, pair_key, brand_id, creator_id, created_at, updated_at
		FROM conversations
		WHERE id = $1 AND (brand_id = $2 OR creator_id = $2)
	`

	var conversation models.Conversation
	err := r.db.QueryRow(ctx, query, conversationID, participantID).Scan(
		&conversation.ID,
		&conversation.PairKey,
		&conversation.BrandID,
		&conversation.CreatorID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

func (r *ConversationRepository) GetByParticipants(
	ctx context.Context,
	brandID int64,
	creatorID int64,
) (*models.Conversation, error) {
	query := `
		SELECT id, pair_key, brand_id, creator_id, created_at, updated_at
		FROM conversations
		WHERE brand_id = $1 AND creator_id = $2
	`

	var conversation models.Conversation
	err := r.db.QueryRow(ctx, query, brandID, creatorID).Scan(
		&conversation.ID,
		&conversation.PairKey,
		&conversation.BrandID,
		&conversation.CreatorID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

func (r *ConversationRepository) ListForParticipant(
	ctx context.Context,
	participantID int64,
) ([]models.ConversationSummary, error) {
	query := `
		SELECT
			c.id,
			c.pair_key,
			c.brand_id,
			c.creator_id,
			c.created_at,
			c.updated_at,
			lm.id,
			lm.conversation_id,
			lm.sender_id,
			lm.kind,
			lm.content,
			lm.is_read,
			lm.created_at,
			COALESCE(uc.unread_count, 0)
		FROM conversations c
		LEFT JOIN LATERAL (
			SELECT id, conversation_id, sender_id, kind, content, is_read, created_at
			FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) lm ON TRUE
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS unread_count
			FROM messages
			WHERE conversation_id = c.id
			  AND sender_id <> $1
			  AND is_read = FALSE
		) uc ON TRUE
		WHERE c.brand_id = $1 OR c.creator_id = $1
		ORDER BY COALESCE(lm.created_at, c.updated_at, c.created_at) DESC, c.id DESC
	`

	rows, err := r.db.Query(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.ConversationSummary, 0)
	for rows.Next() {
		var summary models.ConversationSummary
		var messageID sql.NullInt64
		var messageConversationID sql.NullInt64
		var messageSenderID sql.NullInt64
		var messageKind sql.NullString
		var messageContent sql.NullString
		var messageIsRead sql.NullBool
		var messageCreatedAt sql.NullTime

		if err := rows.Scan(
			&summary.ID,
			&summary.PairKey,
			&summary.BrandID,
			&summary.CreatorID,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&messageID,
			&messageConversationID,
			&messageSenderID,
			&messageKind,
			&messageContent,
			&messageIsRead,
			&messageCreatedAt,
			&summary.UnreadCount,
		); err != nil {
			return nil, err
		}

		if messageID.Valid {
			summary.LastMessage = &models.ChatMessage{
				ID:             messageID.Int64,
				ConversationID: messageConversationID.Int64,
				SenderID:       messageSenderID.Int64,
				Kind:           messageKind.String,
				Content:        messageContent.String,
				IsRead:         messageIsRead.Bool,
				CreatedAt:      messageCreatedAt.Time,
			}
		}

		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (r *ConversationRepository) Touch(ctx context.Context, conversationID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE conversations
		SET updated_at = NOW()
		WHERE id = $1
	`, conversationID)
	return err
}
