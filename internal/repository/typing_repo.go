package repository

import (
	"context"

	"github.com/miwaszko990/ugc-travel-connect/internal/models"
)

type TypingRepository struct {
	db DBTX
}

func NewTypingRepository(db DBTX) *TypingRepository {
	return &TypingRepository{db: db}
}

// Set refreshes the typing marker. Only the timestamp is stored; expiry is
// the reader's job, so a crashed client never leaves a permanent indicator.
func (r *TypingRepository) Set(ctx context.Context, conversationID int64, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO typing_status (conversation_id, user_id, started_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (conversation_id, user_id)
		DO UPDATE SET started_at = NOW()
	`, conversationID, userID)
	return err
}

func (r *TypingRepository) Clear(ctx context.Context, conversationID int64, userID int64) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM typing_status
		WHERE conversation_id = $1 AND user_id = $2
	`, conversationID, userID)
	return err
}

func (r *TypingRepository) ListPeers(
	ctx context.Context,
	conversationID int64,
	excludeUserID int64,
) ([]models.TypingPeer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, started_at
		FROM typing_status
		WHERE conversation_id = $1 AND user_id <> $2
	`, conversationID, excludeUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	peers := make([]models.TypingPeer, 0)
	for rows.Next() {
		var peer models.TypingPeer
		if err := rows.Scan(&peer.UserID, &peer.StartedAt); err != nil {
			return nil, err
		}
		peers = append(peers, peer)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return peers, nil
}
