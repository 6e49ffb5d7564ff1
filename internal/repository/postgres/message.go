package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BhattAnsh/KnowZ/internal/apperr"
	"github.com/BhattAnsh/KnowZ/internal/models"
)

// MessageStore is the append-only per-pair message log.
type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

const messageColumns = `id, sender_id, receiver_id, text, created_at, is_read`

func (s *MessageStore) CreateWithQuota(ctx context.Context, sender, receiver uuid.UUID, text string, maxMessages int) (*models.Message, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, storeErr("begin send", err)
	}
	defer tx.Rollback(ctx)

	// Count-compare-insert must be one unit per pair: two concurrent sends
	// from opposite ends could otherwise both count 4 and push the
	// conversation past the cap. The advisory lock serializes them.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, pairLockKey(sender, receiver)); err != nil {
		return nil, storeErr("lock pair", err)
	}

	var count int
	err = tx.QueryRow(ctx, `
		SELECT count(*) FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)`,
		sender, receiver).Scan(&count)
	if err != nil {
		return nil, storeErr("count messages", err)
	}
	if count >= maxMessages {
		return nil, apperr.New(apperr.KindQuota, "message limit reached for this match")
	}

	var msg models.Message
	err = tx.QueryRow(ctx, `
		INSERT INTO messages (sender_id, receiver_id, text, created_at, is_read)
		VALUES ($1, $2, $3, now(), false)
		RETURNING `+messageColumns,
		sender, receiver, text).Scan(
		&msg.ID,
		&msg.SenderID,
		&msg.ReceiverID,
		&msg.Text,
		&msg.CreatedAt,
		&msg.IsRead,
	)
	if err != nil {
		return nil, storeErr("insert message", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("commit send", err)
	}
	return &msg, nil
}

func (s *MessageStore) ListAndMarkRead(ctx context.Context, caller, peer uuid.UUID) ([]models.Message, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, storeErr("begin list", err)
	}
	defer tx.Rollback(ctx)

	// created_at ascending with id as the insertion-order tie-break.
	rows, err := tx.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC, id ASC`, caller, peer)
	if err != nil {
		return nil, storeErr("list messages", err)
	}

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.SenderID,
			&msg.ReceiverID,
			&msg.Text,
			&msg.CreatedAt,
			&msg.IsRead,
		); err != nil {
			rows.Close()
			return nil, storeErr("scan message", err)
		}
		messages = append(messages, msg)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate messages", err)
	}

	// Fetching the conversation is what flips unread messages from the
	// peer to read. Idempotent: once read, the update matches no rows.
	if _, err := tx.Exec(ctx, `
		UPDATE messages SET is_read = true
		WHERE sender_id = $2 AND receiver_id = $1 AND is_read = false`,
		caller, peer); err != nil {
		return nil, storeErr("mark read", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("commit list", err)
	}
	return messages, nil
}

func (s *MessageStore) PairStats(ctx context.Context, userID, partnerID uuid.UUID) (*models.ConversationStats, error) {
	var stats models.ConversationStats
	err := s.pool.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE sender_id = $2 AND receiver_id = $1 AND is_read = false),
			(
				SELECT m.text FROM messages m
				WHERE (m.sender_id = $1 AND m.receiver_id = $2)
				   OR (m.sender_id = $2 AND m.receiver_id = $1)
				ORDER BY m.created_at DESC, m.id DESC
				LIMIT 1
			)
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)`,
		userID, partnerID).Scan(&stats.MessageCount, &stats.UnreadCount, &stats.LastMessage)
	if err != nil {
		return nil, storeErr("pair stats", err)
	}
	return &stats, nil
}
