package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SwipeStore is the like/pass ledger. One row per (actor, target): a
// re-swipe overwrites the earlier decision instead of piling up duplicates.
type SwipeStore struct {
	pool *pgxpool.Pool
}

func NewSwipeStore(pool *pgxpool.Pool) *SwipeStore {
	return &SwipeStore{pool: pool}
}

func (s *SwipeStore) Record(ctx context.Context, actor, target uuid.UUID, liked bool) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, storeErr("begin swipe", err)
	}
	defer tx.Rollback(ctx)

	// Serialize on the unordered pair before reading the reverse direction.
	// Without this, two simultaneous likes can both see "no reverse swipe
	// yet" and neither reports the mutual match.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, pairLockKey(actor, target)); err != nil {
		return false, storeErr("lock pair", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO swipes (actor_id, target_id, liked, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (actor_id, target_id)
		DO UPDATE SET liked = EXCLUDED.liked, created_at = now()`,
		actor, target, liked); err != nil {
		return false, storeErr("record swipe", err)
	}

	// A pass can never complete a match; skip the reverse lookup.
	mutual := false
	if liked {
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM swipes
				WHERE actor_id = $1 AND target_id = $2 AND liked
			)`, target, actor).Scan(&mutual)
		if err != nil {
			return false, storeErr("check reverse swipe", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, storeErr("commit swipe", err)
	}
	return mutual, nil
}

func (s *SwipeStore) IsMutual(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var mutual bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM swipes s1
			JOIN swipes s2 ON s2.actor_id = s1.target_id AND s2.target_id = s1.actor_id
			WHERE s1.actor_id = $1 AND s1.target_id = $2 AND s1.liked AND s2.liked
		)`, a, b).Scan(&mutual)
	if err != nil {
		return false, storeErr("check mutual match", err)
	}
	return mutual, nil
}

func (s *SwipeStore) MutualPartners(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s1.target_id
		FROM swipes s1
		JOIN swipes s2 ON s2.actor_id = s1.target_id AND s2.target_id = s1.actor_id
		WHERE s1.actor_id = $1 AND s1.liked AND s2.liked
		ORDER BY s1.target_id`, userID)
	if err != nil {
		return nil, storeErr("list mutual partners", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

func (s *SwipeStore) PendingLikers(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	// People who liked me, minus people I have already liked back.
	// A pass by me does not hide them: the pending list is where a pass
	// can still be reconsidered.
	rows, err := s.pool.Query(ctx, `
		SELECT s.actor_id
		FROM swipes s
		WHERE s.target_id = $1 AND s.liked
		  AND NOT EXISTS (
			SELECT 1 FROM swipes m
			WHERE m.actor_id = $1 AND m.target_id = s.actor_id AND m.liked
		  )
		ORDER BY s.actor_id`, userID)
	if err != nil {
		return nil, storeErr("list pending likers", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}
