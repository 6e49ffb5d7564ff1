// Package postgres implements the repository interfaces on pgx.
package postgres

import (
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BhattAnsh/KnowZ/internal/apperr"
)

// storeErr wraps a driver error for the caller. Connection-level failures
// become Unavailable so the boundary can answer 503; everything else stays
// an internal error with the operation name attached.
func storeErr(op string, err error) error {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) {
		return apperr.Wrap(apperr.KindUnavailable, "database connection not available",
			fmt.Errorf("%s: %w", op, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

// pairLockKey maps an unordered user pair to the advisory-lock key both
// RecordSwipe and SendMessage serialize on. The pair is canonicalized
// (lesser id first) so both directions hash to the same key.
func pairLockKey(a, b uuid.UUID) int64 {
	lo, hi := a.String(), b.String()
	if lo > hi {
		lo, hi = hi, lo
	}
	h := fnv.New64a()
	h.Write([]byte(lo))
	h.Write([]byte{0})
	h.Write([]byte(hi))
	return int64(h.Sum64())
}

func scanIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("scan id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate ids", err)
	}
	return ids, nil
}
