// Package conversation gates message access behind mutual-match status and
// enforces the per-pair message quota.
//
// Each unordered pair moves through three implicit states: unmatched
// (everything rejected), matched (reads and sends allowed), and
// quota-exhausted (history stays readable, sends rejected). There is no
// unmatch operation and no way out of quota-exhausted.
package conversation

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BhattAnsh/KnowZ/internal/apperr"
	"github.com/BhattAnsh/KnowZ/internal/models"
	"github.com/BhattAnsh/KnowZ/internal/repository"
)

// MaxMessages is the lifetime cap on messages per matched pair, counting
// both directions.
const MaxMessages = 5

// ErrNotMatched is returned for any conversation operation on a pair
// without a mutual match. Deliberately the same error whether the peer
// doesn't exist or simply never liked back, so match state can't be probed.
var ErrNotMatched = apperr.New(apperr.KindAuthorization, "you can only message users you've matched with")

type Guard struct {
	swipes   repository.SwipeRepository
	messages repository.MessageRepository
	logger   *zap.Logger
}

func NewGuard(swipes repository.SwipeRepository, messages repository.MessageRepository, logger *zap.Logger) *Guard {
	return &Guard{swipes: swipes, messages: messages, logger: logger}
}

// assertMatched recomputes mutual-match status live from the ledger.
// Never cached: a stale positive would let messages through on a pair
// that was never matched.
func (g *Guard) assertMatched(ctx context.Context, a, b uuid.UUID) error {
	mutual, err := g.swipes.IsMutual(ctx, a, b)
	if err != nil {
		return err
	}
	if !mutual {
		return ErrNotMatched
	}
	return nil
}

// ListMessages returns the pair's conversation in chronological order.
// Fetching has one observable side effect: every unread message from the
// peer to the caller is marked read. Idempotent on repeat.
func (g *Guard) ListMessages(ctx context.Context, caller, peer uuid.UUID) ([]models.Message, error) {
	if err := g.assertMatched(ctx, caller, peer); err != nil {
		return nil, err
	}
	return g.messages.ListAndMarkRead(ctx, caller, peer)
}

// SendMessage appends a message to a matched pair's conversation, subject
// to the quota. The count-and-insert runs atomically in the store, so
// concurrent sends from both ends cannot overrun the cap.
func (g *Guard) SendMessage(ctx context.Context, sender, receiver uuid.UUID, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.New(apperr.KindValidation, "message text is required")
	}
	if err := g.assertMatched(ctx, sender, receiver); err != nil {
		return nil, err
	}

	msg, err := g.messages.CreateWithQuota(ctx, sender, receiver, text, MaxMessages)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindQuota {
			g.logger.Info("message quota exhausted",
				zap.String("sender", sender.String()),
				zap.String("receiver", receiver.String()),
			)
		}
		return nil, err
	}
	return msg, nil
}
