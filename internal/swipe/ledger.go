// Package swipe records one-directional like/pass decisions and derives
// mutual-match status from them.
package swipe

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BhattAnsh/KnowZ/internal/apperr"
	"github.com/BhattAnsh/KnowZ/internal/conversation"
	"github.com/BhattAnsh/KnowZ/internal/models"
	"github.com/BhattAnsh/KnowZ/internal/repository"
)

// Outcome is the result of one swipe: whether it completed a mutual match,
// and if so, the partner's public summary for the match popup.
type Outcome struct {
	IsMutualMatch bool
	Partner       *models.Summary
}

type Ledger struct {
	swipes   repository.SwipeRepository
	users    repository.UserRepository
	messages repository.MessageRepository
	logger   *zap.Logger
}

func NewLedger(
	swipes repository.SwipeRepository,
	users repository.UserRepository,
	messages repository.MessageRepository,
	logger *zap.Logger,
) *Ledger {
	return &Ledger{swipes: swipes, users: users, messages: messages, logger: logger}
}

// RecordSwipe validates the pair, records the decision, and reports
// whether it produced a mutual match. A mutual match is only ever reported
// on the second of the two liked swipes; the store serializes the check
// per pair so concurrent likes from both sides cannot both miss it.
func (l *Ledger) RecordSwipe(ctx context.Context, actor, target uuid.UUID, liked bool) (*Outcome, error) {
	if actor == uuid.Nil || target == uuid.Nil {
		return nil, apperr.New(apperr.KindValidation, "missing required fields")
	}
	if actor == target {
		return nil, apperr.New(apperr.KindValidation, "cannot swipe on yourself")
	}

	targetUser, err := l.users.GetByID(ctx, target)
	if err != nil {
		return nil, err
	}
	if targetUser == nil {
		return nil, apperr.New(apperr.KindValidation, "unknown target user")
	}

	mutual, err := l.swipes.Record(ctx, actor, target, liked)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{IsMutualMatch: mutual}
	if mutual {
		l.logger.Info("mutual match",
			zap.String("actor", actor.String()),
			zap.String("target", target.String()),
		)
		outcome.Partner = &models.Summary{ID: targetUser.ID, Username: targetUser.Username}
	}
	return outcome, nil
}

// MutualMatches lists the user's matches with the state of each bounded
// conversation, for the matches screen.
func (l *Ledger) MutualMatches(ctx context.Context, userID uuid.UUID) ([]models.MatchSummary, error) {
	partners, err := l.swipes.MutualPartners(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.MatchSummary, 0, len(partners))
	for _, partnerID := range partners {
		partner, err := l.users.GetByID(ctx, partnerID)
		if err != nil {
			return nil, err
		}
		if partner == nil {
			continue
		}
		stats, err := l.messages.PairStats(ctx, userID, partnerID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.MatchSummary{
			ID:           partnerID,
			Username:     partner.Username,
			LastMessage:  stats.LastMessage,
			MessageCount: stats.MessageCount,
			UnreadCount:  stats.UnreadCount,
			MaxMessages:  conversation.MaxMessages,
		})
	}
	return summaries, nil
}

// PendingLikers returns who liked the user without a like back yet.
func (l *Ledger) PendingLikers(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return l.swipes.PendingLikers(ctx, userID)
}
