package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BhattAnsh/KnowZ/internal/matching"
	"github.com/BhattAnsh/KnowZ/internal/middleware"
	"github.com/BhattAnsh/KnowZ/internal/swipe"
)

type MatchHandler struct {
	scorer *matching.Scorer
	ledger *swipe.Ledger
	logger *zap.Logger
}

func NewMatchHandler(scorer *matching.Scorer, ledger *swipe.Ledger, logger *zap.Logger) *MatchHandler {
	return &MatchHandler{scorer: scorer, ledger: ledger, logger: logger}
}

// Predict handles POST /predict — ranked candidate discovery.
func (h *MatchHandler) Predict(c *gin.Context) {
	userID := middleware.GetUserID(c)

	matches, err := h.scorer.RankCandidates(c.Request.Context(), userID, matching.DefaultTopN)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// Matches handles GET /matches — mutual matches with conversation state.
func (h *MatchHandler) Matches(c *gin.Context) {
	userID := middleware.GetUserID(c)

	summaries, err := h.ledger.MutualMatches(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": summaries})
}

// PendingMatches handles POST /pending-matches — users who liked the
// caller and are waiting on a swipe back.
func (h *MatchHandler) PendingMatches(c *gin.Context) {
	userID := middleware.GetUserID(c)

	likers, err := h.ledger.PendingLikers(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	pending, err := h.scorer.DescribePending(c.Request.Context(), userID, likers)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending_matches": pending})
}
