package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BhattAnsh/KnowZ/internal/middleware"
	"github.com/BhattAnsh/KnowZ/internal/swipe"
)

type SwipeHandler struct {
	ledger *swipe.Ledger
	logger *zap.Logger
}

func NewSwipeHandler(ledger *swipe.Ledger, logger *zap.Logger) *SwipeHandler {
	return &SwipeHandler{ledger: ledger, logger: logger}
}

type swipeRequest struct {
	TargetUserID string `json:"target_user_id" binding:"required"`
	// Pointer so a JSON "liked": false still satisfies required.
	Liked *bool `json:"liked" binding:"required"`
}

// Record handles POST /swipe
func (h *SwipeHandler) Record(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req swipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	targetID, err := uuid.Parse(req.TargetUserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target user id"})
		return
	}

	outcome, err := h.ledger.RecordSwipe(c.Request.Context(), userID, targetID, *req.Liked)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := gin.H{
		"success":  true,
		"is_match": outcome.IsMutualMatch,
	}
	if outcome.Partner != nil {
		resp["match_details"] = outcome.Partner
	} else {
		resp["match_details"] = nil
	}
	c.JSON(http.StatusOK, resp)
}
