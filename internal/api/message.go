package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BhattAnsh/KnowZ/internal/conversation"
	"github.com/BhattAnsh/KnowZ/internal/middleware"
)

type MessageHandler struct {
	guard  *conversation.Guard
	logger *zap.Logger
}

func NewMessageHandler(guard *conversation.Guard, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{guard: guard, logger: logger}
}

// List handles GET /messages/:peer_id
//
// Fetching marks the peer's unread messages to the caller as read; the
// returned list still shows the read flags as they were at fetch time.
func (h *MessageHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	peerID, err := uuid.Parse(c.Param("peer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	messages, err := h.guard.ListMessages(c.Request.Context(), userID, peerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type sendMessageRequest struct {
	RecipientID string `json:"recipientId" binding:"required"`
	Text        string `json:"text" binding:"required"`
}

// Send handles POST /messages/send
func (h *MessageHandler) Send(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipient id"})
		return
	}

	msg, err := h.guard.SendMessage(c.Request.Context(), userID, recipientID, req.Text)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
