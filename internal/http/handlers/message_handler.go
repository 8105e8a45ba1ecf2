package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/realty-backend/internal/dto"
	"github.com/ignatzorin/realty-backend/internal/http/handlers/common"
	"github.com/ignatzorin/realty-backend/internal/service"
)

// MessageHandler предоставляет HTTP слой личных сообщений.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler создаёт хэндлер.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Send обрабатывает POST /messages.
func (h *MessageHandler) Send(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор получателя"})
		return
	}

	message, err := h.messages.Send(c.Request.Context(), userID, recipientID, req.Body)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// Conversation обрабатывает GET /messages/:peer_id.
func (h *MessageHandler) Conversation(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	peerID, err := common.ParseUUIDParam(c, "peer_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit, offset := common.GetPagination(c)

	messages, err := h.messages.Conversation(c.Request.Context(), userID, peerID, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ConversationResponse{Messages: messages, PeerID: peerID})
}

// UnreadCount обрабатывает GET /messages/unread-count.
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	count, err := h.messages.CountUnread(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.UnreadCountResponse{Count: count})
}
