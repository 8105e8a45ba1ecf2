package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/realty-backend/internal/dto"
	"github.com/ignatzorin/realty-backend/internal/http/handlers/common"
	"github.com/ignatzorin/realty-backend/internal/service"
)

// EngagementHandler предоставляет HTTP слой сотрудничеств.
type EngagementHandler struct {
	engagements *service.EngagementService
}

// NewEngagementHandler создаёт хэндлер.
func NewEngagementHandler(engagements *service.EngagementService) *EngagementHandler {
	return &EngagementHandler{engagements: engagements}
}

// Create обрабатывает POST /engagements.
func (h *EngagementHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req dto.CreateEngagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор клиента"})
		return
	}
	referralID, err := req.ParseReferralID()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор рекомендации"})
		return
	}

	engagement, err := h.engagements.Create(c.Request.Context(), userID, service.CreateEngagementInput{
		ClientID:              clientID,
		ReferralID:            referralID,
		Title:                 req.Title,
		Notes:                 req.Notes,
		CommissionAmountCents: req.CommissionAmountCents,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, engagement)
}

// Get обрабатывает GET /engagements/:id.
func (h *EngagementHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	engagementID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	engagement, err := h.engagements.GetByID(c.Request.Context(), userID, engagementID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, engagement)
}

// List обрабатывает GET /engagements — сотрудничества текущего специалиста.
func (h *EngagementHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	engagements, err := h.engagements.ListForProvider(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, engagements)
}
