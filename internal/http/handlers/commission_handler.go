package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/realty-backend/internal/http/handlers/common"
	"github.com/ignatzorin/realty-backend/internal/service"
)

// CommissionHandler предоставляет HTTP слой реестра комиссий.
type CommissionHandler struct {
	commissions *service.CommissionService
}

// NewCommissionHandler создаёт хэндлер.
func NewCommissionHandler(commissions *service.CommissionService) *CommissionHandler {
	return &CommissionHandler{commissions: commissions}
}

// List обрабатывает GET /commissions — комиссии текущего пользователя.
func (h *CommissionHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	items, err := h.commissions.List(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// Summary обрабатывает GET /commissions/summary.
func (h *CommissionHandler) Summary(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.commissions.Summary(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetByReferral обрабатывает GET /referrals/:id/commission.
func (h *CommissionHandler) GetByReferral(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	referralID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	commission, err := h.commissions.GetByReferral(c.Request.Context(), userID, referralID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, commission)
}
