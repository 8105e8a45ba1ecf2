package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/realty-backend/internal/dto"
	"github.com/ignatzorin/realty-backend/internal/http/handlers/common"
	"github.com/ignatzorin/realty-backend/internal/models"
	"github.com/ignatzorin/realty-backend/internal/repository"
	"github.com/ignatzorin/realty-backend/internal/validation"
)

// ProfileHandler управляет профилями пользователей.
type ProfileHandler struct {
	users *repository.UserRepository
}

// NewProfileHandler создаёт хэндлер.
func NewProfileHandler(users *repository.UserRepository) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// Me обрабатывает GET /profile — профиль текущего пользователя.
func (h *ProfileHandler) Me(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "profile": profile})
}

// Get обрабатывает GET /profiles/:id — публичный профиль пользователя.
func (h *ProfileHandler) Get(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "пользователь не найден"})
			return
		}
		c.Error(err)
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), targetID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
		"profile": profile,
	})
}

// Update обрабатывает PUT /profile.
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validation.ValidateDisplayName(req.DisplayName); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	avatarID, err := req.ParseAvatarID()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор аватара"})
		return
	}

	profile := &models.Profile{
		UserID:        userID,
		DisplayName:   req.DisplayName,
		Bio:           req.Bio,
		Phone:         req.Phone,
		Location:      req.Location,
		AgencyName:    req.AgencyName,
		LicenseNumber: req.LicenseNumber,
		AvatarID:      avatarID,
	}

	if err := h.users.UpsertProfile(c.Request.Context(), profile); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
