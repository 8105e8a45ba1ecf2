package dto

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/realty-backend/internal/models"
)

// TokenPairResponse represents an issued access/refresh token pair
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents registration/login result
type AuthResponse struct {
	User   *models.User      `json:"user"`
	Tokens TokenPairResponse `json:"tokens"`
}

// ReferralResponse represents a referral with its commission, if any
type ReferralResponse struct {
	*models.Referral
	Commission *models.Commission `json:"commission,omitempty"`
}

// ProjectResponse represents a crowdfunding project with read-time aggregates
type ProjectResponse struct {
	*models.Project
	Summary *models.ProjectSummary `json:"summary,omitempty"`
}

// ConversationResponse represents a message page with the peer info
type ConversationResponse struct {
	Messages []models.Message `json:"messages"`
	PeerID   uuid.UUID        `json:"peer_id"`
}

// UnreadCountResponse represents unread counters
type UnreadCountResponse struct {
	Count int `json:"count"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
