package dto

import (
	"encoding/json"

	"github.com/google/uuid"
)

// RegisterRequest represents the request to register a new user
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request to refresh a token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest represents the request to update user profile
type UpdateProfileRequest struct {
	DisplayName   string  `json:"display_name" binding:"required"`
	Bio           *string `json:"bio"`
	Phone         *string `json:"phone"`
	Location      *string `json:"location"`
	AgencyName    *string `json:"agency_name"`
	LicenseNumber *string `json:"license_number"`
	AvatarID      *string `json:"avatar_id"`
}

// ParseAvatarID converts string avatar ID to uuid.UUID pointer
func (r *UpdateProfileRequest) ParseAvatarID() (*uuid.UUID, error) {
	if r.AvatarID == nil || *r.AvatarID == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(*r.AvatarID)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// CreateReferralRequest represents the request to create a referral
type CreateReferralRequest struct {
	RecipientID string  `json:"recipient_id" binding:"required"`
	ClientID    *string `json:"client_id"`
	LeadID      *string `json:"lead_id"`
	Notes       string  `json:"notes"`
}

// ParseClientID converts string client ID to uuid.UUID pointer
func (r *CreateReferralRequest) ParseClientID() (*uuid.UUID, error) {
	return parseOptionalUUID(r.ClientID)
}

// ParseLeadID converts string lead ID to uuid.UUID pointer
func (r *CreateReferralRequest) ParseLeadID() (*uuid.UUID, error) {
	return parseOptionalUUID(r.LeadID)
}

// CreateLeadRequest represents the request to register an incoming lead
type CreateLeadRequest struct {
	Name   string  `json:"name" binding:"required"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Source *string `json:"source"`
}

// CreateEngagementRequest represents the request to create an engagement
type CreateEngagementRequest struct {
	ClientID              string  `json:"client_id" binding:"required"`
	ReferralID            *string `json:"referral_id"`
	Title                 *string `json:"title"`
	Notes                 *string `json:"notes"`
	CommissionAmountCents *int64  `json:"commission_amount_cents"`
}

// ParseReferralID converts string referral ID to uuid.UUID pointer
func (r *CreateEngagementRequest) ParseReferralID() (*uuid.UUID, error) {
	return parseOptionalUUID(r.ReferralID)
}

// CreateOfferRequest represents the request to create an offer
type CreateOfferRequest struct {
	RecipientID  string `json:"recipient_id" binding:"required"`
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description" binding:"required"`
	AmountCents  int64  `json:"amount_cents" binding:"required"`
	DeliveryDays *int   `json:"delivery_days"`
}

// RespondOfferRequest represents the request to accept or decline an offer
type RespondOfferRequest struct {
	Accept bool `json:"accept"`
}

// RespondCompletionRequest represents the request to approve or reject completion
type RespondCompletionRequest struct {
	Approve bool `json:"approve"`
}

// CreateProjectRequest represents the request to create a crowdfunding project
type CreateProjectRequest struct {
	Title              string          `json:"title" binding:"required"`
	Description        string          `json:"description" binding:"required"`
	Category           string          `json:"category"`
	TargetAmountCents  int64           `json:"target_amount_cents" binding:"required"`
	MinInvestmentCents int64           `json:"min_investment_cents"`
	Allocation         json.RawMessage `json:"allocation"`
}

// PledgeRequest represents the request to pledge an investment
type PledgeRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required"`
}

// VoteRequest represents the request to vote for a project
type VoteRequest struct {
	VoteType string `json:"vote_type" binding:"required"`
}

// SendMessageRequest represents the request to send a direct message
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	Body        string `json:"body" binding:"required"`
}

// parseOptionalUUID is a helper to convert an optional string to UUID pointer
func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
