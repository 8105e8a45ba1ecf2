package models

// Роли пользователей платформы
const (
	RoleCustomer        = "customer"
	RoleAgent           = "agent"
	RoleServiceProvider = "service_provider"
)

// ReferralStatus константы статусов рекомендаций
const (
	ReferralStatusPendingAcceptance = "pending_acceptance"
	ReferralStatusAccepted          = "accepted"
	ReferralStatusConverted         = "converted"
)

// EngagementStatus константы статусов сотрудничества
const (
	EngagementStatusActive = "active"
	EngagementStatusClosed = "closed"
)

// CommissionStatus константы статусов комиссий
const (
	CommissionStatusPending  = "pending"
	CommissionStatusApproved = "approved"
	CommissionStatusPaid     = "paid"
	CommissionStatusRejected = "rejected"
)

// PledgeStatus константы статусов заявок на инвестиции
const (
	PledgeStatusPledged   = "pledged"
	PledgeStatusConfirmed = "confirmed"
	PledgeStatusCancelled = "cancelled"
)

// ProjectStatus константы статусов краудфандинговых проектов
const (
	ProjectStatusActive = "active"
	ProjectStatusFunded = "funded"
	ProjectStatusClosed = "closed"
)

// VoteType типы голосов за проект
const (
	VoteTypeUp         = "up"
	VoteTypeDown       = "down"
	VoteTypeInterested = "interested"
)

// ValidRoles список валидных ролей
var ValidRoles = map[string]struct{}{
	RoleCustomer:        {},
	RoleAgent:           {},
	RoleServiceProvider: {},
}

// ValidReferralStatuses список валидных статусов рекомендаций
var ValidReferralStatuses = map[string]struct{}{
	ReferralStatusPendingAcceptance: {},
	ReferralStatusAccepted:          {},
	ReferralStatusConverted:         {},
}

// ValidVoteTypes список валидных типов голосов
var ValidVoteTypes = map[string]struct{}{
	VoteTypeUp:         {},
	VoteTypeDown:       {},
	VoteTypeInterested: {},
}
