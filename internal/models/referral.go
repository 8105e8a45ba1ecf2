package models

import (
	"time"

	"github.com/google/uuid"
)

// Referral описывает рекомендацию клиента от одного специалиста другому.
// Клиент указывается ровно одним из двух способов: через профиль
// зарегистрированного клиента (ClientID) или через входящий лид (LeadID).
type Referral struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ReferrerID  uuid.UUID  `db:"referrer_id" json:"referrer_id"`
	RecipientID uuid.UUID  `db:"recipient_id" json:"recipient_id"`
	ClientID    *uuid.UUID `db:"client_id" json:"client_id,omitempty"`
	LeadID      *uuid.UUID `db:"lead_id" json:"lead_id,omitempty"`
	Notes       string     `db:"notes" json:"notes"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// ReferralListItem строка списка рекомендаций с присоединёнными именами.
type ReferralListItem struct {
	Referral
	ReferrerName  string  `db:"referrer_name" json:"referrer_name"`
	RecipientName string  `db:"recipient_name" json:"recipient_name"`
	ClientName    *string `db:"client_name" json:"client_name,omitempty"`
	ClientEmail   *string `db:"client_email" json:"client_email,omitempty"`
	LeadName      *string `db:"lead_name" json:"lead_name,omitempty"`
	LeadEmail     *string `db:"lead_email" json:"lead_email,omitempty"`
}

// DisplayClientName возвращает имя клиента для отображения: структурированный
// профиль приоритетнее данных лида.
func (r ReferralListItem) DisplayClientName() string {
	if r.ClientName != nil && *r.ClientName != "" {
		return *r.ClientName
	}
	if r.LeadName != nil {
		return *r.LeadName
	}
	return ""
}

// Lead описывает входящий неавторизованный лид.
type Lead struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OwnerID   uuid.UUID `db:"owner_id" json:"owner_id"`
	Name      string    `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Source    *string   `db:"source" json:"source,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Engagement описывает формализованное сотрудничество специалиста с клиентом.
type Engagement struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	ProviderID uuid.UUID  `db:"provider_id" json:"provider_id"`
	ClientID   uuid.UUID  `db:"client_id" json:"client_id"`
	ReferralID *uuid.UUID `db:"referral_id" json:"referral_id,omitempty"`
	Title      *string    `db:"title" json:"title,omitempty"`
	Notes      *string    `db:"notes" json:"notes,omitempty"`
	Status     string     `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Commission описывает комиссию, причитающуюся рекомендателю за конверсию.
type Commission struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ReferralID  uuid.UUID  `db:"referral_id" json:"referral_id"`
	AmountCents int64      `db:"amount_cents" json:"amount_cents"`
	Status      string     `db:"status" json:"status"`
	PaidAt      *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// CommissionListItem строка списка комиссий с именем специалиста-получателя рекомендации.
type CommissionListItem struct {
	Commission
	RecipientName string `db:"recipient_name" json:"recipient_name"`
}

// CommissionSummary агрегированные суммы комиссий рекомендателя.
type CommissionSummary struct {
	TotalPaidCents    int64 `db:"total_paid_cents" json:"total_paid_cents"`
	TotalPendingCents int64 `db:"total_pending_cents" json:"total_pending_cents"`
}
