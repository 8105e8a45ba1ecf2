package models

import (
	"time"

	"github.com/google/uuid"
)

// OfferStatus статус оффера.
type OfferStatus string

// Статусы офферов
const (
	OfferStatusPending             OfferStatus = "pending"
	OfferStatusAccepted            OfferStatus = "accepted"
	OfferStatusDeclined            OfferStatus = "declined"
	OfferStatusWithdrawn           OfferStatus = "withdrawn"
	OfferStatusCompletionRequested OfferStatus = "completion_requested"
	OfferStatusCompleted           OfferStatus = "completed"
)

// IsValid проверяет, что статус входит в множество допустимых.
func (s OfferStatus) IsValid() bool {
	switch s {
	case OfferStatusPending, OfferStatusAccepted, OfferStatusDeclined,
		OfferStatusWithdrawn, OfferStatusCompletionRequested, OfferStatusCompleted:
		return true
	}
	return false
}

// IsTerminal проверяет, является ли статус терминальным.
func (s OfferStatus) IsTerminal() bool {
	switch s {
	case OfferStatusDeclined, OfferStatusWithdrawn, OfferStatusCompleted:
		return true
	}
	return false
}

// offerTransitions таблица допустимых переходов статусов оффера.
// Переход completion_requested -> accepted соответствует отклонению
// запроса на завершение второй стороной.
var offerTransitions = map[OfferStatus][]OfferStatus{
	OfferStatusPending:             {OfferStatusAccepted, OfferStatusDeclined, OfferStatusWithdrawn},
	OfferStatusAccepted:            {OfferStatusCompletionRequested, OfferStatusWithdrawn},
	OfferStatusCompletionRequested: {OfferStatusCompleted, OfferStatusAccepted},
	OfferStatusDeclined:            {},
	OfferStatusWithdrawn:           {},
	OfferStatusCompleted:           {},
}

// CanTransitionTo проверяет допустимость перехода в новый статус.
func (s OfferStatus) CanTransitionTo(next OfferStatus) bool {
	for _, allowed := range offerTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Offer описывает платное предложение работы между двумя сторонами.
// Отправитель всегда предлагает работу за указанную сумму; delivery_days
// задаётся при создании и далее не меняется.
type Offer struct {
	ID                    uuid.UUID   `db:"id" json:"id"`
	SenderID              uuid.UUID   `db:"sender_id" json:"sender_id"`
	RecipientID           uuid.UUID   `db:"recipient_id" json:"recipient_id"`
	Title                 string      `db:"title" json:"title"`
	Description           string      `db:"description" json:"description"`
	AmountCents           int64       `db:"amount_cents" json:"amount_cents"`
	DeliveryDays          *int        `db:"delivery_days" json:"delivery_days,omitempty"`
	Status                OfferStatus `db:"status" json:"status"`
	PaymentIntentID       *string     `db:"payment_intent_id" json:"payment_intent_id,omitempty"`
	AcceptedAt            *time.Time  `db:"accepted_at" json:"accepted_at,omitempty"`
	CompletionRequestedAt *time.Time  `db:"completion_requested_at" json:"completion_requested_at,omitempty"`
	CreatedAt             time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time   `db:"updated_at" json:"updated_at"`
}

// OfferListItem строка списка офферов с именами сторон.
type OfferListItem struct {
	Offer
	SenderName    string `db:"sender_name" json:"sender_name"`
	RecipientName string `db:"recipient_name" json:"recipient_name"`
}

// EarningsSummary сводка заработка специалиста: завершённые офферы плюс комиссии.
type EarningsSummary struct {
	CompletedOffersCents   int64 `json:"completed_offers_cents"`
	CommissionPaidCents    int64 `json:"commission_paid_cents"`
	CommissionPendingCents int64 `json:"commission_pending_cents"`
}
