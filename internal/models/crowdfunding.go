package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Project описывает краудфандинговый проект недвижимости.
// Суммы хранятся в копейках; Allocation — информативная разбивка
// распределения средств по категориям в процентах.
type Project struct {
	ID                 uuid.UUID       `db:"id" json:"id"`
	CreatorID          uuid.UUID       `db:"creator_id" json:"creator_id"`
	Title              string          `db:"title" json:"title"`
	Description        string          `db:"description" json:"description"`
	Category           string          `db:"category" json:"category"`
	TargetAmountCents  int64           `db:"target_amount_cents" json:"target_amount_cents"`
	RaisedAmountCents  int64           `db:"raised_amount_cents" json:"raised_amount_cents"`
	MinInvestmentCents int64           `db:"min_investment_cents" json:"min_investment_cents"`
	Allocation         json.RawMessage `db:"allocation" json:"allocation,omitempty"`
	Status             string          `db:"status" json:"status"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

// Pledge необязывающая заявка на инвестицию; одна на пару (проект, пользователь).
type Pledge struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ProjectID   uuid.UUID `db:"project_id" json:"project_id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Vote голос за проект; один на пару (проект, пользователь), тип заменяем.
type Vote struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ProjectID uuid.UUID `db:"project_id" json:"project_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	VoteType  string    `db:"vote_type" json:"vote_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ProjectSummary агрегаты по проекту, вычисляемые на чтении.
type ProjectSummary struct {
	ProjectID         uuid.UUID `json:"project_id"`
	TotalPledgedCents int64     `db:"total_pledged_cents" json:"total_pledged_cents"`
	BackerCount       int       `db:"backer_count" json:"backer_count"`
	VotesUp           int       `db:"votes_up" json:"votes_up"`
	VotesDown         int       `db:"votes_down" json:"votes_down"`
	VotesInterested   int       `db:"votes_interested" json:"votes_interested"`
}
