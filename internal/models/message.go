package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message прямое сообщение между двумя пользователями.
type Message struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	SenderID    uuid.UUID  `db:"sender_id" json:"sender_id"`
	RecipientID uuid.UUID  `db:"recipient_id" json:"recipient_id"`
	Body        string     `db:"body" json:"body"`
	ReadAt      *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Notification уведомление пользователя; payload — произвольный JSON события.
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
