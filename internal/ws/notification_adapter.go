package ws

import (
	"context"

	"github.com/google/uuid"
)

// wsNotificationCreator описывает метод NotificationService, нужный хабу.
type wsNotificationCreator interface {
	CreateNotificationForWS(ctx context.Context, userID uuid.UUID, event string, data interface{}) error
}

// NotificationServiceAdapter адаптирует NotificationService под интерфейс NotificationSaver.
type NotificationServiceAdapter struct {
	service wsNotificationCreator
}

// NewNotificationServiceAdapter создаёт новый адаптер.
func NewNotificationServiceAdapter(service wsNotificationCreator) *NotificationServiceAdapter {
	return &NotificationServiceAdapter{service: service}
}

// CreateNotification реализует интерфейс NotificationSaver.
func (a *NotificationServiceAdapter) CreateNotification(ctx context.Context, userID uuid.UUID, event string, data interface{}) error {
	return a.service.CreateNotificationForWS(ctx, userID, event, data)
}
