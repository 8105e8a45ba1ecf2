package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/realty-backend/internal/models"
	"github.com/ignatzorin/realty-backend/internal/pkg/apperror"
	"github.com/ignatzorin/realty-backend/internal/repository"
	"github.com/ignatzorin/realty-backend/internal/validation"
)

// EventMessageReceived событие входящего сообщения.
const EventMessageReceived = "message.received"

// MessageRepository описывает зависимости сервиса сообщений.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ListConversation(ctx context.Context, userA, userB uuid.UUID, limit, offset int) ([]models.Message, error)
	MarkRead(ctx context.Context, recipientID, senderID uuid.UUID) error
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
}

// MessageService содержит бизнес-логику личных сообщений. История переписки
// используется и правилом допуска рекомендаций: рекомендовать можно только
// клиента, который писал рекомендателю.
type MessageService struct {
	repo     MessageRepository
	users    UserDirectory
	notifier Notifier
}

// NewMessageService создаёт сервис сообщений.
func NewMessageService(repo MessageRepository, users UserDirectory) *MessageService {
	return &MessageService{repo: repo, users: users}
}

// SetNotifier устанавливает канал доставки уведомлений.
func (s *MessageService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Send отправляет сообщение от actorID к recipientID.
func (s *MessageService) Send(ctx context.Context, actorID, recipientID uuid.UUID, body string) (*models.Message, error) {
	if err := validation.ValidateMessageContent(body); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if recipientID == actorID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя отправить сообщение самому себе")
	}

	if _, err := s.users.GetByID(ctx, recipientID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	message := &models.Message{
		SenderID:    actorID,
		RecipientID: recipientID,
		Body:        body,
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.BroadcastToUser(recipientID, EventMessageReceived, message)
	}

	return message, nil
}

// Conversation возвращает переписку пользователя с собеседником в
// хронологическом порядке и помечает входящие сообщения прочитанными.
func (s *MessageService) Conversation(ctx context.Context, actorID, peerID uuid.UUID, limit, offset int) ([]models.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := s.repo.ListConversation(ctx, actorID, peerID, limit, offset)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkRead(ctx, actorID, peerID); err != nil {
		return nil, err
	}

	return messages, nil
}

// CountUnread возвращает количество непрочитанных сообщений пользователя.
func (s *MessageService) CountUnread(ctx context.Context, actorID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, actorID)
}
