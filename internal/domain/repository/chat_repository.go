package repository

import (
	"context"

	"campusrent/internal/domain/entity"
)

type ChatRepository interface {
	CreateMessage(ctx context.Context, message *entity.Message) error
	// GetMessagesByChat returns messages ascending by server timestamp.
	GetMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error)
}
