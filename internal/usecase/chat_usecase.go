package usecase

import (
	"context"
	"strings"

	"campusrent/internal/domain/entity"
	"campusrent/internal/domain/repository"
	"campusrent/internal/infrastructure/ratelimit"
	ws "campusrent/internal/infrastructure/websocket"
	"campusrent/pkg/errors"
)

// ChatUseCase is the append-only messaging channel. A conversation is scoped
// to a rental: its participants are the item's owner and current renter.
type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	rentalRepo  repository.RentalRepository
	userRepo    repository.UserRepository
	publisher   EventPublisher
	rateLimiter *ratelimit.RateLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	rentalRepo repository.RentalRepository,
	userRepo repository.UserRepository,
	publisher EventPublisher,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		chatRepo:    chatRepo,
		rentalRepo:  rentalRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		rateLimiter: rateLimiter,
	}
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID, chatID, text string) (*entity.Message, error) {
	if allowed, waitTime := uc.rateLimiter.Allow(senderID, "send_message"); !allowed {
		return nil, errors.TooManyRequests("Rate limit exceeded, please wait before sending another message", waitTime)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.BadRequest("Message text is required", nil)
	}

	sender, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if !sender.IsVerified {
		return nil, errors.Forbidden("Identity verification required", nil)
	}
	if sender.IsBlocked {
		return nil, errors.Forbidden("Blocked users cannot send messages", nil)
	}

	rental, err := uc.requireParticipant(ctx, senderID, chatID)
	if err != nil {
		return nil, err
	}

	message := &entity.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Text:     text,
	}
	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	uc.publisher.Publish(ws.Event{Type: "chat.message", Payload: message}, rental.OwnerID, rental.RenterID)

	return message, nil
}

// GetMessages returns the conversation ascending by server timestamp.
func (uc *ChatUseCase) GetMessages(ctx context.Context, userID, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	if _, err := uc.requireParticipant(ctx, userID, chatID); err != nil {
		return nil, 0, err
	}

	return uc.chatRepo.GetMessagesByChat(ctx, chatID, limit, offset)
}

func (uc *ChatUseCase) requireParticipant(ctx context.Context, userID, chatID string) (*entity.Rental, error) {
	rental, err := uc.rentalRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if rental.OwnerID != userID && rental.RenterID != userID {
		return nil, errors.Forbidden("You are not part of this conversation", nil)
	}

	return rental, nil
}
