package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusrent/internal/domain/entity"
	"campusrent/pkg/errors"
)

func newChatFixture() (*ChatUseCase, *fakeRentalRepo, *fakeUserRepo, *fakePublisher) {
	chatRepo := newFakeChatRepo()
	rentalRepo := newFakeRentalRepo()
	userRepo := newFakeUserRepo()
	publisher := &fakePublisher{}

	uc := NewChatUseCase(chatRepo, rentalRepo, userRepo, publisher)
	return uc, rentalRepo, userRepo, publisher
}

func seedConversation(t *testing.T, rentalRepo *fakeRentalRepo, userRepo *fakeUserRepo) *entity.Rental {
	t.Helper()
	userRepo.put(&entity.User{ID: "owner", IsVerified: true})
	userRepo.put(&entity.User{ID: "renter", IsVerified: true})

	rental := &entity.Rental{
		OwnerID:  "owner",
		ItemName: "Soldering Iron",
		Block:    "A",
		Status:   entity.RentalStatusApproved,
		RenterID: "renter",
	}
	require.NoError(t, rentalRepo.Create(context.Background(), rental))
	return rental
}

func TestSendMessageAppendsToConversation(t *testing.T) {
	uc, rentalRepo, userRepo, publisher := newChatFixture()
	rental := seedConversation(t, rentalRepo, userRepo)

	message, err := uc.SendMessage(context.Background(), "renter", rental.ID, "Is the tip replaceable?")
	require.NoError(t, err)

	assert.Equal(t, rental.ID, message.ChatID)
	assert.Equal(t, "renter", message.SenderID)
	assert.False(t, message.Timestamp.IsZero())
	assert.Contains(t, publisher.eventTypes(), "chat.message")
}

func TestMessagesReturnAscendingByTimestamp(t *testing.T) {
	uc, rentalRepo, userRepo, _ := newChatFixture()
	rental := seedConversation(t, rentalRepo, userRepo)

	senders := []string{"renter", "owner", "renter", "owner"}
	for i, sender := range senders {
		_, err := uc.SendMessage(context.Background(), sender, rental.ID, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	messages, total, err := uc.GetMessages(context.Background(), "owner", rental.ID, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, messages, 4)

	for i := 1; i < len(messages); i++ {
		assert.True(t, messages[i-1].Timestamp.Before(messages[i].Timestamp),
			"messages must be ordered ascending by timestamp")
	}
	for i, message := range messages {
		assert.Equal(t, fmt.Sprintf("message %d", i), message.Text)
		assert.Equal(t, senders[i], message.SenderID)
	}
}

func TestSendMessageNonParticipantForbidden(t *testing.T) {
	uc, rentalRepo, userRepo, _ := newChatFixture()
	rental := seedConversation(t, rentalRepo, userRepo)
	userRepo.put(&entity.User{ID: "stranger", IsVerified: true})

	_, err := uc.SendMessage(context.Background(), "stranger", rental.ID, "hello?")
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, _, err = uc.GetMessages(context.Background(), "stranger", rental.ID, 50, 0)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSendMessageBlockedSenderForbidden(t *testing.T) {
	uc, rentalRepo, userRepo, _ := newChatFixture()
	rental := seedConversation(t, rentalRepo, userRepo)
	userRepo.put(&entity.User{ID: "renter", IsVerified: true, IsBlocked: true, ReportsCount: 2})

	_, err := uc.SendMessage(context.Background(), "renter", rental.ID, "let me explain")
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSendMessageRejectsEmptyText(t *testing.T) {
	uc, rentalRepo, userRepo, _ := newChatFixture()
	rental := seedConversation(t, rentalRepo, userRepo)

	_, err := uc.SendMessage(context.Background(), "owner", rental.ID, "   ")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}
