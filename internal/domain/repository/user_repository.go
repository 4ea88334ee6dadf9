package repository

import (
	"context"

	"campusrent/internal/domain/entity"
)

type UserRepository interface {
	Upsert(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByRollNumber(ctx context.Context, rollNumber string) (*entity.User, error)
	// AddStrike atomically increments the user's report counter and flips
	// isBlocked once the threshold is reached. Returns the new counter value.
	AddStrike(ctx context.Context, userID string, threshold int) (int, bool, error)
	ResetStrikes(ctx context.Context, userID string) error
	ListBlocked(ctx context.Context, limit, offset int) ([]*entity.User, int64, error)
}
