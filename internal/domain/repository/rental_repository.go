package repository

import (
	"context"
	"time"

	"campusrent/internal/domain/entity"
)

type RentalFilter struct {
	OwnerID  string
	RenterID string
	Block    string
	Status   string
	// Statuses filters on any of the given statuses when non-empty.
	Statuses []string
}

type RentalRepository interface {
	Create(ctx context.Context, rental *entity.Rental) error
	GetByID(ctx context.Context, id string) (*entity.Rental, error)
	List(ctx context.Context, filter RentalFilter, limit, offset int) ([]*entity.Rental, int64, error)
	// Claim performs the available -> requested transition as an atomic
	// conditional update: it fails when the rental is no longer available.
	Claim(ctx context.Context, rentalID, renterID string) (*entity.Rental, error)
	// Transition performs a guarded status change; expectStatus is the status
	// the rental must still hold when the write commits.
	Transition(ctx context.Context, rentalID, expectStatus, newStatus, renterID string) (*entity.Rental, error)
	// MarkOverdueBefore flips every approved rental requested before the
	// deadline to overdue, returning the affected rentals.
	MarkOverdueBefore(ctx context.Context, deadline time.Time) ([]*entity.Rental, error)
}
