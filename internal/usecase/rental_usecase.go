package usecase

import (
	"context"
	"time"

	"campusrent/internal/domain/entity"
	"campusrent/internal/domain/repository"
	"campusrent/internal/infrastructure/ratelimit"
	ws "campusrent/internal/infrastructure/websocket"
	"campusrent/pkg/errors"
	"campusrent/pkg/logger"
)

// RentalUseCase owns the rental lifecycle state machine:
// available -> requested -> approved -> (overdue) -> available,
// with requested -> available on rejection.
type RentalUseCase struct {
	rentalRepo  repository.RentalRepository
	userRepo    repository.UserRepository
	publisher   EventPublisher
	rateLimiter *ratelimit.RateLimiter

	rentalDeadline time.Duration
	sweepInterval  time.Duration
}

func NewRentalUseCase(
	rentalRepo repository.RentalRepository,
	userRepo repository.UserRepository,
	publisher EventPublisher,
	rentalDeadline time.Duration,
	sweepInterval time.Duration,
) *RentalUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &RentalUseCase{
		rentalRepo:     rentalRepo,
		userRepo:       userRepo,
		publisher:      publisher,
		rateLimiter:    rateLimiter,
		rentalDeadline: rentalDeadline,
		sweepInterval:  sweepInterval,
	}
}

type CreateListingInput struct {
	ItemName     string
	PricePerHour int
	Block        string
	Icon         string
	PhotoUrl     string
}

func (uc *RentalUseCase) CreateListing(ctx context.Context, ownerID string, input CreateListingInput) (*entity.Rental, error) {
	owner, err := uc.requireActiveUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	rental := &entity.Rental{
		OwnerID:      owner.ID,
		ItemName:     input.ItemName,
		PricePerHour: input.PricePerHour,
		Block:        input.Block,
		Icon:         input.Icon,
		PhotoUrl:     input.PhotoUrl,
		Status:       entity.RentalStatusAvailable,
	}

	if err := uc.rentalRepo.Create(ctx, rental); err != nil {
		return nil, err
	}

	return rental, nil
}

func (uc *RentalUseCase) GetRental(ctx context.Context, rentalID string) (*entity.Rental, error) {
	return uc.rentalRepo.GetByID(ctx, rentalID)
}

// BrowseAvailable lists open items, optionally scoped to a campus block.
func (uc *RentalUseCase) BrowseAvailable(ctx context.Context, block string, limit, offset int) ([]*entity.Rental, int64, error) {
	return uc.rentalRepo.List(ctx, repository.RentalFilter{
		Block:  block,
		Status: entity.RentalStatusAvailable,
	}, limit, offset)
}

// ListIncoming returns rentals the owner has to act on: incoming requests
// and active loans.
func (uc *RentalUseCase) ListIncoming(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Rental, int64, error) {
	return uc.rentalRepo.List(ctx, repository.RentalFilter{
		OwnerID: ownerID,
		Statuses: []string{
			entity.RentalStatusRequested,
			entity.RentalStatusApproved,
			entity.RentalStatusOverdue,
		},
	}, limit, offset)
}

// ListBorrows returns every rental the user appears on as renter.
func (uc *RentalUseCase) ListBorrows(ctx context.Context, renterID string, limit, offset int) ([]*entity.Rental, int64, error) {
	return uc.rentalRepo.List(ctx, repository.RentalFilter{
		RenterID: renterID,
	}, limit, offset)
}

// Request claims an available rental for the renter. Two concurrent requests
// are serialized by the repository; the loser gets ALREADY_REQUESTED.
func (uc *RentalUseCase) Request(ctx context.Context, renterID, rentalID string) (*entity.Rental, error) {
	if allowed, waitTime := uc.rateLimiter.Allow(renterID, "request_rental"); !allowed {
		return nil, errors.TooManyRequests("Too many rental requests, please wait", waitTime)
	}

	if _, err := uc.requireActiveUser(ctx, renterID); err != nil {
		return nil, err
	}

	rental, err := uc.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.OwnerID == renterID {
		return nil, errors.BadRequest("Cannot request your own item", nil)
	}

	claimed, err := uc.rentalRepo.Claim(ctx, rentalID, renterID)
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(ws.Event{Type: "rental.requested", Payload: claimed}, claimed.OwnerID, claimed.RenterID)

	return claimed, nil
}

// Respond lets the owner approve or reject a pending request.
func (uc *RentalUseCase) Respond(ctx context.Context, ownerID, rentalID, decision string) (*entity.Rental, error) {
	rental, err := uc.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.OwnerID != ownerID {
		return nil, errors.Forbidden("Only the owner can respond to a request", nil)
	}
	if rental.Status != entity.RentalStatusRequested {
		return nil, errors.InvalidTransition("Rental has no pending request")
	}

	renterID := rental.RenterID

	var updated *entity.Rental
	var eventType string

	switch decision {
	case "approve":
		updated, err = uc.rentalRepo.Transition(ctx, rentalID, entity.RentalStatusRequested, entity.RentalStatusApproved, renterID)
		eventType = "rental.approved"
	case "reject":
		updated, err = uc.rentalRepo.Transition(ctx, rentalID, entity.RentalStatusRequested, entity.RentalStatusAvailable, "")
		eventType = "rental.rejected"
	default:
		return nil, errors.BadRequest("Decision must be approve or reject", nil)
	}
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(ws.Event{Type: eventType, Payload: updated}, ownerID, renterID)

	return updated, nil
}

// MarkReturned closes out an approved or overdue loan and relists the item.
func (uc *RentalUseCase) MarkReturned(ctx context.Context, ownerID, rentalID string) (*entity.Rental, error) {
	rental, err := uc.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.OwnerID != ownerID {
		return nil, errors.Forbidden("Only the owner can mark an item returned", nil)
	}
	if rental.Status != entity.RentalStatusApproved && rental.Status != entity.RentalStatusOverdue {
		return nil, errors.InvalidTransition("Rental is not on loan")
	}

	renterID := rental.RenterID

	updated, err := uc.rentalRepo.Transition(ctx, rentalID, rental.Status, entity.RentalStatusAvailable, "")
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(ws.Event{Type: "rental.returned", Payload: updated}, ownerID, renterID)

	return updated, nil
}

// SweepOverdue flips approved loans past the return deadline to overdue.
// It is a single sweep pass; cadence is owned by StartOverdueSweep.
func (uc *RentalUseCase) SweepOverdue(ctx context.Context) error {
	deadline := time.Now().Add(-uc.rentalDeadline)

	overdue, err := uc.rentalRepo.MarkOverdueBefore(ctx, deadline)
	if err != nil {
		return err
	}

	for _, rental := range overdue {
		logger.Info("Rental %s marked overdue (renter %s)", rental.ID, rental.RenterID)
		uc.publisher.Publish(ws.Event{Type: "rental.overdue", Payload: rental}, rental.OwnerID, rental.RenterID)
	}

	return nil
}

// StartOverdueSweep runs the overdue sweep on a ticker until ctx is done.
func (uc *RentalUseCase) StartOverdueSweep(ctx context.Context) {
	logger.Info("Starting overdue sweep every %v (deadline %v)", uc.sweepInterval, uc.rentalDeadline)

	ticker := time.NewTicker(uc.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := uc.SweepOverdue(ctx); err != nil {
				logger.Error("Overdue sweep failed: %v", err)
			}
		case <-ctx.Done():
			logger.Info("Overdue sweep stopped")
			return
		}
	}
}

// requireActiveUser loads the user and rejects unverified or blocked
// identities before any renter/owner initiated mutation.
func (uc *RentalUseCase) requireActiveUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsVerified {
		return nil, errors.Forbidden("Identity verification required", nil)
	}
	if user.IsBlocked {
		return nil, errors.Forbidden("Account is blocked after repeated reports", nil)
	}
	return user, nil
}
