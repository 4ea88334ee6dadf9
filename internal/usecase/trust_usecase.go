package usecase

import (
	"context"

	"campusrent/internal/domain/entity"
	"campusrent/internal/domain/repository"
	"campusrent/internal/infrastructure/ratelimit"
	ws "campusrent/internal/infrastructure/websocket"
	"campusrent/pkg/errors"
	"campusrent/pkg/logger"
)

// TrustUseCase is the strike ledger: owners file reports against active
// renters; each report adds exactly one strike, and the accused user is
// blocked once the threshold is reached. Reports are append-only.
type TrustUseCase struct {
	reportRepo  repository.ReportRepository
	rentalRepo  repository.RentalRepository
	userRepo    repository.UserRepository
	publisher   EventPublisher
	rateLimiter *ratelimit.RateLimiter
	threshold   int
}

func NewTrustUseCase(
	reportRepo repository.ReportRepository,
	rentalRepo repository.RentalRepository,
	userRepo repository.UserRepository,
	publisher EventPublisher,
	threshold int,
) *TrustUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &TrustUseCase{
		reportRepo:  reportRepo,
		rentalRepo:  rentalRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		rateLimiter: rateLimiter,
		threshold:   threshold,
	}
}

type StrikeOutcome struct {
	Report       *entity.Report `json:"report"`
	ReportsCount int            `json:"reports_count"`
	IsBlocked    bool           `json:"is_blocked"`
}

// FileReport appends a report against the rental's current renter and
// increments the renter's strike counter atomically. Filing does not change
// the rental's own status.
func (uc *TrustUseCase) FileReport(ctx context.Context, ownerID, rentalID, reason string) (*StrikeOutcome, error) {
	if allowed, waitTime := uc.rateLimiter.Allow(ownerID, "file_report"); !allowed {
		return nil, errors.TooManyRequests("Too many reports filed, please wait", waitTime)
	}

	rental, err := uc.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.OwnerID != ownerID {
		return nil, errors.Forbidden("Only the owner can report a renter", nil)
	}
	if !rental.HasRenter() {
		return nil, errors.InvalidTransition("Rental has no active renter to report")
	}

	if reason == "" {
		reason = "Item not returned / Damaged"
	}

	report := &entity.Report{
		RentalID: rentalID,
		RenterID: rental.RenterID,
		OwnerID:  ownerID,
		Reason:   reason,
	}
	if err := uc.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	count, blocked, err := uc.userRepo.AddStrike(ctx, rental.RenterID, uc.threshold)
	if err != nil {
		// The report is already durable; the strike must not be silently lost.
		logger.Error("Report %s persisted but strike increment failed for user %s: %v", report.ID, rental.RenterID, err)
		return nil, err
	}

	logger.Info("User %s reported on rental %s: %d strike(s), blocked=%t", rental.RenterID, rentalID, count, blocked)

	if blocked {
		uc.publisher.Publish(ws.Event{Type: "user.blocked", Payload: map[string]interface{}{
			"user_id":       rental.RenterID,
			"reports_count": count,
		}}, rental.RenterID)
	}

	return &StrikeOutcome{
		Report:       report,
		ReportsCount: count,
		IsBlocked:    blocked,
	}, nil
}

// Unblock clears a user's strikes. Administrative only; there is no
// automated appeal.
func (uc *TrustUseCase) Unblock(ctx context.Context, userID string) (*entity.User, error) {
	if err := uc.userRepo.ResetStrikes(ctx, userID); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	logger.Info("User %s unblocked, strikes cleared", userID)
	uc.publisher.Publish(ws.Event{Type: "user.unblocked", Payload: user}, userID)

	return user, nil
}

func (uc *TrustUseCase) ListReports(ctx context.Context, limit, offset int) ([]*entity.Report, int64, error) {
	return uc.reportRepo.ListAll(ctx, limit, offset)
}

func (uc *TrustUseCase) ListBlockedUsers(ctx context.Context, limit, offset int) ([]*entity.User, int64, error) {
	return uc.userRepo.ListBlocked(ctx, limit, offset)
}
