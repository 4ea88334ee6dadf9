package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusrent/internal/domain/entity"
	"campusrent/pkg/errors"
)

func newTrustFixture(threshold int) (*TrustUseCase, *fakeReportRepo, *fakeRentalRepo, *fakeUserRepo, *fakePublisher) {
	reportRepo := newFakeReportRepo()
	rentalRepo := newFakeRentalRepo()
	userRepo := newFakeUserRepo()
	publisher := &fakePublisher{}

	uc := NewTrustUseCase(reportRepo, rentalRepo, userRepo, publisher, threshold)
	return uc, reportRepo, rentalRepo, userRepo, publisher
}

func seedActiveLoan(t *testing.T, rentalRepo *fakeRentalRepo, ownerID, renterID string) *entity.Rental {
	t.Helper()
	rental := &entity.Rental{
		OwnerID:  ownerID,
		ItemName: "Function Generator",
		Block:    "C",
		Status:   entity.RentalStatusApproved,
		RenterID: renterID,
	}
	require.NoError(t, rentalRepo.Create(context.Background(), rental))
	return rental
}

func TestFileReportAddsOneStrike(t *testing.T) {
	uc, reportRepo, rentalRepo, userRepo, _ := newTrustFixture(2)
	userRepo.put(&entity.User{ID: "renter", IsVerified: true})
	rental := seedActiveLoan(t, rentalRepo, "owner", "renter")

	outcome, err := uc.FileReport(context.Background(), "owner", rental.ID, "Returned it broken")
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.ReportsCount)
	assert.False(t, outcome.IsBlocked)
	assert.Equal(t, "renter", outcome.Report.RenterID)
	assert.Equal(t, "Returned it broken", outcome.Report.Reason)

	reports, total, err := reportRepo.ListAll(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, rental.ID, reports[0].RentalID)
}

func TestFileReportDefaultReason(t *testing.T) {
	uc, _, rentalRepo, userRepo, _ := newTrustFixture(2)
	userRepo.put(&entity.User{ID: "renter", IsVerified: true})
	rental := seedActiveLoan(t, rentalRepo, "owner", "renter")

	outcome, err := uc.FileReport(context.Background(), "owner", rental.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Item not returned / Damaged", outcome.Report.Reason)
}

func TestFileReportOnlyOwner(t *testing.T) {
	uc, _, rentalRepo, userRepo, _ := newTrustFixture(2)
	userRepo.put(&entity.User{ID: "renter", IsVerified: true})
	rental := seedActiveLoan(t, rentalRepo, "owner", "renter")

	_, err := uc.FileReport(context.Background(), "someone-else", rental.ID, "")
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestFileReportRequiresActiveRenter(t *testing.T) {
	uc, _, rentalRepo, _, _ := newTrustFixture(2)
	rental := &entity.Rental{
		OwnerID: "owner",
		Status:  entity.RentalStatusAvailable,
	}
	require.NoError(t, rentalRepo.Create(context.Background(), rental))

	_, err := uc.FileReport(context.Background(), "owner", rental.ID, "")
	assert.True(t, errors.Is(err, "INVALID_TRANSITION"))
}

func TestSecondReportBlocksRenter(t *testing.T) {
	uc, _, rentalRepo, userRepo, publisher := newTrustFixture(2)
	userRepo.put(&entity.User{ID: "renter", IsVerified: true})

	first := seedActiveLoan(t, rentalRepo, "owner-a", "renter")
	second := seedActiveLoan(t, rentalRepo, "owner-b", "renter")

	outcome, err := uc.FileReport(context.Background(), "owner-a", first.ID, "")
	require.NoError(t, err)
	assert.False(t, outcome.IsBlocked)

	outcome, err = uc.FileReport(context.Background(), "owner-b", second.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.ReportsCount)
	assert.True(t, outcome.IsBlocked)
	assert.Contains(t, publisher.eventTypes(), "user.blocked")

	blocked, total, err := uc.ListBlockedUsers(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "renter", blocked[0].ID)
}

// Two owners reporting the same renter at the same time must both land:
// the counter ends at exactly two and the renter is blocked.
func TestConcurrentReportsBothCount(t *testing.T) {
	uc, _, rentalRepo, userRepo, _ := newTrustFixture(2)
	userRepo.put(&entity.User{ID: "renter", IsVerified: true})

	first := seedActiveLoan(t, rentalRepo, "owner-a", "renter")
	second := seedActiveLoan(t, rentalRepo, "owner-b", "renter")

	var wg sync.WaitGroup
	report := func(ownerID, rentalID string) {
		defer wg.Done()
		_, err := uc.FileReport(context.Background(), ownerID, rentalID, "")
		assert.NoError(t, err)
	}

	wg.Add(2)
	go report("owner-a", first.ID)
	go report("owner-b", second.ID)
	wg.Wait()

	user, err := userRepo.GetByID(context.Background(), "renter")
	require.NoError(t, err)
	assert.Equal(t, 2, user.ReportsCount)
	assert.True(t, user.IsBlocked)
}

func TestUnblockResetsStrikes(t *testing.T) {
	uc, _, _, userRepo, publisher := newTrustFixture(2)
	userRepo.put(&entity.User{ID: "renter", IsVerified: true, ReportsCount: 2, IsBlocked: true})

	user, err := uc.Unblock(context.Background(), "renter")
	require.NoError(t, err)

	assert.Equal(t, 0, user.ReportsCount)
	assert.False(t, user.IsBlocked)
	assert.Contains(t, publisher.eventTypes(), "user.unblocked")

	_, total, err := uc.ListBlockedUsers(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
