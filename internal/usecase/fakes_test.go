package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"campusrent/internal/domain/entity"
	"campusrent/internal/domain/repository"
	"campusrent/internal/infrastructure/firebase"
	ws "campusrent/internal/infrastructure/websocket"
	"campusrent/pkg/errors"
)

// In-memory fakes backing the use case tests. They mirror the Firestore
// adapters' guarantees: guarded transitions and atomic strike increments.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) put(user *entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
}

func (r *fakeUserRepo) Upsert(ctx context.Context, user *entity.User) error {
	r.put(user)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByRollNumber(ctx context.Context, rollNumber string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.RollNumber == rollNumber {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) AddStrike(ctx context.Context, userID string, threshold int) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return 0, false, errors.NotFound("User", nil)
	}
	user.ReportsCount++
	user.IsBlocked = user.ReportsCount >= threshold
	return user.ReportsCount, user.IsBlocked, nil
}

func (r *fakeUserRepo) ResetStrikes(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	user.ReportsCount = 0
	user.IsBlocked = false
	return nil
}

func (r *fakeUserRepo) ListBlocked(ctx context.Context, limit, offset int) ([]*entity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var blocked []*entity.User
	for _, user := range r.users {
		if user.IsBlocked {
			copied := *user
			blocked = append(blocked, &copied)
		}
	}
	return blocked, int64(len(blocked)), nil
}

type fakeRentalRepo struct {
	mu      sync.Mutex
	rentals map[string]*entity.Rental
	nextID  int
}

func newFakeRentalRepo() *fakeRentalRepo {
	return &fakeRentalRepo{rentals: make(map[string]*entity.Rental)}
}

func (r *fakeRentalRepo) Create(ctx context.Context, rental *entity.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rental.ID = fmt.Sprintf("rental-%d", r.nextID)
	rental.CreatedAt = time.Now()
	copied := *rental
	r.rentals[rental.ID] = &copied
	return nil
}

func (r *fakeRentalRepo) GetByID(ctx context.Context, id string) (*entity.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rental, ok := r.rentals[id]
	if !ok {
		return nil, errors.NotFound("Rental", nil)
	}
	copied := *rental
	return &copied, nil
}

func (r *fakeRentalRepo) List(ctx context.Context, filter repository.RentalFilter, limit, offset int) ([]*entity.Rental, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Rental
	for _, rental := range r.rentals {
		if filter.OwnerID != "" && rental.OwnerID != filter.OwnerID {
			continue
		}
		if filter.RenterID != "" && rental.RenterID != filter.RenterID {
			continue
		}
		if filter.Block != "" && rental.Block != filter.Block {
			continue
		}
		if filter.Status != "" && rental.Status != filter.Status {
			continue
		}
		if len(filter.Statuses) > 0 {
			found := false
			for _, status := range filter.Statuses {
				if rental.Status == status {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		copied := *rental
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakeRentalRepo) Claim(ctx context.Context, rentalID, renterID string) (*entity.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rental, ok := r.rentals[rentalID]
	if !ok {
		return nil, errors.NotFound("Rental", nil)
	}
	if rental.Status != entity.RentalStatusAvailable {
		return nil, errors.Conflict("ALREADY_REQUESTED", "Item has already been requested")
	}
	rental.Status = entity.RentalStatusRequested
	rental.RenterID = renterID
	rental.RequestedAt = time.Now()
	copied := *rental
	return &copied, nil
}

func (r *fakeRentalRepo) Transition(ctx context.Context, rentalID, expectStatus, newStatus, renterID string) (*entity.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rental, ok := r.rentals[rentalID]
	if !ok {
		return nil, errors.NotFound("Rental", nil)
	}
	if rental.Status != expectStatus {
		return nil, errors.InvalidTransition("Rental status changed underneath the update")
	}
	rental.Status = newStatus
	rental.RenterID = renterID
	copied := *rental
	return &copied, nil
}

func (r *fakeRentalRepo) MarkOverdueBefore(ctx context.Context, deadline time.Time) ([]*entity.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var flipped []*entity.Rental
	for _, rental := range r.rentals {
		if rental.Status == entity.RentalStatusApproved && rental.RequestedAt.Before(deadline) {
			rental.Status = entity.RentalStatusOverdue
			copied := *rental
			flipped = append(flipped, &copied)
		}
	}
	return flipped, nil
}

type fakeReportRepo struct {
	mu      sync.Mutex
	reports []*entity.Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{}
}

func (r *fakeReportRepo) Create(ctx context.Context, report *entity.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report.ID = fmt.Sprintf("report-%d", len(r.reports)+1)
	report.Timestamp = time.Now()
	copied := *report
	r.reports = append(r.reports, &copied)
	return nil
}

func (r *fakeReportRepo) ListAll(ctx context.Context, limit, offset int) ([]*entity.Report, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Report, len(r.reports))
	copy(out, r.reports)
	return out, int64(len(out)), nil
}

func (r *fakeReportRepo) ListByRenter(ctx context.Context, renterID string, limit, offset int) ([]*entity.Report, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Report
	for _, report := range r.reports {
		if report.RenterID == renterID {
			out = append(out, report)
		}
	}
	return out, int64(len(out)), nil
}

type fakeChatRepo struct {
	mu       sync.Mutex
	messages map[string][]*entity.Message
	seq      int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{messages: make(map[string][]*entity.Message)}
}

func (r *fakeChatRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	message.ID = fmt.Sprintf("msg-%d", r.seq)
	// Strictly increasing timestamps stand in for Firestore server time.
	message.Timestamp = time.Unix(0, int64(r.seq)*int64(time.Millisecond))
	copied := *message
	r.messages[message.ChatID] = append(r.messages[message.ChatID], &copied)
	return nil
}

func (r *fakeChatRepo) GetMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	history := r.messages[chatID]
	out := make([]*entity.Message, len(history))
	copy(out, history)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, int64(len(out)), nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *fakePublisher) Publish(event ws.Event, userIDs ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *fakePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, event := range p.events {
		types[i] = event.Type
	}
	return types
}

type fakeAuthClient struct {
	phoneNumbers map[string]string
}

func (f *fakeAuthClient) VerifyToken(ctx context.Context, token string) (*firebase.AuthenticatedIdentity, error) {
	return &firebase.AuthenticatedIdentity{UID: token}, nil
}

func (f *fakeAuthClient) GetPhoneNumber(ctx context.Context, uid string) (string, error) {
	if phone, ok := f.phoneNumbers[uid]; ok {
		return phone, nil
	}
	return "", fmt.Errorf("no phone for %s", uid)
}

func (f *fakeAuthClient) SendOtp(ctx context.Context, phoneNumber, recaptchaToken string) (string, error) {
	return "session-" + phoneNumber, nil
}

func (f *fakeAuthClient) ConfirmOtp(ctx context.Context, sessionInfo, code string) (string, *firebase.AuthenticatedIdentity, error) {
	return "token", &firebase.AuthenticatedIdentity{UID: "uid-from-otp", PhoneNumber: "+6281234567890"}, nil
}

func (f *fakeAuthClient) GenerateLongLivedToken(ctx context.Context, uid string) (string, error) {
	return "long-lived-" + uid, nil
}

type fakeOcr struct {
	text string
	err  error
}

func (o *fakeOcr) ExtractText(ctx context.Context, image []byte) (string, error) {
	return o.text, o.err
}

type fakeBlobStore struct {
	mu      sync.Mutex
	uploads int
}

func (b *fakeBlobStore) UploadIDPhoto(ctx context.Context, userID string, photo []byte) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploads++
	return "https://storage.example.com/id_verification/" + userID + ".jpg", nil
}

func (b *fakeBlobStore) uploadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uploads
}
