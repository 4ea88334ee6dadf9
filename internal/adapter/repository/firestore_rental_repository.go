package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campusrent/internal/domain/entity"
	"campusrent/internal/domain/repository"
	"campusrent/pkg/errors"
	"campusrent/pkg/logger"
)

type firestoreRentalRepository struct {
	client *firestore.Client
}

func NewFirestoreRentalRepository(client *firestore.Client) repository.RentalRepository {
	return &firestoreRentalRepository{
		client: client,
	}
}

func (r *firestoreRentalRepository) Create(ctx context.Context, rental *entity.Rental) error {
	if rental.ID == "" {
		rental.ID = uuid.New().String()
	}
	rental.CreatedAt = time.Now()

	_, err := r.client.Collection("rentals").Doc(rental.ID).Set(ctx, rental)
	if err != nil {
		return errors.Internal("Failed to create rental", err)
	}

	return nil
}

func (r *firestoreRentalRepository) GetByID(ctx context.Context, id string) (*entity.Rental, error) {
	doc, err := r.client.Collection("rentals").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Rental", err)
		}
		return nil, errors.Internal("Failed to get rental", err)
	}

	var rental entity.Rental
	if err := doc.DataTo(&rental); err != nil {
		return nil, errors.Internal("Failed to parse rental data", err)
	}
	rental.ID = doc.Ref.ID

	return &rental, nil
}

func (r *firestoreRentalRepository) List(ctx context.Context, filter repository.RentalFilter, limit, offset int) ([]*entity.Rental, int64, error) {
	query := r.client.Collection("rentals").Query

	if filter.OwnerID != "" {
		query = query.Where("ownerId", "==", filter.OwnerID)
	}
	if filter.RenterID != "" {
		query = query.Where("renterId", "==", filter.RenterID)
	}
	if filter.Block != "" {
		query = query.Where("block", "==", filter.Block)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", filter.Status)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status", "in", filter.Statuses)
	}

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count rentals", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var rentals []*entity.Rental

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate rentals", err)
		}

		var rental entity.Rental
		if err := doc.DataTo(&rental); err != nil {
			return nil, 0, errors.Internal("Failed to parse rental data", err)
		}
		rental.ID = doc.Ref.ID
		rentals = append(rentals, &rental)
	}

	return rentals, total, nil
}

// Claim serializes concurrent requests on the same rental: the transaction
// re-reads the status, so only the first committer sees "available".
func (r *firestoreRentalRepository) Claim(ctx context.Context, rentalID, renterID string) (*entity.Rental, error) {
	docRef := r.client.Collection("rentals").Doc(rentalID)

	var claimed entity.Rental

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			return err
		}

		var rental entity.Rental
		if err := doc.DataTo(&rental); err != nil {
			return err
		}
		rental.ID = doc.Ref.ID

		if rental.Status != entity.RentalStatusAvailable {
			return errors.Conflict("ALREADY_REQUESTED", "Rental is no longer available")
		}

		now := time.Now()
		if err := tx.Update(docRef, []firestore.Update{
			{Path: "status", Value: entity.RentalStatusRequested},
			{Path: "renterId", Value: renterID},
			{Path: "requestedAt", Value: now},
		}); err != nil {
			return err
		}

		rental.Status = entity.RentalStatusRequested
		rental.RenterID = renterID
		rental.RequestedAt = now
		claimed = rental
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Rental", err)
		}
		return nil, errors.Internal("Failed to request rental", err)
	}

	return &claimed, nil
}

func (r *firestoreRentalRepository) Transition(ctx context.Context, rentalID, expectStatus, newStatus, renterID string) (*entity.Rental, error) {
	docRef := r.client.Collection("rentals").Doc(rentalID)

	var updated entity.Rental

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			return err
		}

		var rental entity.Rental
		if err := doc.DataTo(&rental); err != nil {
			return err
		}
		rental.ID = doc.Ref.ID

		if rental.Status != expectStatus {
			return errors.InvalidTransition("Rental is no longer in " + expectStatus + " state")
		}

		if err := tx.Update(docRef, []firestore.Update{
			{Path: "status", Value: newStatus},
			{Path: "renterId", Value: renterID},
		}); err != nil {
			return err
		}

		rental.Status = newStatus
		rental.RenterID = renterID
		updated = rental
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Rental", err)
		}
		return nil, errors.Internal("Failed to update rental status", err)
	}

	return &updated, nil
}

func (r *firestoreRentalRepository) MarkOverdueBefore(ctx context.Context, deadline time.Time) ([]*entity.Rental, error) {
	query := r.client.Collection("rentals").
		Where("status", "==", entity.RentalStatusApproved).
		Where("requestedAt", "<", deadline)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to query overdue candidates", err)
	}

	var overdue []*entity.Rental
	for _, doc := range docs {
		var rental entity.Rental
		if err := doc.DataTo(&rental); err != nil {
			logger.Warn("Skipping unparseable rental %s: %v", doc.Ref.ID, err)
			continue
		}
		rental.ID = doc.Ref.ID

		// Guarded per document so a concurrent return/reject wins cleanly.
		updated, err := r.Transition(ctx, rental.ID, entity.RentalStatusApproved, entity.RentalStatusOverdue, rental.RenterID)
		if err != nil {
			if errors.Is(err, "INVALID_TRANSITION") {
				continue
			}
			return overdue, err
		}
		overdue = append(overdue, updated)
	}

	return overdue, nil
}
