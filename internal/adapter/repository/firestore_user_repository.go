package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campusrent/internal/domain/entity"
	"campusrent/internal/domain/repository"
	"campusrent/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Upsert(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = user.UpdatedAt
	}

	fields := map[string]interface{}{
		"id":           user.ID,
		"rollNumber":   user.RollNumber,
		"phoneNumber":  user.PhoneNumber,
		"isVerified":   user.IsVerified,
		"idPhotoUrl":   user.IdPhotoUrl,
		"reportsCount": user.ReportsCount,
		"isBlocked":    user.IsBlocked,
		"createdAt":    user.CreatedAt,
		"updatedAt":    user.UpdatedAt,
	}
	if user.Role != "" {
		fields["role"] = user.Role
	}

	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to upsert user", err)
	}

	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	user.ID = doc.Ref.ID

	return &user, nil
}

// GetByRollNumber returns (nil, nil) when no user holds the roll number.
func (r *firestoreUserRepository) GetByRollNumber(ctx context.Context, rollNumber string) (*entity.User, error) {
	query := r.client.Collection("users").Where("rollNumber", "==", rollNumber).Limit(1)
	iter := query.Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Internal("Failed to query users by roll number", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	user.ID = doc.Ref.ID

	return &user, nil
}

func (r *firestoreUserRepository) AddStrike(ctx context.Context, userID string, threshold int) (int, bool, error) {
	docRef := r.client.Collection("users").Doc(userID)

	var newCount int
	var blocked bool

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			return err
		}

		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return err
		}

		newCount = user.ReportsCount + 1
		blocked = newCount >= threshold

		return tx.Update(docRef, []firestore.Update{
			{Path: "reportsCount", Value: newCount},
			{Path: "isBlocked", Value: blocked},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 0, false, errors.NotFound("User", err)
		}
		return 0, false, errors.Internal("Failed to add strike", err)
	}

	return newCount, blocked, nil
}

func (r *firestoreUserRepository) ResetStrikes(ctx context.Context, userID string) error {
	_, err := r.client.Collection("users").Doc(userID).Update(ctx, []firestore.Update{
		{Path: "reportsCount", Value: 0},
		{Path: "isBlocked", Value: false},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("User", err)
		}
		return errors.Internal("Failed to reset strikes", err)
	}

	return nil
}

func (r *firestoreUserRepository) ListBlocked(ctx context.Context, limit, offset int) ([]*entity.User, int64, error) {
	query := r.client.Collection("users").Where("isBlocked", "==", true)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count blocked users", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var users []*entity.User

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate blocked users", err)
		}

		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return nil, 0, errors.Internal("Failed to parse user data", err)
		}
		user.ID = doc.Ref.ID
		users = append(users, &user)
	}

	return users, total, nil
}
