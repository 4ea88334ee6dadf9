package usecase

import (
	"context"
	"strings"

	"campusrent/internal/domain/entity"
	"campusrent/internal/domain/repository"
	"campusrent/pkg/errors"
	"campusrent/pkg/logger"
)

// VerificationUseCase runs the identity verification pipeline: roll number
// uniqueness check, OCR extraction over the captured ID photo, roll number
// match, then one blob write and one user upsert. Failures leave no partial
// user record behind.
type VerificationUseCase struct {
	userRepo     repository.UserRepository
	blobStore    BlobStore
	ocr          OcrEngine
	firebaseAuth FirebaseAuthClient
}

func NewVerificationUseCase(
	userRepo repository.UserRepository,
	blobStore BlobStore,
	ocr OcrEngine,
	firebaseAuth FirebaseAuthClient,
) *VerificationUseCase {
	return &VerificationUseCase{
		userRepo:     userRepo,
		blobStore:    blobStore,
		ocr:          ocr,
		firebaseAuth: firebaseAuth,
	}
}

type VerificationResult struct {
	RollNumber string `json:"roll_number"`
	IdPhotoUrl string `json:"id_photo_url"`
}

func (uc *VerificationUseCase) SubmitVerification(ctx context.Context, userID, rollNumber string, photo []byte) (*VerificationResult, error) {
	rollNumber = strings.ToUpper(strings.TrimSpace(rollNumber))
	if !entity.RollNumberExact.MatchString(rollNumber) {
		return nil, errors.BadRequest("Invalid roll number format, expected e.g. ECE2024-001", nil)
	}
	if len(photo) == 0 {
		return nil, errors.BadRequest("ID photo is required", nil)
	}

	existing, err := uc.userRepo.GetByRollNumber(ctx, rollNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != userID {
		return nil, errors.DuplicateRollNumber(rollNumber)
	}

	text, err := uc.ocr.ExtractText(ctx, photo)
	if err != nil {
		return nil, errors.ExtractionUnavailable(err)
	}

	extracted := entity.RollNumberPattern.FindString(strings.ToUpper(text))
	if extracted == "" {
		return nil, errors.NoRollNumberDetected()
	}

	if extracted != rollNumber {
		logger.Debug("Roll mismatch for user %s: extracted %s", userID, extracted)
		return nil, errors.RollNumberMismatch()
	}

	photoUrl, err := uc.blobStore.UploadIDPhoto(ctx, userID, photo)
	if err != nil {
		return nil, errors.Internal("Failed to store ID photo", err)
	}

	phoneNumber, err := uc.firebaseAuth.GetPhoneNumber(ctx, userID)
	if err != nil {
		logger.Warn("Could not resolve phone number for user %s: %v", userID, err)
	}

	user := &entity.User{
		ID:           userID,
		RollNumber:   rollNumber,
		PhoneNumber:  phoneNumber,
		IsVerified:   true,
		IdPhotoUrl:   photoUrl,
		ReportsCount: 0,
		IsBlocked:    false,
	}

	if err := uc.userRepo.Upsert(ctx, user); err != nil {
		return nil, errors.Internal("Failed to save verified identity", err)
	}

	logger.Info("User %s verified as %s", userID, rollNumber)

	return &VerificationResult{
		RollNumber: rollNumber,
		IdPhotoUrl: photoUrl,
	}, nil
}
