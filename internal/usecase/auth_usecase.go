package usecase

import (
	"context"

	"campusrent/internal/domain/entity"
	"campusrent/internal/domain/repository"
	"campusrent/pkg/errors"
	"campusrent/pkg/logger"
)

// AuthUseCase fronts the phone+OTP provider. User records are created lazily
// at verification time, so a session for a fresh phone identity returns an
// unverified profile.
type AuthUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
}

func NewAuthUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
	}
}

type OtpChallenge struct {
	SessionInfo string `json:"session_info"`
}

type OtpResult struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

func (uc *AuthUseCase) SendOtp(ctx context.Context, phoneNumber, recaptchaToken string) (*OtpChallenge, error) {
	sessionInfo, err := uc.firebaseAuth.SendOtp(ctx, phoneNumber, recaptchaToken)
	if err != nil {
		logger.Error("Failed to send OTP to %s: %v", phoneNumber, err)
		return nil, errors.Internal("Failed to send verification code", err)
	}

	return &OtpChallenge{SessionInfo: sessionInfo}, nil
}

func (uc *AuthUseCase) ConfirmOtp(ctx context.Context, sessionInfo, code string) (*OtpResult, error) {
	token, identity, err := uc.firebaseAuth.ConfirmOtp(ctx, sessionInfo, code)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired verification code", err)
	}

	user, err := uc.profileFor(ctx, identity.UID, identity.PhoneNumber)
	if err != nil {
		return nil, err
	}

	return &OtpResult{Token: token, User: user}, nil
}

// GetSession resolves the caller's profile from a verified uid.
func (uc *AuthUseCase) GetSession(ctx context.Context, uid string) (*entity.User, error) {
	phone, err := uc.firebaseAuth.GetPhoneNumber(ctx, uid)
	if err != nil {
		logger.Debug("Could not resolve phone for %s: %v", uid, err)
	}

	return uc.profileFor(ctx, uid, phone)
}

func (uc *AuthUseCase) profileFor(ctx context.Context, uid, phoneNumber string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			// Not verified yet; no user document exists.
			return &entity.User{ID: uid, PhoneNumber: phoneNumber}, nil
		}
		return nil, err
	}

	return user, nil
}
