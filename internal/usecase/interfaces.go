package usecase

import (
	"context"

	"campusrent/internal/infrastructure/firebase"
	"campusrent/internal/infrastructure/websocket"
)

type FirebaseAuthClient interface {
	VerifyToken(ctx context.Context, token string) (*firebase.AuthenticatedIdentity, error)
	GetPhoneNumber(ctx context.Context, uid string) (string, error)
	SendOtp(ctx context.Context, phoneNumber, recaptchaToken string) (string, error)
	ConfirmOtp(ctx context.Context, sessionInfo, code string) (string, *firebase.AuthenticatedIdentity, error)
	GenerateLongLivedToken(ctx context.Context, uid string) (string, error)
}

// OcrEngine is the opaque text-extraction capability behind verification.
type OcrEngine interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

type BlobStore interface {
	UploadIDPhoto(ctx context.Context, userID string, photo []byte) (string, error)
}

// EventPublisher pushes committed state changes to connected clients.
// Implemented by the WebSocket manager.
type EventPublisher interface {
	Publish(event websocket.Event, userIDs ...string)
}
