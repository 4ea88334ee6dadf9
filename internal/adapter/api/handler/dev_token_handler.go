package handler

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"campusrent/internal/infrastructure/firebase"
	"campusrent/pkg/response"
)

type DevTokenHandler struct {
	firebaseAuth *firebase.FirebaseAuthClient
	devSecret    string
}

var devTokenHandler *DevTokenHandler

func NewDevTokenHandler(firebaseAuth *firebase.FirebaseAuthClient, devSecret string) *DevTokenHandler {
	return &DevTokenHandler{
		firebaseAuth: firebaseAuth,
		devSecret:    devSecret,
	}
}

func SetupDevTokenHandler(firebaseAuth *firebase.FirebaseAuthClient, devSecret string) {
	devTokenHandler = NewDevTokenHandler(firebaseAuth, devSecret)
}

func GetDevTokenHandler() *DevTokenHandler {
	return devTokenHandler
}

type devTokenRequest struct {
	UID string `json:"uid" validate:"required"`
}

// GenerateDevToken mints a locally signed HS256 token for the given uid.
// The auth middleware accepts these in development only, which lets tests
// and local clients skip the phone OTP flow entirely.
func (h *DevTokenHandler) GenerateDevToken(c echo.Context) error {
	var req devTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"uid": req.UID,
		"iat": now.Unix(),
		"exp": now.Add(30 * 24 * time.Hour).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.devSecret))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"token": token,
		"uid":   req.UID,
	})
}

// GenerateFirebaseToken exchanges a custom token for a real Firebase ID
// token, usable against deployments where dev tokens are rejected.
func (h *DevTokenHandler) GenerateFirebaseToken(c echo.Context) error {
	var req devTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	token, err := h.firebaseAuth.GenerateLongLivedToken(c.Request().Context(), req.UID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"token": token,
		"uid":   req.UID,
	})
}
