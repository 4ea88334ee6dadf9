package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

type AuthMiddleware struct {
	authClient  *auth.Client
	devSecret   string
	environment string
}

func NewAuthMiddleware(authClient *auth.Client, devSecret, environment string) *AuthMiddleware {
	return &AuthMiddleware{
		authClient:  authClient,
		devSecret:   devSecret,
		environment: environment,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		uid, err := m.resolveUID(c.Request().Context(), parts[1])
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		c.Set("uid", uid)

		return next(c)
	}
}

// ResolveUID verifies a bearer token outside the middleware chain (used by
// the WebSocket upgrade, where the token arrives as a query parameter).
func (m *AuthMiddleware) ResolveUID(ctx context.Context, token string) (string, error) {
	return m.resolveUID(ctx, token)
}

func (m *AuthMiddleware) resolveUID(ctx context.Context, token string) (string, error) {
	// Local HS256 dev tokens short-circuit Firebase in development only.
	if m.environment == "development" {
		if uid, err := m.parseDevToken(token); err == nil {
			return uid, nil
		}
	}

	firebaseToken, err := m.authClient.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}

	return firebaseToken.UID, nil
}

func (m *AuthMiddleware) parseDevToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(m.devSecret), nil
	})
	if err != nil || !parsed.Valid {
		return "", jwt.ErrTokenUnverifiable
	}

	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		return "", jwt.ErrTokenInvalidClaims
	}

	return uid, nil
}
