package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
)

type FirebaseAuthClient struct {
	client *auth.Client
	apiKey string
}

type AuthenticatedIdentity struct {
	UID         string
	PhoneNumber string
}

func NewFirebaseAuthClient(client *auth.Client, apiKey string) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
		apiKey: apiKey,
	}
}

// VerifyToken validates a Firebase ID token and returns the authenticated
// identity. Phone sign-in tokens carry the phone number as a claim.
func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (*AuthenticatedIdentity, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}

	identity := &AuthenticatedIdentity{UID: result.UID}
	if phone, ok := result.Claims["phone_number"].(string); ok {
		identity.PhoneNumber = phone
	}

	return identity, nil
}

// TestConnection probes the Auth backend with a lookup for a sentinel uid.
// A not-found answer still proves the connection works.
func (f *FirebaseAuthClient) TestConnection(ctx context.Context) error {
	_, err := f.client.GetUser(ctx, "healthcheck-probe")
	if err != nil && !auth.IsUserNotFound(err) {
		return err
	}
	return nil
}

func (f *FirebaseAuthClient) GetPhoneNumber(ctx context.Context, uid string) (string, error) {
	user, err := f.client.GetUser(ctx, uid)
	if err != nil {
		return "", err
	}
	return user.PhoneNumber, nil
}

func (f *FirebaseAuthClient) GenerateToken(ctx context.Context, uid string) (string, error) {
	token, err := f.client.CustomToken(ctx, uid)
	if err != nil {
		return "", err
	}

	return token, nil
}

// SendOtp starts a phone sign-in challenge through the Identity Toolkit REST
// API and returns the opaque session info to pair with the SMS code.
func (f *FirebaseAuthClient) SendOtp(ctx context.Context, phoneNumber, recaptchaToken string) (string, error) {
	body := map[string]string{
		"phoneNumber":    phoneNumber,
		"recaptchaToken": recaptchaToken,
	}

	var result struct {
		SessionInfo string `json:"sessionInfo"`
	}
	if err := f.postIdentityToolkit(ctx, "accounts:sendVerificationCode", body, &result); err != nil {
		return "", err
	}

	return result.SessionInfo, nil
}

// ConfirmOtp completes the phone sign-in challenge and returns an ID token
// for the authenticated phone identity.
func (f *FirebaseAuthClient) ConfirmOtp(ctx context.Context, sessionInfo, code string) (string, *AuthenticatedIdentity, error) {
	body := map[string]string{
		"sessionInfo": sessionInfo,
		"code":        code,
	}

	var result struct {
		IDToken     string `json:"idToken"`
		LocalID     string `json:"localId"`
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := f.postIdentityToolkit(ctx, "accounts:signInWithPhoneNumber", body, &result); err != nil {
		return "", nil, err
	}

	return result.IDToken, &AuthenticatedIdentity{
		UID:         result.LocalID,
		PhoneNumber: result.PhoneNumber,
	}, nil
}

// GenerateLongLivedToken mints a custom token and, when an API key is
// configured, exchanges it for a real ID token usable against the API.
func (f *FirebaseAuthClient) GenerateLongLivedToken(ctx context.Context, uid string) (string, error) {
	customToken, err := f.client.CustomToken(ctx, uid)
	if err != nil {
		return "", err
	}

	if f.apiKey != "" {
		var result struct {
			IDToken string `json:"idToken"`
		}
		body := map[string]interface{}{
			"token":             customToken,
			"returnSecureToken": true,
		}
		if err := f.postIdentityToolkit(ctx, "accounts:signInWithCustomToken", body, &result); err != nil {
			return "", err
		}
		return result.IDToken, nil
	}

	return customToken, nil
}

func (f *FirebaseAuthClient) postIdentityToolkit(ctx context.Context, endpoint string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("https://identitytoolkit.googleapis.com/v1/%s?key=%s", endpoint, f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := &http.Client{Timeout: 15 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("identity toolkit %s: %s", endpoint, apiErr.Error.Message)
		}
		return fmt.Errorf("identity toolkit %s: status %d", endpoint, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
