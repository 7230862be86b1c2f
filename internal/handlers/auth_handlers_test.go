package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/project1356/backend/internal/auth"
	"github.com/project1356/backend/internal/config"
	"github.com/project1356/backend/internal/models"
	"github.com/project1356/backend/internal/utils"
)

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterUserFunc     func(ctx context.Context, reg *models.UserRegistration) (*models.User, error)
	AuthenticateUserFunc func(ctx context.Context, creds *models.UserCredentials) (*models.User, string, string, error)
	RefreshTokensFunc    func(ctx context.Context, refreshToken string) (string, string, error)
	LogoutFunc           func(ctx context.Context, refreshToken string) error
	LogoutAllFunc        func(ctx context.Context, userID int64) error
	ChangePasswordFunc   func(ctx context.Context, userID int64, currentPassword, newPassword string) error
}

func (m *MockAuthService) RegisterUser(ctx context.Context, reg *models.UserRegistration) (*models.User, error) {
	if m.RegisterUserFunc != nil {
		return m.RegisterUserFunc(ctx, reg)
	}
	return &models.User{ID: 1, Username: reg.Username, Email: reg.Email}, nil
}

func (m *MockAuthService) AuthenticateUser(ctx context.Context, creds *models.UserCredentials) (*models.User, string, string, error) {
	if m.AuthenticateUserFunc != nil {
		return m.AuthenticateUserFunc(ctx, creds)
	}
	return &models.User{ID: 1, Username: "testuser", Email: "test@example.com"}, "access_token", "refresh_token", nil
}

func (m *MockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	if m.RefreshTokensFunc != nil {
		return m.RefreshTokensFunc(ctx, refreshToken)
	}
	return "new_access_token", "new_refresh_token", nil
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, refreshToken)
	}
	return nil
}

func (m *MockAuthService) LogoutAll(ctx context.Context, userID int64) error {
	if m.LogoutAllFunc != nil {
		return m.LogoutAllFunc(ctx, userID)
	}
	return nil
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, userID, currentPassword, newPassword)
	}
	return nil
}

// MockJWTService implements JWTServiceInterface for testing
type MockJWTService struct {
	ValidateTokenFunc func(tokenString string, expectedType string) (*auth.CustomClaims, error)
	GetConfigFunc     func() *config.JWTSettings
}

func (m *MockJWTService) ValidateToken(tokenString string, expectedType string) (*auth.CustomClaims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(tokenString, expectedType)
	}
	return &auth.CustomClaims{UserID: 1, Username: "testuser", Email: "test@example.com"}, nil
}

func (m *MockJWTService) GetConfig() *config.JWTSettings {
	if m.GetConfigFunc != nil {
		return m.GetConfigFunc()
	}
	return &config.JWTSettings{
		Secret:        "test-secret",
		Expiry:        15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "test-issuer",
	}
}

func setupAuthHandlerTest() (*AuthHandler, *MockAuthService, *MockJWTService) {
	mockAuth := &MockAuthService{}
	mockJWT := &MockJWTService{}
	handler := NewAuthHandler(mockAuth, mockJWT)
	return handler, mockAuth, mockJWT
}

// decodeSuccessEnvelope unwraps the standard success response envelope
func decodeSuccessEnvelope(t *testing.T, body *bytes.Buffer, data interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response envelope: %v", err)
	}
	if !envelope.Success {
		t.Fatalf("expected success envelope, got %s", body.String())
	}
	if data != nil {
		if err := json.Unmarshal(envelope.Data, data); err != nil {
			t.Fatalf("failed to decode response data: %v", err)
		}
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		mockSetup      func(*MockAuthService)
		expectedStatus int
	}{
		{
			name: "Success",
			requestBody: map[string]interface{}{
				"username":         "testuser",
				"email":            "test@example.com",
				"password":         "Password123!",
				"confirm_password": "Password123!",
			},
			mockSetup:      func(m *MockAuthService) {},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Invalid Request Body",
			requestBody: map[string]interface{}{
				"username": "testuser",
			},
			mockSetup:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Duplicate Username",
			requestBody: map[string]interface{}{
				"username":         "existing",
				"email":            "test@example.com",
				"password":         "Password123!",
				"confirm_password": "Password123!",
			},
			mockSetup: func(m *MockAuthService) {
				m.RegisterUserFunc = func(ctx context.Context, reg *models.UserRegistration) (*models.User, error) {
					return nil, utils.NewDuplicateError("User", "username", reg.Username)
				}
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Service Error",
			requestBody: map[string]interface{}{
				"username":         "testuser",
				"email":            "test@example.com",
				"password":         "Password123!",
				"confirm_password": "Password123!",
			},
			mockSetup: func(m *MockAuthService) {
				m.RegisterUserFunc = func(ctx context.Context, reg *models.UserRegistration) (*models.User, error) {
					return nil, errors.New("database error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockAuth, _ := setupAuthHandlerTest()
			tt.mockSetup(mockAuth)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler.Register(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.expectedStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, _, _ := setupAuthHandlerTest()

		body, _ := json.Marshal(map[string]string{
			"username": "testuser",
			"password": "Password123!",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		handler.Login(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d (body: %s)", http.StatusOK, rr.Code, rr.Body.String())
		}

		var data struct {
			User        models.User `json:"user"`
			AccessToken string      `json:"access_token"`
			TokenType   string      `json:"token_type"`
			ExpiresIn   float64     `json:"expires_in"`
		}
		decodeSuccessEnvelope(t, rr.Body, &data)
		if data.AccessToken != "access_token" {
			t.Errorf("expected access token in response, got %q", data.AccessToken)
		}
		if data.TokenType != "Bearer" {
			t.Errorf("expected token type Bearer, got %q", data.TokenType)
		}
		if data.User.Username != "testuser" {
			t.Errorf("expected sanitized user in response, got %+v", data.User)
		}

		// The refresh token travels only in an HTTP-only cookie
		cookies := rr.Result().Cookies()
		var refreshCookie *http.Cookie
		for _, c := range cookies {
			if c.Name == "refresh_token" {
				refreshCookie = c
			}
		}
		if refreshCookie == nil {
			t.Fatal("expected refresh_token cookie to be set")
		}
		if refreshCookie.Value != "refresh_token" {
			t.Errorf("unexpected refresh cookie value %q", refreshCookie.Value)
		}
		if !refreshCookie.HttpOnly {
			t.Error("refresh cookie should be HTTP-only")
		}
	})

	t.Run("Invalid Credentials", func(t *testing.T) {
		handler, mockAuth, _ := setupAuthHandlerTest()
		mockAuth.AuthenticateUserFunc = func(ctx context.Context, creds *models.UserCredentials) (*models.User, string, string, error) {
			return nil, "", "", utils.NewInvalidCredentialsError()
		}

		body, _ := json.Marshal(map[string]string{
			"username": "testuser",
			"password": "wrong",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		handler.Login(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
		}
	})

	t.Run("Malformed Body", func(t *testing.T) {
		handler, _, _ := setupAuthHandlerTest()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		handler.Login(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
		}
	})
}

func TestRefreshToken(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, _, _ := setupAuthHandlerTest()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "old_refresh_token"})
		rr := httptest.NewRecorder()

		handler.RefreshToken(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d (body: %s)", http.StatusOK, rr.Code, rr.Body.String())
		}

		var data struct {
			AccessToken string `json:"access_token"`
		}
		decodeSuccessEnvelope(t, rr.Body, &data)
		if data.AccessToken != "new_access_token" {
			t.Errorf("expected rotated access token, got %q", data.AccessToken)
		}

		cookies := rr.Result().Cookies()
		found := false
		for _, c := range cookies {
			if c.Name == "refresh_token" && c.Value == "new_refresh_token" {
				found = true
			}
		}
		if !found {
			t.Error("expected rotated refresh_token cookie")
		}
	})

	t.Run("Missing Cookie", func(t *testing.T) {
		handler, _, _ := setupAuthHandlerTest()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		rr := httptest.NewRecorder()

		handler.RefreshToken(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
		}
	})

	t.Run("Invalid Token", func(t *testing.T) {
		handler, mockAuth, _ := setupAuthHandlerTest()
		mockAuth.RefreshTokensFunc = func(ctx context.Context, refreshToken string) (string, string, error) {
			return "", "", utils.NewInvalidTokenError()
		}

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "stolen_token"})
		rr := httptest.NewRecorder()

		handler.RefreshToken(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
		}
	})
}

func TestLogout(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockAuth, _ := setupAuthHandlerTest()
		var invalidated string
		mockAuth.LogoutFunc = func(ctx context.Context, refreshToken string) error {
			invalidated = refreshToken
			return nil
		}

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "active_token"})
		rr := httptest.NewRecorder()

		handler.Logout(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
		}
		if invalidated != "active_token" {
			t.Errorf("expected session invalidation for cookie token, got %q", invalidated)
		}

		// The cookie must be cleared regardless
		cookies := rr.Result().Cookies()
		cleared := false
		for _, c := range cookies {
			if c.Name == "refresh_token" && c.MaxAge < 0 {
				cleared = true
			}
		}
		if !cleared {
			t.Error("expected refresh_token cookie to be cleared")
		}
	})

	t.Run("No Cookie Still Succeeds", func(t *testing.T) {
		handler, _, _ := setupAuthHandlerTest()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		rr := httptest.NewRecorder()

		handler.Logout(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
		}
	})
}

func TestLogoutAll(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockAuth, _ := setupAuthHandlerTest()
		var loggedOut int64
		mockAuth.LogoutAllFunc = func(ctx context.Context, userID int64) error {
			loggedOut = userID
			return nil
		}

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout-all", nil)
		req = req.WithContext(context.WithValue(req.Context(), auth.UserIDContextKey, int64(42)))
		rr := httptest.NewRecorder()

		handler.LogoutAll(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
		}
		if loggedOut != 42 {
			t.Errorf("expected logout-all for user 42, got %d", loggedOut)
		}
	})

	t.Run("Unauthorized", func(t *testing.T) {
		handler, _, _ := setupAuthHandlerTest()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout-all", nil)
		rr := httptest.NewRecorder()

		handler.LogoutAll(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
		}
	})
}

func TestVerifyToken(t *testing.T) {
	t.Run("Authenticated", func(t *testing.T) {
		handler, _, _ := setupAuthHandlerTest()

		req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
		ctx := context.WithValue(req.Context(), auth.UserIDContextKey, int64(7))
		ctx = context.WithValue(ctx, auth.UsernameContextKey, "testuser")
		ctx = context.WithValue(ctx, auth.EmailContextKey, "test@example.com")
		req = req.WithContext(ctx)
		rr := httptest.NewRecorder()

		handler.VerifyToken(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
		}

		var data struct {
			UserID   int64  `json:"user_id"`
			Username string `json:"username"`
			Email    string `json:"email"`
		}
		decodeSuccessEnvelope(t, rr.Body, &data)
		if data.UserID != 7 || data.Username != "testuser" {
			t.Errorf("unexpected identity in response: %+v", data)
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		handler, _, _ := setupAuthHandlerTest()

		req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
		rr := httptest.NewRecorder()

		handler.VerifyToken(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
		}
	})
}
