// Package handlers provides HTTP request handlers for the Project 1356 API.
package handlers

import (
	"context"

	"github.com/project1356/backend/internal/auth"
	"github.com/project1356/backend/internal/config"
	"github.com/project1356/backend/internal/models"
)

// AuthServiceInterface defines the methods required from the authentication service.
// This interface is used by the auth handlers to interact with the authentication business logic
// without being tightly coupled to the implementation.
type AuthServiceInterface interface {
	// RegisterUser registers a new user with the provided registration data.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - reg: User registration data including username, email, and password
	//
	// Returns:
	//   - The newly created user if successful
	//   - An error if registration fails (e.g., duplicate username/email)
	RegisterUser(ctx context.Context, reg *models.UserRegistration) (*models.User, error)

	// AuthenticateUser authenticates a user with the provided credentials.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - creds: User credentials (username/email and password)
	//
	// Returns:
	//   - The authenticated user
	//   - Access token for API calls
	//   - Refresh token for obtaining new access tokens
	//   - An error if authentication fails
	AuthenticateUser(ctx context.Context, creds *models.UserCredentials) (*models.User, string, string, error)

	// RefreshTokens uses a refresh token to generate new access and refresh tokens.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - refreshToken: The current refresh token
	//
	// Returns:
	//   - New access token
	//   - New refresh token
	//   - An error if the refresh operation fails (e.g., token expired)
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, error)

	// Logout invalidates the specified refresh token.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - refreshToken: The refresh token to invalidate
	//
	// Returns:
	//   - An error if the logout operation fails
	Logout(ctx context.Context, refreshToken string) error

	// LogoutAll invalidates all refresh tokens for the specified user.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - userID: The ID of the user whose tokens should be invalidated
	//
	// Returns:
	//   - An error if the operation fails
	LogoutAll(ctx context.Context, userID int64) error

	// ChangePassword verifies the user's current password and replaces it,
	// revoking every active session on success.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - userID: The ID of the user changing their password
	//   - currentPassword: The current password for verification
	//   - newPassword: The replacement password
	//
	// Returns:
	//   - An error if verification fails or the change cannot be stored
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
}

// JWTServiceInterface defines the methods required from the JWT service.
// This interface is used by the auth handlers to interact with JWT operations
// without being tightly coupled to the implementation.
type JWTServiceInterface interface {
	// ValidateToken validates a JWT token and returns its claims.
	//
	// Parameters:
	//   - tokenString: The JWT token string to validate
	//   - expectedType: The expected token type (e.g., "access" or "refresh")
	//
	// Returns:
	//   - The token claims if validation succeeds
	//   - An error if validation fails (e.g., expired token, invalid signature)
	ValidateToken(tokenString string, expectedType string) (*auth.CustomClaims, error)

	// GetConfig returns the JWT settings configuration.
	//
	// Returns:
	//   - The JWT configuration settings including expiry times and secret
	GetConfig() *config.JWTSettings
}
