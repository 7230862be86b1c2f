// user_interfaces.go

// Package handlers provides HTTP request handlers and service interfaces for the Project 1356 API.
// This file defines service interfaces related to user account management,
// establishing clear contracts between handlers and service implementations.
// The interfaces follow the dependency injection pattern, allowing for more modular code
// and easier testing through mocked implementations.
package handlers

import (
	"context"

	"github.com/project1356/backend/internal/models"
)

// UserServiceInterface defines the methods required from UserService.
// This interface encapsulates user account operations, allowing handlers
// to interact with user data without depending on specific implementations.
type UserServiceInterface interface {
	// GetUserByID retrieves a user by their unique identifier.
	//
	// Parameters:
	//   - ctx: The context for the operation, which may include deadlines or cancellation
	//   - id: The unique identifier of the user to retrieve
	//
	// Returns:
	//   - The user if found, with sensitive fields removed
	//   - An error if the user doesn't exist or if database access fails
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// UpdateUser modifies a user's account information based on the provided update data.
	//
	// Parameters:
	//   - ctx: The context for the operation, which may include deadlines or cancellation
	//   - id: The unique identifier of the user to update
	//   - update: The data to update, which may include username, email, or password
	//
	// Returns:
	//   - The updated user after changes are applied
	//   - An error if the user doesn't exist, if validation fails, or if database access fails
	UpdateUser(ctx context.Context, id int64, update *models.UserUpdate) (*models.User, error)

	// DeleteUser permanently removes a user account, its sessions, and every
	// record the account owns.
	//
	// Parameters:
	//   - ctx: The context for the operation, which may include deadlines or cancellation
	//   - id: The unique identifier of the user to delete
	//
	// Returns:
	//   - An error if the user doesn't exist or if database access fails
	DeleteUser(ctx context.Context, id int64) error

	// CheckUsername verifies whether a username is available for registration.
	//
	// Returns:
	//   - true when the username is unused
	//   - An error if the format is invalid or database access fails
	CheckUsername(ctx context.Context, username string) (bool, error)

	// CheckEmail verifies whether an email address is available for registration.
	//
	// Returns:
	//   - true when the email is unused
	//   - An error if the format is invalid or database access fails
	CheckEmail(ctx context.Context, email string) (bool, error)

	// GetUserActiveSessions retrieves every unexpired session belonging to a user.
	//
	// Returns:
	//   - Session identifiers with their creation and expiry instants
	//   - An error if database access fails
	GetUserActiveSessions(ctx context.Context, userID int64) ([]*models.ActiveSessionInfo, error)

	// InvalidateSession deletes a single session after verifying the caller owns it.
	//
	// Returns:
	//   - An error if the session doesn't exist, belongs to another user,
	//     or cannot be deleted
	InvalidateSession(ctx context.Context, userID int64, sessionID string) error
}
