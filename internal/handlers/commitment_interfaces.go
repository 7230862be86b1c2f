// commitment_interfaces.go

// This file defines the service interfaces the commitment, state, settings,
// notification and backup handlers depend on. Handlers program against these
// contracts so tests can substitute lightweight implementations.
package handlers

import (
	"context"

	"github.com/project1356/backend/internal/models"
)

// CommitmentServiceInterface defines the methods required from CommitmentService.
// It covers the commitment lifecycle (setup, goals, status) together with the
// app-state, profile and notification-settings records stored beside it.
type CommitmentServiceInterface interface {
	// SetupCommitment completes onboarding for a user: it classifies the
	// commitment, starts the countdown, and stores the record. Setup is a
	// one-time operation; an existing commitment is never overwritten.
	SetupCommitment(ctx context.Context, userID int64, setup *models.CommitmentSetup) (*models.UserCommitment, error)

	// GetCommitment retrieves the user's commitment record.
	GetCommitment(ctx context.Context, userID int64) (*models.UserCommitment, error)

	// Status computes the countdown position at the given instant in epoch
	// milliseconds.
	Status(ctx context.Context, userID int64, at int64) (*models.CommitmentStatus, error)

	// AddGoal appends a goal to the user's commitment.
	AddGoal(ctx context.Context, userID int64, input *models.GoalInput) (*models.Goal, error)

	// UpdateGoal applies a partial edit to one of the commitment's goals.
	UpdateGoal(ctx context.Context, userID int64, goalID string, update *models.GoalUpdate) (*models.Goal, error)

	// ToggleGoalLock flips the locked state of a goal.
	ToggleGoalLock(ctx context.Context, userID int64, goalID string) (*models.Goal, error)

	// LoadAppState reads the onboarding flags and verifies the stored
	// countdown, clearing the user's records when verification fails.
	LoadAppState(ctx context.Context, userID int64) (*models.AppStateResponse, error)

	// UpdateAppState stores new onboarding flags.
	UpdateAppState(ctx context.Context, userID int64, state *models.AppState) (*models.AppState, error)

	// GetProfile retrieves the user's profile record.
	GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error)

	// UpdateProfile applies a partial edit to the profile, creating it when
	// none exists yet.
	UpdateProfile(ctx context.Context, userID int64, update *models.ProfileUpdate) (*models.UserProfile, error)

	// GetNotificationSettings retrieves the user's notification settings,
	// creating the default record on first access.
	GetNotificationSettings(ctx context.Context, userID int64) (*models.NotificationSettings, error)

	// UpdateNotificationSettings replaces the user's notification settings.
	UpdateNotificationSettings(ctx context.Context, userID int64, settings *models.NotificationSettings) (*models.NotificationSettings, error)
}

// NotificationServiceInterface defines the methods required from NotificationService.
type NotificationServiceInterface interface {
	// BuildSchedule computes the planned notification entries for a
	// commitment given the user's settings and the current instant.
	BuildSchedule(commitment *models.UserCommitment, settings *models.NotificationSettings, now int64) []models.ScheduleEntry

	// SyncSchedule replaces the notifier's pending notifications with the
	// plan for the given commitment and settings.
	SyncSchedule(commitment *models.UserCommitment, settings *models.NotificationSettings, now int64) ([]models.ScheduleEntry, error)
}

// BackupServiceInterface defines the methods required from BackupService.
type BackupServiceInterface interface {
	// GenerateExportData gathers the user's records and encrypts them into
	// an opaque backup string.
	GenerateExportData(ctx context.Context, userID int64) (string, error)

	// ImportData decrypts a backup string and restores its records.
	ImportData(ctx context.Context, userID int64, data string) error
}
