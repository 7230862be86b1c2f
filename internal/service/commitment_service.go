// Package service provides business logic implementations for the Project 1356 API.
// It contains services that orchestrate operations across repositories and implement
// the core application functionality.
//
// This file implements the commitment service, which owns the commitment
// lifecycle: onboarding setup, goal edits, countdown status, the app-state
// load with its integrity check, and the profile and notification-settings
// records that live beside the commitment.
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/project1356/backend/internal/constants"
	"github.com/project1356/backend/internal/countdown"
	"github.com/project1356/backend/internal/models"
	"github.com/project1356/backend/internal/repository"
	"github.com/project1356/backend/internal/rules"
	"github.com/project1356/backend/internal/utils"
)

// CommitmentService handles commitment, goal, app-state, profile and
// notification-settings operations. Every record it touches is stored whole
// in the per-user record store.
type CommitmentService struct {
	recordRepo repository.RecordRepository
}

// NewCommitmentService creates a new CommitmentService.
func NewCommitmentService(recordRepo repository.RecordRepository) *CommitmentService {
	return &CommitmentService{
		recordRepo: recordRepo,
	}
}

// SetupCommitment completes onboarding: it classifies the commitment from
// the goal count and duration, starts the countdown window at the current
// instant, stores the commitment record, and marks the user onboarded.
//
// Returns a DuplicateError when the user already has a commitment; setup is
// a one-time operation and an existing record is never overwritten.
func (s *CommitmentService) SetupCommitment(ctx context.Context, userID int64, setup *models.CommitmentSetup) (*models.UserCommitment, error) {
	// Refuse to overwrite an existing commitment
	_, err := s.recordRepo.Get(ctx, userID, constants.RecordKeyCommitment)
	if err == nil {
		return nil, utils.NewDuplicateError("Commitment", "user_id", userID)
	}
	if !utils.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check for existing commitment: %w", err)
	}

	// Build the goal list; goals start locked until the user reveals them
	goals := make([]*models.Goal, 0, len(setup.Goals))
	for _, input := range setup.Goals {
		goal := models.NewGoal(input.Title, input.Detail)
		goal.Icon = input.Icon
		goal.ImageURL = input.ImageURL
		goal.CustomDays = input.CustomDays
		goals = append(goals, goal)
	}

	classification := rules.Categorize(len(goals), setup.DurationDays)
	commitment := &models.UserCommitment{
		Mode:                classification.Mode,
		DeadlineType:        classification.DeadlineType,
		PhilosophyAlignment: classification.PhilosophyAlignment,
		ModeDescription:     classification.Description,
		GoalCount:           len(goals),
		DurationDays:        setup.DurationDays,
		Goals:               goals,
		Countdown:           countdown.New(setup.DurationDays),
		CreatedAt:           models.NowMillis(),
	}

	if err := s.saveCommitment(ctx, userID, commitment); err != nil {
		return nil, err
	}

	// Setup completes onboarding
	state, err := s.loadAppState(ctx, userID)
	if err != nil {
		return nil, err
	}
	state.IsOnboarded = true
	if err := s.saveAppState(ctx, userID, state); err != nil {
		return nil, err
	}

	utils.LogCommitment("setup", userID, map[string]interface{}{
		"mode":          string(commitment.Mode),
		"goal_count":    len(goals),
		"duration_days": setup.DurationDays,
	})

	return commitment, nil
}

// GetCommitment retrieves the user's commitment record.
//
// Returns a NotFoundError when the user has not completed setup.
func (s *CommitmentService) GetCommitment(ctx context.Context, userID int64) (*models.UserCommitment, error) {
	payload, err := s.recordRepo.Get(ctx, userID, constants.RecordKeyCommitment)
	if err != nil {
		return nil, err
	}

	commitment := &models.UserCommitment{}
	if err := unmarshalRecord(payload, commitment); err != nil {
		return nil, err
	}

	return commitment, nil
}

// Status computes the countdown position of the user's commitment at the
// given instant. The client polls this once per minute, passing its own
// clock so device and server never disagree about "now".
//
// Returns an integrity error when the stored countdown window no longer
// reconciles; the next app-state load will clear the corrupted records.
func (s *CommitmentService) Status(ctx context.Context, userID int64, at int64) (*models.CommitmentStatus, error) {
	commitment, err := s.GetCommitment(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !countdown.ValidateIntegrity(commitment.Countdown) {
		log.Warn().
			Int64("user_id", userID).
			Int64("start_date", commitment.Countdown.StartDate).
			Int64("end_date", commitment.Countdown.EndDate).
			Int("duration_days", commitment.Countdown.DurationDays).
			Msg("Countdown failed integrity check during status poll")
		return nil, utils.NewIntegrityError("stored countdown window does not reconcile")
	}

	remaining := countdown.RemainingDays(commitment.Countdown, at)

	status := &models.CommitmentStatus{
		Mode:          commitment.Mode,
		RemainingDays: remaining,
		Progress:      countdown.Progress(commitment.Countdown, at),
		IsComplete:    countdown.IsComplete(commitment.Countdown, at),
		EndDate:       commitment.Countdown.EndDate,
	}

	if next, ok := countdown.NextMilestone(remaining); ok {
		status.NextMilestone = &next
	}

	return status, nil
}

// AddGoal appends a goal to the user's commitment. New goals start locked.
//
// Returns a validation error when the commitment is already at the goal
// limit.
func (s *CommitmentService) AddGoal(ctx context.Context, userID int64, input *models.GoalInput) (*models.Goal, error) {
	commitment, err := s.GetCommitment(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(commitment.Goals) >= constants.MaxGoalCount {
		return nil, utils.NewValidationError("goals", fmt.Sprintf("A commitment holds at most %d goals", constants.MaxGoalCount))
	}

	goal := models.NewGoal(input.Title, input.Detail)
	goal.Icon = input.Icon
	goal.ImageURL = input.ImageURL
	goal.CustomDays = input.CustomDays

	commitment.Goals = append(commitment.Goals, goal)

	if err := s.saveCommitment(ctx, userID, commitment); err != nil {
		return nil, err
	}

	log.Info().
		Int64("user_id", userID).
		Str("goal_id", goal.ID).
		Int("goal_count", len(commitment.Goals)).
		Msg("Goal added to commitment")

	return goal, nil
}

// UpdateGoal applies a partial edit to one of the commitment's goals.
//
// Returns a NotFoundError when the commitment holds no goal with the given
// identifier.
func (s *CommitmentService) UpdateGoal(ctx context.Context, userID int64, goalID string, update *models.GoalUpdate) (*models.Goal, error) {
	commitment, err := s.GetCommitment(ctx, userID)
	if err != nil {
		return nil, err
	}

	goal := commitment.GoalByID(goalID)
	if goal == nil {
		return nil, utils.NewNotFoundError("Goal", goalID)
	}

	goal.Apply(update)

	if err := s.saveCommitment(ctx, userID, commitment); err != nil {
		return nil, err
	}

	log.Info().
		Int64("user_id", userID).
		Str("goal_id", goal.ID).
		Msg("Goal updated")

	return goal, nil
}

// ToggleGoalLock flips the locked state of one of the commitment's goals
// and returns the goal as stored.
func (s *CommitmentService) ToggleGoalLock(ctx context.Context, userID int64, goalID string) (*models.Goal, error) {
	commitment, err := s.GetCommitment(ctx, userID)
	if err != nil {
		return nil, err
	}

	goal := commitment.GoalByID(goalID)
	if goal == nil {
		return nil, utils.NewNotFoundError("Goal", goalID)
	}

	goal.Locked = !goal.Locked

	if err := s.saveCommitment(ctx, userID, commitment); err != nil {
		return nil, err
	}

	log.Info().
		Int64("user_id", userID).
		Str("goal_id", goal.ID).
		Bool("locked", goal.Locked).
		Msg("Goal lock toggled")

	return goal, nil
}

// LoadAppState performs the app-state load: it reads the onboarding flags,
// checks whether a commitment exists, and verifies the stored countdown
// window. A failed integrity check clears every record the user owns and
// reports the reset, sending the client back to onboarding.
func (s *CommitmentService) LoadAppState(ctx context.Context, userID int64) (*models.AppStateResponse, error) {
	state, err := s.loadAppState(ctx, userID)
	if err != nil {
		return nil, err
	}

	commitment, err := s.GetCommitment(ctx, userID)
	if err != nil {
		if !utils.IsNotFoundError(err) {
			return nil, err
		}
		return &models.AppStateResponse{State: *state}, nil
	}

	if !countdown.ValidateIntegrity(commitment.Countdown) {
		log.Warn().
			Int64("user_id", userID).
			Int64("start_date", commitment.Countdown.StartDate).
			Int64("end_date", commitment.Countdown.EndDate).
			Int("duration_days", commitment.Countdown.DurationDays).
			Msg("Countdown failed integrity check; clearing user records")

		if err := s.recordRepo.DeleteMany(ctx, userID, constants.AllRecordKeys); err != nil {
			return nil, fmt.Errorf("failed to reset user records: %w", err)
		}

		utils.LogCommitment("integrity_reset", userID, map[string]interface{}{
			"mode":          string(commitment.Mode),
			"duration_days": commitment.DurationDays,
		})

		return &models.AppStateResponse{
			State:    models.AppState{},
			WasReset: true,
		}, nil
	}

	return &models.AppStateResponse{
		State:         *state,
		HasCommitment: true,
	}, nil
}

// UpdateAppState stores new onboarding flags for the user.
func (s *CommitmentService) UpdateAppState(ctx context.Context, userID int64, state *models.AppState) (*models.AppState, error) {
	if err := s.saveAppState(ctx, userID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// GetProfile retrieves the user's profile record.
//
// Returns a NotFoundError when no profile has been stored yet.
func (s *CommitmentService) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	payload, err := s.recordRepo.Get(ctx, userID, constants.RecordKeyProfile)
	if err != nil {
		return nil, err
	}

	profile := &models.UserProfile{}
	if err := unmarshalRecord(payload, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// UpdateProfile applies a partial edit to the user's profile, creating the
// record when none exists yet.
func (s *CommitmentService) UpdateProfile(ctx context.Context, userID int64, update *models.ProfileUpdate) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		if !utils.IsNotFoundError(err) {
			return nil, err
		}
		profile = &models.UserProfile{}
	}

	profile.Apply(update)

	if profile.Name == "" {
		return nil, utils.NewValidationError("name", "Name is required")
	}

	payload, err := marshalStamped(profile)
	if err != nil {
		return nil, err
	}
	if err := s.recordRepo.Set(ctx, userID, constants.RecordKeyProfile, payload); err != nil {
		return nil, fmt.Errorf("failed to store profile: %w", err)
	}

	log.Info().
		Int64("user_id", userID).
		Msg("Profile updated")

	return profile, nil
}

// GetNotificationSettings retrieves the user's notification settings,
// storing and returning the defaults when no record exists yet.
func (s *CommitmentService) GetNotificationSettings(ctx context.Context, userID int64) (*models.NotificationSettings, error) {
	payload, err := s.recordRepo.Get(ctx, userID, constants.RecordKeyNotificationSettings)
	if err != nil {
		if !utils.IsNotFoundError(err) {
			return nil, err
		}

		// First access creates the default record
		settings := models.DefaultNotificationSettings()
		if err := s.storeNotificationSettings(ctx, userID, settings); err != nil {
			return nil, err
		}
		return settings, nil
	}

	settings := &models.NotificationSettings{}
	if err := unmarshalRecord(payload, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// UpdateNotificationSettings replaces the user's notification settings.
func (s *CommitmentService) UpdateNotificationSettings(ctx context.Context, userID int64, settings *models.NotificationSettings) (*models.NotificationSettings, error) {
	if settings.Frequency == models.FrequencyCustom && len(settings.CustomDays) == 0 {
		return nil, utils.NewValidationError("custom_days", "Custom frequency requires at least one weekday")
	}

	if err := s.storeNotificationSettings(ctx, userID, settings); err != nil {
		return nil, err
	}

	log.Info().
		Int64("user_id", userID).
		Str("frequency", settings.Frequency).
		Bool("enabled", settings.Enabled).
		Msg("Notification settings updated")

	return settings, nil
}

// saveCommitment stores the commitment record with its save-time stamp.
func (s *CommitmentService) saveCommitment(ctx context.Context, userID int64, commitment *models.UserCommitment) error {
	payload, err := marshalStamped(commitment)
	if err != nil {
		return err
	}
	if err := s.recordRepo.Set(ctx, userID, constants.RecordKeyCommitment, payload); err != nil {
		return fmt.Errorf("failed to store commitment: %w", err)
	}
	return nil
}

// loadAppState reads the stored onboarding flags, returning the zero state
// when no record exists yet.
func (s *CommitmentService) loadAppState(ctx context.Context, userID int64) (*models.AppState, error) {
	payload, err := s.recordRepo.Get(ctx, userID, constants.RecordKeyAppState)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return &models.AppState{}, nil
		}
		return nil, err
	}

	state := &models.AppState{}
	if err := unmarshalRecord(payload, state); err != nil {
		return nil, err
	}
	return state, nil
}

// saveAppState stores the onboarding flags with their save-time stamp.
func (s *CommitmentService) saveAppState(ctx context.Context, userID int64, state *models.AppState) error {
	payload, err := marshalStamped(state)
	if err != nil {
		return err
	}
	if err := s.recordRepo.Set(ctx, userID, constants.RecordKeyAppState, payload); err != nil {
		return fmt.Errorf("failed to store app state: %w", err)
	}
	return nil
}

func (s *CommitmentService) storeNotificationSettings(ctx context.Context, userID int64, settings *models.NotificationSettings) error {
	payload, err := marshalStamped(settings)
	if err != nil {
		return err
	}
	if err := s.recordRepo.Set(ctx, userID, constants.RecordKeyNotificationSettings, payload); err != nil {
		return fmt.Errorf("failed to store notification settings: %w", err)
	}
	return nil
}
