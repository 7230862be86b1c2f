package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/project1356/backend/internal/constants"
	"github.com/project1356/backend/internal/countdown"
	"github.com/project1356/backend/internal/models"
	"github.com/project1356/backend/internal/utils"
)

// MockRecordRepository is an in-memory record store keyed by user and record key.
type MockRecordRepository struct {
	records map[int64]map[string]json.RawMessage
}

func NewMockRecordRepository() *MockRecordRepository {
	return &MockRecordRepository{
		records: make(map[int64]map[string]json.RawMessage),
	}
}

func (m *MockRecordRepository) Get(ctx context.Context, userID int64, key string) (json.RawMessage, error) {
	payload, ok := m.records[userID][key]
	if !ok {
		return nil, utils.NewNotFoundError("Record", key)
	}
	return payload, nil
}

func (m *MockRecordRepository) GetMany(ctx context.Context, userID int64, keys []string) (map[string]json.RawMessage, error) {
	result := make(map[string]json.RawMessage)
	for _, key := range keys {
		if payload, ok := m.records[userID][key]; ok {
			result[key] = payload
		}
	}
	return result, nil
}

func (m *MockRecordRepository) Set(ctx context.Context, userID int64, key string, payload json.RawMessage) error {
	if m.records[userID] == nil {
		m.records[userID] = make(map[string]json.RawMessage)
	}
	m.records[userID][key] = payload
	return nil
}

func (m *MockRecordRepository) Delete(ctx context.Context, userID int64, key string) error {
	if _, ok := m.records[userID][key]; !ok {
		return utils.NewNotFoundError("Record", key)
	}
	delete(m.records[userID], key)
	return nil
}

func (m *MockRecordRepository) DeleteMany(ctx context.Context, userID int64, keys []string) error {
	for _, key := range keys {
		delete(m.records[userID], key)
	}
	return nil
}

func sixGoals() []models.GoalInput {
	return []models.GoalInput{
		{Title: "Learn the violin"},
		{Title: "Run a marathon"},
		{Title: "Write a novel"},
		{Title: "Save for a house"},
		{Title: "Visit ten countries"},
		{Title: "Master a language"},
	}
}

func TestNewCommitmentService(t *testing.T) {
	service := NewCommitmentService(NewMockRecordRepository())

	if service == nil {
		t.Error("Expected non-nil service")
	}
}

func TestCommitmentService_SetupCommitment(t *testing.T) {
	recordRepo := NewMockRecordRepository()
	service := NewCommitmentService(recordRepo)

	setup := &models.CommitmentSetup{
		Goals:        sixGoals(),
		DurationDays: constants.CanonicalDurationDays,
	}

	commitment, err := service.SetupCommitment(context.Background(), 1, setup)
	if err != nil {
		t.Fatalf("SetupCommitment() error = %v", err)
	}

	if commitment.Mode != models.ModeTeam {
		t.Errorf("Expected mode %q, got %q", models.ModeTeam, commitment.Mode)
	}

	if commitment.DeadlineType != models.DeadlineGlobalShared {
		t.Errorf("Expected deadline type %q, got %q", models.DeadlineGlobalShared, commitment.DeadlineType)
	}

	if commitment.PhilosophyAlignment != models.PhilosophyCanonical {
		t.Errorf("Expected philosophy alignment %q, got %q", models.PhilosophyCanonical, commitment.PhilosophyAlignment)
	}

	if commitment.ModeDescription == "" {
		t.Error("Expected setup to carry the classification description")
	}

	if commitment.GoalCount != 6 || len(commitment.Goals) != 6 {
		t.Errorf("Expected 6 goals, got count %d and list %d", commitment.GoalCount, len(commitment.Goals))
	}

	for _, goal := range commitment.Goals {
		if goal.ID == "" {
			t.Error("Expected goal to have a generated ID")
		}
		if !goal.Locked {
			t.Errorf("Expected goal %q to start locked", goal.Title)
		}
	}

	if !countdown.ValidateIntegrity(commitment.Countdown) {
		t.Error("Expected a freshly created countdown to pass the integrity check")
	}

	// The stored payload carries the save-time stamp
	payload, err := recordRepo.Get(context.Background(), 1, constants.RecordKeyCommitment)
	if err != nil {
		t.Fatalf("Failed to read stored commitment: %v", err)
	}
	if !strings.Contains(string(payload), models.SavedAtStamp) {
		t.Error("Expected stored commitment payload to carry the save-time stamp")
	}

	// Setup completes onboarding
	statePayload, err := recordRepo.Get(context.Background(), 1, constants.RecordKeyAppState)
	if err != nil {
		t.Fatalf("Failed to read stored app state: %v", err)
	}
	var state models.AppState
	if err := json.Unmarshal(statePayload, &state); err != nil {
		t.Fatalf("Failed to decode stored app state: %v", err)
	}
	if !state.IsOnboarded {
		t.Error("Expected setup to mark the user onboarded")
	}

	// A second setup never overwrites the first
	if _, err := service.SetupCommitment(context.Background(), 1, setup); !utils.IsDuplicateError(err) {
		t.Errorf("Expected duplicate error for repeated setup, got %v", err)
	}
}

func TestCommitmentService_SetupCommitment_Modes(t *testing.T) {
	tests := []struct {
		name         string
		goalCount    int
		durationDays int
		want         models.CommitmentMode
		wantDeadline models.DeadlineType
	}{
		{"Six goals over the shared window", 6, constants.CanonicalDurationDays, models.ModeTeam, models.DeadlineGlobalShared},
		{"Six goals over an own deadline", 6, 500, models.ModeStructuredSolo, models.DeadlineUserDefined},
		{"Free-form goal count", 3, 100, models.ModeFlexibleSolo, models.DeadlineUserDefined},
		{"Free-form over the shared window", 4, constants.CanonicalDurationDays, models.ModeFlexibleSolo, models.DeadlineUserDefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewCommitmentService(NewMockRecordRepository())

			goals := make([]models.GoalInput, tt.goalCount)
			for i := range goals {
				goals[i] = models.GoalInput{Title: "Goal"}
			}

			commitment, err := service.SetupCommitment(context.Background(), 1, &models.CommitmentSetup{
				Goals:        goals,
				DurationDays: tt.durationDays,
			})
			if err != nil {
				t.Fatalf("SetupCommitment() error = %v", err)
			}

			if commitment.Mode != tt.want {
				t.Errorf("Expected mode %q, got %q", tt.want, commitment.Mode)
			}

			if commitment.DeadlineType != tt.wantDeadline {
				t.Errorf("Expected deadline type %q, got %q", tt.wantDeadline, commitment.DeadlineType)
			}
		})
	}
}

// storeCommitment writes a commitment record directly, bypassing setup, so
// tests control the countdown window.
func storeCommitment(t *testing.T, recordRepo *MockRecordRepository, userID int64, commitment *models.UserCommitment) {
	t.Helper()

	payload, err := marshalStamped(commitment)
	if err != nil {
		t.Fatalf("Failed to marshal commitment: %v", err)
	}
	if err := recordRepo.Set(context.Background(), userID, constants.RecordKeyCommitment, payload); err != nil {
		t.Fatalf("Failed to store commitment: %v", err)
	}
}

func TestCommitmentService_GetCommitment(t *testing.T) {
	recordRepo := NewMockRecordRepository()
	service := NewCommitmentService(recordRepo)

	if _, err := service.GetCommitment(context.Background(), 1); !utils.IsNotFoundError(err) {
		t.Errorf("Expected not found error without setup, got %v", err)
	}

	stored := &models.UserCommitment{
		Mode:         models.ModeFlexibleSolo,
		GoalCount:    2,
		DurationDays: 30,
		Goals: []*models.Goal{
			models.NewGoal("First", ""),
			models.NewGoal("Second", ""),
		},
		Countdown: countdown.NewAt(30, 1_700_000_000_000),
		CreatedAt: 1_700_000_000_000,
	}
	storeCommitment(t, recordRepo, 1, stored)

	commitment, err := service.GetCommitment(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetCommitment() error = %v", err)
	}

	if commitment.GoalCount != 2 || len(commitment.Goals) != 2 {
		t.Errorf("Expected 2 goals, got count %d and list %d", commitment.GoalCount, len(commitment.Goals))
	}

	if commitment.Countdown != stored.Countdown {
		t.Errorf("Expected countdown %+v, got %+v", stored.Countdown, commitment.Countdown)
	}
}

func TestCommitmentService_Status(t *testing.T) {
	recordRepo := NewMockRecordRepository()
	service := NewCommitmentService(recordRepo)

	start := int64(1_700_000_000_000)
	storeCommitment(t, recordRepo, 1, &models.UserCommitment{
		Mode:         models.ModeFlexibleSolo,
		GoalCount:    1,
		DurationDays: 10,
		Goals:        []*models.Goal{models.NewGoal("Goal", "")},
		Countdown:    countdown.NewAt(10, start),
		CreatedAt:    start,
	})

	// At the start of the window
	status, err := service.Status(context.Background(), 1, start)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}

	if status.RemainingDays != 10 {
		t.Errorf("Expected 10 remaining days, got %d", status.RemainingDays)
	}
	if status.Progress != 0 {
		t.Errorf("Expected 0%% progress, got %d", status.Progress)
	}
	if status.IsComplete {
		t.Error("Expected countdown to be incomplete at its start")
	}
	if status.NextMilestone == nil || *status.NextMilestone != 7 {
		t.Errorf("Expected next milestone 7, got %v", status.NextMilestone)
	}

	// Halfway through
	status, err = service.Status(context.Background(), 1, start+5*constants.DayMillis)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status.RemainingDays != 5 {
		t.Errorf("Expected 5 remaining days, got %d", status.RemainingDays)
	}
	if status.Progress != 50 {
		t.Errorf("Expected 50%% progress, got %d", status.Progress)
	}

	// Past the end
	status, err = service.Status(context.Background(), 1, start+11*constants.DayMillis)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status.RemainingDays != 0 {
		t.Errorf("Expected 0 remaining days, got %d", status.RemainingDays)
	}
	if !status.IsComplete {
		t.Error("Expected countdown to be complete past its end")
	}
	if status.NextMilestone != nil {
		t.Errorf("Expected no next milestone, got %d", *status.NextMilestone)
	}

	// No commitment
	if _, err := service.Status(context.Background(), 2, start); !utils.IsNotFoundError(err) {
		t.Errorf("Expected not found error without setup, got %v", err)
	}
}

func TestCommitmentService_Status_IntegrityFailure(t *testing.T) {
	recordRepo := NewMockRecordRepository()
	service := NewCommitmentService(recordRepo)

	start := int64(1_700_000_000_000)
	window := countdown.NewAt(10, start)
	window.EndDate += 5 * constants.DayMillis // tampered

	storeCommitment(t, recordRepo, 1, &models.UserCommitment{
		Mode:         models.ModeFlexibleSolo,
		GoalCount:    1,
		DurationDays: 10,
		Goals:        []*models.Goal{models.NewGoal("Goal", "")},
		Countdown:    window,
		CreatedAt:    start,
	})

	_, err := service.Status(context.Background(), 1, start)
	if err == nil {
		t.Fatal("Expected error for tampered countdown window")
	}

	if !errors.Is(err, utils.ErrIntegrityFailure) {
		t.Errorf("Expected integrity failure, got %v", err)
	}

	// The status poll never clears records; that happens on app-state load
	if _, err := recordRepo.Get(context.Background(), 1, constants.RecordKeyCommitment); err != nil {
		t.Errorf("Expected commitment record to survive the status poll, got %v", err)
	}
}

func TestCommitmentService_AddGoal(t *testing.T) {
	recordRepo := NewMockRecordRepository()
	service := NewCommitmentService(recordRepo)

	if _, err := service.SetupCommitment(context.Background(), 1, &models.CommitmentSetup{
		Goals:        sixGoals(),
		DurationDays: 365,
	}); err != nil {
		t.Fatalf("SetupCommitment() error = %v", err)
	}

	goal, err := service.AddGoal(context.Background(), 1, &models.GoalInput{
		Title:  "Learn to cook",
		Detail: "One new dish a week",
	})
	if err != nil {
		t.Fatalf("AddGoal() error = %v", err)
	}

	if !goal.Locked {
		t.Error("Expected an appended goal to start locked")
	}

	commitment, err := service.GetCommitment(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetCommitment() error = %v", err)
	}

	if len(commitment.Goals) != 7 {
		t.Errorf("Expected 7 goals after append, got %d", len(commitment.Goals))
	}

	// Appending never rewrites the creation-time count
	if commitment.GoalCount != 6 {
		t.Errorf("Expected creation-time goal count 6, got %d", commitment.GoalCount)
	}

	// Fill up to the limit
	for len(commitment.Goals) < constants.MaxGoalCount {
		if _, err := service.AddGoal(context.Background(), 1, &models.GoalInput{Title: "Filler"}); err != nil {
			t.Fatalf("AddGoal() error = %v", err)
		}
		commitment, err = service.GetCommitment(context.Background(), 1)
		if err != nil {
			t.Fatalf("GetCommitment() error = %v", err)
		}
	}

	if _, err := service.AddGoal(context.Background(), 1, &models.GoalInput{Title: "One too many"}); !utils.IsValidationError(err) {
		t.Errorf("Expected validation error at the goal limit, got %v", err)
	}
}

func TestCommitmentService_UpdateGoal(t *testing.T) {
	recordRepo := NewMockRecordRepository()
	service := NewCommitmentService(recordRepo)

	commitment, err := service.SetupCommitment(context.Background(), 1, &models.CommitmentSetup{
		Goals:        sixGoals(),
		DurationDays: 365,
	})
	if err != nil {
		t.Fatalf("SetupCommitment() error = %v", err)
	}

	goalID := commitment.Goals[2].ID
	newTitle := "Write two novels"
	newDetail := "Ambition doubled"

	goal, err := service.UpdateGoal(context.Background(), 1, goalID, &models.GoalUpdate{
		Title:  &newTitle,
		Detail: &newDetail,
	})
	if err != nil {
		t.Fatalf("UpdateGoal() error = %v", err)
	}

	if goal.Title != newTitle || goal.Detail != newDetail {
		t.Errorf("Expected updated title and detail, got %q / %q", goal.Title, goal.Detail)
	}

	// The edit is persisted, and untouched fields survive
	stored, err := service.GetCommitment(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetCommitment() error = %v", err)
	}

	storedGoal := stored.GoalByID(goalID)
	if storedGoal == nil {
		t.Fatal("Expected to find the updated goal")
	}
	if storedGoal.Title != newTitle {
		t.Errorf("Expected persisted title %q, got %q", newTitle, storedGoal.Title)
	}
	if !storedGoal.Locked {
		t.Error("Expected lock state to survive a content edit")
	}

	// Unknown goal
	if _, err := service.UpdateGoal(context.Background(), 1, "no-such-goal", &models.GoalUpdate{Title: &newTitle}); !utils.IsNotFoundError(err) {
		t.Errorf("Expected not found error for unknown goal, got %v", err)
	}
}

func TestCommitmentService_ToggleGoalLock(t *testing.T) {
	recordRepo := NewMockRecordRepository()
	service := NewCommitmentService(recordRepo)

	commitment, err := service.SetupCommitment(context.Background(), 1, &models.CommitmentSetup{
		Goals:        sixGoals(),
		DurationDays: 365,
	})
	if err != nil {
		t.Fatalf("SetupCommitment() error = %v", err)
	}

	goalID := commitment.Goals[0].ID

	goal, err := service.ToggleGoalLock(context.Background(), 1, goalID)
	if err != nil {
		t.Fatalf("ToggleGoalLock() error = %v", err)
	}
	if goal.Locked {
		t.Error("Expected first toggle to unlock the goal")
	}

	goal, err = service.ToggleGoalLock(context.Background(), 1, goalID)
	if err != nil {
		t.Fatalf("ToggleGoalLock() error = %v", err)
	}
	if !goal.Locked {
		t.Error("Expected second toggle to relock the goal")
	}

	if _, err := service.ToggleGoalLock(context.Background(), 1, "no-such-goal"); !utils.IsNotFoundError(err) {
		t.Errorf("Expected not found error for unknown goal, got %v", err)
	}
}

func TestCommitmentService_LoadAppState(t *testing.T) {
	recordRepo := NewMockRecordRepository()
	service := NewCommitmentService(recordRepo)

	// Fresh user: zero state, no commitment
	response, err := service.LoadAppState(context.Background(), 1)
	if err != nil {
		t.Fatalf("LoadAppState() error = %v", err)
	}

	if response.State.IsOnboarded || response.HasCommitment || response.WasReset {
		t.Errorf("Expected zero state for a fresh user, got %+v", response)
	}

	// After setup
	if _, err := service.SetupCommitment(context.Background(), 1, &models.CommitmentSetup{
		Goals:        sixGoals(),
		DurationDays: 365,
	}); err != nil {
		t.Fatalf("SetupCommitment() error = %v", err)
	}

	response, err = service.LoadAppState(context.Background(), 1)
	if err != nil {
		t.Fatalf("LoadAppState() error = %v", err)
	}

	if !response.State.IsOnboarded {
		t.Error("Expected onboarded state after setup")
	}
	if !response.HasCommitment {
		t.Error("Expected commitment presence after setup")
	}
	if response.WasReset {
		t.Error("Expected no reset for a healthy countdown")
	}
}

func TestCommitmentService_LoadAppState_IntegrityReset(t *testing.T) {
	recordRepo := NewMockRecordRepository()
	service := NewCommitmentService(recordRepo)

	if _, err := service.SetupCommitment(context.Background(), 1, &models.CommitmentSetup{
		Goals:        sixGoals(),
		DurationDays: 365,
	}); err != nil {
		t.Fatalf("SetupCommitment() error = %v", err)
	}

	// Tamper with the stored window
	commitment, err := service.GetCommitment(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetCommitment() error = %v", err)
	}
	commitment.Countdown.EndDate += 30 * constants.DayMillis
	storeCommitment(t, recordRepo, 1, commitment)

	response, err := service.LoadAppState(context.Background(), 1)
	if err != nil {
		t.Fatalf("LoadAppState() error = %v", err)
	}

	if !response.WasReset {
		t.Error("Expected reset to be reported for a tampered countdown")
	}
	if response.State.IsOnboarded || response.HasCommitment {
		t.Errorf("Expected zero state after reset, got %+v", response)
	}

	// Every record is gone
	for _, key := range constants.AllRecordKeys {
		if _, err := recordRepo.Get(context.Background(), 1, key); !utils.IsNotFoundError(err) {
			t.Errorf("Expected record %q to be cleared, got %v", key, err)
		}
	}

	// The next load starts over cleanly
	response, err = service.LoadAppState(context.Background(), 1)
	if err != nil {
		t.Fatalf("LoadAppState() error = %v", err)
	}
	if response.WasReset {
		t.Error("Expected no reset on the load after a reset")
	}
}

func TestCommitmentService_UpdateAppState(t *testing.T) {
	recordRepo := NewMockRecordRepository()
	service := NewCommitmentService(recordRepo)

	state, err := service.UpdateAppState(context.Background(), 1, &models.AppState{
		HasSeenContext:       true,
		NotificationsGranted: true,
	})
	if err != nil {
		t.Fatalf("UpdateAppState() error = %v", err)
	}

	if !state.HasSeenContext || !state.NotificationsGranted {
		t.Errorf("Expected stored flags to be returned, got %+v", state)
	}

	response, err := service.LoadAppState(context.Background(), 1)
	if err != nil {
		t.Fatalf("LoadAppState() error = %v", err)
	}

	if !response.State.HasSeenContext || !response.State.NotificationsGranted {
		t.Errorf("Expected persisted flags on load, got %+v", response.State)
	}
}

func TestCommitmentService_Profile(t *testing.T) {
	recordRepo := NewMockRecordRepository()
	service := NewCommitmentService(recordRepo)

	if _, err := service.GetProfile(context.Background(), 1); !utils.IsNotFoundError(err) {
		t.Errorf("Expected not found error without a profile, got %v", err)
	}

	name := "Alex"
	age := 30

	profile, err := service.UpdateProfile(context.Background(), 1, &models.ProfileUpdate{
		Name: &name,
		Age:  &age,
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	if profile.Name != "Alex" || profile.Age != 30 {
		t.Errorf("Expected created profile, got %+v", profile)
	}

	// Partial update keeps untouched fields
	country := "Norway"
	profile, err = service.UpdateProfile(context.Background(), 1, &models.ProfileUpdate{
		Country: &country,
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	if profile.Name != "Alex" || profile.Age != 30 || profile.Country != "Norway" {
		t.Errorf("Expected merged profile, got %+v", profile)
	}

	stored, err := service.GetProfile(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if stored.Country != "Norway" {
		t.Errorf("Expected persisted country, got %q", stored.Country)
	}

	// A profile without a name is rejected
	service2 := NewCommitmentService(NewMockRecordRepository())
	if _, err := service2.UpdateProfile(context.Background(), 2, &models.ProfileUpdate{Age: &age}); !utils.IsValidationError(err) {
		t.Errorf("Expected validation error for missing name, got %v", err)
	}
}

func TestCommitmentService_NotificationSettings(t *testing.T) {
	recordRepo := NewMockRecordRepository()
	service := NewCommitmentService(recordRepo)

	// First access stores and returns the defaults
	settings, err := service.GetNotificationSettings(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetNotificationSettings() error = %v", err)
	}

	if settings.Frequency != models.FrequencyDaily || !settings.Enabled {
		t.Errorf("Expected default settings, got %+v", settings)
	}

	if _, err := recordRepo.Get(context.Background(), 1, constants.RecordKeyNotificationSettings); err != nil {
		t.Errorf("Expected defaults to be persisted on first access, got %v", err)
	}

	// Custom frequency requires weekdays
	if _, err := service.UpdateNotificationSettings(context.Background(), 1, &models.NotificationSettings{
		Frequency: models.FrequencyCustom,
		Enabled:   true,
	}); !utils.IsValidationError(err) {
		t.Errorf("Expected validation error for custom frequency without days, got %v", err)
	}

	updated, err := service.UpdateNotificationSettings(context.Background(), 1, &models.NotificationSettings{
		Frequency:  models.FrequencyCustom,
		CustomDays: []int{1, 3, 5},
		Enabled:    true,
	})
	if err != nil {
		t.Fatalf("UpdateNotificationSettings() error = %v", err)
	}

	if updated.Frequency != models.FrequencyCustom {
		t.Errorf("Expected custom frequency, got %q", updated.Frequency)
	}

	stored, err := service.GetNotificationSettings(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetNotificationSettings() error = %v", err)
	}

	if stored.Frequency != models.FrequencyCustom || len(stored.CustomDays) != 3 {
		t.Errorf("Expected persisted custom settings, got %+v", stored)
	}
}
