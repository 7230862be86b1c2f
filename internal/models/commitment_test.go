package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/project1356/backend/internal/models"
)

func TestNewGoal(t *testing.T) {
	// Create a new goal
	goal := models.NewGoal("Run a marathon", "Complete a full 42km race")

	// Verify the goal was created correctly
	assert.NotNil(t, goal, "NewGoal should return a non-nil Goal")
	assert.NotEmpty(t, goal.ID, "A new Goal should have a generated ID")
	assert.Equal(t, "Run a marathon", goal.Title, "Goal should have the provided title")
	assert.Equal(t, "Complete a full 42km race", goal.Detail, "Goal should have the provided detail")
	assert.True(t, goal.Locked, "A new Goal should start locked")

	// IDs should be unique across goals
	other := models.NewGoal("Learn piano", "")
	assert.NotEqual(t, goal.ID, other.ID, "Each new Goal should get a distinct ID")
}

func TestUserCommitment_GoalByID(t *testing.T) {
	first := models.NewGoal("First", "")
	second := models.NewGoal("Second", "")

	commitment := &models.UserCommitment{
		Mode:         models.ModeFlexibleSolo,
		GoalCount:    2,
		DurationDays: 100,
		Goals:        []*models.Goal{first, second},
	}

	// Existing goal is found
	found := commitment.GoalByID(second.ID)
	assert.Equal(t, second, found, "GoalByID should return the matching goal")

	// Unknown ID returns nil
	missing := commitment.GoalByID("no-such-goal")
	assert.Nil(t, missing, "GoalByID should return nil for an unknown ID")
}

func TestGoal_Apply(t *testing.T) {
	goal := models.NewGoal("Original title", "Original detail")
	goal.CustomDays = 30

	newTitle := "Updated title"
	newDays := 60

	// Partial update: only title and custom days
	goal.Apply(&models.GoalUpdate{
		Title:      &newTitle,
		CustomDays: &newDays,
	})

	assert.Equal(t, "Updated title", goal.Title, "Title should be updated")
	assert.Equal(t, "Original detail", goal.Detail, "Detail should be unchanged")
	assert.Equal(t, 60, goal.CustomDays, "CustomDays should be updated")

	// Empty update changes nothing
	goal.Apply(&models.GoalUpdate{})
	assert.Equal(t, "Updated title", goal.Title, "An empty update should change nothing")
	assert.Equal(t, 60, goal.CustomDays, "An empty update should change nothing")
}

func TestCommitmentModes(t *testing.T) {
	// The wire values of the three modes
	assert.Equal(t, "TEAM_MODE", string(models.ModeTeam))
	assert.Equal(t, "STRUCTURED_SOLO", string(models.ModeStructuredSolo))
	assert.Equal(t, "FLEXIBLE_SOLO", string(models.ModeFlexibleSolo))
}
