// Package models provides data structures and operations for the Project 1356 application.
// This file contains the commitment domain entities: the countdown window,
// the user's goal list, and the commitment record that binds them together.
// Commitments are persisted as whole JSON records in the per-user record store.
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/project1356/backend/internal/constants"
)

// CommitmentMode identifies the variant of a commitment. The mode is derived
// from the goal count and duration and is never stored apart from its
// commitment.
type CommitmentMode string

const (
	// ModeTeam is the canonical shared-deadline commitment: six goals over
	// the global 1356-day window.
	ModeTeam CommitmentMode = constants.ModeTeam

	// ModeStructuredSolo is the disciplined variant: six goals over a
	// user-defined deadline.
	ModeStructuredSolo CommitmentMode = constants.ModeStructuredSolo

	// ModeFlexibleSolo is the adaptive variant: any other combination of
	// goal count and duration.
	ModeFlexibleSolo CommitmentMode = constants.ModeFlexibleSolo
)

// DeadlineType records whether a commitment runs against the shared
// program deadline or one the user defined.
type DeadlineType string

const (
	// DeadlineGlobalShared is the deadline shared by every team-mode commitment.
	DeadlineGlobalShared DeadlineType = constants.DeadlineGlobalShared

	// DeadlineUserDefined is a deadline the user picked themselves.
	DeadlineUserDefined DeadlineType = constants.DeadlineUserDefined
)

// PhilosophyAlignment records how closely a commitment follows the
// original program structure.
type PhilosophyAlignment string

const (
	// PhilosophyCanonical is the exact program shape: six goals over 1356 days.
	PhilosophyCanonical PhilosophyAlignment = constants.PhilosophyCanonical

	// PhilosophyDisciplinedVariant is the canonical goal count on a custom duration.
	PhilosophyDisciplinedVariant PhilosophyAlignment = constants.PhilosophyDisciplinedVariant

	// PhilosophyAdaptiveVariant is a fully custom commitment shape.
	PhilosophyAdaptiveVariant PhilosophyAlignment = constants.PhilosophyAdaptiveVariant
)

// Classification is the full outcome of categorizing a commitment from
// its goal count and duration.
type Classification struct {
	// Mode is the commitment variant
	Mode CommitmentMode `json:"mode"`

	// DeadlineType reports whether the deadline is shared or user-defined
	DeadlineType DeadlineType `json:"deadline_type"`

	// PhilosophyAlignment reports how closely the shape follows the program
	PhilosophyAlignment PhilosophyAlignment `json:"philosophy_alignment"`

	// Description is the human-readable explanation of the classification
	Description string `json:"description"`
}

// Countdown represents the time window of a commitment. All instants are
// milliseconds since the Unix epoch. The window is immutable after creation;
// EndDate must equal StartDate + DurationDays in milliseconds within a small
// tolerance, and deviation beyond it is treated as an integrity failure.
type Countdown struct {
	// StartDate is the wall-clock instant the commitment began, in epoch milliseconds
	StartDate int64 `json:"start_date" validate:"epoch_millis"`

	// DurationDays is the total length of the commitment window in days
	DurationDays int `json:"duration_days" validate:"required,min=1"`

	// EndDate is the instant the commitment completes, in epoch milliseconds
	EndDate int64 `json:"end_date" validate:"epoch_millis"`
}

// Goal represents a single commitment goal. Identity is the ID, unique within
// the commitment's goal list. Insertion order is meaningful: the first six
// goals are main goals and any further ones are supporting goals.
type Goal struct {
	// ID is the unique identifier for this goal within its commitment
	ID string `json:"id"`

	// Title is the short name of the goal
	Title string `json:"title" validate:"required,max=200"`

	// Detail is the longer free-text description of the goal
	Detail string `json:"detail,omitempty"`

	// Locked hides the goal's content in the client until the user reveals it
	Locked bool `json:"locked"`

	// Icon is an optional client-side icon identifier
	Icon string `json:"icon,omitempty"`

	// ImageURL is an optional illustration for the goal
	ImageURL string `json:"image_url,omitempty"`

	// CustomDays is an optional per-goal day count overriding the commitment window
	CustomDays int `json:"custom_days,omitempty" validate:"omitempty,min=1"`
}

// NewGoal creates a new Goal with a generated identifier. New goals start
// locked, matching the client's setup wizard behavior.
func NewGoal(title, detail string) *Goal {
	return &Goal{
		ID:     uuid.NewString(),
		Title:  title,
		Detail: detail,
		Locked: true,
	}
}

// UserCommitment represents a user's complete commitment: the derived mode,
// the goal list, and the countdown window. GoalCount should equal the length
// of Goals; drift is tolerated when goals are appended later.
type UserCommitment struct {
	// Mode is the commitment variant derived from goal count and duration
	Mode CommitmentMode `json:"mode"`

	// DeadlineType reports whether the deadline is shared or user-defined
	DeadlineType DeadlineType `json:"deadline_type,omitempty"`

	// PhilosophyAlignment reports how closely the shape follows the program
	PhilosophyAlignment PhilosophyAlignment `json:"philosophy_alignment,omitempty"`

	// ModeDescription is the human-readable explanation of the classification
	ModeDescription string `json:"mode_description,omitempty"`

	// GoalCount is the number of goals the commitment was created with
	GoalCount int `json:"goal_count"`

	// DurationDays is the commitment window length in days
	DurationDays int `json:"duration_days"`

	// Goals is the ordered goal list
	Goals []*Goal `json:"goals"`

	// Countdown is the commitment's time window
	Countdown Countdown `json:"countdown"`

	// CreatedAt is the creation instant in epoch milliseconds
	CreatedAt int64 `json:"created_at"`
}

// GoalByID returns the goal with the given identifier, or nil when the
// commitment holds no such goal.
func (c *UserCommitment) GoalByID(id string) *Goal {
	for _, g := range c.Goals {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// CommitmentSetup represents the data required to complete onboarding and
// create a commitment.
type CommitmentSetup struct {
	// Goals is the ordered list of goals the user committed to
	Goals []GoalInput `json:"goals" validate:"required,min=1,max=12,dive"`

	// DurationDays is the chosen commitment window length in days
	DurationDays int `json:"duration_days" validate:"required,min=1,max=3650"`
}

// GoalInput represents a single goal in a setup or append request.
type GoalInput struct {
	// Title is the short name of the goal
	Title string `json:"title" validate:"required,max=200"`

	// Detail is the longer free-text description of the goal
	Detail string `json:"detail"`

	// Icon is an optional client-side icon identifier
	Icon string `json:"icon"`

	// ImageURL is an optional illustration for the goal
	ImageURL string `json:"image_url"`

	// CustomDays is an optional per-goal day count
	CustomDays int `json:"custom_days" validate:"omitempty,min=1"`
}

// GoalUpdate represents the data that can be updated on an existing goal.
// Only fields present in the request are applied.
type GoalUpdate struct {
	// Title is the new short name of the goal
	Title *string `json:"title" validate:"omitempty,max=200"`

	// Detail is the new description of the goal
	Detail *string `json:"detail"`

	// Icon is the new icon identifier
	Icon *string `json:"icon"`

	// ImageURL is the new illustration URL
	ImageURL *string `json:"image_url"`

	// CustomDays is the new per-goal day count
	CustomDays *int `json:"custom_days" validate:"omitempty,min=1"`
}

// Apply updates the Goal with values from the update request. Only fields
// present in the update are modified, allowing partial edits.
func (g *Goal) Apply(update *GoalUpdate) {
	if update.Title != nil {
		g.Title = *update.Title
	}
	if update.Detail != nil {
		g.Detail = *update.Detail
	}
	if update.Icon != nil {
		g.Icon = *update.Icon
	}
	if update.ImageURL != nil {
		g.ImageURL = *update.ImageURL
	}
	if update.CustomDays != nil {
		g.CustomDays = *update.CustomDays
	}
}

// CommitmentStatus is the once-per-minute poll payload describing where the
// countdown stands at a given instant.
type CommitmentStatus struct {
	// Mode is the commitment variant
	Mode CommitmentMode `json:"mode"`

	// RemainingDays is the number of whole or partial days left, zero when expired
	RemainingDays int `json:"remaining_days"`

	// Progress is the elapsed share of the window as a percentage in [0,100]
	Progress int `json:"progress"`

	// IsComplete reports whether the countdown has reached its end
	IsComplete bool `json:"is_complete"`

	// NextMilestone is the next day-count threshold at or below the remaining
	// days, nil when none applies
	NextMilestone *int `json:"next_milestone,omitempty"`

	// EndDate is the completion instant in epoch milliseconds
	EndDate int64 `json:"end_date"`
}

// SavedAtStamp is the JSON member name the client round-trips on stored
// commitment records. It is stamped on save and stripped on load.
const SavedAtStamp = "_saved_at"

// NowMillis returns the current wall-clock time in epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
