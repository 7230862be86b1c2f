package models

import "github.com/project1356/backend/internal/constants"

// Notification frequency values accepted in settings.
const (
	// FrequencyDaily fires a reminder every day.
	FrequencyDaily = "daily"

	// FrequencyWeekly fires a reminder once a week.
	FrequencyWeekly = "weekly"

	// FrequencyCustom fires reminders on an explicit list of weekdays.
	FrequencyCustom = "custom"
)

// NotificationSettings represents a user's reminder preferences. CustomDays
// is only meaningful when Frequency is "custom"; each entry is a weekday
// number and entries must be distinct and positive.
type NotificationSettings struct {
	// Frequency is the reminder cadence: daily, weekly or custom
	Frequency string `json:"frequency" validate:"required,oneof=daily weekly custom"`

	// CustomDays lists the weekdays reminders fire on when Frequency is custom
	CustomDays []int `json:"custom_days,omitempty" validate:"omitempty,unique,dive,min=1,max=7"`

	// Enabled turns reminders on or off entirely
	Enabled bool `json:"enabled"`
}

// DefaultNotificationSettings returns the settings applied when a user has
// no stored notification record yet.
func DefaultNotificationSettings() *NotificationSettings {
	return &NotificationSettings{
		Frequency: constants.DefaultNotificationFrequency,
		Enabled:   true,
	}
}

// Recurrence values for schedule entries.
const (
	// RecurrenceOnce fires a single time and is not repeated.
	RecurrenceOnce = "once"

	// RecurrenceDaily repeats every day at the same local time.
	RecurrenceDaily = "daily"

	// RecurrenceWeekly repeats every week at the same local time.
	RecurrenceWeekly = "weekly"
)

// ScheduleEntry is a single planned local notification the device mirrors.
type ScheduleEntry struct {
	// FireAt is the target instant in epoch milliseconds
	FireAt int64 `json:"fire_at"`

	// Title is the notification title
	Title string `json:"title"`

	// Message is the notification body
	Message string `json:"message"`

	// Recurrence is how often the entry repeats: once, daily or weekly
	Recurrence string `json:"recurrence"`
}
