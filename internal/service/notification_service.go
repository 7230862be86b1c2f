package service

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/project1356/backend/internal/constants"
	"github.com/project1356/backend/internal/countdown"
	"github.com/project1356/backend/internal/models"
)

// reminderTitle is the title shared by all scheduled reminder entries.
const reminderTitle = "Project 1356"

// Notifier is the device-side scheduling collaborator. The backend computes
// content and target times; the implementation owns delivery.
type Notifier interface {
	// ScheduleAt registers a notification to fire at the given instant.
	// Recurrence is one of the models.Recurrence* values.
	ScheduleAt(fireAt time.Time, title, message, recurrence string) error

	// CancelAll removes every pending notification previously scheduled.
	CancelAll() error
}

// LogNotifier is a Notifier that records scheduling calls in the application
// log. It stands in for the device scheduler on the server side, where the
// schedule is mirrored through the API rather than delivered directly.
type LogNotifier struct{}

// NewLogNotifier creates a logging Notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// ScheduleAt logs the planned notification.
func (n *LogNotifier) ScheduleAt(fireAt time.Time, title, message, recurrence string) error {
	log.Info().
		Time("fire_at", fireAt).
		Str("title", title).
		Str("message", message).
		Str("recurrence", recurrence).
		Msg("Notification scheduled")
	return nil
}

// CancelAll logs the cancellation of all pending notifications.
func (n *LogNotifier) CancelAll() error {
	log.Info().Msg("All pending notifications cancelled")
	return nil
}

// NotificationService computes the notification plan for a commitment. It is
// stateless apart from the configured reminder hour.
type NotificationService struct {
	notifier     Notifier
	reminderHour int
}

// NewNotificationService creates a new NotificationService. reminderHour is
// the local hour of day (24h clock) daily and weekly reminders fire at.
func NewNotificationService(notifier Notifier, reminderHour int) *NotificationService {
	return &NotificationService{
		notifier:     notifier,
		reminderHour: reminderHour,
	}
}

// BuildSchedule computes the planned notification entries for a commitment
// given the user's settings and the current instant. The plan holds the
// recurring reminder entries implied by the settings frequency plus a
// one-shot entry for every milestone threshold still ahead of the countdown.
// Disabled settings yield an empty plan.
func (s *NotificationService) BuildSchedule(commitment *models.UserCommitment, settings *models.NotificationSettings, now int64) []models.ScheduleEntry {
	entries := []models.ScheduleEntry{}
	if commitment == nil || settings == nil || !settings.Enabled {
		return entries
	}

	remaining := countdown.RemainingDays(commitment.Countdown, now)
	if remaining <= 0 {
		return entries
	}

	message := fmt.Sprintf("Day %d of your countdown remains.", remaining)

	switch settings.Frequency {
	case models.FrequencyDaily:
		entries = append(entries, models.ScheduleEntry{
			FireAt:     s.nextReminderInstant(now),
			Title:      reminderTitle,
			Message:    message,
			Recurrence: models.RecurrenceDaily,
		})
	case models.FrequencyWeekly:
		entries = append(entries, models.ScheduleEntry{
			FireAt:     s.nextReminderInstant(now),
			Title:      reminderTitle,
			Message:    message,
			Recurrence: models.RecurrenceWeekly,
		})
	case models.FrequencyCustom:
		for _, day := range settings.CustomDays {
			entries = append(entries, models.ScheduleEntry{
				FireAt:     s.nextWeekdayInstant(now, day),
				Title:      reminderTitle,
				Message:    message,
				Recurrence: models.RecurrenceWeekly,
			})
		}
	}

	for _, threshold := range constants.MilestoneThresholds {
		if threshold > remaining {
			continue
		}
		// Remaining days round up, so the fire instant of a threshold equal
		// to the remaining count can sit inside the elapsed part of today.
		fireAt := commitment.Countdown.EndDate - int64(threshold)*constants.DayMillis
		if fireAt < now {
			continue
		}
		entries = append(entries, models.ScheduleEntry{
			FireAt:     fireAt,
			Title:      reminderTitle,
			Message:    fmt.Sprintf("Milestone: %d days left on your countdown.", threshold),
			Recurrence: models.RecurrenceOnce,
		})
	}

	return entries
}

// SyncSchedule replaces the notifier's pending notifications with the plan
// BuildSchedule produces for the given commitment and settings.
func (s *NotificationService) SyncSchedule(commitment *models.UserCommitment, settings *models.NotificationSettings, now int64) ([]models.ScheduleEntry, error) {
	if err := s.notifier.CancelAll(); err != nil {
		return nil, fmt.Errorf("failed to cancel pending notifications: %w", err)
	}

	entries := s.BuildSchedule(commitment, settings, now)
	for _, entry := range entries {
		fireAt := time.UnixMilli(entry.FireAt)
		if err := s.notifier.ScheduleAt(fireAt, entry.Title, entry.Message, entry.Recurrence); err != nil {
			return nil, fmt.Errorf("failed to schedule notification: %w", err)
		}
	}

	log.Info().
		Int("entry_count", len(entries)).
		Msg("Notification schedule synchronized")

	return entries, nil
}

// nextReminderInstant returns the next occurrence of the reminder hour at or
// after the given instant, in epoch milliseconds.
func (s *NotificationService) nextReminderInstant(now int64) int64 {
	t := time.UnixMilli(now).UTC()
	next := time.Date(t.Year(), t.Month(), t.Day(), s.reminderHour, 0, 0, 0, time.UTC)
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next.UnixMilli()
}

// nextWeekdayInstant returns the next occurrence of the reminder hour on the
// given weekday (1 = Monday .. 7 = Sunday) at or after the given instant.
func (s *NotificationService) nextWeekdayInstant(now int64, weekday int) int64 {
	target := time.Weekday(weekday % 7)

	t := time.UnixMilli(now).UTC()
	next := time.Date(t.Year(), t.Month(), t.Day(), s.reminderHour, 0, 0, 0, time.UTC)
	for next.Weekday() != target || !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next.UnixMilli()
}
