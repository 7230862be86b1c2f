// Package countdown implements the countdown engine: pure, total functions
// over a commitment's time window. All instants are milliseconds since the
// Unix epoch, matching the stored record format. Every function takes the
// current instant as a parameter so results are reproducible in tests and
// against the client's `at` query parameter.
//
// The functions never return errors. An out-of-shape window is reported by
// ValidateIntegrity; the caller decides what to do about it.
package countdown

import (
	"math"

	"github.com/project1356/backend/internal/constants"
	"github.com/project1356/backend/internal/models"
)

// New creates a countdown window starting at the current wall-clock time.
func New(durationDays int) models.Countdown {
	return NewAt(durationDays, models.NowMillis())
}

// NewAt creates a countdown window starting at the given instant. The end
// date is derived from the duration, which keeps the window valid under
// ValidateIntegrity for any duration of at least one day.
func NewAt(durationDays int, now int64) models.Countdown {
	return models.Countdown{
		StartDate:    now,
		DurationDays: durationDays,
		EndDate:      now + int64(durationDays)*constants.DayMillis,
	}
}

// RemainingDays returns the number of days left until the end date at the
// given instant. A partial day counts as a full day, and an expired window
// reports zero, never a negative count.
func RemainingDays(c models.Countdown, now int64) int {
	remaining := c.EndDate - now
	if remaining <= 0 {
		return 0
	}
	return int((remaining + constants.DayMillis - 1) / constants.DayMillis)
}

// IsComplete reports whether the window has reached its end date.
func IsComplete(c models.Countdown, now int64) bool {
	return now >= c.EndDate
}

// ValidateIntegrity reports whether the window is internally consistent:
// the end date must equal the start date plus the duration in milliseconds,
// within a small tolerance for clock granularity.
func ValidateIntegrity(c models.Countdown) bool {
	expected := c.StartDate + int64(c.DurationDays)*constants.DayMillis
	diff := c.EndDate - expected
	if diff < 0 {
		diff = -diff
	}
	return diff < constants.IntegrityToleranceMillis
}

// Progress returns the elapsed share of the window as a whole percentage,
// clamped to [0,100] so clock skew in either direction never produces an
// out-of-range value. A degenerate window with no positive span reports 100.
func Progress(c models.Countdown, now int64) int {
	total := c.EndDate - c.StartDate
	if total <= 0 {
		return 100
	}

	elapsed := now - c.StartDate
	pct := int(math.Round(float64(elapsed) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// MilestoneReached reports whether the remaining day count at the given
// instant equals the threshold exactly.
func MilestoneReached(c models.Countdown, now int64, threshold int) bool {
	return RemainingDays(c, now) == threshold
}

// NextMilestone returns the first milestone threshold at or below the given
// remaining day count. The second return value is false when no milestone
// applies, which includes every expired countdown.
func NextMilestone(remainingDays int) (int, bool) {
	for _, threshold := range constants.MilestoneThresholds {
		if threshold <= remainingDays {
			return threshold, true
		}
	}
	return 0, false
}
