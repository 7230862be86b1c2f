// Package constants provides shared constant values used throughout the application.
//
// The commitment.go file defines the domain constants for commitment tracking:
// the countdown arithmetic parameters, the milestone ladder, the canonical
// program shape, the record keys used by the key-value storage layer, and the
// backup format identifiers. These values are load-bearing for data
// compatibility: backups written by older clients must keep round-tripping, so
// changing any of them is a breaking format change.
package constants

// Countdown Arithmetic defines the time parameters for countdown calculations.
// All instants in the application are Unix-epoch milliseconds stored as int64.
const (
	// DayMillis is the number of milliseconds in one day.
	DayMillis int64 = 24 * 60 * 60 * 1000

	// IntegrityToleranceMillis is the maximum drift allowed between a stored
	// countdown end instant and the recomputed start + duration value before
	// the countdown is considered corrupted.
	IntegrityToleranceMillis int64 = 1000
)

// Canonical Program Shape defines the goal count and duration that identify
// the flagship commitment program. Commitments matching both values are
// classified into team mode.
const (
	// CanonicalGoalCount is the number of goals in the flagship program.
	CanonicalGoalCount = 6

	// CanonicalDurationDays is the duration in days of the flagship program.
	CanonicalDurationDays = 1356
)

// MilestoneThresholds lists the remaining-day counts that trigger milestone
// notifications, ordered from largest to smallest. The ordering is relied on
// by the countdown engine when scanning for the next upcoming milestone.
var MilestoneThresholds = []int{1000, 500, 100, 30, 7, 1}

// Record Keys define the well-known keys under which client state is stored
// in the per-user key-value record store. These strings appear in backup
// payloads, so they must stay stable across releases.
const (
	// RecordKeyAppState stores onboarding and first-run state.
	RecordKeyAppState = "app_state"

	// RecordKeyCommitment stores the user's active commitment.
	RecordKeyCommitment = "commitment"

	// RecordKeyProfile stores the user's profile record.
	RecordKeyProfile = "profile"

	// RecordKeyNotificationSettings stores notification preferences.
	RecordKeyNotificationSettings = "notification_settings"
)

// AllRecordKeys lists every well-known record key. Integrity resets and full
// exports iterate this list so that adding a key here is sufficient to include
// it in both paths.
var AllRecordKeys = []string{
	RecordKeyAppState,
	RecordKeyCommitment,
	RecordKeyProfile,
	RecordKeyNotificationSettings,
}

// Backup Format identifiers define the version stamp and encryption passphrase
// for exported backups. The passphrase is a fixed application-level secret
// shared by every client build; backups are obfuscated against casual
// inspection, not protected against a determined attacker holding the binary.
const (
	// BackupVersion is the format version stamped into every export.
	BackupVersion = "1.0.0"

	// BackupPassphrase is the static passphrase used to derive the backup
	// encryption key. Changing it orphans every previously exported backup.
	BackupPassphrase = "project1356-secure-key-v1"
)

// Commitment Modes define the classification outcomes for a commitment.
// These strings are persisted in commitment records and backups.
const (
	// ModeTeam identifies commitments matching the flagship program shape.
	ModeTeam = "TEAM_MODE"

	// ModeStructuredSolo identifies solo commitments with the canonical goal
	// count but a custom duration.
	ModeStructuredSolo = "STRUCTURED_SOLO"

	// ModeFlexibleSolo identifies fully custom commitments.
	ModeFlexibleSolo = "FLEXIBLE_SOLO"
)

// Deadline Types distinguish the shared program deadline from a
// user-chosen one. Persisted in commitment records alongside the mode.
const (
	// DeadlineGlobalShared marks the deadline shared by every team-mode
	// commitment.
	DeadlineGlobalShared = "GLOBAL_SHARED"

	// DeadlineUserDefined marks a deadline the user picked themselves.
	DeadlineUserDefined = "USER_DEFINED"
)

// Philosophy Alignments describe how closely a commitment follows the
// original program structure. Persisted in commitment records alongside
// the mode.
const (
	// PhilosophyCanonical marks the exact program shape: six goals over
	// 1356 days.
	PhilosophyCanonical = "CANONICAL"

	// PhilosophyDisciplinedVariant marks the canonical goal count on a
	// custom duration.
	PhilosophyDisciplinedVariant = "DISCIPLINED_VARIANT"

	// PhilosophyAdaptiveVariant marks a fully custom commitment shape.
	PhilosophyAdaptiveVariant = "ADAPTIVE_VARIANT"
)

// Goal Limits bound the number and size of goals in a commitment.
const (
	// MinGoalCount is the minimum number of goals in a commitment.
	MinGoalCount = 1

	// MaxGoalCount is the maximum number of goals in a commitment.
	MaxGoalCount = 12

	// MaxGoalTitleLength is the maximum length of a goal title.
	MaxGoalTitleLength = 200

	// MinCommitmentDays is the minimum commitment duration in days.
	MinCommitmentDays = 1

	// MaxCommitmentDays is the maximum commitment duration in days.
	MaxCommitmentDays = 3650
)
