// Package rules implements the commitment classifier: a pure decision
// table that derives the commitment mode from the goal count and duration
// chosen at setup.
package rules

import (
	"github.com/project1356/backend/internal/constants"
	"github.com/project1356/backend/internal/models"
)

// Categorize classifies a commitment from its goal count and duration.
// The table is order-sensitive and total: the canonical shape (six goals
// over the global 1356-day window) is team mode, the canonical goal count
// over any other duration is structured solo, and everything else is
// flexible solo. It never fails.
func Categorize(goalCount, durationDays int) models.Classification {
	if goalCount == constants.CanonicalGoalCount && durationDays == constants.CanonicalDurationDays {
		return models.Classification{
			Mode:                models.ModeTeam,
			DeadlineType:        models.DeadlineGlobalShared,
			PhilosophyAlignment: models.PhilosophyCanonical,
			Description:         "Six goals on the shared 1356-day deadline, counted down together with everyone else.",
		}
	}

	if goalCount == constants.CanonicalGoalCount {
		return models.Classification{
			Mode:                models.ModeStructuredSolo,
			DeadlineType:        models.DeadlineUserDefined,
			PhilosophyAlignment: models.PhilosophyDisciplinedVariant,
			Description:         "Six goals on a deadline you chose yourself, with the discipline of the full structure.",
		}
	}

	return models.Classification{
		Mode:                models.ModeFlexibleSolo,
		DeadlineType:        models.DeadlineUserDefined,
		PhilosophyAlignment: models.PhilosophyAdaptiveVariant,
		Description:         "Your own goals on your own deadline, adapted to fit your pace.",
	}
}

// ModeDisplayName maps a commitment mode to its fixed display label.
func ModeDisplayName(mode models.CommitmentMode) string {
	switch mode {
	case models.ModeTeam:
		return "Team Mode"
	case models.ModeStructuredSolo:
		return "Structured Solo"
	case models.ModeFlexibleSolo:
		return "Flexible Solo"
	default:
		return string(mode)
	}
}
