// Package kernel exposes the Scheduling Kernel's three operations —
// Generate, Evaluate, and Compare — over a single immutable Input
// Bundle. It is the sole seam external collaborators (persistence, UI,
// CLI) cross to reach the Placement Engine and Schedule Evaluator.
package kernel

import (
	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
	"github.com/noah-isme/ll-scheduler-kernel/internal/scoring"
)

// Bundle is the plain aggregate of every entity the Kernel needs for one
// run. It is immutable from the Kernel's perspective: Generate takes its
// own defensive copy of anything it mutates internally (the scoring
// context, not the bundle itself).
type Bundle struct {
	Season          models.Season                    `validate:"required"`
	Divisions       []models.Division                 `validate:"required,min=1,dive"`
	DivisionConfigs map[string]models.DivisionConfig  `validate:"required"`
	Teams           []models.Team                     `validate:"required,min=1,dive"`

	Fields []models.SeasonField `validate:"dive"`
	Cages  []models.SeasonCage  `validate:"dive"`

	FieldAvailabilities []models.FieldAvailability
	CageAvailabilities  []models.CageAvailability
	FieldOverrides      []models.FieldDateOverride
	CageOverrides       []models.CageDateOverride

	// ScoringWeights is optional; DefaultWeights() is used when the zero
	// value is supplied.
	ScoringWeights *scoring.Weights

	// AvailabilityBundle feeds the Evaluator's outside-availability
	// check; when nil that check is skipped.
	AvailabilityBundle *models.AvailabilityBundle
}

func (b Bundle) weights() scoring.Weights {
	if b.ScoringWeights != nil {
		return *b.ScoringWeights
	}
	return scoring.DefaultWeights()
}

// requiresCages reports whether any division referenced by a team
// expects cage sessions, per the generate() precondition that at least
// one cage must exist when any division needs them.
func (b Bundle) requiresCages() bool {
	divisionsWithTeams := map[string]bool{}
	for _, t := range b.Teams {
		divisionsWithTeams[t.DivisionID] = true
	}
	for divisionID := range divisionsWithTeams {
		if cfg, ok := b.DivisionConfigs[divisionID]; ok && cfg.CageSessionsPerWeek > 0 {
			return true
		}
	}
	return false
}
