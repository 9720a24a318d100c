// Package placement implements the Placement Engine: the component that
// orchestrates game, practice, and cage-session scheduling by consulting
// the resource slot builder, constraint checker, and candidate scorer,
// and mutating the scoring context as it goes.
package placement

import (
	"math"

	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
)

// budgetKey identifies one (division, day-of-week, game week) cell in the
// required-day budget tracker.
type budgetKey struct {
	divisionID string
	dayOfWeek  int
	weekIndex  int
}

// RequiredDayBudgetTracker allocates shared required-day slots across
// divisions competing for the same primary field on the same day of
// week. A team may only place a game into its division's primary field
// on its required day when the division's budget for that cell is
// still positive.
type RequiredDayBudgetTracker struct {
	budgets map[budgetKey]int
	usage   map[budgetKey]int
	groups  map[string]bool // divisionID -> true when part of any competition group
}

// NewRequiredDayBudgetTracker returns an empty tracker.
func NewRequiredDayBudgetTracker() *RequiredDayBudgetTracker {
	return &RequiredDayBudgetTracker{
		budgets: make(map[budgetKey]int),
		usage:   make(map[budgetKey]int),
		groups:  make(map[string]bool),
	}
}

// competitionGroupKey groups divisions by the (dayOfWeek, primaryFieldID)
// pair they each claim as their single required day / top field
// preference.
type competitionGroupKey struct {
	dayOfWeek      int
	primaryFieldID string
}

// BuildCompetitionGroups inspects every division config and identifies
// (dayOfWeek, primaryFieldId) pairs claimed by two or more divisions as
// their top-preferred field on a required day. For each such group it
// computes the weekly slot capacity from the field's weekly availability
// hours and allocates it proportionally to each division's preference
// weight, floor-rounded with a minimum of 1 slot per competing division,
// per game week in [1, totalGameWeeks].
func BuildCompetitionGroups(
	divisionConfigs map[string]models.DivisionConfig,
	fieldWeeklyHours map[string]float64,
	totalGameWeeks int,
) *RequiredDayBudgetTracker {
	tracker := NewRequiredDayBudgetTracker()

	groupMembers := map[competitionGroupKey][]string{}
	for divisionID, cfg := range divisionConfigs {
		if len(cfg.FieldPreferences) == 0 {
			continue
		}
		primaryField := cfg.FieldPreferences[0]
		for _, pref := range cfg.GameDayPreferences {
			if pref.Priority != models.PriorityRequired {
				continue
			}
			key := competitionGroupKey{dayOfWeek: pref.DayOfWeek, primaryFieldID: primaryField}
			groupMembers[key] = append(groupMembers[key], divisionID)
		}
	}

	for key, members := range groupMembers {
		if len(members) < 2 {
			continue
		}
		weeklyHours := fieldWeeklyHours[key.primaryFieldID]
		for _, divisionID := range members {
			tracker.groups[divisionID] = true
			cfg := divisionConfigs[divisionID]
			arriveHours := cfg.GameArrivalHours
			perGame := cfg.GameDurationHours + arriveHours
			if perGame <= 0 {
				continue
			}
			slotsPerWeek := int(math.Floor(weeklyHours / perGame))
			if slotsPerWeek < 1 {
				slotsPerWeek = 1
			}

			totalWeight := 0
			for _, other := range members {
				totalWeight += models.PreferenceWeight(models.PriorityRequired)
				_ = other
			}
			weight := models.PreferenceWeight(models.PriorityRequired)

			allocation := int(math.Floor(float64(slotsPerWeek) * float64(weight) / float64(totalWeight)))
			if allocation < 1 {
				allocation = 1
			}

			for w := 1; w <= totalGameWeeks; w++ {
				tracker.budgets[budgetKey{divisionID: divisionID, dayOfWeek: key.dayOfWeek, weekIndex: w}] = allocation
			}
		}
	}

	return tracker
}

// CanUse reports whether divisionID may still place a required-day game
// in (dayOfWeek, weekIndex). Divisions not part of any competition group
// default to true — the budget tracker only constrains contested cells.
func (t *RequiredDayBudgetTracker) CanUse(divisionID string, dayOfWeek, weekIndex int) bool {
	if !t.groups[divisionID] {
		return true
	}
	key := budgetKey{divisionID: divisionID, dayOfWeek: dayOfWeek, weekIndex: weekIndex}
	budget, ok := t.budgets[key]
	if !ok {
		return true
	}
	return t.usage[key] < budget
}

// Use records a placement against the budget cell.
func (t *RequiredDayBudgetTracker) Use(divisionID string, dayOfWeek, weekIndex int) {
	if !t.groups[divisionID] {
		return
	}
	key := budgetKey{divisionID: divisionID, dayOfWeek: dayOfWeek, weekIndex: weekIndex}
	t.usage[key]++
}
