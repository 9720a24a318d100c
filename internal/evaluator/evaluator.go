// Package evaluator computes quantitative schedule-quality metrics over
// any set of scheduled events: weekly requirement compliance, home/away
// balance, constraint violations, game-day preference compliance, game
// and practice spacing, matchup balance and spacing, game-slot
// efficiency, and weekly-distribution drift.
package evaluator

import (
	"github.com/noah-isme/ll-scheduler-kernel/internal/calendar"
	"github.com/noah-isme/ll-scheduler-kernel/internal/indices"
	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
)

// MetricReport is the per-metric result: a pass/fail verdict, a
// human-readable summary, and structured details for callers that want
// to drill in.
type MetricReport struct {
	Passed  bool           `json:"passed"`
	Summary string         `json:"summary"`
	Details map[string]any `json:"details,omitempty"`
}

// Report is the full set of ten metric reports plus the overall score.
type Report struct {
	WeeklyRequirements      MetricReport `json:"weeklyRequirements"`
	HomeAwayBalance         MetricReport `json:"homeAwayBalance"`
	ConstraintViolations    MetricReport `json:"constraintViolations"`
	GameDayPreferences      MetricReport `json:"gameDayPreferences"`
	GameSpacing             MetricReport `json:"gameSpacing"`
	PracticeSpacing         MetricReport `json:"practiceSpacing"`
	MatchupBalance          MetricReport `json:"matchupBalance"`
	MatchupSpacing          MetricReport `json:"matchupSpacing"`
	GameSlotEfficiency      MetricReport `json:"gameSlotEfficiency"`
	WeeklyGamesDistribution MetricReport `json:"weeklyGamesDistribution"`
	OverallScore            int          `json:"overallScore"`
	Timestamp               string       `json:"timestamp"`
}

// Input aggregates everything the Evaluator needs. AvailabilityBundle is
// optional; when absent, the outside-availability check inside
// constraintViolations is skipped.
type Input struct {
	Events              []models.ScheduledEventDraft
	Teams               []models.Team
	Divisions           []models.Division
	DivisionConfigs     map[string]models.DivisionConfig
	Fields              []models.SeasonField
	Cages               []models.SeasonCage
	Season              models.Season
	AvailabilityBundle  *models.AvailabilityBundle
}

// Evaluate is a pure function of its arguments (spec's evaluator
// idempotence property): no shared state is read or written.
func Evaluate(in Input, timestamp string) Report {
	idx := indices.BuildFromEvents(in.Events)
	divisionTeams := map[string][]string{}
	for _, t := range in.Teams {
		divisionTeams[t.DivisionID] = append(divisionTeams[t.DivisionID], t.ID)
	}

	r := Report{Timestamp: timestamp}
	r.WeeklyRequirements = weeklyRequirements(in, divisionTeams)
	r.HomeAwayBalance = homeAwayBalance(in)
	r.ConstraintViolations = constraintViolations(in, idx)
	r.GameDayPreferences = gameDayPreferences(in)
	r.GameSpacing = gameSpacing(in, divisionTeams)
	r.PracticeSpacing = practiceSpacing(in, divisionTeams)
	r.MatchupBalance = matchupBalance(in, divisionTeams)
	r.MatchupSpacing = matchupSpacing(in)
	r.GameSlotEfficiency = gameSlotEfficiency(in)
	r.WeeklyGamesDistribution = weeklyGamesDistribution(in)

	passed := 0
	for _, m := range []MetricReport{
		r.WeeklyRequirements, r.HomeAwayBalance, r.ConstraintViolations, r.GameDayPreferences,
		r.GameSpacing, r.PracticeSpacing, r.MatchupBalance, r.MatchupSpacing,
		r.GameSlotEfficiency, r.WeeklyGamesDistribution,
	} {
		if m.Passed {
			passed++
		}
	}
	r.OverallScore = round(100.0 * float64(passed) / 10.0)
	return r
}

func round(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}

func eventsByTeam(events []models.ScheduledEventDraft) map[string][]models.ScheduledEventDraft {
	out := map[string][]models.ScheduledEventDraft{}
	for _, e := range events {
		for _, teamID := range e.Teams() {
			out[teamID] = append(out[teamID], e)
		}
	}
	return out
}

func eventsOfType(events []models.ScheduledEventDraft, t models.EventType) []models.ScheduledEventDraft {
	var out []models.ScheduledEventDraft
	for _, e := range events {
		if e.EventType == t {
			out = append(out, e)
		}
	}
	return out
}

// weekKeysInRange mirrors the placement engine's week bucketing so
// quota checks land on the same weeks the schedule was built against.
func weekKeysInRange(season models.Season) []string {
	seen := map[string]bool{}
	var keys []string
	for _, d := range calendar.EnumerateDates(season.StartDate, season.EndDate) {
		wk := calendar.WeekBucket(d, season.StartDate, season.EndDate)
		if !seen[wk] {
			seen[wk] = true
			keys = append(keys, wk)
		}
	}
	return keys
}
