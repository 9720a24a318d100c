package placement

import (
	"sort"

	"github.com/noah-isme/ll-scheduler-kernel/internal/calendar"
	"github.com/noah-isme/ll-scheduler-kernel/internal/constraints"
	kerr "github.com/noah-isme/ll-scheduler-kernel/pkg/errors"
	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
	"github.com/noah-isme/ll-scheduler-kernel/internal/resources"
	"github.com/noah-isme/ll-scheduler-kernel/internal/scoring"
)

// Matchup is one instance of a game to be placed: a single round of a
// round-robin pairing with home/away already assigned.
type Matchup struct {
	DivisionID string
	HomeTeamID string
	AwayTeamID string
}

// RoundRobinMatchups generates the flat list of game instances for one
// division using the circle method, cycling through additional full
// rounds (alternating home/away each cycle) until every team has been
// assigned totalGamesPerTeam games.
func RoundRobinMatchups(divisionID string, teamIDs []string, totalGamesPerTeam int) []Matchup {
	n := len(teamIDs)
	if n < 2 || totalGamesPerTeam <= 0 {
		return nil
	}
	teams := append([]string(nil), teamIDs...)
	sort.Strings(teams)

	hasBye := n%2 != 0
	if hasBye {
		teams = append(teams, "")
		n++
	}
	roundsPerCycle := n - 1
	numCycles := (totalGamesPerTeam + roundsPerCycle - 1) / roundsPerCycle

	var out []Matchup
	gamesAssigned := map[string]int{}

	for cycle := 0; cycle < numCycles; cycle++ {
		arr := append([]string(nil), teams...)
		for round := 0; round < roundsPerCycle; round++ {
			for i := 0; i < n/2; i++ {
				a, b := arr[i], arr[n-1-i]
				if a == "" || b == "" {
					continue
				}
				if gamesAssigned[a] >= totalGamesPerTeam || gamesAssigned[b] >= totalGamesPerTeam {
					continue
				}
				home, away := a, b
				if (cycle+round)%2 == 1 {
					home, away = b, a
				}
				out = append(out, Matchup{DivisionID: divisionID, HomeTeamID: home, AwayTeamID: away})
				gamesAssigned[a]++
				gamesAssigned[b]++
			}
			// rotate, keeping arr[0] fixed
			fixed := arr[0]
			rest := append([]string(nil), arr[1:]...)
			rest = append(rest[len(rest)-1:], rest[:len(rest)-1]...)
			arr = append([]string{fixed}, rest...)
		}
	}
	return out
}

// gameStartIncrementMinutes is the step used when probing start times
// inside an eligible window.
const gameStartIncrementMinutes = 30

// scheduleGames runs phase F.1: builds the competition-group budget,
// generates matchups per division, and places each instance into the
// highest-scoring admissible (slot, startTime).
func (e *Engine) scheduleGames() {
	fieldSlots := resources.BuildFieldSlots(e.input.Season, e.input.Fields, e.input.FieldAvailabilities, e.input.FieldOverrides)

	var gameSlots []resources.ResourceSlot
	for _, s := range fieldSlots {
		if resources.GameEligible(s, e.input.Season.GamesStartDate) {
			gameSlots = append(gameSlots, s)
		}
	}
	sort.Slice(gameSlots, func(i, j int) bool {
		if gameSlots[i].Date != gameSlots[j].Date {
			return gameSlots[i].Date < gameSlots[j].Date
		}
		return gameSlots[i].ResourceID < gameSlots[j].ResourceID
	})

	fieldByID := map[string]models.SeasonField{}
	for _, f := range e.input.Fields {
		fieldByID[f.ID] = f
	}

	totalGameWeeks := e.totalGameWeeks()

	for _, division := range e.orderedDivisions() {
		cfg, ok := e.input.DivisionConfigs[division.ID]
		if !ok {
			continue
		}
		teamIDs := e.teamsInDivision(division.ID)
		if len(teamIDs) < 2 {
			continue
		}
		totalGamesPerTeam := 0
		for w := 1; w <= totalGameWeeks; w++ {
			totalGamesPerTeam += cfg.GamesPerWeekForWeek(w)
		}
		if cfg.MaxGamesPerSeason > 0 && totalGamesPerTeam > cfg.MaxGamesPerSeason {
			totalGamesPerTeam = cfg.MaxGamesPerSeason
		}

		matchups := RoundRobinMatchups(division.ID, teamIDs, totalGamesPerTeam)
		e.rng.Shuffle(len(matchups), func(i, j int) { matchups[i], matchups[j] = matchups[j], matchups[i] })

		for _, m := range matchups {
			if e.cancelled() {
				return
			}
			e.placeGame(m, cfg, gameSlots, fieldByID)
		}
	}
}

func (e *Engine) placeGame(m Matchup, cfg models.DivisionConfig, gameSlots []resources.ResourceSlot, fieldByID map[string]models.SeasonField) {
	durationMinutes := int(cfg.GameDurationHours * 60)
	if durationMinutes <= 0 {
		durationMinutes = 120
	}

	var best *constraints.Candidate
	var bestScore float64
	failureReasons := map[string]int{}

	for _, slot := range gameSlots {
		field := fieldByID[slot.ResourceID]
		if !models.Compatible(field.DivisionCompatibility, m.DivisionID) {
			failureReasons[kerr.ReasonDivisionIncompatible]++
			continue
		}

		weekIndex := calendar.GameWeekIndex(slot.Date, e.input.Season.GamesStartDate)
		if e.isPrimaryRequiredDay(cfg, field.ID, slot.DayOfWeek) && !e.budget.CanUse(m.DivisionID, slot.DayOfWeek, weekIndex) {
			failureReasons[kerr.ReasonRequiredDayBudgetExhausted]++
			continue
		}

		windowStart, windowEnd := calendar.Minutes(slot.StartTime), calendar.Minutes(slot.EndTime)
		for start := windowStart; start+durationMinutes <= windowEnd; start += gameStartIncrementMinutes {
			startTime := calendar.TimeFromMinutes(start)
			endTime := calendar.TimeFromMinutes(start + durationMinutes)

			cand := constraints.Candidate{
				DivisionID: m.DivisionID,
				EventType:  models.EventGame,
				Date:       slot.Date,
				StartTime:  startTime,
				EndTime:    endTime,
				ResourceID: slot.ResourceID,
				HomeTeamID: m.HomeTeamID,
				AwayTeamID: m.AwayTeamID,
			}

			if reason, ok := e.checkGameConstraints(cand, slot); !ok {
				failureReasons[reason]++
				continue
			}

			weekKey := gameWeekKeyFor(cand.Date, e.input.Season.GamesStartDate)
			score, _ := scoring.Score(cand, e.ctx, e.input.Weights, weekKey, "")
			if best == nil || score > bestScore {
				c := cand
				best = &c
				bestScore = score
			}
		}
	}

	if best == nil {
		e.recordGameWarning(m, failureReasons)
		return
	}

	e.commitEvent(*best, cfg)
	weekIndex := calendar.GameWeekIndex(best.Date, e.input.Season.GamesStartDate)
	field := fieldByID[best.ResourceID]
	if e.isPrimaryRequiredDay(cfg, field.ID, calendar.DayOfWeek(best.Date)) {
		e.budget.Use(m.DivisionID, calendar.DayOfWeek(best.Date), weekIndex)
	}
}

func (e *Engine) checkGameConstraints(cand constraints.Candidate, slot resources.ResourceSlot) (string, bool) {
	if !constraints.FitsWindow(cand, slot) {
		return kerr.ReasonNoAvailableTimeSlot, false
	}
	if constraints.ResourceConflict(cand, e.ctx.Indices) {
		return kerr.ReasonNoAvailableTimeSlot, false
	}
	if constraints.SingleEventWindowConflict(cand, slot, e.ctx.Indices) {
		return kerr.ReasonNoAvailableTimeSlot, false
	}
	if constraints.TeamConflict(cand.HomeTeamID, cand, e.ctx.Indices) || constraints.SameDayForbidden(cand.HomeTeamID, cand, e.ctx.Indices) {
		return kerr.ReasonHomeTeamHasEventOnDate, false
	}
	if constraints.TeamConflict(cand.AwayTeamID, cand, e.ctx.Indices) || constraints.SameDayForbidden(cand.AwayTeamID, cand, e.ctx.Indices) {
		return kerr.ReasonAwayTeamHasEventOnDate, false
	}
	cfg := e.input.DivisionConfigs[cand.DivisionID]
	if constraints.MinDayGap(cand.HomeTeamID, cand, e.ctx.Indices, cfg.MinConsecutiveDayGap) ||
		constraints.MinDayGap(cand.AwayTeamID, cand, e.ctx.Indices, cfg.MinConsecutiveDayGap) {
		return kerr.ReasonMinDayGapViolation, false
	}
	if !constraints.EventTypeAdmissible(cand, e.input.Season) {
		return kerr.ReasonNoAvailableTimeSlot, false
	}
	return "", true
}

func (e *Engine) isPrimaryRequiredDay(cfg models.DivisionConfig, fieldID string, dayOfWeek int) bool {
	if len(cfg.FieldPreferences) == 0 || cfg.FieldPreferences[0] != fieldID {
		return false
	}
	pref := cfg.PreferenceForDay(dayOfWeek)
	return pref.Priority == models.PriorityRequired
}

func (e *Engine) recordGameWarning(m Matchup, reasons map[string]int) {
	reason := kerr.ReasonNoAvailableTimeSlot
	best := 0
	for r, count := range reasons {
		if count > best {
			best = count
			reason = r
		}
	}
	e.warnings = append(e.warnings, kerr.Warning{
		ReasonCode: reason,
		Message:    "could not place game",
		Details: map[string]any{
			"divisionId": m.DivisionID,
			"homeTeamId": m.HomeTeamID,
			"awayTeamId": m.AwayTeamID,
			"reasons":    reasons,
		},
	})
}
