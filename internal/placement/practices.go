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

const pairAdjacencyMinutes = 15

// weekKeysInRange returns every distinct Monday-bucketed week key a
// season's date range touches, in chronological order.
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

// schedulePractices runs phase F.2: for every team, for every week,
// schedules practicesPerWeek sessions one at a time, optionally pairing
// one with a cage session on Sunday when the division enables it.
func (e *Engine) schedulePractices() {
	fieldSlots := e.practiceEligibleFieldSlots()
	cageSlots := e.practiceEligibleCageSlots()

	fieldByID := map[string]models.SeasonField{}
	for _, f := range e.input.Fields {
		fieldByID[f.ID] = f
	}
	cageByID := map[string]models.SeasonCage{}
	for _, c := range e.input.Cages {
		cageByID[c.ID] = c
	}

	weeks := weekKeysInRange(e.input.Season)

	for _, division := range e.orderedDivisions() {
		cfg, ok := e.input.DivisionConfigs[division.ID]
		if !ok || cfg.PracticesPerWeek <= 0 {
			continue
		}
		teamIDs := e.teamsInDivision(division.ID)

		for _, weekKey := range weeks {
			if e.cancelled() {
				return
			}
			for _, teamID := range teamIDs {
				e.schedulePracticesForTeamWeek(teamID, division.ID, cfg, weekKey, fieldSlots, cageSlots, fieldByID, cageByID)
			}
		}
	}
}

func (e *Engine) practiceEligibleFieldSlots() []resources.ResourceSlot {
	all := resources.BuildFieldSlots(e.input.Season, e.input.Fields, e.input.FieldAvailabilities, e.input.FieldOverrides)
	var out []resources.ResourceSlot
	for _, s := range all {
		if resources.PracticeCageEligible(s, e.input.Season) {
			out = append(out, s)
		}
	}
	return out
}

func (e *Engine) practiceEligibleCageSlots() []resources.ResourceSlot {
	all := resources.BuildCageSlots(e.input.Season, e.input.Cages, e.input.CageAvailabilities, e.input.CageOverrides)
	var out []resources.ResourceSlot
	for _, s := range all {
		if resources.PracticeCageEligible(s, e.input.Season) {
			out = append(out, s)
		}
	}
	return out
}

func (e *Engine) schedulePracticesForTeamWeek(
	teamID, divisionID string,
	cfg models.DivisionConfig,
	weekKey string,
	fieldSlots, cageSlots []resources.ResourceSlot,
	fieldByID map[string]models.SeasonField,
	cageByID map[string]models.SeasonCage,
) {
	state := e.ctx.TeamState(teamID)
	week := state.Week(weekKey)
	remainingPractices := cfg.PracticesPerWeek - week.Practices
	if remainingPractices <= 0 {
		return
	}

	if cfg.SundayPairedPractice {
		remainingCages := cfg.CageSessionsPerWeek - week.Cages
		if remainingCages > 0 {
			if e.trySundayPair(teamID, divisionID, cfg, weekKey, fieldSlots, cageSlots, fieldByID, cageByID) {
				remainingPractices--
			}
		}
	}

	for i := 0; i < remainingPractices; i++ {
		if !e.placeSingleFieldEvent(teamID, divisionID, cfg, models.EventPractice, weekKey, fieldSlots, fieldByID) {
			break
		}
	}
}

// trySundayPair attempts to back-to-back a field practice with a cage
// session on a Sunday within weekKey, trying both orderings. It returns
// true only when both halves were placed.
func (e *Engine) trySundayPair(
	teamID, divisionID string,
	cfg models.DivisionConfig,
	weekKey string,
	fieldSlots, cageSlots []resources.ResourceSlot,
	fieldByID map[string]models.SeasonField,
	cageByID map[string]models.SeasonCage,
) bool {
	var sundayField, sundayCage []resources.ResourceSlot
	for _, s := range fieldSlots {
		if s.DayOfWeek == 0 && calendar.WeekBucket(s.Date, e.input.Season.StartDate, e.input.Season.EndDate) == weekKey {
			sundayField = append(sundayField, s)
		}
	}
	for _, s := range cageSlots {
		if s.DayOfWeek == 0 && calendar.WeekBucket(s.Date, e.input.Season.StartDate, e.input.Season.EndDate) == weekKey {
			sundayCage = append(sundayCage, s)
		}
	}

	practiceDuration := int(cfg.PracticeDurationHours * 60)
	cageDuration := int(cfg.CageSessionDurationHours * 60)
	if practiceDuration <= 0 || cageDuration <= 0 {
		return false
	}

	for _, fs := range sundayField {
		if !models.Compatible(fieldByID[fs.ResourceID].DivisionCompatibility, divisionID) {
			continue
		}
		for _, cs := range sundayCage {
			if fs.Date != cs.Date {
				continue
			}
			if !models.Compatible(cageByID[cs.ResourceID].DivisionCompatibility, divisionID) {
				continue
			}
			if pair, ok := e.buildAdjacentPair(teamID, divisionID, fs, cs, practiceDuration, cageDuration); ok {
				e.commitEvent(pair[0], cfg)
				e.commitEvent(pair[1], cfg)
				return true
			}
		}
	}
	return false
}

// buildAdjacentPair tries a practice ending where the cage begins (and
// vice versa), returning the first admissible ordering.
func (e *Engine) buildAdjacentPair(teamID, divisionID string, fieldSlot, cageSlot resources.ResourceSlot, practiceDuration, cageDuration int) ([2]constraints.Candidate, bool) {
	fs, fe := calendar.Minutes(fieldSlot.StartTime), calendar.Minutes(fieldSlot.EndTime)
	cs, ce := calendar.Minutes(cageSlot.StartTime), calendar.Minutes(cageSlot.EndTime)

	tryOrder := func(practiceStart, cageStart int) ([2]constraints.Candidate, bool) {
		practiceEnd := practiceStart + practiceDuration
		cageEnd := cageStart + cageDuration
		if practiceStart < fs || practiceEnd > fe || cageStart < cs || cageEnd > ce {
			return [2]constraints.Candidate{}, false
		}
		practice := constraints.Candidate{
			DivisionID: divisionID, EventType: models.EventPractice,
			Date: fieldSlot.Date, StartTime: calendar.TimeFromMinutes(practiceStart), EndTime: calendar.TimeFromMinutes(practiceEnd),
			ResourceID: fieldSlot.ResourceID, TeamID: teamID,
		}
		cage := constraints.Candidate{
			DivisionID: divisionID, EventType: models.EventCage,
			Date: cageSlot.Date, StartTime: calendar.TimeFromMinutes(cageStart), EndTime: calendar.TimeFromMinutes(cageEnd),
			ResourceID: cageSlot.ResourceID, TeamID: teamID,
		}
		if _, ok := e.checkNonGameConstraints(practice, fieldSlot); !ok {
			return [2]constraints.Candidate{}, false
		}
		if _, ok := e.checkNonGameConstraints(cage, cageSlot); !ok {
			return [2]constraints.Candidate{}, false
		}
		return [2]constraints.Candidate{practice, cage}, true
	}

	if pair, ok := tryOrder(fs, fs+practiceDuration); ok {
		return pair, true
	}
	if pair, ok := tryOrder(cs+cageDuration, cs); ok {
		return pair, true
	}
	return [2]constraints.Candidate{}, false
}

// placeSingleFieldEvent schedules one practice for teamID in weekKey,
// scoring every admissible (slot, startTime) and committing the best.
func (e *Engine) placeSingleFieldEvent(
	teamID, divisionID string,
	cfg models.DivisionConfig,
	eventType models.EventType,
	weekKey string,
	slots []resources.ResourceSlot,
	fieldByID map[string]models.SeasonField,
) bool {
	durationMinutes := int(cfg.PracticeDurationHours * 60)
	if durationMinutes <= 0 {
		durationMinutes = 60
	}

	candidates := e.weekSlots(slots, weekKey)

	var best *constraints.Candidate
	var bestScore float64
	failureReasons := map[string]int{}

	for _, slot := range candidates {
		if !models.Compatible(fieldByID[slot.ResourceID].DivisionCompatibility, divisionID) {
			failureReasons[kerr.ReasonDivisionIncompatible]++
			continue
		}
		windowStart, windowEnd := calendar.Minutes(slot.StartTime), calendar.Minutes(slot.EndTime)
		for start := windowStart; start+durationMinutes <= windowEnd; start += gameStartIncrementMinutes {
			cand := constraints.Candidate{
				DivisionID: divisionID, EventType: eventType,
				Date: slot.Date, StartTime: calendar.TimeFromMinutes(start), EndTime: calendar.TimeFromMinutes(start + durationMinutes),
				ResourceID: slot.ResourceID, TeamID: teamID,
			}
			if reason, ok := e.checkNonGameConstraints(cand, slot); !ok {
				failureReasons[reason]++
				continue
			}
			score, _ := scoring.Score(cand, e.ctx, e.input.Weights, weekKey, "")
			if best == nil || score > bestScore {
				c := cand
				best = &c
				bestScore = score
			}
		}
	}

	if best == nil {
		e.warnings = append(e.warnings, kerr.Warning{
			ReasonCode: kerr.ReasonNoAvailableTimeSlot,
			Message:    "could not place practice",
			Details: map[string]any{
				"teamId": teamID, "divisionId": divisionID, "week": weekKey, "reasons": failureReasons,
			},
		})
		return false
	}
	e.commitEvent(*best, cfg)
	return true
}

func (e *Engine) weekSlots(slots []resources.ResourceSlot, weekKey string) []resources.ResourceSlot {
	var out []resources.ResourceSlot
	for _, s := range slots {
		if calendar.WeekBucket(s.Date, e.input.Season.StartDate, e.input.Season.EndDate) == weekKey {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ResourceID < out[j].ResourceID
	})
	return out
}

// checkNonGameConstraints runs the shared predicate set for a
// single-team (practice or cage) candidate.
func (e *Engine) checkNonGameConstraints(cand constraints.Candidate, slot resources.ResourceSlot) (string, bool) {
	if !constraints.FitsWindow(cand, slot) {
		return kerr.ReasonNoAvailableTimeSlot, false
	}
	if constraints.ResourceConflict(cand, e.ctx.Indices) {
		return kerr.ReasonNoAvailableTimeSlot, false
	}
	if constraints.SingleEventWindowConflict(cand, slot, e.ctx.Indices) {
		return kerr.ReasonNoAvailableTimeSlot, false
	}
	if constraints.TeamConflict(cand.TeamID, cand, e.ctx.Indices) {
		return kerr.ReasonHomeTeamHasEventOnDate, false
	}
	if constraints.SameDayForbidden(cand.TeamID, cand, e.ctx.Indices) {
		return kerr.ReasonHomeTeamHasEventOnDate, false
	}
	cfg := e.input.DivisionConfigs[cand.DivisionID]
	if constraints.MinDayGap(cand.TeamID, cand, e.ctx.Indices, cfg.MinConsecutiveDayGap) {
		return kerr.ReasonMinDayGapViolation, false
	}
	if !constraints.EventTypeAdmissible(cand, e.input.Season) {
		return kerr.ReasonNoAvailableTimeSlot, false
	}
	return "", true
}
