package placement

import (
	"github.com/noah-isme/ll-scheduler-kernel/internal/calendar"
	"github.com/noah-isme/ll-scheduler-kernel/internal/constraints"
	kerr "github.com/noah-isme/ll-scheduler-kernel/pkg/errors"
	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
	"github.com/noah-isme/ll-scheduler-kernel/internal/resources"
	"github.com/noah-isme/ll-scheduler-kernel/internal/scoring"
)

// gameDayCageCutoffMinutes is the 16:45 split: teams playing that day
// may only use a cage before the cutoff, teams not playing may only use
// one at or after it.
const gameDayCageCutoffMinutes = 16*60 + 45

// scheduleCages runs phase F.3.
func (e *Engine) scheduleCages() {
	cageSlots := e.practiceEligibleCageSlots()
	cageByID := map[string]models.SeasonCage{}
	for _, c := range e.input.Cages {
		cageByID[c.ID] = c
	}
	weeks := weekKeysInRange(e.input.Season)

	for _, division := range e.orderedDivisions() {
		cfg, ok := e.input.DivisionConfigs[division.ID]
		if !ok || cfg.CageSessionsPerWeek <= 0 {
			continue
		}
		teamIDs := e.teamsInDivision(division.ID)

		for _, weekKey := range weeks {
			if e.cancelled() {
				return
			}
			for _, teamID := range teamIDs {
				state := e.ctx.TeamState(teamID)
				week := state.Week(weekKey)
				remaining := cfg.CageSessionsPerWeek - week.Cages
				for i := 0; i < remaining; i++ {
					if !e.placeSingleCageEvent(teamID, division.ID, cfg, weekKey, cageSlots, cageByID) {
						break
					}
				}
			}
		}
	}
}

func (e *Engine) placeSingleCageEvent(
	teamID, divisionID string,
	cfg models.DivisionConfig,
	weekKey string,
	slots []resources.ResourceSlot,
	cageByID map[string]models.SeasonCage,
) bool {
	durationMinutes := int(cfg.CageSessionDurationHours * 60)
	if durationMinutes <= 0 {
		durationMinutes = 60
	}

	candidates := e.weekSlots(slots, weekKey)
	playingToday := map[string]bool{}

	var best *constraints.Candidate
	var bestScore float64
	failureReasons := map[string]int{}

	for _, slot := range candidates {
		if !models.Compatible(cageByID[slot.ResourceID].DivisionCompatibility, divisionID) {
			failureReasons[kerr.ReasonDivisionIncompatible]++
			continue
		}

		isPlaying, ok := playingToday[slot.Date]
		if !ok {
			isPlaying = e.teamPlayingOnDate(teamID, slot.Date)
			playingToday[slot.Date] = isPlaying
		}
		anyGame := e.hasGameOnDate(slot.Date)

		windowStart, windowEnd := calendar.Minutes(slot.StartTime), calendar.Minutes(slot.EndTime)
		for start := windowStart; start+durationMinutes <= windowEnd; start += gameStartIncrementMinutes {
			if anyGame {
				if isPlaying && start+durationMinutes > gameDayCageCutoffMinutes {
					failureReasons[kerr.ReasonGameDayPlayingAfterCutoff]++
					continue
				}
				if !isPlaying && start < gameDayCageCutoffMinutes {
					failureReasons[kerr.ReasonGameDayNotPlayingBeforeCutoff]++
					continue
				}
			}

			cand := constraints.Candidate{
				DivisionID: divisionID, EventType: models.EventCage,
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
			Message:    "could not place cage session",
			Details: map[string]any{
				"teamId": teamID, "divisionId": divisionID, "week": weekKey, "reasons": failureReasons,
			},
		})
		return false
	}
	e.commitEvent(*best, cfg)
	return true
}

// teamPlayingOnDate reports whether teamID already has a game placed on
// date. Games are always scheduled in the phase preceding cages, so this
// reflects the final game schedule for that date.
func (e *Engine) teamPlayingOnDate(teamID, date string) bool {
	for _, ev := range e.ctx.Indices.OnTeamDate(teamID, date) {
		if ev.EventType == models.EventGame {
			return true
		}
	}
	return false
}

// hasGameOnDate reports whether any team in the league has a game placed
// on date, triggering the game-day cage priority split.
func (e *Engine) hasGameOnDate(date string) bool {
	for _, ev := range e.events {
		if ev.Date == date && ev.EventType == models.EventGame {
			return true
		}
	}
	return false
}
