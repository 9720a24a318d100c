// Package constraints implements the hard predicate checks the Placement
// Engine consults before accepting any candidate placement.
// Every predicate is pure: it reads the shared indices but never mutates
// them.
package constraints

import (
	"github.com/noah-isme/ll-scheduler-kernel/internal/calendar"
	"github.com/noah-isme/ll-scheduler-kernel/internal/indices"
	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
	"github.com/noah-isme/ll-scheduler-kernel/internal/resources"
)

// Candidate is the (not-yet-placed) event under consideration.
type Candidate struct {
	DivisionID string
	EventType  models.EventType
	Date       string
	StartTime  string
	EndTime    string
	ResourceID string
	HomeTeamID string // game only
	AwayTeamID string // game only
	TeamID     string // practice/cage only
}

// Teams returns every team ID participating in the candidate.
func (c Candidate) Teams() []string {
	var ids []string
	if c.HomeTeamID != "" {
		ids = append(ids, c.HomeTeamID)
	}
	if c.AwayTeamID != "" {
		ids = append(ids, c.AwayTeamID)
	}
	if c.TeamID != "" {
		ids = append(ids, c.TeamID)
	}
	return ids
}

func overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return calendar.DatesOverlap(calendar.Minutes(aStart), calendar.Minutes(aEnd), calendar.Minutes(bStart), calendar.Minutes(bEnd))
}

// ResourceConflict fails when the candidate's resource is already booked
// on that date with an overlapping time range.
func ResourceConflict(c Candidate, idx *indices.Indices) bool {
	for _, e := range idx.OnResourceDate(c.ResourceID, c.Date) {
		if overlaps(c.StartTime, c.EndTime, e.StartTime, e.EndTime) {
			return true
		}
	}
	return false
}

// TeamConflict fails when teamID already appears in a time-overlapping
// event on the candidate's date.
func TeamConflict(teamID string, c Candidate, idx *indices.Indices) bool {
	for _, e := range idx.OnTeamDate(teamID, c.Date) {
		if overlaps(c.StartTime, c.EndTime, e.StartTime, e.EndTime) {
			return true
		}
	}
	return false
}

// SameDayForbidden enforces: no two field events for a team on one date;
// no game+cage on one date; no two cage events on one date; a
// practice+cage pairing is allowed only when adjacent (gap <= 15 min).
func SameDayForbidden(teamID string, c Candidate, idx *indices.Indices) bool {
	existing := idx.OnTeamDate(teamID, c.Date)
	for _, e := range existing {
		switch {
		case c.EventType == models.EventGame && e.IsFieldEvent():
			return true
		case c.EventType == models.EventPractice && e.IsFieldEvent():
			return true
		case c.EventType == models.EventGame && e.EventType == models.EventCage:
			return true
		case c.EventType == models.EventCage && e.EventType == models.EventGame:
			return true
		case c.EventType == models.EventCage && e.EventType == models.EventCage:
			return true
		case c.EventType == models.EventPractice && e.EventType == models.EventCage:
			if !adjacentWithin(c.StartTime, c.EndTime, e.StartTime, e.EndTime, 15) {
				return true
			}
		case c.EventType == models.EventCage && e.EventType == models.EventPractice:
			if !adjacentWithin(c.StartTime, c.EndTime, e.StartTime, e.EndTime, 15) {
				return true
			}
		}
	}
	return false
}

// adjacentWithin reports whether the gap between [aStart,aEnd) and
// [bStart,bEnd) is at most maxGapMinutes (in either order), treating
// overlap as a zero gap.
func adjacentWithin(aStart, aEnd, bStart, bEnd string, maxGapMinutes int) bool {
	as, ae := calendar.Minutes(aStart), calendar.Minutes(aEnd)
	bs, be := calendar.Minutes(bStart), calendar.Minutes(bEnd)
	if calendar.DatesOverlap(as, ae, bs, be) {
		return true
	}
	var gap int
	if as >= be {
		gap = as - be
	} else {
		gap = bs - ae
	}
	return gap <= maxGapMinutes
}

// MinDayGap fails when any other event for the team is strictly fewer
// than minDays apart and not on the same date. minDays <= 0 disables the
// check (superset-schema default).
func MinDayGap(teamID string, c Candidate, idx *indices.Indices, minDays int) bool {
	if minDays <= 0 {
		return false
	}
	for _, e := range idx.AllForTeam(teamID) {
		if e.Date == c.Date {
			continue
		}
		gap := calendar.DaysBetween(c.Date, e.Date)
		if gap < minDays {
			return true
		}
	}
	return false
}

// DivisionCompatible reports whether a resource with the given
// compatibility list may host an event for divisionID.
func DivisionCompatible(compatibility []string, divisionID string) bool {
	return models.Compatible(compatibility, divisionID)
}

// EventTypeAdmissible fails when a game is scheduled before
// gamesStartDate, or any event falls on a date blacked out for its type.
func EventTypeAdmissible(c Candidate, season models.Season) bool {
	if c.EventType == models.EventGame {
		d, err1 := calendar.ParseDate(c.Date)
		g, err2 := calendar.ParseDate(season.GamesStartDate)
		if err1 != nil || err2 != nil || d.Before(g) {
			return false
		}
	}
	for _, b := range season.BlackoutDates {
		if b == c.Date {
			return false
		}
	}
	return true
}

// FitsWindow fails when the candidate's [startTime,endTime) is not fully
// contained in the slot's window.
func FitsWindow(c Candidate, slot resources.ResourceSlot) bool {
	cs, ce := calendar.Minutes(c.StartTime), calendar.Minutes(c.EndTime)
	ws, we := calendar.Minutes(slot.StartTime), calendar.Minutes(slot.EndTime)
	return cs >= ws && ce <= we
}

// SingleEventWindowConflict fails when slot is marked single-event-only
// and the candidate's resource already hosts another event, on that
// date, inside the slot's window — even one that doesn't overlap the
// candidate's own time range.
func SingleEventWindowConflict(c Candidate, slot resources.ResourceSlot, idx *indices.Indices) bool {
	if !slot.SingleEventOnly {
		return false
	}
	ws, we := calendar.Minutes(slot.StartTime), calendar.Minutes(slot.EndTime)
	for _, e := range idx.OnResourceDate(c.ResourceID, c.Date) {
		es, ee := calendar.Minutes(e.StartTime), calendar.Minutes(e.EndTime)
		if es >= ws && ee <= we {
			return true
		}
	}
	return false
}
