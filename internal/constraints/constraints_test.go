package constraints

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/ll-scheduler-kernel/internal/indices"
	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
	"github.com/noah-isme/ll-scheduler-kernel/internal/resources"
)

func practiceEvent(date, teamID, start, end, resourceID string) models.ScheduledEventDraft {
	return models.ScheduledEventDraft{
		EventType: models.EventPractice,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		FieldID:   models.StrPtr(resourceID),
		TeamID:    models.StrPtr(teamID),
	}
}

func TestResourceConflictDetectsOverlap(t *testing.T) {
	idx := indices.New()
	e := practiceEvent("2026-03-05", "team-1", "17:00", "18:00", "field-1")
	idx.Add(&e)

	overlapping := Candidate{Date: "2026-03-05", StartTime: "17:30", EndTime: "18:30", ResourceID: "field-1"}
	assert.True(t, ResourceConflict(overlapping, idx))

	disjoint := Candidate{Date: "2026-03-05", StartTime: "18:00", EndTime: "19:00", ResourceID: "field-1"}
	assert.False(t, ResourceConflict(disjoint, idx))
}

func TestTeamConflictDetectsOverlap(t *testing.T) {
	idx := indices.New()
	e := practiceEvent("2026-03-05", "team-1", "17:00", "18:00", "field-1")
	idx.Add(&e)

	c := Candidate{Date: "2026-03-05", StartTime: "17:30", EndTime: "18:30", TeamID: "team-1"}
	assert.True(t, TeamConflict("team-1", c, idx))
	assert.False(t, TeamConflict("team-2", c, idx))
}

func TestSameDayForbiddenBlocksTwoFieldEvents(t *testing.T) {
	idx := indices.New()
	e := practiceEvent("2026-03-05", "team-1", "09:00", "10:00", "field-1")
	idx.Add(&e)

	gameSameDay := Candidate{EventType: models.EventGame, Date: "2026-03-05", StartTime: "17:00", EndTime: "19:00"}
	assert.True(t, SameDayForbidden("team-1", gameSameDay, idx))
}

func TestSameDayForbiddenAllowsAdjacentPracticeAndCage(t *testing.T) {
	idx := indices.New()
	practice := practiceEvent("2026-03-01", "team-1", "10:00", "11:00", "field-1")
	idx.Add(&practice)

	adjacentCage := Candidate{EventType: models.EventCage, Date: "2026-03-01", StartTime: "11:10", EndTime: "12:00"}
	assert.False(t, SameDayForbidden("team-1", adjacentCage, idx))

	farCage := Candidate{EventType: models.EventCage, Date: "2026-03-01", StartTime: "15:00", EndTime: "16:00"}
	assert.True(t, SameDayForbidden("team-1", farCage, idx))
}

func TestMinDayGapDisabledWhenNonPositive(t *testing.T) {
	idx := indices.New()
	assert.False(t, MinDayGap("team-1", Candidate{Date: "2026-03-05"}, idx, 0))
}

func TestMinDayGapViolatedWhenTooClose(t *testing.T) {
	idx := indices.New()
	e := practiceEvent("2026-03-03", "team-1", "09:00", "10:00", "field-1")
	idx.Add(&e)

	tooClose := Candidate{Date: "2026-03-04", TeamID: "team-1"}
	assert.True(t, MinDayGap("team-1", tooClose, idx, 2))

	farEnough := Candidate{Date: "2026-03-06", TeamID: "team-1"}
	assert.False(t, MinDayGap("team-1", farEnough, idx, 2))
}

func TestEventTypeAdmissibleBlocksGamesBeforeStart(t *testing.T) {
	season := models.Season{GamesStartDate: "2026-03-07"}
	tooEarly := Candidate{EventType: models.EventGame, Date: "2026-03-05"}
	assert.False(t, EventTypeAdmissible(tooEarly, season))

	onTime := Candidate{EventType: models.EventGame, Date: "2026-03-07"}
	assert.True(t, EventTypeAdmissible(onTime, season))
}

func TestEventTypeAdmissibleBlocksBlackoutDates(t *testing.T) {
	season := models.Season{BlackoutDates: []string{"2026-03-10"}}
	c := Candidate{EventType: models.EventPractice, Date: "2026-03-10"}
	assert.False(t, EventTypeAdmissible(c, season))
}

func TestFitsWindowRejectsOutOfBoundsCandidate(t *testing.T) {
	slot := resources.ResourceSlot{StartTime: "09:00", EndTime: "12:00"}
	inside := Candidate{StartTime: "10:00", EndTime: "11:00"}
	assert.True(t, FitsWindow(inside, slot))

	outside := Candidate{StartTime: "11:30", EndTime: "13:00"}
	assert.False(t, FitsWindow(outside, slot))
}

func TestDivisionCompatibleEmptyMeansAll(t *testing.T) {
	assert.True(t, DivisionCompatible(nil, "div-1"))
	assert.True(t, DivisionCompatible([]string{"div-1"}, "div-1"))
	assert.False(t, DivisionCompatible([]string{"div-2"}, "div-1"))
}

func TestSingleEventWindowConflictBlocksASecondNonOverlappingBooking(t *testing.T) {
	idx := indices.New()
	slot := resources.ResourceSlot{ResourceID: "field-1", Date: "2026-03-05", StartTime: "09:00", EndTime: "13:00", SingleEventOnly: true}

	first := practiceEvent("2026-03-05", "team-1", "09:00", "10:00", "field-1")
	idx.Add(&first)

	second := Candidate{Date: "2026-03-05", StartTime: "11:00", EndTime: "12:00", ResourceID: "field-1"}
	assert.True(t, SingleEventWindowConflict(second, slot, idx))
}

func TestSingleEventWindowConflictIgnoresEventsOutsideTheWindow(t *testing.T) {
	idx := indices.New()
	slot := resources.ResourceSlot{ResourceID: "field-1", Date: "2026-03-05", StartTime: "09:00", EndTime: "13:00", SingleEventOnly: true}

	other := practiceEvent("2026-03-05", "team-1", "15:00", "16:00", "field-1")
	idx.Add(&other)

	second := Candidate{Date: "2026-03-05", StartTime: "11:00", EndTime: "12:00", ResourceID: "field-1"}
	assert.False(t, SingleEventWindowConflict(second, slot, idx))
}

func TestSingleEventWindowConflictDisabledWhenSlotAllowsMultiple(t *testing.T) {
	idx := indices.New()
	slot := resources.ResourceSlot{ResourceID: "field-1", Date: "2026-03-05", StartTime: "09:00", EndTime: "13:00", SingleEventOnly: false}

	first := practiceEvent("2026-03-05", "team-1", "09:00", "10:00", "field-1")
	idx.Add(&first)

	second := Candidate{Date: "2026-03-05", StartTime: "11:00", EndTime: "12:00", ResourceID: "field-1"}
	assert.False(t, SingleEventWindowConflict(second, slot, idx))
}
