package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ll-scheduler-kernel/internal/calendar"
	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
)

func season() models.Season {
	return models.Season{
		ID:             "s1",
		StartDate:      "2026-03-02",
		EndDate:        "2026-03-08",
		GamesStartDate: "2026-03-07",
	}
}

func TestBuildFieldSlotsAppliesWeeklyAvailability(t *testing.T) {
	// 2026-03-02 is a Monday; 2026-03-07 is a Saturday.
	field := models.SeasonField{ID: "f1"}
	avail := []models.FieldAvailability{
		{SeasonFieldID: "f1", DayOfWeek: 6, StartTime: "09:00", EndTime: "18:00"},
	}

	slots := BuildFieldSlots(season(), []models.SeasonField{field}, avail, nil)

	require.Len(t, slots, 1)
	assert.Equal(t, "2026-03-07", slots[0].Date)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "18:00", slots[0].EndTime)
}

func TestBuildFieldSlotsFullDayBlackoutRemovesWindow(t *testing.T) {
	field := models.SeasonField{ID: "f1"}
	avail := []models.FieldAvailability{
		{SeasonFieldID: "f1", DayOfWeek: 6, StartTime: "09:00", EndTime: "18:00"},
	}
	overrides := []models.FieldDateOverride{
		{SeasonFieldID: "f1", Date: "2026-03-07", OverrideType: models.OverrideBlackout},
	}

	slots := BuildFieldSlots(season(), []models.SeasonField{field}, avail, overrides)
	assert.Empty(t, slots)
}

func TestBuildFieldSlotsPartialBlackoutSplitsWindow(t *testing.T) {
	field := models.SeasonField{ID: "f1"}
	avail := []models.FieldAvailability{
		{SeasonFieldID: "f1", DayOfWeek: 6, StartTime: "09:00", EndTime: "18:00"},
	}
	overrides := []models.FieldDateOverride{
		{SeasonFieldID: "f1", Date: "2026-03-07", OverrideType: models.OverrideBlackout, StartTime: "12:00", EndTime: "13:00"},
	}

	slots := BuildFieldSlots(season(), []models.SeasonField{field}, avail, overrides)
	require.Len(t, slots, 2)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "12:00", slots[0].EndTime)
	assert.Equal(t, "13:00", slots[1].StartTime)
	assert.Equal(t, "18:00", slots[1].EndTime)
}

func TestBuildFieldSlotsAddedOverrideIntroducesExtraWindow(t *testing.T) {
	field := models.SeasonField{ID: "f1"}
	overrides := []models.FieldDateOverride{
		{SeasonFieldID: "f1", Date: "2026-03-02", OverrideType: models.OverrideAdded, StartTime: "10:00", EndTime: "11:00"},
	}

	slots := BuildFieldSlots(season(), []models.SeasonField{field}, nil, overrides)
	require.Len(t, slots, 1)
	assert.Equal(t, "2026-03-02", slots[0].Date)
	assert.Equal(t, "10:00", slots[0].StartTime)
}

func TestBuildCageSlotsMirrorsFieldSlots(t *testing.T) {
	cage := models.SeasonCage{ID: "c1"}
	avail := []models.CageAvailability{
		{SeasonCageID: "c1", DayOfWeek: 1, StartTime: "16:00", EndTime: "20:00"},
	}
	slots := BuildCageSlots(season(), []models.SeasonCage{cage}, avail, nil)
	require.Len(t, slots, 1)
	assert.Equal(t, models.ResourceCage, slots[0].ResourceType)
}

func TestGameEligibleRespectsGamesStartDate(t *testing.T) {
	slot := ResourceSlot{Date: "2026-03-05"}
	assert.False(t, GameEligible(slot, "2026-03-07"))

	slot.Date = "2026-03-07"
	assert.True(t, GameEligible(slot, "2026-03-07"))
}

func TestPracticeCageEligibleExcludesBlackoutDates(t *testing.T) {
	s := season()
	s.BlackoutDates = []string{"2026-03-05"}

	assert.False(t, PracticeCageEligible(ResourceSlot{Date: "2026-03-05"}, s))
	assert.True(t, PracticeCageEligible(ResourceSlot{Date: "2026-03-04"}, s))
	assert.False(t, PracticeCageEligible(ResourceSlot{Date: "2026-03-20"}, s))
}

func TestSubtractIntervalDiscardsFullyCoveredWindow(t *testing.T) {
	windows := []window{{start: calendar.Minutes("09:00"), end: calendar.Minutes("10:00")}}
	result := subtractInterval(windows, calendar.Minutes("08:00"), calendar.Minutes("11:00"))
	assert.Empty(t, result)
}
