package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
)

func gameEvent(id, divisionID, date, start, end, fieldID, home, away string) models.ScheduledEventDraft {
	return models.ScheduledEventDraft{
		ID: id, DivisionID: divisionID, EventType: models.EventGame,
		Date: date, StartTime: start, EndTime: end,
		FieldID: models.StrPtr(fieldID), HomeTeamID: models.StrPtr(home), AwayTeamID: models.StrPtr(away),
		Status: models.EventStatusScheduled,
	}
}

func testInput() Input {
	return Input{
		Teams: []models.Team{
			{ID: "team-a", DivisionID: "minors"},
			{ID: "team-b", DivisionID: "minors"},
			{ID: "team-c", DivisionID: "minors"},
			{ID: "team-d", DivisionID: "minors"},
		},
		Divisions: []models.Division{{ID: "minors", Name: "Minors"}},
		DivisionConfigs: map[string]models.DivisionConfig{
			"minors": {DivisionID: "minors", GamesPerWeek: 1, PracticesPerWeek: 1},
		},
		Season: models.Season{
			ID: "season-1", StartDate: "2026-03-02", EndDate: "2026-03-15", GamesStartDate: "2026-03-07",
		},
	}
}

func TestHomeAwayBalancePassesWhenSplitIsEven(t *testing.T) {
	in := testInput()
	in.Events = []models.ScheduledEventDraft{
		gameEvent("g1", "minors", "2026-03-07", "10:00", "12:00", "field-1", "team-a", "team-b"),
		gameEvent("g2", "minors", "2026-03-14", "10:00", "12:00", "field-1", "team-b", "team-a"),
	}
	report := homeAwayBalance(in)
	assert.True(t, report.Passed)
}

func TestHomeAwayBalanceFailsWhenSkewed(t *testing.T) {
	in := testInput()
	in.Events = []models.ScheduledEventDraft{
		gameEvent("g1", "minors", "2026-03-07", "10:00", "12:00", "field-1", "team-a", "team-b"),
		gameEvent("g2", "minors", "2026-03-14", "10:00", "12:00", "field-1", "team-a", "team-b"),
		gameEvent("g3", "minors", "2026-03-21", "10:00", "12:00", "field-1", "team-a", "team-b"),
	}
	report := homeAwayBalance(in)
	assert.False(t, report.Passed)
}

func TestConstraintViolationsDetectsResourceOverlap(t *testing.T) {
	in := testInput()
	in.Events = []models.ScheduledEventDraft{
		gameEvent("g1", "minors", "2026-03-07", "10:00", "12:00", "field-1", "team-a", "team-b"),
		gameEvent("g2", "minors", "2026-03-07", "11:00", "13:00", "field-1", "team-c", "team-d"),
	}
	report := constraintViolations(in, nil)
	assert.False(t, report.Passed)
	errs := report.Details["errors"].([]map[string]any)
	require.NotEmpty(t, errs)
}

func TestConstraintViolationsDetectsGameBeforeStartDate(t *testing.T) {
	in := testInput()
	in.Events = []models.ScheduledEventDraft{
		gameEvent("g1", "minors", "2026-03-03", "10:00", "12:00", "field-1", "team-a", "team-b"),
	}
	report := constraintViolations(in, nil)
	assert.False(t, report.Passed)
}

func TestGameDayPreferencesFailsWhenRequiredDayEmpty(t *testing.T) {
	in := testInput()
	in.DivisionConfigs["minors"] = models.DivisionConfig{
		DivisionID: "minors",
		GameDayPreferences: []models.GameDayPreference{
			{DayOfWeek: 6, Priority: models.PriorityRequired},
		},
	}
	in.Events = []models.ScheduledEventDraft{
		gameEvent("g1", "minors", "2026-03-09", "10:00", "12:00", "field-1", "team-a", "team-b"), // Monday
	}
	report := gameDayPreferences(in)
	assert.False(t, report.Passed)
}

func TestGameDayPreferencesPassesWhenRequiredDayUsed(t *testing.T) {
	in := testInput()
	in.DivisionConfigs["minors"] = models.DivisionConfig{
		DivisionID: "minors",
		GameDayPreferences: []models.GameDayPreference{
			{DayOfWeek: 6, Priority: models.PriorityRequired},
		},
	}
	in.Events = []models.ScheduledEventDraft{
		gameEvent("g1", "minors", "2026-03-07", "10:00", "12:00", "field-1", "team-a", "team-b"), // Saturday
	}
	report := gameDayPreferences(in)
	assert.True(t, report.Passed)
}

func TestMatchupBalanceFlagsOverrepresentedPair(t *testing.T) {
	in := testInput()
	var events []models.ScheduledEventDraft
	for i := 0; i < 6; i++ {
		events = append(events, gameEvent("g", "minors", "2026-03-07", "10:00", "12:00", "field-1", "team-a", "team-b"))
	}
	in.Events = events
	report := matchupBalance(in, map[string][]string{"minors": {"team-a", "team-b", "team-c", "team-d"}})
	assert.False(t, report.Passed)
}

func TestMatchupSpacingFlagsRematchWithinAWeek(t *testing.T) {
	in := testInput()
	in.Events = []models.ScheduledEventDraft{
		gameEvent("g1", "minors", "2026-03-07", "10:00", "12:00", "field-1", "team-a", "team-b"),
		gameEvent("g2", "minors", "2026-03-10", "10:00", "12:00", "field-1", "team-b", "team-a"),
	}
	report := matchupSpacing(in)
	assert.False(t, report.Passed)
}

func TestMatchupSpacingPassesForAnExactWeekRematchAcrossAMonthBoundary(t *testing.T) {
	in := testInput()
	in.Events = []models.ScheduledEventDraft{
		gameEvent("g1", "minors", "2026-03-28", "10:00", "12:00", "field-1", "team-a", "team-b"),
		gameEvent("g2", "minors", "2026-04-04", "10:00", "12:00", "field-1", "team-b", "team-a"),
	}
	report := matchupSpacing(in)
	assert.True(t, report.Passed)
}

func TestGameSlotEfficiencyPassesWhenGamesAreEmpty(t *testing.T) {
	in := testInput()
	report := gameSlotEfficiency(in)
	assert.True(t, report.Passed)
}

func TestEvaluateComputesOverallScoreFromTenMetrics(t *testing.T) {
	in := testInput()
	in.Events = []models.ScheduledEventDraft{
		gameEvent("g1", "minors", "2026-03-07", "10:00", "12:00", "field-1", "team-a", "team-b"),
		gameEvent("g2", "minors", "2026-03-14", "10:00", "12:00", "field-1", "team-b", "team-a"),
	}
	report := Evaluate(in, "2026-07-29T00:00:00Z")
	assert.GreaterOrEqual(t, report.OverallScore, 0)
	assert.LessOrEqual(t, report.OverallScore, 100)
	assert.Equal(t, "2026-07-29T00:00:00Z", report.Timestamp)
}

func TestCompareLabelsUnchangedWhenPassVerdictsMatch(t *testing.T) {
	in := testInput()
	eventsA := []models.ScheduledEventDraft{
		gameEvent("g1", "minors", "2026-03-07", "10:00", "12:00", "field-1", "team-a", "team-b"),
	}
	eventsB := []models.ScheduledEventDraft{
		gameEvent("g1", "minors", "2026-03-07", "10:00", "12:00", "field-2", "team-a", "team-b"),
	}
	cmp := Compare(in, eventsA, eventsB, "2026-07-29T00:00:00Z")

	for name, mc := range cmp.Metrics {
		if mc.Before.Passed == mc.After.Passed {
			assert.Equal(t, ChangeUnchanged, mc.Change, "metric %s", name)
		}
	}
}

func TestCompareDetectsImprovement(t *testing.T) {
	in := testInput()
	eventsA := []models.ScheduledEventDraft{
		gameEvent("g1", "minors", "2026-03-03", "10:00", "12:00", "field-1", "team-a", "team-b"), // before start
	}
	eventsB := []models.ScheduledEventDraft{
		gameEvent("g1", "minors", "2026-03-07", "10:00", "12:00", "field-1", "team-a", "team-b"),
	}
	cmp := Compare(in, eventsA, eventsB, "2026-07-29T00:00:00Z")
	assert.Equal(t, ChangeImproved, cmp.Metrics["constraintViolations"].Change)
}
