package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
	"github.com/noah-isme/ll-scheduler-kernel/internal/scoring"
)

func smallSeasonInput() Input {
	season := models.Season{
		ID:             "season-1",
		StartDate:      "2026-03-02", // Monday
		EndDate:        "2026-04-12", // six full weeks
		GamesStartDate: "2026-03-07", // first Saturday
	}

	division := models.Division{ID: "minors", Name: "Minors", SchedulingOrder: 1}
	cfg := models.DivisionConfig{
		DivisionID:               "minors",
		GamesPerWeek:             1,
		PracticesPerWeek:         1,
		CageSessionsPerWeek:      1,
		GameDurationHours:        2,
		PracticeDurationHours:    1,
		CageSessionDurationHours: 1,
		GameDayPreferences: []models.GameDayPreference{
			{DayOfWeek: 6, Priority: models.PriorityRequired},
		},
	}

	teams := []models.Team{
		{ID: "team-a", DivisionID: "minors", Name: "A"},
		{ID: "team-b", DivisionID: "minors", Name: "B"},
		{ID: "team-c", DivisionID: "minors", Name: "C"},
		{ID: "team-d", DivisionID: "minors", Name: "D"},
	}

	fields := []models.SeasonField{{ID: "field-1", SeasonID: "season-1"}}
	cages := []models.SeasonCage{{ID: "cage-1", SeasonID: "season-1"}}

	fieldAvail := []models.FieldAvailability{
		{SeasonFieldID: "field-1", DayOfWeek: 6, StartTime: "09:00", EndTime: "18:00"},
		{SeasonFieldID: "field-1", DayOfWeek: 3, StartTime: "16:00", EndTime: "20:00"},
	}
	cageAvail := []models.CageAvailability{
		{SeasonCageID: "cage-1", DayOfWeek: 2, StartTime: "16:00", EndTime: "20:00"},
	}

	return Input{
		Season:              season,
		Divisions:           []models.Division{division},
		DivisionConfigs:      map[string]models.DivisionConfig{"minors": cfg},
		Teams:               teams,
		Fields:              fields,
		Cages:               cages,
		FieldAvailabilities: fieldAvail,
		CageAvailabilities:  cageAvail,
		Weights:             scoring.DefaultWeights(),
		RNGSeed:             1,
	}
}

func TestEngineRunPlacesGamesPracticesAndCages(t *testing.T) {
	engine := NewEngine(smallSeasonInput(), nil)
	result := engine.Run()

	require.NotEmpty(t, result.Events)
	assert.False(t, result.Cancelled)

	var games, practices, cages int
	for _, e := range result.Events {
		switch e.EventType {
		case models.EventGame:
			games++
			assert.True(t, e.HomeTeamID != nil && e.AwayTeamID != nil)
			assert.NotEqual(t, *e.HomeTeamID, *e.AwayTeamID)
		case models.EventPractice:
			practices++
		case models.EventCage:
			cages++
		}
	}
	assert.Positive(t, games)
	assert.Positive(t, practices)
	assert.Positive(t, cages)
}

func TestEngineRunNeverDoubleBooksAResource(t *testing.T) {
	engine := NewEngine(smallSeasonInput(), nil)
	result := engine.Run()

	type booking struct{ start, end string }
	byResourceDate := map[string][]booking{}
	for _, e := range result.Events {
		key := e.ResourceID() + "|" + e.Date
		for _, b := range byResourceDate[key] {
			overlap := e.StartTime < b.end && b.start < e.EndTime
			assert.False(t, overlap, "resource %s double-booked on %s", e.ResourceID(), e.Date)
		}
		byResourceDate[key] = append(byResourceDate[key], booking{e.StartTime, e.EndTime})
	}
}

func TestEngineRunRespectsCancellation(t *testing.T) {
	cancel := make(chan struct{})
	close(cancel)

	engine := NewEngine(smallSeasonInput(), cancel)
	result := engine.Run()

	assert.True(t, result.Cancelled)
	assert.Empty(t, result.Events)
}

func TestRoundRobinMatchupsCoverEveryTeamWithBalancedGames(t *testing.T) {
	teamIDs := []string{"team-a", "team-b", "team-c", "team-d"}
	matchups := RoundRobinMatchups("minors", teamIDs, 3)

	gamesPerTeam := map[string]int{}
	for _, m := range matchups {
		gamesPerTeam[m.HomeTeamID]++
		gamesPerTeam[m.AwayTeamID]++
		assert.NotEqual(t, m.HomeTeamID, m.AwayTeamID)
	}
	for _, id := range teamIDs {
		assert.Equal(t, 3, gamesPerTeam[id])
	}
}
