package placement

import (
	"math/rand"
	"sort"
	"strconv"

	"github.com/noah-isme/ll-scheduler-kernel/internal/calendar"
	"github.com/noah-isme/ll-scheduler-kernel/internal/constraints"
	kerr "github.com/noah-isme/ll-scheduler-kernel/pkg/errors"
	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
	"github.com/noah-isme/ll-scheduler-kernel/internal/scoring"
)

// Input is everything the Placement Engine needs for one scheduling run.
// It owns no state shared with any other run.
type Input struct {
	Season          models.Season
	Divisions       []models.Division
	DivisionConfigs map[string]models.DivisionConfig
	Teams           []models.Team

	Fields []models.SeasonField
	Cages  []models.SeasonCage

	FieldAvailabilities []models.FieldAvailability
	CageAvailabilities  []models.CageAvailability
	FieldOverrides      []models.FieldDateOverride
	CageOverrides       []models.CageDateOverride

	Weights scoring.Weights
	RNGSeed int64
}

// Result is everything one scheduling run produced.
type Result struct {
	Events      []models.ScheduledEventDraft
	Warnings    []kerr.Warning
	Cancelled   bool
}

// Engine runs one placement pass. It is not safe for concurrent use; each
// caller must construct its own Engine over its own Input copy.
type Engine struct {
	input Input
	ctx   *scoring.Context
	budget *RequiredDayBudgetTracker
	rng   *rand.Rand

	warnings     []kerr.Warning
	events       []models.ScheduledEventDraft
	eventCounter int

	cancel <-chan struct{}
}

// NewEngine constructs an Engine ready to Run over input.
func NewEngine(input Input, cancel <-chan struct{}) *Engine {
	return &Engine{
		input:  input,
		ctx:    scoring.NewContext(input.DivisionConfigs),
		budget: buildBudgetTracker(input),
		rng:    rand.New(rand.NewSource(input.RNGSeed)),
		cancel: cancel,
	}
}

func buildBudgetTracker(input Input) *RequiredDayBudgetTracker {
	weeklyHours := map[string]float64{}
	byField := map[string][]models.FieldAvailability{}
	for _, a := range input.FieldAvailabilities {
		byField[a.SeasonFieldID] = append(byField[a.SeasonFieldID], a)
	}
	for fieldID, windows := range byField {
		var total float64
		for _, w := range windows {
			total += calendar.DurationHours(w.StartTime, w.EndTime)
		}
		weeklyHours[fieldID] = total
	}
	totalGameWeeks := gameWeekCount(input.Season)
	return BuildCompetitionGroups(input.DivisionConfigs, weeklyHours, totalGameWeeks)
}

func gameWeekCount(season models.Season) int {
	if season.GamesStartDate == "" {
		return 0
	}
	return calendar.GameWeekIndex(season.EndDate, season.GamesStartDate)
}

func (e *Engine) totalGameWeeks() int {
	return gameWeekCount(e.input.Season)
}

// Run executes all three phases in order — games, practices, cages —
// and returns every event placed plus every non-fatal warning
// encountered. Cancellation is checked at matchup, week, and phase
// boundaries; a cancelled run returns a partial Result.
func (e *Engine) Run() Result {
	e.scheduleGames()
	if !e.cancelled() {
		e.schedulePractices()
	}
	if !e.cancelled() {
		e.scheduleCages()
	}
	return Result{
		Events:    e.events,
		Warnings:  e.warnings,
		Cancelled: e.cancelled(),
	}
}

func (e *Engine) cancelled() bool {
	if e.cancel == nil {
		return false
	}
	select {
	case <-e.cancel:
		return true
	default:
		return false
	}
}

// orderedDivisions returns divisions sorted by SchedulingOrder (lower
// runs first), ties broken by ID for determinism.
func (e *Engine) orderedDivisions() []models.Division {
	out := append([]models.Division(nil), e.input.Divisions...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].SchedulingOrder != out[j].SchedulingOrder {
			return out[i].SchedulingOrder < out[j].SchedulingOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (e *Engine) teamsInDivision(divisionID string) []string {
	var ids []string
	for _, t := range e.input.Teams {
		if t.DivisionID == divisionID {
			ids = append(ids, t.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

// commitEvent appends a placed candidate to the result set, updates the
// scoring context (team states, resource usage, indices), and records
// the booking against both incremental indices.
func (e *Engine) commitEvent(cand constraints.Candidate, cfg models.DivisionConfig) {
	event := models.ScheduledEventDraft{
		DivisionID: cand.DivisionID,
		EventType:  cand.EventType,
		Date:       cand.Date,
		StartTime:  cand.StartTime,
		EndTime:    cand.EndTime,
		Status:     models.EventStatusScheduled,
	}

	switch cand.EventType {
	case models.EventGame, models.EventPractice:
		event.FieldID = models.StrPtr(cand.ResourceID)
	case models.EventCage:
		event.CageID = models.StrPtr(cand.ResourceID)
	}

	switch cand.EventType {
	case models.EventGame:
		event.HomeTeamID = models.StrPtr(cand.HomeTeamID)
		event.AwayTeamID = models.StrPtr(cand.AwayTeamID)
	default:
		event.TeamID = models.StrPtr(cand.TeamID)
	}

	event.ID = e.nextEventID()
	e.events = append(e.events, event)
	e.ctx.Indices.Add(&e.events[len(e.events)-1])

	hours := calendar.DurationHours(cand.StartTime, cand.EndTime)
	e.ctx.ReserveResource(cand.ResourceID, cand.Date, hours)

	dow := calendar.DayOfWeek(cand.Date)
	weekKey := calendar.WeekBucket(cand.Date, e.input.Season.StartDate, e.input.Season.EndDate)
	gameWeekKey := ""
	if cand.EventType == models.EventGame {
		gameWeekKey = gameWeekKeyFor(cand.Date, e.input.Season.GamesStartDate)
	}

	for _, teamID := range cand.Teams() {
		state := e.ctx.TeamState(teamID)
		state.DayOfWeekUsage[dow]++

		switch cand.EventType {
		case models.EventGame, models.EventPractice:
			state.FieldDates[cand.Date] = true
		case models.EventCage:
			state.CageDates[cand.Date] = true
		}

		key := weekKey
		if gameWeekKey != "" {
			key = gameWeekKey
		}
		week := state.Week(key)
		switch cand.EventType {
		case models.EventGame:
			week.Games++
			state.GameDates = append(state.GameDates, cand.Date)
			updateShortRest(state)
		case models.EventPractice:
			week.Practices++
		case models.EventCage:
			week.Cages++
		}
	}

	if cand.EventType == models.EventGame {
		home := e.ctx.TeamState(cand.HomeTeamID)
		away := e.ctx.TeamState(cand.AwayTeamID)
		home.HomeGames++
		away.AwayGames++
		home.Matchup(cand.AwayTeamID).Home++
		away.Matchup(cand.HomeTeamID).Away++
	}

	_ = cfg
}

// gameWeekKeyFor buckets a game's week under its 1-indexed game week
// number so weekBalance compares against gamesPerWeekForWeek correctly.
func gameWeekKeyFor(date, gamesStartDate string) string {
	idx := calendar.GameWeekIndex(date, gamesStartDate)
	return "game-week-" + strconv.Itoa(idx)
}

// updateShortRest recomputes the team's short-rest game count (games
// within 2 days of another of its own games) after a new game date is
// appended to GameDates.
func updateShortRest(state *models.TeamSchedulingState) {
	count := 0
	dates := state.GameDates
	for i := range dates {
		for j := range dates {
			if i == j {
				continue
			}
			if calendar.DaysBetween(dates[i], dates[j]) <= 2 {
				count++
				break
			}
		}
	}
	state.ShortRestGamesCount = count
}

// nextEventID assigns a run-local sequential ID. Every Engine owns its
// own counter, so concurrent runs over independent Input copies never
// contend on shared state.
func (e *Engine) nextEventID() string {
	e.eventCounter++
	return "evt-" + strconv.Itoa(e.eventCounter)
}
