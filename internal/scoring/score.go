package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/noah-isme/ll-scheduler-kernel/internal/calendar"
	"github.com/noah-isme/ll-scheduler-kernel/internal/constraints"
	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
)

// Breakdown is the typed per-factor contribution of one scoring pass,
// each already multiplied by its weight.
type Breakdown struct {
	DaySpread              float64
	WeekBalance            float64
	ResourceUtilization    float64
	TimeQuality            float64
	DayGap                 float64
	TimeAdjacency          float64
	GameDayPreference      float64
	EarliestTime           float64
	FieldPreference        float64
	HomeAwayBalance        float64
	MatchupHomeAwayBalance float64
	ShortRestBalance       float64
	WeekendMorningPractice float64
	SameDayEvent           float64
	Scarcity               float64
	SameDayCageFieldGap    float64
}

// Total sums every weighted contribution in the breakdown.
func (b Breakdown) Total() float64 {
	return b.DaySpread + b.WeekBalance + b.ResourceUtilization + b.TimeQuality +
		b.DayGap + b.TimeAdjacency + b.GameDayPreference + b.EarliestTime +
		b.FieldPreference + b.HomeAwayBalance + b.MatchupHomeAwayBalance +
		b.ShortRestBalance + b.WeekendMorningPractice + b.SameDayEvent +
		b.Scarcity + b.SameDayCageFieldGap
}

// Score maps a candidate placement to a weighted score with a typed
// breakdown. Every raw factor is computed in [0,1] (except
// sameDayEvent, whose raw value can exceed 1 for games per its own
// contract — see below) before being multiplied by its weight.
func Score(c constraints.Candidate, ctx *Context, weights Weights, weekKey string, slotKey string) (float64, Breakdown) {
	var b Breakdown

	participants := c.Teams()

	b.DaySpread = weights.DaySpread * avgOverTeams(participants, ctx, func(teamID string) float64 {
		return daySpread(ctx.TeamState(teamID), c.Date)
	})

	b.WeekBalance = weights.WeekBalance * avgOverTeams(participants, ctx, func(teamID string) float64 {
		return weekBalance(ctx, teamID, c.DivisionID, c.EventType, weekKey)
	})

	b.ResourceUtilization = weights.ResourceUtilization * resourceUtilization(ctx, c)

	b.TimeQuality = weights.TimeQuality * timeQuality(c.StartTime)

	b.DayGap = weights.DayGap * avgOverTeams(participants, ctx, func(teamID string) float64 {
		return dayGap(ctx, teamID, c.Date)
	})

	b.TimeAdjacency = weights.TimeAdjacency * timeAdjacency(ctx, c)

	b.GameDayPreference = weights.GameDayPreference * gameDayPreference(ctx, c.DivisionID, c.Date)

	b.EarliestTime = weights.EarliestTime * earliestTime(c.StartTime)

	b.FieldPreference = weights.FieldPreference * fieldPreference(ctx, c)

	b.WeekendMorningPractice = weights.WeekendMorningPractice * weekendMorningPractice(c)

	b.SameDayEvent = weights.SameDayEvent * sameDayEvent(ctx, c)

	if c.EventType == models.EventGame {
		b.HomeAwayBalance = weights.HomeAwayBalance * homeAwayBalance(ctx, c.HomeTeamID, c.AwayTeamID)
		b.MatchupHomeAwayBalance = weights.MatchupHomeAwayBalance * matchupHomeAwayBalance(ctx, c.HomeTeamID, c.AwayTeamID)
		b.ShortRestBalance = weights.ShortRestBalance * shortRestBalance(ctx, c)
	}

	b.Scarcity = weights.Scarcity * scarcity(ctx, slotKey, participants)

	b.SameDayCageFieldGap = weights.SameDayCageFieldGap * sameDayCageFieldGap(ctx, c)

	return b.Total(), b
}

func avgOverTeams(teamIDs []string, ctx *Context, f func(string) float64) float64 {
	if len(teamIDs) == 0 {
		return 1.0
	}
	var sum float64
	for _, id := range teamIDs {
		sum += f(id)
	}
	return sum / float64(len(teamIDs))
}

// daySpread: 1 - usage(day)/(maxUsage+1); 1.0 if team has no events.
func daySpread(state *models.TeamSchedulingState, date string) float64 {
	if len(state.DayOfWeekUsage) == 0 {
		return 1.0
	}
	dow := calendar.DayOfWeek(date)
	maxUsage := 0
	for _, count := range state.DayOfWeekUsage {
		if count > maxUsage {
			maxUsage = count
		}
	}
	return 1.0 - float64(state.DayOfWeekUsage[dow])/float64(maxUsage+1)
}

// weekBalance: compare the week's current count (for this event type) to
// the configured weekly requirement. For games keyed "game-week-N" the
// requirement is GamesPerWeekForWeek(N); any other key uses GamesPerWeek.
func weekBalance(ctx *Context, teamID, divisionID string, eventType models.EventType, weekKey string) float64 {
	state := ctx.TeamState(teamID)
	week := state.Week(weekKey)
	cfg := ctx.DivisionConfigs[divisionID]

	var current, target int
	switch eventType {
	case models.EventGame:
		current, target = week.Games, cfg.GamesPerWeek
		if n, err := strconv.Atoi(strings.TrimPrefix(weekKey, "game-week-")); err == nil {
			target = cfg.GamesPerWeekForWeek(n)
		}
	case models.EventPractice:
		current, target = week.Practices, cfg.PracticesPerWeek
	case models.EventCage:
		current, target = week.Cages, cfg.CageSessionsPerWeek
	}
	switch {
	case current < target:
		return 1.0
	case current == target:
		return 0.5
	default:
		return 0.2
	}
}

// resourceUtilization: max(0, 1 - bookedHours/capacity).
func resourceUtilization(ctx *Context, c constraints.Candidate) float64 {
	capacity := ctx.ResourceCapacityFor(c.ResourceID)
	booked := ctx.BookedHours(c.ResourceID, c.Date)
	v := 1.0 - booked/capacity
	if v < 0 {
		v = 0
	}
	return v
}

// timeQuality: 1.0 inside [15:00,18:00]; linearly decays to 0.4 at 4
// hours outside the window.
func timeQuality(startTime string) float64 {
	start := calendar.Minutes(startTime)
	windowStart, windowEnd := 15*60, 18*60
	if start >= windowStart && start <= windowEnd {
		return 1.0
	}
	var distanceMinutes int
	if start < windowStart {
		distanceMinutes = windowStart - start
	} else {
		distanceMinutes = start - windowEnd
	}
	decayRange := 4.0 * 60.0
	fraction := float64(distanceMinutes) / decayRange
	if fraction > 1 {
		fraction = 1
	}
	return 1.0 - fraction*0.6
}

// dayGap: gap-in-days to nearest existing team event -> 0 at 0 days, 0.5
// at 1, 1.0 at >= 2.
func dayGap(ctx *Context, teamID, date string) float64 {
	events := ctx.Indices.AllForTeam(teamID)
	if len(events) == 0 {
		return 1.0
	}
	minGap := -1
	for _, e := range events {
		gap := calendar.DaysBetween(date, e.Date)
		if minGap == -1 || gap < minGap {
			minGap = gap
		}
	}
	switch {
	case minGap <= 0:
		return 0.0
	case minGap == 1:
		return 0.5
	default:
		return 1.0
	}
}

// timeAdjacency: minimum minutes between candidate and existing
// same-day, same-resource event -> 1.0 at 0, 0.0 at >=180; 0.3 fixed
// when no same-day event on this resource.
func timeAdjacency(ctx *Context, c constraints.Candidate) float64 {
	existing := ctx.Indices.OnResourceDate(c.ResourceID, c.Date)
	if len(existing) == 0 {
		return 0.3
	}
	cs, ce := calendar.Minutes(c.StartTime), calendar.Minutes(c.EndTime)
	minGap := math.MaxInt32
	for _, e := range existing {
		es, ee := calendar.Minutes(e.StartTime), calendar.Minutes(e.EndTime)
		var gap int
		switch {
		case cs >= ee:
			gap = cs - ee
		case es >= ce:
			gap = es - ce
		default:
			gap = 0
		}
		if gap < minGap {
			minGap = gap
		}
	}
	if minGap >= 180 {
		return 0.0
	}
	return 1.0 - float64(minGap)/180.0
}

// gameDayPreference: required->1.0, preferred->0.8, acceptable->0.5,
// avoid->0.1; default 0.5 when unset.
func gameDayPreference(ctx *Context, divisionID, date string) float64 {
	cfg := ctx.DivisionConfigs[divisionID]
	pref := cfg.PreferenceForDay(calendar.DayOfWeek(date))
	switch pref.Priority {
	case models.PriorityRequired:
		return 1.0
	case models.PriorityPreferred:
		return 0.8
	case models.PriorityAvoid:
		return 0.1
	default:
		return 0.5
	}
}

// earliestTime: 1 - startMinutes/(24*60).
func earliestTime(startTime string) float64 {
	return 1.0 - float64(calendar.Minutes(startTime))/(24.0*60.0)
}

// fieldPreference: rank i of N -> 1 - 0.5*i/N; 0.3 when field is not
// listed; 0.5 when no preference list exists. Practice contributions are
// scaled x0.3 relative to games.
func fieldPreference(ctx *Context, c constraints.Candidate) float64 {
	cfg := ctx.DivisionConfigs[c.DivisionID]
	prefs := cfg.FieldPreferences
	var raw float64
	switch {
	case len(prefs) == 0:
		raw = 0.5
	default:
		idx := -1
		for i, id := range prefs {
			if id == c.ResourceID {
				idx = i
				break
			}
		}
		if idx == -1 {
			raw = 0.3
		} else {
			raw = 1.0 - 0.5*float64(idx)/float64(len(prefs))
		}
	}
	if c.EventType == models.EventPractice {
		raw *= 0.3
	}
	return raw
}

// weekendMorningPractice: 1 if practice on Sat/Sun before 13:00 else 0.
func weekendMorningPractice(c constraints.Candidate) float64 {
	if c.EventType != models.EventPractice {
		return 0
	}
	dow := calendar.DayOfWeek(c.Date)
	if dow != 0 && dow != 6 {
		return 0
	}
	if calendar.Minutes(c.StartTime) < 13*60 {
		return 1
	}
	return 0
}

// sameDayEvent: 1 per team-on-candidate whose dates-used set (resource-
// type specific) already contains this date. For games both home and
// away teams are tested independently, so the raw value can reach 2.
func sameDayEvent(ctx *Context, c constraints.Candidate) float64 {
	var total float64
	isField := c.EventType == models.EventGame || c.EventType == models.EventPractice
	for _, teamID := range c.Teams() {
		state := ctx.TeamState(teamID)
		used := state.FieldDates
		if !isField {
			used = state.CageDates
		}
		if used[c.Date] {
			total++
		}
	}
	return total
}

// homeAwayBalance: max(0, 1 - totalAbsImbalanceAfterAssignment/8).
func homeAwayBalance(ctx *Context, homeTeamID, awayTeamID string) float64 {
	home := ctx.TeamState(homeTeamID)
	away := ctx.TeamState(awayTeamID)
	homeAfter := (home.HomeGames + 1) - home.AwayGames
	awayAfter := away.HomeGames - (away.AwayGames + 1)
	total := math.Abs(float64(homeAfter)) + math.Abs(float64(awayAfter))
	v := 1.0 - total/8.0
	if v < 0 {
		v = 0
	}
	return v
}

// matchupHomeAwayBalance: max(0, 1 - |imbalance|/4) where imbalance is
// the prospective home-minus-away delta between this pair from the home
// team's perspective.
func matchupHomeAwayBalance(ctx *Context, homeTeamID, awayTeamID string) float64 {
	home := ctx.TeamState(homeTeamID)
	m := home.Matchup(awayTeamID)
	imbalance := (m.Home + 1) - m.Away
	v := 1.0 - math.Abs(float64(imbalance))/4.0
	if v < 0 {
		v = 0
	}
	return v
}

// shortRestBalance: if either team would land within 2 days of any of
// its existing game dates, penalty ramps with the team's excess over the
// average short-rest count across every team tracked in this run's
// context (0.3 baseline, rising 0.35 per excess game, capped at 1.0); 0
// otherwise.
func shortRestBalance(ctx *Context, c constraints.Candidate) float64 {
	teams := []string{c.HomeTeamID, c.AwayTeamID}
	wouldBeShort := false
	for _, teamID := range teams {
		state := ctx.TeamState(teamID)
		for _, d := range state.GameDates {
			if calendar.DaysBetween(c.Date, d) <= 2 {
				wouldBeShort = true
				break
			}
		}
	}
	if !wouldBeShort {
		return 0
	}

	avg := averageShortRest(ctx)
	maxExcess := 0.0
	for _, teamID := range teams {
		state := ctx.TeamState(teamID)
		excess := float64(state.ShortRestGamesCount) - avg
		if excess > maxExcess {
			maxExcess = excess
		}
	}
	v := 0.3 + 0.35*maxExcess
	if v > 1.0 {
		v = 1.0
	}
	return v
}

func averageShortRest(ctx *Context) float64 {
	if len(ctx.TeamStates) == 0 {
		return 0
	}
	var total float64
	for _, state := range ctx.TeamStates {
		total += float64(state.ShortRestGamesCount)
	}
	return total / float64(len(ctx.TeamStates))
}

// scarcity: max over other teams of 1/(alternatives+1) for any other
// team that also had this slot in its candidate set.
func scarcity(ctx *Context, slotKey string, participants []string) float64 {
	if slotKey == "" {
		return 0
	}
	best := 0.0
	for teamID, set := range ctx.TeamSlotAvailability {
		if containsStr(participants, teamID) {
			continue
		}
		if !set[slotKey] {
			continue
		}
		alt := 1.0 / float64(len(set)+1)
		if alt > best {
			best = alt
		}
	}
	return best
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// sameDayCageFieldGap: 0 if no opposite-type event today or if adjacent
// <=15-min gap; otherwise 1.
func sameDayCageFieldGap(ctx *Context, c constraints.Candidate) float64 {
	if c.EventType != models.EventPractice && c.EventType != models.EventCage {
		return 0
	}
	opposite := models.EventCage
	if c.EventType == models.EventCage {
		opposite = models.EventPractice
	}
	for _, teamID := range c.Teams() {
		for _, e := range ctx.Indices.OnTeamDate(teamID, c.Date) {
			if e.EventType != opposite {
				continue
			}
			if adjacentMinutes(c.StartTime, c.EndTime, e.StartTime, e.EndTime) <= 15 {
				return 0
			}
			return 1
		}
	}
	return 0
}

func adjacentMinutes(aStart, aEnd, bStart, bEnd string) int {
	as, ae := calendar.Minutes(aStart), calendar.Minutes(aEnd)
	bs, be := calendar.Minutes(bStart), calendar.Minutes(bEnd)
	if calendar.DatesOverlap(as, ae, bs, be) {
		return 0
	}
	if as >= be {
		return as - be
	}
	return bs - ae
}
