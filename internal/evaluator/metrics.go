package evaluator

import (
	"math"
	"sort"

	"github.com/noah-isme/ll-scheduler-kernel/internal/calendar"
	"github.com/noah-isme/ll-scheduler-kernel/internal/indices"
	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
	"github.com/noah-isme/ll-scheduler-kernel/internal/resources"
)

func weeklyRequirements(in Input, divisionTeams map[string][]string) MetricReport {
	byTeam := eventsByTeam(in.Events)
	var shortfalls []map[string]any

	totalGameWeeks := 0
	if in.Season.GamesStartDate != "" {
		totalGameWeeks = calendar.GameWeekIndex(in.Season.EndDate, in.Season.GamesStartDate)
	}
	weekKeys := weekKeysInRange(in.Season)

	for _, t := range in.Teams {
		cfg, ok := in.DivisionConfigs[t.DivisionID]
		if !ok {
			continue
		}
		events := byTeam[t.ID]

		gamesByWeek := map[int]int{}
		for _, e := range events {
			if e.EventType == models.EventGame {
				w := calendar.GameWeekIndex(e.Date, in.Season.GamesStartDate)
				gamesByWeek[w]++
			}
		}
		totalGames := 0
		for w := 1; w <= totalGameWeeks; w++ {
			totalGames += gamesByWeek[w]
		}
		capExhausted := cfg.MaxGamesPerSeason > 0 && totalGames >= cfg.MaxGamesPerSeason
		if !capExhausted {
			for w := 1; w <= totalGameWeeks; w++ {
				target := cfg.GamesPerWeekForWeek(w)
				if gamesByWeek[w] < target {
					shortfalls = append(shortfalls, map[string]any{
						"teamId": t.ID, "kind": "game", "week": w, "expected": target, "actual": gamesByWeek[w],
					})
				}
			}
		}

		practicesByWeek := map[string]int{}
		cagesByWeek := map[string]int{}
		for _, e := range events {
			wk := calendar.WeekBucket(e.Date, in.Season.StartDate, in.Season.EndDate)
			switch e.EventType {
			case models.EventPractice:
				practicesByWeek[wk]++
			case models.EventCage:
				cagesByWeek[wk]++
			}
		}
		for _, wk := range weekKeys {
			if cfg.PracticesPerWeek > 0 && practicesByWeek[wk] < cfg.PracticesPerWeek {
				shortfalls = append(shortfalls, map[string]any{
					"teamId": t.ID, "kind": "practice", "week": wk, "expected": cfg.PracticesPerWeek, "actual": practicesByWeek[wk],
				})
			}
			if cfg.CageSessionsPerWeek > 0 && cagesByWeek[wk] < cfg.CageSessionsPerWeek {
				shortfalls = append(shortfalls, map[string]any{
					"teamId": t.ID, "kind": "cage", "week": wk, "expected": cfg.CageSessionsPerWeek, "actual": cagesByWeek[wk],
				})
			}
		}
	}

	return MetricReport{
		Passed:  len(shortfalls) == 0,
		Summary: summaryFor(len(shortfalls) == 0, "every team meets its weekly obligations", "some teams fall short of weekly obligations"),
		Details: map[string]any{"shortfalls": shortfalls},
	}
}

func homeAwayBalance(in Input) MetricReport {
	home := map[string]int{}
	away := map[string]int{}
	for _, e := range in.Events {
		if e.EventType != models.EventGame {
			continue
		}
		home[*e.HomeTeamID]++
		away[*e.AwayTeamID]++
	}
	var violations []map[string]any
	for _, t := range in.Teams {
		imbalance := home[t.ID] - away[t.ID]
		if imbalance < 0 {
			imbalance = -imbalance
		}
		if imbalance > 1 {
			violations = append(violations, map[string]any{"teamId": t.ID, "home": home[t.ID], "away": away[t.ID]})
		}
	}
	return MetricReport{
		Passed:  len(violations) == 0,
		Summary: summaryFor(len(violations) == 0, "every team's home/away split is balanced", "some teams have an unbalanced home/away split"),
		Details: map[string]any{"violations": violations},
	}
}

func constraintViolations(in Input, idx *indices.Indices) MetricReport {
	var errs []map[string]any
	var warnings []map[string]any

	for i := range in.Events {
		a := in.Events[i]
		for j := i + 1; j < len(in.Events); j++ {
			b := in.Events[j]
			if a.Date != b.Date {
				continue
			}
			if a.ResourceID() == b.ResourceID() && overlapsTimes(a, b) {
				errs = append(errs, map[string]any{"type": "resource_overlap", "eventA": a.ID, "eventB": b.ID})
			}
			if sharesTeam(a, b) && overlapsTimes(a, b) {
				errs = append(errs, map[string]any{"type": "team_overlap", "eventA": a.ID, "eventB": b.ID})
			}
		}

		if a.EventType == models.EventGame {
			d, err1 := calendar.ParseDate(a.Date)
			g, err2 := calendar.ParseDate(in.Season.GamesStartDate)
			if err1 == nil && err2 == nil && d.Before(g) {
				errs = append(errs, map[string]any{"type": "game_before_start", "eventId": a.ID})
			}
		}

		for _, b := range in.Season.BlackoutDates {
			if b == a.Date {
				errs = append(errs, map[string]any{"type": "event_on_blackout", "eventId": a.ID})
			}
		}
	}

	if in.AvailabilityBundle != nil {
		fieldSlots := resources.BuildFieldSlots(in.Season, in.Fields, in.AvailabilityBundle.FieldAvailabilities, in.AvailabilityBundle.FieldOverrides)
		cageSlots := resources.BuildCageSlots(in.Season, in.Cages, in.AvailabilityBundle.CageAvailabilities, in.AvailabilityBundle.CageOverrides)
		for _, e := range in.Events {
			var slots []resources.ResourceSlot
			if e.EventType == models.EventCage {
				slots = cageSlots
			} else {
				slots = fieldSlots
			}
			if !withinAnySlot(e, slots) {
				errs = append(errs, map[string]any{"type": "outside_availability", "eventId": e.ID})
			}
		}
	}

	teamStates := buildTeamGapState(in)
	for teamID, gaps := range teamStates {
		for _, g := range gaps {
			if g.gap > 0 && g.gap < g.minGap {
				warnings = append(warnings, map[string]any{
					"type": "min_day_gap", "teamId": teamID, "daysDiff": g.gap,
				})
			}
		}
	}

	return MetricReport{
		Passed:  len(errs) == 0,
		Summary: summaryFor(len(errs) == 0, "no hard constraint violations found", "hard constraint violations found"),
		Details: map[string]any{"errors": errs, "warnings": warnings},
	}
}

type gapEntry struct {
	gap    int
	minGap int
}

// buildTeamGapState recomputes, per team, the gap (in days) to the
// nearest other event against that team's configured minimum, for the
// min-gap warning check.
func buildTeamGapState(in Input) map[string][]gapEntry {
	out := map[string][]gapEntry{}
	byTeam := eventsByTeam(in.Events)
	teamDivision := map[string]string{}
	for _, t := range in.Teams {
		teamDivision[t.ID] = t.DivisionID
	}
	for teamID, events := range byTeam {
		cfg := in.DivisionConfigs[teamDivision[teamID]]
		if cfg.MinConsecutiveDayGap <= 0 {
			continue
		}
		dates := make([]string, len(events))
		for i, e := range events {
			dates[i] = e.Date
		}
		for i := range dates {
			minGap := 1 << 30
			for j := range dates {
				if i == j || dates[i] == dates[j] {
					continue
				}
				g := calendar.DaysBetween(dates[i], dates[j])
				if g < minGap {
					minGap = g
				}
			}
			if minGap < 1<<30 {
				out[teamID] = append(out[teamID], gapEntry{gap: minGap, minGap: cfg.MinConsecutiveDayGap})
			}
		}
	}
	return out
}

func overlapsTimes(a, b models.ScheduledEventDraft) bool {
	return calendar.DatesOverlap(calendar.Minutes(a.StartTime), calendar.Minutes(a.EndTime), calendar.Minutes(b.StartTime), calendar.Minutes(b.EndTime))
}

func sharesTeam(a, b models.ScheduledEventDraft) bool {
	for _, t := range a.Teams() {
		if b.HasTeam(t) {
			return true
		}
	}
	return false
}

func withinAnySlot(e models.ScheduledEventDraft, slots []resources.ResourceSlot) bool {
	es, ee := calendar.Minutes(e.StartTime), calendar.Minutes(e.EndTime)
	for _, s := range slots {
		if s.ResourceID != e.ResourceID() || s.Date != e.Date {
			continue
		}
		ss, se := calendar.Minutes(s.StartTime), calendar.Minutes(s.EndTime)
		if es >= ss && ee <= se {
			return true
		}
	}
	return false
}

func gameDayPreferences(in Input) MetricReport {
	byDivision := map[string][]models.ScheduledEventDraft{}
	for _, e := range in.Events {
		if e.EventType == models.EventGame {
			byDivision[e.DivisionID] = append(byDivision[e.DivisionID], e)
		}
	}

	var violations []map[string]any
	allCompliant := true

	for divisionID, games := range byDivision {
		cfg, ok := in.DivisionConfigs[divisionID]
		if !ok {
			continue
		}
		gamesByDow := map[int]int{}
		compliant := 0
		for _, g := range games {
			dow := calendar.DayOfWeek(g.Date)
			gamesByDow[dow]++
			pref := cfg.PreferenceForDay(dow)
			if pref.Priority != models.PriorityAvoid {
				compliant++
			}
		}
		rate := 1.0
		if len(games) > 0 {
			rate = float64(compliant) / float64(len(games))
		}
		divisionOK := rate >= 0.70

		for _, pref := range cfg.GameDayPreferences {
			if pref.Priority == models.PriorityRequired && gamesByDow[pref.DayOfWeek] == 0 {
				divisionOK = false
				violations = append(violations, map[string]any{"divisionId": divisionID, "type": "required_day_empty", "dayOfWeek": pref.DayOfWeek})
			}
			if pref.Priority == models.PriorityAvoid && gamesByDow[pref.DayOfWeek] > 0 {
				divisionOK = false
				violations = append(violations, map[string]any{"divisionId": divisionID, "type": "avoid_day_used", "dayOfWeek": pref.DayOfWeek})
			}
		}

		if !divisionOK {
			allCompliant = false
			violations = append(violations, map[string]any{"divisionId": divisionID, "complianceRate": rate})
		}
	}

	return MetricReport{
		Passed:  allCompliant,
		Summary: summaryFor(allCompliant, "game-day preferences are honored", "one or more divisions violate game-day preferences"),
		Details: map[string]any{"violations": violations},
	}
}

func shortRestCounts(games []models.ScheduledEventDraft, teamIDs []string) map[string]int {
	byTeam := map[string][]string{}
	for _, g := range games {
		if g.HomeTeamID != nil {
			byTeam[*g.HomeTeamID] = append(byTeam[*g.HomeTeamID], g.Date)
		}
		if g.AwayTeamID != nil {
			byTeam[*g.AwayTeamID] = append(byTeam[*g.AwayTeamID], g.Date)
		}
	}
	out := map[string]int{}
	for _, teamID := range teamIDs {
		dates := byTeam[teamID]
		count := 0
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
		out[teamID] = count
	}
	return out
}

func gameSpacing(in Input, divisionTeams map[string][]string) MetricReport {
	games := eventsOfType(in.Events, models.EventGame)
	allOK := true
	var details []map[string]any

	for divisionID, teamIDs := range divisionTeams {
		var divGames []models.ScheduledEventDraft
		for _, g := range games {
			if g.DivisionID == divisionID {
				divGames = append(divGames, g)
			}
		}
		counts := shortRestCounts(divGames, teamIDs)
		min, max := minMax(counts)
		ok := max-min <= 1
		if !ok {
			allOK = false
		}
		details = append(details, map[string]any{"divisionId": divisionID, "min": min, "max": max, "passed": ok})
	}

	return MetricReport{
		Passed:  allOK,
		Summary: summaryFor(allOK, "short-rest games are evenly distributed within each division", "short-rest games are unevenly distributed in one or more divisions"),
		Details: map[string]any{"divisions": details},
	}
}

func minMax(counts map[string]int) (int, int) {
	first := true
	var min, max int
	for _, c := range counts {
		if first {
			min, max = c, c
			first = false
			continue
		}
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	return min, max
}

func practiceSpacing(in Input, divisionTeams map[string][]string) MetricReport {
	byTeam := eventsByTeam(in.Events)
	allOK := true
	var details []map[string]any

	for divisionID, teamIDs := range divisionTeams {
		var stddevs []float64
		for _, teamID := range teamIDs {
			var dates []string
			for _, e := range byTeam[teamID] {
				if e.EventType == models.EventPractice {
					dates = append(dates, e.Date)
				}
			}
			sort.Strings(dates)
			if len(dates) < 2 {
				stddevs = append(stddevs, 0)
				continue
			}
			var gaps []float64
			for i := 1; i < len(dates); i++ {
				gaps = append(gaps, float64(calendar.DaysBetween(dates[i], dates[i-1])))
			}
			stddevs = append(stddevs, stddev(gaps))
		}
		rangeVal := 0.0
		if len(stddevs) > 0 {
			min, max := stddevs[0], stddevs[0]
			for _, v := range stddevs {
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
			}
			rangeVal = max - min
		}
		ok := rangeVal <= 1.5
		if !ok {
			allOK = false
		}
		details = append(details, map[string]any{"divisionId": divisionID, "range": rangeVal, "passed": ok})
	}

	return MetricReport{
		Passed:  allOK,
		Summary: summaryFor(allOK, "practice spacing is consistent across teams", "practice spacing varies too much between teams in one or more divisions"),
		Details: map[string]any{"divisions": details},
	}
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

func matchupBalance(in Input, divisionTeams map[string][]string) MetricReport {
	games := eventsOfType(in.Events, models.EventGame)
	allOK := true
	var violations []map[string]any

	for divisionID, teamIDs := range divisionTeams {
		teamCount := len(teamIDs)
		if teamCount < 2 {
			continue
		}
		pairCounts := map[[2]string]int{}
		totalGames := 0
		for _, g := range games {
			if g.DivisionID != divisionID {
				continue
			}
			totalGames++
			pair := pairKey(*g.HomeTeamID, *g.AwayTeamID)
			pairCounts[pair]++
		}
		totalGamesPerTeam := 0
		if teamCount > 0 {
			totalGamesPerTeam = totalGames * 2 / teamCount
		}
		ideal := float64(totalGamesPerTeam) / float64(teamCount-1)

		for pair, count := range pairCounts {
			if math.Abs(float64(count)-ideal) > 2 {
				allOK = false
				violations = append(violations, map[string]any{
					"divisionId": divisionID, "teamA": pair[0], "teamB": pair[1], "count": count, "ideal": ideal,
				})
			}
		}
	}

	return MetricReport{
		Passed:  allOK,
		Summary: summaryFor(allOK, "games are evenly distributed across matchups", "some matchups are over- or under-represented"),
		Details: map[string]any{"violations": violations},
	}
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

func matchupSpacing(in Input) MetricReport {
	games := eventsOfType(in.Events, models.EventGame)
	byPair := map[[2]string][]string{}
	for _, g := range games {
		pair := pairKey(*g.HomeTeamID, *g.AwayTeamID)
		byPair[pair] = append(byPair[pair], g.Date)
	}

	var violations []map[string]any
	for pair, dates := range byPair {
		sort.Strings(dates)
		for i := 1; i < len(dates); i++ {
			gap := calendar.DaysBetween(dates[i], dates[i-1])
			if gap < 7 {
				violations = append(violations, map[string]any{"teamA": pair[0], "teamB": pair[1], "gap": gap})
			}
		}
	}

	return MetricReport{
		Passed:  len(violations) == 0,
		Summary: summaryFor(len(violations) == 0, "rematches are spaced at least a week apart", "some rematches happen less than a week apart"),
		Details: map[string]any{"violations": violations},
	}
}

func gameSlotEfficiency(in Input) MetricReport {
	games := eventsOfType(in.Events, models.EventGame)
	if len(games) == 0 {
		return MetricReport{Passed: true, Summary: "no games to evaluate", Details: map[string]any{}}
	}
	overlapping := 0
	for i, a := range games {
		for j, b := range games {
			if i == j || a.Date != b.Date {
				continue
			}
			if overlapsTimes(a, b) {
				overlapping++
				break
			}
		}
	}
	rate := float64(overlapping) / float64(len(games))
	passed := rate >= 0.70

	return MetricReport{
		Passed:  passed,
		Summary: summaryFor(passed, "most games share overlapping field time", "too few games overlap in time"),
		Details: map[string]any{"rate": rate, "overlappingGames": overlapping, "totalGames": len(games)},
	}
}

func weeklyGamesDistribution(in Input) MetricReport {
	byTeam := eventsByTeam(in.Events)
	teamDivision := map[string]string{}
	for _, t := range in.Teams {
		teamDivision[t.ID] = t.DivisionID
	}

	var violations []map[string]any
	for teamID, events := range byTeam {
		cfg, ok := in.DivisionConfigs[teamDivision[teamID]]
		if !ok {
			continue
		}
		byWeek := map[int]int{}
		for _, e := range events {
			if e.EventType != models.EventGame {
				continue
			}
			w := calendar.GameWeekIndex(e.Date, in.Season.GamesStartDate)
			byWeek[w]++
		}
		for w, count := range byWeek {
			target := cfg.GamesPerWeekForWeek(w)
			if count > target+1 {
				violations = append(violations, map[string]any{"teamId": teamID, "week": w, "count": count, "target": target})
			}
		}
	}

	return MetricReport{
		Passed:  len(violations) == 0,
		Summary: summaryFor(len(violations) == 0, "no team exceeds its weekly game target by more than one", "some teams exceed their weekly game target"),
		Details: map[string]any{"violations": violations},
	}
}

func summaryFor(passed bool, ok, bad string) string {
	if passed {
		return ok
	}
	return bad
}
