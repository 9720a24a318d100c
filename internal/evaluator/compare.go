package evaluator

import "github.com/noah-isme/ll-scheduler-kernel/internal/models"

// ChangeDirection classifies how one metric moved between two evaluations.
type ChangeDirection string

const (
	ChangeImproved  ChangeDirection = "improved"
	ChangeRegressed ChangeDirection = "regressed"
	ChangeUnchanged ChangeDirection = "unchanged"
)

// MetricComparison is one metric's before/after verdict.
type MetricComparison struct {
	Change  ChangeDirection `json:"change"`
	Before  MetricReport    `json:"before"`
	After   MetricReport    `json:"after"`
}

// Comparison is the full pairwise comparison of two evaluation reports.
type Comparison struct {
	Metrics          map[string]MetricComparison `json:"metrics"`
	ScoreDelta       int                         `json:"scoreDelta"`
	OverallImproved  bool                        `json:"overallImproved"`
}

// Compare evaluates both event sets and labels each metric
// improved/regressed/unchanged, per the comparison-consistency property:
// if the pass verdict is identical, the metric is always "unchanged".
func Compare(in Input, eventsA, eventsB []models.ScheduledEventDraft, timestamp string) Comparison {
	inA, inB := in, in
	inA.Events = eventsA
	inB.Events = eventsB

	reportA := Evaluate(inA, timestamp)
	reportB := Evaluate(inB, timestamp)

	metrics := map[string]MetricComparison{
		"weeklyRequirements":      compareMetric(reportA.WeeklyRequirements, reportB.WeeklyRequirements),
		"homeAwayBalance":         compareMetric(reportA.HomeAwayBalance, reportB.HomeAwayBalance),
		"constraintViolations":    compareMetric(reportA.ConstraintViolations, reportB.ConstraintViolations),
		"gameDayPreferences":      compareMetric(reportA.GameDayPreferences, reportB.GameDayPreferences),
		"gameSpacing":             compareMetric(reportA.GameSpacing, reportB.GameSpacing),
		"practiceSpacing":         compareMetric(reportA.PracticeSpacing, reportB.PracticeSpacing),
		"matchupBalance":          compareMetric(reportA.MatchupBalance, reportB.MatchupBalance),
		"matchupSpacing":          compareMetric(reportA.MatchupSpacing, reportB.MatchupSpacing),
		"gameSlotEfficiency":      compareMetric(reportA.GameSlotEfficiency, reportB.GameSlotEfficiency),
		"weeklyGamesDistribution": compareMetric(reportA.WeeklyGamesDistribution, reportB.WeeklyGamesDistribution),
	}

	return Comparison{
		Metrics:         metrics,
		ScoreDelta:      reportB.OverallScore - reportA.OverallScore,
		OverallImproved: reportB.OverallScore > reportA.OverallScore,
	}
}

func compareMetric(before, after MetricReport) MetricComparison {
	change := ChangeUnchanged
	if before.Passed != after.Passed {
		if after.Passed {
			change = ChangeImproved
		} else {
			change = ChangeRegressed
		}
	}
	return MetricComparison{Change: change, Before: before, After: after}
}
