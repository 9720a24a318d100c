package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/ll-scheduler-kernel/internal/constraints"
	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
)

func newTestContext() *Context {
	return NewContext(map[string]models.DivisionConfig{
		"div-1": {DivisionID: "div-1", GamesPerWeek: 2, PracticesPerWeek: 1},
	})
}

func TestScoreUsesOnlyApplicableFactorsForPractice(t *testing.T) {
	ctx := newTestContext()
	weights := DefaultWeights()

	c := constraints.Candidate{
		DivisionID: "div-1",
		EventType:  models.EventPractice,
		Date:       "2026-03-07", // Saturday
		StartTime:  "09:00",
		EndTime:    "10:00",
		ResourceID: "field-1",
		TeamID:     "team-1",
	}

	total, breakdown := Score(c, ctx, weights, "week-1", "")
	assert.Equal(t, total, breakdown.Total())
	// Game-only factors stay at zero for a practice candidate.
	assert.Zero(t, breakdown.HomeAwayBalance)
	assert.Zero(t, breakdown.MatchupHomeAwayBalance)
	assert.Zero(t, breakdown.ShortRestBalance)
}

func TestDaySpreadFavorsLessUsedDays(t *testing.T) {
	state := models.NewTeamSchedulingState("team-1")
	state.DayOfWeekUsage[6] = 3 // Saturday heavily used
	state.DayOfWeekUsage[0] = 0 // Sunday unused

	assert.Greater(t, daySpread(state, "2026-03-08"), daySpread(state, "2026-03-07"))
}

func TestWeekBalancePrefersUnderQuotaWeeks(t *testing.T) {
	ctx := newTestContext()
	state := ctx.TeamState("team-1")
	state.Week("week-1").Games = 0

	underQuota := weekBalance(ctx, "team-1", "div-1", models.EventGame, "week-1")
	assert.Equal(t, 1.0, underQuota)

	state.Week("week-1").Games = 2 // equals GamesPerWeek
	atQuota := weekBalance(ctx, "team-1", "div-1", models.EventGame, "week-1")
	assert.Equal(t, 0.5, atQuota)

	state.Week("week-1").Games = 3 // over quota
	overQuota := weekBalance(ctx, "team-1", "div-1", models.EventGame, "week-1")
	assert.Equal(t, 0.2, overQuota)
}

func TestTimeQualityPeaksInsidePrimeWindow(t *testing.T) {
	assert.Equal(t, 1.0, timeQuality("16:00"))
	assert.Less(t, timeQuality("09:00"), 1.0)
	assert.Greater(t, timeQuality("09:00"), 0.0)
}

func TestHomeAwayBalancePenalizesGrowingImbalance(t *testing.T) {
	ctx := newTestContext()
	balanced := ctx.TeamState("home-balanced")
	balanced.HomeGames, balanced.AwayGames = 2, 2
	awayBalanced := ctx.TeamState("away-balanced")
	awayBalanced.HomeGames, awayBalanced.AwayGames = 2, 2

	skewedHome := ctx.TeamState("home-skewed")
	skewedHome.HomeGames, skewedHome.AwayGames = 5, 0
	skewedAway := ctx.TeamState("away-skewed")
	skewedAway.HomeGames, skewedAway.AwayGames = 5, 0

	assert.Greater(t,
		homeAwayBalance(ctx, "home-balanced", "away-balanced"),
		homeAwayBalance(ctx, "home-skewed", "away-skewed"))
}

func TestSameDayEventCountsPerParticipant(t *testing.T) {
	ctx := newTestContext()
	home := ctx.TeamState("home-1")
	home.FieldDates["2026-03-07"] = true
	away := ctx.TeamState("away-1")
	away.FieldDates["2026-03-07"] = true

	c := constraints.Candidate{
		EventType:  models.EventGame,
		Date:       "2026-03-07",
		HomeTeamID: "home-1",
		AwayTeamID: "away-1",
	}
	assert.Equal(t, 2.0, sameDayEvent(ctx, c))
}

func TestScarcityIgnoresParticipantsOwnAvailability(t *testing.T) {
	ctx := newTestContext()
	ctx.TeamSlotAvailability["team-1"] = map[string]bool{"slot-a": true}
	ctx.TeamSlotAvailability["team-2"] = map[string]bool{"slot-a": true}

	v := scarcity(ctx, "slot-a", []string{"team-1"})
	assert.Greater(t, v, 0.0)

	selfOnly := scarcity(ctx, "slot-a", []string{"team-1", "team-2"})
	assert.Zero(t, selfOnly)
}
