package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
	kerr "github.com/noah-isme/ll-scheduler-kernel/pkg/errors"
)

func minimalBundle() Bundle {
	return Bundle{
		Season: models.Season{
			ID: "season-1", StartDate: "2026-03-02", EndDate: "2026-03-15", GamesStartDate: "2026-03-07",
		},
		Divisions: []models.Division{{ID: "minors", Name: "Minors"}},
		DivisionConfigs: map[string]models.DivisionConfig{
			"minors": {DivisionID: "minors", GamesPerWeek: 1, PracticesPerWeek: 1},
		},
		Teams: []models.Team{
			{ID: "team-a", DivisionID: "minors"},
			{ID: "team-b", DivisionID: "minors"},
		},
		Fields: []models.SeasonField{{ID: "field-1"}},
		FieldAvailabilities: []models.FieldAvailability{
			{SeasonFieldID: "field-1", DayOfWeek: 6, StartTime: "09:00", EndTime: "18:00"},
		},
	}
}

func TestGenerateRejectsBundleWithNoTeams(t *testing.T) {
	k := New(nil, nil)
	bundle := minimalBundle()
	bundle.Teams = nil

	result := k.Generate(bundle, 1, nil)
	require.Len(t, result.Errors, 1)
	assert.Empty(t, result.Events)
}

func TestGenerateRejectsBundleMissingDivisionConfig(t *testing.T) {
	k := New(nil, nil)
	bundle := minimalBundle()
	bundle.Teams = append(bundle.Teams, models.Team{ID: "team-c", DivisionID: "majors"})

	result := k.Generate(bundle, 1, nil)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, kerr.ErrMissingDivisionConfig.Code, result.Errors[0].Code)
	assert.Empty(t, result.Events)
}

func TestGenerateRejectsBundleWithNoFields(t *testing.T) {
	k := New(nil, nil)
	bundle := minimalBundle()
	bundle.Fields = nil

	result := k.Generate(bundle, 1, nil)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, kerr.ErrNoFields.Code, result.Errors[0].Code)
}

func TestGenerateRejectsBundleRequiringCagesWithNone(t *testing.T) {
	k := New(nil, nil)
	bundle := minimalBundle()
	cfg := bundle.DivisionConfigs["minors"]
	cfg.CageSessionsPerWeek = 1
	bundle.DivisionConfigs["minors"] = cfg

	result := k.Generate(bundle, 1, nil)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, kerr.ErrNoCages.Code, result.Errors[0].Code)
}

func TestGenerateProducesEventsAndStatsForAValidBundle(t *testing.T) {
	k := New(nil, nil)
	bundle := minimalBundle()

	result := k.Generate(bundle, 1, nil)
	require.Empty(t, result.Errors)
	require.NotEmpty(t, result.Events)
	assert.False(t, result.Cancelled)
	assert.Equal(t, len(result.Events), result.Stats.TotalEvents)
	assert.Positive(t, result.Stats.AvgPerTeam)
}

func TestGenerateAssignsADistinctRunIDPerCall(t *testing.T) {
	k := New(nil, nil)
	bundle := minimalBundle()

	first := k.Generate(bundle, 1, nil)
	second := k.Generate(bundle, 1, nil)
	assert.NotEmpty(t, first.RunID)
	assert.NotEmpty(t, second.RunID)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestGenerateSetsRunIDOnValidationFailureToo(t *testing.T) {
	k := New(nil, nil)
	bundle := minimalBundle()
	bundle.Teams = nil

	result := k.Generate(bundle, 1, nil)
	assert.NotEmpty(t, result.RunID)
}

func TestEvaluateDelegatesToEvaluator(t *testing.T) {
	k := New(nil, nil)
	bundle := minimalBundle()
	gen := k.Generate(bundle, 1, nil)
	require.NotEmpty(t, gen.Events)

	report := k.Evaluate(bundle, gen.Events, "2026-07-29T00:00:00Z")
	assert.Equal(t, "2026-07-29T00:00:00Z", report.Timestamp)
	assert.GreaterOrEqual(t, report.OverallScore, 0)
}

func TestCompareDelegatesToEvaluator(t *testing.T) {
	k := New(nil, nil)
	bundle := minimalBundle()
	gen := k.Generate(bundle, 1, nil)
	require.NotEmpty(t, gen.Events)

	cmp := k.Compare(bundle, gen.Events, gen.Events, "2026-07-29T00:00:00Z")
	assert.Zero(t, cmp.ScoreDelta)
	assert.False(t, cmp.OverallImproved)
}
