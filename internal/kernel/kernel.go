package kernel

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/ll-scheduler-kernel/internal/evaluator"
	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
	"github.com/noah-isme/ll-scheduler-kernel/internal/placement"
	kerr "github.com/noah-isme/ll-scheduler-kernel/pkg/errors"
)

// Stats summarizes a generation run for quick inspection without
// walking the full event list.
type Stats struct {
	TotalEvents int            `json:"totalEvents"`
	ByType      map[string]int `json:"byType"`
	ByDivision  map[string]int `json:"byDivision"`
	AvgPerTeam  float64        `json:"avgPerTeam"`
}

// GenerationResult is Generate's return value: a unique run ID for
// correlating this run across logs/metrics/batch output, the placed
// events, any non-fatal warnings, any fatal errors (non-empty only when
// events is empty), and summary stats.
type GenerationResult struct {
	RunID     string                       `json:"runId"`
	Events    []models.ScheduledEventDraft `json:"events"`
	Warnings  []kerr.Warning               `json:"warnings"`
	Errors    []*kerr.Error                `json:"errors"`
	Stats     Stats                        `json:"stats"`
	Cancelled bool                         `json:"cancelled"`
}

// Kernel wires the validator and logger shared by every operation. It
// holds no scheduling state of its own — each Generate call constructs a
// fresh placement.Engine over its own Bundle.
type Kernel struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// New constructs a Kernel. A nil validate/logger falls back to sane
// defaults, mirroring the constructor pattern used across this module's
// other components.
func New(validate *validator.Validate, logger *zap.Logger) *Kernel {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Kernel{validate: validate, logger: logger}
}

// Generate runs the Placement Engine over bundle. Preconditions (at
// least one team; every referenced division has a config; at least one
// field; at least one cage if any division requires cage sessions) are
// checked up front — violations return a fatal error and no events.
func (k *Kernel) Generate(bundle Bundle, rngSeed int64, cancel <-chan struct{}) GenerationResult {
	runID := uuid.NewString()

	if err := k.validate.Struct(bundle); err != nil {
		k.logger.Warn("generate aborted on bundle validation failure", zap.String("run_id", runID), zap.Error(err))
		return GenerationResult{RunID: runID, Errors: []*kerr.Error{kerr.Clone(kerr.ErrValidation, err.Error())}}
	}
	if fatalErr := precheck(bundle); fatalErr != nil {
		k.logger.Warn("generate aborted on precondition failure", zap.String("run_id", runID), zap.String("code", fatalErr.Code))
		return GenerationResult{RunID: runID, Errors: []*kerr.Error{fatalErr}}
	}

	engine := placement.NewEngine(placement.Input{
		Season:              bundle.Season,
		Divisions:           bundle.Divisions,
		DivisionConfigs:     bundle.DivisionConfigs,
		Teams:               bundle.Teams,
		Fields:              bundle.Fields,
		Cages:               bundle.Cages,
		FieldAvailabilities: bundle.FieldAvailabilities,
		CageAvailabilities:  bundle.CageAvailabilities,
		FieldOverrides:      bundle.FieldOverrides,
		CageOverrides:       bundle.CageOverrides,
		Weights:             bundle.weights(),
		RNGSeed:             rngSeed,
	}, cancel)

	result := engine.Run()
	k.logger.Info("generation finished",
		zap.String("run_id", runID),
		zap.Int("events", len(result.Events)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Bool("cancelled", result.Cancelled),
	)

	return GenerationResult{
		RunID:     runID,
		Events:    result.Events,
		Warnings:  result.Warnings,
		Stats:     computeStats(result.Events, bundle.Teams),
		Cancelled: result.Cancelled,
	}
}

// Evaluate computes the ten metric reports and overall score for events
// against bundle. It never mutates bundle or events.
func (k *Kernel) Evaluate(bundle Bundle, events []models.ScheduledEventDraft, timestamp string) evaluator.Report {
	return evaluator.Evaluate(k.evaluatorInput(bundle, events), timestamp)
}

// Compare runs Evaluate over eventsA and eventsB and labels each metric
// improved, regressed, or unchanged.
func (k *Kernel) Compare(bundle Bundle, eventsA, eventsB []models.ScheduledEventDraft, timestamp string) evaluator.Comparison {
	return evaluator.Compare(k.evaluatorInput(bundle, nil), eventsA, eventsB, timestamp)
}

func (k *Kernel) evaluatorInput(bundle Bundle, events []models.ScheduledEventDraft) evaluator.Input {
	return evaluator.Input{
		Events:             events,
		Teams:              bundle.Teams,
		Divisions:          bundle.Divisions,
		DivisionConfigs:    bundle.DivisionConfigs,
		Fields:             bundle.Fields,
		Cages:              bundle.Cages,
		Season:             bundle.Season,
		AvailabilityBundle: bundle.AvailabilityBundle,
	}
}

func precheck(bundle Bundle) *kerr.Error {
	if len(bundle.Teams) == 0 {
		return kerr.ErrNoTeams
	}
	for _, t := range bundle.Teams {
		if _, ok := bundle.DivisionConfigs[t.DivisionID]; !ok {
			return kerr.Clone(kerr.ErrMissingDivisionConfig, "division "+t.DivisionID+" has no DivisionConfig")
		}
	}
	if len(bundle.Fields) == 0 {
		return kerr.ErrNoFields
	}
	if bundle.requiresCages() && len(bundle.Cages) == 0 {
		return kerr.ErrNoCages
	}
	return nil
}

func computeStats(events []models.ScheduledEventDraft, teams []models.Team) Stats {
	stats := Stats{
		TotalEvents: len(events),
		ByType:      map[string]int{},
		ByDivision:  map[string]int{},
	}
	for _, e := range events {
		stats.ByType[string(e.EventType)]++
		stats.ByDivision[e.DivisionID]++
	}
	if len(teams) > 0 {
		teamEventCount := 0
		for _, e := range events {
			teamEventCount += len(e.Teams())
		}
		stats.AvgPerTeam = float64(teamEventCount) / float64(len(teams))
	}
	return stats
}
