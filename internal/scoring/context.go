// Package scoring implements the Scoring Context and the
// Candidate Scorer: the mutable per-run state the Placement
// Engine threads through every candidate evaluation, and the pure
// function that turns a candidate into a weighted score.
package scoring

import (
	"github.com/noah-isme/ll-scheduler-kernel/internal/indices"
	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
)

const defaultResourceCapacityHours = 8.0

// Context carries per-scheduling-run mutable state. It is
// owned exclusively by one placement run — never shared, never read by
// the Evaluator.
type Context struct {
	TeamStates       map[string]*models.TeamSchedulingState
	ResourceUsage    map[string]map[string]float64 // resourceID -> date -> hours booked
	ResourceCapacity map[string]float64            // resourceID -> hours/day, default 8
	DivisionConfigs  map[string]models.DivisionConfig

	// TeamSlotAvailability is an optional precomputed set of remaining
	// candidate slot keys per team, consulted by the scarcity factor.
	// Keys are resourceID|date|startTime.
	TeamSlotAvailability map[string]map[string]bool

	Indices *indices.Indices
}

// NewContext initializes an empty Context from the division configs in
// the Input Bundle.
func NewContext(divisionConfigs map[string]models.DivisionConfig) *Context {
	return &Context{
		TeamStates:           make(map[string]*models.TeamSchedulingState),
		ResourceUsage:        make(map[string]map[string]float64),
		ResourceCapacity:     make(map[string]float64),
		DivisionConfigs:      divisionConfigs,
		TeamSlotAvailability: make(map[string]map[string]bool),
		Indices:              indices.New(),
	}
}

// TeamState returns (creating if absent) the TeamSchedulingState for teamID.
func (c *Context) TeamState(teamID string) *models.TeamSchedulingState {
	s, ok := c.TeamStates[teamID]
	if !ok {
		s = models.NewTeamSchedulingState(teamID)
		c.TeamStates[teamID] = s
	}
	return s
}

// ResourceCapacityFor returns the configured hours/day capacity for a
// resource, defaulting to 8 hours when unset.
func (c *Context) ResourceCapacityFor(resourceID string) float64 {
	if cap, ok := c.ResourceCapacity[resourceID]; ok && cap > 0 {
		return cap
	}
	return defaultResourceCapacityHours
}

// BookedHours returns hours already booked on resourceID for date.
func (c *Context) BookedHours(resourceID, date string) float64 {
	byDate, ok := c.ResourceUsage[resourceID]
	if !ok {
		return 0
	}
	return byDate[date]
}

// ReserveResource records additional hours booked against a resource on a date.
func (c *Context) ReserveResource(resourceID, date string, hours float64) {
	byDate, ok := c.ResourceUsage[resourceID]
	if !ok {
		byDate = make(map[string]float64)
		c.ResourceUsage[resourceID] = byDate
	}
	byDate[date] += hours
}

// MarkSlotTaken removes a candidate slot key from every other team's
// remaining-availability set once a placement succeeds, so the scarcity
// factor reflects reality for subsequent candidates.
func (c *Context) MarkSlotTaken(slotKey string) {
	for _, set := range c.TeamSlotAvailability {
		delete(set, slotKey)
	}
}
