// Package indices maintains the two incremental lookup structures the
// Constraint Checker and Candidate Scorer consult on every candidate:
// (date x resourceID) -> events and (date x teamID) -> events.
// Reconstructing these from scratch per candidate would be O(n); they
// are instead updated incrementally as the Placement Engine places
// events.
package indices

import "github.com/noah-isme/ll-scheduler-kernel/internal/models"

// Indices is owned exclusively by one placement run.
type Indices struct {
	byResourceDate map[string][]*models.ScheduledEventDraft
	byTeamDate     map[string][]*models.ScheduledEventDraft
}

// New returns an empty, ready-to-populate Indices.
func New() *Indices {
	return &Indices{
		byResourceDate: make(map[string][]*models.ScheduledEventDraft),
		byTeamDate:     make(map[string][]*models.ScheduledEventDraft),
	}
}

func resourceKey(resourceID, date string) string { return resourceID + "|" + date }
func teamKey(teamID, date string) string         { return teamID + "|" + date }

// Add registers event in both indices. Call once, after a successful place().
func (idx *Indices) Add(event *models.ScheduledEventDraft) {
	rk := resourceKey(event.ResourceID(), event.Date)
	idx.byResourceDate[rk] = append(idx.byResourceDate[rk], event)
	for _, teamID := range event.Teams() {
		tk := teamKey(teamID, event.Date)
		idx.byTeamDate[tk] = append(idx.byTeamDate[tk], event)
	}
}

// OnResourceDate returns every event booked against resourceID on date.
func (idx *Indices) OnResourceDate(resourceID, date string) []*models.ScheduledEventDraft {
	return idx.byResourceDate[resourceKey(resourceID, date)]
}

// OnTeamDate returns every event teamID participates in on date.
func (idx *Indices) OnTeamDate(teamID, date string) []*models.ScheduledEventDraft {
	return idx.byTeamDate[teamKey(teamID, date)]
}

// AllForTeam returns every event across all dates for teamID. Used by
// dayGap/minDayGap scoring and constraints, which need the full history,
// not just one date's worth.
func (idx *Indices) AllForTeam(teamID string) []*models.ScheduledEventDraft {
	var out []*models.ScheduledEventDraft
	seen := make(map[*models.ScheduledEventDraft]bool)
	for key, events := range idx.byTeamDate {
		_ = key
		for _, e := range events {
			if e.HasTeam(teamID) && !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	return out
}

// BuildFromEvents constructs a fresh Indices from a full event list — used
// by the Evaluator, which never mutates incrementally but still wants
// O(1) lookups for its per-metric passes.
func BuildFromEvents(events []models.ScheduledEventDraft) *Indices {
	idx := New()
	for i := range events {
		idx.Add(&events[i])
	}
	return idx
}
