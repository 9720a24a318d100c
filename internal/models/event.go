package models

// EventType discriminates a scheduled event's kind. Modeled as a tagged
// variant rather than a bare string so downstream pattern-matches on
// fields valid only for one kind don't have to guess.
type EventType string

const (
	EventGame     EventType = "game"
	EventPractice EventType = "practice"
	EventCage     EventType = "cage"
)

// EventStatus is the lifecycle tag carried on a ScheduledEventDraft.
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCancelled EventStatus = "cancelled"
)

// ScheduledEventDraft is the Kernel's sole output shape. Exactly one of
// (FieldID, CageID) is set, consistent with EventType. For EventGame,
// HomeTeamID and AwayTeamID are both set and distinct; for
// EventPractice/EventCage, only TeamID is set.
type ScheduledEventDraft struct {
	ID         string
	DivisionID string
	EventType  EventType

	Date      string // YYYY-MM-DD
	StartTime string // HH:MM
	EndTime   string

	FieldID *string
	CageID  *string

	HomeTeamID *string
	AwayTeamID *string
	TeamID     *string

	Status EventStatus
	Notes  string
}

// ResourceID returns whichever of FieldID/CageID is set.
func (e ScheduledEventDraft) ResourceID() string {
	if e.FieldID != nil {
		return *e.FieldID
	}
	if e.CageID != nil {
		return *e.CageID
	}
	return ""
}

// ResourceType returns the resource kind the event is booked against.
func (e ScheduledEventDraft) ResourceType() ResourceType {
	if e.FieldID != nil {
		return ResourceField
	}
	return ResourceCage
}

// Teams returns every team ID participating in the event.
func (e ScheduledEventDraft) Teams() []string {
	var ids []string
	if e.HomeTeamID != nil {
		ids = append(ids, *e.HomeTeamID)
	}
	if e.AwayTeamID != nil {
		ids = append(ids, *e.AwayTeamID)
	}
	if e.TeamID != nil {
		ids = append(ids, *e.TeamID)
	}
	return ids
}

// HasTeam reports whether teamID participates in the event.
func (e ScheduledEventDraft) HasTeam(teamID string) bool {
	for _, id := range e.Teams() {
		if id == teamID {
			return true
		}
	}
	return false
}

// IsFieldEvent reports whether the event books a field (game or practice).
func (e ScheduledEventDraft) IsFieldEvent() bool {
	return e.EventType == EventGame || e.EventType == EventPractice
}

func StrPtr(s string) *string { return &s }
