package models

// ResourceType discriminates a bookable physical resource.
type ResourceType string

const (
	ResourceField ResourceType = "field"
	ResourceCage  ResourceType = "cage"
)

// SeasonField binds a global field to a season, optionally restricted to
// a set of compatible divisions. An empty DivisionCompatibility means
// "all divisions".
type SeasonField struct {
	ID                    string
	SeasonID              string
	Name                  string
	DivisionCompatibility []string
}

// SeasonCage binds a global batting cage to a season, with the same
// division-compatibility semantics as SeasonField.
type SeasonCage struct {
	ID                    string
	SeasonID              string
	Name                  string
	DivisionCompatibility []string
}

// Compatible reports whether a resource with the given compatibility list
// may host an event for divisionID.
func Compatible(compatibility []string, divisionID string) bool {
	if len(compatibility) == 0 {
		return true
	}
	for _, id := range compatibility {
		if id == divisionID {
			return true
		}
	}
	return false
}

// FieldAvailability is a recurring weekly availability window for a field.
type FieldAvailability struct {
	SeasonFieldID   string
	DayOfWeek       int // 0..6
	StartTime       string // HH:MM
	EndTime         string
	SingleEventOnly bool
}

// CageAvailability is the cage equivalent of FieldAvailability.
type CageAvailability struct {
	SeasonCageID    string
	DayOfWeek       int
	StartTime       string
	EndTime         string
	SingleEventOnly bool
}

// OverrideType discriminates a date-scoped availability override.
type OverrideType string

const (
	OverrideBlackout OverrideType = "blackout"
	OverrideAdded    OverrideType = "added"
)

// FieldDateOverride overrides a field's weekly availability for one date.
// A blackout with no times blacks out the whole date; with times, it
// blacks out the given sub-window. An added override introduces an extra
// window.
type FieldDateOverride struct {
	SeasonFieldID   string
	Date            string
	OverrideType    OverrideType
	StartTime       string // optional for blackout
	EndTime         string
	SingleEventOnly bool
}

// CageDateOverride is the cage equivalent of FieldDateOverride.
type CageDateOverride struct {
	SeasonCageID    string
	Date            string
	OverrideType    OverrideType
	StartTime       string
	EndTime         string
	SingleEventOnly bool
}

// AvailabilityBundle aggregates the resource-availability inputs the
// Resource Slot Builder needs, and that the Evaluator optionally consults
// for its outside-availability check.
type AvailabilityBundle struct {
	FieldAvailabilities []FieldAvailability
	CageAvailabilities  []CageAvailability
	FieldOverrides      []FieldDateOverride
	CageOverrides       []CageDateOverride
}
