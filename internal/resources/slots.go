// Package resources materializes concrete (resource, date, window)
// availability slots from weekly availability windows, date overrides,
// and blackouts.
package resources

import (
	"sort"

	"github.com/noah-isme/ll-scheduler-kernel/internal/calendar"
	"github.com/noah-isme/ll-scheduler-kernel/internal/models"
)

// ResourceSlot is a concrete bookable window on one date for one resource.
type ResourceSlot struct {
	ResourceType    models.ResourceType
	ResourceID      string
	Date            string
	DayOfWeek       int
	StartTime       string
	EndTime         string
	SingleEventOnly bool
}

// window is a half-open [start,end) minute interval.
type window struct {
	start, end      int
	singleEventOnly bool
}

// BuildFieldSlots materializes slots for every season field across the
// season's date range.
func BuildFieldSlots(season models.Season, fields []models.SeasonField, avail []models.FieldAvailability, overrides []models.FieldDateOverride) []ResourceSlot {
	byField := map[string][]models.FieldAvailability{}
	for _, a := range avail {
		byField[a.SeasonFieldID] = append(byField[a.SeasonFieldID], a)
	}
	overridesByFieldDate := map[string][]models.FieldDateOverride{}
	for _, o := range overrides {
		key := o.SeasonFieldID + "|" + o.Date
		overridesByFieldDate[key] = append(overridesByFieldDate[key], o)
	}

	var out []ResourceSlot
	dates := calendar.EnumerateDates(season.StartDate, season.EndDate)
	for _, field := range fields {
		weekly := byField[field.ID]
		for _, date := range dates {
			dow := calendar.DayOfWeek(date)
			var windows []window
			for _, w := range weekly {
				if w.DayOfWeek == dow {
					windows = append(windows, window{
						start:           calendar.Minutes(w.StartTime),
						end:             calendar.Minutes(w.EndTime),
						singleEventOnly: w.SingleEventOnly,
					})
				}
			}

			key := field.ID + "|" + date
			dayOverrides := overridesByFieldDate[key]
			windows, blackedOut := applyOverrides(windows, dayOverrides)
			if blackedOut {
				continue
			}

			for _, w := range windows {
				out = append(out, ResourceSlot{
					ResourceType:    models.ResourceField,
					ResourceID:      field.ID,
					Date:            date,
					DayOfWeek:       dow,
					StartTime:       calendar.TimeFromMinutes(w.start),
					EndTime:         calendar.TimeFromMinutes(w.end),
					SingleEventOnly: w.singleEventOnly,
				})
			}
		}
	}
	sortSlots(out)
	return out
}

// BuildCageSlots is the cage equivalent of BuildFieldSlots.
func BuildCageSlots(season models.Season, cages []models.SeasonCage, avail []models.CageAvailability, overrides []models.CageDateOverride) []ResourceSlot {
	byCage := map[string][]models.CageAvailability{}
	for _, a := range avail {
		byCage[a.SeasonCageID] = append(byCage[a.SeasonCageID], a)
	}
	overridesByCageDate := map[string][]models.CageDateOverride{}
	for _, o := range overrides {
		key := o.SeasonCageID + "|" + o.Date
		overridesByCageDate[key] = append(overridesByCageDate[key], o)
	}

	var out []ResourceSlot
	dates := calendar.EnumerateDates(season.StartDate, season.EndDate)
	for _, cage := range cages {
		weekly := byCage[cage.ID]
		for _, date := range dates {
			dow := calendar.DayOfWeek(date)
			var windows []window
			for _, w := range weekly {
				if w.DayOfWeek == dow {
					windows = append(windows, window{
						start:           calendar.Minutes(w.StartTime),
						end:             calendar.Minutes(w.EndTime),
						singleEventOnly: w.SingleEventOnly,
					})
				}
			}

			key := cage.ID + "|" + date
			dayOverrides := overridesByCageDate[key]
			cageOverridesAsField := make([]models.FieldDateOverride, len(dayOverrides))
			for i, o := range dayOverrides {
				cageOverridesAsField[i] = models.FieldDateOverride{
					OverrideType:    o.OverrideType,
					StartTime:       o.StartTime,
					EndTime:         o.EndTime,
					SingleEventOnly: o.SingleEventOnly,
				}
			}
			windows, blackedOut := applyOverrides(windows, cageOverridesAsField)
			if blackedOut {
				continue
			}

			for _, w := range windows {
				out = append(out, ResourceSlot{
					ResourceType:    models.ResourceCage,
					ResourceID:      cage.ID,
					Date:            date,
					DayOfWeek:       dow,
					StartTime:       calendar.TimeFromMinutes(w.start),
					EndTime:         calendar.TimeFromMinutes(w.end),
					SingleEventOnly: w.singleEventOnly,
				})
			}
		}
	}
	sortSlots(out)
	return out
}

// applyOverrides subtracts blackout intervals (splitting windows at
// boundaries) and unions added windows. Returns blackedOut=true when a
// timeless blackout blacks out the whole date.
func applyOverrides(windows []window, overrides []models.FieldDateOverride) ([]window, bool) {
	for _, o := range overrides {
		if o.OverrideType == models.OverrideBlackout && o.StartTime == "" && o.EndTime == "" {
			return nil, true
		}
	}

	result := windows
	for _, o := range overrides {
		if o.OverrideType != models.OverrideBlackout {
			continue
		}
		bStart, bEnd := calendar.Minutes(o.StartTime), calendar.Minutes(o.EndTime)
		result = subtractInterval(result, bStart, bEnd)
	}
	for _, o := range overrides {
		if o.OverrideType != models.OverrideAdded {
			continue
		}
		result = append(result, window{
			start:           calendar.Minutes(o.StartTime),
			end:             calendar.Minutes(o.EndTime),
			singleEventOnly: o.SingleEventOnly,
		})
	}
	return result, false
}

// subtractInterval splits every window against [bStart,bEnd), discarding
// any resulting zero-length remainder.
func subtractInterval(windows []window, bStart, bEnd int) []window {
	var out []window
	for _, w := range windows {
		if bEnd <= w.start || bStart >= w.end {
			out = append(out, w)
			continue
		}
		if bStart > w.start {
			out = append(out, window{start: w.start, end: bStart, singleEventOnly: w.singleEventOnly})
		}
		if bEnd < w.end {
			out = append(out, window{start: bEnd, end: w.end, singleEventOnly: w.singleEventOnly})
		}
	}
	return out
}

func sortSlots(slots []ResourceSlot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		if slots[i].ResourceID != slots[j].ResourceID {
			return slots[i].ResourceID < slots[j].ResourceID
		}
		return slots[i].StartTime < slots[j].StartTime
	})
}

// GameEligible reports whether a slot's date admits games: on or after
// gamesStartDate and not blacked out for games (blackout already applied
// upstream; this only enforces the date floor).
func GameEligible(slot ResourceSlot, gamesStartDate string) bool {
	d, err := calendar.ParseDate(slot.Date)
	g, err2 := calendar.ParseDate(gamesStartDate)
	if err != nil || err2 != nil {
		return false
	}
	return !d.Before(g)
}

// PracticeCageEligible reports whether a slot's date lies within the
// season's practice/cage-eligible range and is not listed as a season
// blackout date.
func PracticeCageEligible(slot ResourceSlot, season models.Season) bool {
	if !calendar.InSeasonRange(slot.Date, season.StartDate, season.EndDate) {
		return false
	}
	for _, b := range season.BlackoutDates {
		if b == slot.Date {
			return false
		}
	}
	return true
}
