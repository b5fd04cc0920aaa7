package reservation

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/agenda-core/internal/models"
)

// Window is the operating window of a resource on a given day.
type Window struct {
	Open   time.Time
	Close  time.Time
	Closed bool
	Breaks []Interval
}

// Contains reports whether [start,end) fits inside the window and avoids every break.
func (w Window) Contains(start, end time.Time) bool {
	if w.Closed || start.Before(w.Open) || end.After(w.Close) {
		return false
	}
	for _, b := range w.Breaks {
		if b.Overlaps(start, end) {
			return false
		}
	}
	return true
}

// ResolveWindow picks the resource working hours for the weekday of day when
// present (nil wh means no override) and falls back to the tenant hours.
// day must already be in the tenant location.
func ResolveWindow(tenant *models.Tenant, wh *models.WorkingHours, day time.Time) (Window, error) {
	openHM, closeHM := tenant.OpenTime, tenant.CloseTime

	var breaks []Interval
	if wh != nil {
		if !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
			return Window{Closed: true}, nil
		}
		openHM, closeHM = wh.StartTime, wh.EndTime

		if wh.BreakStart != "" && wh.BreakEnd != "" {
			bs, err := atClock(day, wh.BreakStart)
			if err != nil {
				return Window{}, err
			}
			be, err := atClock(day, wh.BreakEnd)
			if err != nil {
				return Window{}, err
			}
			breaks = append(breaks, Interval{Start: bs, End: be})
		}
	}

	open, err := atClock(day, openHM)
	if err != nil {
		return Window{}, err
	}
	closeAt, err := atClock(day, closeHM)
	if err != nil {
		return Window{}, err
	}
	if !closeAt.After(open) {
		return Window{Closed: true}, nil
	}

	return Window{Open: open, Close: closeAt, Breaks: breaks}, nil
}

func atClock(day time.Time, hm string) (time.Time, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", hm, err)
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	), nil
}
