package reservation

import (
	"time"

	"github.com/BruksfildServices01/agenda-core/internal/httperr"
)

type AvailabilityInput struct {
	ResourceID uint
	ServiceID  uint
	Date       string // YYYY-MM-DD in the tenant timezone
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps uses half-open semantics: touching endpoints do not overlap.
func (i Interval) Overlaps(start, end time.Time) bool {
	return start.Before(i.End) && end.After(i.Start)
}

// SlotQuery holds everything the calculator needs. It does no I/O.
type SlotQuery struct {
	Open     time.Time
	Close    time.Time
	Interval time.Duration
	Duration time.Duration
	LeadTime time.Duration
	Now      time.Time
	Busy     []Interval
}

// Calculate returns the ascending candidate start times for q.
// A non-positive duration rejects the request before any grid is built; a
// window that cannot hold the duration yields an empty slice.
func Calculate(q SlotQuery) ([]time.Time, error) {
	if q.Duration <= 0 {
		return nil, httperr.ErrBadRequest("service duration must be positive")
	}

	step := q.Interval
	if step <= 0 {
		step = q.Duration
	}

	earliest := q.Now.Add(q.LeadTime)
	slots := []time.Time{}

	for start := q.Open; start.Before(q.Close); start = start.Add(step) {
		end := start.Add(q.Duration)

		if end.After(q.Close) {
			break
		}
		if start.Before(earliest) {
			continue
		}
		if conflicts(q.Busy, start, end) {
			continue
		}

		slots = append(slots, start)
	}

	return slots, nil
}

func conflicts(busy []Interval, start, end time.Time) bool {
	for _, b := range busy {
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}
