package timezone

import (
	"sync"
	"time"
)

var (
	mu       sync.RWMutex
	fallback = "America/Sao_Paulo"
)

// SetDefault changes the location used for tenants without a valid timezone.
func SetDefault(tz string) {
	if !IsValid(tz) {
		return
	}
	mu.Lock()
	fallback = tz
	mu.Unlock()
}

func Default() string {
	mu.RLock()
	defer mu.RUnlock()
	return fallback
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location never fails: unknown names resolve to the default, and if that
// is missing from the host tzdata, to UTC.
func Location(tz string) *time.Location {
	if loc, err := time.LoadLocation(tz); tz != "" && err == nil {
		return loc
	}
	if loc, err := time.LoadLocation(Default()); err == nil {
		return loc
	}
	return time.UTC
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ParseDay reads a YYYY-MM-DD date as local midnight in loc.
func ParseDay(date string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", date, loc)
}

// DayBounds returns [midnight, next midnight) of the local day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// MonthBounds returns [first day, first day of next month) in loc.
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
