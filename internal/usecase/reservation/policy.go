package reservation

import (
	"time"

	"github.com/BruksfildServices01/agenda-core/internal/models"
)

// Policy holds the fallbacks for tenants that leave scheduling settings unset.
type Policy struct {
	SlotInterval time.Duration
	LeadTime     time.Duration
}

func (p Policy) interval(t *models.Tenant) time.Duration {
	if t.SlotIntervalMin != nil && *t.SlotIntervalMin > 0 {
		return time.Duration(*t.SlotIntervalMin) * time.Minute
	}
	return p.SlotInterval
}

// leadTime keeps an explicit zero; only an unset or negative setting falls back.
func (p Policy) leadTime(t *models.Tenant) time.Duration {
	if t.LeadTimeMin != nil && *t.LeadTimeMin >= 0 {
		return time.Duration(*t.LeadTimeMin) * time.Minute
	}
	return p.LeadTime
}
