package reservation

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/agenda-core/internal/domain/reservation"
	"github.com/BruksfildServices01/agenda-core/internal/httperr"
	"github.com/BruksfildServices01/agenda-core/internal/telemetry"
	"github.com/BruksfildServices01/agenda-core/internal/timezone"
)

type Availability struct {
	Date  string      `json:"date"`
	Slots []time.Time `json:"slots"`
}

type GetAvailability struct {
	repo    domain.Repository
	policy  Policy
	metrics *telemetry.Metrics
	now     func() time.Time
}

func NewGetAvailability(repo domain.Repository, policy Policy, metrics *telemetry.Metrics) *GetAvailability {
	return &GetAvailability{
		repo:    repo,
		policy:  policy,
		metrics: metrics,
		now:     time.Now,
	}
}

// Execute computes the free start times for a resource on a date. Nothing is
// cached: every call reads the busy intervals again.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*Availability, error) {

	started := time.Now()
	defer func() {
		if uc.metrics != nil {
			uc.metrics.AvailabilityRequests.Add(ctx, 1)
			uc.metrics.AvailabilityDuration.Record(ctx, float64(time.Since(started).Milliseconds()))
		}
	}()

	if in.ResourceID == 0 || in.ServiceID == 0 || in.Date == "" {
		return nil, httperr.ErrBadRequest("resource_id, service_id and date are required")
	}

	// --------------------------------------------------
	// Resource → tenant → service
	// --------------------------------------------------
	resource, err := uc.repo.GetResourceByID(ctx, in.ResourceID)
	if err != nil {
		return nil, notFound(err, "resource")
	}

	tenant, err := uc.repo.GetTenantByID(ctx, resource.TenantID)
	if err != nil {
		return nil, notFound(err, "tenant")
	}

	service, err := uc.repo.GetService(ctx, tenant.ID, in.ServiceID)
	if err != nil {
		return nil, notFound(err, "service")
	}
	if service.DurationMin <= 0 {
		return nil, httperr.ErrBadRequest("service duration must be positive")
	}

	// --------------------------------------------------
	// Day window in the tenant timezone
	// --------------------------------------------------
	loc := timezone.Location(tenant.Timezone)

	day, err := timezone.ParseDay(in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBadRequest("invalid_date")
	}

	wh, err := uc.repo.GetWorkingHours(ctx, resource.ID, int(day.Weekday()))
	if err != nil {
		return nil, httperr.ErrInternal(err)
	}

	window, err := domain.ResolveWindow(tenant, wh, day)
	if err != nil {
		return nil, httperr.ErrInternal(err)
	}

	out := &Availability{Date: in.Date, Slots: []time.Time{}}
	if window.Closed {
		return out, nil
	}

	// --------------------------------------------------
	// Busy intervals + breaks
	// --------------------------------------------------
	busy, err := uc.repo.ListBusyIntervals(ctx, resource.ID, window.Open, window.Close)
	if err != nil {
		return nil, httperr.ErrInternal(err)
	}
	busy = append(busy, window.Breaks...)

	slots, err := domain.Calculate(domain.SlotQuery{
		Open:     window.Open,
		Close:    window.Close,
		Interval: uc.policy.interval(tenant),
		Duration: time.Duration(service.DurationMin) * time.Minute,
		LeadTime: uc.policy.leadTime(tenant),
		Now:      uc.now().In(loc),
		Busy:     busy,
	})
	if err != nil {
		return nil, err
	}

	out.Slots = slots
	return out, nil
}
