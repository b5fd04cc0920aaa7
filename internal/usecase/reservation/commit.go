package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/agenda-core/internal/audit"
	domain "github.com/BruksfildServices01/agenda-core/internal/domain/reservation"
	"github.com/BruksfildServices01/agenda-core/internal/httperr"
	"github.com/BruksfildServices01/agenda-core/internal/models"
	"github.com/BruksfildServices01/agenda-core/internal/telemetry"
	"github.com/BruksfildServices01/agenda-core/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CommitInput struct {
	TenantID    uint
	ResourceID  uint
	ServiceID   uint
	CustomerID  uint
	PrincipalID string

	Start time.Time
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

// CommitReservation persists a previously offered slot. The storage unique
// index on committed (resource_id, start_time) is the final word on
// conflicts; the re-check before the insert only saves a round trip.
type CommitReservation struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *telemetry.Metrics
	policy  Policy
	now     func() time.Time
}

func NewCommitReservation(
	repo domain.Repository,
	audit *audit.Dispatcher,
	metrics *telemetry.Metrics,
	policy Policy,
) *CommitReservation {
	return &CommitReservation{
		repo:    repo,
		audit:   audit,
		metrics: metrics,
		policy:  policy,
		now:     time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CommitReservation) Execute(
	ctx context.Context,
	in CommitInput,
) (*models.Reservation, error) {

	// --------------------------------------------------
	// 1. Tenant, resource and service
	// --------------------------------------------------
	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, notFound(err, "tenant")
	}

	resource, err := uc.repo.GetResourceByID(ctx, in.ResourceID)
	if err != nil {
		return nil, notFound(err, "resource")
	}
	if resource.TenantID != tenant.ID {
		return nil, httperr.ErrNotFound("resource_not_found")
	}

	service, err := uc.repo.GetService(ctx, tenant.ID, in.ServiceID)
	if err != nil {
		return nil, notFound(err, "service")
	}
	if service.DurationMin <= 0 {
		return nil, httperr.ErrBadRequest("service duration must be positive")
	}

	// --------------------------------------------------
	// 2. Interval in the tenant timezone
	// --------------------------------------------------
	loc := timezone.Location(tenant.Timezone)
	start := in.Start.In(loc)
	end := start.Add(time.Duration(service.DurationMin) * time.Minute)

	// --------------------------------------------------
	// 3. Working hours and breaks
	// --------------------------------------------------
	wh, err := uc.repo.GetWorkingHours(ctx, resource.ID, int(start.Weekday()))
	if err != nil {
		return nil, httperr.ErrInternal(err)
	}

	window, err := domain.ResolveWindow(tenant, wh, start)
	if err != nil {
		return nil, httperr.ErrInternal(err)
	}
	if !window.Contains(start, end) {
		return nil, httperr.ErrBadRequest("outside_working_hours")
	}

	// --------------------------------------------------
	// 4. Lead time
	// --------------------------------------------------
	now := uc.now().In(loc)
	if start.Before(now.Add(uc.policy.leadTime(tenant))) {
		return nil, httperr.ErrBadRequest("too_soon")
	}

	// --------------------------------------------------
	// 5. Re-check busy intervals
	// --------------------------------------------------
	busy, err := uc.repo.ListBusyIntervals(ctx, resource.ID, start, end)
	if err != nil {
		return nil, httperr.ErrInternal(err)
	}
	for _, b := range busy {
		if b.Overlaps(start, end) {
			return nil, uc.conflict(ctx, in, start)
		}
	}

	// --------------------------------------------------
	// 6. Single atomic insert
	// --------------------------------------------------
	r := &models.Reservation{
		TenantID:   tenant.ID,
		ResourceID: resource.ID,
		ServiceID:  service.ID,
		CustomerID: in.CustomerID,
		StartTime:  start,
		EndTime:    end,
		Status:     string(domain.InitialStatus()),
		Notes:      in.Notes,
	}
	if err := domain.Commit(r, now); err != nil {
		return nil, err
	}

	if err := uc.repo.CreateReservation(ctx, r); err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			return nil, uc.conflict(ctx, in, start)
		}
		return nil, httperr.ErrInternal(err)
	}
	r.Service = service

	// --------------------------------------------------
	// 7. Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		TenantID:    tenant.ID,
		PrincipalID: in.PrincipalID,
		Action:      "reservation_committed",
		Entity:      "reservation",
		EntityID:    &r.ID,
		Metadata: map[string]any{
			"resource_id": resource.ID,
			"start_time":  r.StartTime,
		},
	})
	if uc.metrics != nil {
		uc.metrics.ReservationsCommitted.Add(ctx, 1)
	}

	return r, nil
}

func (uc *CommitReservation) conflict(ctx context.Context, in CommitInput, start time.Time) error {
	uc.audit.Dispatch(audit.Event{
		TenantID:    in.TenantID,
		PrincipalID: in.PrincipalID,
		Action:      "reservation_conflict",
		Entity:      "reservation",
		Metadata: map[string]any{
			"resource_id": in.ResourceID,
			"start_time":  start.UTC(),
		},
	})
	if uc.metrics != nil {
		uc.metrics.ReservationConflicts.Add(ctx, 1)
	}
	return httperr.ErrSlotConflict()
}
