package reservation

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-core/internal/access"
	domain "github.com/BruksfildServices01/agenda-core/internal/domain/reservation"
	"github.com/BruksfildServices01/agenda-core/internal/httperr"
	"github.com/BruksfildServices01/agenda-core/internal/models"
	"github.com/BruksfildServices01/agenda-core/internal/timezone"
)

type ListReservations struct {
	authz Authorizer
	repo  domain.Repository
}

func NewListReservations(authz Authorizer, repo domain.Repository) *ListReservations {
	return &ListReservations{authz: authz, repo: repo}
}

// ByDate lists every reservation of the resource starting on the local day.
func (uc *ListReservations) ByDate(
	ctx context.Context,
	p access.Principal,
	tenantID uint,
	resourceID uint,
	date string,
) ([]models.Reservation, error) {

	tenant, err := uc.authorize(ctx, p, tenantID, resourceID)
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDay(date, timezone.Location(tenant.Timezone))
	if err != nil {
		return nil, httperr.ErrBadRequest("invalid_date")
	}

	from, to := timezone.DayBounds(day)
	return uc.list(ctx, resourceID, from, to)
}

func (uc *ListReservations) ByMonth(
	ctx context.Context,
	p access.Principal,
	tenantID uint,
	resourceID uint,
	year int,
	month int,
) ([]models.Reservation, error) {

	if year < 2000 || month < 1 || month > 12 {
		return nil, httperr.ErrBadRequest("invalid_year_or_month")
	}

	tenant, err := uc.authorize(ctx, p, tenantID, resourceID)
	if err != nil {
		return nil, err
	}

	from, to := timezone.MonthBounds(year, time.Month(month), timezone.Location(tenant.Timezone))
	return uc.list(ctx, resourceID, from, to)
}

func (uc *ListReservations) authorize(
	ctx context.Context,
	p access.Principal,
	tenantID uint,
	resourceID uint,
) (*models.Tenant, error) {

	if resourceID == 0 {
		return nil, httperr.ErrBadRequest("resource_id is required")
	}

	_, tenant, err := uc.authz.Authorize(ctx, p, tenantID)
	if err != nil {
		return nil, err
	}

	resource, err := uc.repo.GetResourceByID(ctx, resourceID)
	if err != nil {
		return nil, notFound(err, "resource")
	}
	if resource.TenantID != tenant.ID {
		return nil, httperr.ErrNotFound("resource_not_found")
	}
	return tenant, nil
}

// list returns times in the location of from, the tenant timezone.
func (uc *ListReservations) list(ctx context.Context, resourceID uint, from, to time.Time) ([]models.Reservation, error) {
	list, err := uc.repo.ListReservationsForPeriod(ctx, resourceID, from, to)
	if err != nil {
		return nil, httperr.ErrInternal(err)
	}

	loc := from.Location()
	for i := range list {
		list[i].StartTime = list[i].StartTime.In(loc)
		list[i].EndTime = list[i].EndTime.In(loc)
	}
	return list, nil
}
