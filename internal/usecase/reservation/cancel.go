package reservation

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-core/internal/access"
	"github.com/BruksfildServices01/agenda-core/internal/audit"
	domain "github.com/BruksfildServices01/agenda-core/internal/domain/reservation"
	"github.com/BruksfildServices01/agenda-core/internal/httperr"
	"github.com/BruksfildServices01/agenda-core/internal/models"
	"github.com/BruksfildServices01/agenda-core/internal/telemetry"
)

type CancelReservation struct {
	authz   Authorizer
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *telemetry.Metrics
	now     func() time.Time
}

func NewCancelReservation(
	authz Authorizer,
	repo domain.Repository,
	audit *audit.Dispatcher,
	metrics *telemetry.Metrics,
) *CancelReservation {
	return &CancelReservation{
		authz:   authz,
		repo:    repo,
		audit:   audit,
		metrics: metrics,
		now:     time.Now,
	}
}

// Execute frees the slot: a cancelled row no longer counts as busy and no
// longer holds the unique index.
func (uc *CancelReservation) Execute(
	ctx context.Context,
	p access.Principal,
	tenantID uint,
	reservationID uint,
) (*models.Reservation, error) {

	scope, _, err := uc.authz.Authorize(ctx, p, tenantID)
	if err != nil {
		return nil, err
	}

	r, err := uc.repo.GetReservation(ctx, scope.TenantID(), reservationID)
	if err != nil {
		return nil, notFound(err, "reservation")
	}

	if err := domain.Cancel(r, uc.now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateReservation(ctx, r); err != nil {
		return nil, httperr.ErrInternal(err)
	}

	uc.audit.Dispatch(audit.Event{
		TenantID:    scope.TenantID(),
		PrincipalID: scope.PrincipalID(),
		Action:      "reservation_cancelled",
		Entity:      "reservation",
		EntityID:    &r.ID,
	})
	if uc.metrics != nil {
		uc.metrics.ReservationsCancelled.Add(ctx, 1)
	}

	return r, nil
}
