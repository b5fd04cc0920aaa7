package reservation

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-core/internal/access"
	"github.com/BruksfildServices01/agenda-core/internal/httperr"
	"github.com/BruksfildServices01/agenda-core/internal/models"
)

type Authorizer interface {
	Authorize(ctx context.Context, p access.Principal, tenantID uint) (access.TenantScope, *models.Tenant, error)
}

// CustomerResolver finds or admits the customer a reservation is for.
type CustomerResolver interface {
	Resolve(ctx context.Context, scope access.TenantScope, name, phone string) (*models.Customer, error)
}

type CreateReservationInput struct {
	TenantID   uint
	ResourceID uint
	ServiceID  uint
	Start      time.Time

	CustomerName  string
	CustomerPhone string
	Notes         string
}

// CreateReservation authorizes the caller, resolves the customer through
// admission, then hands the slot to the committer.
type CreateReservation struct {
	authz     Authorizer
	customers CustomerResolver
	commit    *CommitReservation
}

func NewCreateReservation(
	authz Authorizer,
	customers CustomerResolver,
	commit *CommitReservation,
) *CreateReservation {
	return &CreateReservation{
		authz:     authz,
		customers: customers,
		commit:    commit,
	}
}

func (uc *CreateReservation) Execute(
	ctx context.Context,
	p access.Principal,
	in CreateReservationInput,
) (*models.Reservation, error) {

	if in.TenantID == 0 || in.ResourceID == 0 || in.ServiceID == 0 || in.Start.IsZero() {
		return nil, httperr.ErrBadRequest("tenant_id, resource_id, service_id and start_time are required")
	}

	scope, _, err := uc.authz.Authorize(ctx, p, in.TenantID)
	if err != nil {
		return nil, err
	}

	customer, err := uc.customers.Resolve(ctx, scope, in.CustomerName, in.CustomerPhone)
	if err != nil {
		return nil, err
	}

	r, err := uc.commit.Execute(ctx, CommitInput{
		TenantID:    scope.TenantID(),
		ResourceID:  in.ResourceID,
		ServiceID:   in.ServiceID,
		CustomerID:  customer.ID,
		PrincipalID: scope.PrincipalID(),
		Start:       in.Start,
		Notes:       in.Notes,
	})
	if err != nil {
		return nil, err
	}

	r.Customer = customer
	return r, nil
}
