package access

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/agenda-core/internal/httperr"
	"github.com/BruksfildServices01/agenda-core/internal/models"
)

var ErrNoMembership = errors.New("access: no membership")

// Store resolves tenants and memberships. It returns ErrNoMembership when the
// principal is not a member of the tenant.
type Store interface {
	GetTenant(ctx context.Context, tenantID uint) (*models.Tenant, error)
	GetMembership(ctx context.Context, tenantID uint, principalID string) (*models.TenantMembership, error)
}

type Authorizer struct {
	store Store
}

func NewAuthorizer(store Store) *Authorizer {
	return &Authorizer{store: store}
}

// Authorize grants a TenantScope when the principal owns the tenant or holds
// a membership on it. Owners and managers see every customer.
func (a *Authorizer) Authorize(
	ctx context.Context,
	p Principal,
	tenantID uint,
) (TenantScope, *models.Tenant, error) {

	if p.IsZero() {
		return TenantScope{}, nil, httperr.New(httperr.CodeUnauthorized, "missing principal")
	}
	if tenantID == 0 {
		return TenantScope{}, nil, httperr.ErrBadRequest("missing_tenant_id")
	}

	tenant, err := a.store.GetTenant(ctx, tenantID)
	if err != nil {
		return TenantScope{}, nil, err
	}
	if tenant == nil {
		return TenantScope{}, nil, httperr.ErrForbidden("tenant_access_denied")
	}

	if tenant.OwnerID == p.Subject {
		return NewTenantScope(tenant.ID, p.Subject, false), tenant, nil
	}

	m, err := a.store.GetMembership(ctx, tenant.ID, p.Subject)
	if errors.Is(err, ErrNoMembership) {
		return TenantScope{}, nil, httperr.ErrForbidden("tenant_access_denied")
	}
	if err != nil {
		return TenantScope{}, nil, err
	}

	assignedOnly := m.AssignedOnly && m.Role != models.MembershipRoleManager
	return NewTenantScope(tenant.ID, p.Subject, assignedOnly), tenant, nil
}
