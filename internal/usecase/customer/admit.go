package customer

import (
	"context"
	"errors"
	"strings"

	"github.com/BruksfildServices01/agenda-core/internal/access"
	"github.com/BruksfildServices01/agenda-core/internal/audit"
	domain "github.com/BruksfildServices01/agenda-core/internal/domain/customer"
	"github.com/BruksfildServices01/agenda-core/internal/httperr"
	"github.com/BruksfildServices01/agenda-core/internal/models"
	"github.com/BruksfildServices01/agenda-core/internal/telemetry"
	"github.com/BruksfildServices01/agenda-core/internal/validators"
)

// ======================================================
// DEPENDENCIES
// ======================================================

type Authorizer interface {
	Authorize(ctx context.Context, p access.Principal, tenantID uint) (access.TenantScope, *models.Tenant, error)
}

// Policy carries the plan settings the quota check depends on.
type Policy struct {
	CountryCode      string
	DefaultPlan      string
	ConstrainedPlans []string
	DefaultLimit     int64
}

func (p Policy) constrained(plan string) bool {
	for _, c := range p.ConstrainedPlans {
		if strings.EqualFold(c, plan) {
			return true
		}
	}
	return false
}

// ======================================================
// INPUT
// ======================================================

type AdmitInput struct {
	TenantID uint
	Name     string
	Phone    string
}

// ======================================================
// USE CASE
// ======================================================

type Admit struct {
	authz   Authorizer
	store   domain.Store
	quotas  domain.QuotaStore
	audit   *audit.Dispatcher
	metrics *telemetry.Metrics
	policy  Policy
}

func NewAdmit(
	authz Authorizer,
	store domain.Store,
	quotas domain.QuotaStore,
	audit *audit.Dispatcher,
	metrics *telemetry.Metrics,
	policy Policy,
) *Admit {
	return &Admit{
		authz:   authz,
		store:   store,
		quotas:  quotas,
		audit:   audit,
		metrics: metrics,
		policy:  policy,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute admits a new customer. Each check fails fast, in order:
// required fields, authorization, phone validity, duplicate, plan quota.
func (uc *Admit) Execute(
	ctx context.Context,
	p access.Principal,
	in AdmitInput,
) (*models.Customer, error) {

	c, err := uc.execute(ctx, p, in)
	uc.record(ctx, err)
	return c, err
}

func (uc *Admit) execute(
	ctx context.Context,
	p access.Principal,
	in AdmitInput,
) (*models.Customer, error) {

	name := strings.TrimSpace(in.Name)
	if in.TenantID == 0 || name == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, httperr.ErrBadRequest("tenant_id, name and phone are required")
	}

	scope, _, err := uc.authz.Authorize(ctx, p, in.TenantID)
	if err != nil {
		return nil, err
	}

	phone, err := uc.normalize(in.Phone)
	if err != nil {
		return nil, err
	}

	_, err = uc.store.FindByPhone(ctx, scope, phone)
	switch {
	case err == nil:
		return nil, httperr.ErrDuplicateCustomer()
	case !errors.Is(err, domain.ErrNotFound):
		return nil, httperr.ErrInternal(err)
	}

	return uc.admit(ctx, scope, name, phone)
}

// Resolve returns the customer visible to scope with the given phone, or
// admits a new one. Reservation creation goes through here after the
// caller has been authorized.
func (uc *Admit) Resolve(
	ctx context.Context,
	scope access.TenantScope,
	name string,
	rawPhone string,
) (*models.Customer, error) {

	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(rawPhone) == "" {
		return nil, httperr.ErrBadRequest("customer_name and customer_phone are required")
	}

	phone, err := uc.normalize(rawPhone)
	if err != nil {
		return nil, err
	}

	existing, err := uc.store.FindByPhone(ctx, scope, phone)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrInternal(err)
	}

	c, err := uc.admit(ctx, scope, name, phone)
	uc.record(ctx, err)
	return c, err
}

func (uc *Admit) normalize(raw string) (string, error) {
	phone := validators.NormalizePhone(raw, uc.policy.CountryCode)
	if !validators.IsPhoneValid(phone) {
		return "", httperr.ErrInvalidPhone()
	}
	return phone, nil
}

// admit runs the quota check and the insert.
func (uc *Admit) admit(
	ctx context.Context,
	scope access.TenantScope,
	name string,
	phone string,
) (*models.Customer, error) {

	if err := uc.checkQuota(ctx, scope.TenantID()); err != nil {
		return nil, err
	}

	c := &models.Customer{
		Name:  name,
		Phone: phone,
	}
	if err := uc.store.Create(ctx, scope, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, httperr.ErrDuplicateCustomer()
		}
		return nil, httperr.ErrInternal(err)
	}

	uc.audit.Dispatch(audit.Event{
		TenantID:    scope.TenantID(),
		PrincipalID: scope.PrincipalID(),
		Action:      "customer_admitted",
		Entity:      "customer",
		EntityID:    &c.ID,
	})

	return c, nil
}

// checkQuota counts with the system scope so a caller with narrow
// visibility cannot undercount the tenant.
func (uc *Admit) checkQuota(ctx context.Context, tenantID uint) error {
	sys := access.System("plan_quota")

	quota, err := uc.quotas.GetQuota(ctx, sys, tenantID)
	if err != nil {
		return httperr.ErrInternal(err)
	}

	plan, limit := uc.policy.DefaultPlan, uc.policy.DefaultLimit
	if quota != nil {
		plan, limit = quota.PlanType, quota.CustomerLimit
	}

	if !uc.policy.constrained(plan) {
		return nil
	}

	current, err := uc.quotas.CountActiveCustomers(ctx, sys, tenantID)
	if err != nil {
		return httperr.ErrInternal(err)
	}

	if current >= limit {
		return httperr.ErrPlanLimit(plan, limit, current)
	}
	return nil
}

func (uc *Admit) record(ctx context.Context, err error) {
	if uc.metrics == nil {
		return
	}
	outcome := "admitted"
	if err != nil {
		outcome = httperr.CodeOf(err)
	}
	uc.metrics.RecordAdmission(ctx, outcome)
}
