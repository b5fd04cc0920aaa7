package customer

import (
	"context"

	"github.com/BruksfildServices01/agenda-core/internal/access"
	domain "github.com/BruksfildServices01/agenda-core/internal/domain/customer"
	"github.com/BruksfildServices01/agenda-core/internal/httperr"
	"github.com/BruksfildServices01/agenda-core/internal/models"
)

type ListCustomers struct {
	authz Authorizer
	store domain.Store
}

func NewListCustomers(authz Authorizer, store domain.Store) *ListCustomers {
	return &ListCustomers{authz: authz, store: store}
}

func (uc *ListCustomers) Execute(
	ctx context.Context,
	p access.Principal,
	tenantID uint,
	query string,
) ([]models.Customer, error) {

	scope, _, err := uc.authz.Authorize(ctx, p, tenantID)
	if err != nil {
		return nil, err
	}

	list, err := uc.store.List(ctx, scope, query)
	if err != nil {
		return nil, httperr.ErrInternal(err)
	}
	return list, nil
}
