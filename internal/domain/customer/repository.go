package customer

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/agenda-core/internal/access"
	"github.com/BruksfildServices01/agenda-core/internal/models"
)

var (
	ErrNotFound  = errors.New("customer not found")
	ErrDuplicate = errors.New("customer phone already registered")
)

// Store holds customer rows. Every read is filtered by the scope: an
// assigned-only scope sees just the customers its principal created.
type Store interface {
	// FindByPhone returns ErrNotFound when no visible customer has the phone.
	FindByPhone(
		ctx context.Context,
		scope access.TenantScope,
		phone string,
	) (*models.Customer, error)

	// Create returns ErrDuplicate when the (tenant, phone) pair already exists.
	Create(
		ctx context.Context,
		scope access.TenantScope,
		c *models.Customer,
	) error

	List(
		ctx context.Context,
		scope access.TenantScope,
		query string,
	) ([]models.Customer, error)
}

// QuotaStore exposes the trusted reads used for plan enforcement. They
// ignore per-principal visibility.
type QuotaStore interface {
	// GetQuota returns nil, nil when the tenant has no quota row.
	GetQuota(
		ctx context.Context,
		sys access.SystemScope,
		tenantID uint,
	) (*models.PlanQuota, error)

	CountActiveCustomers(
		ctx context.Context,
		sys access.SystemScope,
		tenantID uint,
	) (int64, error)
}
