package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-core/internal/access"
	"github.com/BruksfildServices01/agenda-core/internal/models"
)

// TenantGormRepository serves the authorizer and the tenant settings screens.
type TenantGormRepository struct {
	db *gorm.DB
}

func NewTenantGormRepository(db *gorm.DB) *TenantGormRepository {
	return &TenantGormRepository{db: db}
}

// GetTenant returns nil, nil for an unknown tenant.
func (r *TenantGormRepository) GetTenant(ctx context.Context, tenantID uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, tenantID).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

func (r *TenantGormRepository) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tenant).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

func (r *TenantGormRepository) GetMembership(
	ctx context.Context,
	tenantID uint,
	principalID string,
) (*models.TenantMembership, error) {

	var m models.TenantMembership
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND principal_id = ?", tenantID, principalID).
		First(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, access.ErrNoMembership
		}
		return nil, err
	}
	return &m, nil
}

func (r *TenantGormRepository) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	return r.db.WithContext(ctx).
		Model(tenant).
		Select("name", "phone", "timezone", "open_time", "close_time", "slot_interval_min", "lead_time_min").
		Updates(tenant).Error
}

// Compile-time check
var _ access.Store = (*TenantGormRepository)(nil)
