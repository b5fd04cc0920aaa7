package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-core/internal/access"
	domain "github.com/BruksfildServices01/agenda-core/internal/domain/customer"
	"github.com/BruksfildServices01/agenda-core/internal/models"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

// visible applies the scope filter every caller-facing read goes through.
func (r *CustomerGormRepository) visible(ctx context.Context, scope access.TenantScope) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("tenant_id = ?", scope.TenantID())

	if scope.AssignedOnly() {
		q = q.Where("created_by = ?", scope.PrincipalID())
	}
	return q
}

func (r *CustomerGormRepository) FindByPhone(
	ctx context.Context,
	scope access.TenantScope,
	phone string,
) (*models.Customer, error) {

	var c models.Customer
	if err := r.visible(ctx, scope).
		Where("phone = ?", phone).
		First(&c).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerGormRepository) Create(
	ctx context.Context,
	scope access.TenantScope,
	c *models.Customer,
) error {

	c.TenantID = scope.TenantID()
	c.CreatedBy = scope.PrincipalID()
	c.Active = true

	err := r.db.WithContext(ctx).Create(c).Error
	if IsUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return err
}

func (r *CustomerGormRepository) List(
	ctx context.Context,
	scope access.TenantScope,
	query string,
) ([]models.Customer, error) {

	q := r.visible(ctx, scope)

	if query = strings.TrimSpace(query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR phone LIKE ?)", like, like)
	}

	var list []models.Customer
	if err := q.Order("name ASC").Limit(200).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// --------------------------------------------------
// Trusted reads
// --------------------------------------------------

func (r *CustomerGormRepository) CountActiveCustomers(
	ctx context.Context,
	_ access.SystemScope,
	tenantID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CustomerGormRepository) GetQuota(
	ctx context.Context,
	_ access.SystemScope,
	tenantID uint,
) (*models.PlanQuota, error) {

	var quota models.PlanQuota
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&quota).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &quota, nil
}

// Compile-time checks
var (
	_ domain.Store      = (*CustomerGormRepository)(nil)
	_ domain.QuotaStore = (*CustomerGormRepository)(nil)
)
