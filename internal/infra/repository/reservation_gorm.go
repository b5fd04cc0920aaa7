package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/agenda-core/internal/domain/reservation"
	"github.com/BruksfildServices01/agenda-core/internal/models"
)

type ReservationGormRepository struct {
	db *gorm.DB
}

func NewReservationGormRepository(db *gorm.DB) *ReservationGormRepository {
	return &ReservationGormRepository{db: db}
}

// --------------------------------------------------
// Tenant / catalog
// --------------------------------------------------

func (r *ReservationGormRepository) GetTenantByID(
	ctx context.Context,
	id uint,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

func (r *ReservationGormRepository) GetResourceByID(
	ctx context.Context,
	id uint,
) (*models.Resource, error) {

	var res models.Resource
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&res).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *ReservationGormRepository) GetService(
	ctx context.Context,
	tenantID uint,
	serviceID uint,
) (*models.ServiceOffering, error) {

	var svc models.ServiceOffering
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ? AND active = ?", serviceID, tenantID, true).
		First(&svc).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &svc, nil
}

func (r *ReservationGormRepository) GetWorkingHours(
	ctx context.Context,
	resourceID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("resource_id = ? AND weekday = ?", resourceID, weekday).
		First(&wh).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &wh, nil
}

// --------------------------------------------------
// Busy intervals
// --------------------------------------------------

// ListBusyIntervals returns committed reservations and blocks of the
// resource that overlap [from,to). Times are compared in UTC.
func (r *ReservationGormRepository) ListBusyIntervals(
	ctx context.Context,
	resourceID uint,
	from time.Time,
	to time.Time,
) ([]domain.Interval, error) {

	from, to = from.UTC(), to.UTC()

	var reservations []models.Reservation
	if err := r.db.WithContext(ctx).
		Select("start_time", "end_time").
		Where(
			"resource_id = ? AND status = ? AND start_time < ? AND end_time > ?",
			resourceID, string(domain.StatusCommitted), to, from,
		).
		Order("start_time ASC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}

	var blocks []models.Block
	if err := r.db.WithContext(ctx).
		Select("start_time", "end_time").
		Where(
			"resource_id = ? AND start_time < ? AND end_time > ?",
			resourceID, to, from,
		).
		Find(&blocks).Error; err != nil {
		return nil, err
	}

	busy := make([]domain.Interval, 0, len(reservations)+len(blocks))
	for _, res := range reservations {
		busy = append(busy, domain.Interval{Start: res.StartTime, End: res.EndTime})
	}
	for _, b := range blocks {
		busy = append(busy, domain.Interval{Start: b.StartTime, End: b.EndTime})
	}
	return busy, nil
}

// --------------------------------------------------
// Reservation
// --------------------------------------------------

func (r *ReservationGormRepository) CreateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {

	res.StartTime = res.StartTime.UTC()
	res.EndTime = res.EndTime.UTC()

	err := r.db.WithContext(ctx).
		Omit("Resource", "Service", "Customer").
		Create(res).Error
	if IsUniqueViolation(err) {
		return domain.ErrSlotTaken
	}
	return err
}

func (r *ReservationGormRepository) GetReservation(
	ctx context.Context,
	tenantID uint,
	id uint,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&res).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *ReservationGormRepository) UpdateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	return r.db.WithContext(ctx).
		Model(res).
		Select("status", "notes", "committed_at", "cancelled_at").
		Updates(res).Error
}

func (r *ReservationGormRepository) ListReservationsForPeriod(
	ctx context.Context,
	resourceID uint,
	from time.Time,
	to time.Time,
) ([]models.Reservation, error) {

	var list []models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Where(
			"resource_id = ? AND start_time >= ? AND start_time < ?",
			resourceID, from.UTC(), to.UTC(),
		).
		Order("start_time ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Compile-time check
var _ domain.Repository = (*ReservationGormRepository)(nil)
