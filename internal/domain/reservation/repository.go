package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/agenda-core/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrSlotTaken is returned by CreateReservation when the storage layer
	// rejects the row because a committed reservation already holds the slot.
	ErrSlotTaken = errors.New("slot already taken")
)

// Repository is the busy-interval and reservation store.
type Repository interface {
	// -------- Tenant / catalog --------
	GetTenantByID(
		ctx context.Context,
		id uint,
	) (*models.Tenant, error)

	GetResourceByID(
		ctx context.Context,
		id uint,
	) (*models.Resource, error)

	GetService(
		ctx context.Context,
		tenantID uint,
		serviceID uint,
	) (*models.ServiceOffering, error)

	// GetWorkingHours returns nil, nil when the resource has no override for the weekday.
	GetWorkingHours(
		ctx context.Context,
		resourceID uint,
		weekday int,
	) (*models.WorkingHours, error)

	// -------- Busy intervals --------
	ListBusyIntervals(
		ctx context.Context,
		resourceID uint,
		from time.Time,
		to time.Time,
	) ([]Interval, error)

	// -------- Reservation --------
	CreateReservation(
		ctx context.Context,
		r *models.Reservation,
	) error

	GetReservation(
		ctx context.Context,
		tenantID uint,
		id uint,
	) (*models.Reservation, error)

	UpdateReservation(
		ctx context.Context,
		r *models.Reservation,
	) error

	ListReservationsForPeriod(
		ctx context.Context,
		resourceID uint,
		from time.Time,
		to time.Time,
	) ([]models.Reservation, error)
}
