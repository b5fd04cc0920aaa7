package reservation

import (
	"context"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/agenda-core/internal/domain/reservation"
	"github.com/BruksfildServices01/agenda-core/internal/models"
)

// memRepo enforces the committed (resource, start) uniqueness in memory.
type memRepo struct {
	mu sync.Mutex

	tenants      map[uint]*models.Tenant
	resources    map[uint]*models.Resource
	services     map[uint]*models.ServiceOffering
	workingHours map[uint]map[int]*models.WorkingHours
	blocks       []domain.Interval
	reservations []*models.Reservation

	// skipBusy hides rows from ListBusyIntervals to simulate a competitor
	// that wrote between the re-check and the insert.
	skipBusy bool
}

func intp(v int) *int { return &v }

func newMemRepo() *memRepo {
	return &memRepo{
		tenants: map[uint]*models.Tenant{
			1: {ID: 1, OwnerID: "owner-1", Timezone: "UTC", OpenTime: "09:00", CloseTime: "18:00", SlotIntervalMin: intp(30), LeadTimeMin: intp(0)},
			2: {ID: 2, OwnerID: "owner-2", Timezone: "UTC", OpenTime: "09:00", CloseTime: "18:00", SlotIntervalMin: intp(30), LeadTimeMin: intp(0)},
		},
		resources: map[uint]*models.Resource{
			10: {ID: 10, TenantID: 1, Name: "Bia", Active: true},
			20: {ID: 20, TenantID: 2, Name: "Caio", Active: true},
		},
		services: map[uint]*models.ServiceOffering{
			100: {ID: 100, TenantID: 1, Name: "Cut", DurationMin: 90, Active: true},
			101: {ID: 101, TenantID: 1, Name: "Beard", DurationMin: 30, Active: true},
		},
		workingHours: map[uint]map[int]*models.WorkingHours{},
	}
}

func (m *memRepo) GetTenantByID(_ context.Context, id uint) (*models.Tenant, error) {
	if t, ok := m.tenants[id]; ok {
		return t, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memRepo) GetResourceByID(_ context.Context, id uint) (*models.Resource, error) {
	if r, ok := m.resources[id]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memRepo) GetService(_ context.Context, tenantID, id uint) (*models.ServiceOffering, error) {
	if s, ok := m.services[id]; ok && s.TenantID == tenantID {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memRepo) GetWorkingHours(_ context.Context, resourceID uint, weekday int) (*models.WorkingHours, error) {
	return m.workingHours[resourceID][weekday], nil
}

func (m *memRepo) ListBusyIntervals(_ context.Context, resourceID uint, from, to time.Time) ([]domain.Interval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := append([]domain.Interval(nil), m.blocks...)
	if m.skipBusy {
		return out, nil
	}
	for _, r := range m.reservations {
		if r.ResourceID == resourceID && r.Status == string(domain.StatusCommitted) &&
			r.StartTime.Before(to) && r.EndTime.After(from) {
			out = append(out, domain.Interval{Start: r.StartTime, End: r.EndTime})
		}
	}
	return out, nil
}

func (m *memRepo) CreateReservation(_ context.Context, r *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.reservations {
		if existing.ResourceID == r.ResourceID &&
			existing.Status == string(domain.StatusCommitted) &&
			existing.StartTime.Equal(r.StartTime) {
			return domain.ErrSlotTaken
		}
	}
	r.ID = uint(len(m.reservations) + 1)
	cp := *r
	m.reservations = append(m.reservations, &cp)
	return nil
}

func (m *memRepo) GetReservation(_ context.Context, tenantID, id uint) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.ID == id && r.TenantID == tenantID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRepo) UpdateReservation(_ context.Context, r *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.reservations {
		if existing.ID == r.ID {
			cp := *r
			m.reservations[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memRepo) ListReservationsForPeriod(_ context.Context, resourceID uint, from, to time.Time) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Reservation
	for _, r := range m.reservations {
		if r.ResourceID == resourceID && !r.StartTime.Before(from) && r.StartTime.Before(to) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memRepo) committed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.reservations {
		if r.Status == string(domain.StatusCommitted) {
			n++
		}
	}
	return n
}

var _ domain.Repository = (*memRepo)(nil)
