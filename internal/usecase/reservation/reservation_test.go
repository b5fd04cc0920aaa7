package reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-core/internal/access"
	"github.com/BruksfildServices01/agenda-core/internal/audit"
	domain "github.com/BruksfildServices01/agenda-core/internal/domain/reservation"
	"github.com/BruksfildServices01/agenda-core/internal/httperr"
	"github.com/BruksfildServices01/agenda-core/internal/models"
)

// 2026-03-10 is a Tuesday.
var (
	today = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	clock = func() time.Time { return today.Add(7 * time.Hour) }
)

func at(h, m int) time.Time {
	return today.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

var policy = Policy{SlotInterval: 30 * time.Minute, LeadTime: 2 * time.Hour}

func newCommitter(repo *memRepo) (*CommitReservation, *audit.Recorder, *audit.Dispatcher) {
	rec := &audit.Recorder{}
	d := audit.NewDispatcher(zap.NewNop(), rec)
	uc := NewCommitReservation(repo, d, nil, policy)
	uc.now = clock
	return uc, rec, d
}

func hhmm(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Format("15:04"))
	}
	return out
}

// ------------------------------------------------------
// Availability
// ------------------------------------------------------

func TestGetAvailability_Scenario(t *testing.T) {
	repo := newMemRepo()
	repo.tenants[1].CloseTime = "12:00"

	uc := NewGetAvailability(repo, policy, nil)
	uc.now = clock

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		ResourceID: 10,
		ServiceID:  100,
		Date:       "2026-03-10",
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-03-10", out.Date)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, hhmm(out.Slots))
}

func TestGetAvailability_SkipsBusyAndBreak(t *testing.T) {
	repo := newMemRepo()
	repo.workingHours[10] = map[int]*models.WorkingHours{
		int(time.Tuesday): {ResourceID: 10, Weekday: int(time.Tuesday), Active: true,
			StartTime: "09:00", EndTime: "13:00", BreakStart: "11:00", BreakEnd: "11:30"},
	}
	repo.blocks = []domain.Interval{{Start: at(9, 30), End: at(10, 0)}}

	uc := NewGetAvailability(repo, policy, nil)
	uc.now = clock

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{ResourceID: 10, ServiceID: 101, Date: "2026-03-10"})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "10:30", "11:30", "12:00", "12:30"}, hhmm(out.Slots))
}

func TestGetAvailability_ClosedDayIsEmpty(t *testing.T) {
	repo := newMemRepo()
	repo.workingHours[10] = map[int]*models.WorkingHours{
		int(time.Tuesday): {Active: false},
	}

	uc := NewGetAvailability(repo, policy, nil)
	uc.now = clock

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{ResourceID: 10, ServiceID: 100, Date: "2026-03-10"})
	require.NoError(t, err)
	assert.NotNil(t, out.Slots)
	assert.Empty(t, out.Slots)
}

func TestGetAvailability_InvalidDurationRejectedOnClosedDay(t *testing.T) {
	repo := newMemRepo()
	repo.services[102] = &models.ServiceOffering{ID: 102, TenantID: 1, DurationMin: 0}
	repo.workingHours[10] = map[int]*models.WorkingHours{
		int(time.Tuesday): {Active: false},
	}

	uc := NewGetAvailability(repo, policy, nil)
	uc.now = clock

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{ResourceID: 10, ServiceID: 102, Date: "2026-03-10"})
	assert.Nil(t, out)
	assert.Equal(t, httperr.CodeBadRequest, httperr.CodeOf(err))
}

func TestGetAvailability_Errors(t *testing.T) {
	repo := newMemRepo()
	repo.services[102] = &models.ServiceOffering{ID: 102, TenantID: 1, DurationMin: 0}
	uc := NewGetAvailability(repo, policy, nil)

	tests := []struct {
		in   domain.AvailabilityInput
		code string
	}{
		{domain.AvailabilityInput{ServiceID: 100, Date: "2026-03-10"}, httperr.CodeBadRequest},
		{domain.AvailabilityInput{ResourceID: 99, ServiceID: 100, Date: "2026-03-10"}, httperr.CodeNotFound},
		{domain.AvailabilityInput{ResourceID: 20, ServiceID: 100, Date: "2026-03-10"}, httperr.CodeNotFound},
		{domain.AvailabilityInput{ResourceID: 10, ServiceID: 100, Date: "10/03/2026"}, httperr.CodeBadRequest},
		{domain.AvailabilityInput{ResourceID: 10, ServiceID: 102, Date: "2026-03-10"}, httperr.CodeBadRequest},
	}

	for _, tt := range tests {
		_, err := uc.Execute(context.Background(), tt.in)
		assert.Equal(t, tt.code, httperr.CodeOf(err), "input %+v", tt.in)
	}
}

// ------------------------------------------------------
// Commit
// ------------------------------------------------------

func TestCommit_Success(t *testing.T) {
	repo := newMemRepo()
	uc, rec, d := newCommitter(repo)

	r, err := uc.Execute(context.Background(), CommitInput{
		TenantID: 1, ResourceID: 10, ServiceID: 100, CustomerID: 7,
		PrincipalID: "owner-1",
		Start:       at(10, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCommitted), r.Status)
	assert.True(t, at(11, 30).Equal(r.EndTime))
	assert.NotNil(t, r.CommittedAt)
	assert.Equal(t, 1, repo.committed())

	d.Close()
	assert.Equal(t, []string{"reservation_committed"}, rec.Actions())
}

func TestCommit_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		in    CommitInput
		code  string
		setup func(*memRepo)
	}{
		{
			name: "outside working hours",
			in:   CommitInput{TenantID: 1, ResourceID: 10, ServiceID: 100, Start: at(17, 0)},
			code: httperr.CodeBadRequest,
		},
		{
			name:  "too soon",
			in:    CommitInput{TenantID: 1, ResourceID: 10, ServiceID: 100, Start: at(9, 0)},
			code:  httperr.CodeBadRequest,
			setup: func(m *memRepo) { m.tenants[1].LeadTimeMin = intp(180) },
		},
		{
			name: "resource of another tenant",
			in:   CommitInput{TenantID: 1, ResourceID: 20, ServiceID: 100, Start: at(10, 0)},
			code: httperr.CodeNotFound,
		},
		{
			name: "unknown service",
			in:   CommitInput{TenantID: 1, ResourceID: 10, ServiceID: 999, Start: at(10, 0)},
			code: httperr.CodeNotFound,
		},
		{
			name:  "overlaps a block",
			in:    CommitInput{TenantID: 1, ResourceID: 10, ServiceID: 100, Start: at(10, 0)},
			code:  httperr.CodeSlotConflict,
			setup: func(m *memRepo) { m.blocks = []domain.Interval{{Start: at(11, 0), End: at(12, 0)}} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemRepo()
			if tt.setup != nil {
				tt.setup(repo)
			}
			uc, _, _ := newCommitter(repo)

			_, err := uc.Execute(context.Background(), tt.in)
			assert.Equal(t, tt.code, httperr.CodeOf(err))
			assert.Equal(t, 0, repo.committed())
		})
	}
}

func TestCommit_TouchingReservationsDoNotConflict(t *testing.T) {
	repo := newMemRepo()
	uc, _, _ := newCommitter(repo)
	ctx := context.Background()

	_, err := uc.Execute(ctx, CommitInput{TenantID: 1, ResourceID: 10, ServiceID: 101, Start: at(10, 0)})
	require.NoError(t, err)
	_, err = uc.Execute(ctx, CommitInput{TenantID: 1, ResourceID: 10, ServiceID: 101, Start: at(10, 30)})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, CommitInput{TenantID: 1, ResourceID: 10, ServiceID: 101, Start: at(10, 0)})
	assert.Equal(t, httperr.CodeSlotConflict, httperr.CodeOf(err))
	assert.Equal(t, 2, repo.committed())
}

// The re-check misses the competitor; the storage constraint still wins.
func TestCommit_StorageConflictIsAuthoritative(t *testing.T) {
	repo := newMemRepo()
	uc, rec, d := newCommitter(repo)
	ctx := context.Background()

	_, err := uc.Execute(ctx, CommitInput{TenantID: 1, ResourceID: 10, ServiceID: 101, Start: at(10, 0)})
	require.NoError(t, err)

	repo.skipBusy = true
	_, err = uc.Execute(ctx, CommitInput{TenantID: 1, ResourceID: 10, ServiceID: 101, Start: at(10, 0)})
	assert.Equal(t, httperr.CodeSlotConflict, httperr.CodeOf(err))
	assert.Equal(t, 1, repo.committed())

	d.Close()
	assert.Equal(t, []string{"reservation_committed", "reservation_conflict"}, rec.Actions())
}

func TestCommit_ConcurrentSameSlot(t *testing.T) {
	repo := newMemRepo()
	uc, _, _ := newCommitter(repo)

	const n = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(customer uint) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), CommitInput{
				TenantID: 1, ResourceID: 10, ServiceID: 100, CustomerID: customer, Start: at(14, 0),
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if httperr.IsCode(err, httperr.CodeSlotConflict) {
				conflicts++
			}
		}(uint(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
	assert.Equal(t, 1, repo.committed())
}

// ------------------------------------------------------
// Create / cancel / list
// ------------------------------------------------------

type stubAuthz struct{ tenants map[uint]*models.Tenant }

func (s stubAuthz) Authorize(_ context.Context, p access.Principal, tenantID uint) (access.TenantScope, *models.Tenant, error) {
	t, ok := s.tenants[tenantID]
	if !ok || t.OwnerID != p.Subject {
		return access.TenantScope{}, nil, httperr.ErrForbidden("tenant_access_denied")
	}
	return access.NewTenantScope(tenantID, p.Subject, false), t, nil
}

type stubCustomers struct{ calls int }

func (s *stubCustomers) Resolve(_ context.Context, scope access.TenantScope, name, phone string) (*models.Customer, error) {
	s.calls++
	if len(phone) < 8 {
		return nil, httperr.ErrInvalidPhone()
	}
	return &models.Customer{ID: 42, TenantID: scope.TenantID(), Name: name, Phone: phone}, nil
}

func TestCreateReservation(t *testing.T) {
	repo := newMemRepo()
	commit, _, _ := newCommitter(repo)
	customers := &stubCustomers{}
	uc := NewCreateReservation(stubAuthz{tenants: repo.tenants}, customers, commit)
	ctx := context.Background()
	owner := access.Principal{Subject: "owner-1"}

	r, err := uc.Execute(ctx, owner, CreateReservationInput{
		TenantID: 1, ResourceID: 10, ServiceID: 100, Start: at(10, 0),
		CustomerName: "Ana", CustomerPhone: "5511988887777",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), r.CustomerID)
	assert.Equal(t, "Ana", r.Customer.Name)

	_, err = uc.Execute(ctx, access.Principal{Subject: "owner-2"}, CreateReservationInput{
		TenantID: 1, ResourceID: 10, ServiceID: 100, Start: at(13, 0),
		CustomerName: "Ana", CustomerPhone: "5511988887777",
	})
	assert.Equal(t, httperr.CodeForbidden, httperr.CodeOf(err))

	_, err = uc.Execute(ctx, owner, CreateReservationInput{
		TenantID: 1, ResourceID: 10, ServiceID: 100, Start: at(13, 0),
		CustomerName: "Ana", CustomerPhone: "123",
	})
	assert.Equal(t, httperr.CodeInvalidPhone, httperr.CodeOf(err))

	_, err = uc.Execute(ctx, owner, CreateReservationInput{TenantID: 1, ResourceID: 10})
	assert.Equal(t, httperr.CodeBadRequest, httperr.CodeOf(err))

	assert.Equal(t, 1, repo.committed())
}

func TestCancelReservation_FreesSlot(t *testing.T) {
	repo := newMemRepo()
	commit, _, _ := newCommitter(repo)
	cancel := NewCancelReservation(stubAuthz{tenants: repo.tenants}, repo, audit.NewDispatcher(zap.NewNop()), nil)
	ctx := context.Background()
	owner := access.Principal{Subject: "owner-1"}

	r, err := commit.Execute(ctx, CommitInput{TenantID: 1, ResourceID: 10, ServiceID: 101, Start: at(10, 0)})
	require.NoError(t, err)

	cancelled, err := cancel.Execute(ctx, owner, 1, r.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), cancelled.Status)

	_, err = cancel.Execute(ctx, owner, 1, r.ID)
	assert.Equal(t, httperr.CodeBadRequest, httperr.CodeOf(err))

	_, err = cancel.Execute(ctx, owner, 1, 999)
	assert.Equal(t, httperr.CodeNotFound, httperr.CodeOf(err))

	_, err = commit.Execute(ctx, CommitInput{TenantID: 1, ResourceID: 10, ServiceID: 101, Start: at(10, 0)})
	require.NoError(t, err)
}

func TestListReservations(t *testing.T) {
	repo := newMemRepo()
	commit, _, _ := newCommitter(repo)
	list := NewListReservations(stubAuthz{tenants: repo.tenants}, repo)
	ctx := context.Background()
	owner := access.Principal{Subject: "owner-1"}

	_, err := commit.Execute(ctx, CommitInput{TenantID: 1, ResourceID: 10, ServiceID: 101, Start: at(10, 0)})
	require.NoError(t, err)
	_, err = commit.Execute(ctx, CommitInput{TenantID: 1, ResourceID: 10, ServiceID: 101, Start: at(10, 0).AddDate(0, 0, 1)})
	require.NoError(t, err)

	day, err := list.ByDate(ctx, owner, 1, 10, "2026-03-10")
	require.NoError(t, err)
	assert.Len(t, day, 1)

	month, err := list.ByMonth(ctx, owner, 1, 10, 2026, 3)
	require.NoError(t, err)
	assert.Len(t, month, 2)

	_, err = list.ByMonth(ctx, owner, 1, 10, 2026, 13)
	assert.Equal(t, httperr.CodeBadRequest, httperr.CodeOf(err))

	_, err = list.ByDate(ctx, owner, 1, 20, "2026-03-10")
	assert.Equal(t, httperr.CodeNotFound, httperr.CodeOf(err))

	_, err = list.ByDate(ctx, owner, 1, 0, "2026-03-10")
	assert.Equal(t, httperr.CodeBadRequest, httperr.CodeOf(err))

	_, err = list.ByMonth(ctx, owner, 1, 0, 2026, 3)
	assert.Equal(t, httperr.CodeBadRequest, httperr.CodeOf(err))
}
