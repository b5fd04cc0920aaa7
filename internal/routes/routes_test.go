package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-core/internal/audit"
	"github.com/BruksfildServices01/agenda-core/internal/config"
	"github.com/BruksfildServices01/agenda-core/internal/db/dbtest"
	"github.com/BruksfildServices01/agenda-core/internal/models"
	"github.com/BruksfildServices01/agenda-core/internal/telemetry"
)

const (
	secret = "test-secret"
	owner  = "owner-1"
	// 2030-01-07 is a Monday.
	day = "2030-01-07"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	t        *testing.T
	db       *gorm.DB
	router   *gin.Engine
	rec      *audit.Recorder
	audit    *audit.Dispatcher
	tenant   models.Tenant
	resource models.Resource
	service  models.ServiceOffering
}

func setup(t *testing.T) *env {
	t.Helper()

	db := dbtest.NewSQLite(t)

	e := &env{t: t, db: db, rec: &audit.Recorder{}}

	e.tenant = models.Tenant{
		Name:            "Studio",
		Slug:            "studio",
		OwnerID:         owner,
		Timezone:        "UTC",
		OpenTime:        "09:00",
		CloseTime:       "12:00",
		SlotIntervalMin: intp(30),
		LeadTimeMin:     intp(60),
	}
	require.NoError(t, db.Create(&e.tenant).Error)

	e.resource = models.Resource{TenantID: e.tenant.ID, Name: "Bia", Active: true}
	require.NoError(t, db.Create(&e.resource).Error)

	e.service = models.ServiceOffering{TenantID: e.tenant.ID, Name: "Cut", DurationMin: 60, Active: true}
	require.NoError(t, db.Create(&e.service).Error)

	cfg := &config.Config{
		JWTSecret:              secret,
		DefaultCountryCode:     "55",
		DefaultSlotIntervalMin: 30,
		DefaultLeadTimeMin:     120,
		DefaultPlan:            "free",
		ConstrainedPlans:       []string{"free"},
		FreePlanCustomerLimit:  50,
	}

	e.audit = audit.NewDispatcher(zap.NewNop(), audit.New(db), e.rec)
	t.Cleanup(e.audit.Close)

	e.router = gin.New()
	RegisterRoutes(e.router, db, cfg, zap.NewNop(), Deps{
		Audit:   e.audit,
		Metrics: telemetry.GetMetrics(),
	})
	return e
}

func intp(v int) *int { return &v }

func token(t *testing.T, sub string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func (e *env) do(method, path, sub string, body any) *httptest.ResponseRecorder {
	e.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sub != "" {
		req.Header.Set("Authorization", "Bearer "+token(e.t, sub))
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) slots() []string {
	e.t.Helper()

	w := e.do(http.MethodGet, fmt.Sprintf(
		"/api/public/availability?resource_id=%d&service_id=%d&date=%s",
		e.resource.ID, e.service.ID, day,
	), "", nil)
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Date  string      `json:"date"`
		Slots []time.Time `json:"slots"`
	}
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &out))

	var hm []string
	for _, s := range out.Slots {
		hm = append(hm, s.UTC().Format("15:04"))
	}
	return hm
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"error_code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func (e *env) reserve(start string) *httptest.ResponseRecorder {
	return e.do(http.MethodPost, "/api/reservations", owner, gin.H{
		"tenant_id":      e.tenant.ID,
		"resource_id":    e.resource.ID,
		"service_id":     e.service.ID,
		"start_time":     start,
		"customer_name":  "Ana",
		"customer_phone": "(11) 98765-4321",
	})
}

func TestHealth(t *testing.T) {
	e := setup(t)

	w := e.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPublicServices(t *testing.T) {
	e := setup(t)

	w := e.do(http.MethodGet, "/api/public/studio/services", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Cut"`)

	w = e.do(http.MethodGet, "/api/public/missing/services", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReservationLifecycle(t *testing.T) {
	e := setup(t)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, e.slots())

	w := e.reserve(day + "T10:00:00Z")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "committed", created.Status)
	require.NotNil(t, created.Customer)
	assert.Equal(t, "5511987654321", created.Customer.Phone)
	require.NotNil(t, created.Service)
	assert.Equal(t, e.service.ID, created.Service.ID)
	assert.Equal(t, "Cut", created.Service.Name)

	assert.Equal(t, []string{"09:00", "11:00"}, e.slots())

	t.Run("same start conflicts", func(t *testing.T) {
		w := e.reserve(day + "T10:00:00Z")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "SLOT_CONFLICT", errorCode(t, w))
	})

	t.Run("overlapping start conflicts", func(t *testing.T) {
		w := e.reserve(day + "T10:30:00Z")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("listed for the day", func(t *testing.T) {
		w := e.do(http.MethodGet, fmt.Sprintf(
			"/api/reservations?tenant_id=%d&resource_id=%d&date=%s",
			e.tenant.ID, e.resource.ID, day,
		), owner, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":1`)
	})

	w = e.do(http.MethodPatch, fmt.Sprintf("/api/reservations/%d/cancel?tenant_id=%d", created.ID, e.tenant.ID), owner, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), `"service":`)
	assert.NotContains(t, w.Body.String(), `"customer":`)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, e.slots())

	w = e.reserve(day + "T10:00:00Z")
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestReservationListRequiresResource(t *testing.T) {
	e := setup(t)

	w := e.do(http.MethodGet, fmt.Sprintf("/api/reservations?tenant_id=%d&date=%s", e.tenant.ID, day), owner, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", errorCode(t, w))
}

func TestReservationRejectsOutsideHours(t *testing.T) {
	e := setup(t)

	w := e.reserve(day + "T11:30:00Z")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthAndTenantIsolation(t *testing.T) {
	e := setup(t)

	w := e.do(http.MethodGet, fmt.Sprintf("/api/customers?tenant_id=%d", e.tenant.ID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(http.MethodGet, fmt.Sprintf("/api/customers?tenant_id=%d", e.tenant.ID), "stranger", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(http.MethodGet, fmt.Sprintf("/api/tenants/%d/settings", e.tenant.ID), "stranger", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCustomerAdmission(t *testing.T) {
	e := setup(t)

	create := func(phone string) *httptest.ResponseRecorder {
		return e.do(http.MethodPost, "/api/customers", owner, gin.H{
			"tenant_id": e.tenant.ID,
			"name":      "Ana",
			"phone":     phone,
		})
	}

	w := create("11 98765-4321")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = create("+55 (11) 98765-4321")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_CUSTOMER", errorCode(t, w))

	w = create("123")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PHONE", errorCode(t, w))

	w = e.do(http.MethodGet, fmt.Sprintf("/api/customers?tenant_id=%d&query=ana", e.tenant.ID), owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestCustomerAdmissionPlanLimit(t *testing.T) {
	e := setup(t)

	require.NoError(t, e.db.Create(&models.PlanQuota{
		TenantID:      e.tenant.ID,
		PlanType:      "free",
		CustomerLimit: 1,
	}).Error)

	w := e.do(http.MethodPost, "/api/customers", owner, gin.H{
		"tenant_id": e.tenant.ID, "name": "Ana", "phone": "11987654321",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(http.MethodPost, "/api/customers", owner, gin.H{
		"tenant_id": e.tenant.ID, "name": "Bruno", "phone": "11912345678",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "PLAN_LIMIT_REACHED", errorCode(t, w))
}

func TestWorkingHoursCloseTheDay(t *testing.T) {
	e := setup(t)
	path := fmt.Sprintf("/api/tenants/%d/resources/%d/working-hours", e.tenant.ID, e.resource.ID)

	w := e.do(http.MethodPut, path, owner, gin.H{
		"days": []gin.H{
			{"weekday": 1, "active": true, "start_time": "09:00", "end_time": "12:00", "break_start": "10:00", "break_end": "10:30"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"09:00", "10:30", "11:00"}, e.slots())

	w = e.do(http.MethodPut, path, owner, gin.H{
		"days": []gin.H{{"weekday": 1, "active": false}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, e.slots())

	w = e.do(http.MethodPut, path, owner, gin.H{
		"days": []gin.H{{"weekday": 1, "active": true, "start_time": "12:00", "end_time": "09:00"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodGet, path, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"active":false`)
}

func TestBlocksHideAvailability(t *testing.T) {
	e := setup(t)
	base := fmt.Sprintf("/api/tenants/%d/resources/%d/blocks", e.tenant.ID, e.resource.ID)

	w := e.do(http.MethodPost, base, owner, gin.H{
		"start_time": day + "T09:00:00Z",
		"end_time":   day + "T10:00:00Z",
		"reason":     "meeting",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var block models.Block
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &block))

	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, e.slots())

	w = e.reserve(day + "T09:30:00Z")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodDelete, fmt.Sprintf("%s/%d", base, block.ID), owner, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, e.slots())
}

func TestServicesAreOwnerManaged(t *testing.T) {
	e := setup(t)
	base := fmt.Sprintf("/api/tenants/%d/services", e.tenant.ID)

	w := e.do(http.MethodPost, base, owner, gin.H{"name": "Beard", "duration_min": 30, "price": 20})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var svc models.ServiceOffering
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &svc))

	w = e.do(http.MethodPatch, fmt.Sprintf("%s/%d", base, svc.ID), owner, gin.H{"active": false})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, base+"?active=true", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"Beard"`)

	require.NoError(t, e.db.Create(&models.TenantMembership{
		TenantID: e.tenant.ID, PrincipalID: "staff-1", Role: models.MembershipRoleStaff,
	}).Error)

	w = e.do(http.MethodGet, base, "staff-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodPost, base, "staff-1", gin.H{"name": "Color", "duration_min": 90})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTenantSettings(t *testing.T) {
	e := setup(t)
	path := fmt.Sprintf("/api/tenants/%d/settings", e.tenant.ID)

	w := e.do(http.MethodPatch, path, owner, gin.H{"close_time": "13:00"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00"}, e.slots())

	w = e.do(http.MethodPatch, path, owner, gin.H{"timezone": "Mars/Olympus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditLogsAreStored(t *testing.T) {
	e := setup(t)

	w := e.reserve(day + "T09:00:00Z")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	e.audit.Close()
	assert.Contains(t, e.rec.Actions(), "reservation_committed")

	w = e.do(http.MethodGet, fmt.Sprintf("/api/tenants/%d/audit-logs?action=reservation_committed", e.tenant.ID), owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}
