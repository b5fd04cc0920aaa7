package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-core/internal/access"
	"github.com/BruksfildServices01/agenda-core/internal/audit"
	"github.com/BruksfildServices01/agenda-core/internal/config"
	"github.com/BruksfildServices01/agenda-core/internal/handlers"
	infraRepo "github.com/BruksfildServices01/agenda-core/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-core/internal/middleware"
	"github.com/BruksfildServices01/agenda-core/internal/telemetry"
	ucCustomer "github.com/BruksfildServices01/agenda-core/internal/usecase/customer"
	ucReservation "github.com/BruksfildServices01/agenda-core/internal/usecase/reservation"
)

// Deps are the process-wide singletons owned by main.
type Deps struct {
	Audit   *audit.Dispatcher
	Metrics *telemetry.Metrics
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, log *zap.Logger, deps Deps) {

	// ======================================================
	// INFRA
	// ======================================================
	reservationRepo := infraRepo.NewReservationGormRepository(db)
	customerRepo := infraRepo.NewCustomerGormRepository(db)
	tenantRepo := infraRepo.NewTenantGormRepository(db)

	authz := access.NewAuthorizer(tenantRepo)

	// ======================================================
	// USE CASES: CUSTOMERS
	// ======================================================
	admitUC := ucCustomer.NewAdmit(
		authz,
		customerRepo,
		customerRepo,
		deps.Audit,
		deps.Metrics,
		ucCustomer.Policy{
			CountryCode:      cfg.DefaultCountryCode,
			DefaultPlan:      cfg.DefaultPlan,
			ConstrainedPlans: cfg.ConstrainedPlans,
			DefaultLimit:     cfg.FreePlanCustomerLimit,
		},
	)
	listCustomersUC := ucCustomer.NewListCustomers(authz, customerRepo)

	// ======================================================
	// USE CASES: RESERVATIONS
	// ======================================================
	policy := ucReservation.Policy{
		SlotInterval: time.Duration(cfg.DefaultSlotIntervalMin) * time.Minute,
		LeadTime:     time.Duration(cfg.DefaultLeadTimeMin) * time.Minute,
	}

	availabilityUC := ucReservation.NewGetAvailability(reservationRepo, policy, deps.Metrics)
	commitUC := ucReservation.NewCommitReservation(reservationRepo, deps.Audit, deps.Metrics, policy)
	createUC := ucReservation.NewCreateReservation(authz, admitUC, commitUC)
	cancelUC := ucReservation.NewCancelReservation(authz, reservationRepo, deps.Audit, deps.Metrics)
	listReservationsUC := ucReservation.NewListReservations(authz, reservationRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	reservationHandler := handlers.NewReservationHandler(createUC, cancelUC, listReservationsUC, log)
	customerHandler := handlers.NewCustomerHandler(admitUC, listCustomersUC, log)
	publicHandler := handlers.NewPublicHandler(db, tenantRepo, availabilityUC, log)
	tenantHandler := handlers.NewTenantHandler(tenantRepo, authz, log)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db, authz, log)
	serviceHandler := handlers.NewServiceOfferingHandler(db, authz, log)
	blockHandler := handlers.NewBlockHandler(db, authz, deps.Audit, log)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, authz, log)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
		}

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.POST("/reservations", reservationHandler.Create)
			secured.GET("/reservations", reservationHandler.ListByDate)
			secured.GET("/reservations/month", reservationHandler.ListByMonth)
			secured.PATCH("/reservations/:id/cancel", reservationHandler.Cancel)

			secured.POST("/customers", customerHandler.Create)
			secured.GET("/customers", customerHandler.List)

			tenant := secured.Group("/tenants/:tenant_id")
			{
				tenant.GET("/settings", tenantHandler.GetSettings)
				tenant.PATCH("/settings", tenantHandler.UpdateSettings)

				tenant.GET("/services", serviceHandler.List)
				tenant.POST("/services", serviceHandler.Create)
				tenant.PATCH("/services/:id", serviceHandler.Update)

				tenant.GET("/resources/:resource_id/working-hours", workingHoursHandler.Get)
				tenant.PUT("/resources/:resource_id/working-hours", workingHoursHandler.Update)

				tenant.GET("/resources/:resource_id/blocks", blockHandler.List)
				tenant.POST("/resources/:resource_id/blocks", blockHandler.Create)
				tenant.DELETE("/resources/:resource_id/blocks/:id", blockHandler.Delete)

				tenant.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
