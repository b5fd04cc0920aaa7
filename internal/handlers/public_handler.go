package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/agenda-core/internal/domain/reservation"
	"github.com/BruksfildServices01/agenda-core/internal/httperr"
	"github.com/BruksfildServices01/agenda-core/internal/httpresp"
	"github.com/BruksfildServices01/agenda-core/internal/models"
	ucReservation "github.com/BruksfildServices01/agenda-core/internal/usecase/reservation"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db           *gorm.DB
	tenants      TenantStore
	availability *ucReservation.GetAvailability
	log          *zap.Logger
}

func NewPublicHandler(
	db *gorm.DB,
	tenants TenantStore,
	availability *ucReservation.GetAvailability,
	log *zap.Logger,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		tenants:      tenants,
		availability: availability,
		log:          log,
	}
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	tenant, err := h.tenants.GetTenantBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.Respond(c, h.log, httperr.ErrInternal(err))
		return
	}
	if tenant == nil {
		httperr.Respond(c, h.log, httperr.ErrNotFound("tenant_not_found"))
		return
	}

	var services []models.ServiceOffering
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND active = ?", tenant.ID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {
		httperr.Respond(c, h.log, httperr.ErrInternal(err))
		return
	}

	var resources []models.Resource
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND active = ?", tenant.ID, true).
		Order("name ASC").
		Find(&resources).Error; err != nil {
		httperr.Respond(c, h.log, httperr.ErrInternal(err))
		return
	}

	httpresp.OK(c, gin.H{
		"tenant":    gin.H{"id": tenant.ID, "name": tenant.Name, "timezone": tenant.Timezone},
		"services":  services,
		"resources": resources,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	out, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		ResourceID: queryUint(c, "resource_id"),
		ServiceID:  queryUint(c, "service_id"),
		Date:       c.Query("date"),
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, out)
}
