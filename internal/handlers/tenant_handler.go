package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-core/internal/httperr"
	"github.com/BruksfildServices01/agenda-core/internal/models"
	"github.com/BruksfildServices01/agenda-core/internal/timezone"
)

type TenantStore interface {
	GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	UpdateTenant(ctx context.Context, tenant *models.Tenant) error
}

type TenantHandler struct {
	tenants TenantStore
	authz   Authorizer
	log     *zap.Logger
}

func NewTenantHandler(tenants TenantStore, authz Authorizer, log *zap.Logger) *TenantHandler {
	return &TenantHandler{tenants: tenants, authz: authz, log: log}
}

type UpdateTenantSettingsRequest struct {
	Name            *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Phone           *string `json:"phone,omitempty" binding:"omitempty,max=20"`
	Timezone        *string `json:"timezone,omitempty"`
	OpenTime        *string `json:"open_time,omitempty" binding:"omitempty,datetime=15:04"`
	CloseTime       *string `json:"close_time,omitempty" binding:"omitempty,datetime=15:04"`
	SlotIntervalMin *int    `json:"slot_interval_min,omitempty" binding:"omitempty,min=5,max=240"`
	LeadTimeMin     *int    `json:"lead_time_min,omitempty" binding:"omitempty,min=0,max=10080"`
}

func (h *TenantHandler) GetSettings(c *gin.Context) {
	tenant, ok := ownerOnly(c, h.authz, h.log)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandler) UpdateSettings(c *gin.Context) {
	tenant, ok := ownerOnly(c, h.authz, h.log)
	if !ok {
		return
	}

	var req UpdateTenantSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request")
		return
	}

	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.Phone != nil {
		tenant.Phone = *req.Phone
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone")
			return
		}
		tenant.Timezone = *req.Timezone
	}
	if req.OpenTime != nil {
		tenant.OpenTime = *req.OpenTime
	}
	if req.CloseTime != nil {
		tenant.CloseTime = *req.CloseTime
	}
	if req.SlotIntervalMin != nil {
		tenant.SlotIntervalMin = req.SlotIntervalMin
	}
	if req.LeadTimeMin != nil {
		tenant.LeadTimeMin = req.LeadTimeMin
	}

	if tenant.CloseTime <= tenant.OpenTime {
		httperr.BadRequest(c, "close_time must be after open_time")
		return
	}

	if err := h.tenants.UpdateTenant(c.Request.Context(), tenant); err != nil {
		httperr.Respond(c, h.log, httperr.ErrInternal(err))
		return
	}

	c.JSON(http.StatusOK, tenant)
}
