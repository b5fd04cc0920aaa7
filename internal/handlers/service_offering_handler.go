package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-core/internal/httperr"
	"github.com/BruksfildServices01/agenda-core/internal/models"
)

type ServiceOfferingHandler struct {
	db    *gorm.DB
	authz Authorizer
	log   *zap.Logger
}

func NewServiceOfferingHandler(db *gorm.DB, authz Authorizer, log *zap.Logger) *ServiceOfferingHandler {
	return &ServiceOfferingHandler{db: db, authz: authz, log: log}
}

// --------- Requests ---------

type CreateServiceOfferingRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description string  `json:"description" binding:"max=255"`
	DurationMin int     `json:"duration_min" binding:"required,min=1,max=720"`
	Price       float64 `json:"price" binding:"min=0"`
}

type UpdateServiceOfferingRequest struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=255"`
	DurationMin *int     `json:"duration_min,omitempty" binding:"omitempty,min=1,max=720"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	Active      *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceOfferingHandler) List(c *gin.Context) {
	_, tenant, ok := authorizeTenant(c, h.authz, h.log)
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).Where("tenant_id = ?", tenant.ID)

	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}

	var services []models.ServiceOffering
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Respond(c, h.log, httperr.ErrInternal(err))
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceOfferingHandler) Create(c *gin.Context) {
	tenant, ok := ownerOnly(c, h.authz, h.log)
	if !ok {
		return
	}

	var req CreateServiceOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request")
		return
	}

	service := models.ServiceOffering{
		TenantID:    tenant.ID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		httperr.Respond(c, h.log, httperr.ErrInternal(err))
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *ServiceOfferingHandler) Update(c *gin.Context) {
	tenant, ok := ownerOnly(c, h.authz, h.log)
	if !ok {
		return
	}

	var service models.ServiceOffering
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND tenant_id = ?", paramUint(c, "id"), tenant.ID).
		First(&service).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Respond(c, h.log, httperr.ErrNotFound("service_not_found"))
		return
	}
	if err != nil {
		httperr.Respond(c, h.log, httperr.ErrInternal(err))
		return
	}

	var req UpdateServiceOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request")
		return
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMin != nil {
		service.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(&service).
		Select("name", "description", "duration_min", "price", "active").
		Updates(&service).Error; err != nil {
		httperr.Respond(c, h.log, httperr.ErrInternal(err))
		return
	}

	c.JSON(http.StatusOK, service)
}
