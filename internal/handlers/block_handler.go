package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-core/internal/audit"
	"github.com/BruksfildServices01/agenda-core/internal/httperr"
	"github.com/BruksfildServices01/agenda-core/internal/middleware"
	"github.com/BruksfildServices01/agenda-core/internal/models"
)

// BlockHandler manages manual busy intervals. Existing reservations are
// left untouched; a block only hides future availability.
type BlockHandler struct {
	db    *gorm.DB
	authz Authorizer
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewBlockHandler(db *gorm.DB, authz Authorizer, audit *audit.Dispatcher, log *zap.Logger) *BlockHandler {
	return &BlockHandler{db: db, authz: authz, audit: audit, log: log}
}

type CreateBlockRequest struct {
	StartTime string `json:"start_time" binding:"required"` // RFC 3339
	EndTime   string `json:"end_time" binding:"required"`
	Reason    string `json:"reason" binding:"max=255"`
}

func (h *BlockHandler) List(c *gin.Context) {
	_, tenant, ok := authorizeTenant(c, h.authz, h.log)
	if !ok {
		return
	}
	resource, ok := loadResource(c, h.db, tenant, h.log)
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).Where("resource_id = ?", resource.ID)
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		q = q.Where("end_time > ?", from.UTC())
	}

	var blocks []models.Block
	if err := q.Order("start_time ASC").Find(&blocks).Error; err != nil {
		httperr.Respond(c, h.log, httperr.ErrInternal(err))
		return
	}

	c.JSON(http.StatusOK, blocks)
}

func (h *BlockHandler) Create(c *gin.Context) {
	_, tenant, ok := authorizeTenant(c, h.authz, h.log)
	if !ok {
		return
	}
	resource, ok := loadResource(c, h.db, tenant, h.log)
	if !ok {
		return
	}

	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request")
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_start_time")
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_end_time")
		return
	}
	if !end.After(start) {
		httperr.BadRequest(c, "end_time must be after start_time")
		return
	}

	block := models.Block{
		TenantID:   tenant.ID,
		ResourceID: resource.ID,
		StartTime:  start.UTC(),
		EndTime:    end.UTC(),
		Reason:     req.Reason,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&block).Error; err != nil {
		httperr.Respond(c, h.log, httperr.ErrInternal(err))
		return
	}

	h.audit.Dispatch(audit.Event{
		TenantID:    tenant.ID,
		PrincipalID: middleware.PrincipalFrom(c).Subject,
		Action:      "block_created",
		Entity:      "block",
		EntityID:    &block.ID,
		Metadata: map[string]any{
			"resource_id": resource.ID,
			"start_time":  block.StartTime,
			"end_time":    block.EndTime,
		},
	})

	c.JSON(http.StatusCreated, block)
}

func (h *BlockHandler) Delete(c *gin.Context) {
	_, tenant, ok := authorizeTenant(c, h.authz, h.log)
	if !ok {
		return
	}
	resource, ok := loadResource(c, h.db, tenant, h.log)
	if !ok {
		return
	}

	var block models.Block
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND resource_id = ?", paramUint(c, "id"), resource.ID).
		First(&block).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Respond(c, h.log, httperr.ErrNotFound("block_not_found"))
		return
	}
	if err != nil {
		httperr.Respond(c, h.log, httperr.ErrInternal(err))
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&block).Error; err != nil {
		httperr.Respond(c, h.log, httperr.ErrInternal(err))
		return
	}

	h.audit.Dispatch(audit.Event{
		TenantID:    tenant.ID,
		PrincipalID: middleware.PrincipalFrom(c).Subject,
		Action:      "block_deleted",
		Entity:      "block",
		EntityID:    &block.ID,
	})

	c.Status(http.StatusNoContent)
}
