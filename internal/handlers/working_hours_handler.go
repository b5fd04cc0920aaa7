package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-core/internal/httperr"
	"github.com/BruksfildServices01/agenda-core/internal/models"
)

type WorkingHoursHandler struct {
	db    *gorm.DB
	authz Authorizer
	log   *zap.Logger
}

func NewWorkingHoursHandler(db *gorm.DB, authz Authorizer, log *zap.Logger) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, authz: authz, log: log}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time" binding:"omitempty,datetime=15:04"`
	EndTime    string `json:"end_time" binding:"omitempty,datetime=15:04"`
	BreakStart string `json:"break_start" binding:"omitempty,datetime=15:04"`
	BreakEnd   string `json:"break_end" binding:"omitempty,datetime=15:04"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,max=7,dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	_, tenant, ok := authorizeTenant(c, h.authz, h.log)
	if !ok {
		return
	}
	resource, ok := loadResource(c, h.db, tenant, h.log)
	if !ok {
		return
	}

	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("resource_id = ?", resource.ID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		httperr.Respond(c, h.log, httperr.ErrInternal(err))
		return
	}

	c.JSON(http.StatusOK, hours)
}

// Update replaces the whole week of the resource in one transaction.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	_, tenant, ok := authorizeTenant(c, h.authz, h.log)
	if !ok {
		return
	}
	resource, ok := loadResource(c, h.db, tenant, h.log)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request")
		return
	}

	seen := map[int]bool{}
	var toCreate []models.WorkingHours
	for _, d := range req.Days {
		if seen[d.Weekday] {
			httperr.BadRequest(c, "duplicate_weekday")
			return
		}
		seen[d.Weekday] = true

		if d.Active && (d.StartTime == "" || d.EndTime == "" || d.EndTime <= d.StartTime) {
			httperr.BadRequest(c, "end_time must be after start_time")
			return
		}
		if (d.BreakStart == "") != (d.BreakEnd == "") || (d.BreakStart != "" && d.BreakEnd <= d.BreakStart) {
			httperr.BadRequest(c, "invalid_break")
			return
		}

		toCreate = append(toCreate, models.WorkingHours{
			ResourceID: resource.ID,
			Weekday:    d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			BreakStart: d.BreakStart,
			BreakEnd:   d.BreakEnd,
		})
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("resource_id = ?", resource.ID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.Respond(c, h.log, httperr.ErrInternal(err))
		return
	}

	c.JSON(http.StatusOK, toCreate)
}
