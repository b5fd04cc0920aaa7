package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-core/internal/dto"
	"github.com/BruksfildServices01/agenda-core/internal/httperr"
	"github.com/BruksfildServices01/agenda-core/internal/httpresp"
	"github.com/BruksfildServices01/agenda-core/internal/middleware"
	"github.com/BruksfildServices01/agenda-core/internal/models"
	ucReservation "github.com/BruksfildServices01/agenda-core/internal/usecase/reservation"
)

// ======================================================
// HANDLER
// ======================================================

type ReservationHandler struct {
	create *ucReservation.CreateReservation
	cancel *ucReservation.CancelReservation
	list   *ucReservation.ListReservations
	log    *zap.Logger
}

func NewReservationHandler(
	create *ucReservation.CreateReservation,
	cancel *ucReservation.CancelReservation,
	list *ucReservation.ListReservations,
	log *zap.Logger,
) *ReservationHandler {
	return &ReservationHandler{
		create: create,
		cancel: cancel,
		list:   list,
		log:    log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateReservationRequest struct {
	TenantID      uint   `json:"tenant_id"`
	ResourceID    uint   `json:"resource_id"`
	ServiceID     uint   `json:"service_id"`
	StartTime     string `json:"start_time"` // RFC 3339
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Notes         string `json:"notes" binding:"max=255"`
}

// ======================================================
// CREATE
// ======================================================

func (h *ReservationHandler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request")
		return
	}

	var start time.Time
	if req.StartTime != "" {
		var err error
		start, err = time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			httperr.BadRequest(c, "invalid_start_time")
			return
		}
	}

	r, err := h.create.Execute(c.Request.Context(), middleware.PrincipalFrom(c), ucReservation.CreateReservationInput{
		TenantID:      req.TenantID,
		ResourceID:    req.ResourceID,
		ServiceID:     req.ServiceID,
		Start:         start,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, r)
}

// ======================================================
// CANCEL
// ======================================================

func (h *ReservationHandler) Cancel(c *gin.Context) {
	id := paramUint(c, "id")
	if id == 0 {
		httperr.BadRequest(c, "invalid_reservation_id")
		return
	}

	r, err := h.cancel.Execute(c.Request.Context(), middleware.PrincipalFrom(c), queryUint(c, "tenant_id"), id)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, r)
}

// ======================================================
// LIST
// ======================================================

func (h *ReservationHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date")
		return
	}

	list, err := h.list.ByDate(
		c.Request.Context(),
		middleware.PrincipalFrom(c),
		queryUint(c, "tenant_id"),
		queryUint(c, "resource_id"),
		date,
	)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.respondList(c, list)
}

func (h *ReservationHandler) ListByMonth(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))

	list, err := h.list.ByMonth(
		c.Request.Context(),
		middleware.PrincipalFrom(c),
		queryUint(c, "tenant_id"),
		queryUint(c, "resource_id"),
		year,
		month,
	)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.respondList(c, list)
}

func (h *ReservationHandler) respondList(c *gin.Context, list []models.Reservation) {
	httpresp.List(c, dto.ToReservationList(list))
}
