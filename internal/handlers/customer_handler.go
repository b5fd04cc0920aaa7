package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-core/internal/httperr"
	"github.com/BruksfildServices01/agenda-core/internal/httpresp"
	"github.com/BruksfildServices01/agenda-core/internal/middleware"
	ucCustomer "github.com/BruksfildServices01/agenda-core/internal/usecase/customer"
)

type CustomerHandler struct {
	admit *ucCustomer.Admit
	list  *ucCustomer.ListCustomers
	log   *zap.Logger
}

func NewCustomerHandler(admit *ucCustomer.Admit, list *ucCustomer.ListCustomers, log *zap.Logger) *CustomerHandler {
	return &CustomerHandler{admit: admit, list: list, log: log}
}

// Required fields are checked by the admission use case so the error
// order stays the same for every caller.
type CreateCustomerRequest struct {
	TenantID uint   `json:"tenant_id"`
	Name     string `json:"name" binding:"max=100"`
	Phone    string `json:"phone" binding:"max=40"`
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request")
		return
	}

	customer, err := h.admit.Execute(c.Request.Context(), middleware.PrincipalFrom(c), ucCustomer.AdmitInput{
		TenantID: req.TenantID,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) List(c *gin.Context) {
	list, err := h.list.Execute(
		c.Request.Context(),
		middleware.PrincipalFrom(c),
		queryUint(c, "tenant_id"),
		c.Query("query"),
	)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, list)
}
