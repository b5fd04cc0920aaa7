package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-core/internal/access"
	"github.com/BruksfildServices01/agenda-core/internal/httperr"
	"github.com/BruksfildServices01/agenda-core/internal/middleware"
	"github.com/BruksfildServices01/agenda-core/internal/models"
)

type Authorizer interface {
	Authorize(ctx context.Context, p access.Principal, tenantID uint) (access.TenantScope, *models.Tenant, error)
}

func parseUint(s string) uint {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

func paramUint(c *gin.Context, name string) uint {
	return parseUint(c.Param(name))
}

func queryUint(c *gin.Context, name string) uint {
	return parseUint(c.Query(name))
}

// authorizeTenant resolves the :tenant_id path parameter against the caller.
// On failure the response has already been written.
func authorizeTenant(c *gin.Context, authz Authorizer, log *zap.Logger) (access.TenantScope, *models.Tenant, bool) {
	tenantID := paramUint(c, "tenant_id")
	if tenantID == 0 {
		httperr.BadRequest(c, "invalid_tenant_id")
		return access.TenantScope{}, nil, false
	}

	scope, tenant, err := authz.Authorize(c.Request.Context(), middleware.PrincipalFrom(c), tenantID)
	if err != nil {
		httperr.Respond(c, log, err)
		return access.TenantScope{}, nil, false
	}
	return scope, tenant, true
}

// ownerOnly is authorizeTenant restricted to the tenant owner.
func ownerOnly(c *gin.Context, authz Authorizer, log *zap.Logger) (*models.Tenant, bool) {
	_, tenant, ok := authorizeTenant(c, authz, log)
	if !ok {
		return nil, false
	}
	if tenant.OwnerID != middleware.PrincipalFrom(c).Subject {
		httperr.Respond(c, log, httperr.ErrForbidden("owner_only"))
		return nil, false
	}
	return tenant, true
}

// loadResource loads :resource_id and checks it belongs to tenant.
func loadResource(c *gin.Context, db *gorm.DB, tenant *models.Tenant, log *zap.Logger) (*models.Resource, bool) {
	var res models.Resource
	err := db.WithContext(c.Request.Context()).
		Where("id = ? AND tenant_id = ?", paramUint(c, "resource_id"), tenant.ID).
		First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Respond(c, log, httperr.ErrNotFound("resource_not_found"))
		return nil, false
	}
	if err != nil {
		httperr.Respond(c, log, httperr.ErrInternal(err))
		return nil, false
	}
	return &res, true
}
