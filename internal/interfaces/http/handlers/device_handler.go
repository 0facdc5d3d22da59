package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/perimetra/devscope/internal/application/service"
	"github.com/perimetra/devscope/internal/domain/models"
	domainservice "github.com/perimetra/devscope/internal/domain/service"
	"github.com/perimetra/devscope/internal/infrastructure/monitoring"
	"github.com/perimetra/devscope/internal/interfaces/http/middleware"
	"github.com/perimetra/devscope/pkg/constants"
	"github.com/perimetra/devscope/pkg/errors"
	"github.com/perimetra/devscope/pkg/logger"
)

// DeviceHandler serves the device query endpoints. Both endpoints require a
// decoded token (placed in the context by the auth middleware) and an
// accountId query parameter, which must be a member of the token's authorized
// set before any repository access happens.
type DeviceHandler struct {
	devices  service.DeviceAppService
	enforcer *domainservice.AccessEnforcer
	audit    domainservice.AuditService
	metrics  *monitoring.Metrics
	logger   logger.Logger
}

// NewDeviceHandler creates the device handler. audit may be nil.
func NewDeviceHandler(
	devices service.DeviceAppService,
	enforcer *domainservice.AccessEnforcer,
	audit domainservice.AuditService,
	metrics *monitoring.Metrics,
	log logger.Logger,
) *DeviceHandler {
	return &DeviceHandler{
		devices:  devices,
		enforcer: enforcer,
		audit:    audit,
		metrics:  metrics,
		logger:   log.WithComponent("device_handler"),
	}
}

// ListDevices handles GET /v1/devices?accountId=.
func (h *DeviceHandler) ListDevices(c *gin.Context) {
	grant, ok := h.authorize(c)
	if !ok {
		return
	}

	devices, err := h.devices.ListDevices(c.Request.Context(), grant)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if devices == nil {
		devices = []models.Device{}
	}
	respondOK(c, http.StatusOK, devices)
}

// GetDevice handles GET /v1/devices/:deviceId?accountId=. A device that does
// not exist and a device under another account produce the same 404.
func (h *DeviceHandler) GetDevice(c *gin.Context) {
	grant, ok := h.authorize(c)
	if !ok {
		return
	}

	deviceID := c.Param("deviceId")
	device, err := h.devices.GetDevice(c.Request.Context(), grant, deviceID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.recordAudit(c, models.AuditEvent{
		Type:      constants.AuditEventDeviceAccessed,
		Subject:   grant.Subject(),
		AccountID: grant.AccountID(),
		DeviceID:  deviceID,
		Outcome:   "success",
	})
	respondOK(c, http.StatusOK, device)
}

// authorize resolves the request's claims and accountId into a grant. On any
// failure it writes the response itself and returns ok=false. A missing token
// is a 401, a missing accountId a 400, and an account outside the token's set
// a 403 that looks the same whether or not the account exists.
func (h *DeviceHandler) authorize(c *gin.Context) (domainservice.AccountGrant, bool) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		respondError(c, h.logger, errors.ErrTokenMalformed())
		return domainservice.AccountGrant{}, false
	}

	accountID := c.Query("accountId")
	if accountID == "" {
		respondError(c, h.logger, errors.ErrInvalidRequest("accountId query parameter is required"))
		return domainservice.AccountGrant{}, false
	}

	grant, err := h.enforcer.Authorize(claims, accountID)
	if err != nil {
		h.metrics.RecordAuthzDenial()
		h.logger.Warn(c.Request.Context(), "account authorization denied",
			logger.String("subject", claims.Subject),
			logger.String("account_id", accountID),
		)
		h.recordAudit(c, models.AuditEvent{
			Type:      constants.AuditEventAuthorizationDenied,
			Subject:   claims.Subject,
			AccountID: accountID,
			Outcome:   "denied",
			Reason:    "account not in authorized set",
		})
		respondError(c, h.logger, err)
		return domainservice.AccountGrant{}, false
	}

	return grant, true
}

func (h *DeviceHandler) recordAudit(c *gin.Context, event models.AuditEvent) {
	if h.audit == nil {
		return
	}
	event.ID = uuid.NewString()
	event.OccurredAt = time.Now().UTC()
	event.ClientIP = c.ClientIP()
	event.RequestID = c.GetString(constants.GinKeyRequestID)
	h.audit.Record(c.Request.Context(), event)
}
