package service

import (
	"context"

	"github.com/perimetra/devscope/internal/domain/models"
	"github.com/perimetra/devscope/internal/domain/repository"
	domainservice "github.com/perimetra/devscope/internal/domain/service"
	"github.com/perimetra/devscope/internal/infrastructure/monitoring"
	"github.com/perimetra/devscope/pkg/errors"
	"github.com/perimetra/devscope/pkg/logger"
)

// DeviceAppService answers device queries for an account the access enforcer
// has already approved. Every operation takes an AccountGrant: without one
// there is no way to reach the repository, so the enforcement ordering
// (authorize, then look up) holds by construction.
type DeviceAppService interface {
	ListDevices(ctx context.Context, grant domainservice.AccountGrant) ([]models.Device, error)
	GetDevice(ctx context.Context, grant domainservice.AccountGrant, deviceID string) (*models.Device, error)
}

// DeviceCache is a read-through cache for per-account device lists. Keys are
// account-scoped; a miss (or any cache failure) falls back to the repository.
type DeviceCache interface {
	GetDevices(ctx context.Context, accountID string) ([]models.Device, bool)
	SetDevices(ctx context.Context, accountID string, devices []models.Device)
}

type deviceAppService struct {
	devices repository.DeviceRepository
	cache   DeviceCache
	metrics *monitoring.Metrics
	logger  logger.Logger
}

// NewDeviceAppService creates the device query service. cache may be nil.
func NewDeviceAppService(
	devices repository.DeviceRepository,
	cache DeviceCache,
	metrics *monitoring.Metrics,
	log logger.Logger,
) DeviceAppService {
	return &deviceAppService{
		devices: devices,
		cache:   cache,
		metrics: metrics,
		logger:  log.WithComponent("devices"),
	}
}

func (s *deviceAppService) ListDevices(ctx context.Context, grant domainservice.AccountGrant) ([]models.Device, error) {
	accountID := grant.AccountID()
	if accountID == "" {
		// A zero-value grant never passed the enforcer. Fail closed.
		return nil, errors.ErrAccessDenied()
	}

	if s.cache != nil {
		if devices, ok := s.cache.GetDevices(ctx, accountID); ok {
			s.metrics.RecordDeviceQuery("list", "cache_hit")
			return devices, nil
		}
	}

	devices, err := s.devices.ListByAccount(ctx, accountID)
	if err != nil {
		s.metrics.RecordDeviceQuery("list", "error")
		s.logger.Error(ctx, "device list failed", err, logger.String("account_id", accountID))
		return nil, errors.ErrRepository().WithCause(err)
	}

	if s.cache != nil {
		s.cache.SetDevices(ctx, accountID, devices)
	}

	s.metrics.RecordDeviceQuery("list", "success")
	return devices, nil
}

func (s *deviceAppService) GetDevice(ctx context.Context, grant domainservice.AccountGrant, deviceID string) (*models.Device, error) {
	accountID := grant.AccountID()
	if accountID == "" {
		return nil, errors.ErrAccessDenied()
	}
	if deviceID == "" {
		return nil, errors.ErrInvalidRequest("deviceId is required")
	}

	device, err := s.devices.FindByID(ctx, deviceID)
	if err != nil {
		if errors.IsNotFound(err) {
			s.metrics.RecordDeviceQuery("get", "not_found")
			return nil, errors.ErrNotFound()
		}
		s.metrics.RecordDeviceQuery("get", "error")
		s.logger.Error(ctx, "device lookup failed", err, logger.String("account_id", accountID))
		return nil, errors.ErrRepository().WithCause(err)
	}

	// Ownership re-check. A device under another account yields the same
	// outcome as a device that does not exist; only the audit trail knows
	// the difference.
	if device.AccountID != accountID {
		s.metrics.RecordDeviceQuery("get", "not_found")
		s.logger.Warn(ctx, "cross-account device lookup rejected",
			logger.String("subject", grant.Subject()),
			logger.String("account_id", accountID),
			logger.String("device_id", deviceID),
		)
		return nil, errors.ErrNotFound()
	}

	s.metrics.RecordDeviceQuery("get", "success")
	return device, nil
}
