package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/perimetra/devscope/internal/application/service"
	"github.com/perimetra/devscope/internal/domain/models"
	"github.com/perimetra/devscope/pkg/logger"
)

const deviceKeyPrefix = "devscope:devices:"

// deviceCache is a short-TTL read-through cache of per-account device lists.
// Every key embeds the account id, so a cache entry can never serve a caller
// scoped to a different account. Failures degrade to a miss; the repository
// stays the source of truth.
type deviceCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewDeviceCache creates the cache with the given entry TTL.
func NewDeviceCache(client *redis.Client, ttl time.Duration, log logger.Logger) service.DeviceCache {
	return &deviceCache{
		client: client,
		ttl:    ttl,
		logger: log.WithComponent("device_cache"),
	}
}

func (c *deviceCache) GetDevices(ctx context.Context, accountID string) ([]models.Device, bool) {
	payload, err := c.client.Get(ctx, deviceKeyPrefix+accountID).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn(ctx, "device cache read failed", logger.Err(err))
		}
		return nil, false
	}

	var devices []models.Device
	if err := json.Unmarshal(payload, &devices); err != nil {
		c.logger.Warn(ctx, "device cache entry corrupt", logger.String("account_id", accountID))
		return nil, false
	}
	return devices, true
}

func (c *deviceCache) SetDevices(ctx context.Context, accountID string, devices []models.Device) {
	payload, err := json.Marshal(devices)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, deviceKeyPrefix+accountID, payload, c.ttl).Err(); err != nil {
		c.logger.Warn(ctx, "device cache write failed", logger.Err(err))
	}
}
