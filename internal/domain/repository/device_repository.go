package repository

import (
	"context"

	"github.com/perimetra/devscope/internal/domain/models"
)

// DeviceRepository is the adapter over the device metadata store. Result
// ordering for ListByAccount is owned by the implementation; the core is not
// a sorting authority. Failures surface as errors.ErrRepository; a missing
// device surfaces as errors.ErrNotFound.
type DeviceRepository interface {
	// ListByAccount returns every device whose AccountID equals accountID.
	ListByAccount(ctx context.Context, accountID string) ([]models.Device, error)

	// FindByID fetches a device by its DeviceID regardless of account. The
	// caller is responsible for the account ownership re-check; the
	// repository itself never leaks existence information to clients.
	FindByID(ctx context.Context, deviceID string) (*models.Device, error)
}
