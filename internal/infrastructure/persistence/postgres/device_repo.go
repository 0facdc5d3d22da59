package postgres

import (
	"context"
	stderrors "errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/perimetra/devscope/internal/domain/models"
	"github.com/perimetra/devscope/internal/domain/repository"
	"github.com/perimetra/devscope/pkg/errors"
	"github.com/perimetra/devscope/pkg/logger"
)

type deviceRepo struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewDeviceRepository creates the PostgreSQL device repository.
func NewDeviceRepository(db *gorm.DB, log logger.Logger) repository.DeviceRepository {
	return &deviceRepo{db: db, logger: log.WithComponent("device_repo")}
}

func (r *deviceRepo) ListByAccount(ctx context.Context, accountID string) ([]models.Device, error) {
	var devices []models.Device

	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("device_id").
		Find(&devices).Error
	if err != nil {
		r.logger.Error(ctx, "device list query failed", describePgErr(err),
			logger.String("account_id", accountID),
		)
		return nil, errors.ErrRepository().WithCause(err)
	}

	return devices, nil
}

func (r *deviceRepo) FindByID(ctx context.Context, deviceID string) (*models.Device, error) {
	var device models.Device

	err := r.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		First(&device).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound()
		}
		r.logger.Error(ctx, "device lookup query failed", describePgErr(err),
			logger.String("device_id", deviceID),
		)
		return nil, errors.ErrRepository().WithCause(err)
	}

	return &device, nil
}

// describePgErr surfaces the SQLSTATE code alongside driver errors so log
// entries stay actionable without raw query echo.
func describePgErr(err error) error {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return stderrors.New("sqlstate " + pgErr.Code + ": " + pgErr.Message)
	}
	return err
}
