package service

import (
	"context"

	"github.com/perimetra/devscope/internal/domain/models"
)

// AuditService records security-relevant events. Implementations must not
// fail the calling operation: auditing is best-effort from the caller's
// perspective and errors are handled inside the sink.
type AuditService interface {
	Record(ctx context.Context, event models.AuditEvent)
	Close() error
}
