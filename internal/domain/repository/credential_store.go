// Package repository defines the persistence and adapter interfaces consumed
// by the domain and application layers. Implementations live under
// internal/infrastructure.
package repository

import (
	"context"

	"github.com/perimetra/devscope/internal/domain/models"
)

// CredentialStore verifies login credentials and resolves the principal's
// authorized account set.
//
// Verify returns errors.ErrInvalidCredentials for any failed check; the
// implementation must not allow unknown-user and wrong-password outcomes to
// be distinguished by the caller. Adapter failures surface as
// errors.ErrUpstreamUnavailable.
type CredentialStore interface {
	Verify(ctx context.Context, username, password string) (*models.Principal, error)
}
