// Package service contains the domain services: the token codec contract,
// the access enforcer, and the audit sink contract.
package service

import (
	"context"
	"time"

	"github.com/perimetra/devscope/internal/domain/models"
)

// TokenCodec serializes and verifies signed tokens. Implementations are pure
// beyond reading the injected signing secret and must be safe for unbounded
// concurrent use.
type TokenCodec interface {
	// Encode produces a signed token for subject with the given authorized
	// account set. Expiry is issuedAt + ttl. Fails with
	// errors.ErrTokenEncoding when signing is impossible.
	Encode(ctx context.Context, subject string, accountIDs []string, issuedAt time.Time, ttl time.Duration) (*models.IssuedToken, error)

	// Decode verifies the signature first, then the expiry, and returns the
	// embedded claims. Failures are distinguishable:
	// errors.ErrTokenMalformed, errors.ErrTokenSignatureInvalid,
	// errors.ErrTokenExpired.
	Decode(ctx context.Context, tokenString string) (*models.Claims, error)
}
