package crypto

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/perimetra/devscope/internal/domain/models"
	"github.com/perimetra/devscope/internal/domain/service"
	"github.com/perimetra/devscope/pkg/errors"
)

// cachingTokenCodec wraps a TokenCodec with an in-process decode cache.
// Verifying an HMAC is cheap, but the full parse-and-validate path still
// dominates hot request paths; tokens are reused for their whole lifetime, so
// a successful decode can be memoized until the token's own expiry. Entries
// never outlive the token: the expiry is re-checked on every hit so a cached
// result cannot resurrect an expired credential.
type cachingTokenCodec struct {
	inner service.TokenCodec
	cache *gocache.Cache
	now   func() time.Time
}

// NewCachingTokenCodec wraps inner with a decode cache.
func NewCachingTokenCodec(inner service.TokenCodec) service.TokenCodec {
	return &cachingTokenCodec{
		inner: inner,
		cache: gocache.New(gocache.NoExpiration, 5*time.Minute),
		now:   time.Now,
	}
}

func (c *cachingTokenCodec) Encode(ctx context.Context, subject string, accountIDs []string, issuedAt time.Time, ttl time.Duration) (*models.IssuedToken, error) {
	return c.inner.Encode(ctx, subject, accountIDs, issuedAt, ttl)
}

func (c *cachingTokenCodec) Decode(ctx context.Context, tokenString string) (*models.Claims, error) {
	if cached, found := c.cache.Get(tokenString); found {
		claims := cached.(*models.Claims)
		if claims.ExpiresAt != nil && c.now().After(claims.ExpiresAt.Time) {
			c.cache.Delete(tokenString)
			return nil, errors.ErrTokenExpired()
		}
		return claims, nil
	}

	claims, err := c.inner.Decode(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			c.cache.Set(tokenString, claims, remaining)
		}
	}

	return claims, nil
}
