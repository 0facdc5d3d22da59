// Package crypto implements the token codec: HMAC-signed JWTs carrying the
// authorized account set, plus a decode cache and the Vault-backed signing
// secret source.
package crypto

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/perimetra/devscope/internal/domain/models"
	"github.com/perimetra/devscope/internal/domain/service"
	"github.com/perimetra/devscope/pkg/constants"
	"github.com/perimetra/devscope/pkg/errors"
	"github.com/perimetra/devscope/pkg/logger"
)

// hmacTokenCodec signs and verifies tokens with HS256 over a process-wide
// secret. The secret is injected at construction and read-only afterwards,
// which keeps the codec safe for unbounded concurrent use and testable with
// an arbitrary key.
type hmacTokenCodec struct {
	secret []byte
	leeway time.Duration
	logger logger.Logger
}

// NewHMACTokenCodec creates the codec. leeway is the explicit clock-skew
// tolerance applied to expiry checks; zero means tokens that expire during
// validation fail closed as expired.
func NewHMACTokenCodec(secret []byte, leeway time.Duration, log logger.Logger) (service.TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.ErrTokenEncoding().WithCause(stderrors.New("signing secret is empty"))
	}
	if leeway < 0 {
		leeway = 0
	}
	return &hmacTokenCodec{
		secret: secret,
		leeway: leeway,
		logger: log.WithComponent("token_codec"),
	}, nil
}

func (c *hmacTokenCodec) Encode(ctx context.Context, subject string, accountIDs []string, issuedAt time.Time, ttl time.Duration) (*models.IssuedToken, error) {
	expiresAt := issuedAt.Add(ttl)

	// Copy the set so later mutation by the caller cannot reach the claims.
	accounts := make([]string, len(accountIDs))
	copy(accounts, accountIDs)

	claims := &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    constants.TokenIssuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		AccountIDs: accounts,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		c.logger.Error(ctx, "failed to sign token", err)
		return nil, errors.ErrTokenEncoding().WithCause(err)
	}

	return &models.IssuedToken{
		Value:      signed,
		Subject:    subject,
		AccountIDs: accounts,
		IssuedAt:   issuedAt,
		ExpiresAt:  expiresAt,
	}, nil
}

func (c *hmacTokenCodec) Decode(ctx context.Context, tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(constants.TokenIssuer),
		jwt.WithLeeway(c.leeway),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		switch {
		case stderrors.Is(err, jwt.ErrTokenMalformed):
			return nil, errors.ErrTokenMalformed().WithCause(err)
		case stderrors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, errors.ErrTokenSignatureInvalid().WithCause(err)
		case stderrors.Is(err, jwt.ErrTokenExpired):
			return nil, errors.ErrTokenExpired().WithCause(err)
		default:
			// Unknown issuer, not-yet-valid, and anything else structural.
			return nil, errors.ErrTokenMalformed().WithCause(err)
		}
	}

	if !token.Valid {
		return nil, errors.ErrTokenSignatureInvalid()
	}

	return claims, nil
}
