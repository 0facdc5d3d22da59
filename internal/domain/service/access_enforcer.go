package service

import (
	"github.com/perimetra/devscope/internal/domain/models"
	"github.com/perimetra/devscope/pkg/errors"
)

// AccountGrant is proof that the access enforcer approved a (token, account)
// pair. Its fields are unexported so a grant cannot be forged outside this
// package: every device query operation requires one, which makes the
// enforcement check structurally unbypassable rather than an optional
// middleware a future endpoint could forget.
type AccountGrant struct {
	accountID string
	subject   string
}

// AccountID returns the approved account. Empty on the zero value, which no
// query service accepts.
func (g AccountGrant) AccountID() string { return g.accountID }

// Subject returns the principal the grant was issued to.
func (g AccountGrant) Subject() string { return g.subject }

// AccessEnforcer decides allow/deny for a decoded token and a requested
// account. It is pure: no repository access, no trust in any client-asserted
// claim beyond what is embedded in the token.
type AccessEnforcer struct{}

// NewAccessEnforcer creates the enforcer.
func NewAccessEnforcer() *AccessEnforcer { return &AccessEnforcer{} }

// Authorize returns a grant iff accountID is a member of the token's
// authorized account set. Anything else is errors.ErrAccessDenied, whether or
// not the account exists; denial must look identical for real and imaginary
// accounts.
func (e *AccessEnforcer) Authorize(claims *models.Claims, accountID string) (AccountGrant, error) {
	if claims == nil || accountID == "" {
		return AccountGrant{}, errors.ErrAccessDenied()
	}
	if !claims.HasAccount(accountID) {
		return AccountGrant{}, errors.ErrAccessDenied()
	}
	return AccountGrant{accountID: accountID, subject: claims.Subject}, nil
}
