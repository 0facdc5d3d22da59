package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perimetra/devscope/internal/domain/models"
	"github.com/perimetra/devscope/pkg/errors"
)

func claimsWithAccounts(subject string, accountIDs ...string) *models.Claims {
	c := &models.Claims{AccountIDs: accountIDs}
	c.Subject = subject
	return c
}

func TestAuthorize(t *testing.T) {
	enforcer := NewAccessEnforcer()

	tests := []struct {
		name      string
		claims    *models.Claims
		accountID string
		wantAllow bool
	}{
		{"member of set", claimsWithAccounts("alice", "acc-a", "acc-b"), "acc-a", true},
		{"second member", claimsWithAccounts("alice", "acc-a", "acc-b"), "acc-b", true},
		{"not a member", claimsWithAccounts("alice", "acc-a", "acc-b"), "acc-c", false},
		{"empty authorized set", claimsWithAccounts("bob"), "acc-a", false},
		{"empty requested account", claimsWithAccounts("alice", "acc-a"), "", false},
		{"nil claims", nil, "acc-a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grant, err := enforcer.Authorize(tt.claims, tt.accountID)
			if tt.wantAllow {
				require.NoError(t, err)
				assert.Equal(t, tt.accountID, grant.AccountID())
				assert.Equal(t, tt.claims.Subject, grant.Subject())
			} else {
				assert.True(t, errors.HasCode(err, errors.CodeAccessDenied))
				assert.Empty(t, grant.AccountID())
			}
		})
	}
}

func TestAuthorizeDenyIsUniformForRealAndUnknownAccounts(t *testing.T) {
	enforcer := NewAccessEnforcer()
	claims := claimsWithAccounts("alice", "acc-a")

	// "acc-b" exists somewhere in the system, "acc-zz" does not. The enforcer
	// cannot and must not tell the difference.
	_, errReal := enforcer.Authorize(claims, "acc-b")
	_, errFake := enforcer.Authorize(claims, "acc-zz")

	require.Error(t, errReal)
	require.Error(t, errFake)
	assert.Equal(t, errReal.Error(), errFake.Error())
}

func TestEmptySetDeniesEverything(t *testing.T) {
	enforcer := NewAccessEnforcer()
	claims := claimsWithAccounts("nobody")

	for _, id := range []string{"acc-a", "acc-b", "acc-c"} {
		_, err := enforcer.Authorize(claims, id)
		assert.True(t, errors.HasCode(err, errors.CodeAccessDenied), "account %s", id)
	}
}

func TestGrantZeroValueIsUnusable(t *testing.T) {
	var grant AccountGrant
	assert.Empty(t, grant.AccountID())
	assert.Empty(t, grant.Subject())
}
