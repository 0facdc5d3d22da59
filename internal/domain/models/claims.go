package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the decoded content of an issued token. It embeds the standard
// registered claims and adds the authorized account set computed at login.
type Claims struct {
	jwt.RegisteredClaims

	// AccountIDs is the immutable authorized account set. Authorization
	// changes for the principal take effect on the next login, never
	// mid-token.
	AccountIDs []string `json:"accounts"`
}

// HasAccount reports whether accountID is a member of the authorized set.
// This is the only membership primitive; callers other than the access
// enforcer should not use it to make allow/deny decisions.
func (c *Claims) HasAccount(accountID string) bool {
	for _, id := range c.AccountIDs {
		if id == accountID {
			return true
		}
	}
	return false
}
