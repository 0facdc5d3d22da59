package models

import "time"

// IssuedToken is the result of a successful token issuance: the signed
// credential string plus the claims that were bound into it. It is immutable
// after creation and becomes invalid automatically at ExpiresAt.
type IssuedToken struct {
	Value      string
	Subject    string
	AccountIDs []string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}
