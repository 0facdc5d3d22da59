// Package constants defines system-wide constants for the device monitoring API.
package constants

import "time"

// ContextKey is the type used for values stored in request contexts.
type ContextKey string

const (
	// ContextKeyRequestID carries the per-request correlation identifier.
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeySubject carries the authenticated principal's subject.
	ContextKeySubject ContextKey = "subject"
)

// Gin context keys used to pass decoded token state from middleware to handlers.
const (
	GinKeyClaims    = "claims"
	GinKeyRequestID = "request_id"
)

// HeaderRequestID is the correlation header echoed on every response.
const HeaderRequestID = "X-Request-ID"

// Token defaults. The TTL is overridable via configuration; the leeway bounds
// acceptable clock skew between the issuer and validators.
const (
	DefaultTokenTTL    = 1 * time.Hour
	DefaultClockLeeway = 5 * time.Second
)

// TokenIssuer is the iss claim stamped into every issued token.
const TokenIssuer = "devscope-api"

// UserStatus represents the lifecycle state of a login principal.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// AuditEventType classifies entries written to the audit trail.
type AuditEventType string

const (
	AuditEventLoginSucceeded      AuditEventType = "login.succeeded"
	AuditEventLoginFailed         AuditEventType = "login.failed"
	AuditEventAuthorizationDenied AuditEventType = "authorization.denied"
	AuditEventDeviceAccessed      AuditEventType = "device.accessed"
)
