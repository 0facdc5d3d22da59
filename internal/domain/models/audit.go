package models

import (
	"time"

	"github.com/perimetra/devscope/pkg/constants"
)

// AuditEvent is a record of a security-relevant action. The audit trail keeps
// the distinctions the external API deliberately collapses (unknown user vs
// wrong password, missing device vs foreign-account device), so Reason may
// carry detail that must never reach a client.
type AuditEvent struct {
	ID         string                   `json:"id"`
	Type       constants.AuditEventType `json:"type"`
	Subject    string                   `json:"subject,omitempty"`
	AccountID  string                   `json:"account_id,omitempty"`
	DeviceID   string                   `json:"device_id,omitempty"`
	Outcome    string                   `json:"outcome"`
	Reason     string                   `json:"reason,omitempty"`
	ClientIP   string                   `json:"client_ip,omitempty"`
	RequestID  string                   `json:"request_id,omitempty"`
	OccurredAt time.Time                `json:"occurred_at"`
}
