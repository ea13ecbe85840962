package ports

import (
	"context"
	"time"
)

// Audit actions recorded by the authentication and role-management flows.
const (
	AuditLoginSuccess = "login_success"
	AuditLoginFailed  = "login_failed"
	AuditRegistered   = "registered"
	AuditRoleAssigned = "role_assigned"
	AuditRoleRemoved  = "role_removed"
)

// AuditEvent records a single security-relevant action against an account.
type AuditEvent struct {
	Action  string
	Subject string // account email the action concerns
	Detail  string
	At      time.Time
}

// AuditSink persists audit events.
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent) error
}

// AuditRecorder accepts events for asynchronous recording. Enqueue never
// blocks the calling request path on persistence.
type AuditRecorder interface {
	Enqueue(event AuditEvent)
}
