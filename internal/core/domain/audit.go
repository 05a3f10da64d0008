package domain

import "time"

// AuditAction names an auditable authentication event.
type AuditAction string

const (
	AuditLogin    AuditAction = "login"
	AuditRegister AuditAction = "register"
	AuditRefresh  AuditAction = "refresh"
	AuditLogout   AuditAction = "logout"
)

// AuditEntry is one row of the audit log.
type AuditEntry struct {
	ID        string      `json:"id"`
	Action    AuditAction `json:"action"`
	UserID    string      `json:"userId,omitempty"`
	Email     string      `json:"email,omitempty"`
	Success   bool        `json:"success"`
	Detail    string      `json:"detail,omitempty"`
	IP        string      `json:"ip,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}
