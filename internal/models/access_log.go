package models

import "time"

// AccessLogEntry is an append-only audit record of a security-relevant
// action. Entries are written by the auth and portal layers and never
// mutated or deleted.
type AccessLogEntry struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	ClientID     *int64    `json:"client_id,omitempty"`
	StaffID      *int64    `json:"staff_id,omitempty"`
	SessionID    string    `json:"session_id,omitempty"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type,omitempty"`
	ResourceID   string    `json:"resource_id,omitempty"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	Details      string    `json:"details,omitempty"` // JSON string
}

// Common access log actions
const (
	ActionLoginRequested = "login.requested"
	ActionLoginSucceeded = "login.succeeded"
	ActionLogout         = "logout"
	ActionStaffLogin     = "staff.login"
	ActionStaffLogout    = "staff.logout"
	ActionResourceAccess = "resource.access"
)

// AccessLogFilter narrows access log listings
type AccessLogFilter struct {
	ClientID     *int64
	Action       string
	ActionPrefix string
	StartTime    time.Time
	EndTime      time.Time
	Limit        int
	Offset       int
}
