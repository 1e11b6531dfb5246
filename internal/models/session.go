package models

import "time"

// SessionKind distinguishes portal client sessions from staff sessions
type SessionKind string

const (
	SessionClient SessionKind = "client"
	SessionStaff  SessionKind = "staff"
)

// Session represents an authenticated browser session. The session and
// refresh secrets are stored hashed; the raw values live only in cookies.
type Session struct {
	ID               int64       `json:"-"`
	PublicID         string      `json:"id"`
	Kind             SessionKind `json:"kind"`
	ClientID         *int64      `json:"-"`
	StaffID          *int64      `json:"-"`
	TokenHash        string      `json:"-"` // Never expose in JSON
	RefreshTokenHash string      `json:"-"`
	CreatedAt        time.Time   `json:"created_at"`
	ExpiresAt        time.Time   `json:"expires_at"`
	LastSeenAt       time.Time   `json:"last_seen_at"`
	RevokedAt        *time.Time  `json:"revoked_at,omitempty"`
	IPAddress        string      `json:"ip_address"`
	UserAgent        string      `json:"user_agent"`
}

// Valid returns true if the session is neither revoked nor expired
func (s *Session) Valid() bool {
	return s.RevokedAt == nil && time.Now().Before(s.ExpiresAt)
}
