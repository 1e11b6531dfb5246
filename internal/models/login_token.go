package models

import "time"

// LoginToken represents one issued, single-use magic-link login attempt.
// Only the SHA-256 hash of the secret is ever persisted; the raw secret
// exists solely in the emailed link.
type LoginToken struct {
	ID         int64      `json:"id"`
	ClientID   int64      `json:"client_id"`
	TokenHash  string     `json:"-"` // Never expose in JSON
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	IPAddress  string     `json:"ip_address"`
	UserAgent  string     `json:"user_agent"`
}

// Usable returns true if the token can still be exchanged for a session
func (t *LoginToken) Usable() bool {
	return t.ConsumedAt == nil && time.Now().Before(t.ExpiresAt)
}
