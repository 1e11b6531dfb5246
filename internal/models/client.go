package models

import "time"

// ClientStatus represents the lifecycle state of a client account
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
	ClientBlocked  ClientStatus = "blocked"
)

// Client represents a spa client with portal access
type Client struct {
	ID        int64        `json:"-"`
	PublicID  string       `json:"id"`
	Email     string       `json:"email"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Phone     string       `json:"phone,omitempty"`
	Status    ClientStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// CanLogin returns true if the client is allowed to request a login link
func (c *Client) CanLogin() bool {
	return c.Status == ClientActive
}

// PortalUser is the minimal identity shape returned to the portal UI
type PortalUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PortalUser returns the client's portal-facing identity
func (c *Client) PortalUser() PortalUser {
	return PortalUser{
		ID:        c.PublicID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	}
}
