package models

import "time"

// StaffRole represents back-office access levels
type StaffRole string

const (
	StaffAdmin     StaffRole = "admin"
	StaffProvider  StaffRole = "provider"
	StaffFrontDesk StaffRole = "front_desk"
)

// Staff represents a back-office user (password login, not magic link)
type Staff struct {
	ID           int64     `json:"-"`
	PublicID     string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         StaffRole `json:"role"`
	Disabled     bool      `json:"disabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastLogin    time.Time `json:"last_login,omitempty"`
}
