package models

import "time"

// DocumentKind categorizes documents shared with a client
type DocumentKind string

const (
	DocumentConsent   DocumentKind = "consent"
	DocumentAftercare DocumentKind = "aftercare"
	DocumentReceipt   DocumentKind = "receipt"
	DocumentIntake    DocumentKind = "intake"
)

// Document represents a file shared with a client through the portal
type Document struct {
	ID        int64        `json:"-"`
	PublicID  string       `json:"id"`
	ClientID  int64        `json:"-"`
	Kind      DocumentKind `json:"kind"`
	Title     string       `json:"title"`
	URL       string       `json:"url"`
	SignedAt  *time.Time   `json:"signed_at,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// Notification represents a portal message for a client
type Notification struct {
	ID        int64      `json:"-"`
	PublicID  string     `json:"id"`
	ClientID  int64      `json:"-"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
