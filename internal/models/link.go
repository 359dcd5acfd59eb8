package models

import "time"

// Link represents a short link and its associated metadata.
type Link struct {
	// ID is the unique identifier for the link record.
	ID int64
	// Alias is the short public identifier that resolves to the original URL.
	Alias string
	// OriginalURL is the destination URL the alias redirects to.
	OriginalURL string
	// UserID identifies the user who owns the link.
	UserID int64
	// VisitCount tracks the number of times the link has been resolved.
	VisitCount int64
	// CreatedAt is the timestamp indicating when the link was created.
	CreatedAt time.Time
	// ExpiresAt is the optional timestamp after which the link stops resolving.
	// A nil value means the link never expires.
	ExpiresAt *time.Time
}
