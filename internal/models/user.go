package models

import "time"

// User represents a registered account that owns short links.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
