package database

import "time"

// ExpirationStatus narrows a link listing to expired or still-active links.
type ExpirationStatus string

const (
	StatusAny     ExpirationStatus = ""
	StatusActive  ExpirationStatus = "active"
	StatusExpired ExpirationStatus = "expired"
)

// LinkFilter describes the optional constraints and pagination window
// applied to a link listing. Zero values leave the constraint off.
type LinkFilter struct {
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Status      ExpirationStatus
	Limit       int
	Offset      int
}

// LinkPatch carries the fields of a partial link update.
// Nil fields are left untouched.
type LinkPatch struct {
	OriginalURL *string
	Alias       *string
	ExpiresAt   *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p LinkPatch) IsEmpty() bool {
	return p.OriginalURL == nil && p.Alias == nil && p.ExpiresAt == nil
}
