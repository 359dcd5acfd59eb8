package database

import "errors"

var (
	// ErrAliasExists is returned when an attempt is made to create or rename
	// a link with an alias that already exists.
	ErrAliasExists = errors.New("alias exists")
	// ErrLinkNotFound is returned when no link with the given alias exists,
	// or when it exists but isn't owned by the requesting user.
	ErrLinkNotFound = errors.New("link not found")
	// ErrLinkExpired is returned when a link exists but its expiration
	// timestamp has passed.
	ErrLinkExpired = errors.New("link expired")
	// ErrUserExists is returned when an attempt is made to register
	// a user with a username that is already taken.
	ErrUserExists = errors.New("user exists")
	// ErrUserNotFound is returned when no user with the given username exists.
	ErrUserNotFound = errors.New("user not found")
)
