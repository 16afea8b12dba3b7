package repositories

import "errors"

// Sentinel errors returned by every repository implementation so services
// can branch with errors.Is regardless of the backing store.
var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrEmailTaken is returned by user creation when the email is already
	// registered.
	ErrEmailTaken = errors.New("email address is already in use")
)
