package services

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so a caller cannot tell which one occurred.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidOrder is returned for order requests that fail validation
	// before anything is persisted.
	ErrInvalidOrder = errors.New("invalid order request")

	// ErrInvalidToken is returned for tokens that fail any validation check.
	ErrInvalidToken = errors.New("invalid token")
)
