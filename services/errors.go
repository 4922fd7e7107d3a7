package services

import "errors"

// Closed set of error kinds controllers branch on. Remote errors that do not
// map to one of these pass through unmodified.
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("already exists")
	ErrValidation      = errors.New("invalid input")
	ErrInviteInvalid   = errors.New("invalid or expired invite link")
)
