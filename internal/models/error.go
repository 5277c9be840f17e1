package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidSector      = errors.New("sector does not exist")
	ErrEmptyHoldSequence  = errors.New("hold sequence cannot be empty")
	ErrInternalServer     = errors.New("internal server error")
)

// InvalidCredentialsError is returned on a failed login. Seconds carries the
// throttle's backoff hint for the next attempt from the same address. The
// message is identical whether the username or the password was wrong, so
// usernames cannot be enumerated.
type InvalidCredentialsError struct {
	Seconds int64
}

func (e *InvalidCredentialsError) Error() string { return ErrInvalidCredentials.Error() }

// Is makes errors.Is(err, ErrInvalidCredentials) hold for this type.
func (e *InvalidCredentialsError) Is(target error) bool { return target == ErrInvalidCredentials }

// RateLimitError is returned by the login throttle when an address must wait
// before its next attempt. Seconds carries the remaining wait so clients can
// schedule a retry.
type RateLimitError struct {
	Banned  bool
	Seconds int64
}

func (e *RateLimitError) Error() string {
	if e.Banned {
		return fmt.Sprintf("address banned for %d more seconds", e.Seconds)
	}
	return fmt.Sprintf("too many attempts, retry in %d seconds", e.Seconds)
}

// Code returns the machine-readable error code used in API responses.
func (e *RateLimitError) Code() string {
	if e.Banned {
		return "BANNED"
	}
	return "RATE_LIMIT"
}
