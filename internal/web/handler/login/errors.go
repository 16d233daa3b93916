// Package login provides the token issuing endpoint.
//
// This file defines exported error values used throughout the login flow.
package login

import "errors"

var (
	// ErrInvalidCredentials is returned when the provided email and/or password
	// are not valid.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountDisabled is returned when the account exists but may not log in.
	ErrAccountDisabled = errors.New("account is disabled")
)
