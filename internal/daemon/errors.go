package daemon

import "errors"

var (
	// ErrNilConfig is returned when the daemon is created without configuration.
	ErrNilConfig = errors.New("config is nil")

	// ErrSeedAdminEmail is returned when a bootstrap password is set without an email.
	ErrSeedAdminEmail = errors.New("seed admin password is set but admin email is empty")
)
