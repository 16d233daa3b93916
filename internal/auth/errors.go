package auth

import "errors"

var (
	// ErrInvalidToken is returned when a token fails signature, expiry or claim validation.
	// It is an authentication failure, not an authorization one.
	ErrInvalidToken = errors.New("invalid token")

	// ErrMissingSigningKey is returned when no token signing key is configured.
	ErrMissingSigningKey = errors.New("token signing key is not configured")

	// ErrRoleNotFound is returned when a role id or name does not exist.
	ErrRoleNotFound = errors.New("role not found")

	// ErrRoleNameEmpty is returned when creating a role without a name.
	ErrRoleNameEmpty = errors.New("role name can not be empty")

	// ErrRoleNameTaken is returned when a role name is already in use.
	ErrRoleNameTaken = errors.New("role name already exists")

	// ErrUnknownScope is returned when a role is created with an unknown scope tier.
	ErrUnknownScope = errors.New("unknown role scope")

	// ErrSystemRoleImmutable is returned on any attempt to change or delete a system role.
	ErrSystemRoleImmutable = errors.New("system role can not be modified")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserEmailExists is returned when creating a user with an email that is already registered.
	ErrUserEmailExists = errors.New("user with this email already exists")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidUser is returned when a token is requested for a user without an id.
	ErrInvalidUser = errors.New("user has no id")
)
