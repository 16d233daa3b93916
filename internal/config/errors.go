package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnsupportedGormEngine error if db.gormengine is not mysql, postgres or sqlite.
	ErrUnsupportedGormEngine = errors.New("toml config db.gormengine is not supported")

	// ErrTokenValidityDays error if token.validitydays is not positive.
	ErrTokenValidityDays = errors.New("toml config token.validitydays must be greater than 0")

	// ErrTokenIssuerAudience error if token.issuer or token.audience is empty.
	ErrTokenIssuerAudience = errors.New("toml config token.issuer and token.audience can not be empty")
)
