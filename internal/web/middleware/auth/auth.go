package auth

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/clubdesk/clubdesk/internal/auth"
	fiberlog "github.com/clubdesk/clubdesk/internal/logger/adapter/fiber"
)

const bearerPrefix = "bearer "

// Resolver turns a raw token into an identity.
type Resolver interface {
	ResolveIdentity(raw string) (auth.Identity, error)
}

// New creates the bearer token middleware. Requests for which public returns
// true pass without a token.
func New(resolver Resolver, public func(c fiber.Ctx) bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		if public != nil && public(c) {
			return c.Next()
		}

		raw, ok := BearerToken(c)
		if !ok {
			return auth.Unauthorized(c)
		}

		id, err := resolver.ResolveIdentity(raw)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("rejected token")

			return auth.Unauthorized(c)
		}

		auth.SetIdentity(c, id)
		c.Locals(fiberlog.UserIDLocal, id.CurrentUserID())

		return c.Next()
	}
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(c fiber.Ctx) (string, bool) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])

	return token, token != ""
}

// PublicPaths returns a matcher for request paths that skip authentication.
// Paths are compared the way the router matches them: without case and
// without a trailing slash.
func PublicPaths(paths ...string) func(c fiber.Ctx) bool {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[normalizePath(p)] = struct{}{}
	}

	return func(c fiber.Ctx) bool {
		_, ok := set[normalizePath(c.Path())]

		return ok
	}
}

func normalizePath(p string) string {
	p = strings.ToLower(p)
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}

	if p == "" {
		return "/"
	}

	return p
}
