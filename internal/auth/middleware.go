package auth

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/clubdesk/clubdesk/internal/permission"
)

const identityLocal = "auth_identity"

// SetIdentity stores the resolved identity on the request.
func SetIdentity(c fiber.Ctx, id Identity) {
	c.Locals(identityLocal, id)
}

// IdentityFrom returns the identity stored by SetIdentity.
func IdentityFrom(c fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(identityLocal).(Identity)

	return id, ok
}

// ErrorBody is the JSON body of authentication and authorization failures.
type ErrorBody struct {
	Error  string `json:"error"`
	Reason Reason `json:"reason,omitempty"`
}

// Unauthorized writes a 401 response.
func Unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorBody{Error: "unauthorized"})
}

// Forbidden writes a 403 response carrying the deny reason.
func Forbidden(c fiber.Ctx, d Decision) error {
	return c.Status(fiber.StatusForbidden).JSON(ErrorBody{Error: "forbidden", Reason: d.Reason})
}

// RespondDecision turns the outcome of Decide into a response. It returns
// handled=false only on a grant. Errors fail closed with 500.
func RespondDecision(c fiber.Ctx, d Decision, err error) (handled bool, respErr error) {
	if err != nil {
		log.Error().Err(err).Msg("authorization check failed")

		return true, c.Status(fiber.StatusInternalServerError).JSON(ErrorBody{Error: "internal server error"})
	}

	if !d.Granted {
		return true, Forbidden(c, d)
	}

	return false, nil
}

// RequirePermission creates fiber middleware that requires the base
// permission for (section, action). Scope checks stay with the handler.
func RequirePermission(authz *Authorizer, section string, action permission.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return Unauthorized(c)
		}

		allowed, err := authz.HasPermission(c.Context(), id, section, action)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", id.UserID).Str("section", section).
				Str("action", action.String()).Msg("failed to check permission")

			return c.Status(fiber.StatusInternalServerError).JSON(ErrorBody{Error: "internal server error"})
		}

		if !allowed {
			log.Warn().Uint64("user_id", id.UserID).Str("section", section).
				Str("action", action.String()).Msg("user lacks required permission")

			return Forbidden(c, Deny(ReasonNoBasePermission))
		}

		return c.Next()
	}
}

// IsInvalidToken reports whether err is an authentication failure.
func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}
