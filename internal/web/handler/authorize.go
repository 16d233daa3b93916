package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/clubdesk/clubdesk/internal/auth"
	"github.com/clubdesk/clubdesk/internal/auth/guard"
	"github.com/clubdesk/clubdesk/internal/db/models"
	"github.com/clubdesk/clubdesk/internal/permission"
)

// Authorize decides (section, action) for the caller against facts. When the
// decision does not grant, the 401, 403 or 500 response is already written
// and ok is false.
func Authorize(
	c fiber.Ctx,
	authz *auth.Authorizer,
	section string,
	action permission.Action,
	facts *auth.OwnerFacts,
) (id auth.Identity, ok bool, err error) {
	id, ok, err = CurrentIdentity(c)
	if !ok {
		return id, false, err
	}

	d, decideErr := authz.Decide(c.Context(), id, section, action, facts)
	if handled, respErr := auth.RespondDecision(c, d, decideErr); handled {
		return id, false, respErr
	}

	return id, true, nil
}

// CheckFacts inspects a guard error, writing 404 for a missing target and
// 500 for lookup failures.
func CheckFacts(c fiber.Ctx, err error) (ok bool, respErr error) {
	if errors.Is(err, guard.ErrNotFound) {
		return false, NotFound(c)
	}

	if err != nil {
		return false, InternalError(c, err, "failed to resolve resource owner")
	}

	return true, nil
}

// ListScope returns the widest scope the caller may list section under. When
// the caller may not list at all the 403 is already written and ok is false.
func ListScope(
	c fiber.Ctx,
	authz *auth.Authorizer,
	section string,
) (id auth.Identity, scope models.Scope, ok bool, err error) {
	id, ok, err = CurrentIdentity(c)
	if !ok {
		return id, "", false, err
	}

	scope, ok, err = authz.ListScope(c.Context(), id, section, permission.Read)
	if err != nil {
		_, respErr := auth.RespondDecision(c, auth.Deny(""), err)

		return id, "", false, respErr
	}

	if ok {
		return id, scope, true, nil
	}

	allowed, err := authz.HasPermission(c.Context(), id, section, permission.Read)
	if err != nil {
		_, respErr := auth.RespondDecision(c, auth.Deny(""), err)

		return id, "", false, respErr
	}

	reason := auth.ReasonNoBasePermission
	if allowed {
		reason = auth.ReasonNoApplicableScopeRule
	}

	return id, "", false, auth.Forbidden(c, auth.Deny(reason))
}
