// Package role serves roles and their permission matrices.
package role

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/clubdesk/clubdesk/internal/auth"
	"github.com/clubdesk/clubdesk/internal/permission"
	"github.com/clubdesk/clubdesk/internal/web/handler"
)

const (
	// Path is the root path of the role routes.
	Path = handler.APIPath + "/roles"
)

// Service is the role handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Init initializes the role handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.deps = deps

	router := app.Group(Path)
	router.Get(handler.RouterRootPath, s.List)
	router.Get("/:"+handler.IDParam, s.Get)
	router.Put("/:"+handler.IDParam+"/permissions", s.PutPermissions)

	return nil
}

// List returns all roles. Roles are not club bound, so only globally
// scoped grants apply.
func (s *Service) List(c fiber.Ctx) error {
	if _, ok, err := handler.Authorize(c, s.deps.Authz, auth.SectionRoles, permission.Read, nil); !ok {
		return err
	}

	roles, err := s.deps.Roles.ListRoles(c.Context())
	if err != nil {
		return handler.InternalError(c, err, "failed to list roles")
	}

	return c.JSON(roles)
}

// Get returns one role.
func (s *Service) Get(c fiber.Ctx) error {
	if _, ok, err := handler.Authorize(c, s.deps.Authz, auth.SectionRoles, permission.Read, nil); !ok {
		return err
	}

	id, ok, err := handler.ParseUintID(c)
	if !ok {
		return err
	}

	role, err := s.deps.Roles.GetRole(c.Context(), id)
	if errors.Is(err, auth.ErrRoleNotFound) {
		return handler.NotFound(c)
	}

	if err != nil {
		return handler.InternalError(c, err, "failed to load role")
	}

	return c.JSON(role)
}

// PutPermissions replaces the permission matrix of a role with the body.
func (s *Service) PutPermissions(c fiber.Ctx) error {
	caller, ok, err := handler.Authorize(c, s.deps.Authz, auth.SectionRoles, permission.Update, nil)
	if !ok {
		return err
	}

	id, ok, err := handler.ParseUintID(c)
	if !ok {
		return err
	}

	matrix, err := permission.ParseMatrix(c.Body())
	if err != nil {
		return handler.BadRequest(c, err.Error())
	}

	role, err := s.deps.Roles.UpdatePermissionMatrix(c.Context(), id, matrix)

	switch {
	case errors.Is(err, auth.ErrRoleNotFound):
		return handler.NotFound(c)
	case errors.Is(err, auth.ErrSystemRoleImmutable):
		return handler.Conflict(c, err.Error())
	case errors.Is(err, permission.ErrInvalidMatrix):
		return handler.BadRequest(c, err.Error())
	case err != nil:
		return handler.InternalError(c, err, "failed to update permission matrix")
	}

	log.Info().
		Uint64("user_id", caller.CurrentUserID()).
		Uint("role_id", role.ID).
		Str("role", role.Name).
		Msg("permission matrix replaced")

	return c.JSON(role)
}
