// Package me serves the caller's own identity and effective permissions.
package me

import (
	"github.com/gofiber/fiber/v3"

	"github.com/clubdesk/clubdesk/internal/permission"
	"github.com/clubdesk/clubdesk/internal/web/handler"
)

const (
	// Path is the root path of the caller routes.
	Path = handler.APIPath + "/me"
)

// Service is the me handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// PermissionsResponse is the body of GET /api/me/permissions.
type PermissionsResponse struct {
	UserID      uint64            `json:"user_id"`
	Roles       []string          `json:"roles"`
	ClubID      *uint64           `json:"club_id,omitempty"`
	Permissions permission.Matrix `json:"permissions"`
}

// Init initializes the me handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.deps = deps

	app.Get(Path+"/permissions", s.Permissions)

	return nil
}

// Permissions returns the union of the matrices of the caller's roles as
// stored now. Scope restrictions still apply per resource.
func (s *Service) Permissions(c fiber.Ctx) error {
	id, ok, err := handler.CurrentIdentity(c)
	if !ok {
		return err
	}

	matrix, err := s.deps.Authz.EffectiveMatrix(c.Context(), id)
	if err != nil {
		return handler.InternalError(c, err, "failed to load effective permissions")
	}

	roles := id.Roles
	if roles == nil {
		roles = []string{}
	}

	return c.JSON(PermissionsResponse{
		UserID:      id.CurrentUserID(),
		Roles:       roles,
		ClubID:      id.ClubID,
		Permissions: matrix,
	})
}
