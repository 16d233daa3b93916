package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/clubdesk/clubdesk/internal/auth"
	"github.com/clubdesk/clubdesk/internal/config"
	"github.com/clubdesk/clubdesk/internal/db/models"
	"github.com/clubdesk/clubdesk/internal/permission"
)

// Names of the roles created on first start.
const (
	RoleSuperAdmin = "SuperAdmin"
	RoleAdmin      = "Admin"
	RoleManager    = "Manager"
	RoleUser       = "User"
)

// SystemRoles returns the roles every installation starts with. Only
// SuperAdmin is a system role, the others can be tuned by an administrator.
func SystemRoles() []models.Role {
	return []models.Role{
		{
			Name:        RoleSuperAdmin,
			Description: "Unrestricted access to every section",
			Scope:       models.ScopeGlobal,
			IsSystem:    true,
			Permissions: permission.Full(auth.Sections()...),
		},
		{
			Name:        RoleAdmin,
			Description: "Platform administration without role management",
			Scope:       models.ScopeGlobal,
			Permissions: permission.Union(
				permission.Full(auth.SectionBookings, auth.SectionHalls, auth.SectionSeats, auth.SectionClubs, auth.SectionPayments),
				permission.Matrix{
					auth.SectionRoles: {permission.Read: true},
					auth.SectionUsers: {permission.Read: true, permission.Update: true},
				},
			),
		},
		{
			Name:        RoleManager,
			Description: "Runs the club the user manages",
			Scope:       models.ScopeClub,
			Permissions: permission.Matrix{
				auth.SectionBookings: {permission.Read: true, permission.Update: true, permission.Delete: true},
				auth.SectionHalls:    {permission.Create: true, permission.Read: true, permission.Update: true},
				auth.SectionSeats:    {permission.Create: true, permission.Read: true, permission.Update: true, permission.Delete: true},
				auth.SectionClubs:    {permission.Read: true, permission.Update: true},
				auth.SectionPayments: {permission.Read: true},
			},
		},
		{
			Name:        RoleUser,
			Description: "Books seats for themselves",
			Scope:       models.ScopeSelf,
			Permissions: permission.Matrix{
				auth.SectionBookings: {permission.Create: true, permission.Read: true, permission.Delete: true},
				auth.SectionPayments: {permission.Create: true, permission.Read: true},
			},
		},
	}
}

// Seed creates missing system roles and, when a bootstrap password is
// configured, the initial administrator. Existing rows are left alone, so
// matrices changed at runtime survive a restart.
func Seed(ctx context.Context, cfg *config.Config, roles *auth.RoleStore, local *auth.LocalProvider) error {
	for _, role := range SystemRoles() {
		err := roles.CreateRole(ctx, &role)

		switch {
		case errors.Is(err, auth.ErrRoleNameTaken):
			continue
		case err != nil:
			return fmt.Errorf("failed to seed role %s: %w", role.Name, err)
		}

		log.Info().Str("role", role.Name).Str("scope", string(role.Scope)).Msg("seeded role")
	}

	if cfg.Seed.AdminPassword == "" {
		return nil
	}

	if cfg.Seed.AdminEmail == "" {
		return ErrSeedAdminEmail
	}

	admin, err := local.GetUserByEmail(ctx, cfg.Seed.AdminEmail)
	if errors.Is(err, auth.ErrUserNotFound) {
		admin, err = local.CreateUser(ctx, auth.NewUser{
			Email:    cfg.Seed.AdminEmail,
			Password: cfg.Seed.AdminPassword,
			FullName: cfg.Seed.AdminFullName,
		})
		if err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}

		log.Info().Str("email", admin.Email).Msg("seeded admin user")
	}

	if err != nil {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	superAdmin, err := roles.RolesByName(ctx, []string{RoleSuperAdmin})
	if err != nil {
		return fmt.Errorf("failed to look up %s role: %w", RoleSuperAdmin, err)
	}

	if len(superAdmin) == 0 {
		return fmt.Errorf("%w: %s", auth.ErrRoleNotFound, RoleSuperAdmin)
	}

	return roles.AssignRole(ctx, admin.ID, superAdmin[0].ID) //nolint:wrapcheck
}
