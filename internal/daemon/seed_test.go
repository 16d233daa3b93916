package daemon_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubdesk/clubdesk/internal/auth"
	"github.com/clubdesk/clubdesk/internal/config"
	"github.com/clubdesk/clubdesk/internal/daemon"
	"github.com/clubdesk/clubdesk/internal/db"
	"github.com/clubdesk/clubdesk/internal/db/models"
	"github.com/clubdesk/clubdesk/internal/permission"
)

func setup(t *testing.T, seed config.Seed) (*config.Config, *auth.RoleStore, *auth.LocalProvider) {
	t.Helper()

	cfg := &config.Config{
		DB: config.DB{
			GormEngine: config.EngineSQLite,
			Name:       filepath.Join(t.TempDir(), "seed.db"),
		},
		Seed: seed,
	}

	conn, err := db.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return cfg, auth.NewRoleStore(conn), auth.NewLocalProvider(conn)
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	cfg, roles, local := setup(t, config.Seed{
		AdminEmail:    "Admin@Example.com",
		AdminPassword: "bootstrap-secret",
		AdminFullName: "Bootstrap Admin",
	})

	require.NoError(t, daemon.Seed(ctx, cfg, roles, local))

	manager, err := roles.RolesByName(ctx, []string{daemon.RoleManager})
	require.NoError(t, err)
	require.Len(t, manager, 1)

	// runtime change must survive a second seed
	_, err = roles.UpdatePermissionMatrix(ctx, manager[0].ID, permission.Matrix{auth.SectionHalls: {permission.Read: true}})
	require.NoError(t, err)

	require.NoError(t, daemon.Seed(ctx, cfg, roles, local))

	all, err := roles.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(daemon.SystemRoles()))

	manager, err = roles.RolesByName(ctx, []string{daemon.RoleManager})
	require.NoError(t, err)
	assert.False(t, manager[0].Permissions.Allows(auth.SectionBookings, permission.Read))

	admin, err := local.Authenticate(ctx, "admin@example.com", "bootstrap-secret")
	require.NoError(t, err)

	held, err := roles.GetRolesForUser(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, held, 1)
	assert.Equal(t, daemon.RoleSuperAdmin, held[0].Name)
	assert.True(t, held[0].IsSystem)
	assert.Equal(t, models.ScopeGlobal, held[0].Scope)
}

func TestSeedWithoutAdminPassword(t *testing.T) {
	ctx := context.Background()
	cfg, roles, local := setup(t, config.Seed{AdminEmail: "admin@example.com"})

	require.NoError(t, daemon.Seed(ctx, cfg, roles, local))

	_, err := local.GetUserByEmail(ctx, "admin@example.com")
	require.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestSeedRequiresAdminEmail(t *testing.T) {
	cfg, roles, local := setup(t, config.Seed{AdminPassword: "bootstrap-secret"})

	require.ErrorIs(t, daemon.Seed(context.Background(), cfg, roles, local), daemon.ErrSeedAdminEmail)
}

func TestSystemRolesAreValid(t *testing.T) {
	for _, role := range daemon.SystemRoles() {
		assert.True(t, role.Scope.Recognized(), role.Name)
		require.NoError(t, role.Permissions.Validate(), role.Name)
	}
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := daemon.New(nil)
	require.ErrorIs(t, err, daemon.ErrNilConfig)
}
