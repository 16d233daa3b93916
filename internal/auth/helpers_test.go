package auth_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/clubdesk/clubdesk/internal/auth"
	"github.com/clubdesk/clubdesk/internal/config"
	"github.com/clubdesk/clubdesk/internal/db"
	"github.com/clubdesk/clubdesk/internal/db/models"
	"github.com/clubdesk/clubdesk/internal/permission"
)

// setupTestDB creates a migrated sqlite database in a temp dir.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := db.Open(&config.Config{DB: config.DB{
		GormEngine: config.EngineSQLite,
		Name:       filepath.Join(t.TempDir(), "auth.db"),
	}})
	require.NoError(t, err, "failed to create test database")
	require.NoError(t, db.Migrate(conn), "failed to migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return conn
}

// seedRole stores role and fails the test on error.
func seedRole(t *testing.T, store *auth.RoleStore, role models.Role) *models.Role {
	t.Helper()

	require.NoError(t, store.CreateRole(context.Background(), &role))

	return &role
}

// stubRoles is an in-memory RoleLookup.
type stubRoles struct {
	roles []models.Role
	err   error
}

func (s stubRoles) RolesByName(_ context.Context, names []string) ([]models.Role, error) {
	if s.err != nil {
		return nil, s.err
	}

	var out []models.Role

	for _, r := range s.roles {
		for _, n := range names {
			if r.Name == n {
				out = append(out, r)
			}
		}
	}

	return out, nil
}

func bookingsMatrix(actions ...permission.Action) permission.Matrix {
	row := make(map[permission.Action]bool, len(actions))
	for _, a := range actions {
		row[a] = true
	}

	return permission.Matrix{auth.SectionBookings: row}
}
