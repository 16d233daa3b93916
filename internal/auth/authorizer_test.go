package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clubdesk/clubdesk/internal/auth"
	"github.com/clubdesk/clubdesk/internal/db/models"
	"github.com/clubdesk/clubdesk/internal/permission"
)

// setupMockDB opens gorm on a postgres dialector backed by sqlmock.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = sqlDB.Close() })

	conn, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return conn, mock
}

func TestAuthorizerMatrixChangeTakesEffectImmediately(t *testing.T) {
	ctx := context.Background()
	store := auth.NewRoleStore(setupTestDB(t))
	authz := auth.NewAuthorizer(store)

	manager := seedRole(t, store, models.Role{
		Name:        "Manager",
		Scope:       models.ScopeClub,
		Permissions: bookingsMatrix(permission.Read, permission.Update),
	})

	id := auth.Identity{UserID: 5, Roles: []string{"Manager"}, ClubID: ptr(7)}

	d, err := authz.Decide(ctx, id, auth.SectionBookings, permission.Update, auth.ClubFacts(7))
	require.NoError(t, err)
	assert.True(t, d.Granted)

	_, err = store.UpdatePermissionMatrix(ctx, manager.ID, bookingsMatrix(permission.Read))
	require.NoError(t, err)

	// the same identity, rebuilt from an unchanged token, sees the new matrix
	d, err = authz.Decide(ctx, id, auth.SectionBookings, permission.Update, auth.ClubFacts(7))
	require.NoError(t, err)
	assert.Equal(t, auth.Deny(auth.ReasonNoBasePermission), d)

	d, err = authz.Decide(ctx, id, auth.SectionBookings, permission.Read, auth.ClubFacts(7))
	require.NoError(t, err)
	assert.True(t, d.Granted)
}

func TestAuthorizerUnknownRoleNamesGrantNothing(t *testing.T) {
	authz := auth.NewAuthorizer(stubRoles{roles: []models.Role{superAdminRole()}})

	d, err := authz.Decide(context.Background(),
		auth.Identity{UserID: 3, Roles: []string{"superadmin", "Ghost"}},
		auth.SectionBookings, permission.Read, auth.ClubFacts(1))
	require.NoError(t, err)
	assert.Equal(t, auth.Deny(auth.ReasonNoBasePermission), d)
}

func TestAuthorizerFailsClosed(t *testing.T) {
	ctx := context.Background()
	authz := auth.NewAuthorizer(stubRoles{err: errors.New("connection refused")})
	id := auth.Identity{UserID: 1, Roles: []string{"SuperAdmin"}}

	d, err := authz.Decide(ctx, id, auth.SectionBookings, permission.Read, auth.ClubFacts(1))
	require.Error(t, err)
	assert.False(t, d.Granted)

	allowed, err := authz.HasPermission(ctx, id, auth.SectionBookings, permission.Read)
	require.Error(t, err)
	assert.False(t, allowed)

	_, ok, err := authz.ListScope(ctx, id, auth.SectionBookings, permission.Read)
	require.Error(t, err)
	assert.False(t, ok)

	_, err = authz.EffectiveMatrix(ctx, id)
	require.Error(t, err)
}

func TestAuthorizerFailsClosedOnDatabaseError(t *testing.T) {
	conn, mock := setupMockDB(t)
	authz := auth.NewAuthorizer(auth.NewRoleStore(conn))

	mock.ExpectQuery(`SELECT \* FROM "roles" WHERE name IN`).
		WillReturnError(errors.New("server closed the connection unexpectedly"))

	d, err := authz.Decide(context.Background(),
		auth.Identity{UserID: 1, Roles: []string{"SuperAdmin"}},
		auth.SectionBookings, permission.Delete, auth.ClubFacts(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authorization store unavailable")
	assert.False(t, d.Granted)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleStoreMapsPostgresUniqueViolation(t *testing.T) {
	conn, mock := setupMockDB(t)
	store := auth.NewRoleStore(conn)

	mock.ExpectQuery(`SELECT \* FROM "roles" WHERE name = `).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "roles"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := store.CreateRole(context.Background(), &models.Role{Name: "Manager", Scope: models.ScopeClub})
	require.ErrorIs(t, err, auth.ErrRoleNameTaken)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePermissionMatrixLocksRowAndRollsBack(t *testing.T) {
	conn, mock := setupMockDB(t)
	store := auth.NewRoleStore(conn)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "roles" WHERE "roles"."id" = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "scope", "is_system", "permissions"}).
			AddRow(3, "Manager", "club", false, `{"Bookings":{"read":true}}`))
	mock.ExpectExec(`UPDATE "roles" SET`).
		WillReturnError(errors.New("could not serialize access"))
	mock.ExpectRollback()

	_, err := store.UpdatePermissionMatrix(context.Background(), 3, bookingsMatrix(permission.Update))
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrSystemRoleImmutable)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListScopeAndEffectiveMatrix(t *testing.T) {
	ctx := context.Background()
	authz := auth.NewAuthorizer(stubRoles{roles: []models.Role{managerRole(), userRole()}})

	both := auth.Identity{UserID: 5, Roles: []string{"Manager", "User"}, ClubID: ptr(7)}

	scope, ok, err := authz.ListScope(ctx, both, auth.SectionBookings, permission.Read)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.ScopeClub, scope)

	scope, ok, err = authz.ListScope(ctx, both, auth.SectionBookings, permission.Create)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.ScopeSelf, scope)

	_, ok, err = authz.ListScope(ctx, both, auth.SectionHalls, permission.Read)
	require.NoError(t, err)
	assert.False(t, ok)

	m, err := authz.EffectiveMatrix(ctx, both)
	require.NoError(t, err)
	assert.True(t, m.Allows(auth.SectionBookings, permission.Create))
	assert.True(t, m.Allows(auth.SectionBookings, permission.Update))
	assert.False(t, m.Allows(auth.SectionBookings, permission.Delete))

	m, err = authz.EffectiveMatrix(ctx, auth.Identity{UserID: 9})
	require.NoError(t, err)
	assert.Empty(t, m)
}
