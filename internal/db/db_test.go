package db_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubdesk/clubdesk/internal/config"
	"github.com/clubdesk/clubdesk/internal/db"
	"github.com/clubdesk/clubdesk/internal/db/models"
)

func TestOpenAndMigrateSQLite(t *testing.T) {
	cfg := &config.Config{DB: config.DB{
		GormEngine: config.EngineSQLite,
		Name:       filepath.Join(t.TempDir(), "clubdesk.db"),
	}}

	conn, err := db.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	for _, table := range []any{
		&models.Role{}, &models.User{}, &models.UserRole{},
		&models.Club{}, &models.Hall{}, &models.Seat{}, &models.Booking{},
	} {
		assert.True(t, conn.Migrator().HasTable(table))
	}

	// migrating twice is a no-op
	require.NoError(t, db.Migrate(conn))
}

func TestOpenRejectsUnknownEngine(t *testing.T) {
	_, err := db.Open(&config.Config{DB: config.DB{GormEngine: "oracle"}})
	require.ErrorIs(t, err, config.ErrUnsupportedGormEngine)
}
