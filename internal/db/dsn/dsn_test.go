package dsn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clubdesk/clubdesk/internal/config"
	"github.com/clubdesk/clubdesk/internal/db/dsn"
)

func TestCreate(t *testing.T) {
	base := config.DB{
		Host:     "db.local",
		Port:     3306,
		User:     "clubdesk",
		Password: "secret",
		Name:     "clubdesk",
	}

	testCases := []struct {
		name   string
		engine string
		extras string
		want   string
	}{
		{
			name:   "mysql",
			engine: config.EngineMySQL,
			extras: "parseTime=true",
			want:   "clubdesk:secret@tcp(db.local:3306)/clubdesk?parseTime=true",
		},
		{
			name:   "postgres",
			engine: config.EnginePostgres,
			extras: "sslmode=disable",
			want:   "host=db.local port=3306 user=clubdesk password=secret dbname=clubdesk sslmode=disable",
		},
		{
			name:   "postgres without extras",
			engine: config.EnginePostgres,
			want:   "host=db.local port=3306 user=clubdesk password=secret dbname=clubdesk",
		},
		{
			name:   "sqlite",
			engine: config.EngineSQLite,
			want:   "clubdesk",
		},
		{
			name:   "sqlite with pragma",
			engine: config.EngineSQLite,
			extras: "_pragma=foreign_keys(1)",
			want:   "clubdesk?_pragma=foreign_keys(1)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := base
			db.GormEngine = tc.engine
			db.Extras = tc.extras

			assert.Equal(t, tc.want, dsn.Create(&config.Config{DB: db}))
		})
	}
}
