package gormlogger_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	adapter "github.com/clubdesk/clubdesk/internal/logger/adapter/gormlogger"
)

func TestTrace(t *testing.T) {
	stmt := func() (string, int64) { return "SELECT * FROM roles", 3 }

	testCases := []struct {
		name     string
		level    gormlogger.LogLevel
		begin    time.Time
		err      error
		contains []string
		empty    bool
	}{
		{
			name:     "query error",
			level:    gormlogger.Warn,
			begin:    time.Now(),
			err:      errors.New("connection refused"), //nolint:goerr113
			contains: []string{`"level":"error"`, "connection refused", "SELECT * FROM roles"},
		},
		{
			name:  "record not found is silent",
			level: gormlogger.Warn,
			begin: time.Now(),
			err:   gorm.ErrRecordNotFound,
			empty: true,
		},
		{
			name:     "slow query",
			level:    gormlogger.Warn,
			begin:    time.Now().Add(-time.Second),
			contains: []string{`"level":"warn"`, "slow query"},
		},
		{
			name:  "fast query below info",
			level: gormlogger.Warn,
			begin: time.Now(),
			empty: true,
		},
		{
			name:     "info level logs every statement",
			level:    gormlogger.Info,
			begin:    time.Now(),
			contains: []string{`"level":"debug"`, `"rows":3`},
		},
		{
			name:  "silent",
			level: gormlogger.Silent,
			begin: time.Now(),
			err:   errors.New("ignored"), //nolint:goerr113
			empty: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer

			l := adapter.NewWithLogger(zerolog.New(&buf), 100*time.Millisecond).LogMode(tc.level)
			l.Trace(context.Background(), tc.begin, stmt, tc.err)

			if tc.empty {
				assert.Empty(t, buf.String())
				return
			}

			for _, want := range tc.contains {
				assert.Contains(t, buf.String(), want)
			}

			assert.Contains(t, buf.String(), `"component":"gorm"`)
		})
	}
}

func TestLogModeDoesNotMutateReceiver(t *testing.T) {
	var buf bytes.Buffer

	base := adapter.NewWithLogger(zerolog.New(&buf), 0)
	_ = base.LogMode(gormlogger.Info)

	base.Info(context.Background(), "hidden %d", 1)
	assert.Empty(t, buf.String())

	base.Warn(context.Background(), "shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}
