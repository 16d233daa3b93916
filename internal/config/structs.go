package config

import (
	"github.com/clubdesk/clubdesk/internal/logger"
)

// Supported gorm engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Token     Token
	Seed      Seed
}

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string // database name, or file path for sqlite
	GormEngine string // mysql, postgres or sqlite
	SlowQuery  int    // slow query threshold in milliseconds, 0 disables
}

// Webserver implement webserver settings.
type Webserver struct {
	CaseSensitive  bool    // route matching is case sensitive
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	LoginRateLimit float64 // login attempts per second and client ip
	LoginBurst     int     // login burst per client ip
}

// Token holds the identity token settings.
type Token struct {
	SigningKey   string // HS256 key, usually supplied via CLUBDESK_TOKEN_SIGNINGKEY
	Issuer       string
	Audience     string
	ValidityDays int
}

// Seed holds the optional bootstrap administrator.
type Seed struct {
	AdminEmail    string
	AdminPassword string
	AdminFullName string
}
