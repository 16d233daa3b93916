// Package config handles input from etc/*.toml files and CLUBDESK_* environment overrides.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	envPrefix = "CLUBDESK"

	// JSONOverrideEnv holds a JSON document merged over the file configuration.
	JSONOverrideEnv = "CLUBDESK_CONFIG_JSON"

	mainConfigFile = "main.toml"

	redacted = "***"
)

// secrets are bound explicitly so they can live in the environment only.
var secretKeys = []string{ //nolint:gochecknoglobals
	"token.signingkey",
	"db.password",
	"seed.adminpassword",
}

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(path, mainConfigFile))
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	for _, key := range secretKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, errors.Wrapf(err, "failed to bind env for %s", key)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	if jsonConfigEnv := os.Getenv(JSONOverrideEnv); jsonConfigEnv != "" {
		var err error

		c, err = decodeAndMergeConfig(c, jsonConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "clubdesk")
	v.SetDefault("db.gormengine", EngineSQLite)
	v.SetDefault("db.name", "clubdesk.db")
	v.SetDefault("log.loglevel", "info")
	v.SetDefault("log.appname", "clubdesk")
	v.SetDefault("log.servicename", "clubdesk")
	v.SetDefault("webserver.port", 8080)
	v.SetDefault("webserver.shutdowntime", 5)
	v.SetDefault("webserver.loginratelimit", 1.0)
	v.SetDefault("webserver.loginburst", 5)
	v.SetDefault("token.issuer", "clubdesk")
	v.SetDefault("token.audience", "clubdesk-api")
	v.SetDefault("token.validitydays", 7)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config override")
	}

	return c, nil
}

// Redacted returns a copy of c with secrets masked.
func (c Config) Redacted() Config {
	if c.Token.SigningKey != "" {
		c.Token.SigningKey = redacted
	}

	if c.DB.Password != "" {
		c.DB.Password = redacted
	}

	if c.Seed.AdminPassword != "" {
		c.Seed.AdminPassword = redacted
	}

	return c
}

// DumpConfig config as TOML String with secrets masked.
func DumpConfig(c *Config) (string, error) {
	out, err := toml.Marshal(c.Redacted())
	if err != nil {
		return "", err //nolint: wrapcheck
	}

	return string(out), nil
}

// DumpConfigJSON config as JSON String with secrets masked.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c.Redacted()); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings.
// The signing key is checked where it is used, by the token issuer.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	switch c.DB.GormEngine {
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrapf(ErrUnsupportedGormEngine, "%s: %q", invalidErrMessage, c.DB.GormEngine)
	}

	if c.Token.ValidityDays <= 0 {
		return errors.Wrap(ErrTokenValidityDays, invalidErrMessage)
	}

	if c.Token.Issuer == "" || c.Token.Audience == "" {
		return errors.Wrap(ErrTokenIssuerAudience, invalidErrMessage)
	}

	return nil
}
