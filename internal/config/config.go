// Package config loads the backend configuration.
//
// Values come from an optional config.yaml and can be overridden with
// environment variables prefixed with HEARTHLEDGER, e.g.
// HEARTHLEDGER_SERVER_PORT.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port             string `mapstructure:"port"`
	Mode             string `mapstructure:"mode"`               // gin mode: debug, release, test
	CORSAllowOrigins string `mapstructure:"cors_allow_origins"` // space separated list of origins
	EnablePprof      bool   `mapstructure:"enable_pprof"`
}

type DatabaseConfig struct {
	// File is the sqlite database file. It is ignored when the DB_HOST
	// environment variable is set, then a postgresql connection is
	// used instead.
	File string `mapstructure:"file"`
}

type LogConfig struct {
	Format string `mapstructure:"format"` // "human" or "json"
}

// Load reads the configuration from config.yaml (when present) and the
// environment.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_allow_origins", "")
	v.SetDefault("server.enable_pprof", false)
	v.SetDefault("database.file", "data/hearthledger.db")
	v.SetDefault("log.format", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/hearthledger")

	if err := v.ReadInConfig(); err != nil {
		// The configuration file is optional
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("HEARTHLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing configuration: %w", err)
	}

	return cfg, nil
}
