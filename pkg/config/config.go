package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config is the process-wide configuration, assembled exactly once at
// startup and passed down explicitly. Business logic never reads the
// environment directly.
type Config struct {
	Server   ServerConfig   `koanf:"server"   validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Redis    RedisConfig    `koanf:"redis"`
	OAuth    OAuthConfig    `koanf:"oauth"`
	Session  SessionConfig  `koanf:"session"  validate:"required"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port" validate:"required,min=1,max=65535"`
}

type DatabaseConfig struct {
	ConnString  string `koanf:"conn_string"`
	Host        string `koanf:"host"`
	Port        string `koanf:"port"`
	User        string `koanf:"user"`
	Password    string `koanf:"password"`
	Name        string `koanf:"name"`
	SSLMode     string `koanf:"ssl_mode"`
	AutoMigrate bool   `koanf:"auto_migrate"`
}

// RedisConfig enables the session lookup cache when Addr is set.
type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

// Enabled reports whether the session cache should be wired.
func (r *RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type OAuthConfig struct {
	Google GoogleOAuthConfig `koanf:"google"`
}

type GoogleOAuthConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RedirectURL  string `koanf:"redirect_url"`
}

type SessionConfig struct {
	CookieName string        `koanf:"cookie_name" validate:"required"`
	MaxAge     time.Duration `koanf:"max_age"     validate:"required"`
	Secure     bool          `koanf:"secure"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host:        "localhost",
			Port:        "5432",
			User:        "postgres",
			Name:        "meetly",
			SSLMode:     "disable",
			AutoMigrate: true,
		},
		Redis: RedisConfig{
			TTL: 30 * time.Second,
		},
		Session: SessionConfig{
			CookieName: "meetly_session",
			MaxAge:     30 * 24 * time.Hour,
			Secure:     true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load assembles the configuration from defaults overridden by MEETLY_*
// environment variables and validates the result. A double underscore
// separates nesting levels so field names may keep single underscores:
// MEETLY_SERVER__PORT -> server.port,
// MEETLY_DATABASE__CONN_STRING -> database.conn_string.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: "MEETLY_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, "MEETLY_")
			return strings.ReplaceAll(strings.ToLower(key), "__", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}
