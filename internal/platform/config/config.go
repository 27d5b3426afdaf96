package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ModeDev     = "dev"
	ModeRelease = "release"

	DefaultPath = "config/config.yaml"
)

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"user"`
	Password     string `yaml:"password"`
	DBName       string `yaml:"dbname"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
	TLS         Certs    `yaml:"tls"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	// AdminPassword, when set, seeds the "admin" account on startup if no
	// user with that name exists.
	AdminPassword string `yaml:"admin_password"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type Config struct {
	Version  string         `yaml:"version"`
	Mode     string         `yaml:"mode"`
	Timezone string         `yaml:"timezone"`
	Server   ServerConfig   `yaml:"server"`
	DB       DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

func defaults() Config {
	return Config{
		Mode:     ModeDev,
		Timezone: "Local",
		Server: ServerConfig{
			Addr:        ":3000",
			CORSOrigins: []string{"http://localhost:4200"},
		},
		DB: DatabaseConfig{
			Host:         "localhost",
			Port:         3306,
			DBName:       "gestion_activos",
			MaxOpenConns: 20,
			MaxIdleConns: 10,
		},
		Auth: AuthConfig{TokenTTL: 24 * time.Hour},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			Output:     "stdout",
			MaxSizeMB:  10,
			MaxBackups: 100,
		},
	}
}

// Load reads the YAML file at path (a missing file is not an error), then
// applies .env and process environment overrides.
func Load(path string) (*Config, error) {
	cfg := defaults()

	buf, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// .env is optional, values already in the environment win.
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setStr := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setStr("APP_MODE", &cfg.Mode)
	setStr("TZ_NAME", &cfg.Timezone)
	setStr("SERVER_ADDR", &cfg.Server.Addr)
	setStr("DB_HOST", &cfg.DB.Host)
	setStr("DB_USER", &cfg.DB.Username)
	setStr("DB_PASSWORD", &cfg.DB.Password)
	setStr("DB_NAME", &cfg.DB.DBName)
	setStr("JWT_SECRET", &cfg.Auth.JWTSecret)
	setStr("ADMIN_PASSWORD", &cfg.Auth.AdminPassword)
	setStr("LOG_LEVEL", &cfg.Log.Level)
	setStr("LOG_OUTPUT", &cfg.Log.Output)

	if v := os.Getenv("DB_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_PORT: %w", err)
		}
		cfg.DB.Port = n
	}
	if v := os.Getenv("JWT_EXPIRES_IN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JWT_EXPIRES_IN: %w", err)
		}
		cfg.Auth.TokenTTL = d
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Mode != ModeDev && c.Mode != ModeRelease {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeDev, ModeRelease, c.Mode)
	}
	if c.DB.DBName == "" {
		return errors.New("database.dbname is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if c.Auth.JWTSecret == "" {
		if c.Mode == ModeRelease {
			return errors.New("auth.jwt_secret is required in release mode")
		}
		c.Auth.JWTSecret = "dev-secret-change-me"
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured time zone used for calendar dates.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
