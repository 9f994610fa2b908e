package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const devSecret = "dev-secret-change-me"

type JWT struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type Config struct {
	Port     string
	DBDriver string // sqlite | postgres
	DBDSN    string
	LogFile  string
	LogLevel string
	JWT      JWT

	PasswordHasher string // bcrypt | argon2id
	BcryptCost     int

	// AllowSignupRole lets a signup request pick a role other than Customer.
	AllowSignupRole bool

	// per client IP, for each of /auth/login and /auth/signup
	AuthRateMax    int
	AuthRateWindow time.Duration
}

// DevSecret reports whether the JWT secret is the built-in development value.
func (c Config) DevSecret() bool { return c.JWT.Secret == devSecret }

// Load reads defaults, then the optional YAML file at path, then environment
// variables (DB_DSN, JWT_TTL, ...), later sources winning.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "shopapi.db") // sqlite file in project root
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.secret", devSecret)
	v.SetDefault("jwt.issuer", "shopapi")
	v.SetDefault("jwt.ttl", time.Hour)
	v.SetDefault("password.hasher", "bcrypt")
	v.SetDefault("password.bcrypt_cost", 12)
	v.SetDefault("auth.allow_signup_role", false)
	v.SetDefault("auth.rate_max", 10)
	v.SetDefault("auth.rate_window", 10*time.Minute)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port:     v.GetString("port"),
		DBDriver: strings.ToLower(v.GetString("db.driver")),
		DBDSN:    v.GetString("db.dsn"),
		LogFile:  v.GetString("log.file"),
		LogLevel: v.GetString("log.level"),
		JWT: JWT{
			Secret: v.GetString("jwt.secret"),
			Issuer: v.GetString("jwt.issuer"),
			TTL:    v.GetDuration("jwt.ttl"),
		},
		PasswordHasher:  strings.ToLower(v.GetString("password.hasher")),
		BcryptCost:      v.GetInt("password.bcrypt_cost"),
		AllowSignupRole: v.GetBool("auth.allow_signup_role"),
		AuthRateMax:     v.GetInt("auth.rate_max"),
		AuthRateWindow:  v.GetDuration("auth.rate_window"),
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = devSecret
	}
	if cfg.JWT.TTL <= 0 {
		cfg.JWT.TTL = time.Hour
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	switch cfg.PasswordHasher {
	case "bcrypt", "argon2id":
	default:
		return Config{}, fmt.Errorf("unsupported PASSWORD_HASHER %q", cfg.PasswordHasher)
	}
	return cfg, nil
}
