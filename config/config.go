// Package config loads application settings from the environment and an optional dotenv file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Auth strategies.
const (
	StrategySession = "session"
	StrategyJWT     = "jwt"
)

// Config holds the application configuration.
type Config struct {
	Environment        string        `validate:"required"`
	HTTPAddr           string        `validate:"required"`
	DBPath             string        `validate:"required"`
	CORSAllowedOrigins string        `validate:"required"`
	ShutdownTimeout    time.Duration `validate:"gt=0"`
	Redis              Redis
	Auth               Auth
	Catalog            Catalog
	LoginLimit         LoginLimit
}

// Redis configures the shared cache. An empty Addr disables Redis.
type Redis struct {
	Addr   string
	Prefix string        `validate:"required"`
	TTL    time.Duration `validate:"gt=0"`
}

// Enabled reports whether a Redis address was configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// Auth configures token issuing and the seeded accounts.
type Auth struct {
	Strategy   string        `validate:"oneof=session jwt"`
	SessionTTL time.Duration `validate:"gte=0"`
	JWTSecret  string        `validate:"required_if=Strategy jwt"`
	JWTIssuer  string        `validate:"required"`
	JWTTTL     time.Duration `validate:"gt=0"`
	BcryptCost int           `validate:"gte=4,lte=31"`
	SeedUsers  []SeedUser    `validate:"dive"`
}

// SeedUser is an account created at startup when missing.
type SeedUser struct {
	Username string `validate:"required"`
	Password string `validate:"required,max=72"`
}

// Catalog configures the PokeAPI client.
type Catalog struct {
	BaseURL  string        `validate:"required,url"`
	Timeout  time.Duration `validate:"gt=0"`
	MaxLimit int           `validate:"gte=1"`
}

// LoginLimit throttles login attempts per client IP. A zero Max disables it.
type LoginLimit struct {
	Max    int           `validate:"gte=0"`
	Window time.Duration `validate:"gt=0"`
}

var validate = validator.New()

// Load reads configuration from CONFIG_FILE (default ".env", skipped when absent)
// and the process environment. Environment variables win over the file.
func Load() (*Config, error) {
	file := os.Getenv("CONFIG_FILE")
	explicit := file != ""
	if !explicit {
		file = ".env"
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	// APP_ENV wins when both are set.
	if err := v.BindEnv("APP_ENV", "APP_ENV", "NODE_ENV"); err != nil {
		return nil, fmt.Errorf("failed to bind APP_ENV: %w", err)
	}

	if _, err := os.Stat(file); err == nil || explicit {
		v.SetConfigFile(file)
		if ext := filepath.Ext(file); ext == "" || ext == ".env" {
			v.SetConfigType("env")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDR", ":3000")
	v.SetDefault("DB_PATH", "./pokedex.db")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SHUTDOWN_TIMEOUT", "30s")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("CACHE_PREFIX", "pokedex:")
	v.SetDefault("CACHE_TTL", "10m")

	v.SetDefault("AUTH_STRATEGY", StrategySession)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("JWT_SECRET_KEY", "change-me-in-production")
	v.SetDefault("JWT_ISSUER", "pokedex")
	v.SetDefault("JWT_TTL", "1h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("SEED_USERS", "ash:pikachu,misty:starmie")

	v.SetDefault("POKEAPI_BASE_URL", "https://pokeapi.co/api/v2")
	v.SetDefault("POKEAPI_TIMEOUT", "10s")
	v.SetDefault("CATALOG_MAX_LIMIT", 100)

	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("LOGIN_RATE_WINDOW", "1m")
}

func fromViper(v *viper.Viper) (*Config, error) {
	seeds, err := parseSeedUsers(v.GetString("SEED_USERS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment:        v.GetString("APP_ENV"),
		HTTPAddr:           v.GetString("HTTP_ADDR"),
		DBPath:             v.GetString("DB_PATH"),
		CORSAllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		ShutdownTimeout:    v.GetDuration("SHUTDOWN_TIMEOUT"),
		Redis: Redis{
			Addr:   v.GetString("REDIS_ADDR"),
			Prefix: v.GetString("CACHE_PREFIX"),
			TTL:    v.GetDuration("CACHE_TTL"),
		},
		Auth: Auth{
			Strategy:   strings.ToLower(v.GetString("AUTH_STRATEGY")),
			SessionTTL: v.GetDuration("SESSION_TTL"),
			JWTSecret:  v.GetString("JWT_SECRET_KEY"),
			JWTIssuer:  v.GetString("JWT_ISSUER"),
			JWTTTL:     v.GetDuration("JWT_TTL"),
			BcryptCost: v.GetInt("BCRYPT_COST"),
			SeedUsers:  seeds,
		},
		Catalog: Catalog{
			BaseURL:  strings.TrimRight(v.GetString("POKEAPI_BASE_URL"), "/"),
			Timeout:  v.GetDuration("POKEAPI_TIMEOUT"),
			MaxLimit: v.GetInt("CATALOG_MAX_LIMIT"),
		},
		LoginLimit: LoginLimit{
			Max:    v.GetInt("LOGIN_RATE_LIMIT"),
			Window: v.GetDuration("LOGIN_RATE_WINDOW"),
		},
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// parseSeedUsers parses "user:password,user2:password2".
func parseSeedUsers(raw string) ([]SeedUser, error) {
	var users []SeedUser
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		username, password, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid SEED_USERS entry %q: expected user:password", pair)
		}
		users = append(users, SeedUser{
			Username: strings.TrimSpace(username),
			Password: password,
		})
	}
	return users, nil
}
