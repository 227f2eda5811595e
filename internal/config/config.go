package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	NATS      NATSConfig
	RateLimit RateLimitConfig
	Swap      SwapConfig
	Admin     AdminConfig
}

type AppConfig struct {
	AppName       string
	Environment   string
	HTTPPort      string
	MigrationsDir string
	RunSeeders    bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// AuthConfig selects the identity provider. When OIDCIssuerURL is set tokens are
// verified against the issuer's JWKS, otherwise HMAC session tokens signed with
// TokenSecret are accepted.
type AuthConfig struct {
	OIDCIssuerURL string
	OIDCClientID  string

	TokenSecret    string
	TokenIssuer    string
	TokenExpiresIn time.Duration
}

type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

type RateLimitConfig struct {
	GeneralPerMinute    int
	SwapCreatePerMinute int
}

type SwapConfig struct {
	StrictRoles  bool
	CompletionXP int
}

type AdminConfig struct {
	SetupKeyHash string
}

func (c Config) IsDevelopment() bool {
	env := strings.ToLower(strings.TrimSpace(c.App.Environment))
	return env == "development" || env == "dev" || env == "local"
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads configuration from the process environment. A .env file in the
// working directory is loaded first when present; existing variables win.
func Load() (Config, error) {
	_ = godotenv.Load()
	return loadFromEnv()
}

func loadFromEnv() (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}
	optInt := func(key string, def int) int {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optBool := func(key string, def bool) bool {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return d
	}

	cfg.App = AppConfig{
		AppName:       req("APP_NAME"),
		Environment:   req("APP_ENV"),
		HTTPPort:      req("HTTP_PORT"),
		MigrationsDir: optDefault("MIGRATIONS_DIR", "migrations"),
		RunSeeders:    optBool("RUN_SEEDERS", false),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     req("DB_HOST"),
		DBPort:     optDefault("DB_PORT", "5432"),
		DBName:     req("DB_NAME"),
		DBUser:     req("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  optDefault("DB_SSL_MODE", "disable"),

		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     optDefault("REDIS_HOST", "localhost"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		DB:       optInt("REDIS_DB", 0),
		TTL:      time.Duration(optInt("REDIS_TTL", 600)) * time.Second,
	}

	cfg.Auth = AuthConfig{
		OIDCIssuerURL:  opt("OIDC_ISSUER_URL"),
		OIDCClientID:   opt("OIDC_CLIENT_ID"),
		TokenSecret:    opt("AUTH_TOKEN_SECRET"),
		TokenIssuer:    optDefault("AUTH_TOKEN_ISSUER", "skillsync"),
		TokenExpiresIn: optDuration("AUTH_TOKEN_EXPIRES_IN", time.Hour),
	}
	if cfg.Auth.OIDCIssuerURL == "" && cfg.Auth.TokenSecret == "" {
		missing = append(missing, "OIDC_ISSUER_URL or AUTH_TOKEN_SECRET")
	}
	if cfg.Auth.OIDCIssuerURL != "" && cfg.Auth.OIDCClientID == "" {
		missing = append(missing, "OIDC_CLIENT_ID")
	}

	cfg.NATS = NATSConfig{
		URL:           opt("NATS_URL"),
		SubjectPrefix: optDefault("NATS_SUBJECT_PREFIX", "skillsync.swaps"),
	}

	cfg.RateLimit = RateLimitConfig{
		GeneralPerMinute:    optInt("RATE_LIMIT_GENERAL_PER_MINUTE", 120),
		SwapCreatePerMinute: optInt("RATE_LIMIT_SWAP_CREATE_PER_MINUTE", 10),
	}

	cfg.Swap = SwapConfig{
		StrictRoles:  optBool("SWAP_STRICT_ROLES", true),
		CompletionXP: optInt("SWAP_COMPLETION_XP", 100),
	}
	if cfg.Swap.CompletionXP < 0 {
		invalid = append(invalid, "SWAP_COMPLETION_XP")
	}

	cfg.Admin = AdminConfig{
		SetupKeyHash: opt("ADMIN_SETUP_KEY_HASH"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}
