package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	RateLimit    RateLimitConfig
	Discovery    DiscoveryConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MERCADOPERTO_APP_ENV" required:"true" validate:"oneof=dev staging production"`
	Port         string `envconfig:"MERCADOPERTO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MERCADOPERTO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MERCADOPERTO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MERCADOPERTO_DB_DSN" validate:"required"`
	Driver string `envconfig:"MERCADOPERTO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MERCADOPERTO_DB_HOST"`
	LegacyPort     int    `envconfig:"MERCADOPERTO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MERCADOPERTO_DB_USER"`
	LegacyPassword string `envconfig:"MERCADOPERTO_DB_PASSWORD"`
	LegacyName     string `envconfig:"MERCADOPERTO_DB_NAME"`
	LegacySSLMode  string `envconfig:"MERCADOPERTO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MERCADOPERTO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MERCADOPERTO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MERCADOPERTO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MERCADOPERTO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MERCADOPERTO_REDIS_URL"`
	Address      string        `envconfig:"MERCADOPERTO_REDIS_ADDR"`
	Password     string        `envconfig:"MERCADOPERTO_REDIS_PASSWORD"`
	DB           int           `envconfig:"MERCADOPERTO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MERCADOPERTO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MERCADOPERTO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MERCADOPERTO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MERCADOPERTO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MERCADOPERTO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type RateLimitConfig struct {
	Window  time.Duration `envconfig:"MERCADOPERTO_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit int           `envconfig:"MERCADOPERTO_RATE_LIMIT_IP_LIMIT" default:"120"`
}

// DiscoveryConfig carries the defaulting rules for the discovery surface.
type DiscoveryConfig struct {
	DefaultRadiusKm float64 `envconfig:"MERCADOPERTO_DISCOVERY_DEFAULT_RADIUS_KM" default:"50" validate:"gt=0"`
	FeedLimit       int     `envconfig:"MERCADOPERTO_DISCOVERY_FEED_LIMIT" default:"12" validate:"gt=0"`
	FeedPromoLimit  int     `envconfig:"MERCADOPERTO_DISCOVERY_FEED_PROMO_LIMIT" default:"12" validate:"gt=0"`
	PageLimit       int     `envconfig:"MERCADOPERTO_DISCOVERY_PAGE_LIMIT" default:"20" validate:"gt=0"`
	MaxPageLimit    int     `envconfig:"MERCADOPERTO_DISCOVERY_MAX_PAGE_LIMIT" default:"100" validate:"gt=0"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MERCADOPERTO_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
