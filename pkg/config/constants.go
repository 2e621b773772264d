package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "MERCADOPERTO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names shared between Load and tests.
const (
	EnvAppEnv   = "MERCADOPERTO_APP_ENV"
	EnvPort     = "MERCADOPERTO_APP_PORT"
	EnvDBDSN    = "MERCADOPERTO_DB_DSN"
	EnvDBHost   = "MERCADOPERTO_DB_HOST"
	EnvDBUser   = "MERCADOPERTO_DB_USER"
	EnvDBName   = "MERCADOPERTO_DB_NAME"
	EnvRedisURL = "MERCADOPERTO_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
