package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix only matters for fields without tags.
const EnvPrefix = "ARTNEBULA"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "ARTNEBULA_APP_ENV"
	EnvPort       = "ARTNEBULA_APP_PORT"
	EnvDBDSN      = "ARTNEBULA_DB_DSN"
	EnvDBHost     = "ARTNEBULA_DB_HOST"
	EnvDBUser     = "ARTNEBULA_DB_USER"
	EnvDBName     = "ARTNEBULA_DB_NAME"
	EnvRedisURL   = "ARTNEBULA_REDIS_URL"
	EnvJWTSecret  = "ARTNEBULA_JWT_SECRET"
	EnvJWTIssuer  = "ARTNEBULA_JWT_ISSUER"
	EnvJWTExpMins = "ARTNEBULA_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
