package config

// EnvPrefix is applied by envconfig to every variable lookup.
const EnvPrefix = "GEARGHAR"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Canonical environment variable names, kept in one place so tests and
// deployment manifests never drift from the struct tags.
const (
	EnvAppEnv    = "GEARGHAR_APP_ENV"
	EnvPort      = "GEARGHAR_APP_PORT"
	EnvLogLevel  = "GEARGHAR_LOG_LEVEL"
	EnvDBDSN     = "GEARGHAR_DB_DSN"
	EnvDBHost    = "GEARGHAR_DB_HOST"
	EnvDBUser    = "GEARGHAR_DB_USER"
	EnvDBName    = "GEARGHAR_DB_NAME"
	EnvRedisURL  = "GEARGHAR_REDIS_URL"
	EnvJWTSecret = "GEARGHAR_JWT_SECRET"
	EnvJWTIssuer = "GEARGHAR_JWT_ISSUER"
	EnvJWTExpiry = "GEARGHAR_JWT_EXPIRATION_HOURS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

// DefaultJWTSecret is the non-production fallback signing key. cmd/api refuses
// to start in production while this value is in effect.
const DefaultJWTSecret = "gearghar-secret-key-change-in-production"
