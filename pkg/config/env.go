package config

// EnvPrefix is handed to envconfig; every field carries its full variable name anyway.
const EnvPrefix = "PHONEDEX"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv         = "PHONEDEX_APP_ENV"
	EnvPort           = "PHONEDEX_APP_PORT"
	EnvLogLevel       = "PHONEDEX_LOG_LEVEL"
	EnvRequestTimeout = "PHONEDEX_APP_REQUEST_TIMEOUT"

	EnvDBDSN    = "PHONEDEX_DB_DSN"
	EnvDBDriver = "PHONEDEX_DB_DRIVER"
	EnvDBHost   = "PHONEDEX_DB_HOST"
	EnvDBPort   = "PHONEDEX_DB_PORT"
	EnvDBUser   = "PHONEDEX_DB_USER"
	EnvDBPass   = "PHONEDEX_DB_PASSWORD"
	EnvDBName   = "PHONEDEX_DB_NAME"

	EnvRedisURL = "PHONEDEX_REDIS_URL"

	EnvCORSOrigins    = "PHONEDEX_CORS_ALLOWED_ORIGINS"
	EnvGCPProjectID   = "PHONEDEX_GCP_PROJECT_ID"
	EnvAnalyticsTopic = "PHONEDEX_PUBSUB_ANALYTICS_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
