package config

// EnvPrefix is empty because every tag already carries the PROCUREMENT_ prefix.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "PROCUREMENT_APP_ENV"
	EnvPort     = "PROCUREMENT_APP_PORT"
	EnvLogLevel = "PROCUREMENT_LOG_LEVEL"

	EnvDBDSN    = "PROCUREMENT_DB_DSN"
	EnvDBDriver = "PROCUREMENT_DB_DRIVER"
	EnvDBHost   = "PROCUREMENT_DB_HOST"
	EnvDBPort   = "PROCUREMENT_DB_PORT"
	EnvDBUser   = "PROCUREMENT_DB_USER"
	EnvDBPass   = "PROCUREMENT_DB_PASSWORD"
	EnvDBName   = "PROCUREMENT_DB_NAME"

	EnvRedisURL = "PROCUREMENT_REDIS_URL"

	EnvOpenAIAPIKey  = "PROCUREMENT_OPENAI_API_KEY"
	EnvOpenAIBaseURL = "PROCUREMENT_OPENAI_BASE_URL"
	EnvOpenAIModel   = "PROCUREMENT_OPENAI_MODEL"
	EnvOpenAITimeout = "PROCUREMENT_OPENAI_TIMEOUT"

	EnvMaxUploadMB = "PROCUREMENT_MAX_UPLOAD_MB"
	EnvAutoMigrate = "PROCUREMENT_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
