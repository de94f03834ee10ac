package config

const (
	// EnvPrefix namespaces every environment variable this service reads.
	EnvPrefix = "FRESHMART"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "FRESHMART_APP_ENV"
	EnvPort   = "FRESHMART_APP_PORT"

	EnvRedisURL = "FRESHMART_REDIS_URL"

	EnvDBDSN  = "FRESHMART_DB_DSN"
	EnvDBHost = "FRESHMART_DB_HOST"
	EnvDBUser = "FRESHMART_DB_USER"
	EnvDBName = "FRESHMART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
