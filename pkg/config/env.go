package config

const (
	EnvPrefix = "CROPWATCH"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"

	EnvAppEnv   = "CROPWATCH_APP_ENV"
	EnvPort     = "CROPWATCH_APP_PORT"
	EnvLogLevel = "CROPWATCH_LOG_LEVEL"
	EnvDebug    = "CROPWATCH_DEBUG"

	EnvDBDSN        = "CROPWATCH_DB_DSN"
	EnvDBDriver     = "CROPWATCH_DB_DRIVER"
	EnvDBSQLitePath = "CROPWATCH_DB_SQLITE_PATH"
	EnvDBHost       = "CROPWATCH_DB_HOST"
	EnvDBPort       = "CROPWATCH_DB_PORT"
	EnvDBUser       = "CROPWATCH_DB_USER"
	EnvDBPassword   = "CROPWATCH_DB_PASSWORD"
	EnvDBName       = "CROPWATCH_DB_NAME"
	EnvDBSSLMode    = "CROPWATCH_DB_SSLMODE"

	EnvRedisURL  = "CROPWATCH_REDIS_URL"
	EnvRedisAddr = "CROPWATCH_REDIS_ADDR"

	EnvSessionSecret = "CROPWATCH_SESSION_SECRET"
	EnvSessionTTL    = "CROPWATCH_SESSION_TTL"

	EnvAutoMigrate  = "CROPWATCH_AUTO_MIGRATE"
	EnvResetDB      = "CROPWATCH_RESET_DB"
	EnvSeedDemoUser = "CROPWATCH_SEED_DEMO_USER"

	EnvSMTPHost     = "CROPWATCH_SMTP_HOST"
	EnvSMTPPort     = "CROPWATCH_SMTP_PORT"
	EnvSMTPUsername = "CROPWATCH_SMTP_USERNAME"
	EnvSMTPPassword = "CROPWATCH_SMTP_PASSWORD"

	EnvWeatherBaseURL = "CROPWATCH_WEATHER_BASE_URL"
	EnvWeatherTimeout = "CROPWATCH_WEATHER_TIMEOUT"

	EnvCORSAllowedOrigins = "CROPWATCH_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
