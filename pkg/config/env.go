package config

const EnvPrefix = "EQUILOG"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv         = "EQUILOG_APP_ENV"
	EnvPort           = "EQUILOG_APP_PORT"
	EnvDBDSN          = "EQUILOG_DB_DSN"
	EnvDBHost         = "EQUILOG_DB_HOST"
	EnvDBUser         = "EQUILOG_DB_USER"
	EnvDBName         = "EQUILOG_DB_NAME"
	EnvDBPassword     = "EQUILOG_DB_PASSWORD"
	EnvRedisURL       = "EQUILOG_REDIS_URL"
	EnvJWTSecret      = "EQUILOG_JWT_SECRET"
	EnvJWTIssuer      = "EQUILOG_JWT_ISSUER"
	EnvJWTExpMins     = "EQUILOG_JWT_EXPIRATION_MINUTES"
	EnvBlobBucket     = "EQUILOG_BLOB_BUCKET"
	EnvBlobUpload     = "EQUILOG_BLOB_UPLOAD_URL_EXPIRY"
	EnvResetTTL       = "EQUILOG_PASSWORD_RESET_TTL"
	EnvStableLocks    = "EQUILOG_STABLE_LOCKS"
	EnvAllowedOrigins = "EQUILOG_CORS_ALLOWED_ORIGINS"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
