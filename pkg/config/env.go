package config

// EnvPrefix is passed to envconfig; every field carries its full variable
// name in the envconfig tag so the prefix only shapes the primary lookup key.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

const (
	MediaDriverLocal = "local"
	MediaDriverS3    = "s3"
)

const (
	EnvAppEnv        = "STORYBOARD_APP_ENV"
	EnvPort          = "STORYBOARD_APP_PORT"
	EnvLogLevel      = "STORYBOARD_LOG_LEVEL"
	EnvLogFormat     = "STORYBOARD_LOG_FORMAT"
	EnvStoreDriver   = "STORYBOARD_STORE_DRIVER"
	EnvAutoMigrate   = "STORYBOARD_STORE_AUTO_MIGRATE"
	EnvDBDSN         = "STORYBOARD_DB_DSN"
	EnvSQLitePath    = "STORYBOARD_SQLITE_PATH"
	EnvMongoURI      = "DATABASE_URL"
	EnvMongoDatabase = "DATABASE_NAME"
	EnvRedisURL      = "STORYBOARD_REDIS_URL"
	EnvJWTSecret     = "STORYBOARD_JWT_SECRET"
	EnvJWTIssuer     = "STORYBOARD_JWT_ISSUER"
	EnvJWTExpMins    = "STORYBOARD_JWT_EXPIRATION_MINUTES"
	EnvCORSOrigins   = "STORYBOARD_CORS_ALLOWED_ORIGINS"
	EnvShareTTL      = "STORYBOARD_SHARE_TTL"
	EnvShareEnforce  = "STORYBOARD_SHARE_ENFORCE_EXPIRY"
	EnvMaxUploadMB   = "STORYBOARD_MAX_UPLOAD_MB"
	EnvMediaDriver   = "STORYBOARD_MEDIA_DRIVER"
	EnvMediaLocalDir = "STORYBOARD_MEDIA_LOCAL_DIR"
	EnvS3Endpoint    = "STORYBOARD_S3_ENDPOINT"
	EnvS3Bucket      = "STORYBOARD_S3_BUCKET"
)
