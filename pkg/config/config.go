package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Store         StoreConfig
	DB            DBConfig
	Mongo         MongoConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	Share         ShareConfig
	Media         MediaConfig
	S3            S3Config
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	if cfg.Store.Driver == StoreDriverPostgres && cfg.DB.DSN == "" {
		return nil, fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvStoreDriver, StoreDriverPostgres)
	}
	if err := cfg.Media.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STORYBOARD_APP_ENV" default:"dev"`
	Port         string `envconfig:"STORYBOARD_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"STORYBOARD_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STORYBOARD_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STORYBOARD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Driver      string `envconfig:"STORYBOARD_STORE_DRIVER" default:"mongo"`
	AutoMigrate bool   `envconfig:"STORYBOARD_STORE_AUTO_MIGRATE" default:"false"`
}

func (s *StoreConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	switch s.Driver {
	case StoreDriverMongo, StoreDriverPostgres, StoreDriverSQLite:
		return nil
	}
	return fmt.Errorf("unsupported %s %q", EnvStoreDriver, s.Driver)
}

type DBConfig struct {
	DSN        string `envconfig:"STORYBOARD_DB_DSN"`
	SQLitePath string `envconfig:"STORYBOARD_SQLITE_PATH" default:"storyboard.db"`

	MaxOpenConns    int           `envconfig:"STORYBOARD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STORYBOARD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STORYBOARD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STORYBOARD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// MongoConfig keeps the DATABASE_URL / DATABASE_NAME names the storyboard
// deployments already export.
type MongoConfig struct {
	URI            string        `envconfig:"DATABASE_URL" default:"mongodb://localhost:27017"`
	Database       string        `envconfig:"DATABASE_NAME" default:"event_storyboard"`
	ConnectTimeout time.Duration `envconfig:"STORYBOARD_MONGO_CONNECT_TIMEOUT" default:"10s"`
	MaxPoolSize    uint64        `envconfig:"STORYBOARD_MONGO_MAX_POOL_SIZE" default:"50"`
}

// RedisConfig is optional; leaving both URL and address empty disables the
// redis-backed auth rate limiter.
type RedisConfig struct {
	URL          string        `envconfig:"STORYBOARD_REDIS_URL"`
	Address      string        `envconfig:"STORYBOARD_REDIS_ADDR"`
	Password     string        `envconfig:"STORYBOARD_REDIS_PASSWORD"`
	DB           int           `envconfig:"STORYBOARD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STORYBOARD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STORYBOARD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STORYBOARD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STORYBOARD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STORYBOARD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"STORYBOARD_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STORYBOARD_JWT_ISSUER" default:"event-storyboard"`
	ExpirationMinutes int    `envconfig:"STORYBOARD_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STORYBOARD_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STORYBOARD_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STORYBOARD_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STORYBOARD_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STORYBOARD_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"STORYBOARD_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"STORYBOARD_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"STORYBOARD_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"STORYBOARD_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"STORYBOARD_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"STORYBOARD_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STORYBOARD_CORS_ALLOWED_ORIGINS" default:"*"`
}

type ShareConfig struct {
	TTL time.Duration `envconfig:"STORYBOARD_SHARE_TTL" default:"336h"`
	// EnforceExpiry rejects lookups past expires_at. Off by default: links have
	// always been served regardless of expiry.
	EnforceExpiry bool `envconfig:"STORYBOARD_SHARE_ENFORCE_EXPIRY" default:"false"`
}

type MediaConfig struct {
	MaxUploadMB int    `envconfig:"STORYBOARD_MAX_UPLOAD_MB" default:"200"`
	Driver      string `envconfig:"STORYBOARD_MEDIA_DRIVER" default:"local"`
	LocalDir    string `envconfig:"STORYBOARD_MEDIA_LOCAL_DIR" default:"."`
}

// MaxUploadBytes converts the configured megabyte limit to bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 0
	}
	return int64(m.MaxUploadMB) * 1024 * 1024
}

func (m *MediaConfig) validate() error {
	m.Driver = strings.ToLower(strings.TrimSpace(m.Driver))
	switch m.Driver {
	case MediaDriverLocal, MediaDriverS3:
		return nil
	}
	return fmt.Errorf("unsupported %s %q", EnvMediaDriver, m.Driver)
}

type S3Config struct {
	Endpoint  string `envconfig:"STORYBOARD_S3_ENDPOINT"`
	AccessKey string `envconfig:"STORYBOARD_S3_ACCESS_KEY"`
	SecretKey string `envconfig:"STORYBOARD_S3_SECRET_KEY"`
	Bucket    string `envconfig:"STORYBOARD_S3_BUCKET" default:"storyboard-media"`
	UseSSL    bool   `envconfig:"STORYBOARD_S3_USE_SSL" default:"true"`
}
