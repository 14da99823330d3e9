package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	PasswordReset PasswordResetConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Locks         LocksConfig
	Maintenance   MaintenanceConfig
	Blob          BlobConfig
	Sendgrid      SendgridConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"EQUILOG_APP_ENV" required:"true"`
	Port         string `envconfig:"EQUILOG_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"EQUILOG_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"EQUILOG_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"EQUILOG_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"EQUILOG_DB_DSN"`
	Driver string `envconfig:"EQUILOG_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"EQUILOG_DB_HOST"`
	Port     int    `envconfig:"EQUILOG_DB_PORT" default:"5432"`
	User     string `envconfig:"EQUILOG_DB_USER"`
	Password string `envconfig:"EQUILOG_DB_PASSWORD"`
	Name     string `envconfig:"EQUILOG_DB_NAME"`
	SSLMode  string `envconfig:"EQUILOG_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EQUILOG_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EQUILOG_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EQUILOG_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EQUILOG_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"EQUILOG_DB_SLOW_QUERY_THRESHOLD" default:"500ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"EQUILOG_REDIS_URL" required:"true"`
	Address      string        `envconfig:"EQUILOG_REDIS_ADDR"`
	Password     string        `envconfig:"EQUILOG_REDIS_PASSWORD"`
	DB           int           `envconfig:"EQUILOG_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EQUILOG_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EQUILOG_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EQUILOG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EQUILOG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EQUILOG_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"EQUILOG_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"EQUILOG_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"EQUILOG_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"EQUILOG_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"EQUILOG_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"EQUILOG_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"EQUILOG_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"EQUILOG_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"EQUILOG_ARGON_KEY_LEN" default:"32"`
}

type PasswordResetConfig struct {
	BaseURL string        `envconfig:"EQUILOG_PASSWORD_RESET_BASE_URL" default:"http://localhost:3000/reset-password"`
	TTL     time.Duration `envconfig:"EQUILOG_PASSWORD_RESET_TTL" default:"24h"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"EQUILOG_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"EQUILOG_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"EQUILOG_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"EQUILOG_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"EQUILOG_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"EQUILOG_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	ResetWindow        time.Duration `envconfig:"EQUILOG_AUTH_RATE_LIMIT_RESET_WINDOW" default:"15m"`
	ResetEmailLimit    int           `envconfig:"EQUILOG_AUTH_RATE_LIMIT_RESET_EMAIL_LIMIT" default:"3"`
	ResetIPLimit       int           `envconfig:"EQUILOG_AUTH_RATE_LIMIT_RESET_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"EQUILOG_AUTO_MIGRATE" default:"false"`
	StableLocks bool `envconfig:"EQUILOG_STABLE_LOCKS" default:"true"`
	SendEmails  bool `envconfig:"EQUILOG_SEND_EMAILS" default:"true"`
}

type LocksConfig struct {
	TTL time.Duration `envconfig:"EQUILOG_LOCKS_TTL" default:"30s"`
}

// MaintenanceConfig drives the cron worker that purges stale rows.
type MaintenanceConfig struct {
	Interval         time.Duration `envconfig:"EQUILOG_MAINTENANCE_INTERVAL" default:"1h"`
	LockTTL          time.Duration `envconfig:"EQUILOG_MAINTENANCE_LOCK_TTL" default:"55m"`
	RequestRetention time.Duration `envconfig:"EQUILOG_STABLE_REQUEST_RETENTION" default:"720h"`
}

type BlobConfig struct {
	Bucket            string        `envconfig:"EQUILOG_BLOB_BUCKET" required:"true"`
	Region            string        `envconfig:"EQUILOG_BLOB_REGION" default:"eu-north-1"`
	Endpoint          string        `envconfig:"EQUILOG_BLOB_ENDPOINT"`
	AccessKey         string        `envconfig:"EQUILOG_BLOB_ACCESS_KEY"`
	SecretKey         string        `envconfig:"EQUILOG_BLOB_SECRET_KEY"`
	UploadURLExpiry   time.Duration `envconfig:"EQUILOG_BLOB_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"EQUILOG_BLOB_DOWNLOAD_URL_EXPIRY" default:"24h"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"EQUILOG_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"EQUILOG_SENDGRID_FROM_EMAIL" default:"no-reply@equilog.app"`
	FromName    string `envconfig:"EQUILOG_SENDGRID_FROM_NAME" default:"Equilog"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"EQUILOG_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

// LoadMigrate reads only the settings needed by the migrate binary.
func LoadMigrate() (AppConfig, DBConfig, error) {
	var app AppConfig
	if err := envconfig.Process(EnvPrefix, &app); err != nil {
		return AppConfig{}, DBConfig{}, fmt.Errorf("parsing app config: %w", err)
	}
	var db DBConfig
	if err := envconfig.Process(EnvPrefix, &db); err != nil {
		return AppConfig{}, DBConfig{}, fmt.Errorf("parsing db config: %w", err)
	}
	if err := db.ensureDSN(); err != nil {
		return AppConfig{}, DBConfig{}, err
	}
	return app, db, nil
}
