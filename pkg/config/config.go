package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes every environment variable consumed by the platform.
const EnvPrefix = "PHONEBECH"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "PHONEBECH_DB_DSN"
	EnvDBHost = "PHONEBECH_DB_HOST"
	EnvDBUser = "PHONEBECH_DB_USER"
	EnvDBName = "PHONEBECH_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	OTPRateLimit  OTPRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Storage       StorageConfig
	Classifier    ClassifierConfig
	Ads           AdsConfig
	Resend        ResendConfig
	Registration  RegistrationConfig
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
	Env          string `envconfig:"PHONEBECH_APP_ENV" required:"true"`
	Port         string `envconfig:"PHONEBECH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PHONEBECH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PHONEBECH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PHONEBECH_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PHONEBECH_DB_DSN"`
	Driver string `envconfig:"PHONEBECH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PHONEBECH_DB_HOST"`
	LegacyPort     int    `envconfig:"PHONEBECH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PHONEBECH_DB_USER"`
	LegacyPassword string `envconfig:"PHONEBECH_DB_PASSWORD"`
	LegacyName     string `envconfig:"PHONEBECH_DB_NAME"`
	LegacySSLMode  string `envconfig:"PHONEBECH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PHONEBECH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PHONEBECH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PHONEBECH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PHONEBECH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PHONEBECH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PHONEBECH_REDIS_ADDR"`
	Password     string        `envconfig:"PHONEBECH_REDIS_PASSWORD"`
	DB           int           `envconfig:"PHONEBECH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PHONEBECH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PHONEBECH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PHONEBECH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PHONEBECH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PHONEBECH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PHONEBECH_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PHONEBECH_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"PHONEBECH_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"PHONEBECH_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PHONEBECH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PHONEBECH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PHONEBECH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PHONEBECH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PHONEBECH_ARGON_KEY_LEN" default:"32"`
}

type OTPRateLimitConfig struct {
	Window     time.Duration `envconfig:"PHONEBECH_OTP_RATE_LIMIT_WINDOW" default:"5m"`
	EmailLimit int           `envconfig:"PHONEBECH_OTP_RATE_LIMIT_EMAIL_LIMIT" default:"3"`
	IPLimit    int           `envconfig:"PHONEBECH_OTP_RATE_LIMIT_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PHONEBECH_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"PHONEBECH_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	AdDeletedTopic        string `envconfig:"PHONEBECH_PUBSUB_AD_DELETED_TOPIC" default:"pb-ad-deleted"`
	AdDeletedSubscription string `envconfig:"PHONEBECH_PUBSUB_AD_DELETED_SUBSCRIPTION" default:"pb-ad-deleted-cleanup"`
}

type StorageConfig struct {
	BaseURL    string `envconfig:"PHONEBECH_STORAGE_BASE_URL" required:"true"`
	ServiceKey string `envconfig:"PHONEBECH_STORAGE_SERVICE_KEY"`
	AdsBucket  string `envconfig:"PHONEBECH_STORAGE_ADS_BUCKET" default:"ads-images"`
}

type ClassifierConfig struct {
	Endpoint      string        `envconfig:"PHONEBECH_CLASSIFIER_ENDPOINT" required:"true"`
	Timeout       time.Duration `envconfig:"PHONEBECH_CLASSIFIER_TIMEOUT" default:"30s"`
	AllowedLabels []string      `envconfig:"PHONEBECH_CLASSIFIER_ALLOWED_LABELS" default:"Smartphone,Laptop"`
	MinConfidence float64       `envconfig:"PHONEBECH_CLASSIFIER_MIN_CONFIDENCE" default:"50"`
}

type AdsConfig struct {
	MaxImages      int   `envconfig:"PHONEBECH_ADS_MAX_IMAGES" default:"4"`
	MaxImageBytes  int64 `envconfig:"PHONEBECH_ADS_MAX_IMAGE_BYTES" default:"10485760"`
	ListingPerPage int   `envconfig:"PHONEBECH_ADS_LISTING_PER_PAGE" default:"12"`
}

type ResendConfig struct {
	APIKey      string `envconfig:"PHONEBECH_RESEND_API_KEY"`
	DefaultFrom string `envconfig:"PHONEBECH_RESEND_FROM_EMAIL" default:"PhoneBechpk <noreply@phonebechpk.com>"`
}

type RegistrationConfig struct {
	OTPTTL time.Duration `envconfig:"PHONEBECH_REGISTRATION_OTP_TTL" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   "/" + db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
