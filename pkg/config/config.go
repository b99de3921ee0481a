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
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCS           GCSConfig
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
	Env          string `envconfig:"HOOPSCOUT_APP_ENV" default:"dev"`
	Port         string `envconfig:"HOOPSCOUT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"HOOPSCOUT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"HOOPSCOUT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"HOOPSCOUT_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"HOOPSCOUT_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"HOOPSCOUT_DB_DSN"`

	Host     string `envconfig:"HOOPSCOUT_DB_HOST"`
	Port     int    `envconfig:"HOOPSCOUT_DB_PORT" default:"5432"`
	User     string `envconfig:"HOOPSCOUT_DB_USER"`
	Password string `envconfig:"HOOPSCOUT_DB_PASSWORD"`
	Name     string `envconfig:"HOOPSCOUT_DB_NAME"`
	SSLMode  string `envconfig:"HOOPSCOUT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HOOPSCOUT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HOOPSCOUT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HOOPSCOUT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HOOPSCOUT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HOOPSCOUT_REDIS_URL"`
	Address      string        `envconfig:"HOOPSCOUT_REDIS_ADDR"`
	Password     string        `envconfig:"HOOPSCOUT_REDIS_PASSWORD"`
	DB           int           `envconfig:"HOOPSCOUT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HOOPSCOUT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HOOPSCOUT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HOOPSCOUT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HOOPSCOUT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HOOPSCOUT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all. The API runs
// without Redis; only the auth rate limiter depends on it.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret     string `envconfig:"HOOPSCOUT_JWT_SECRET" required:"true"`
	Issuer     string `envconfig:"HOOPSCOUT_JWT_ISSUER" default:"hoopscout"`
	TTLSeconds int    `envconfig:"HOOPSCOUT_SESSION_TTL_SECONDS" default:"3600"`
}

// SessionTTL returns the configured session lifetime.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.TTLSeconds <= 0 {
		return 0
	}
	return time.Duration(j.TTLSeconds) * time.Second
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"HOOPSCOUT_BCRYPT_COST" default:"10"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"HOOPSCOUT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"HOOPSCOUT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"HOOPSCOUT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"HOOPSCOUT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"HOOPSCOUT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"HOOPSCOUT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"HOOPSCOUT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"HOOPSCOUT_AUTO_MIGRATE" default:"false"`
}

// GCSConfig carries the object-storage settings consumed by the image upload
// collaborator. The API itself only validates and forwards these.
type GCSConfig struct {
	BucketName      string `envconfig:"HOOPSCOUT_GCS_BUCKET_NAME"`
	CredentialsJSON string `envconfig:"HOOPSCOUT_GCS_CREDENTIALS_JSON"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	discrete := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if discrete[env] == "" {
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
