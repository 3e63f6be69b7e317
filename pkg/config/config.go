package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Cart         CartConfig
	Checkout     CheckoutConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"TAVOLO_APP_ENV" default:"dev"`
	Port         string `envconfig:"TAVOLO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TAVOLO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TAVOLO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TAVOLO_DB_DSN"`
	Driver string `envconfig:"TAVOLO_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"TAVOLO_DB_HOST"`
	Port     int    `envconfig:"TAVOLO_DB_PORT" default:"5432"`
	User     string `envconfig:"TAVOLO_DB_USER"`
	Password string `envconfig:"TAVOLO_DB_PASSWORD"`
	Name     string `envconfig:"TAVOLO_DB_NAME"`
	SSLMode  string `envconfig:"TAVOLO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TAVOLO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TAVOLO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TAVOLO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TAVOLO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TAVOLO_REDIS_URL"`
	Address      string        `envconfig:"TAVOLO_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"TAVOLO_REDIS_PASSWORD"`
	DB           int           `envconfig:"TAVOLO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TAVOLO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TAVOLO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TAVOLO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TAVOLO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TAVOLO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TAVOLO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TAVOLO_JWT_ISSUER" default:"tavolo-pos"`
	ExpirationMinutes int    `envconfig:"TAVOLO_JWT_EXPIRATION_MINUTES" default:"720"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TAVOLO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TAVOLO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TAVOLO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TAVOLO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TAVOLO_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	SessionTTL time.Duration `envconfig:"TAVOLO_CART_SESSION_TTL" default:"12h"`
}

type CheckoutConfig struct {
	DefaultTaxRate float64 `envconfig:"TAVOLO_CHECKOUT_DEFAULT_TAX_RATE" default:"0"`
	OrderNoPrefix  string  `envconfig:"TAVOLO_CHECKOUT_ORDER_NO_PREFIX" default:"POS"`
}

type RateLimitConfig struct {
	LoginWindow  time.Duration `envconfig:"TAVOLO_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit int           `envconfig:"TAVOLO_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TAVOLO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TAVOLO_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	var missing []string
	for _, part := range []struct {
		env   string
		value string
	}{
		{"TAVOLO_DB_HOST", db.Host},
		{"TAVOLO_DB_USER", db.User},
		{"TAVOLO_DB_NAME", db.Name},
	} {
		if part.value == "" {
			missing = append(missing, part.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either TAVOLO_DB_DSN or %s are required", strings.Join(missing, ", "))
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
