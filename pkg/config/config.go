package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Cart         CartConfig
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
	Env          string `envconfig:"ARTNEBULA_APP_ENV" required:"true"`
	Port         string `envconfig:"ARTNEBULA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ARTNEBULA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ARTNEBULA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ARTNEBULA_DB_DSN"`
	Driver string `envconfig:"ARTNEBULA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ARTNEBULA_DB_HOST"`
	LegacyPort     int    `envconfig:"ARTNEBULA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ARTNEBULA_DB_USER"`
	LegacyPassword string `envconfig:"ARTNEBULA_DB_PASSWORD"`
	LegacyName     string `envconfig:"ARTNEBULA_DB_NAME"`
	LegacySSLMode  string `envconfig:"ARTNEBULA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ARTNEBULA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ARTNEBULA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ARTNEBULA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ARTNEBULA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ARTNEBULA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ARTNEBULA_REDIS_ADDR"`
	Password     string        `envconfig:"ARTNEBULA_REDIS_PASSWORD"`
	DB           int           `envconfig:"ARTNEBULA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ARTNEBULA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ARTNEBULA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ARTNEBULA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ARTNEBULA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ARTNEBULA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ARTNEBULA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ARTNEBULA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ARTNEBULA_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"ARTNEBULA_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session lifetime configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ARTNEBULA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ARTNEBULA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ARTNEBULA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ARTNEBULA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ARTNEBULA_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	TTL          time.Duration `envconfig:"ARTNEBULA_CART_TTL" default:"720h"`
	SelectionTTL time.Duration `envconfig:"ARTNEBULA_CART_SELECTION_TTL" default:"1h"`
}

type RateLimitConfig struct {
	AuthWindow     time.Duration `envconfig:"ARTNEBULA_AUTH_RATE_LIMIT_WINDOW" default:"1m"`
	AuthIPLimit    int           `envconfig:"ARTNEBULA_AUTH_RATE_LIMIT_IP" default:"20"`
	AuthEmailLimit int           `envconfig:"ARTNEBULA_AUTH_RATE_LIMIT_EMAIL" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ARTNEBULA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ARTNEBULA_AUTO_MIGRATE" default:"false"`
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
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
