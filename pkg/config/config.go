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
	Session       SessionConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	SMTP          SMTPConfig
	Weather       WeatherConfig
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
	if cfg.App.Debug && strings.TrimSpace(cfg.App.LogLevel) == "" {
		cfg.App.LogLevel = "debug"
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CROPWATCH_APP_ENV" default:"dev"`
	Port         string `envconfig:"CROPWATCH_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"CROPWATCH_LOG_LEVEL"`
	LogWarnStack bool   `envconfig:"CROPWATCH_LOG_WARN_STACK" default:"false"`
	Debug        bool   `envconfig:"CROPWATCH_DEBUG" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"CROPWATCH_DB_DSN"`
	Driver     string `envconfig:"CROPWATCH_DB_DRIVER" default:"sqlite"`
	SQLitePath string `envconfig:"CROPWATCH_DB_SQLITE_PATH" default:"data/crop_data.db"`

	LegacyHost     string `envconfig:"CROPWATCH_DB_HOST"`
	LegacyPort     int    `envconfig:"CROPWATCH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CROPWATCH_DB_USER"`
	LegacyPassword string `envconfig:"CROPWATCH_DB_PASSWORD"`
	LegacyName     string `envconfig:"CROPWATCH_DB_NAME"`
	LegacySSLMode  string `envconfig:"CROPWATCH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CROPWATCH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CROPWATCH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CROPWATCH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CROPWATCH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the file-backed sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"CROPWATCH_REDIS_URL"`
	Address      string        `envconfig:"CROPWATCH_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"CROPWATCH_REDIS_PASSWORD"`
	DB           int           `envconfig:"CROPWATCH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CROPWATCH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CROPWATCH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CROPWATCH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CROPWATCH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CROPWATCH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	Secret       string        `envconfig:"CROPWATCH_SESSION_SECRET" required:"true"`
	Issuer       string        `envconfig:"CROPWATCH_SESSION_ISSUER" default:"cropwatch"`
	TTL          time.Duration `envconfig:"CROPWATCH_SESSION_TTL" default:"720h"`
	CookieName   string        `envconfig:"CROPWATCH_SESSION_COOKIE" default:"cropwatch_session"`
	CookieSecure bool          `envconfig:"CROPWATCH_SESSION_COOKIE_SECURE" default:"false"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CROPWATCH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CROPWATCH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CROPWATCH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CROPWATCH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CROPWATCH_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow           time.Duration `envconfig:"CROPWATCH_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIdentityLimit    int           `envconfig:"CROPWATCH_AUTH_RATE_LIMIT_LOGIN_IDENTITY_LIMIT" default:"5"`
	LoginIPLimit          int           `envconfig:"CROPWATCH_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow        time.Duration `envconfig:"CROPWATCH_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterIdentityLimit int           `envconfig:"CROPWATCH_AUTH_RATE_LIMIT_REGISTER_IDENTITY_LIMIT" default:"3"`
	RegisterIPLimit       int           `envconfig:"CROPWATCH_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate  bool `envconfig:"CROPWATCH_AUTO_MIGRATE" default:"true"`
	ResetDB      bool `envconfig:"CROPWATCH_RESET_DB" default:"false"`
	SeedDemoUser bool `envconfig:"CROPWATCH_SEED_DEMO_USER" default:"true"`
}

type SMTPConfig struct {
	Host     string        `envconfig:"CROPWATCH_SMTP_HOST" default:"smtp.gmail.com"`
	Port     int           `envconfig:"CROPWATCH_SMTP_PORT" default:"587"`
	Username string        `envconfig:"CROPWATCH_SMTP_USERNAME"`
	Password string        `envconfig:"CROPWATCH_SMTP_PASSWORD"`
	From     string        `envconfig:"CROPWATCH_SMTP_FROM"`
	Timeout  time.Duration `envconfig:"CROPWATCH_SMTP_TIMEOUT" default:"10s"`
}

// Sender returns the envelope sender, defaulting to the SMTP username.
func (s SMTPConfig) Sender() string {
	if from := strings.TrimSpace(s.From); from != "" {
		return from
	}
	return strings.TrimSpace(s.Username)
}

type WeatherConfig struct {
	BaseURL string        `envconfig:"CROPWATCH_WEATHER_BASE_URL" default:"https://api.open-meteo.com/v1"`
	Timeout time.Duration `envconfig:"CROPWATCH_WEATHER_TIMEOUT" default:"5s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CROPWATCH_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (db *DBConfig) ensureDSN() error {
	if db.IsSQLite() {
		if strings.TrimSpace(db.SQLitePath) == "" && db.DSN == "" {
			return fmt.Errorf("%s is required for the sqlite driver", EnvDBSQLitePath)
		}
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverPostgres) {
		return fmt.Errorf("unsupported %s %q", EnvDBDriver, db.Driver)
	}
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
